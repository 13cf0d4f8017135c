package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	domain "github.com/bryanwahyu/boardroom-ai/internal/domain/analyst"
)

const schema = `
CREATE TABLE IF NOT EXISTS board_analyses (
  id              TEXT        PRIMARY KEY,
  tenant_id       TEXT        NOT NULL,
  prompt          TEXT        NOT NULL,
  action          TEXT        NOT NULL DEFAULT '',
  document_count  INTEGER     NOT NULL DEFAULT 0,
  provider        TEXT        NOT NULL DEFAULT '',
  degraded        BOOLEAN     NOT NULL DEFAULT FALSE,
  fallback_reason TEXT        NOT NULL DEFAULT '',
  report_url      TEXT        NOT NULL DEFAULT '',
  result_json     JSONB       NOT NULL,
  created_at      TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_board_analyses_tenant_created ON board_analyses (tenant_id, created_at DESC);`

type AnalystRepository struct {
	db *sql.DB
}

func NewAnalystRepository(db *sql.DB) *AnalystRepository {
	return &AnalystRepository{db: db}
}

func (r *AnalystRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create board_analyses: %w", err)
	}
	return nil
}

// Save inserts or updates an analysis record
func (r *AnalystRepository) Save(ctx context.Context, a *domain.Analysis) error {
	const q = `
INSERT INTO board_analyses
  (id, tenant_id, prompt, action, document_count, provider, degraded, fallback_reason, report_url, result_json, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
ON CONFLICT (id) DO UPDATE SET
  provider=EXCLUDED.provider,
  degraded=EXCLUDED.degraded,
  fallback_reason=EXCLUDED.fallback_reason,
  report_url=EXCLUDED.report_url,
  result_json=EXCLUDED.result_json;
`
	tenant := stringOrDash(a.TenantID)
	result := a.Result
	if strings.TrimSpace(result) == "" {
		result = "{}"
	}
	createdAt := a.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, q,
		a.ID, tenant, a.Prompt, a.Action, a.DocumentCount, a.Provider,
		a.Degraded, a.FallbackReason, a.ReportURL, result, createdAt,
	)
	if err != nil {
		return fmt.Errorf("save analysis %s: %w", a.ID, err)
	}
	return nil
}

func (r *AnalystRepository) Get(ctx context.Context, tenant string, id domain.AnalysisID) (*domain.Analysis, error) {
	const q = `
SELECT id, tenant_id, prompt, action, document_count, provider, degraded, fallback_reason, report_url, result_json, created_at
FROM board_analyses
WHERE tenant_id=$1 AND id=$2;`
	row := r.db.QueryRowContext(ctx, q, tenant, id)
	var a domain.Analysis
	var created time.Time
	if err := row.Scan(&a.ID, &a.TenantID, &a.Prompt, &a.Action, &a.DocumentCount, &a.Provider,
		&a.Degraded, &a.FallbackReason, &a.ReportURL, &a.Result, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("analysis %s: %w", id, sql.ErrNoRows)
		}
		return nil, err
	}
	a.CreatedAt = created
	return &a, nil
}

// Paginate returns a page of analysis records ordered by created_at desc
func (r *AnalystRepository) Paginate(ctx context.Context, tenant string, page, pageSize int) ([]*domain.Analysis, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	const q = `
SELECT id, tenant_id, prompt, action, document_count, provider, degraded, fallback_reason, report_url, result_json, created_at
FROM board_analyses
WHERE tenant_id=$1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3;
`
	rows, err := r.db.QueryContext(ctx, q, tenant, pageSize, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*domain.Analysis, 0, pageSize)
	for rows.Next() {
		var a domain.Analysis
		var created time.Time
		if err := rows.Scan(&a.ID, &a.TenantID, &a.Prompt, &a.Action, &a.DocumentCount, &a.Provider,
			&a.Degraded, &a.FallbackReason, &a.ReportURL, &a.Result, &created); err != nil {
			return nil, err
		}
		a.CreatedAt = created
		out = append(out, &a)
	}
	return out, rows.Err()
}
