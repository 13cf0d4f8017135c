package mysql

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
  id              VARCHAR(36)  NOT NULL PRIMARY KEY,
  tenant_id       VARCHAR(64)  NOT NULL,
  prompt          TEXT         NOT NULL,
  action          VARCHAR(64)  NOT NULL DEFAULT '',
  document_count  INT          NOT NULL DEFAULT 0,
  provider        VARCHAR(64)  NOT NULL DEFAULT '',
  degraded        BOOLEAN      NOT NULL DEFAULT FALSE,
  fallback_reason VARCHAR(255) NOT NULL DEFAULT '',
  report_url      VARCHAR(1024) NOT NULL DEFAULT '',
  result_json     JSON         NOT NULL,
  created_at      DATETIME(6)  NOT NULL,
  INDEX idx_board_analyses_tenant_created (tenant_id, created_at)
);`

type AnalystRepository struct {
	db *sql.DB
}

func NewAnalystRepository(db *sql.DB) *AnalystRepository {
	return &AnalystRepository{db: db}
}

// EnsureSchema creates the board_analyses table when missing.
func (r *AnalystRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create board_analyses: %w", err)
	}
	return nil
}

// Save inserts an analysis record
func (r *AnalystRepository) Save(ctx context.Context, a *domain.Analysis) error {
	const q = `
INSERT INTO board_analyses
  (id, tenant_id, prompt, action, document_count, provider, degraded, fallback_reason, report_url, result_json, created_at)
VALUES (?,?,?,?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
  provider=VALUES(provider), degraded=VALUES(degraded), fallback_reason=VALUES(fallback_reason),
  report_url=VALUES(report_url), result_json=VALUES(result_json);
`
	tenant := stringOrDash(a.TenantID)
	result := a.Result
	if strings.TrimSpace(result) == "" {
		// result_json column requires valid JSON; use empty object
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

// Get returns sql.ErrNoRows (wrapped) when the analysis does not exist.
func (r *AnalystRepository) Get(ctx context.Context, tenant string, id domain.AnalysisID) (*domain.Analysis, error) {
	const q = `
SELECT id, tenant_id, prompt, action, document_count, provider, degraded, fallback_reason, report_url, result_json, created_at
FROM board_analyses
WHERE tenant_id=? AND id=?;
`
	a, err := scanAnalysis(r.db.QueryRowContext(ctx, q, tenant, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("analysis %s: %w", id, sql.ErrNoRows)
		}
		return nil, err
	}
	return a, nil
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
WHERE tenant_id=?
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?;
`
	rows, err := r.db.QueryContext(ctx, q, tenant, pageSize, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*domain.Analysis, 0, pageSize)
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(s rowScanner) (*domain.Analysis, error) {
	var a domain.Analysis
	var created time.Time
	if err := s.Scan(&a.ID, &a.TenantID, &a.Prompt, &a.Action, &a.DocumentCount, &a.Provider,
		&a.Degraded, &a.FallbackReason, &a.ReportURL, &a.Result, &created); err != nil {
		return nil, err
	}
	a.CreatedAt = created
	return &a, nil
}
