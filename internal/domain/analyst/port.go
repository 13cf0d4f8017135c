package analyst

import "context"

// Repository port for persisting and querying analyses
type Repository interface {
	Save(ctx context.Context, a *Analysis) error
	Get(ctx context.Context, tenant string, id AnalysisID) (*Analysis, error)
	Paginate(ctx context.Context, tenant string, page, pageSize int) ([]*Analysis, error)
}

// ReportStore archives the full structured result of an analysis
type ReportStore interface {
	PutReport(ctx context.Context, key string, data []byte) (string, error)
}
