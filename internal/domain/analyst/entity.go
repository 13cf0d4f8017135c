package analyst

import "time"

// AnalysisID identifier type
type AnalysisID string

// Analysis is one assistant answer kept for auditing and retrieval
type Analysis struct {
	ID             AnalysisID `json:"id"`
	TenantID       string     `json:"tenant_id"`
	Prompt         string     `json:"prompt"`
	Action         string     `json:"action,omitempty"`
	DocumentCount  int        `json:"document_count"`
	Provider       string     `json:"provider,omitempty"`
	Degraded       bool       `json:"degraded"`
	FallbackReason string     `json:"fallback_reason,omitempty"`
	ReportURL      string     `json:"report_url,omitempty"`
	Result         string     `json:"result"` // AIResponse as JSON
	CreatedAt      time.Time  `json:"created_at"`
}
