package ai

// AIResponse is the caller-facing projection of a StructuredResult.
// Response is never empty; Charts and Summary are either well formed or nil.
type AIResponse struct {
	Response string            `json:"response"`
	Charts   []ChartDescriptor `json:"charts,omitempty"`
	Summary  *Summary          `json:"summary,omitempty"`
}

type ChartDescriptor struct {
	Type        ChartType        `json:"type"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	Data        []map[string]any `json:"data"`
	XKey        string           `json:"xKey"`
	YKey        string           `json:"yKey"`
}

type Summary struct {
	Title    string          `json:"title"`
	Metrics  []SummaryMetric `json:"metrics"`
	Insights []string        `json:"insights"`
}

type SummaryMetric struct {
	Title        string     `json:"title"`
	Value        string     `json:"value"`
	NumericValue *float64   `json:"numericValue,omitempty"`
	Change       float64    `json:"change"`
	ChangeType   ChangeType `json:"changeType"`
	Icon         string     `json:"icon"`
	Description  string     `json:"description,omitempty"`
	Category     string     `json:"category,omitempty"`
}
