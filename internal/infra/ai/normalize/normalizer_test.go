package normalize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/boardroom-ai/internal/domain/ai"
)

func ptr[T any](v T) *T { return &v }

func fullResult() *ai.StructuredResult {
	return &ai.StructuredResult{
		ExecutiveSummary: &ai.ExecutiveSummary{
			Title:     "Q3 Financial Review",
			Overview:  "Revenue exceeded plan.",
			KeyPoints: ai.StringList{"Revenue +4%", "Costs flat"},
		},
		Analysis: &ai.AnalysisBody{
			Introduction: "This review covers Q3.",
			Sections: []ai.Section{
				{Title: "Revenue", Content: "Strong subscription growth.", Insights: ai.StringList{"Churn down"}},
				{},
			},
			Conclusion: "Outlook positive.",
		},
		Metrics: []ai.Metric{
			{Title: "Revenue", Value: "12.4M", Change: ai.Number(4.2), ChangeType: ptr(ai.ChangePositive), Icon: ptr("dollar")},
			{Title: "Headcount", Value: "210"},
		},
		Insights: []ai.Insight{
			{Title: "Subscriptions", Description: "Recurring revenue now 60% of total"},
			{Title: "Only title"},
			{},
		},
		Charts: []ai.Chart{
			{Type: "line", Title: "Revenue trend", Data: []map[string]any{{"quarter": "Q3", "amount": 12.4}}, XKey: ptr("quarter"), YKey: ptr("amount")},
			{Title: "No type or keys"},
			{Type: "radar", Title: "Unsupported"},
		},
		Recommendations: []ai.Recommendation{
			{Title: "Expand sales team", Description: "Hire 5 AEs in Q4."},
			{Title: "Review pricing"},
		},
	}
}

func TestNormalize_ResponseOrder(t *testing.T) {
	got := Normalize(fullResult()).Response

	order := []string{
		"## Q3 Financial Review",
		"Revenue exceeded plan.",
		"**Key Points:**\n- Revenue +4%\n- Costs flat",
		"This review covers Q3.",
		"### Revenue\n\nStrong subscription growth.\n\n- Churn down",
		"### Conclusion\nOutlook positive.",
		"### Recommendations\n1. **Expand sales team**: Hire 5 AEs in Q4.\n2. **Review pricing**",
	}
	last := -1
	for _, part := range order {
		idx := strings.Index(got, part)
		require.GreaterOrEqual(t, idx, 0, "missing %q in:\n%s", part, got)
		assert.Greater(t, idx, last, "out of order: %q", part)
		last = idx
	}
	// the empty section must not produce a stray header
	assert.NotContains(t, got, "### \n")
}

func TestNormalize_SummaryDefaults(t *testing.T) {
	got := Normalize(fullResult())

	require.NotNil(t, got.Summary)
	assert.Equal(t, "Q3 Financial Review", got.Summary.Title)
	require.Len(t, got.Summary.Metrics, 2)

	assert.Equal(t, ai.SummaryMetric{Title: "Revenue", Value: "12.4M", Change: 4.2, ChangeType: ai.ChangePositive, Icon: "dollar"}, got.Summary.Metrics[0])
	assert.Equal(t, ai.SummaryMetric{Title: "Headcount", Value: "210", Change: 0, ChangeType: ai.ChangeNeutral, Icon: DefaultIcon}, got.Summary.Metrics[1])

	assert.Equal(t, []string{"Recurring revenue now 60% of total", "Only title"}, got.Summary.Insights)
}

func TestNormalize_SummaryTitleFallback(t *testing.T) {
	got := Normalize(&ai.StructuredResult{Metrics: []ai.Metric{{Title: "x", Value: "1"}}})
	require.NotNil(t, got.Summary)
	assert.Equal(t, DefaultSummaryTitle, got.Summary.Title)
	assert.NotNil(t, got.Summary.Insights)
}

func TestNormalize_Charts(t *testing.T) {
	got := Normalize(fullResult()).Charts

	require.Len(t, got, 2)
	assert.Equal(t, ai.ChartDescriptor{
		Type: ai.ChartLine, Title: "Revenue trend",
		Data: []map[string]any{{"quarter": "Q3", "amount": 12.4}},
		XKey: "quarter", YKey: "amount",
	}, got[0])
	assert.Equal(t, ai.ChartBar, got[1].Type)
	assert.Equal(t, DefaultXKey, got[1].XKey)
	assert.Equal(t, DefaultYKey, got[1].YKey)
	assert.NotNil(t, got[1].Data)
	assert.Empty(t, got[1].Data)
}

func TestNormalize_OnlyUnsupportedChartsYieldsNil(t *testing.T) {
	got := Normalize(&ai.StructuredResult{Charts: []ai.Chart{{Type: "radar"}}})
	assert.Nil(t, got.Charts)
}

func TestNormalize_PartialInputs(t *testing.T) {
	tests := []struct {
		name        string
		in          *ai.StructuredResult
		contains    []string
		wantSummary bool
		wantCharts  bool
	}{
		{name: "nil result", in: nil, contains: []string{"no narrative details"}},
		{name: "empty result", in: &ai.StructuredResult{}, contains: []string{"no narrative details"}},
		{
			name:     "executive summary only",
			in:       &ai.StructuredResult{ExecutiveSummary: &ai.ExecutiveSummary{Title: "X", Overview: "Y"}},
			contains: []string{"## X", "Y"},
		},
		{
			name:     "overview without title",
			in:       &ai.StructuredResult{ExecutiveSummary: &ai.ExecutiveSummary{Overview: "Just text"}},
			contains: []string{"Just text"},
		},
		{
			name:     "analysis with empty sections",
			in:       &ai.StructuredResult{Analysis: &ai.AnalysisBody{Sections: []ai.Section{{}, {Content: "body"}}}},
			contains: []string{"body"},
		},
		{
			name:        "metrics only",
			in:          &ai.StructuredResult{Metrics: []ai.Metric{{Title: "m"}}},
			contains:    []string{"no narrative details"},
			wantSummary: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			assert.NotEmpty(t, got.Response)
			for _, c := range tt.contains {
				assert.Contains(t, got.Response, c)
			}
			assert.Equal(t, tt.wantSummary, got.Summary != nil)
			assert.Equal(t, tt.wantCharts, got.Charts != nil)
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	assert.Equal(t, Normalize(fullResult()), Normalize(fullResult()))
}

func TestNormalize_UnknownChangeTypeDefaultsToNeutral(t *testing.T) {
	got := Normalize(&ai.StructuredResult{Metrics: []ai.Metric{{Title: "m", ChangeType: ptr(ai.ChangeType("up")), Icon: ptr("  ")}}})
	require.NotNil(t, got.Summary)
	assert.Equal(t, ai.ChangeNeutral, got.Summary.Metrics[0].ChangeType)
	assert.Equal(t, DefaultIcon, got.Summary.Metrics[0].Icon)
}
