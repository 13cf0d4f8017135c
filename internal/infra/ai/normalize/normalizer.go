// Package normalize projects a StructuredResult onto the AIResponse the
// frontend renders.
package normalize

import (
	"fmt"
	"strings"

	"github.com/bryanwahyu/boardroom-ai/internal/domain/ai"
)

const (
	DefaultSummaryTitle = "Analysis Summary"
	DefaultIcon         = "target"
	DefaultXKey         = "label"
	DefaultYKey         = "value"

	// emptyResponse is used when the result carries no narrative at all.
	emptyResponse = "The analysis completed, but no narrative details were returned. Try rephrasing the request or attaching the relevant board documents."
)

// Normalize never fails: missing blocks are skipped, missing fields get
// defaults. The same input always yields the same output.
func Normalize(r *ai.StructuredResult) ai.AIResponse {
	if r == nil {
		r = &ai.StructuredResult{}
	}
	return ai.AIResponse{
		Response: buildResponse(r),
		Charts:   buildCharts(r.Charts),
		Summary:  buildSummary(r),
	}
}

func buildResponse(r *ai.StructuredResult) string {
	var parts []string

	if es := r.ExecutiveSummary; es != nil {
		if t := strings.TrimSpace(es.Title); t != "" {
			parts = append(parts, "## "+t)
		}
		if o := strings.TrimSpace(es.Overview); o != "" {
			parts = append(parts, o)
		}
		if kp := bulletList(es.KeyPoints); kp != "" {
			parts = append(parts, "**Key Points:**\n"+kp)
		}
	}

	if a := r.Analysis; a != nil {
		if intro := strings.TrimSpace(a.Introduction); intro != "" {
			parts = append(parts, intro)
		}
		for _, s := range a.Sections {
			if sec := renderSection(s); sec != "" {
				parts = append(parts, sec)
			}
		}
		if c := strings.TrimSpace(a.Conclusion); c != "" {
			parts = append(parts, "### Conclusion\n"+c)
		}
	}

	if recs := renderRecommendations(r.Recommendations); recs != "" {
		parts = append(parts, "### Recommendations\n"+recs)
	}

	if len(parts) == 0 {
		return emptyResponse
	}
	return strings.Join(parts, "\n\n")
}

func renderSection(s ai.Section) string {
	var lines []string
	if t := strings.TrimSpace(s.Title); t != "" {
		lines = append(lines, "### "+t)
	}
	if c := strings.TrimSpace(s.Content); c != "" {
		lines = append(lines, c)
	}
	if ins := bulletList(s.Insights); ins != "" {
		lines = append(lines, ins)
	}
	return strings.Join(lines, "\n\n")
}

func renderRecommendations(recs []ai.Recommendation) string {
	var lines []string
	n := 0
	for _, rec := range recs {
		title := strings.TrimSpace(rec.Title)
		desc := strings.TrimSpace(rec.Description)
		if title == "" && desc == "" {
			continue
		}
		n++
		switch {
		case title != "" && desc != "":
			lines = append(lines, fmt.Sprintf("%d. **%s**: %s", n, title, desc))
		case title != "":
			lines = append(lines, fmt.Sprintf("%d. **%s**", n, title))
		default:
			lines = append(lines, fmt.Sprintf("%d. %s", n, desc))
		}
	}
	return strings.Join(lines, "\n")
}

func bulletList(items []string) string {
	var lines []string
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			lines = append(lines, "- "+it)
		}
	}
	return strings.Join(lines, "\n")
}

func buildSummary(r *ai.StructuredResult) *ai.Summary {
	if len(r.Metrics) == 0 {
		return nil
	}

	title := DefaultSummaryTitle
	if r.ExecutiveSummary != nil && strings.TrimSpace(r.ExecutiveSummary.Title) != "" {
		title = strings.TrimSpace(r.ExecutiveSummary.Title)
	}

	metrics := make([]ai.SummaryMetric, 0, len(r.Metrics))
	for _, m := range r.Metrics {
		metrics = append(metrics, summaryMetric(m))
	}

	insights := make([]string, 0, len(r.Insights))
	for _, in := range r.Insights {
		text := strings.TrimSpace(in.Description)
		if text == "" {
			text = strings.TrimSpace(in.Title)
		}
		if text != "" {
			insights = append(insights, text)
		}
	}

	return &ai.Summary{Title: title, Metrics: metrics, Insights: insights}
}

func summaryMetric(m ai.Metric) ai.SummaryMetric {
	out := ai.SummaryMetric{
		Title:       m.Title,
		Value:       string(m.Value),
		ChangeType:  ai.ChangeNeutral,
		Icon:        DefaultIcon,
		Description: m.Description,
		Category:    m.Category,
	}
	if m.NumericValue.Set {
		v := m.NumericValue.Value
		out.NumericValue = &v
	}
	if m.Change.Set {
		out.Change = m.Change.Value
	}
	if m.ChangeType != nil {
		switch ct := ai.ChangeType(strings.ToLower(string(*m.ChangeType))); ct {
		case ai.ChangePositive, ai.ChangeNegative, ai.ChangeNeutral:
			out.ChangeType = ct
		}
	}
	if m.Icon != nil && strings.TrimSpace(*m.Icon) != "" {
		out.Icon = strings.TrimSpace(*m.Icon)
	}
	return out
}

// buildCharts drops entries with an unknown chart type; a missing type is
// treated as bar.
func buildCharts(charts []ai.Chart) []ai.ChartDescriptor {
	if len(charts) == 0 {
		return nil
	}
	out := make([]ai.ChartDescriptor, 0, len(charts))
	for _, c := range charts {
		typ := ai.ChartType(strings.ToLower(strings.TrimSpace(string(c.Type))))
		if typ == "" {
			typ = ai.ChartBar
		}
		if !typ.Valid() {
			continue
		}
		data := c.Data
		if data == nil {
			data = []map[string]any{}
		}
		out = append(out, ai.ChartDescriptor{
			Type:        typ,
			Title:       c.Title,
			Description: c.Description,
			Data:        data,
			XKey:        keyOr(c.XKey, DefaultXKey),
			YKey:        keyOr(c.YKey, DefaultYKey),
		})
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func keyOr(k *string, def string) string {
	if k == nil || strings.TrimSpace(*k) == "" {
		return def
	}
	return strings.TrimSpace(*k)
}
