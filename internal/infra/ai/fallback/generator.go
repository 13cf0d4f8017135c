// Package fallback produces a deterministic answer without calling a model.
// It is used whenever invocation or parsing fails.
package fallback

import (
	"time"

	"github.com/bryanwahyu/boardroom-ai/internal/domain/ai"
	"github.com/bryanwahyu/boardroom-ai/internal/infra/ai/normalize"
)

const uploadGuidance = "No board documents have been uploaded yet. Upload documents such as board minutes or financial statements and ask again for an analysis grounded in your own materials."

type Generator struct {
	now func() time.Time
}

// New returns a Generator that stamps metadata.lastUpdated with now().
// A nil now uses time.Now.
func New(now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{now: now}
}

// Respond builds the fallback result for req and normalizes it.
func (g *Generator) Respond(req ai.AnalysisRequest) ai.AIResponse {
	return normalize.Normalize(g.Generate(req))
}

// Generate depends only on the prompt text, whether documents are present
// and whether the request carries a predefined action.
func (g *Generator) Generate(req ai.AnalysisRequest) *ai.StructuredResult {
	t := selectTopic(req.Prompt())
	hasDocs := req.HasDocuments()
	withData := req.Action().IsPredefined()

	res := &ai.StructuredResult{
		ExecutiveSummary: &ai.ExecutiveSummary{
			Title:    t.title,
			Overview: t.intro,
		},
		Analysis: &ai.AnalysisBody{Introduction: t.intro},
		Metadata: &ai.Metadata{
			AnalysisType: t.analysisType,
			Confidence:   "low",
			DataQuality:  "unavailable",
			LastUpdated:  g.now().UTC().Format(time.RFC3339),
		},
	}

	if hasDocs {
		res.ExecutiveSummary.Overview = "Your documents were received, but a detailed analysis could not be completed right now."
		res.ExecutiveSummary.KeyPoints = ai.StringList{"Documents are available for analysis", "Retry shortly for a document-specific answer"}
		res.Analysis.Conclusion = "Retry the request shortly to receive an analysis based on the uploaded documents."
	} else {
		res.ExecutiveSummary.Overview = uploadGuidance
		res.ExecutiveSummary.KeyPoints = ai.StringList{"Upload board documents to get started"}
		res.Analysis.Conclusion = "Once documents are uploaded, ask again for a tailored analysis."
	}

	for _, s := range t.sections {
		res.Analysis.Sections = append(res.Analysis.Sections, ai.Section{Title: s[0], Content: s[1], Importance: ai.LevelMedium})
	}

	if !hasDocs {
		res.Recommendations = append(res.Recommendations, ai.Recommendation{
			Title:       "Upload board documents",
			Description: "Add the relevant board papers so the assistant can analyse them directly.",
			Priority:    "high",
		})
	}
	for _, r := range t.recs {
		res.Recommendations = append(res.Recommendations, ai.Recommendation{Title: r[0], Description: r[1], Priority: "medium"})
	}

	if withData {
		if hasDocs {
			res.Metrics = readinessMetrics()
			res.Insights = []ai.Insight{
				{Title: "Documents ready", Description: "Uploaded documents are indexed and ready for analysis."},
				{Title: "Retry suggested", Description: "A full analysis will be available when the assistant service responds."},
			}
			res.Charts = focusCharts(t)
		} else {
			res.Metrics = gettingStartedMetrics()
			res.Insights = []ai.Insight{
				{Title: "Upload documents", Description: "Upload board documents to unlock document-based analysis."},
				{Title: "Choose an action", Description: "Pick a predefined analysis once documents are available."},
			}
		}
	}

	return res
}

func gettingStartedMetrics() []ai.Metric {
	return []ai.Metric{
		{Title: "Documents Uploaded", Value: "0", NumericValue: ai.Number(0), Change: ai.Number(0), ChangeType: changePtr(ai.ChangeNeutral), Icon: strPtr("file"), Category: "setup"},
		{Title: "AI Status", Value: "Active", Change: ai.Number(0), ChangeType: changePtr(ai.ChangePositive), Icon: strPtr("activity"), Category: "system"},
	}
}

func readinessMetrics() []ai.Metric {
	return []ai.Metric{
		{Title: "Documents", Value: "Available", ChangeType: changePtr(ai.ChangePositive), Icon: strPtr("file"), Category: "system"},
		{Title: "AI Status", Value: "Active", ChangeType: changePtr(ai.ChangePositive), Icon: strPtr("activity"), Category: "system"},
		{Title: "Analysis Mode", Value: "Summary", ChangeType: changePtr(ai.ChangeNeutral), Icon: strPtr("target"), Category: "system"},
	}
}

// focusCharts gives the board a neutral starting view of the topic's focus
// areas; every area carries the same weight.
func focusCharts(t topic) []ai.Chart {
	data := make([]map[string]any, 0, len(t.focus))
	for _, f := range t.focus {
		data = append(data, map[string]any{"label": f, "value": 1})
	}
	return []ai.Chart{{
		Type:        ai.ChartBar,
		Title:       t.title + " Focus Areas",
		Description: "Areas to cover in the full analysis.",
		Data:        data,
		XKey:        strPtr("label"),
		YKey:        strPtr("value"),
	}}
}

func strPtr(s string) *string                  { return &s }
func changePtr(c ai.ChangeType) *ai.ChangeType { return &c }
