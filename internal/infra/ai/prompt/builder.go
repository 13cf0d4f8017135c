package prompt

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/bryanwahyu/boardroom-ai/internal/domain/ai"
)

// DocumentCharBudget caps the extracted text included per document.
const DocumentCharBudget = 1000

// GetSystemPrompt provides strict directions for JSON-only output.
func GetSystemPrompt() string {
	return `You are an expert board governance assistant. You help board members and executives understand their board materials: financial statements, strategy papers, risk registers, compliance reports, and meeting minutes.

You must produce one valid JSON object only (no markdown, no commentary, no code fences) that follows the schema below.

Requirements:
- Output must be a single JSON object.
- Use lowercase enum values exactly as listed in the schema.
- Base every statement on the supplied documents; if the documents do not cover the question, say so in executiveSummary.overview.
- metrics and charts must only contain figures that appear in or follow directly from the documents.
- Keep text concise and suitable for a board audience.`
}

// GetSchemaPrompt describes the required output schema.
func GetSchemaPrompt() string {
	return `Schema (example with empty values):
{
  "executiveSummary": {
    "title": "<string>",
    "overview": "<string>",
    "keyPoints": ["<string>"],
    "riskLevel": "<low|medium|high>",
    "actionRequired": <boolean>
  },
  "analysis": {
    "introduction": "<string>",
    "sections": [
      {"title": "<string>", "content": "<string>", "insights": ["<string>"], "importance": "<low|medium|high>"}
    ],
    "conclusion": "<string>"
  },
  "metrics": [
    {"title": "<string>", "value": "<string>", "numericValue": <number>, "change": <number>, "changeType": "<positive|negative|neutral>", "icon": "<string>", "description": "<string>", "category": "<string>"}
  ],
  "insights": [
    {"title": "<string>", "description": "<string>", "impact": "<string>", "category": "<string>", "actionItems": ["<string>"]}
  ],
  "charts": [
    {"type": "<bar|line|pie|area>", "title": "<string>", "description": "<string>", "data": [{"label": "<string>", "value": <number>}], "xKey": "label", "yKey": "value"}
  ],
  "recommendations": [
    {"title": "<string>", "description": "<string>", "priority": "<low|medium|high>", "timeframe": "<string>", "category": "<string>", "expectedOutcome": "<string>"}
  ],
  "riskAssessment": {
    "overallScore": <number 0-10>,
    "risks": [
      {"title": "<string>", "description": "<string>", "probability": "<string>", "impact": "<string>", "severity": "<low|medium|high>", "mitigation": "<string>"}
    ]
  },
  "metadata": {
    "analysisType": "<string>",
    "confidence": "<string>",
    "dataQuality": "<string>",
    "lastUpdated": "<string>",
    "sources": ["<document name>"]
  }
}`
}

// GetDocumentContext renders the per-document context block.
func GetDocumentContext(docs []ai.Document) string {
	if len(docs) == 0 {
		return "Documents: none. No board documents have been uploaded yet."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Documents (%d):\n", len(docs))
	for i, d := range docs {
		name := strings.TrimSpace(d.Name)
		if name == "" {
			name = fmt.Sprintf("document-%d", i+1)
		}
		fmt.Fprintf(&b, "\n[Document %d: %s]\n", i+1, name)
		text := strings.TrimSpace(d.ExtractedText)
		if text == "" {
			b.WriteString("(no extractable text)\n")
			continue
		}
		b.WriteString(truncate(text, DocumentCharBudget))
		b.WriteString("\n")
	}
	return b.String()
}

// GetUserPrompt wraps the literal user prompt, with the action focus when set.
func GetUserPrompt(req ai.AnalysisRequest) string {
	var b strings.Builder
	if req.Action().IsPredefined() {
		fmt.Fprintf(&b, "Requested analysis: %s.\n", req.Action().Label())
	}
	fmt.Fprintf(&b, "User request: %s\n\nRespond with the JSON object per schema.", req.Prompt())
	return b.String()
}

// Build assembles the full payload sent to the model. It is a pure function
// of req.
func Build(req ai.AnalysisRequest) string {
	parts := []string{
		GetSystemPrompt(),
		GetSchemaPrompt(),
		GetDocumentContext(req.Documents()),
		GetUserPrompt(req),
	}
	return strings.Join(parts, "\n\n")
}

// truncate keeps at most n characters (runes), marking the cut.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n]) + "..."
}
