package ai

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Document is an uploaded file reduced to its extracted text.
type Document struct {
	Name          string `json:"name"`
	ExtractedText string `json:"extractedText"`
}

// Action identifies the predefined analysis action that triggered a request.
// The zero value is a free-form chat request.
type Action string

const (
	ActionNone              Action = ""
	ActionFinancialAnalysis Action = "financial-analysis"
	ActionRiskAssessment    Action = "risk-assessment"
	ActionStrategicReview   Action = "strategic-review"
	ActionComplianceCheck   Action = "compliance-check"
	ActionPerformanceReview Action = "performance-review"
	ActionBoardSummary      Action = "board-summary"
)

var actionLabels = map[Action]string{
	ActionFinancialAnalysis: "Financial analysis",
	ActionRiskAssessment:    "Risk assessment",
	ActionStrategicReview:   "Strategic review",
	ActionComplianceCheck:   "Compliance check",
	ActionPerformanceReview: "Performance review",
	ActionBoardSummary:      "Board summary",
}

// Actions lists the predefined actions in display order.
func Actions() []Action {
	return []Action{
		ActionFinancialAnalysis,
		ActionRiskAssessment,
		ActionStrategicReview,
		ActionComplianceCheck,
		ActionPerformanceReview,
		ActionBoardSummary,
	}
}

// ParseAction accepts "" or one of the predefined action names.
func ParseAction(s string) (Action, bool) {
	a := Action(strings.ToLower(strings.TrimSpace(s)))
	if a == ActionNone {
		return ActionNone, true
	}
	_, ok := actionLabels[a]
	return a, ok
}

// IsPredefined reports whether a came from the action catalogue.
func (a Action) IsPredefined() bool {
	_, ok := actionLabels[a]
	return ok
}

// Label is the human readable name of a predefined action.
func (a Action) Label() string {
	return actionLabels[a]
}

// AnalysisRequest is immutable once constructed; use NewAnalysisRequest.
type AnalysisRequest struct {
	prompt    string
	documents []Document
	action    Action
}

func NewAnalysisRequest(prompt string, docs []Document, action Action) AnalysisRequest {
	cp := make([]Document, len(docs))
	copy(cp, docs)
	return AnalysisRequest{prompt: prompt, documents: cp, action: action}
}

func (r AnalysisRequest) Prompt() string { return r.prompt }

func (r AnalysisRequest) Action() Action { return r.action }

// Documents returns a copy of the request documents.
func (r AnalysisRequest) Documents() []Document {
	cp := make([]Document, len(r.documents))
	copy(cp, r.documents)
	return cp
}

func (r AnalysisRequest) HasDocuments() bool { return len(r.documents) > 0 }

// Fingerprint identifies the request content for a given provider. Two
// requests with the same fingerprint get the same model input.
func (r AnalysisRequest) Fingerprint(provider string) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%s\x00", provider, r.action, r.prompt)
	for _, d := range r.documents {
		fmt.Fprintf(h, "%s\x00%s\x00", d.Name, d.ExtractedText)
	}
	return hex.EncodeToString(h.Sum(nil))
}
