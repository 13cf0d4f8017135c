package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Level is the low/medium/high scale used for risk and importance.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// ChangeType tags the direction of a metric change.
type ChangeType string

const (
	ChangePositive ChangeType = "positive"
	ChangeNegative ChangeType = "negative"
	ChangeNeutral  ChangeType = "neutral"
)

// ChartType enumerates the chart kinds the UI can render.
type ChartType string

const (
	ChartBar  ChartType = "bar"
	ChartLine ChartType = "line"
	ChartPie  ChartType = "pie"
	ChartArea ChartType = "area"
)

// Valid reports whether t is one of the renderable chart kinds.
func (t ChartType) Valid() bool {
	switch t {
	case ChartBar, ChartLine, ChartPie, ChartArea:
		return true
	}
	return false
}

// StructuredResult is the JSON document the model is instructed to return.
// Nested objects are pointers so an omitted block can be told apart from an
// empty one.
type StructuredResult struct {
	ExecutiveSummary *ExecutiveSummary `json:"executiveSummary,omitempty"`
	Analysis         *AnalysisBody     `json:"analysis,omitempty"`
	Metrics          []Metric          `json:"metrics,omitempty"`
	Insights         []Insight         `json:"insights,omitempty"`
	Charts           []Chart           `json:"charts,omitempty"`
	Recommendations  []Recommendation  `json:"recommendations,omitempty"`
	RiskAssessment   *RiskAssessment   `json:"riskAssessment,omitempty"`
	Metadata         *Metadata         `json:"metadata,omitempty"`
}

type ExecutiveSummary struct {
	Title          string     `json:"title,omitempty"`
	Overview       string     `json:"overview,omitempty"`
	KeyPoints      StringList `json:"keyPoints,omitempty"`
	RiskLevel      Level      `json:"riskLevel,omitempty"`
	ActionRequired bool       `json:"actionRequired,omitempty"`
}

type AnalysisBody struct {
	Introduction string    `json:"introduction,omitempty"`
	Sections     []Section `json:"sections,omitempty"`
	Conclusion   string    `json:"conclusion,omitempty"`
}

type Section struct {
	Title      string     `json:"title,omitempty"`
	Content    string     `json:"content,omitempty"`
	Insights   StringList `json:"insights,omitempty"`
	Importance Level      `json:"importance,omitempty"`
}

type Metric struct {
	Title        string         `json:"title,omitempty"`
	Value        FlexString     `json:"value,omitempty"`
	NumericValue OptionalNumber `json:"numericValue,omitzero"`
	Change       OptionalNumber `json:"change,omitzero"`
	ChangeType   *ChangeType    `json:"changeType,omitempty"`
	Icon         *string        `json:"icon,omitempty"`
	Description  string         `json:"description,omitempty"`
	Category     string         `json:"category,omitempty"`
}

type Insight struct {
	Title       string     `json:"title,omitempty"`
	Description string     `json:"description,omitempty"`
	Impact      FlexString `json:"impact,omitempty"`
	Category    string     `json:"category,omitempty"`
	ActionItems StringList `json:"actionItems,omitempty"`
}

type Chart struct {
	Type        ChartType        `json:"type,omitempty"`
	Title       string           `json:"title,omitempty"`
	Description string           `json:"description,omitempty"`
	Data        []map[string]any `json:"data,omitempty"`
	XKey        *string          `json:"xKey,omitempty"`
	YKey        *string          `json:"yKey,omitempty"`
}

type Recommendation struct {
	Title           string     `json:"title,omitempty"`
	Description     string     `json:"description,omitempty"`
	Priority        FlexString `json:"priority,omitempty"`
	Timeframe       string     `json:"timeframe,omitempty"`
	Category        string     `json:"category,omitempty"`
	ExpectedOutcome string     `json:"expectedOutcome,omitempty"`
}

type RiskAssessment struct {
	OverallScore OptionalNumber `json:"overallScore,omitzero"`
	Risks        []Risk         `json:"risks,omitempty"`
}

type Risk struct {
	Title       string     `json:"title,omitempty"`
	Description string     `json:"description,omitempty"`
	Probability FlexString `json:"probability,omitempty"`
	Impact      FlexString `json:"impact,omitempty"`
	Severity    FlexString `json:"severity,omitempty"`
	Mitigation  string     `json:"mitigation,omitempty"`
}

type Metadata struct {
	AnalysisType string     `json:"analysisType,omitempty"`
	Confidence   FlexString `json:"confidence,omitempty"`
	DataQuality  string     `json:"dataQuality,omitempty"`
	LastUpdated  string     `json:"lastUpdated,omitempty"`
	Sources      StringList `json:"sources,omitempty"`
}

// FlexString accepts a JSON string, number or boolean. Models routinely
// emit "value": 42 where a string was asked for.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	case '{', '[':
		return fmt.Errorf("expected scalar, got %s", string(b[:1]))
	default:
		*f = FlexString(string(b))
		return nil
	}
}

// OptionalNumber is a number that may be absent. It accepts JSON numbers and
// numeric strings such as "+12.5%" or "1,200"; anything else leaves it unset.
type OptionalNumber struct {
	Value float64
	Set   bool
}

func Number(v float64) OptionalNumber { return OptionalNumber{Value: v, Set: true} }

func (n OptionalNumber) IsZero() bool { return !n.Set }

func (n OptionalNumber) MarshalJSON() ([]byte, error) {
	if !n.Set {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

func (n *OptionalNumber) UnmarshalJSON(b []byte) error {
	*n = OptionalNumber{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if v, ok := parseLooseNumber(s); ok {
			*n = Number(v)
		}
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		// booleans, objects: treat as absent
		return nil
	}
	*n = Number(v)
	return nil
}

func parseLooseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "%")
	s = strings.TrimPrefix(s, "+")
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// StringList accepts either an array of scalars or a single string.
type StringList []string

func (l *StringList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*l = nil
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if strings.TrimSpace(s) == "" {
			*l = nil
			return nil
		}
		*l = StringList{s}
		return nil
	}
	var items []FlexString
	if err := json.Unmarshal(b, &items); err != nil {
		return err
	}
	out := make(StringList, 0, len(items))
	for _, it := range items {
		if s := strings.TrimSpace(string(it)); s != "" {
			out = append(out, s)
		}
	}
	*l = out
	return nil
}
