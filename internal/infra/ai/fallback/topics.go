package fallback

import "strings"

// topic is the canned content for one analysis category.
type topic struct {
	analysisType string
	title        string
	intro        string
	sections     [][2]string // title, content
	recs         [][2]string // title, description
	focus        []string    // chart labels for action requests
}

// rule pairs a predicate over the lower-cased prompt with the topic it
// selects. Rules are evaluated in order; the first match wins.
type rule struct {
	match func(prompt string) bool
	topic topic
}

func containsAny(words ...string) func(string) bool {
	return func(p string) bool {
		for _, w := range words {
			if strings.Contains(p, w) {
				return true
			}
		}
		return false
	}
}

var rules = []rule{
	{containsAny("risk"), riskTopic},
	{containsAny("financial", "finance", "revenue", "budget"), financialTopic},
	{containsAny("strategic", "strategy"), strategicTopic},
	{containsAny("compliance", "regulatory"), complianceTopic},
	{containsAny("performance", "kpi"), performanceTopic},
}

var riskTopic = topic{
	analysisType: "risk-assessment",
	title:        "Risk Assessment Overview",
	intro:        "This overview outlines how the board can frame its current risk position and where attention is usually needed first.",
	sections: [][2]string{
		{"Risk Identification", "Start from the risk register and the latest committee reports. Confirm each material risk has an owner and a current rating."},
		{"Mitigation and Oversight", "Review whether mitigation plans have measurable milestones and whether the board receives progress updates at a regular cadence."},
	},
	recs: [][2]string{
		{"Refresh the risk register", "Ask management to confirm ratings and owners ahead of the next board meeting."},
		{"Set a review cadence", "Schedule a standing risk item on the audit committee agenda."},
	},
	focus: []string{"Strategic", "Operational", "Financial", "Compliance"},
}

var financialTopic = topic{
	analysisType: "financial-analysis",
	title:        "Financial Performance Analysis",
	intro:        "This analysis frames the financial performance questions the board should review against the latest reporting period.",
	sections: [][2]string{
		{"Revenue and Profitability", "Compare actual revenue and margin against budget and the prior period. Material variances should come with a management explanation."},
		{"Liquidity and Cash Flow", "Check the cash runway, working capital movements and any covenant headroom reported by finance."},
	},
	recs: [][2]string{
		{"Request a variance bridge", "Ask finance for a bridge from budget to actual for the period under review."},
		{"Review cash forecast", "Confirm the rolling cash forecast covers at least the next twelve months."},
	},
	focus: []string{"Revenue", "Margin", "Cash Flow", "Budget Variance"},
}

var strategicTopic = topic{
	analysisType: "strategic-review",
	title:        "Strategic Review",
	intro:        "This review sets out how the board can test progress against the agreed strategic priorities.",
	sections: [][2]string{
		{"Strategic Priorities", "List the priorities approved in the current strategic plan and the outcome each one targets."},
		{"Execution Progress", "For each priority, compare delivered milestones with the plan and note where resourcing has changed."},
	},
	recs: [][2]string{
		{"Align on priorities", "Confirm the board and management still agree on the top strategic priorities."},
		{"Track milestones", "Add a milestone tracker to the board pack for each priority."},
	},
	focus: []string{"Growth", "Operations", "People", "Technology"},
}

var complianceTopic = topic{
	analysisType: "compliance-check",
	title:        "Compliance Review",
	intro:        "This review highlights the compliance areas the board is typically accountable for overseeing.",
	sections: [][2]string{
		{"Regulatory Obligations", "Map the obligations that apply to the organisation and the function responsible for each."},
		{"Policies and Controls", "Check that key policies have been reviewed within their stated cycle and that control testing results are reported."},
	},
	recs: [][2]string{
		{"Update the obligations register", "Confirm new or changed regulations have been captured."},
		{"Review overdue policies", "Ask the company secretary for a list of policies past their review date."},
	},
	focus: []string{"Regulatory", "Policy", "Reporting", "Controls"},
}

var performanceTopic = topic{
	analysisType: "performance-review",
	title:        "Performance Review",
	intro:        "This review covers how the board can assess organisational performance against its agreed indicators.",
	sections: [][2]string{
		{"Key Performance Indicators", "Identify the indicators the board has adopted and the target set for each one."},
		{"Trends and Exceptions", "Focus discussion on indicators that moved materially or missed target for two or more periods."},
	},
	recs: [][2]string{
		{"Agree a KPI dashboard", "Standardise the indicators reported in every board pack."},
		{"Flag exceptions early", "Ask management to highlight off-track indicators in the executive summary."},
	},
	focus: []string{"Targets Met", "At Risk", "Off Track", "Not Measured"},
}

var defaultTopic = topic{
	analysisType: "general",
	title:        "Analysis Summary",
	intro:        "Here is a general overview to help the board move forward with this request.",
	sections: [][2]string{
		{"Overview", "The request has been noted. A detailed answer works best when it can draw on the relevant board papers and a clear question."},
	},
	recs: [][2]string{
		{"Clarify the question", "Name the decision or topic the board needs support with."},
	},
	focus: []string{"Governance", "Strategy", "Finance", "Risk"},
}

func selectTopic(prompt string) topic {
	p := strings.ToLower(prompt)
	for _, r := range rules {
		if r.match(p) {
			return r.topic
		}
	}
	return defaultTopic
}
