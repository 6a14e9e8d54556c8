package prompt

import (
	"fmt"

	"randomwalk/pkg/core/assemble"
	"randomwalk/pkg/core/company"
	"randomwalk/pkg/core/period"
)

// TrendPromptID identifies the longitudinal trend-analysis template.
const TrendPromptID = "analysis.trend"

// Markers framing the injected document context so the boundary is
// unambiguous to the model.
const (
	contextBegin = "--- CONTEXT BEGINS ---"
	contextEnd   = "--- CONTEXT ENDS ---"
)

const trendSystemPrompt = `You are an expert equity research analyst. Use ONLY the provided context. Return a valid JSON object matching the requested schema.`

const trendUserTemplate = `You are a world-class financial trend analyst reviewing earnings call transcripts and annual report excerpts.
Perform a longitudinal thematic analysis for {{.Ticker}} covering {{.StartYear}}Q{{.StartQuarter}} through {{.EndYear}}Q{{.EndQuarter}}.

Your analysis must cover:
1. Recurring themes: the strategic themes management returns to across the quarters, and how each theme evolves over the range.
2. Turning points: the quarters where management's focus or the business trajectory visibly shifted, and what changed.
3. Key risks: the risks management or analysts emphasized, and how their framing developed.

Every theme, turning point, and risk must be backed by at least one verbatim quote from the context, citing the source filename shown in its [FILE: ...] marker.

Return a single JSON object with exactly this shape and nothing else:
{
  "themes": [
    {"name": "...", "evolution": "...", "evidence": [{"quote": "...", "file": "..."}]}
  ],
  "turning_points": [
    {"year": 2020, "quarter": 2, "description": "...", "evidence": [{"quote": "...", "file": "..."}]}
  ],
  "risks": [
    {"name": "...", "description": "...", "evidence": [{"quote": "...", "file": "..."}]}
  ]
}

Quotes must appear verbatim in the context. Do not cite files that are not present in the context. If a section has no entries, return it as an empty array.`

// trendTemplate is the built-in, versioned trend-analysis template.
func trendTemplate() *Template {
	return &Template{
		ID:             TrendPromptID,
		Name:           "Longitudinal Trend Analysis",
		Category:       "analysis",
		Description:    "Thematic analysis of earnings documents across a quarter range",
		SystemPrompt:   trendSystemPrompt,
		UserPromptTmpl: trendUserTemplate,
		Variables: []Variable{
			{Name: "Ticker", Type: "string", Description: "Company ticker symbol", Required: true},
			{Name: "StartYear", Type: "int", Description: "First year of the range", Required: true},
			{Name: "StartQuarter", Type: "int", Description: "First quarter of the range", Required: true},
			{Name: "EndYear", Type: "int", Description: "Last year of the range", Required: true},
			{Name: "EndQuarter", Type: "int", Description: "Last quarter of the range", Required: true},
		},
		Version: "1.0",
	}
}

// BuildTrendPrompt renders the trend template for the company and range and
// appends the assembled context between explicit markers. Pure
// transformation, no side effects.
func BuildTrendPrompt(identity company.Identity, rng period.Range, ctx *assemble.Context) (Pair, error) {
	t, err := Get().GetPrompt(TrendPromptID)
	if err != nil {
		return Pair{}, err
	}

	ectx := NewContext().
		Set("Ticker", identity.Ticker).
		Set("StartYear", rng.Start.Year).
		Set("StartQuarter", rng.Start.Quarter).
		Set("EndYear", rng.End.Year).
		Set("EndQuarter", rng.End.Quarter)

	user, err := RenderUserPrompt(t, ectx)
	if err != nil {
		return Pair{}, err
	}

	user = fmt.Sprintf("%s\n\n%s\n%s\n%s", user, contextBegin, ctx.Text, contextEnd)
	return Pair{System: t.SystemPrompt, User: user}, nil
}
