package interpret

import (
	"encoding/json"
	"fmt"
	"strings"

	"randomwalk/pkg/core/utils"
)

// Interpret parses raw model output into the analysis shape. A response
// that cannot be parsed is a degraded result, not a pipeline fault: the
// raw text is returned verbatim in the fallback shape. Interpret never
// fails.
func Interpret(raw string) *Result {
	cleaned := utils.StripCodeFences(raw)

	// Models sometimes wrap the object in prose; take the outermost braces.
	if start, end := strings.Index(cleaned, "{"), strings.LastIndex(cleaned, "}"); start >= 0 && end > start {
		cleaned = cleaned[start : end+1]
	}

	var analysis Analysis
	if err := utils.SmartParse(cleaned, &analysis); err != nil {
		fmt.Printf("[WARNING] Model output could not be parsed as analysis JSON: %v\n", err)
		return &Result{RawOutput: raw}
	}

	// A parse that produced nothing at all is treated as unstructured
	// output, not an empty analysis.
	if analysis.Themes == nil && analysis.TurningPoints == nil && analysis.Risks == nil {
		if !looksLikeAnalysisObject(cleaned) {
			return &Result{RawOutput: raw}
		}
	}

	return &Result{Analysis: &analysis}
}

// looksLikeAnalysisObject reports whether the payload mentions at least one
// expected top-level key, so arbitrary JSON objects still fall back to raw.
func looksLikeAnalysisObject(payload string) bool {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(payload), &probe); err != nil {
		return false
	}
	for _, key := range []string{"themes", "turning_points", "risks"} {
		if _, ok := probe[key]; ok {
			return true
		}
	}
	return false
}

// RenderText formats a result into labeled sections with evidence quotes
// and source filenames. The raw fallback renders as the raw text itself.
func RenderText(r *Result) string {
	if !r.IsStructured() {
		return r.RawOutput
	}
	a := r.Analysis

	var b strings.Builder
	b.WriteString("== Major Themes ==\n")
	for _, theme := range a.Themes {
		fmt.Fprintf(&b, "\n- Theme: %s\n", theme.Name)
		fmt.Fprintf(&b, "  Evolution: %s\n", theme.Evolution)
		writeEvidence(&b, theme.Evidence)
	}

	b.WriteString("\n== Turning Points ==\n")
	for _, point := range a.TurningPoints {
		fmt.Fprintf(&b, "\n- Point (%dQ%d): %s\n", point.Year, point.Quarter, point.Description)
		writeEvidence(&b, point.Evidence)
	}

	b.WriteString("\n== Key Risks ==\n")
	for _, risk := range a.Risks {
		fmt.Fprintf(&b, "\n- Risk: %s\n", risk.Name)
		fmt.Fprintf(&b, "  Description: %s\n", risk.Description)
		writeEvidence(&b, risk.Evidence)
	}

	return b.String()
}

func writeEvidence(b *strings.Builder, evidence []Evidence) {
	for _, ev := range evidence {
		fmt.Fprintf(b, "    - Evidence: %q (Source: %s)\n", ev.Quote, ev.File)
	}
}

// RenderMarkdown formats a structured result as Markdown for the web
// layer. The output is sanity-checked with the Markdown parser; the raw
// fallback is fenced so arbitrary model text cannot break the page.
func RenderMarkdown(r *Result) string {
	if !r.IsStructured() {
		return "```\n" + r.RawOutput + "\n```"
	}
	a := r.Analysis

	var b strings.Builder
	b.WriteString("## Major Themes\n")
	for _, theme := range a.Themes {
		fmt.Fprintf(&b, "\n**%s**: %s\n", theme.Name, theme.Evolution)
		for _, ev := range theme.Evidence {
			fmt.Fprintf(&b, "> %q (%s)\n", ev.Quote, ev.File)
		}
	}

	b.WriteString("\n## Turning Points\n")
	for _, point := range a.TurningPoints {
		fmt.Fprintf(&b, "\n**%dQ%d**: %s\n", point.Year, point.Quarter, point.Description)
		for _, ev := range point.Evidence {
			fmt.Fprintf(&b, "> %q (%s)\n", ev.Quote, ev.File)
		}
	}

	b.WriteString("\n## Key Risks\n")
	for _, risk := range a.Risks {
		fmt.Fprintf(&b, "\n**%s**: %s\n", risk.Name, risk.Description)
		for _, ev := range risk.Evidence {
			fmt.Fprintf(&b, "> %q (%s)\n", ev.Quote, ev.File)
		}
	}

	md := utils.CleanMarkdown(b.String())
	if !utils.ValidateMarkdown(md) {
		// Should not happen; fall back to the plain-text rendering.
		return RenderText(r)
	}
	return md
}
