package interpret

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

const validPayload = `{
  "themes": [
    {"name": "Cloud growth", "evolution": "Accelerated through the range", "evidence": [
      {"quote": "AWS revenue grew 30%", "file": "Amazon_2020Q1.txt"},
      {"quote": "AWS remains our fastest growing segment", "file": "Amazon_2020Q2.txt"}
    ]}
  ],
  "turning_points": [
    {"year": 2020, "quarter": 2, "description": "Pandemic demand surge", "evidence": [
      {"quote": "unprecedented demand", "file": "Amazon_2020Q2.txt"}
    ]}
  ],
  "risks": [
    {"name": "Logistics costs", "description": "Fulfillment spend rising", "evidence": [
      {"quote": "we expect elevated shipping costs", "file": "Amazon_2020Q1.txt"}
    ]}
  ]
}`

func TestInterpretValidPayloadRoundTrip(t *testing.T) {
	result := Interpret(validPayload)
	if !result.IsStructured() {
		t.Fatalf("valid payload should be structured, got raw: %q", result.RawOutput)
	}

	var want Analysis
	if err := json.Unmarshal([]byte(validPayload), &want); err != nil {
		t.Fatalf("test payload invalid: %v", err)
	}
	if !reflect.DeepEqual(*result.Analysis, want) {
		t.Errorf("fields dropped or altered:\ngot  %+v\nwant %+v", *result.Analysis, want)
	}
}

func TestInterpretNonJSONFallsBack(t *testing.T) {
	raw := "I could not find any themes in the provided documents."
	result := Interpret(raw)
	if result.IsStructured() {
		t.Fatalf("prose must not parse as analysis")
	}
	if result.RawOutput != raw {
		t.Errorf("fallback must carry the exact raw text, got %q", result.RawOutput)
	}
}

func TestInterpretCodeFencedPayload(t *testing.T) {
	fenced := "```json\n" + validPayload + "\n```"
	result := Interpret(fenced)
	if !result.IsStructured() {
		t.Fatalf("code-fenced JSON should parse, got raw fallback")
	}
	if len(result.Analysis.Themes) != 1 {
		t.Errorf("themes = %d, want 1", len(result.Analysis.Themes))
	}
}

func TestInterpretRepairsSloppyJSON(t *testing.T) {
	// Trailing comma, the most common model slip.
	sloppy := `{"themes": [{"name": "Margins", "evolution": "improving", "evidence": [{"quote": "margins expanded", "file": "Amazon_2020Q1.txt"}],}], "turning_points": [], "risks": []}`
	result := Interpret(sloppy)
	if !result.IsStructured() {
		t.Fatalf("repairable JSON should parse, got raw fallback")
	}
	if result.Analysis.Themes[0].Name != "Margins" {
		t.Errorf("theme name = %q", result.Analysis.Themes[0].Name)
	}
}

func TestInterpretWrappedInProse(t *testing.T) {
	wrapped := "Here is the analysis you asked for:\n" + validPayload + "\nLet me know if you need more."
	result := Interpret(wrapped)
	if !result.IsStructured() {
		t.Fatalf("object wrapped in prose should parse")
	}
}

func TestInterpretUnrelatedJSONFallsBack(t *testing.T) {
	raw := `{"answer": 42}`
	result := Interpret(raw)
	if result.IsStructured() {
		t.Fatalf("unrelated JSON object must fall back to raw")
	}
	if result.RawOutput != raw {
		t.Errorf("fallback raw = %q", result.RawOutput)
	}
}

func TestInterpretMissingSectionsAreEmptyNotErrors(t *testing.T) {
	result := Interpret(`{"themes": []}`)
	if !result.IsStructured() {
		t.Fatalf("payload with only themes should be structured")
	}
	if len(result.Analysis.TurningPoints) != 0 || len(result.Analysis.Risks) != 0 {
		t.Errorf("absent sections should be empty")
	}
}

func TestRenderTextStructured(t *testing.T) {
	result := Interpret(validPayload)
	text := RenderText(result)

	for _, want := range []string{
		"== Major Themes ==",
		"== Turning Points ==",
		"== Key Risks ==",
		"Cloud growth",
		"Point (2020Q2)",
		"Logistics costs",
		"Amazon_2020Q1.txt",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("rendered text missing %q:\n%s", want, text)
		}
	}
}

func TestRenderTextFallback(t *testing.T) {
	raw := "plain model answer"
	result := &Result{RawOutput: raw}
	if got := RenderText(result); got != raw {
		t.Errorf("fallback rendering = %q, want the raw text", got)
	}
}

func TestRenderMarkdown(t *testing.T) {
	result := Interpret(validPayload)
	md := RenderMarkdown(result)
	if !strings.Contains(md, "## Major Themes") || !strings.Contains(md, "AWS revenue grew 30%") {
		t.Errorf("markdown rendering incomplete:\n%s", md)
	}

	fallback := RenderMarkdown(&Result{RawOutput: "raw"})
	if !strings.Contains(fallback, "```") {
		t.Errorf("raw fallback should be fenced: %q", fallback)
	}
}
