package prompt

import (
	"strings"
	"testing"

	"randomwalk/pkg/core/assemble"
	"randomwalk/pkg/core/company"
	"randomwalk/pkg/core/period"
)

func TestBuildTrendPrompt(t *testing.T) {
	identity := company.Identity{Name: "Amazon", Ticker: "AMZN"}
	rng := period.Range{
		Start: period.Period{Year: 2020, Quarter: 1},
		End:   period.Period{Year: 2021, Quarter: 3},
	}
	ctx := &assemble.Context{
		Text: "[FILE: Amazon_2020Q1.txt]\nrevenue grew\n",
		Used: []string{"Amazon_2020Q1.txt"},
	}

	pair, err := BuildTrendPrompt(identity, rng, ctx)
	if err != nil {
		t.Fatalf("BuildTrendPrompt: %v", err)
	}

	if !strings.Contains(pair.System, "equity research analyst") {
		t.Errorf("system prompt missing persona: %q", pair.System)
	}
	for _, want := range []string{"AMZN", "2020Q1", "2021Q3"} {
		if !strings.Contains(pair.User, want) {
			t.Errorf("user prompt missing %q", want)
		}
	}

	beginIdx := strings.Index(pair.User, contextBegin)
	endIdx := strings.Index(pair.User, contextEnd)
	if beginIdx < 0 || endIdx < 0 || beginIdx > endIdx {
		t.Fatalf("context markers missing or out of order")
	}
	between := pair.User[beginIdx:endIdx]
	if !strings.Contains(between, "revenue grew") {
		t.Errorf("assembled context not inside the markers")
	}
}

func TestBuildTrendPromptIsPure(t *testing.T) {
	identity := company.Identity{Name: "Microsoft", Ticker: "MSFT"}
	rng := period.Range{
		Start: period.Period{Year: 2022, Quarter: 2},
		End:   period.Period{Year: 2022, Quarter: 2},
	}
	ctx := &assemble.Context{Text: "ctx"}

	first, err := BuildTrendPrompt(identity, rng, ctx)
	if err != nil {
		t.Fatalf("BuildTrendPrompt: %v", err)
	}
	second, err := BuildTrendPrompt(identity, rng, ctx)
	if err != nil {
		t.Fatalf("BuildTrendPrompt: %v", err)
	}
	if first != second {
		t.Errorf("prompt build is not deterministic")
	}
}

func TestRegistryBuiltins(t *testing.T) {
	r := Get()
	pt, err := r.GetPrompt(TrendPromptID)
	if err != nil {
		t.Fatalf("built-in trend template missing: %v", err)
	}
	if pt.Version == "" {
		t.Errorf("trend template should carry a version")
	}
}
