// Command analyze runs one trend analysis from the command line and prints
// the rendered result.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"randomwalk/pkg/core/docs"
	"randomwalk/pkg/core/interpret"
	"randomwalk/pkg/core/llm"
	"randomwalk/pkg/core/period"
	"randomwalk/pkg/core/pipeline"
)

func main() {
	company := flag.String("company", "Amazon", "Company to analyze")
	start := flag.String("start", "2020Q1", "First quarter (inclusive), e.g. 2020Q1")
	end := flag.String("end", "2020Q4", "Last quarter (inclusive), e.g. 2020Q4")
	model := flag.String("model", "", "Model identifier (empty uses the configured default)")
	dataDir := flag.String("data", "data", "Trusted document root")
	budget := flag.Int("budget", 0, "Context character budget (0 uses the default)")
	timeout := flag.Duration("timeout", 5*time.Minute, "Upper bound on the whole analysis, retries included")
	flag.Parse()

	godotenv.Load()

	configData, _ := os.ReadFile("config/models.yaml")
	var modelCfg llm.Config
	yaml.Unmarshal(configData, &modelCfg)
	gateway := llm.NewGateway(llm.NewManager(modelCfg))

	documentStore, err := docs.NewStore(*dataDir)
	if err != nil {
		fmt.Printf("[FATAL] Document root %s unusable: %v\n", *dataDir, err)
		os.Exit(1)
	}

	orchestrator := pipeline.NewOrchestrator(period.DefaultCatalog(), documentStore, gateway, *budget)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	outcome, err := orchestrator.RunAnalysis(ctx, pipeline.Request{
		Company:      *company,
		StartQuarter: *start,
		EndQuarter:   *end,
		ModelID:      *model,
	})
	if err != nil {
		fmt.Printf("[FATAL] Analysis failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Analysis for %s %s-%s\n", *company, *start, *end)
	if len(outcome.FailedDocuments) > 0 {
		for _, failed := range outcome.FailedDocuments {
			fmt.Printf("  (skipped %s: %s)\n", failed.Name, failed.Reason)
		}
	}
	fmt.Println()
	fmt.Println(interpret.RenderText(outcome.Result))
}
