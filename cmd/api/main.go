package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"randomwalk/pkg/api/analysis"
	"randomwalk/pkg/api/mailinglist"
	"randomwalk/pkg/api/tracking"
	"randomwalk/pkg/core/company"
	"randomwalk/pkg/core/docs"
	"randomwalk/pkg/core/llm"
	"randomwalk/pkg/core/period"
	"randomwalk/pkg/core/pipeline"
	"randomwalk/pkg/core/prompt"
	"randomwalk/pkg/core/store"
)

// AppConfig is loaded from config/app.yaml.
type AppConfig struct {
	DataDir                string `yaml:"data_dir"`
	ContextBudget          int    `yaml:"context_budget"`
	Port                   int    `yaml:"port"`
	CatalogFromYear        int    `yaml:"catalog_from_year"`
	CatalogToYear          int    `yaml:"catalog_to_year"`
	AnalysisTimeoutSeconds int    `yaml:"analysis_timeout_seconds"`
}

func main() {
	// Load environment variables
	godotenv.Load()

	appCfg := loadAppConfig("config/app.yaml")

	// Initialize Prompt Library
	// Determine resources path (relative to executable or working directory)
	resourcesPath := "resources"
	if _, err := os.Stat(resourcesPath); os.IsNotExist(err) {
		// Try from executable directory
		exePath, _ := os.Executable()
		resourcesPath = filepath.Join(filepath.Dir(exePath), "resources")
	}
	if err := prompt.LoadFromDirectory(resourcesPath); err != nil {
		fmt.Printf("[WARNING] Failed to load prompt library: %v\n", err)
		fmt.Println("  Falling back to built-in prompts")
	} else {
		fmt.Printf("[PROMPT] Loaded %d prompts from %s\n", prompt.Get().Count(), resourcesPath)
	}

	// Initialize model manager from config
	configData, _ := os.ReadFile("config/models.yaml")
	var modelCfg llm.Config
	yaml.Unmarshal(configData, &modelCfg)
	manager := llm.NewManager(modelCfg)
	gateway := llm.NewGateway(manager)

	// Database is optional: without it, analysis still works but tracking,
	// signups, and stored results are disabled.
	if os.Getenv("DATABASE_URL") != "" {
		if err := store.InitDB(context.Background()); err != nil {
			fmt.Printf("[WARNING] Database init failed: %v\n", err)
		} else {
			defer store.Close()
			fmt.Println("[STORE] Database connected.")
		}
	} else {
		fmt.Println("[WARNING] DATABASE_URL not set; tracking and signups disabled.")
	}

	documentStore, err := docs.NewStore(appCfg.DataDir)
	if err != nil {
		fmt.Printf("[FATAL] Document root %s unusable: %v\n", appCfg.DataDir, err)
		os.Exit(1)
	}

	catalog := period.NewCatalog(appCfg.CatalogFromYear, appCfg.CatalogToYear)
	orchestrator := pipeline.NewOrchestrator(catalog, documentStore, gateway, appCfg.ContextBudget)

	mux := http.NewServeMux()

	// Analysis endpoints
	analysisHandler := analysis.NewHandler(orchestrator, catalog, company.NewRegistry(), manager.DefaultModelID())
	analysisHandler.Timeout = time.Duration(appCfg.AnalysisTimeoutSeconds) * time.Second
	mux.HandleFunc("/api/analysis", analysisHandler.HandleAnalyze)
	mux.HandleFunc("/api/analysis/options", analysisHandler.HandleOptions)

	// Mailing list endpoint
	signupHandler := mailinglist.NewHandler()
	mux.HandleFunc("/api/mailinglist", signupHandler.HandleSignup)

	// Tracking middleware + metrics endpoint
	tracker := tracking.NewMiddleware()
	mux.HandleFunc("/api/metrics", tracker.HandleMetrics)

	addr := fmt.Sprintf(":%d", appCfg.Port)
	fmt.Printf("API server starting on %s...\n", addr)
	fmt.Println("  - POST /api/analysis")
	fmt.Println("  - GET  /api/analysis/options")
	fmt.Println("  - POST /api/mailinglist")
	fmt.Println("  - GET  /api/metrics")

	if err := http.ListenAndServe(addr, tracker.Wrap(mux)); err != nil {
		fmt.Printf("[FATAL] Server failed to start: %v\n", err)
		os.Exit(1)
	}
}

func loadAppConfig(path string) AppConfig {
	cfg := AppConfig{
		DataDir:                "data",
		ContextBudget:          0, // assembler applies its default
		Port:                   8080,
		CatalogFromYear:        period.DefaultFromYear,
		CatalogToYear:          period.DefaultToYear,
		AnalysisTimeoutSeconds: 300,
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("[WARNING] Could not read %s, using defaults: %v\n", path, err)
		return cfg
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		fmt.Printf("[WARNING] Could not parse %s, using defaults: %v\n", path, err)
	}
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	if cfg.CatalogFromYear == 0 {
		cfg.CatalogFromYear = period.DefaultFromYear
	}
	if cfg.CatalogToYear == 0 {
		cfg.CatalogToYear = period.DefaultToYear
	}
	return cfg
}
