package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAppConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.yaml")
	content := `data_dir: /srv/docs
context_budget: 4000
port: 9090
catalog_from_year: 2018
catalog_to_year: 2023
analysis_timeout_seconds: 60
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg := loadAppConfig(path)
	if cfg.DataDir != "/srv/docs" || cfg.ContextBudget != 4000 || cfg.Port != 9090 {
		t.Errorf("server settings not parsed: %+v", cfg)
	}
	if cfg.CatalogFromYear != 2018 || cfg.CatalogToYear != 2023 {
		t.Errorf("catalog span = %d..%d, want 2018..2023", cfg.CatalogFromYear, cfg.CatalogToYear)
	}
	if cfg.AnalysisTimeoutSeconds != 60 {
		t.Errorf("analysis timeout = %d, want 60", cfg.AnalysisTimeoutSeconds)
	}
}

func TestLoadAppConfigDefaults(t *testing.T) {
	cfg := loadAppConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if cfg.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Port)
	}
	if cfg.CatalogFromYear != 2020 || cfg.CatalogToYear != 2025 {
		t.Errorf("catalog span = %d..%d, want the default", cfg.CatalogFromYear, cfg.CatalogToYear)
	}
	if cfg.AnalysisTimeoutSeconds != 300 {
		t.Errorf("analysis timeout = %d, want 300", cfg.AnalysisTimeoutSeconds)
	}
}
