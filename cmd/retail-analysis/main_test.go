package main

import (
	"testing"

	"github.com/misha-la/online-retail-analysis/internal/config"
)

func TestApplyFlags_ExplicitZeroSeed(t *testing.T) {
	cfg := config.Default()
	applyFlags(cfg, "", "", 0, 0, true, 0, "")
	if cfg.Analysis.RandomSeed != 0 {
		t.Fatalf("seed: got %d, want 0", cfg.Analysis.RandomSeed)
	}
}

func TestApplyFlags_UnsetSeedKeepsConfig(t *testing.T) {
	cfg := config.Default()
	applyFlags(cfg, "", "", 0, 0, false, 0, "")
	if cfg.Analysis.RandomSeed != 42 {
		t.Fatalf("seed: got %d, want 42", cfg.Analysis.RandomSeed)
	}
}

func TestApplyFlags_Overrides(t *testing.T) {
	cfg := config.Default()
	applyFlags(cfg, "postgres", "postgres://localhost/retail", 6, 7, true, 12, "results")
	if cfg.Source != "postgres" || cfg.Sources.Postgres != "postgres://localhost/retail" {
		t.Fatalf("source override lost: %+v", cfg)
	}
	if cfg.Analysis.ClusterCount != 6 || cfg.Analysis.RandomSeed != 7 || cfg.Analysis.ForecastHorizon != 12 {
		t.Fatalf("analysis overrides lost: %+v", cfg.Analysis)
	}
	if cfg.OutputDir != "results" {
		t.Fatalf("output dir: got %q", cfg.OutputDir)
	}
}
