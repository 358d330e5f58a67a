package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "FIGURES_CONCURRENCY", "MAX_TRIALS"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("default port = %s, want 8080", cfg.Server.Port)
	}
	if cfg.Figures.Concurrency != 3 {
		t.Errorf("default concurrency = %d, want 3", cfg.Figures.Concurrency)
	}
	if cfg.Limits.MaxTrials != 1_000_000 {
		t.Errorf("default max trials = %d, want 1000000", cfg.Limits.MaxTrials)
	}
}

func TestLoadMaxTrialsFromEnv(t *testing.T) {
	t.Setenv("MAX_TRIALS", "10")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Limits.MaxTrials != 10 {
		t.Errorf("MAX_TRIALS=10 should load as 10, got %d", cfg.Limits.MaxTrials)
	}
}

func TestLoadRejectsUnusableLimits(t *testing.T) {
	t.Setenv("MAX_TRIALS", "1")

	if _, err := Load(); err == nil {
		t.Fatal("max trials below 2 should fail validation")
	}
}
