package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Slack != 20.0 {
		t.Errorf("Slack = %v, want 20.0", cfg.Slack)
	}
	if cfg.MaxIterations != 6 {
		t.Errorf("MaxIterations = %v, want 6", cfg.MaxIterations)
	}
	if cfg.CacheTTL.Std() != DefaultCacheTTL {
		t.Errorf("CacheTTL = %v, want %v", cfg.CacheTTL.Std(), DefaultCacheTTL)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rowfit.toml")
	content := `
slack          = 35.5
max_iterations = 4
cache_ttl      = "48h"
redis_addr     = "localhost:6379"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Slack != 35.5 {
		t.Errorf("Slack = %v, want 35.5", cfg.Slack)
	}
	if cfg.MaxIterations != 4 {
		t.Errorf("MaxIterations = %v, want 4", cfg.MaxIterations)
	}
	if cfg.CacheTTL.Std() != 48*time.Hour {
		t.Errorf("CacheTTL = %v, want 48h", cfg.CacheTTL.Std())
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Errorf("RedisAddr = %q", cfg.RedisAddr)
	}
	// Untouched fields keep defaults
	if cfg.HistoryURI != "" {
		t.Errorf("HistoryURI = %q, want empty", cfg.HistoryURI)
	}
}

func TestLoadMissingDefaultFile(t *testing.T) {
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(old) })
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Slack != Default().Slack {
		t.Error("missing default file should yield defaults")
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("missing explicit file should be an error")
	}
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rowfit.toml")
	if err := os.WriteFile(path, []byte("slack = ["), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("malformed file should be an error")
	}
}
