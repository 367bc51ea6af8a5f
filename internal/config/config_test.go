package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseDefaultConfig(t *testing.T) {
	cfg, err := parse(DefaultConfigYAML)
	if err != nil {
		t.Fatalf("failed to parse default config: %v", err)
	}

	if len(cfg.Sources.Feeds) != 5 {
		t.Errorf("expected 5 feeds, got %d", len(cfg.Sources.Feeds))
	}
	if cfg.Sources.Feeds[0].Key != "g1" {
		t.Errorf("expected first feed key 'g1', got %q", cfg.Sources.Feeds[0].Key)
	}
	if !cfg.Sources.NewsAPI.Enabled {
		t.Error("expected newsapi enabled by default")
	}
	if cfg.Sources.NewsAPI.APIKeyEnv != "NEWSAPI_KEY" {
		t.Errorf("expected NEWSAPI_KEY, got %q", cfg.Sources.NewsAPI.APIKeyEnv)
	}
	if cfg.Server.Port != 5000 {
		t.Errorf("expected port 5000, got %d", cfg.Server.Port)
	}
	if cfg.Refresh.Interval() != 5*time.Minute {
		t.Errorf("expected 5m interval, got %v", cfg.Refresh.Interval())
	}
	if cfg.Refresh.Staleness() != 10*time.Minute {
		t.Errorf("expected 10m staleness, got %v", cfg.Refresh.Staleness())
	}
	if cfg.Refresh.Politeness() != time.Second {
		t.Errorf("expected 1s politeness delay, got %v", cfg.Refresh.Politeness())
	}
}

func TestParseMinimalConfig(t *testing.T) {
	data := []byte(`
sources:
  newsapi:
    enabled: false
server:
  port: 9000
`)
	cfg, err := parse(data)
	if err != nil {
		t.Fatalf("failed to parse minimal config: %v", err)
	}

	if cfg.Sources.NewsAPI.Enabled {
		t.Error("expected newsapi disabled")
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Server.Port)
	}
	// Defaults should still be set for unspecified fields
	if cfg.Refresh.PerFeedLimit != 5 {
		t.Errorf("expected default per-feed limit 5, got %d", cfg.Refresh.PerFeedLimit)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("expected default host, got %q", cfg.Server.Host)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, DefaultConfigYAML, 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if len(cfg.Sources.Feeds) == 0 {
		t.Error("expected feeds to be populated from file")
	}
}

func TestResolveExplicitPathMissing(t *testing.T) {
	if _, err := ResolveConfigPath(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing explicit config")
	}
}
