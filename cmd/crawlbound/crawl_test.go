package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/crawlbound/crawlbound/internal/adaptive"
	"github.com/crawlbound/crawlbound/internal/config"
)

func TestBuildConfigDefaults(t *testing.T) {
	t.Parallel()

	cmd := NewCrawlCmd()
	if err := cmd.ParseFlags(nil); err != nil {
		t.Fatal(err)
	}

	cfg, err := buildConfig(cmd, []string{"https://example.com/"})
	if err != nil {
		t.Fatalf("buildConfig() error = %v", err)
	}

	if len(cfg.Seeds) != 1 || cfg.Seeds[0] != "https://example.com/" {
		t.Errorf("Seeds = %v", cfg.Seeds)
	}
	if cfg.MaxDepth != 1 {
		t.Errorf("MaxDepth = %d, want 1", cfg.MaxDepth)
	}
	if cfg.MaxPages != 25 {
		t.Errorf("MaxPages = %d, want 25", cfg.MaxPages)
	}
	if cfg.Renderer != config.RendererHTTP {
		t.Errorf("Renderer = %q, want http", cfg.Renderer)
	}
	if !cfg.SaveToDB {
		t.Error("runs should be indexed by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestBuildConfigFlags(t *testing.T) {
	t.Parallel()

	cmd := NewCrawlCmd()
	err := cmd.ParseFlags([]string{
		"--depth", "3",
		"--max-pages", "50",
		"--same-domain",
		"--include", "/docs/",
		"--exclude", "/private/",
		"--adaptive",
		"--adaptive-threshold", "9000",
		"--timeout", "10s",
		"--run-timeout", "2m",
		"--workers", "8",
		"--output", "/tmp/runs",
		"--no-db",
		"--json",
	})
	if err != nil {
		t.Fatal(err)
	}

	cfg, err := buildConfig(cmd, []string{"https://example.com/"})
	if err != nil {
		t.Fatalf("buildConfig() error = %v", err)
	}

	if cfg.MaxDepth != 3 || cfg.MaxPages != 50 {
		t.Errorf("bounds = depth %d, pages %d", cfg.MaxDepth, cfg.MaxPages)
	}
	if !cfg.SameDomainOnly {
		t.Error("SameDomainOnly not set")
	}
	if !cfg.Adaptive || cfg.AdaptiveThreshold != 9000 {
		t.Errorf("adaptive = %v/%d", cfg.Adaptive, cfg.AdaptiveThreshold)
	}
	if cfg.PageTimeout != 10*time.Second || cfg.RunTimeout != 2*time.Minute {
		t.Errorf("timeouts = %v/%v", cfg.PageTimeout, cfg.RunTimeout)
	}
	if cfg.Concurrency != 8 {
		t.Errorf("Concurrency = %d", cfg.Concurrency)
	}
	if cfg.OutputDir != "/tmp/runs" {
		t.Errorf("OutputDir = %q", cfg.OutputDir)
	}
	if cfg.SaveToDB {
		t.Error("--no-db should disable indexing")
	}
	if !cfg.JSONReport {
		t.Error("JSONReport not set")
	}
}

func TestBuildConfigQuerySizesAdaptiveBudget(t *testing.T) {
	t.Parallel()

	cmd := NewCrawlCmd()
	if err := cmd.ParseFlags([]string{"--query", "compare the available options in detailed fashion please"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := buildConfig(cmd, []string{"https://example.com/"})
	if err != nil {
		t.Fatalf("buildConfig() error = %v", err)
	}
	if !cfg.Adaptive {
		t.Error("a query should enable adaptive stopping")
	}
	if cfg.AdaptiveThreshold != adaptive.ThresholdThorough {
		t.Errorf("threshold = %d, want %d for a detail-seeking query",
			cfg.AdaptiveThreshold, adaptive.ThresholdThorough)
	}
}

func TestBuildConfigMissingExplicitConfigFile(t *testing.T) {
	t.Parallel()

	cmd := NewCrawlCmd()
	if err := cmd.ParseFlags([]string{"--config", "/nonexistent/config.yaml"}); err != nil {
		t.Fatal(err)
	}

	if _, err := buildConfig(cmd, []string{"https://example.com/"}); err == nil {
		t.Error("explicitly specified missing config file should error")
	}
}

func TestBuildConfigAppliesHostProfile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, ".crawlbound")
	content := `
hosts:
  example.com:
    depth: 4
    userAgent: "docs-bot/1.0"
    excludePatterns:
      - "/archive/"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cmd := NewCrawlCmd()
	if err := cmd.ParseFlags([]string{"--config", path}); err != nil {
		t.Fatal(err)
	}

	cfg, err := buildConfig(cmd, []string{"https://example.com/start"})
	if err != nil {
		t.Fatalf("buildConfig() error = %v", err)
	}

	if cfg.MaxDepth != 4 {
		t.Errorf("profile depth not applied: %d", cfg.MaxDepth)
	}
	if cfg.UserAgent != "docs-bot/1.0" {
		t.Errorf("profile user agent not applied: %q", cfg.UserAgent)
	}
	if len(cfg.ExcludePatterns) != 1 || cfg.ExcludePatterns[0] != "/archive/" {
		t.Errorf("profile exclude patterns not merged: %v", cfg.ExcludePatterns)
	}
}

func TestSeedHost(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"https://example.com/path", "example.com"},
		{"https://example.com:8080/", "example.com"},
		{"not a url at all\x7f", ""},
	}
	for _, tt := range tests {
		if got := seedHost(tt.in); got != tt.want {
			t.Errorf("seedHost(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
