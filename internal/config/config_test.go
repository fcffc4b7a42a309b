package config

import (
	"os"
	"path/filepath"
	"testing"
)

// ── Load / Defaults ──

func TestLoadReturnsDefaults(t *testing.T) {
	// Unset any env vars that would interfere
	envVars := []string{
		"SCRIPDESK_FEED_API_KEY", "SCRIPDESK_FEED_API_SECRET", "SCRIPDESK_FEED_SESSION_TOKEN",
	}
	for _, e := range envVars {
		os.Unsetenv(e)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// Scraper defaults
	if cfg.Scraper.BaseURL != "https://www.screener.in" {
		t.Errorf("Scraper.BaseURL: got %q", cfg.Scraper.BaseURL)
	}
	if cfg.Scraper.RetryAttempts != 3 {
		t.Errorf("Scraper.RetryAttempts: got %d, want 3", cfg.Scraper.RetryAttempts)
	}
	if cfg.Scraper.RetryBaseDelayMs != 1000 {
		t.Errorf("Scraper.RetryBaseDelayMs: got %d, want 1000", cfg.Scraper.RetryBaseDelayMs)
	}
	if cfg.Scraper.RateLimitPerSec != 1 {
		t.Errorf("Scraper.RateLimitPerSec: got %d, want 1", cfg.Scraper.RateLimitPerSec)
	}

	// Series defaults
	if cfg.Series.LookbackYears != 3 {
		t.Errorf("Series.LookbackYears: got %d, want 3", cfg.Series.LookbackYears)
	}
	if cfg.Series.Interval != "1wk" {
		t.Errorf("Series.Interval: got %q, want 1wk", cfg.Series.Interval)
	}

	// Report defaults
	if cfg.Report.Orientation != "landscape" {
		t.Errorf("Report.Orientation: got %q, want landscape", cfg.Report.Orientation)
	}
	if cfg.Report.PageSize != "A4" {
		t.Errorf("Report.PageSize: got %q, want A4", cfg.Report.PageSize)
	}

	// API defaults
	if cfg.API.Port != 8315 {
		t.Errorf("API.Port: got %d, want 8315", cfg.API.Port)
	}

	// Logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level: got %q, want info", cfg.Logging.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
scraper:
  retry_attempts: 5
series:
  lookback_years: 10
output:
  dir: /tmp/artifacts
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error: %v", err)
	}

	if cfg.Scraper.RetryAttempts != 5 {
		t.Errorf("Scraper.RetryAttempts: got %d, want 5", cfg.Scraper.RetryAttempts)
	}
	if cfg.Series.LookbackYears != 10 {
		t.Errorf("Series.LookbackYears: got %d, want 10", cfg.Series.LookbackYears)
	}
	if cfg.Output.Dir != "/tmp/artifacts" {
		t.Errorf("Output.Dir: got %q", cfg.Output.Dir)
	}
	// Untouched values fall back to defaults
	if cfg.Series.Interval != "1wk" {
		t.Errorf("Series.Interval: got %q, want default 1wk", cfg.Series.Interval)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("LoadFromFile() with missing file: want error")
	}
}

// ── Credentials ──

func TestCheckCredentials(t *testing.T) {
	os.Unsetenv("SCRIPDESK_FEED_API_KEY")
	os.Setenv("SCRIPDESK_FEED_SESSION_TOKEN", "47417053")
	defer os.Unsetenv("SCRIPDESK_FEED_SESSION_TOKEN")

	cfg := &Config{}
	cfg.Feed.APIKey = "Q8h2250667abcdef"
	cfg.Feed.SessionToken = "47417053"

	statuses := CheckCredentials(cfg)
	if len(statuses) != 3 {
		t.Fatalf("got %d statuses, want 3", len(statuses))
	}

	byName := map[string]KeyStatus{}
	for _, s := range statuses {
		byName[s.Name] = s
	}

	if s := byName["Feed API Key"]; !s.IsSet || s.Source != KeySourceConfig {
		t.Errorf("API key status: %+v", s)
	}
	if s := byName["Feed API Secret"]; s.IsSet || s.Source != KeySourceNone {
		t.Errorf("API secret status: %+v", s)
	}
	if s := byName["Feed Session Token"]; !s.IsSet || s.Source != KeySourceEnv {
		t.Errorf("session token status: %+v", s)
	}
}

func TestMaskKey(t *testing.T) {
	if got := maskKey("short"); got != "***" {
		t.Errorf("maskKey(short) = %q", got)
	}
	if got := maskKey("Q8h2250667abcdef"); got != "Q8h...def" {
		t.Errorf("maskKey(long) = %q", got)
	}
}
