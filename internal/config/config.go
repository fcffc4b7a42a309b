// Package config handles configuration loading for ScripDesk.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Scraper ScraperConfig `mapstructure:"scraper" yaml:"scraper"`
	Series  SeriesConfig  `mapstructure:"series"  yaml:"series"`
	Report  ReportConfig  `mapstructure:"report"  yaml:"report"`
	Output  OutputConfig  `mapstructure:"output"  yaml:"output"`
	Feed    FeedConfig    `mapstructure:"feed"    yaml:"feed"`
	API     APIConfig     `mapstructure:"api"     yaml:"api"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// ScraperConfig holds company-page fetching settings.
type ScraperConfig struct {
	BaseURL          string `mapstructure:"base_url"            yaml:"base_url"`
	UserAgent        string `mapstructure:"user_agent"          yaml:"user_agent"`
	RetryAttempts    int    `mapstructure:"retry_attempts"      yaml:"retry_attempts"`
	RetryBaseDelayMs int    `mapstructure:"retry_base_delay_ms" yaml:"retry_base_delay_ms"`
	RateLimitPerSec  int    `mapstructure:"rate_limit_per_sec"  yaml:"rate_limit_per_sec"`
	CacheTTLSec      int    `mapstructure:"cache_ttl_sec"       yaml:"cache_ttl_sec"`
}

// SeriesConfig holds price-history download settings.
type SeriesConfig struct {
	BaseURL       string `mapstructure:"base_url"       yaml:"base_url"`
	LookbackYears int    `mapstructure:"lookback_years" yaml:"lookback_years"`
	Interval      string `mapstructure:"interval"       yaml:"interval"`
}

// ReportConfig holds PDF report generation settings.
type ReportConfig struct {
	Engine       string `mapstructure:"engine"        yaml:"engine"` // "wkhtmltopdf", "chromium", "auto", "none"
	PageSize     string `mapstructure:"page_size"     yaml:"page_size"`
	Orientation  string `mapstructure:"orientation"   yaml:"orientation"`
	MarginTop    string `mapstructure:"margin_top"    yaml:"margin_top"`
	MarginBottom string `mapstructure:"margin_bottom" yaml:"margin_bottom"`
	MarginLeft   string `mapstructure:"margin_left"   yaml:"margin_left"`
	MarginRight  string `mapstructure:"margin_right"  yaml:"margin_right"`
}

// OutputConfig holds artifact destination settings.
type OutputConfig struct {
	// Dir is the base directory under which per-symbol folders are
	// created. Empty means the current working directory.
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// FeedConfig holds live tick feed endpoint and credentials.
type FeedConfig struct {
	URL          string `mapstructure:"url"           yaml:"url"`
	APIKey       string `mapstructure:"api_key"       yaml:"api_key"`
	APISecret    string `mapstructure:"api_secret"    yaml:"api_secret"`
	SessionToken string `mapstructure:"session_token" yaml:"session_token"`
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Host        string   `mapstructure:"host"         yaml:"host"`
	Port        int      `mapstructure:"port"         yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.scripdesk/config.yaml (home directory)
//  3. /etc/scripdesk/config.yaml (system)
//
// Environment variables override config file values.
// Format: SCRIPDESK_<SECTION>_<KEY>, e.g., SCRIPDESK_FEED_API_KEY
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".scripdesk"))
	v.AddConfigPath("/etc/scripdesk")

	v.SetEnvPrefix("SCRIPDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required to exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found — that's fine, use defaults + env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)

	return &cfg, nil
}

// Default returns the built-in defaults without touching the
// filesystem or environment.
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("SCRIPDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)
	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// Scraper defaults
	v.SetDefault("scraper.base_url", "https://www.screener.in")
	v.SetDefault("scraper.user_agent",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36")
	v.SetDefault("scraper.retry_attempts", 3)
	v.SetDefault("scraper.retry_base_delay_ms", 1000)
	v.SetDefault("scraper.rate_limit_per_sec", 1) // conservative: 1 req/s
	v.SetDefault("scraper.cache_ttl_sec", 1800)

	// Series defaults
	v.SetDefault("series.base_url", "https://query1.finance.yahoo.com")
	v.SetDefault("series.lookback_years", 3)
	v.SetDefault("series.interval", "1wk")

	// Report defaults
	v.SetDefault("report.engine", "auto")
	v.SetDefault("report.page_size", "A4")
	v.SetDefault("report.orientation", "landscape")
	v.SetDefault("report.margin_top", "11mm")
	v.SetDefault("report.margin_bottom", "11mm")
	v.SetDefault("report.margin_left", "11mm")
	v.SetDefault("report.margin_right", "11mm")

	// Output defaults
	v.SetDefault("output.dir", "")

	// Feed defaults
	v.SetDefault("feed.url", "wss://livestream.icicidirect.com/sockets/tick")

	// API defaults
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8315)
	v.SetDefault("api.cors_origins", []string{"http://localhost:3000"})

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// overrideFromEnv explicitly reads sensitive keys from environment variables.
func overrideFromEnv(cfg *Config) {
	if key := os.Getenv("SCRIPDESK_FEED_API_KEY"); key != "" {
		cfg.Feed.APIKey = key
	}
	if key := os.Getenv("SCRIPDESK_FEED_API_SECRET"); key != "" {
		cfg.Feed.APISecret = key
	}
	if key := os.Getenv("SCRIPDESK_FEED_SESSION_TOKEN"); key != "" {
		cfg.Feed.SessionToken = key
	}
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
