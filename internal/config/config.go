package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

type Config struct {
	Sources Sources `yaml:"sources"`
	Refresh Refresh `yaml:"refresh"`
	Server  Server  `yaml:"server"`
	Logging Logging `yaml:"logging"`
}

type Sources struct {
	Feeds   []Feed        `yaml:"feeds"`
	NewsAPI NewsAPIConfig `yaml:"newsapi"`
}

// Feed is one syndication source. Key is the stable identifier used in
// article IDs; BaseURL anchors relative image links.
type Feed struct {
	Key     string `yaml:"key"`
	Name    string `yaml:"name"`
	RSSURL  string `yaml:"rss_url"`
	BaseURL string `yaml:"base_url"`
}

type NewsAPIConfig struct {
	Enabled   bool   `yaml:"enabled"`
	APIKeyEnv string `yaml:"api_key_env"`
	Language  string `yaml:"language"`
	Country   string `yaml:"country"`
	PageSize  int    `yaml:"page_size"`
}

type Refresh struct {
	IntervalMinutes   int `yaml:"interval_minutes"`
	ErrorRetrySeconds int `yaml:"error_retry_seconds"`
	StalenessMinutes  int `yaml:"staleness_minutes"`
	PerFeedLimit      int `yaml:"per_feed_limit"`
	PolitenessDelayMS int `yaml:"politeness_delay_ms"`
}

// Interval is the pause after a successful refresh cycle.
func (r Refresh) Interval() time.Duration {
	return time.Duration(r.IntervalMinutes) * time.Minute
}

// ErrorRetry is the shorter pause after a failed cycle.
func (r Refresh) ErrorRetry() time.Duration {
	return time.Duration(r.ErrorRetrySeconds) * time.Second
}

// Staleness is the maximum snapshot age before a query forces a refresh.
func (r Refresh) Staleness() time.Duration {
	return time.Duration(r.StalenessMinutes) * time.Minute
}

// Politeness is the minimum spacing between requests to distinct sources.
func (r Refresh) Politeness() time.Duration {
	return time.Duration(r.PolitenessDelayMS) * time.Millisecond
}

type Server struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type Logging struct {
	Level string `yaml:"level"`
}

// ConfigDir returns the XDG config directory for noticias.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "noticias")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/noticias/config.yaml > ./config.yaml
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", fmt.Errorf(
		"no config file found; searched:\n  %s\n  ./config.yaml\n\nRun 'noticias init' to create a default config",
		xdgConfig,
	)
}

// Load reads and parses a config YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

// Default returns the embedded default configuration.
func Default() (*Config, error) {
	return parse(DefaultConfigYAML)
}

// parse parses YAML bytes into a Config, applying defaults.
func parse(data []byte) (*Config, error) {
	cfg := &Config{
		Sources: Sources{
			NewsAPI: NewsAPIConfig{
				Enabled:   true,
				APIKeyEnv: "NEWSAPI_KEY",
				Language:  "pt",
				Country:   "br",
				PageSize:  10,
			},
		},
		Refresh: Refresh{
			IntervalMinutes:   5,
			ErrorRetrySeconds: 60,
			StalenessMinutes:  10,
			PerFeedLimit:      5,
			PolitenessDelayMS: 1000,
		},
		Server:  Server{Host: "0.0.0.0", Port: 5000},
		Logging: Logging{Level: "INFO"},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
