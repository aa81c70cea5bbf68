// Package common provides shared utilities for Fundwatch
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Fundwatch
type Config struct {
	Environment string        `toml:"environment"`
	Funds       FundsConfig   `toml:"funds"`
	Server      ServerConfig  `toml:"server"`
	Storage     StorageConfig `toml:"storage"`
	Clients     ClientsConfig `toml:"clients"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// FundsConfig holds the tracked fund universe and cache behaviour.
type FundsConfig struct {
	Tracked         []string `toml:"tracked"`          // 6-digit fund codes shown on the list page
	CacheWindow     string   `toml:"cache_window"`     // snapshot cache TTL, default "30s"
	RefreshInterval string   `toml:"refresh_interval"` // background re-warm interval, default "5m"
}

// GetCacheWindow parses and returns the snapshot cache TTL
func (c *FundsConfig) GetCacheWindow() time.Duration {
	d, err := time.ParseDuration(c.CacheWindow)
	if err != nil || d <= 0 {
		return FreshnessValuation
	}
	return d
}

// GetRefreshInterval parses and returns the background refresh interval
func (c *FundsConfig) GetRefreshInterval() time.Duration {
	d, err := time.ParseDuration(c.RefreshInterval)
	if err != nil || d <= 0 {
		return 5 * time.Minute
	}
	return d
}

// StorageConfig holds storage configuration
type StorageConfig struct {
	Path string `toml:"path"` // base directory for positions + kv JSON files
}

// ClientsConfig holds upstream API client configurations
type ClientsConfig struct {
	Fundgz    FundgzConfig    `toml:"fundgz"`
	Eastmoney EastmoneyConfig `toml:"eastmoney"`
}

// FundgzConfig holds the real-time valuation endpoint configuration
type FundgzConfig struct {
	BaseURL   string `toml:"base_url"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *FundgzConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// EastmoneyConfig holds the history/detail endpoint configuration
type EastmoneyConfig struct {
	HistoryBaseURL string `toml:"history_base_url"`
	DetailBaseURL  string `toml:"detail_base_url"`
	RateLimit      int    `toml:"rate_limit"`
	Timeout        string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *EastmoneyConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 15 * time.Second
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level    string   `toml:"level"`
	Outputs  []string `toml:"outputs"`
	FilePath string   `toml:"file_path"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Funds: FundsConfig{
			Tracked: []string{
				"005911", "002311", "161725", "001632",
				"003096", "000071", "110022", "001593",
			},
			CacheWindow:     "30s",
			RefreshInterval: "5m",
		},
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageConfig{
			Path: "data",
		},
		Clients: ClientsConfig{
			Fundgz: FundgzConfig{
				BaseURL:   "https://fundgz.1234567.com.cn",
				RateLimit: 10,
				Timeout:   "10s",
			},
			Eastmoney: EastmoneyConfig{
				HistoryBaseURL: "https://fund.eastmoney.com/f10/F10DataApi.aspx",
				DetailBaseURL:  "https://fund.eastmoney.com/pingzhongdata",
				RateLimit:      5,
				Timeout:        "15s",
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Outputs:  []string{"console"},
			FilePath: "./logs/fundwatch.log",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("FUNDWATCH_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("FUNDWATCH_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("FUNDWATCH_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("FUNDWATCH_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("FUNDWATCH_DATA_PATH"); path != "" {
		config.Storage.Path = path
	}

	if tracked := os.Getenv("FUNDWATCH_TRACKED_FUNDS"); tracked != "" {
		var codes []string
		for _, c := range strings.Split(tracked, ",") {
			c = strings.TrimSpace(c)
			if c != "" {
				codes = append(codes, c)
			}
		}
		if len(codes) > 0 {
			config.Funds.Tracked = codes
		}
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
