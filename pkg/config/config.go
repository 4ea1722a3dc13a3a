// Package config loads and validates the search server configuration from a
// YAML file with environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	apperrors "github.com/Adithya-Monish-Kumar-K/search-server/pkg/errors"
)

// Config is the top-level application configuration.
type Config struct {
	Search  SearchConfig  `yaml:"search"`
	History HistoryConfig `yaml:"history"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// SearchConfig holds the stop words the server is constructed with and the
// page size used when printing result pages.
type SearchConfig struct {
	// StopWords is a space-delimited list. It is used when StopWordList is
	// empty.
	StopWords    string   `yaml:"stopWords"`
	StopWordList []string `yaml:"stopWordList"`
	PageSize     int      `yaml:"pageSize"`
}

// HistoryConfig controls the request-history sliding window.
type HistoryConfig struct {
	Window int `yaml:"window"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the Prometheus metrics server.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

// Load reads a YAML config file (if provided), applies environment-variable
// overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Search: SearchConfig{
			StopWords: "",
			PageSize:  2,
		},
		History: HistoryConfig{
			Window: 1440,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9090,
		},
	}
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var result *multierror.Error
	if c.Search.PageSize < 1 {
		result = multierror.Append(result, apperrors.Newf(apperrors.ErrInvalidConfig,
			"search.pageSize must be positive, got %d", c.Search.PageSize))
	}
	if c.History.Window < 1 {
		result = multierror.Append(result, apperrors.Newf(apperrors.ErrInvalidConfig,
			"history.window must be positive, got %d", c.History.Window))
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		result = multierror.Append(result, apperrors.Newf(apperrors.ErrInvalidConfig,
			"logging.format must be text or json, got %q", c.Logging.Format))
	}
	if c.Metrics.Enabled && (c.Metrics.Port < 1 || c.Metrics.Port > 65535) {
		result = multierror.Append(result, apperrors.Newf(apperrors.ErrInvalidConfig,
			"metrics.port out of range: %d", c.Metrics.Port))
	}
	return result.ErrorOrNil()
}

// applyEnvOverrides reads SP_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	if v, ok := os.LookupEnv("SP_SEARCH_STOP_WORDS"); ok {
		cfg.Search.StopWords = v
		cfg.Search.StopWordList = nil
	}
	if v := os.Getenv("SP_SEARCH_PAGE_SIZE"); v != "" {
		if size, err := strconv.Atoi(v); err == nil {
			cfg.Search.PageSize = size
		}
	}
	if v := os.Getenv("SP_HISTORY_WINDOW"); v != "" {
		if window, err := strconv.Atoi(v); err == nil {
			cfg.History.Window = window
		}
	}
	if v := os.Getenv("SP_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("SP_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("SP_METRICS_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Metrics.Enabled = enabled
		}
	}
	if v := os.Getenv("SP_METRICS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Metrics.Port = port
		}
	}
}
