package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Default values used when neither the config file nor the environment
// provides a setting.
const (
	DefaultUserAgent     = "Mozilla/5.0 (compatible; instagram-botter/1.0)"
	DefaultLogLevel      = "INFO"
	DefaultHTTPRetries   = 5
	DefaultBackoffFactor = 0.5
	DefaultConcurrency   = 2
	DefaultMaxAttempts   = 5
	DefaultJitter        = 0.5
)

// Config holds the full application configuration. It is built once at
// startup (file, then environment overrides) and passed read-only into every
// component, so no component reads process-wide state on its own.
type Config struct {
	// LogLevel is the minimum logging verbosity ("DEBUG", "INFO", "WARN", "ERROR").
	LogLevel string `yaml:"log_level"`

	// UserAgent is sent on every outgoing request.
	UserAgent string `yaml:"user_agent"`

	// DefaultHeaders are applied to all outgoing requests in addition to the
	// User-Agent header.
	DefaultHeaders map[string]string `yaml:"default_headers"`

	// HTTPRetries is the connection-level retry count. These retries happen
	// transparently inside the transport, beneath the application-level retry
	// loop, and react to transport errors and 429/500/502/503/504 statuses.
	HTTPRetries int `yaml:"http_retries"`

	// BackoffFactor scales the connection-level retry schedule
	// (factor * 2^n seconds between transport retries).
	BackoffFactor float64 `yaml:"backoff_factor"`

	// Concurrency is the worker pool size and chunk size for dispatching.
	Concurrency int `yaml:"concurrency"`

	// MaxAttempts bounds the application-level retry loop reacting to
	// rate-limit signals (429/420) and transport failures.
	MaxAttempts int `yaml:"max_attempts"`

	// Jitter is the fraction by which backoff delays are randomly perturbed.
	Jitter float64 `yaml:"jitter"`
}

// Load builds the configuration in three layers: built-in defaults, an
// optional YAML file, then environment variable overrides (LOG_LEVEL,
// USER_AGENT, HTTP_RETRIES, BACKOFF_FACTOR, CONCURRENCY).
//
// A missing config file is not an error; the defaults simply stand. A file
// that exists but cannot be parsed is an error.
func Load(filePath string) (*Config, error) {
	cfg := &Config{
		LogLevel:       DefaultLogLevel,
		UserAgent:      DefaultUserAgent,
		DefaultHeaders: make(map[string]string),
		HTTPRetries:    DefaultHTTPRetries,
		BackoffFactor:  DefaultBackoffFactor,
		Concurrency:    DefaultConcurrency,
		MaxAttempts:    DefaultMaxAttempts,
		Jitter:         DefaultJitter,
	}

	if filePath != "" {
		data, err := os.ReadFile(filePath)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading config file %s: %w", filePath, err)
			}
			// File not found: proceed with defaults.
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", filePath, err)
		}
	}

	if cfg.DefaultHeaders == nil {
		cfg.DefaultHeaders = make(map[string]string)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnv overlays environment variables onto cfg. Only variables that are
// actually set override the current values.
func applyEnv(cfg *Config) error {
	v := viper.New()
	v.AutomaticEnv()

	if v.IsSet("LOG_LEVEL") {
		cfg.LogLevel = v.GetString("LOG_LEVEL")
	}
	if v.IsSet("USER_AGENT") {
		cfg.UserAgent = v.GetString("USER_AGENT")
	}
	if v.IsSet("HTTP_RETRIES") {
		n := v.GetInt("HTTP_RETRIES")
		if n < 0 {
			return fmt.Errorf("HTTP_RETRIES must be non-negative, got %d", n)
		}
		cfg.HTTPRetries = n
	}
	if v.IsSet("BACKOFF_FACTOR") {
		f := v.GetFloat64("BACKOFF_FACTOR")
		if f < 0 {
			return fmt.Errorf("BACKOFF_FACTOR must be non-negative, got %v", f)
		}
		cfg.BackoffFactor = f
	}
	if v.IsSet("CONCURRENCY") {
		n := v.GetInt("CONCURRENCY")
		if n < 1 {
			return fmt.Errorf("CONCURRENCY must be at least 1, got %d", n)
		}
		cfg.Concurrency = n
	}

	return nil
}
