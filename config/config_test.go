package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "botter.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	// A non-existent file path yields pure defaults, no error.
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, DefaultUserAgent, cfg.UserAgent)
	assert.Equal(t, DefaultHTTPRetries, cfg.HTTPRetries)
	assert.Equal(t, DefaultBackoffFactor, cfg.BackoffFactor)
	assert.Equal(t, DefaultConcurrency, cfg.Concurrency)
	assert.Equal(t, DefaultMaxAttempts, cfg.MaxAttempts)
	assert.NotNil(t, cfg.DefaultHeaders, "DefaultHeaders map should be initialized")
}

func TestLoadFromFile(t *testing.T) {
	path := writeTempConfig(t, `
log_level: DEBUG
user_agent: "TestAgent/1.0"
default_headers:
  X-Custom-Header: "TestValue"
http_retries: 3
backoff_factor: 1.5
concurrency: 4
max_attempts: 7
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "DEBUG", cfg.LogLevel)
	assert.Equal(t, "TestAgent/1.0", cfg.UserAgent)
	assert.Equal(t, "TestValue", cfg.DefaultHeaders["X-Custom-Header"])
	assert.Equal(t, 3, cfg.HTTPRetries)
	assert.Equal(t, 1.5, cfg.BackoffFactor)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, 7, cfg.MaxAttempts)
}

func TestLoadMalformedFile(t *testing.T) {
	path := writeTempConfig(t, "log_level: [this is not valid\n")

	_, err := Load(path)
	assert.Error(t, err, "a file that exists but cannot be parsed is an error")
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeTempConfig(t, `
log_level: WARN
http_retries: 3
`)

	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("USER_AGENT", "EnvAgent/2.0")
	t.Setenv("HTTP_RETRIES", "9")
	t.Setenv("BACKOFF_FACTOR", "0.25")
	t.Setenv("CONCURRENCY", "6")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "DEBUG", cfg.LogLevel, "env should beat file")
	assert.Equal(t, "EnvAgent/2.0", cfg.UserAgent)
	assert.Equal(t, 9, cfg.HTTPRetries)
	assert.Equal(t, 0.25, cfg.BackoffFactor)
	assert.Equal(t, 6, cfg.Concurrency)
}

func TestEnvValidation(t *testing.T) {
	t.Setenv("CONCURRENCY", "0")

	_, err := Load("")
	assert.Error(t, err, "CONCURRENCY below 1 should be rejected")
}
