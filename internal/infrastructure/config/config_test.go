package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Server config
	assert.Equal(t, "7070", cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)

	// Logging config
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)

	// Rate limit config
	assert.Equal(t, 100, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 200, cfg.RateLimit.Burst)
	assert.True(t, cfg.RateLimit.Enabled)

	// Terminal config
	assert.Equal(t, 16*time.Millisecond, cfg.Terminal.FlushInterval)
	assert.Equal(t, 32*1024, cfg.Terminal.FlushThreshold)
	assert.Equal(t, 80, cfg.Terminal.DefaultCols)
	assert.Equal(t, 24, cfg.Terminal.DefaultRows)
	assert.Equal(t, 30*time.Second, cfg.Terminal.RunTimeout)
}

func TestLoadOrDefault(t *testing.T) {
	// Should return defaults when no env vars set
	cfg := LoadOrDefault()

	assert.NotNil(t, cfg)
	assert.Equal(t, "7070", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	envVars := map[string]string{
		"PORT":                 "9000",
		"HOST":                 "0.0.0.0",
		"LOG_LEVEL":            "debug",
		"LOG_DEV":              "true",
		"RATE_LIMIT_RPS":       "500",
		"RATE_LIMIT_BURST":     "1000",
		"RATE_LIMIT_ENABLED":   "false",
		"TERM_FLUSH_INTERVAL":  "8ms",
		"TERM_FLUSH_THRESHOLD": "1024",
		"TERM_DEFAULT_COLS":    "132",
		"TERM_DEFAULT_ROWS":    "50",
		"TERM_RUN_TIMEOUT":     "5s",
	}
	for key, value := range envVars {
		t.Setenv(key, value)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)
	assert.Equal(t, 500, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 1000, cfg.RateLimit.Burst)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 8*time.Millisecond, cfg.Terminal.FlushInterval)
	assert.Equal(t, 1024, cfg.Terminal.FlushThreshold)
	assert.Equal(t, 132, cfg.Terminal.DefaultCols)
	assert.Equal(t, 50, cfg.Terminal.DefaultRows)
	assert.Equal(t, 5*time.Second, cfg.Terminal.RunTimeout)
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	t.Setenv("TERM_FLUSH_INTERVAL", "not-a-duration")

	_, err := Load()
	assert.Error(t, err)

	// LoadOrDefault swallows the failure and falls back
	cfg := LoadOrDefault()
	assert.Equal(t, 16*time.Millisecond, cfg.Terminal.FlushInterval)
}
