package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all service configuration.
type Config struct {
	Server    ServerConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
	Terminal  TerminalConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"7070"`
	Host string `envconfig:"HOST" default:"127.0.0.1"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// TerminalConfig holds PTY session configuration.
type TerminalConfig struct {
	// FlushInterval is the output batching tick; one animation frame keeps
	// the client responsive while bounding message volume.
	FlushInterval time.Duration `envconfig:"TERM_FLUSH_INTERVAL" default:"16ms"`

	// FlushThreshold flushes a batch early once it exceeds this many bytes.
	FlushThreshold int `envconfig:"TERM_FLUSH_THRESHOLD" default:"32768"`

	DefaultCols int `envconfig:"TERM_DEFAULT_COLS" default:"80"`
	DefaultRows int `envconfig:"TERM_DEFAULT_ROWS" default:"24"`

	// RunTimeout bounds the one-shot command facade.
	RunTimeout time.Duration `envconfig:"TERM_RUN_TIMEOUT" default:"30s"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns defaults.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "7070",
			Host: "127.0.0.1",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		Terminal: TerminalConfig{
			FlushInterval:  16 * time.Millisecond,
			FlushThreshold: 32 * 1024,
			DefaultCols:    80,
			DefaultRows:    24,
			RunTimeout:     30 * time.Second,
		},
	}
}
