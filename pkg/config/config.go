package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds environment-driven settings for the bot server.
type Config struct {
	Port     string `envconfig:"PORT" default:"8080"`
	GRPCAddr string `envconfig:"GRPC_ADDR" default:":9090"` // empty disables gRPC
	GinMode  string `envconfig:"GIN_MODE" default:"release"`

	// Start-of-process bot state
	InitialBalance   float64 `envconfig:"INITIAL_BALANCE" default:"1000"`
	DefaultStrategy  string  `envconfig:"DEFAULT_STRATEGY" default:"basic"`
	DefaultThreshold float64 `envconfig:"DEFAULT_THRESHOLD" default:"0.5"`

	// Alert when the simulated balance drops below this value
	AlertBalanceFloor float64 `envconfig:"ALERT_BALANCE_FLOOR" default:"0"`

	// Audit journal
	EnableJournal        bool          `envconfig:"ENABLE_JOURNAL" default:"false"`
	DBPath               string        `envconfig:"DB_PATH" default:"./data/journal.db"`
	JournalBatchSize     int           `envconfig:"JOURNAL_BATCH_SIZE" default:"50"`
	JournalFlushInterval time.Duration `envconfig:"JOURNAL_FLUSH_INTERVAL" default:"500ms"`

	// HTTP middleware
	RateLimitRPS   float64       `envconfig:"RATE_LIMIT_RPS" default:"0"` // 0 disables
	RateLimitBurst int           `envconfig:"RATE_LIMIT_BURST" default:"20"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"10s"`

	// Localization
	Language string `envconfig:"LANGUAGE" default:"en"` // "en" or "zh"

	AppVersion string `envconfig:"APP_VERSION" default:"dev"`
}

// Load reads environment variables (optionally via .env) into Config.
func Load() (*Config, error) {
	// Ignore error so the app still starts when .env is missing.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the server cannot run with. The bot defaults
// themselves are never validated: any strategy tag and threshold is allowed.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if c.JournalBatchSize <= 0 {
		return fmt.Errorf("JOURNAL_BATCH_SIZE must be positive, got %d", c.JournalBatchSize)
	}
	if c.JournalFlushInterval <= 0 {
		return fmt.Errorf("JOURNAL_FLUSH_INTERVAL must be positive, got %s", c.JournalFlushInterval)
	}
	if c.EnableJournal && c.DBPath == "" {
		return fmt.Errorf("DB_PATH is required when ENABLE_JOURNAL=true")
	}
	if c.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must not be negative, got %v", c.RateLimitRPS)
	}
	if c.RateLimitRPS > 0 && c.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be positive when rate limiting is on")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout)
	}
	switch c.Language {
	case "en", "zh":
	default:
		return fmt.Errorf("LANGUAGE must be en or zh, got %q", c.Language)
	}
	switch c.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("GIN_MODE must be debug, release or test, got %q", c.GinMode)
	}
	return nil
}
