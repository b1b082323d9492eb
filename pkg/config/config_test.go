package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir()) // keep a developer's .env out of the test

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ":9090", cfg.GRPCAddr)
	assert.Equal(t, 1000.0, cfg.InitialBalance)
	assert.Equal(t, "basic", cfg.DefaultStrategy)
	assert.Equal(t, 0.5, cfg.DefaultThreshold)
	assert.Zero(t, cfg.AlertBalanceFloor)
	assert.False(t, cfg.EnableJournal)
	assert.Equal(t, 50, cfg.JournalBatchSize)
	assert.Equal(t, 500*time.Millisecond, cfg.JournalFlushInterval)
	assert.Zero(t, cfg.RateLimitRPS)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "en", cfg.Language)
}

func TestLoadFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "9000")
	t.Setenv("GRPC_ADDR", "")
	t.Setenv("DEFAULT_STRATEGY", "macd")
	t.Setenv("DEFAULT_THRESHOLD", "-2.5")
	t.Setenv("ENABLE_JOURNAL", "true")
	t.Setenv("JOURNAL_FLUSH_INTERVAL", "2s")
	t.Setenv("LANGUAGE", "zh")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Empty(t, cfg.GRPCAddr)
	assert.Equal(t, "macd", cfg.DefaultStrategy)
	assert.Equal(t, -2.5, cfg.DefaultThreshold)
	assert.True(t, cfg.EnableJournal)
	assert.Equal(t, 2*time.Second, cfg.JournalFlushInterval)
	assert.Equal(t, "zh", cfg.Language)
}

func TestLoadRejectsMalformedNumber(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("INITIAL_BALANCE", "lots")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Port:                 "8080",
			GinMode:              "release",
			JournalBatchSize:     10,
			JournalFlushInterval: time.Second,
			RequestTimeout:       time.Second,
			Language:             "en",
		}
	}

	cases := map[string]func(*Config){
		"empty port":          func(c *Config) { c.Port = "" },
		"zero batch":          func(c *Config) { c.JournalBatchSize = 0 },
		"zero flush interval": func(c *Config) { c.JournalFlushInterval = 0 },
		"journal without db":  func(c *Config) { c.EnableJournal = true; c.DBPath = "" },
		"negative rps":        func(c *Config) { c.RateLimitRPS = -1 },
		"rps without burst":   func(c *Config) { c.RateLimitRPS = 5; c.RateLimitBurst = 0 },
		"zero timeout":        func(c *Config) { c.RequestTimeout = 0 },
		"unknown language":    func(c *Config) { c.Language = "fr" },
		"unknown gin mode":    func(c *Config) { c.GinMode = "loud" },
	}

	base := valid()
	require.NoError(t, base.Validate())

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := valid()
			mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}
