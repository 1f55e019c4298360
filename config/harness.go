package config

import (
	"strings"
	"time"
)

// HarnessConfig controls verification timing.
//
// Job durations in this domain range from seconds to minutes, so the poller
// uses uniform intervals in the 1-25 second range rather than backoff. The
// run timeout is deliberately generous: the logging pipeline gives no bound
// on how long after a terminal status the log documents become visible.
type HarnessConfig struct {
	// RunTimeout bounds how long a single run is polled for a terminal status.
	RunTimeout time.Duration `env:"TEST_TIMEOUT" envDefault:"300s"`

	// StatusInterval is the delay between run status checks.
	StatusInterval time.Duration `env:"TEST_STATUS_INTERVAL" envDefault:"5s"`

	// LogTimeout bounds how long log visibility is polled after a terminal
	// status, refresh included.
	LogTimeout time.Duration `env:"TEST_LOG_TIMEOUT" envDefault:"120s"`

	// LogInterval is the delay between log visibility checks.
	LogInterval time.Duration `env:"TEST_LOG_INTERVAL" envDefault:"5s"`

	// ReadyTimeout bounds the startup wait for API and search readiness.
	ReadyTimeout time.Duration `env:"TEST_READY_TIMEOUT" envDefault:"60s"`

	// ReadyInterval is the delay between readiness checks.
	ReadyInterval time.Duration `env:"TEST_READY_INTERVAL" envDefault:"2s"`
}

// Sanitize applies guardrails to harness timing values.
func (c *HarnessConfig) Sanitize() {
	if c.RunTimeout <= 0 {
		c.RunTimeout = 300 * time.Second
	}
	if c.StatusInterval <= 0 {
		c.StatusInterval = 5 * time.Second
	}
	if c.LogTimeout <= 0 {
		c.LogTimeout = 120 * time.Second
	}
	if c.LogInterval <= 0 {
		c.LogInterval = 5 * time.Second
	}
	if c.ReadyTimeout <= 0 {
		c.ReadyTimeout = 60 * time.Second
	}
	if c.ReadyInterval <= 0 {
		c.ReadyInterval = 2 * time.Second
	}
}

// CheckpointConfig configures the optional Redis-backed record of runs that
// already verified, letting a re-run of a long suite skip proven scenarios.
type CheckpointConfig struct {
	Enabled   bool          `env:"CHECKPOINT_ENABLED"    envDefault:"false"`
	RedisAddr string        `env:"CHECKPOINT_REDIS_ADDR" envDefault:"localhost:6379"`
	RedisDB   int           `env:"CHECKPOINT_REDIS_DB"   envDefault:"0"`
	Password  string        `env:"CHECKPOINT_REDIS_PASSWORD" envDefault:""`
	TTL       time.Duration `env:"CHECKPOINT_TTL"        envDefault:"24h"`
}

// Sanitize normalises checkpoint configuration.
func (c *CheckpointConfig) Sanitize() {
	c.RedisAddr = strings.TrimSpace(c.RedisAddr)
	if c.RedisAddr == "" {
		c.Enabled = false
	}
	if c.RedisDB < 0 {
		c.RedisDB = 0
	}
	if c.TTL <= 0 {
		c.TTL = 24 * time.Hour
	}
}
