// Package config defines the verification suite's configuration surface.
//
// All settings are loaded once from environment variables (plus an optional
// .env file for development) into an immutable AppConfig that is passed by
// parameter into every client and harness constructor. There is no ambient
// global configuration state.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// AppConfig composes the domain-specific configuration from separate files:
//   - api.go: orchestrator API client configuration
//   - search.go: search backend (OpenSearch) configuration
//   - harness.go: verification harness timing and checkpoint configuration
//   - observability.go: metrics configuration
type AppConfig struct {
	API           APIConfig
	Search        SearchConfig
	Harness       HarnessConfig
	Checkpoint    CheckpointConfig
	Observability ObservabilityConfig
}

// Load reads configuration from the environment, loading a .env file first
// when one exists, and applies guardrails to every section.
func Load() (AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return AppConfig{}, fmt.Errorf("load .env file: %w", err)
		}
	}

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	cfg.Sanitize()
	return cfg, nil
}

// Sanitize applies guardrails to configuration values loaded from env.
func (c *AppConfig) Sanitize() {
	c.API.Sanitize()
	c.Search.Sanitize()
	c.Harness.Sanitize()
	c.Checkpoint.Sanitize()
	c.Observability.Sanitize()
}
