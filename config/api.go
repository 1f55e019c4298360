package config

import (
	"strings"
	"time"
)

// APIConfig configures the orchestrator API client.
type APIConfig struct {
	// BaseURL is the orchestrator API root, including the version prefix.
	BaseURL string `env:"API_BASE" envDefault:"http://localhost:8080/api/v1"`

	// Timeout bounds each individual HTTP request.
	Timeout time.Duration `env:"API_TIMEOUT" envDefault:"30s"`

	// TenantID is the default tenant submitted with runs.
	TenantID string `env:"DEFAULT_TENANT_ID" envDefault:"test-tenant-001"`

	// Simulate controls whether submitted runs request simulation mode.
	// Leave enabled unless the target environment is a dedicated lab range.
	Simulate bool `env:"DEFAULT_SIMULATE" envDefault:"true"`
}

// Sanitize normalises the API configuration.
func (c *APIConfig) Sanitize() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	c.TenantID = strings.TrimSpace(c.TenantID)
}
