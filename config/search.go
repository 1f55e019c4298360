package config

import (
	"fmt"
	"strings"
	"time"
)

// SearchConfig configures the OpenSearch backend used to verify durable
// logging of orchestrator activity.
type SearchConfig struct {
	Host        string        `env:"OS_HOST"         envDefault:"localhost"`
	Port        int           `env:"OS_PORT"         envDefault:"9200"`
	Scheme      string        `env:"OS_SCHEME"       envDefault:"http"`
	Username    string        `env:"OS_USERNAME"     envDefault:""`
	Password    string        `env:"OS_PASSWORD"     envDefault:""`
	VerifyCerts bool          `env:"OS_VERIFY_CERTS" envDefault:"false"`
	Timeout     time.Duration `env:"OS_TIMEOUT"      envDefault:"30s"`

	Indices IndexConfig
}

// IndexConfig names the three logical indices the orchestrator logs to.
type IndexConfig struct {
	// Planner holds one document per planning decision.
	Planner string `env:"OS_IDX_PLANNER" envDefault:"cybrty-planner"`
	// Actions holds one document per executed step.
	Actions string `env:"OS_IDX_ACTIONS" envDefault:"cybrty-actions"`
	// Runs holds one summary document per run.
	Runs string `env:"OS_IDX_RUNS" envDefault:"cybrty-runs"`
}

// Sanitize normalises the search configuration.
func (c *SearchConfig) Sanitize() {
	c.Host = strings.TrimSpace(c.Host)
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port <= 0 || c.Port > 65535 {
		c.Port = 9200
	}
	c.Scheme = strings.ToLower(strings.TrimSpace(c.Scheme))
	if c.Scheme != "https" {
		c.Scheme = "http"
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
}

// Address returns the backend URL derived from scheme, host, and port.
func (c *SearchConfig) Address() string {
	return fmt.Sprintf("%s://%s:%d", c.Scheme, c.Host, c.Port)
}

// All returns every configured index name.
func (i IndexConfig) All() []string {
	return []string{i.Planner, i.Actions, i.Runs}
}
