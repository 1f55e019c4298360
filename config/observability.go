package config

import "strings"

// ObservabilityConfig controls emission of suite metrics to a StatsD sink.
type ObservabilityConfig struct {
	MetricsEnabled bool   `env:"METRICS_ENABLED"        envDefault:"false"`
	StatsdAddress  string `env:"METRICS_STATSD_ADDRESS" envDefault:"127.0.0.1:8125"`
}

// Sanitize normalises derived fields and enforces safe defaults.
func (c *ObservabilityConfig) Sanitize() {
	c.StatsdAddress = strings.TrimSpace(c.StatsdAddress)
	if c.StatsdAddress == "" {
		c.MetricsEnabled = false
	}
}
