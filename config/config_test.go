package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/api/v1", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.True(t, cfg.API.Simulate)

	assert.Equal(t, "http://localhost:9200", cfg.Search.Address())
	assert.Equal(t, "cybrty-planner", cfg.Search.Indices.Planner)
	assert.Equal(t, "cybrty-actions", cfg.Search.Indices.Actions)
	assert.Equal(t, "cybrty-runs", cfg.Search.Indices.Runs)

	assert.Equal(t, 300*time.Second, cfg.Harness.RunTimeout)
	assert.False(t, cfg.Checkpoint.Enabled)
	assert.False(t, cfg.Observability.MetricsEnabled)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("API_BASE", "https://orchestrator.test/api/v1")
	t.Setenv("OS_HOST", "search.test")
	t.Setenv("OS_PORT", "9443")
	t.Setenv("OS_SCHEME", "https")
	t.Setenv("OS_VERIFY_CERTS", "true")
	t.Setenv("TEST_TIMEOUT", "90s")
	t.Setenv("DEFAULT_TENANT_ID", "tenant-42")
	t.Setenv("DEFAULT_SIMULATE", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://orchestrator.test/api/v1", cfg.API.BaseURL)
	assert.Equal(t, "tenant-42", cfg.API.TenantID)
	assert.False(t, cfg.API.Simulate)
	assert.Equal(t, "https://search.test:9443", cfg.Search.Address())
	assert.True(t, cfg.Search.VerifyCerts)
	assert.Equal(t, 90*time.Second, cfg.Harness.RunTimeout)
}

func TestSanitizeGuardrails(t *testing.T) {
	cfg := AppConfig{}
	cfg.Search.Port = -1
	cfg.Search.Scheme = "gopher"
	cfg.Harness.RunTimeout = -time.Second
	cfg.Checkpoint.RedisAddr = "  "
	cfg.Checkpoint.Enabled = true
	cfg.Observability.MetricsEnabled = true
	cfg.Observability.StatsdAddress = ""

	cfg.Sanitize()

	assert.Equal(t, 9200, cfg.Search.Port)
	assert.Equal(t, "http", cfg.Search.Scheme)
	assert.Equal(t, 300*time.Second, cfg.Harness.RunTimeout)
	// unusable addresses disable their feature instead of failing later
	assert.False(t, cfg.Checkpoint.Enabled)
	assert.False(t, cfg.Observability.MetricsEnabled)
}

func TestIndexConfigAll(t *testing.T) {
	idx := IndexConfig{Planner: "p", Actions: "a", Runs: "r"}
	assert.Equal(t, []string{"p", "a", "r"}, idx.All())
}
