package util

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleDoc = json.RawMessage(`{
	"run_id": "run-1",
	"status": "completed",
	"summary": {"steps_count": 3, "agents": ["recon", "web"]},
	"results": [{"tool": "nmap", "open_ports": [22, 80]}]
}`)

func TestExtractFieldNested(t *testing.T) {
	v, err := ExtractField(sampleDoc, "summary.steps_count")
	require.NoError(t, err)
	assert.EqualValues(t, 3, v)

	v, err = ExtractField(sampleDoc, "results[0].tool")
	require.NoError(t, err)
	assert.Equal(t, "nmap", v)
}

func TestExtractFieldMissingPathIsNil(t *testing.T) {
	v, err := ExtractField(sampleDoc, "summary.nonexistent")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestExtractString(t *testing.T) {
	s, err := ExtractString(sampleDoc, "status")
	require.NoError(t, err)
	assert.Equal(t, "completed", s)

	// non-string value narrows to empty
	s, err = ExtractString(sampleDoc, "summary.steps_count")
	require.NoError(t, err)
	assert.Empty(t, s)
}

func TestHasFields(t *testing.T) {
	missing, err := HasFields(sampleDoc, []string{"run_id", "status", "ended_at", "plan_id"})
	require.NoError(t, err)
	assert.Equal(t, []string{"ended_at", "plan_id"}, missing)

	missing, err = HasFields(sampleDoc, []string{"run_id"})
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestMaskSensitive(t *testing.T) {
	out := MaskSensitive(map[string]any{
		"username":    "svc",
		"OS_PASSWORD": "hunter2",
		"api_key":     "abc",
		"host":        "localhost",
	})
	assert.Equal(t, "svc", out["username"])
	assert.Equal(t, "[redacted]", out["OS_PASSWORD"])
	assert.Equal(t, "[redacted]", out["api_key"])
	assert.Equal(t, "localhost", out["host"])
}
