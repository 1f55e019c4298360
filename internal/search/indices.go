package search

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cybrty/pentest-e2e/config"
)

// Index mappings for the three logging indices the orchestrator writes to.
// Fields asserted on by the suite are typed keyword or date so term queries
// match exactly without analyzer surprises.
var (
	plannerMapping = map[string]any{
		"properties": map[string]any{
			"plan_id":    map[string]any{"type": "keyword"},
			"run_id":     map[string]any{"type": "keyword"},
			"tenant_id":  map[string]any{"type": "keyword"},
			"created_at": map[string]any{"type": "date"},
			"status":     map[string]any{"type": "keyword"},
			"steps":      map[string]any{"type": "object"},
		},
	}

	actionsMapping = map[string]any{
		"properties": map[string]any{
			"run_id":      map[string]any{"type": "keyword"},
			"step_id":     map[string]any{"type": "keyword"},
			"tenant_id":   map[string]any{"type": "keyword"},
			"agent":       map[string]any{"type": "keyword"},
			"tool":        map[string]any{"type": "keyword"},
			"target":      map[string]any{"type": "keyword"},
			"status":      map[string]any{"type": "keyword"},
			"started_at":  map[string]any{"type": "date"},
			"ended_at":    map[string]any{"type": "date"},
			"duration_ms": map[string]any{"type": "long"},
			"artifacts":   map[string]any{"type": "object"},
		},
	}

	runsMapping = map[string]any{
		"properties": map[string]any{
			"run_id":          map[string]any{"type": "keyword"},
			"plan_id":         map[string]any{"type": "keyword"},
			"tenant_id":       map[string]any{"type": "keyword"},
			"status":          map[string]any{"type": "keyword"},
			"started_at":      map[string]any{"type": "date"},
			"ended_at":        map[string]any{"type": "date"},
			"duration_ms":     map[string]any{"type": "long"},
			"steps_count":     map[string]any{"type": "integer"},
			"steps_completed": map[string]any{"type": "integer"},
			"steps_failed":    map[string]any{"type": "integer"},
			"findings_count":  map[string]any{"type": "integer"},
			"error_message":   map[string]any{"type": "text"},
		},
	}
)

// EnsureIndices creates any of the configured logging indices that do not
// exist yet and refreshes them so earlier writes become searchable. Existing
// indices keep their mappings untouched.
func EnsureIndices(ctx context.Context, c *Client, idx config.IndexConfig, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	wanted := []struct {
		name    string
		mapping map[string]any
	}{
		{idx.Planner, plannerMapping},
		{idx.Actions, actionsMapping},
		{idx.Runs, runsMapping},
	}

	for _, w := range wanted {
		exists, err := c.IndexExists(ctx, w.name)
		if err != nil {
			return fmt.Errorf("ensure index %s: %w", w.name, err)
		}
		if !exists {
			logger.InfoContext(ctx, "creating index", "index", w.name)
			if err := c.CreateIndex(ctx, w.name, w.mapping); err != nil {
				return fmt.Errorf("ensure index %s: %w", w.name, err)
			}
		}
		if err := c.RefreshIndex(ctx, w.name); err != nil {
			return fmt.Errorf("ensure index %s: %w", w.name, err)
		}
	}
	return nil
}
