// Package bootstrap initializes process-level concerns for the suite's
// entrypoints.
package bootstrap

import (
	"context"
	"log/slog"
	"os"

	"github.com/cybrty/pentest-e2e/config"
	"github.com/cybrty/pentest-e2e/internal/util"
)

// InitLogger initializes the structured logger.
func InitLogger() *slog.Logger {
	level := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return logger
}

// LogStartupInfo logs the effective configuration with credentials redacted.
func LogStartupInfo(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) {
	settings := util.MaskSensitive(map[string]any{
		"api_base":           cfg.API.BaseURL,
		"api_timeout":        cfg.API.Timeout.String(),
		"tenant_id":          cfg.API.TenantID,
		"simulate":           cfg.API.Simulate,
		"search_address":     cfg.Search.Address(),
		"search_username":    cfg.Search.Username,
		"search_password":    cfg.Search.Password,
		"verify_certs":       cfg.Search.VerifyCerts,
		"index_planner":      cfg.Search.Indices.Planner,
		"index_actions":      cfg.Search.Indices.Actions,
		"index_runs":         cfg.Search.Indices.Runs,
		"run_timeout":        cfg.Harness.RunTimeout.String(),
		"log_timeout":        cfg.Harness.LogTimeout.String(),
		"checkpoint_enabled": cfg.Checkpoint.Enabled,
		"metrics_enabled":    cfg.Observability.MetricsEnabled,
	})
	logger.InfoContext(ctx, "starting verification suite", "config", settings)
}
