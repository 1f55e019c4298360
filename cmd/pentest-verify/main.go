// Command pentest-verify checks a deployed orchestration environment: it
// waits for the API and search cluster, ensures the logging indices exist,
// and optionally drives a full smoke run through submission, completion, and
// log verification.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/cybrty/pentest-e2e/config"
	"github.com/cybrty/pentest-e2e/internal/bootstrap"
	"github.com/cybrty/pentest-e2e/internal/domain/model"
	"github.com/cybrty/pentest-e2e/internal/gen"
	"github.com/cybrty/pentest-e2e/internal/harness"
)

func main() {
	smoke := flag.Bool("smoke", false, "submit a simulated recon run and verify its audit trail")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := bootstrap.InitLogger()
	if err := run(ctx, logger, *smoke); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger, smoke bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	bootstrap.LogStartupInfo(ctx, logger, &cfg)

	h, err := harness.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer h.Close()

	if err := h.EnsureIndices(ctx); err != nil {
		return err
	}
	logger.InfoContext(ctx, "logging indices ready", "indices", cfg.Search.Indices.All())

	if !smoke {
		logger.InfoContext(ctx, "environment check passed")
		return nil
	}

	tenantID := cfg.API.TenantID
	if tenantID == "" {
		tenantID = gen.TenantID()
	}

	run, err := h.SubmitAndAwaitTerminal(ctx, model.SubmitRunRequest{
		TenantID: tenantID,
		AutoPlan: true,
		Inputs: model.RunInputs{
			Targets:  []string{gen.SafeIP()},
			Depth:    model.DepthBasic,
			Features: []string{"recon"},
			Simulate: cfg.API.Simulate,
		},
	})
	if err != nil {
		return err
	}
	if run.Status != model.RunStatusCompleted {
		return fmt.Errorf("smoke run %s finished %s, want completed", run.RunID, run.Status)
	}

	if err := h.VerifyRunLogging(ctx, run.RunID, 1); err != nil {
		return err
	}
	logger.InfoContext(ctx, "smoke run verified", "run_id", run.RunID)
	return nil
}
