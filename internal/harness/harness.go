// Package harness wires the orchestrator API client, the search backend, and
// the condition poller into end-to-end verification flows. Every scenario in
// the suite drives its run lifecycle through a Harness.
package harness

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/cybrty/pentest-e2e/config"
	"github.com/cybrty/pentest-e2e/internal/apiclient"
	"github.com/cybrty/pentest-e2e/internal/checkpoint"
	"github.com/cybrty/pentest-e2e/internal/observability/statsd"
	"github.com/cybrty/pentest-e2e/internal/search"
)

// Harness owns the clients a verification scenario needs. Construct with New
// and release with Close.
type Harness struct {
	cfg config.AppConfig

	API         *apiclient.Client
	Search      *search.Client
	Checkpoints *checkpoint.Store
	Metrics     *statsd.Client

	logger *slog.Logger
}

// New builds every client from config and waits for the orchestrator API and
// the search cluster to become ready, checking both concurrently. Any
// failure tears down what was already constructed.
func New(ctx context.Context, cfg config.AppConfig, logger *slog.Logger) (*Harness, error) {
	if logger == nil {
		logger = slog.Default()
	}

	metrics, err := statsd.NewClient(statsd.Config{
		Enabled: cfg.Observability.MetricsEnabled,
		Address: cfg.Observability.StatsdAddress,
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create metrics client: %w", err)
	}

	api, err := apiclient.NewClient(cfg.API, apiclient.Options{Logger: logger})
	if err != nil {
		_ = metrics.Close()
		return nil, fmt.Errorf("create api client: %w", err)
	}

	searchClient, err := search.NewClient(cfg.Search, logger)
	if err != nil {
		api.Close()
		_ = metrics.Close()
		return nil, fmt.Errorf("create search client: %w", err)
	}

	store, err := checkpoint.NewStore(ctx, cfg.Checkpoint, logger)
	if err != nil {
		searchClient.Close()
		api.Close()
		_ = metrics.Close()
		return nil, fmt.Errorf("create checkpoint store: %w", err)
	}

	h := &Harness{
		cfg:         cfg,
		API:         api,
		Search:      searchClient,
		Checkpoints: store,
		Metrics:     metrics,
		logger:      logger.With("component", "harness"),
	}

	if err := h.waitForReady(ctx); err != nil {
		h.Close()
		return nil, err
	}
	return h, nil
}

func (h *Harness) waitForReady(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	timing := h.cfg.Harness

	g.Go(func() error {
		if !h.API.WaitForReady(gctx, timing.ReadyTimeout, timing.ReadyInterval) {
			return fmt.Errorf("orchestrator api not ready within %s", timing.ReadyTimeout)
		}
		return nil
	})
	g.Go(func() error {
		if !h.Search.WaitForReady(gctx, timing.ReadyTimeout, timing.ReadyInterval) {
			return fmt.Errorf("search cluster not ready within %s", timing.ReadyTimeout)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	h.logger.InfoContext(ctx, "environment ready",
		"api", h.cfg.API.BaseURL,
		"search", h.cfg.Search.Address())
	return nil
}

// EnsureIndices creates any missing logging indices.
func (h *Harness) EnsureIndices(ctx context.Context) error {
	return search.EnsureIndices(ctx, h.Search, h.cfg.Search.Indices, h.logger)
}

// Indices returns the configured logging index names.
func (h *Harness) Indices() config.IndexConfig {
	return h.cfg.Search.Indices
}

// Timing returns the harness timing configuration.
func (h *Harness) Timing() config.HarnessConfig {
	return h.cfg.Harness
}

// Close releases every client. Safe to call after a partial failure.
func (h *Harness) Close() {
	if h.Checkpoints != nil {
		if err := h.Checkpoints.Close(); err != nil {
			h.logger.Warn("close checkpoint store failed", "error", err)
		}
	}
	if h.Search != nil {
		h.Search.Close()
	}
	if h.API != nil {
		h.API.Close()
	}
	_ = h.Metrics.Close()
}
