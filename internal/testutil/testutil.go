package testutil

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/cybrty/pentest-e2e/config"
	"github.com/cybrty/pentest-e2e/internal/harness"
)

// RequireE2E skips the test unless E2E_TESTS=1, the opt-in for tests that
// need a live orchestrator and search cluster.
func RequireE2E(t *testing.T) {
	t.Helper()
	if os.Getenv("E2E_TESTS") != "1" {
		t.Skip("skipping e2e test; set E2E_TESTS=1 to run")
	}
}

// NewE2EHarness loads configuration from the environment and connects to the
// live environment, failing the test if either backend is unreachable.
func NewE2EHarness(t *testing.T) *harness.Harness {
	t.Helper()
	RequireE2E(t)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Harness.ReadyTimeout)
	defer cancel()

	h, err := harness.New(ctx, cfg, slog.Default())
	if err != nil {
		t.Fatalf("connect to environment: %v", err)
	}
	t.Cleanup(h.Close)
	return h
}

// Context returns a context bounded by the test's run timeout.
func Context(t *testing.T, timeout time.Duration) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)
	return ctx
}

// Ptr returns a pointer to v, for building optional fields inline.
func Ptr[T any](v T) *T {
	return &v
}
