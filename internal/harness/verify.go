package harness

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cybrty/pentest-e2e/internal/domain/model"
	"github.com/cybrty/pentest-e2e/internal/poll"
	"github.com/cybrty/pentest-e2e/internal/search"
	"github.com/cybrty/pentest-e2e/internal/util"
)

// SubmitAndAwaitTerminal submits a run and polls its status until a terminal
// state or the configured run timeout. On timeout the error names the last
// observed status so the failure is diagnosable.
func (h *Harness) SubmitAndAwaitTerminal(ctx context.Context, req model.SubmitRunRequest) (*model.Run, error) {
	resp, err := h.API.SubmitRun(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("submit run: %w", err)
	}
	h.logger.InfoContext(ctx, "run submitted",
		"run_id", resp.RunID, "plan_id", resp.PlanID, "status", resp.Status)
	h.Metrics.Count("harness.runs_submitted", 1, nil)

	return h.AwaitTerminal(ctx, resp.RunID)
}

// AwaitTerminal polls an existing run until its status is terminal.
func (h *Harness) AwaitTerminal(ctx context.Context, runID string) (*model.Run, error) {
	var (
		mu   sync.Mutex
		last *model.Run
	)

	met := poll.WaitFor(ctx, func(ctx context.Context) (bool, error) {
		run, err := h.API.GetRun(ctx, runID)
		if err != nil {
			return false, err
		}
		mu.Lock()
		last = run
		mu.Unlock()
		return run.Status.Terminal(), nil
	}, poll.Options{
		Timeout:     h.cfg.Harness.RunTimeout,
		Interval:    h.cfg.Harness.StatusInterval,
		Description: "run " + runID + " terminal",
		Logger:      h.logger,
		Metrics:     h.Metrics,
	})

	mu.Lock()
	defer mu.Unlock()
	if !met {
		status := model.RunStatus("unknown")
		if last != nil {
			status = last.Status
		}
		return last, fmt.Errorf("run %s not terminal within %s, last status %q",
			runID, h.cfg.Harness.RunTimeout, status)
	}
	h.logger.InfoContext(ctx, "run reached terminal status",
		"run_id", runID, "status", last.Status)
	return last, nil
}

// AwaitRunLogged waits for the run summary document to become searchable,
// refreshing the index before every check, and returns its source.
func (h *Harness) AwaitRunLogged(ctx context.Context, runID string) (json.RawMessage, error) {
	index := h.cfg.Search.Indices.Runs
	hit, err := h.awaitDocuments(ctx, index, search.Term(model.FieldRunID, runID), 1,
		"run "+runID+" summary logged")
	if err != nil {
		return nil, err
	}
	return hit[0].Source, nil
}

// AwaitActionsLogged waits until at least minDocs action documents for the
// run are searchable and returns them.
func (h *Harness) AwaitActionsLogged(ctx context.Context, runID string, minDocs int) ([]search.Hit, error) {
	if minDocs <= 0 {
		minDocs = 1
	}
	index := h.cfg.Search.Indices.Actions
	return h.awaitDocuments(ctx, index, search.Term(model.FieldRunID, runID), minDocs,
		"run "+runID+" actions logged")
}

// AwaitPlannerLogged waits for the planner decision document of a plan.
func (h *Harness) AwaitPlannerLogged(ctx context.Context, planID string) (json.RawMessage, error) {
	index := h.cfg.Search.Indices.Planner
	hit, err := h.awaitDocuments(ctx, index, search.Term(model.FieldPlanID, planID), 1,
		"plan "+planID+" decision logged")
	if err != nil {
		return nil, err
	}
	return hit[0].Source, nil
}

func (h *Harness) awaitDocuments(ctx context.Context, index string, query search.Query, minDocs int, description string) ([]search.Hit, error) {
	var (
		mu   sync.Mutex
		hits []search.Hit
	)

	met := poll.WaitFor(ctx, func(ctx context.Context) (bool, error) {
		if err := h.Search.RefreshIndex(ctx, index); err != nil {
			return false, err
		}
		res, err := h.Search.Search(ctx, index, query, max(minDocs, 100))
		if err != nil {
			return false, err
		}
		mu.Lock()
		hits = res.Hits
		mu.Unlock()
		return res.Total >= minDocs, nil
	}, poll.Options{
		Timeout:     h.cfg.Harness.LogTimeout,
		Interval:    h.cfg.Harness.LogInterval,
		Description: description,
		Logger:      h.logger,
		Metrics:     h.Metrics,
	})

	mu.Lock()
	defer mu.Unlock()
	if !met {
		return nil, fmt.Errorf("%s: %d of %d documents visible within %s",
			description, len(hits), minDocs, h.cfg.Harness.LogTimeout)
	}
	return hits, nil
}

// VerifyRunLogging checks that a finished run left a well-formed audit trail:
// a run summary document carrying every contract field and at least one
// action document per executed step, each carrying its contract fields. The
// two indices are verified concurrently. Runs already proven by a previous
// invocation are skipped via the checkpoint store.
func (h *Harness) VerifyRunLogging(ctx context.Context, runID string, minActions int) error {
	if h.Checkpoints.AlreadyVerified(ctx, runID) {
		h.logger.InfoContext(ctx, "run already verified, skipping", "run_id", runID)
		return nil
	}

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		doc, err := h.AwaitRunLogged(gctx, runID)
		if err != nil {
			return err
		}
		return requireFields(doc, model.RunSummaryRequiredFields, "run summary")
	})
	g.Go(func() error {
		hits, err := h.AwaitActionsLogged(gctx, runID, minActions)
		if err != nil {
			return err
		}
		for _, hit := range hits {
			if err := requireFields(hit.Source, model.ActionRequiredFields, "action "+hit.ID); err != nil {
				return err
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		h.Metrics.Count("harness.runs_verified", 1, map[string]string{"outcome": "failed"})
		return fmt.Errorf("verify run %s logging: %w", runID, err)
	}

	h.Metrics.Count("harness.runs_verified", 1, map[string]string{"outcome": "passed"})
	h.Metrics.Timing("harness.verify_duration", time.Since(start), nil)

	if err := h.Checkpoints.MarkVerified(ctx, runID); err != nil {
		h.logger.WarnContext(ctx, "checkpoint write failed", "run_id", runID, "error", err)
	}
	return nil
}

// StopAndAwait requests cancellation of a run and waits for it to settle in a
// terminal state.
func (h *Harness) StopAndAwait(ctx context.Context, runID, reason string) (*model.Run, error) {
	resp, err := h.API.StopRun(ctx, runID, model.StopRunRequest{Reason: reason, Immediate: true})
	if err != nil {
		return nil, fmt.Errorf("stop run %s: %w", runID, err)
	}
	h.logger.InfoContext(ctx, "stop requested", "run_id", runID, "ack", resp.Status)
	return h.AwaitTerminal(ctx, runID)
}

// VerifyRunAbsent asserts that no documents for runID exist in any logging
// index. Each index is refreshed first so the check cannot pass on
// visibility lag alone.
func (h *Harness) VerifyRunAbsent(ctx context.Context, runID string) error {
	var problems []string
	for _, index := range h.cfg.Search.Indices.All() {
		if err := h.Search.RefreshIndex(ctx, index); err != nil {
			return fmt.Errorf("refresh %s: %w", index, err)
		}
		n, err := h.Search.Count(ctx, index, search.Term(model.FieldRunID, runID))
		if err != nil {
			return fmt.Errorf("count %s in %s: %w", runID, index, err)
		}
		if n > 0 {
			problems = append(problems, fmt.Sprintf("%s has %d documents", index, n))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("run %s unexpectedly present: %s", runID, strings.Join(problems, "; "))
	}
	return nil
}

func requireFields(doc json.RawMessage, fields []string, what string) error {
	missing, err := util.HasFields(doc, fields)
	if err != nil {
		return fmt.Errorf("%s document: %w", what, err)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s document missing fields: %s", what, strings.Join(missing, ", "))
	}
	return nil
}
