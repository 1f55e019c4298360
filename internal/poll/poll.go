// Package poll bridges synchronous assertions with asynchronously-settling
// remote state. The orchestrator executes runs asynchronously and its logging
// pipeline indexes documents on its own schedule, so tests wait for
// conditions instead of asserting immediately.
package poll

import (
	"context"
	"log/slog"
	"time"

	"github.com/cybrty/pentest-e2e/internal/observability/statsd"
)

// Condition is a zero-argument check that may itself perform network I/O.
// It reports whether the awaited state has been reached. A non-nil error is
// treated as "not yet": transient failures mid-poll must not abort the wait.
type Condition func(ctx context.Context) (bool, error)

// Options controls a single wait.
type Options struct {
	// Timeout is the maximum wall-clock time to wait. Defaults to 60s.
	Timeout time.Duration
	// Interval is the fixed delay between checks. Defaults to 2s.
	// No backoff: checks fire at uniform intervals.
	Interval time.Duration
	// Description names the awaited condition in diagnostics.
	Description string

	Logger  *slog.Logger
	Metrics statsd.Sink
}

const (
	defaultTimeout  = 60 * time.Second
	defaultInterval = 2 * time.Second
)

// WaitFor repeatedly invokes cond until it reports true, the timeout elapses,
// or ctx is cancelled. Errors from cond are logged and swallowed. The return
// value is the only outcome: true if the condition was met, false otherwise,
// so the caller decides whether a timeout is a failure or a skip.
//
// A final check runs at the deadline, so a condition that becomes true within
// the timeout is observed at most one interval later.
func WaitFor(ctx context.Context, cond Condition, opts Options) bool {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	description := opts.Description
	if description == "" {
		description = "condition"
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	start := time.Now()
	deadline := start.Add(timeout)
	attempts := 0

	for {
		attempts++
		ok, err := cond(ctx)
		if err != nil {
			logger.WarnContext(ctx, "condition check failed, continuing to wait",
				"condition", description,
				"attempt", attempts,
				"error", err,
			)
			count(opts.Metrics, "poll.check_error", map[string]string{"condition": description})
		} else if ok {
			elapsed := time.Since(start)
			logger.DebugContext(ctx, "condition met",
				"condition", description,
				"attempts", attempts,
				"elapsed", elapsed,
			)
			emitOutcome(opts.Metrics, description, "met", elapsed, attempts)
			return true
		}

		if ctx.Err() != nil {
			elapsed := time.Since(start)
			logger.WarnContext(ctx, "wait cancelled",
				"condition", description,
				"elapsed", elapsed,
				"error", ctx.Err(),
			)
			emitOutcome(opts.Metrics, description, "cancelled", elapsed, attempts)
			return false
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			elapsed := time.Since(start)
			logger.ErrorContext(ctx, "timeout waiting for condition",
				"condition", description,
				"timeout", timeout,
				"elapsed", elapsed,
				"attempts", attempts,
			)
			emitOutcome(opts.Metrics, description, "timeout", elapsed, attempts)
			return false
		}

		if !sleep(ctx, min(interval, remaining)) {
			// Cancellation during the sleep; the loop's next iteration
			// runs one last check before reporting it.
			continue
		}
	}
}

// sleep blocks for d or until ctx is cancelled. Reports false on cancellation.
func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func count(m statsd.Sink, name string, tags map[string]string) {
	if m != nil {
		m.Count(name, 1, tags)
	}
}

func emitOutcome(m statsd.Sink, description, outcome string, elapsed time.Duration, attempts int) {
	if m == nil {
		return
	}
	tags := map[string]string{"condition": description, "outcome": outcome}
	m.Count("poll.wait", 1, tags)
	m.Count("poll.attempts", int64(attempts), tags)
	m.Timing("poll.wait_duration", elapsed, tags)
}
