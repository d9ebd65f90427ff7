package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/five82/marquee/internal/state"
)

const maxBackoff = 30 * time.Second

// Loader is the part of the controller the poller needs.
type Loader interface {
	Load(ctx context.Context) error
	Snapshot() state.State
}

// StartPoller launches a background goroutine that reloads the catalog
// every interval. Consecutive failures back off exponentially up to
// maxBackoff. A cycle is skipped while a load or save is already running
// so the poller never overlaps user-driven requests. It returns
// immediately.
func StartPoller(ctx context.Context, loader Loader, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		return
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	go func() {
		failures := 0
		timer := time.NewTimer(interval)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}

			failures = poll(ctx, loader, failures, logger)
			timer.Reset(calculateBackoff(failures, interval))
		}
	}()
}

// poll runs one reload and returns the updated consecutive failure count.
func poll(ctx context.Context, loader Loader, failures int, logger *slog.Logger) int {
	if snap := loader.Snapshot(); snap.Loading() || snap.Saving() {
		return failures
	}
	if err := loader.Load(ctx); err != nil {
		if ctx.Err() != nil {
			return failures
		}
		failures++
		logger.Warn("periodic reload failed", "failures", failures, "err", err)
		return failures
	}
	return 0
}

// calculateBackoff doubles base for every consecutive failure, capped at
// maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	d := base
	for range failures {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	return d
}
