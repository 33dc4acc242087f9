package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/five82/pinmap/internal/state"
)

const defaultRetryInterval = 30 * time.Second

// StartSaveRetrier launches a background goroutine that re-attempts the
// write-through at a fixed cadence while the repository reports a failed
// save. It returns immediately; stop cancels the loop and waits for it.
func StartSaveRetrier(ctx context.Context, repo *state.Repository, interval time.Duration, logger *slog.Logger) (stop func()) {
	if interval <= 0 {
		interval = defaultRetryInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "save-retry")

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			retrySave(repo, logger)
		}
	}()

	return func() {
		cancel()
		<-done
	}
}

// retrySave flushes repo if its last save failed. It reports whether a
// retry was attempted.
func retrySave(repo *state.Repository, logger *slog.Logger) bool {
	if !repo.Snapshot().Degraded() {
		return false
	}
	if err := repo.Flush(); err != nil {
		logger.Warn("save retry failed", "error", err)
		return true
	}
	logger.Info("save retry succeeded")
	return true
}
