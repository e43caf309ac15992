package core

// scheduler.go keeps the published catalog fresh.
//
// The scheduler loads immediately on start, then reloads every interval.
// A failed cycle is logged and the previous snapshot keeps serving; the
// scheduler itself never stops on errors, only when its context ends.

import (
	"context"
	"log/slog"
	"time"
)

// DefaultRefreshInterval is used when a non-positive interval is given.
const DefaultRefreshInterval = 15 * time.Minute

// StartRefreshScheduler runs Refresh now and then every interval until ctx
// is cancelled. It blocks; run it in its own goroutine.
func (s *Service) StartRefreshScheduler(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	slog.Info("refresh scheduler started", "interval", interval.String(), "sheets", len(s.cfg.Sheets))

	s.runRefreshJob(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("refresh scheduler stopped")
			return
		case <-ticker.C:
			s.runRefreshJob(ctx)
		}
	}
}

// runRefreshJob performs one refresh cycle.
func (s *Service) runRefreshJob(ctx context.Context) {
	if _, err := s.Refresh(ctx); err != nil {
		slog.Error("catalog refresh failed", "error", err)
	}
}
