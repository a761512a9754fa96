package scheduler

import (
	"context"
	"log/slog"
	"time"

	"agri_advisor/internal/domain"
)

const DefaultRunTimeout = 5 * time.Minute

// Syncer defines the interface for mirror runs.
type Syncer interface {
	Sync(ctx context.Context) (*domain.MirrorStats, error)
}

type Scheduler struct {
	syncer     Syncer
	interval   time.Duration
	runTimeout time.Duration
	logger     *slog.Logger
}

func NewScheduler(syncer Syncer, interval, runTimeout time.Duration, logger *slog.Logger) *Scheduler {
	if runTimeout <= 0 {
		runTimeout = DefaultRunTimeout
	}
	return &Scheduler{
		syncer:     syncer,
		interval:   interval,
		runTimeout: runTimeout,
		logger:     logger.With("component", "scheduler"),
	}
}

// Start runs one sync immediately and then one per interval until ctx is
// done. Runs never overlap.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started", "interval", s.interval, "run_timeout", s.runTimeout)

	s.runSync(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.runSync(ctx)
		}
	}
}

func (s *Scheduler) runSync(ctx context.Context) {
	syncCtx, cancel := context.WithTimeout(ctx, s.runTimeout)
	defer cancel()

	stats, err := s.syncer.Sync(syncCtx)
	if err != nil {
		s.logger.Error("sync failed", "error", err)
	}
	if stats != nil {
		s.logger.Info("sync finished",
			"fetched", stats.Fetched,
			"new", stats.New,
			"updated", stats.Updated,
			"errors", stats.Errors,
			"duration", stats.Duration,
		)
	}
}
