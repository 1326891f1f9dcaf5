package scheduler

import (
	"context"
	"log/slog"
	"time"
)

const runTimeout = 5 * time.Minute

// Syncer is the part of the news controller the scheduler drives.
type Syncer interface {
	LoadNextPage(ctx context.Context)
	RefreshNews(ctx context.Context)
}

// Scheduler performs the first-mount page load and, when interval is
// positive, refreshes the list periodically.
type Scheduler struct {
	syncer   Syncer
	interval time.Duration
	logger   *slog.Logger
}

func NewScheduler(syncer Syncer, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		syncer:   syncer,
		interval: interval,
		logger:   logger.With("component", "scheduler"),
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started", "refresh_interval", s.interval)

	s.run(ctx, s.syncer.LoadNextPage)

	if s.interval <= 0 {
		<-ctx.Done()
		s.logger.Info("scheduler stopped")
		return ctx.Err()
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.run(ctx, s.syncer.RefreshNews)
		}
	}
}

func (s *Scheduler) run(ctx context.Context, op func(context.Context)) {
	runCtx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	op(runCtx)
}
