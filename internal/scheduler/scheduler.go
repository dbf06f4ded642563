package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/amishk599/careerlens/internal/model"
	"github.com/amishk599/careerlens/internal/poller"
)

// Scheduler owns the watch loop: ticks on an interval and runs each poller
// sequentially, pruning old seen listings once per cycle.
type Scheduler struct {
	pollers   []*poller.JobsPoller
	interval  time.Duration
	pause     time.Duration
	store     model.ListingStore
	retention time.Duration
	logger    *slog.Logger
}

// NewScheduler creates a scheduler that polls every query at the given
// interval, waiting pause between consecutive queries.
func NewScheduler(pollers []*poller.JobsPoller, interval, pause time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		pollers:  pollers,
		interval: interval,
		pause:    pause,
		logger:   logger,
	}
}

// WithCleanup makes the scheduler drop seen listings older than retention
// from store at the start of each cycle.
func (s *Scheduler) WithCleanup(store model.ListingStore, retention time.Duration) *Scheduler {
	s.store = store
	s.retention = retention
	return s
}

// Run starts the polling loop. It runs one immediate cycle, then ticks on the
// configured interval. It returns nil when ctx is cancelled (graceful shutdown).
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("starting scheduler",
		"interval", s.interval.String(),
		"queries", len(s.pollers),
	)

	s.pollAll(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("shutting down scheduler")
			return nil
		case <-time.After(s.interval):
			s.pollAll(ctx)
		}
	}
}

// pollAll runs Poll on each poller sequentially with a pause between queries.
func (s *Scheduler) pollAll(ctx context.Context) {
	if s.store != nil && s.retention > 0 {
		if err := s.store.Cleanup(s.retention); err != nil {
			s.logger.Warn("seen listing cleanup failed", "error", err)
		}
	}

	for i, p := range s.pollers {
		if ctx.Err() != nil {
			return
		}

		if err := p.Poll(ctx); err != nil {
			s.logger.Error("poll failed",
				"query", p.Query,
				"error", err,
			)
		}

		if i < len(s.pollers)-1 && s.pause > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(s.pause):
			}
		}
	}
}
