// Package schedule runs a job on a fixed recurring interval.
package schedule

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// DefaultInterval is the weekly audit cadence.
const DefaultInterval = 7 * 24 * time.Hour

// Job is the unit of scheduled work.
type Job func(ctx context.Context) error

// Scheduler runs a job once at registration and then every interval until
// its context is cancelled. Start is idempotent: a running scheduler is
// never double-registered.
type Scheduler struct {
	interval time.Duration
	job      Job
	log      *slog.Logger
	running  atomic.Bool
}

// New creates a scheduler for the given job. A zero interval falls back to
// DefaultInterval.
func New(interval time.Duration, job Job, log *slog.Logger) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{interval: interval, job: job, log: log}
}

// Start launches the recurring trigger in a background goroutine. It returns
// false without side effects when the scheduler is already running.
func (s *Scheduler) Start(ctx context.Context) bool {
	if !s.running.CompareAndSwap(false, true) {
		return false
	}

	go func() {
		defer s.running.Store(false)

		// The first run fires at registration, not one interval later.
		if err := s.job(ctx); err != nil {
			s.log.Error("scheduled job failed", "error", err)
		}

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.job(ctx); err != nil {
					s.log.Error("scheduled job failed", "error", err)
				}
			}
		}
	}()

	return true
}

// Running reports whether the scheduler has an active trigger.
func (s *Scheduler) Running() bool {
	return s.running.Load()
}
