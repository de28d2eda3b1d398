// Package scheduler runs background jobs on a fixed interval.
package scheduler

import (
	"context"
	"time"

	"github.com/circulateapp/circulate-server/internal/logger"
)

// Job is a unit of background work. Errors are logged, never fatal.
type Job func(ctx context.Context) error

// Scheduler runs a named job on a fixed interval until its context is
// canceled. The job runs once immediately on start, then on every tick.
type Scheduler struct {
	name     string
	interval time.Duration
	job      Job
	logger   *logger.Logger
}

// New creates a scheduler for the given job.
func New(name string, interval time.Duration, job Job, log *logger.Logger) *Scheduler {
	return &Scheduler{
		name:     name,
		interval: interval,
		job:      job,
		logger:   log,
	}
}

// Run blocks until ctx is canceled, invoking the job on every tick.
// A failed run does not stop the schedule.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("scheduler started", "job", s.name, "interval", s.interval)

	s.runOnce(ctx)

	for {
		select {
		case <-ticker.C:
			s.runOnce(ctx)
		case <-ctx.Done():
			s.logger.Info("scheduler stopped", "job", s.name)
			return
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if err := s.job(ctx); err != nil {
		s.logger.Warn("scheduled job failed", "job", s.name, "error", err)
	}
}
