// internal/scheduler/scheduler.go
package scheduler

import (
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/crewbase/crewbase/internal/config"
	"github.com/crewbase/crewbase/internal/jobs"
)

// Scheduler manages cron job scheduling.
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.Runner
}

// New creates a scheduler with all recurring jobs registered. Schedules use
// seconds precision and run in UTC.
func New(runner *jobs.Runner, cfg *config.Config) *Scheduler {
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
	)

	s := &Scheduler{
		cron: c,
		jobs: runner,
	}

	if _, err := c.AddFunc(cfg.Subscription.SweepSchedule, runner.SweepExpiredSubscriptions); err != nil {
		slog.Error("failed to register SweepExpiredSubscriptions job", "error", err)
	}

	return s
}

// Start begins the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	slog.Info("scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	slog.Info("scheduler stopped")
}
