// Package scheduler refreshes the chart on a fixed interval.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

// Runner performs one dataset load.
type Runner interface {
	Run(ctx context.Context) error
}

// Scheduler re-runs the load every interval. A zero interval disables it.
type Scheduler struct {
	scheduler *gocron.Scheduler
	runner    Runner
	interval  time.Duration
	timeout   time.Duration
	logger    *slog.Logger
}

// New creates a Scheduler. Each run gets its own context bounded by timeout.
func New(runner Runner, interval, timeout time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		runner:    runner,
		interval:  interval,
		timeout:   timeout,
		logger:    logger,
	}
}

// Enabled reports whether a refresh interval is configured.
func (s *Scheduler) Enabled() bool {
	return s.interval > 0
}

// Start schedules the refresh job. The first run happens one interval after
// Start; the initial load is the caller's job.
func (s *Scheduler) Start() error {
	if !s.Enabled() {
		s.logger.Info("dataset refresh disabled")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).SingletonMode().WaitForSchedule().Do(s.refresh)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.logger.Info("dataset refresh scheduled", "interval", s.interval)
	return nil
}

// Stop cancels future runs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

func (s *Scheduler) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	s.logger.Debug("dataset refresh started")
	if err := s.runner.Run(ctx); err != nil {
		// The previous chart keeps being served.
		s.logger.Warn("dataset refresh failed", "error", err)
		return
	}
	s.logger.Debug("dataset refresh completed")
}
