// Package scheduler runs a periodic background cache refresh so the
// persistent cache and ResponseCache stay close to the live .hegel/ state
// between explicit client-triggered refreshes.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	hgerrors "github.com/dialecticianai/hegel-pm-sub000/internal/foundation/errors"
)

// Scheduler owns one gocron job that periodically triggers a cache refresh.
type Scheduler struct {
	cron gocron.Scheduler
}

// New builds a Scheduler that invokes refresh every interval. The job
// starts running only once Start is called.
func New(interval time.Duration, refresh func()) (*Scheduler, error) {
	cron, err := gocron.NewScheduler()
	if err != nil {
		return nil, hgerrors.WrapError(err, hgerrors.CategoryRuntime, "create scheduler").Build()
	}

	_, err = cron.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			defer func() {
				if r := recover(); r != nil {
					slog.Error("scheduled cache refresh panicked", "recovered", r)
				}
			}()
			refresh()
		}),
	)
	if err != nil {
		return nil, hgerrors.WrapError(err, hgerrors.CategoryRuntime, "schedule cache refresh job").Build()
	}

	return &Scheduler{cron: cron}, nil
}

// Start begins running the scheduled job in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for any in-flight run to finish and stops the scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := make(chan error, 1)
	go func() { done <- s.cron.Shutdown() }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
