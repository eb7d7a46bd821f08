package scheduler

import (
	"context"
	"sync"

	"StockScout/internal/task"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// Job is one scan-and-monitor run.
type Job func(ctx context.Context) error

// Scheduler triggers scan runs from a cron schedule. Only one run is active
// at a time; a firing while a run is still monitoring is skipped.
type Scheduler struct {
	Cron *cron.Cron
	Job  Job
	Ctx  context.Context

	mu      sync.Mutex
	current *task.Task
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, job Job) *Scheduler {
	return &Scheduler{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cron.PrintfLogger(log.StandardLogger())),
		),
		Job: job,
		Ctx: ctx,
	}
}

// Register adds the scan job on the given cron spec.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.fire); err != nil {
		return errors.Wrapf(err, "register scan task %q", spec)
	}
	log.Infof("scan scheduled: %s", spec)
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info("scheduler started")
}

// Stop stops the cron scheduler, cancels an active run and waits for it.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.mu.Lock()
	t := s.current
	s.mu.Unlock()
	if t != nil {
		t.Cancel()
		<-t.Done()
	}
	log.Info("scheduler stopped")
}

// RunNow starts a run immediately unless one is active. It returns the task
// handle, or nil when skipped.
func (s *Scheduler) RunNow() *task.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		select {
		case <-s.current.Done():
		default:
			log.Info("previous scan still running, skipping")
			return nil
		}
	}
	s.current = task.Start(s.Ctx, "scan", s.Job)
	return s.current
}

func (s *Scheduler) fire() {
	log.Info("running scheduled scan")
	s.RunNow()
}
