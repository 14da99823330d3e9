package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/equilog/equilog-backend/pkg/logger"
	"github.com/equilog/equilog-backend/pkg/metrics"
)

const defaultInterval = time.Hour

type ServiceParams struct {
	Logger   *logger.Logger
	Lock     Lock
	Metrics  *metrics.JobMetrics
	Interval time.Duration
	Jobs     []Job
}

// Service runs the registered jobs on a fixed cadence while holding Lock.
type Service struct {
	logg     *logger.Logger
	lock     Lock
	metrics  *metrics.JobMetrics
	interval time.Duration
	jobs     []Job
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Lock == nil {
		return nil, fmt.Errorf("lock required")
	}
	interval := params.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	jobs := make([]Job, 0, len(params.Jobs))
	for _, job := range params.Jobs {
		if job != nil {
			jobs = append(jobs, job)
		}
	}
	return &Service{
		logg:     params.Logger,
		lock:     params.Lock,
		metrics:  params.Metrics,
		interval: interval,
		jobs:     jobs,
	}, nil
}

// Run executes a cycle immediately and then once per interval until ctx ends.
func (s *Service) Run(ctx context.Context) error {
	s.cycle(ctx)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.cycle(ctx)
		}
	}
}

func (s *Service) cycle(ctx context.Context) {
	if err := s.RunOnce(ctx); err != nil {
		s.logg.Error(ctx, "maintenance.cycle_failed", err)
	}
}

// RunOnce runs every job a single time. Job failures are logged and do not
// stop later jobs; only lock errors are returned.
func (s *Service) RunOnce(ctx context.Context) error {
	locked, err := s.lock.Acquire(ctx)
	if err != nil {
		return err
	}
	if !locked {
		s.logg.Info(ctx, "maintenance.skipped_locked")
		return nil
	}
	defer func() {
		if err := s.lock.Release(ctx); err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "maintenance.release_failed")
		}
	}()

	for _, job := range s.jobs {
		s.runJob(ctx, job)
	}
	return nil
}

func (s *Service) runJob(ctx context.Context, job Job) {
	jobCtx := s.logg.WithOperation(ctx, job.Name())
	start := time.Now()
	rows, err := job.Run(jobCtx)
	elapsed := time.Since(start)
	s.metrics.ObserveRun(job.Name(), err == nil, elapsed)
	jobCtx = s.logg.WithFields(jobCtx, map[string]any{
		"duration_ms":  elapsed.Milliseconds(),
		"rows_deleted": rows,
	})
	if err != nil {
		s.logg.Error(jobCtx, "maintenance.job_failed", err)
		return
	}
	s.metrics.AddPurged(job.Name(), rows)
	s.logg.Info(jobCtx, "maintenance.job_complete")
}
