package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/phonedex-backend/pkg/logger"
	"github.com/angelmondragon/phonedex-backend/pkg/metrics"
)

const defaultInterval = 5 * time.Minute

// ServiceParams configure the cron service.
type ServiceParams struct {
	Logger   *logger.Logger
	Registry *Registry
	Lock     Lock
	Metrics  *metrics.CronJobMetrics
	Interval time.Duration
	// JobTimeout bounds a single job run; zero leaves jobs bounded only by the cycle context.
	JobTimeout time.Duration
}

// Service runs every registered job once per interval while holding the
// worker lock. A failing job is logged and counted; the rest still run.
type Service struct {
	logg       *logger.Logger
	registry   *Registry
	lock       Lock
	metrics    *metrics.CronJobMetrics
	interval   time.Duration
	jobTimeout time.Duration
}

func NewService(params ServiceParams) (*Service, error) {
	switch {
	case params.Logger == nil:
		return nil, errors.New("logger required")
	case params.Lock == nil:
		return nil, errors.New("lock required")
	}
	s := &Service{
		logg:       params.Logger,
		registry:   params.Registry,
		lock:       params.Lock,
		metrics:    params.Metrics,
		interval:   params.Interval,
		jobTimeout: params.JobTimeout,
	}
	if s.registry == nil {
		s.registry = &Registry{}
	}
	if s.interval <= 0 {
		s.interval = defaultInterval
	}
	return s, nil
}

// Interval is the delay between cycles.
func (s *Service) Interval() time.Duration { return s.interval }

// Run executes a cycle immediately and then once per interval until ctx ends.
func (s *Service) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if err := s.RunOnce(ctx); err != nil && ctx.Err() == nil {
			s.logg.Error(ctx, "scheduled run failed", err)
		}
		select {
		case <-ctx.Done():
			s.logg.Info(ctx, "cron service stopping")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// RunOnce executes a single cycle if this instance wins the lock.
func (s *Service) RunOnce(ctx context.Context) error {
	locked, err := s.lock.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("lock acquire: %w", err)
	}
	s.metrics.ObserveCycle(!locked)
	if !locked {
		s.logg.Info(ctx, "another cron instance holds the lock; skipping cycle")
		return nil
	}
	defer func() {
		// release even when ctx was canceled mid-cycle
		if err := s.lock.Release(context.WithoutCancel(ctx)); err != nil {
			s.logg.Error(ctx, "failed to release cron lock", err)
		}
	}()

	start := time.Now()
	var failed []string
	for _, job := range s.registry.Jobs() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.runJob(ctx, job); err != nil {
			failed = append(failed, job.Name())
		}
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"failed_jobs": failed,
		"duration_ms": time.Since(start).Milliseconds(),
	}), "scheduled run complete")
	return nil
}

func (s *Service) runJob(ctx context.Context, job Job) (err error) {
	ctx = s.logg.WithFields(ctx, map[string]any{"job": job.Name(), "event": "cron.job"})
	if s.jobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.jobTimeout)
		defer cancel()
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}
		elapsed := time.Since(start)
		s.metrics.ObserveRun(job.Name(), elapsed, err)
		ctx = s.logg.WithField(ctx, "duration_ms", elapsed.Milliseconds())
		if err != nil {
			s.logg.Error(ctx, "job failed", err)
			return
		}
		s.logg.Info(ctx, "job completed")
	}()
	return job.Run(ctx)
}
