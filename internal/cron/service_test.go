package cron

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/angelmondragon/phonedex-backend/pkg/logger"
	"github.com/angelmondragon/phonedex-backend/pkg/metrics"
)

type fakeLock struct {
	acquired bool
	err      error
	releases int
}

func (f *fakeLock) Acquire(context.Context) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if f.acquired {
		return false, nil
	}
	f.acquired = true
	return true, nil
}

func (f *fakeLock) Release(context.Context) error {
	f.acquired = false
	f.releases++
	return nil
}

type testJob struct {
	name string
	err  error
	runs int
}

func (t *testJob) Name() string { return t.name }

func (t *testJob) Run(context.Context) error {
	t.runs++
	return t.err
}

func quietLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "cron-test", Output: io.Discard})
}

func counterValue(t *testing.T, reg *prometheus.Registry, name, job, outcome string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, m := range family.GetMetric() {
			if labelValue(m, "job") == job && labelValue(m, "outcome") == outcome {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func labelValue(m *dto.Metric, name string) string {
	for _, pair := range m.GetLabel() {
		if pair.GetName() == name {
			return pair.GetValue()
		}
	}
	return ""
}

func TestServiceRunCycleRunsAllJobsEvenOnFailure(t *testing.T) {
	success := &testJob{name: "success"}
	failure := &testJob{name: "fail", err: errors.New("boom")}
	registry, err := NewRegistry(success, failure)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	reg := prometheus.NewRegistry()
	lock := &fakeLock{}
	service, err := NewService(ServiceParams{
		Logger:   quietLogger(),
		Registry: registry,
		Lock:     lock,
		Metrics:  metrics.NewCronJobMetrics(reg),
	})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}
	if err := service.RunOnce(context.Background()); err != nil {
		t.Fatalf("run cycle: %v", err)
	}
	if success.runs != 1 || failure.runs != 1 {
		t.Fatalf("expected both jobs to run once, got %d and %d", success.runs, failure.runs)
	}
	if lock.releases != 1 {
		t.Fatalf("expected lock released once, got %d", lock.releases)
	}
	if got := counterValue(t, reg, "cron_job_runs_total", "success", metrics.OutcomeSucceeded); got != 1 {
		t.Fatalf("expected 1 success, got %v", got)
	}
	if got := counterValue(t, reg, "cron_job_runs_total", "fail", metrics.OutcomeFailed); got != 1 {
		t.Fatalf("expected 1 failure, got %v", got)
	}
}

func TestServiceSkipsCycleWhenLockHeld(t *testing.T) {
	job := &testJob{name: "job"}
	registry, _ := NewRegistry(job)
	service, err := NewService(ServiceParams{
		Logger:   quietLogger(),
		Registry: registry,
		Lock:     &fakeLock{acquired: true},
	})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}
	if err := service.RunOnce(context.Background()); err != nil {
		t.Fatalf("run cycle: %v", err)
	}
	if job.runs != 0 {
		t.Fatalf("expected job skipped, ran %d", job.runs)
	}
}

func TestServiceLockErrorSurfaces(t *testing.T) {
	service, err := NewService(ServiceParams{Logger: quietLogger(), Lock: &fakeLock{err: errors.New("redis down")}})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}
	if err := service.RunOnce(context.Background()); err == nil {
		t.Fatal("expected lock error")
	}
}

func TestServiceDefaultsInterval(t *testing.T) {
	service, err := NewService(ServiceParams{Logger: quietLogger(), Lock: &fakeLock{}})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}
	if service.Interval() != 5*time.Minute {
		t.Fatalf("expected 5m default, got %s", service.Interval())
	}
}

func TestServiceRunStopsOnCancel(t *testing.T) {
	job := &testJob{name: "job"}
	registry, _ := NewRegistry(job)
	service, err := NewService(ServiceParams{
		Logger:   quietLogger(),
		Registry: registry,
		Lock:     &fakeLock{},
		Interval: time.Hour,
	})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- service.Run(ctx) }()
	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("service did not stop")
	}
}

type panicJob struct{}

func (panicJob) Name() string { return "panics" }

func (panicJob) Run(context.Context) error { panic("kaboom") }

type slowJob struct{ deadline bool }

func (j *slowJob) Name() string { return "slow" }

func (j *slowJob) Run(ctx context.Context) error {
	_, j.deadline = ctx.Deadline()
	return nil
}

func TestServiceRecoversPanickingJob(t *testing.T) {
	after := &testJob{name: "after"}
	registry, err := NewRegistry(panicJob{}, after)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	reg := prometheus.NewRegistry()
	lock := &fakeLock{}
	service, err := NewService(ServiceParams{
		Logger:   quietLogger(),
		Registry: registry,
		Lock:     lock,
		Metrics:  metrics.NewCronJobMetrics(reg),
	})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}
	if err := service.RunOnce(context.Background()); err != nil {
		t.Fatalf("run cycle: %v", err)
	}
	if after.runs != 1 {
		t.Fatalf("expected job after the panic to run, got %d", after.runs)
	}
	if lock.releases != 1 {
		t.Fatalf("expected lock released, got %d", lock.releases)
	}
	if got := counterValue(t, reg, "cron_job_runs_total", "panics", metrics.OutcomeFailed); got != 1 {
		t.Fatalf("expected panic counted as failure, got %v", got)
	}
}

func TestServiceAppliesJobTimeout(t *testing.T) {
	job := &slowJob{}
	registry, _ := NewRegistry(job)
	service, err := NewService(ServiceParams{
		Logger:     quietLogger(),
		Registry:   registry,
		Lock:       &fakeLock{},
		JobTimeout: time.Minute,
	})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}
	if err := service.RunOnce(context.Background()); err != nil {
		t.Fatalf("run cycle: %v", err)
	}
	if !job.deadline {
		t.Fatal("expected job context to carry a deadline")
	}
}
