package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CronJobMetrics tracks cron cycles and per-job runs.
type CronJobMetrics struct {
	duration *prometheus.HistogramVec
	runs     *prometheus.CounterVec
	cycles   *prometheus.CounterVec
}

// NewCronJobMetrics registers the cron collectors on reg. A nil reg yields a
// no-op collector.
func NewCronJobMetrics(reg prometheus.Registerer) *CronJobMetrics {
	if reg == nil {
		return &CronJobMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cron_job_duration_seconds",
		Help:    "Cron job run time.",
		Buckets: []float64{0.05, 0.1, 0.5, 1, 5, 15, 60, 300},
	}, []string{"job"})
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cron_job_runs_total",
		Help: "Cron job runs by outcome.",
	}, []string{"job", "outcome"})
	cycles := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cron_cycles_total",
		Help: "Cron cycles, split by whether this worker held the lock.",
	}, []string{"result"})
	reg.MustRegister(duration, runs, cycles)
	return &CronJobMetrics{duration: duration, runs: runs, cycles: cycles}
}

// ObserveRun records one finished job run.
func (c *CronJobMetrics) ObserveRun(job string, elapsed time.Duration, err error) {
	if c == nil || c.runs == nil {
		return
	}
	job = normalizeLabel(job)
	outcome := OutcomeSucceeded
	if err != nil {
		outcome = OutcomeFailed
	}
	c.duration.WithLabelValues(job).Observe(elapsed.Seconds())
	c.runs.WithLabelValues(job, outcome).Inc()
}

// ObserveCycle counts a cycle; skipped means another worker held the lock.
func (c *CronJobMetrics) ObserveCycle(skipped bool) {
	if c == nil || c.cycles == nil {
		return
	}
	result := "ran"
	if skipped {
		result = "skipped"
	}
	c.cycles.WithLabelValues(result).Inc()
}

func normalizeLabel(job string) string {
	if job == "" {
		return "unknown"
	}
	return job
}
