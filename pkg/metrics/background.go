package metrics

import "github.com/prometheus/client_golang/prometheus"

// Outcomes shared by background task and cron job counters.
const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
	OutcomeDropped   = "dropped"
)

// BackgroundMetrics counts best-effort task outcomes.
type BackgroundMetrics struct {
	tasks      *prometheus.CounterVec
	queueDepth prometheus.Gauge
}

// NewBackgroundMetrics registers the background task metrics on reg.
func NewBackgroundMetrics(reg prometheus.Registerer) *BackgroundMetrics {
	if reg == nil {
		return &BackgroundMetrics{}
	}
	tasks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "background_tasks_total",
		Help: "Background task executions by outcome.",
	}, []string{"task", "outcome"})
	depth := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "background_queue_depth",
		Help: "Tasks waiting in the background queue.",
	})
	reg.MustRegister(tasks, depth)
	return &BackgroundMetrics{tasks: tasks, queueDepth: depth}
}

// Observe increments the counter for the task and outcome.
func (b *BackgroundMetrics) Observe(task, outcome string) {
	if b == nil || b.tasks == nil {
		return
	}
	b.tasks.WithLabelValues(normalizeLabel(task), outcome).Inc()
}

// SetQueueDepth records the current queue length.
func (b *BackgroundMetrics) SetQueueDepth(n int) {
	if b == nil || b.queueDepth == nil {
		return
	}
	b.queueDepth.Set(float64(n))
}
