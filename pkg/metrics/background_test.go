package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackgroundMetricsCountsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBackgroundMetrics(reg)
	m.Observe("page_view", OutcomeSucceeded)
	m.Observe("page_view", OutcomeSucceeded)
	m.Observe("page_view", OutcomeDropped)
	m.SetQueueDepth(3)

	mfs, err := reg.Gather()
	require.NoError(t, err)

	mf := findMetricFamily(mfs, "background_tasks_total")
	require.NotNil(t, mf)
	values := map[string]float64{}
	for _, metric := range mf.GetMetric() {
		values[labelValue(metric.GetLabel(), "outcome")] = metric.GetCounter().GetValue()
	}
	assert.Equal(t, 2.0, values[OutcomeSucceeded])
	assert.Equal(t, 1.0, values[OutcomeDropped])

	depth := findMetricFamily(mfs, "background_queue_depth")
	require.NotNil(t, depth)
	assert.Equal(t, 3.0, depth.GetMetric()[0].GetGauge().GetValue())
}

func TestNilRegistererIsNoop(t *testing.T) {
	var bg *BackgroundMetrics
	bg.Observe("x", OutcomeFailed)
	NewBackgroundMetrics(nil).Observe("x", OutcomeFailed)
	NewHTTPMetrics(nil).Observe("/phones", "GET", 200, time.Millisecond)
}

func TestHTTPMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)
	m.Observe("/phones/{idOrSlug}", "GET", 404, 20*time.Millisecond)

	mfs, err := reg.Gather()
	require.NoError(t, err)

	got, err := fetchCounterValue(mfs, "http_requests_total", "status", "404")
	require.NoError(t, err)
	assert.Equal(t, 1.0, got)

	sum, err := fetchHistogramSum(mfs, "http_request_duration_seconds", "route", "/phones/{idOrSlug}")
	require.NoError(t, err)
	assert.Greater(t, sum, 0.0)
}

func labelValue(labels []*dto.LabelPair, name string) string {
	for _, label := range labels {
		if label.GetName() == name {
			return label.GetValue()
		}
	}
	return ""
}
