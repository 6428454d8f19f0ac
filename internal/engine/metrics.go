package engine

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects turn pipeline measurements. A nil *Metrics is a
// valid no-op receiver so the engine can run unmetered in tests.
type Metrics struct {
	turnsTotal   *prometheus.CounterVec
	callsTotal   *prometheus.CounterVec
	callDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers the engine collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "memoryd",
			Subsystem: "engine",
			Name:      "turns_total",
			Help:      "Completed turns by outcome.",
		}, []string{"outcome"}),
		callsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "memoryd",
			Subsystem: "engine",
			Name:      "capability_calls_total",
			Help:      "Capability calls by task type and outcome.",
		}, []string{"task_type", "outcome"}),
		callDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "memoryd",
			Subsystem: "engine",
			Name:      "capability_call_duration_seconds",
			Help:      "Capability call latency by task type.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
		}, []string{"task_type"}),
	}
	reg.MustRegister(m.turnsTotal, m.callsTotal, m.callDuration)
	return m
}

// observeTurn records the outcome of one turn.
func (m *Metrics) observeTurn(outcome string) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(outcome).Inc()
}

// observeCall records one capability call.
func (m *Metrics) observeCall(taskType TaskType, start time.Time, failed bool) {
	if m == nil {
		return
	}
	outcome := "completed"
	if failed {
		outcome = "failed"
	}
	m.callsTotal.WithLabelValues(string(taskType), outcome).Inc()
	m.callDuration.WithLabelValues(string(taskType)).Observe(time.Since(start).Seconds())
}
