package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors for one process.
type Metrics struct {
	registry *prometheus.Registry

	completionsTotal   *prometheus.CounterVec
	completionDuration *prometheus.HistogramVec
	historyClears      prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		completionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taskpad_completions_total",
				Help: "Completion calls by task and outcome",
			},
			[]string{"task", "outcome"},
		),
		completionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "taskpad_completion_duration_seconds",
				Help:    "Time spent waiting on the completion endpoint",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
		historyClears: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "taskpad_history_clears_total",
				Help: "Number of session history clears",
			},
		),
	}

	m.registry.MustRegister(
		m.completionsTotal,
		m.completionDuration,
		m.historyClears,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveCompletion records one completion call. outcome is "ok" or an
// error kind name.
func (m *Metrics) ObserveCompletion(task, outcome string, elapsed time.Duration) {
	m.completionsTotal.WithLabelValues(task, outcome).Inc()
	m.completionDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

func (m *Metrics) RecordClear() {
	m.historyClears.Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry is exposed for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
