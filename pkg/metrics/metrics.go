// Package metrics exposes Prometheus collectors for ingestion and eligibility
// activity. A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "rankwise"

// Metrics owns a dedicated registry and the service's collectors.
type Metrics struct {
	registry *prometheus.Registry

	ingestRows   *prometheus.CounterVec
	ingestRuns   *prometheus.CounterVec
	eligQueries  *prometheus.CounterVec
	eligDuration prometheus.Histogram
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New creates a Metrics with Go runtime and process collectors registered.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ingestRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "rows_total",
			Help:      "Ingested rows by outcome.",
		}, []string{"outcome"}),
		ingestRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "runs_total",
			Help:      "Finished ingestion runs by terminal status.",
		}, []string{"status"}),
		eligQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "eligibility",
			Name:      "queries_total",
			Help:      "Eligibility classifications by result shape.",
		}, []string{"result"}),
		eligDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "eligibility",
			Name:      "query_duration_seconds",
			Help:      "Latency of a single-year eligibility classification.",
			Buckets:   prometheus.DefBuckets,
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "API requests by method and status code.",
		}, []string{"method", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "API request latency by method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.ingestRows,
		m.ingestRuns,
		m.eligQueries,
		m.eligDuration,
		m.httpRequests,
		m.httpDuration,
	)

	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) RowProcessed() {
	if m == nil {
		return
	}
	m.ingestRows.WithLabelValues("processed").Inc()
}

func (m *Metrics) RowFailed() {
	if m == nil {
		return
	}
	m.ingestRows.WithLabelValues("failed").Inc()
}

// RunFinished counts a run reaching a terminal status.
func (m *Metrics) RunFinished(status string) {
	if m == nil {
		return
	}
	m.ingestRuns.WithLabelValues(status).Inc()
}

// Classified records one eligibility classification and its latency.
func (m *Metrics) Classified(results int, elapsed time.Duration) {
	if m == nil {
		return
	}
	outcome := "matched"
	if results == 0 {
		outcome = "empty"
	}
	m.eligQueries.WithLabelValues(outcome).Inc()
	m.eligDuration.Observe(elapsed.Seconds())
}

// Request records one served API request.
func (m *Metrics) Request(method string, code int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, strconv.Itoa(code)).Inc()
	m.httpDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}
