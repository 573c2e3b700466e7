// Package metrics provides Prometheus metrics for docintake
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Ingestion outcomes used as the "status" label.
const (
	OutcomeOK                  = "ok"
	OutcomeExtractionFailed    = "extraction_failed"
	OutcomeClassificationError = "classification_failed"
	OutcomeStoreFailed         = "store_failed"
	OutcomeInvalidRecord       = "invalid_record"
)

// Metrics holds all Prometheus metrics for docintake.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP request metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Pipeline metrics
	IngestionsTotal        *prometheus.CounterVec
	ClassificationDuration prometheus.Histogram
	CorpusRecords          prometheus.Gauge
	SearchQueriesTotal     prometheus.Counter
}

// NewMetrics creates all metrics on a private registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &Metrics{registry: reg}

	m.HTTPRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docintake_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	m.HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "docintake_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	m.IngestionsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docintake_ingestions_total",
			Help: "Total number of document ingestions by outcome",
		},
		[]string{"status"},
	)

	m.ClassificationDuration = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "docintake_classification_duration_seconds",
			Help:    "Duration of classification service calls in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 40, 60},
		},
	)

	m.CorpusRecords = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "docintake_corpus_records",
			Help: "Number of records in the corpus",
		},
	)

	m.SearchQueriesTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "docintake_search_queries_total",
			Help: "Total number of keyword searches",
		},
	)

	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the HTTP handler serving the exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records one served request.
func (m *Metrics) RecordHTTPRequest(method, route, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordIngestion records the outcome of one ingestion.
func (m *Metrics) RecordIngestion(outcome string) {
	if m == nil {
		return
	}
	m.IngestionsTotal.WithLabelValues(outcome).Inc()
}

// ObserveClassification records the latency of one classification call.
func (m *Metrics) ObserveClassification(d time.Duration) {
	if m == nil {
		return
	}
	m.ClassificationDuration.Observe(d.Seconds())
}

// SetCorpusRecords sets the corpus size gauge.
func (m *Metrics) SetCorpusRecords(n int) {
	if m == nil {
		return
	}
	m.CorpusRecords.Set(float64(n))
}

// RecordSearch counts one keyword search.
func (m *Metrics) RecordSearch() {
	if m == nil {
		return
	}
	m.SearchQueriesTotal.Inc()
}
