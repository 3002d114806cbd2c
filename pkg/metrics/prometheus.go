// Package metrics provides Prometheus metrics for the leaderboard service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every collector exported by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec

	// Source documents
	documentFetches        *prometheus.CounterVec
	documentFetchDuration  *prometheus.HistogramVec
	documentDegradedFields *prometheus.CounterVec

	// Snapshot refresh
	snapshotRefreshes       *prometheus.CounterVec
	snapshotRefreshDuration prometheus.Histogram
	snapshotLastUnix        prometheus.Gauge
	snapshotRecords         *prometheus.GaugeVec

	// View pipeline
	pipelineRuns     *prometheus.CounterVec
	pipelineDuration *prometheus.HistogramVec

	// Sessions
	sessionsActive   prometheus.Gauge
	sessionEvictions *prometheus.CounterVec

	// Fetch workers
	workerBusy   prometheus.Gauge
	workerErrors prometheus.Counter

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "iqboard",
		subsystem:        "leaderboard",
		histogramBuckets: []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	}, labels)
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: m.histogramBuckets,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	})
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.httpRequests = m.counterVec("http_requests_total",
		"Total number of HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds", "endpoint", "method", "status_code")
	m.httpErrors = m.counterVec("http_errors_total",
		"HTTP error responses by endpoint and error type", "endpoint", "type")

	m.documentFetches = m.counterVec("document_fetches_total",
		"Source document fetches by document and outcome", "document", "outcome")
	m.documentFetchDuration = m.histogramVec("document_fetch_duration_milliseconds",
		"Source document fetch and decode duration in milliseconds", "document")
	m.documentDegradedFields = m.counterVec("document_degraded_fields_total",
		"Missing or malformed fields replaced by zero values", "document", "field")

	m.snapshotRefreshes = m.counterVec("snapshot_refreshes_total",
		"Snapshot refresh attempts by outcome", "outcome")
	m.snapshotRefreshDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_refresh_duration_milliseconds",
		Help:      "Duration of a full snapshot refresh in milliseconds",
		Buckets:   m.histogramBuckets,
	})
	m.snapshotLastUnix = m.gauge("snapshot_last_unix",
		"Unix timestamp of the last published snapshot")
	m.snapshotRecords = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_records",
		Help:      "Records held by the current snapshot by kind",
	}, []string{"kind"})

	m.pipelineRuns = m.counterVec("pipeline_runs_total",
		"View pipeline runs by view", "view")
	m.pipelineDuration = m.histogramVec("pipeline_duration_milliseconds",
		"View pipeline duration in milliseconds", "view")

	m.sessionsActive = m.gauge("sessions_active", "Open view sessions")
	m.sessionEvictions = m.counterVec("session_evictions_total",
		"View sessions removed by reason", "reason")

	m.workerBusy = m.gauge("fetch_workers_busy", "Fetch workers currently loading a document")
	m.workerErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fetch_worker_errors_total",
		Help:      "Tournament detail fetches skipped after an error",
	})

	m.systemMemoryUsage = m.gauge("system_memory_bytes", "Heap bytes in use")
	m.systemGoroutineCount = m.gauge("system_goroutines", "Number of goroutines")
}

func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordDocumentFetch counts one fetch of a source document; outcome is "ok", "error" or "absent".
func RecordHTTPError(endpoint, errorType string) {
	globalManager.httpErrors.WithLabelValues(endpoint, errorType).Inc()
}

func RecordDocumentFetch(document, outcome string, durationMs float64) {
	globalManager.documentFetches.WithLabelValues(document, outcome).Inc()
	globalManager.documentFetchDuration.WithLabelValues(document).Observe(durationMs)
}

func RecordDegradedField(document, field string) {
	globalManager.documentDegradedFields.WithLabelValues(document, field).Inc()
}

// RecordSnapshotRefresh records a refresh attempt. lastUnix is only set on success.
func RecordSnapshotRefresh(ok bool, durationMs float64, lastUnix int64) {
	if !ok {
		globalManager.snapshotRefreshes.WithLabelValues("error").Inc()
		return
	}
	globalManager.snapshotRefreshes.WithLabelValues("ok").Inc()
	globalManager.snapshotRefreshDuration.Observe(durationMs)
	globalManager.snapshotLastUnix.Set(float64(lastUnix))
}

func UpdateSnapshotRecords(kind string, count int) {
	globalManager.snapshotRecords.WithLabelValues(kind).Set(float64(count))
}

func RecordPipelineRun(view string, durationMs float64) {
	globalManager.pipelineRuns.WithLabelValues(view).Inc()
	globalManager.pipelineDuration.WithLabelValues(view).Observe(durationMs)
}

func UpdateSessionsActive(count int) {
	globalManager.sessionsActive.Set(float64(count))
}

// RecordSessionEviction counts a session removed for reason "capacity" or "expired".
func RecordSessionEviction(reason string) {
	globalManager.sessionEvictions.WithLabelValues(reason).Inc()
}

func IncWorkerBusy() { globalManager.workerBusy.Inc() }
func DecWorkerBusy() { globalManager.workerBusy.Dec() }

func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
