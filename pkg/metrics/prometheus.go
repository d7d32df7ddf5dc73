// Package metrics provides Prometheus metrics for the score board service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics of the score board.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Scoring
	scoreSaves     *prometheus.CounterVec
	scoreSaveRows  prometheus.Histogram
	degradedCells  *prometheus.CounterVec
	cohortsRanked  prometheus.Counter
	scoringErrors  prometheus.Counter
	routinesTotal  prometheus.Gauge
	ridersTotal    prometheus.Gauge
	startingOrders prometheus.Counter

	// Reconcile
	correctionsApplied prometheus.Counter
	correctionsSkipped prometheus.Counter

	// Storage
	storageOperations *prometheus.CounterVec
	storageErrors     *prometheus.CounterVec
	storageLatency    *prometheus.HistogramVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	authFailures        prometheus.Counter
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "unicycle",
		subsystem:        "scoreboard",
		histogramBuckets: []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000},
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.customLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.scoreSaves = auto.NewCounterVec(
		m.counterOpts("score_saves_total", "Score sheet saves by category and outcome"),
		[]string{"category", "outcome"},
	)
	m.scoreSaveRows = auto.NewHistogram(
		m.histogramOpts("score_save_rows", "Number of routine rows written per save", prometheus.LinearBuckets(1, 5, 10)),
	)
	m.degradedCells = auto.NewCounterVec(
		m.counterOpts("degraded_cells_total", "Submitted cells that failed validation and were stored as missing"),
		[]string{"domain"},
	)
	m.cohortsRanked = auto.NewCounter(m.counterOpts("cohorts_normalized_total", "Cohort result tables computed"))
	m.scoringErrors = auto.NewCounter(m.counterOpts("scoring_errors_total", "Stored score rows that could not be parsed"))
	m.routinesTotal = auto.NewGauge(m.gaugeOpts("routines", "Number of registered routines"))
	m.ridersTotal = auto.NewGauge(m.gaugeOpts("riders", "Number of registered riders"))
	m.startingOrders = auto.NewCounter(m.counterOpts("starting_orders_total", "Starting orders generated"))

	m.correctionsApplied = auto.NewCounter(m.counterOpts("corrections_applied_total", "Category or age group corrections written"))
	m.correctionsSkipped = auto.NewCounter(m.counterOpts("corrections_skipped_total", "Routines skipped during reconcile due to inconsistent data"))

	m.storageOperations = auto.NewCounterVec(
		m.counterOpts("storage_operations_total", "Storage operations by operation and table"),
		[]string{"operation", "table"},
	)
	m.storageErrors = auto.NewCounterVec(
		m.counterOpts("storage_errors_total", "Failed storage operations by operation and table"),
		[]string{"operation", "table"},
	)
	m.storageLatency = auto.NewHistogramVec(
		m.histogramOpts("storage_latency_milliseconds", "Storage operation latency in milliseconds", m.histogramBuckets),
		[]string{"operation"},
	)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)
	m.authFailures = auto.NewCounter(m.counterOpts("jury_auth_failures_total", "Rejected jury credential checks"))
}

// RecordScoreSave counts a score sheet save; outcome is "ok" or "error".
func RecordScoreSave(category, outcome string, rows int) {
	globalManager.scoreSaves.WithLabelValues(category, outcome).Inc()
	globalManager.scoreSaveRows.Observe(float64(rows))
}

// RecordDegradedCell counts a submitted cell that was clamped to missing.
func RecordDegradedCell(domain string) {
	globalManager.degradedCells.WithLabelValues(domain).Inc()
}

// RecordCohortNormalized counts a computed result table.
func RecordCohortNormalized() {
	globalManager.cohortsRanked.Inc()
}

// RecordScoringError counts a stored score row that could not be parsed.
func RecordScoringError() {
	globalManager.scoringErrors.Inc()
}

// UpdateRoutineCount sets the number of registered routines.
func UpdateRoutineCount(count int) {
	globalManager.routinesTotal.Set(float64(count))
}

// UpdateRiderCount sets the number of registered riders.
func UpdateRiderCount(count int) {
	globalManager.ridersTotal.Set(float64(count))
}

// RecordStartingOrder counts a generated starting order.
func RecordStartingOrder() {
	globalManager.startingOrders.Inc()
}

// RecordCorrectionApplied counts a written routine correction.
func RecordCorrectionApplied() {
	globalManager.correctionsApplied.Inc()
}

// RecordCorrectionSkipped counts a routine skipped by reconcile.
func RecordCorrectionSkipped() {
	globalManager.correctionsSkipped.Inc()
}

// RecordStorageOperation records one storage call and its latency.
func RecordStorageOperation(operation, table string, latencyMs float64) {
	globalManager.storageOperations.WithLabelValues(operation, table).Inc()
	globalManager.storageLatency.WithLabelValues(operation).Observe(latencyMs)
}

// RecordStorageError counts a failed storage call.
func RecordStorageError(operation, table string) {
	globalManager.storageErrors.WithLabelValues(operation, table).Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordAuthFailure counts a rejected jury credential.
func RecordAuthFailure() {
	globalManager.authFailures.Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
