// Package metrics provides Prometheus metrics for the gnnboard scoring engine.
//
// Runs are one-shot, so besides the /metrics endpoint of the read-only view
// the registry can be exported to a node_exporter textfile at the end of a run.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns the gnnboard metrics.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Scoring
	scoringOutcomes *prometheus.CounterVec
	f1Scores        *prometheus.HistogramVec
	robustnessGap   prometheus.Histogram
	rowsDropped     *prometheus.CounterVec

	// History
	historyRecords       prometheus.Gauge
	historyAppends       prometheus.Counter
	historyAppendLatency prometheus.Histogram
	historyLockWait      prometheus.Histogram
	participants         prometheus.Gauge

	// Run
	runDuration prometheus.Histogram
	runLastUnix prometheus.Gauge

	// HTTP (read-only view)
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorRateByComponent *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// scoreBuckets cover macro F1 in [0,1].
var scoreBuckets = []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1}

// gapBuckets cover robustness gaps, which may be negative.
var gapBuckets = []float64{-0.2, -0.1, 0, 0.05, 0.1, 0.2, 0.3, 0.5, 1}

// NewManager creates a new metrics manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "gnnboard",
		subsystem:        "leaderboard",
		histogramBuckets: []float64{0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000, 5000},
		enabled:          true,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric definition
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.customLabels)

	m.scoringOutcomes = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "scoring_outcomes_total",
		Help:        "Scored submissions by condition and outcome status",
		ConstLabels: labels,
	}, []string{"condition", "status"})

	m.f1Scores = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "macro_f1",
		Help:        "Distribution of macro F1 scores by condition",
		Buckets:     scoreBuckets,
		ConstLabels: labels,
	}, []string{"condition"})

	m.robustnessGap = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "robustness_gap",
		Help:        "Distribution of ideal minus perturbed macro F1",
		Buckets:     gapBuckets,
		ConstLabels: labels,
	})

	m.rowsDropped = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "rows_dropped_total",
		Help:        "Rows discarded because the join key did not coerce to an integer or the class was blank",
		ConstLabels: labels,
	}, []string{"source"})

	m.historyRecords = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "history_records",
		Help:        "Number of records in the durable history",
		ConstLabels: labels,
	})

	m.historyAppends = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "history_appends_total",
		Help:        "Records appended to the durable history",
		ConstLabels: labels,
	})

	m.historyAppendLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "history_append_latency_milliseconds",
		Help:        "Read-modify-write latency of a history append in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	})

	m.historyLockWait = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "history_lock_wait_milliseconds",
		Help:        "Time spent waiting for the history lock in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	})

	m.participants = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "participants",
		Help:        "Distinct participants in the best-score view",
		ConstLabels: labels,
	})

	m.runDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "run_duration_milliseconds",
		Help:        "Duration of a scoring run in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	})

	m.runLastUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "run_last_completed_unixtime",
		Help:        "Unix time the last scoring run completed",
		ConstLabels: labels,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_requests_total",
		Help:        "Total number of HTTP requests by endpoint and method",
		ConstLabels: labels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	}, []string{"endpoint", "method", "status_code"})

	m.errorRateByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "errors_by_component_total",
		Help:        "Errors by component and type",
		ConstLabels: labels,
	}, []string{"component", "error_type"})
}

// RecordScoringOutcome counts one scored submission half.
func (m *Manager) RecordScoringOutcome(condition, status string) {
	if m.enabled {
		m.scoringOutcomes.WithLabelValues(condition, status).Inc()
	}
}

// ObserveF1 records a macro F1 value.
func (m *Manager) ObserveF1(condition string, v float64) {
	if m.enabled {
		m.f1Scores.WithLabelValues(condition).Observe(v)
	}
}

// ObserveRobustnessGap records a robustness gap.
func (m *Manager) ObserveRobustnessGap(v float64) {
	if m.enabled {
		m.robustnessGap.Observe(v)
	}
}

// RecordRowsDropped counts rows dropped during key coercion.
func (m *Manager) RecordRowsDropped(source string, n int) {
	if m.enabled && n > 0 {
		m.rowsDropped.WithLabelValues(source).Add(float64(n))
	}
}

// UpdateHistoryRecords sets the history size.
func (m *Manager) UpdateHistoryRecords(n int) {
	if m.enabled {
		m.historyRecords.Set(float64(n))
	}
}

// RecordHistoryAppend counts an append and its latency.
func (m *Manager) RecordHistoryAppend(latencyMs float64) {
	if m.enabled {
		m.historyAppends.Inc()
		m.historyAppendLatency.Observe(latencyMs)
	}
}

// RecordHistoryLockWait records time spent waiting for the history lock.
func (m *Manager) RecordHistoryLockWait(waitMs float64) {
	if m.enabled {
		m.historyLockWait.Observe(waitMs)
	}
}

// UpdateParticipants sets the size of the best-score view.
func (m *Manager) UpdateParticipants(n int) {
	if m.enabled {
		m.participants.Set(float64(n))
	}
}

// RecordRun records a completed scoring run.
func (m *Manager) RecordRun(durationMs float64, completedUnix int64) {
	if m.enabled {
		m.runDuration.Observe(durationMs)
		m.runLastUnix.Set(float64(completedUnix))
	}
}

// RecordHTTPRequest records an HTTP request and its duration.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	if m.enabled {
		m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
		m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
	}
}

// RecordErrorByComponent counts an error by component and type.
func (m *Manager) RecordErrorByComponent(component, errorType string) {
	if m.enabled {
		m.errorRateByComponent.WithLabelValues(component, errorType).Inc()
	}
}

// Package-level helpers delegate to the global manager.

// RecordScoringOutcome counts one scored submission half.
func RecordScoringOutcome(condition, status string) {
	globalManager.RecordScoringOutcome(condition, status)
}

// ObserveF1 records a macro F1 value.
func ObserveF1(condition string, v float64) { globalManager.ObserveF1(condition, v) }

// ObserveRobustnessGap records a robustness gap.
func ObserveRobustnessGap(v float64) { globalManager.ObserveRobustnessGap(v) }

// RecordRowsDropped counts rows dropped during key coercion.
func RecordRowsDropped(source string, n int) { globalManager.RecordRowsDropped(source, n) }

// UpdateHistoryRecords sets the history size.
func UpdateHistoryRecords(n int) { globalManager.UpdateHistoryRecords(n) }

// RecordHistoryAppend counts an append and its latency.
func RecordHistoryAppend(latencyMs float64) { globalManager.RecordHistoryAppend(latencyMs) }

// RecordHistoryLockWait records time spent waiting for the history lock.
func RecordHistoryLockWait(waitMs float64) { globalManager.RecordHistoryLockWait(waitMs) }

// UpdateParticipants sets the size of the best-score view.
func UpdateParticipants(n int) { globalManager.UpdateParticipants(n) }

// RecordRun records a completed scoring run.
func RecordRun(durationMs float64, completedUnix int64) {
	globalManager.RecordRun(durationMs, completedUnix)
}

// RecordHTTPRequest records an HTTP request and its duration.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// RecordErrorByComponent counts an error by component and type.
func RecordErrorByComponent(component, errorType string) {
	globalManager.RecordErrorByComponent(component, errorType)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// WriteTextfile exports the registry in the node_exporter textfile format.
func WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: %w", ErrExportFailed, err)
	}
	if err := prometheus.WriteToTextfile(path, customRegistry); err != nil {
		return fmt.Errorf("%w: %w", ErrExportFailed, err)
	}
	return nil
}
