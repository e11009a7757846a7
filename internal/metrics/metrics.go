package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder defines the interface for recording application metrics.
// Implementations include Metrics (Prometheus-based) and NoopMetrics (no-op).
type Recorder interface {
	// Authentication
	RecordRegistration(result string)
	RecordLogin(success bool)
	RecordTokenIssued(generationTime time.Duration)
	RecordTokenValidation(result string)

	// Task operations
	RecordTaskOperation(operation, result string)

	// Gauge setters (for periodic updates)
	SetUsersCount(count int)
	SetTasksCount(count int)

	// Database operations
	RecordDatabaseQueryError(operation string)
}

// Ensure Metrics implements Recorder interface at compile time
var _ Recorder = (*Metrics)(nil)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// Authentication Metrics
	RegistrationsTotal      *prometheus.CounterVec
	LoginsTotal             *prometheus.CounterVec
	TokensIssuedTotal       prometheus.Counter
	TokenGenerationDuration prometheus.Histogram
	TokenValidationTotal    *prometheus.CounterVec

	// Task Metrics
	TaskOperationsTotal *prometheus.CounterVec

	// Inventory Gauges
	UsersTotal prometheus.Gauge
	TasksTotal prometheus.Gauge

	// HTTP Request Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Database Query Metrics
	DatabaseQueryErrorsTotal *prometheus.CounterVec
}

var (
	defaultMetrics *Metrics
	once           sync.Once
)

// Init initializes metrics based on enabled flag.
// If enabled=true, returns Prometheus-based Metrics.
// If enabled=false, returns NoopMetrics (zero overhead).
// Uses sync.Once to ensure Prometheus metrics are only registered once.
func Init(enabled bool) Recorder {
	if !enabled {
		return NewNoopMetrics()
	}

	once.Do(func() {
		defaultMetrics = initMetrics()
	})
	return defaultMetrics
}

// initMetrics creates and registers all Prometheus metrics
func initMetrics() *Metrics {
	return &Metrics{
		RegistrationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taskgate_registrations_total",
				Help: "Total number of registration attempts",
			},
			[]string{"result"}, // success, conflict, error
		),
		LoginsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taskgate_logins_total",
				Help: "Total number of login attempts",
			},
			[]string{"result"}, // success, failure
		),
		TokensIssuedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "taskgate_tokens_issued_total",
				Help: "Total number of access tokens issued",
			},
		),
		TokenGenerationDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "taskgate_token_generation_duration_seconds",
				Help:    "Time taken to sign access tokens",
				Buckets: prometheus.DefBuckets,
			},
		),
		TokenValidationTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taskgate_token_validation_total",
				Help: "Total number of token validations",
			},
			[]string{"result"}, // valid, expired, invalid
		),
		TaskOperationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taskgate_task_operations_total",
				Help: "Total number of task operations",
			},
			[]string{
				"operation",
				"result",
			}, // operation: create, list, get, update, delete; result: success, not_found, forbidden, error
		),
		UsersTotal: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "taskgate_users_total",
				Help: "Current number of registered users",
			},
		),
		TasksTotal: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "taskgate_tasks_total",
				Help: "Current number of tasks",
			},
		),
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taskgate_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "taskgate_http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "taskgate_http_requests_in_flight",
				Help: "Current number of in-flight HTTP requests",
			},
		),
		DatabaseQueryErrorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taskgate_database_query_errors_total",
				Help: "Total number of database query errors",
			},
			[]string{"operation"},
		),
	}
}

// RecordRegistration records a registration attempt
func (m *Metrics) RecordRegistration(result string) {
	m.RegistrationsTotal.WithLabelValues(result).Inc()
}

// RecordLogin records a login attempt
func (m *Metrics) RecordLogin(success bool) {
	result := resultFailure
	if success {
		result = resultSuccess
	}
	m.LoginsTotal.WithLabelValues(result).Inc()
}

// RecordTokenIssued records access token issuance
func (m *Metrics) RecordTokenIssued(generationTime time.Duration) {
	m.TokensIssuedTotal.Inc()
	m.TokenGenerationDuration.Observe(generationTime.Seconds())
}

// RecordTokenValidation records a token validation result
func (m *Metrics) RecordTokenValidation(result string) {
	m.TokenValidationTotal.WithLabelValues(result).Inc()
}

// RecordTaskOperation records a task operation outcome
func (m *Metrics) RecordTaskOperation(operation, result string) {
	m.TaskOperationsTotal.WithLabelValues(operation, result).Inc()
}

// SetUsersCount sets the registered users gauge
func (m *Metrics) SetUsersCount(count int) {
	m.UsersTotal.Set(float64(count))
}

// SetTasksCount sets the tasks gauge
func (m *Metrics) SetTasksCount(count int) {
	m.TasksTotal.Set(float64(count))
}

// RecordDatabaseQueryError records a failed database query
func (m *Metrics) RecordDatabaseQueryError(operation string) {
	m.DatabaseQueryErrorsTotal.WithLabelValues(operation).Inc()
}
