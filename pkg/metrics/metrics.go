package metrics

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "day_booking"

// Metrics набор prometheus-метрик сервиса.
// Все методы безопасны для nil-получателя: без метрик вызовы ничего не делают.
type Metrics struct {
	serviceName string

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	dbQueryDuration *prometheus.HistogramVec
	dbQueryErrors   *prometheus.CounterVec
	dbConnections   *prometheus.GaugeVec

	bookingAdmissions *prometheus.CounterVec
	bookingCancels    prometheus.Counter
	retentionSwept    *prometheus.CounterVec
}

// New регистрирует метрики в prometheus.DefaultRegisterer
func New(serviceName string) *Metrics {
	return NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegistry регистрирует метрики в переданном реестре
func NewWithRegistry(serviceName string, reg prometheus.Registerer) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		serviceName: serviceName,
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests.",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency.",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		dbQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "db_query_duration_seconds",
			Help:        "Database call latency by operation.",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
		dbQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "db_query_errors_total",
			Help:        "Database call errors by operation.",
			ConstLabels: constLabels,
		}, []string{"operation"}),
		dbConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "db_connections",
			Help:        "Connection pool state.",
			ConstLabels: constLabels,
		}, []string{"state"}),
		bookingAdmissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "booking_admissions_total",
			Help:        "Booking admission attempts by outcome.",
			ConstLabels: constLabels,
		}, []string{"outcome"}),
		bookingCancels: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "booking_cancellations_total",
			Help:        "Self-service cancellations.",
			ConstLabels: constLabels,
		}),
		retentionSwept: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "retention_swept_total",
			Help:        "Past bookings removed or expired by the retention sweep.",
			ConstLabels: constLabels,
		}, []string{"policy"}),
	}

	reg.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.dbQueryDuration,
		m.dbQueryErrors,
		m.dbConnections,
		m.bookingAdmissions,
		m.bookingCancels,
		m.retentionSwept,
	)

	return m
}

// ObserveHTTP фиксирует завершенный HTTP запрос
func (m *Metrics) ObserveHTTP(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveDB фиксирует вызов БД
func (m *Metrics) ObserveDB(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil && err != sql.ErrNoRows {
		m.dbQueryErrors.WithLabelValues(operation).Inc()
	}
}

// SetDBStats обновляет метрики пула соединений
func (m *Metrics) SetDBStats(stats sql.DBStats) {
	if m == nil {
		return
	}
	m.dbConnections.WithLabelValues("open").Set(float64(stats.OpenConnections))
	m.dbConnections.WithLabelValues("in_use").Set(float64(stats.InUse))
	m.dbConnections.WithLabelValues("idle").Set(float64(stats.Idle))
}

// IncAdmission считает исход попытки бронирования (accepted, rejected_*, error)
func (m *Metrics) IncAdmission(outcome string) {
	if m == nil {
		return
	}
	m.bookingAdmissions.WithLabelValues(outcome).Inc()
}

// IncCancellation считает отмену бронирования
func (m *Metrics) IncCancellation() {
	if m == nil {
		return
	}
	m.bookingCancels.Inc()
}

// AddSwept считает записи, обработанные retention sweep
func (m *Metrics) AddSwept(policy string, n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.retentionSwept.WithLabelValues(policy).Add(float64(n))
}
