package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Kabre57/ParabellumGroups-sub000/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation for the HTTP layer, the calendar
// sources and the database.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	sourceDuration  *prometheus.HistogramVec
	sourceErrors    *prometheus.CounterVec
	sourceEvents    *prometheus.CounterVec
	dbQueryDuration *prometheus.HistogramVec
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	sourceDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "calendar_source_fetch_duration_seconds",
		Help:    "Duration of one calendar source fetch and normalisation",
		Buckets: prometheus.DefBuckets,
	}, []string{"source", "outcome"})

	sourceErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "calendar_source_fetch_errors_total",
		Help: "Calendar source fetches that failed",
	}, []string{"source"})

	sourceEvents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "calendar_source_events_total",
		Help: "Unified events produced per calendar source",
	}, []string{"source"})

	dbQueryDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "db_query_duration_seconds",
		Help:    "Duration of database queries",
		Buckets: prometheus.DefBuckets,
	}, []string{"query"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, sourceDuration, sourceErrors, sourceEvents, dbQueryDuration, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:        registry,
		handler:         handler,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		sourceDuration:  sourceDuration,
		sourceErrors:    sourceErrors,
		sourceEvents:    sourceEvents,
		dbQueryDuration: dbQueryDuration,
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveSourceFetch records the latency of one source pipeline and counts its failures.
func (m *MetricsService) ObserveSourceFetch(source models.SourceTag, duration time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
		m.sourceErrors.WithLabelValues(string(source)).Inc()
	}
	m.sourceDuration.WithLabelValues(string(source), outcome).Observe(duration.Seconds())
}

// RecordSourceEvents counts the unified events a source contributed.
func (m *MetricsService) RecordSourceEvents(source models.SourceTag, count int) {
	if m == nil || count <= 0 {
		return
	}
	m.sourceEvents.WithLabelValues(string(source)).Add(float64(count))
}

// ObserveDBQuery records database query timing.
func (m *MetricsService) ObserveDBQuery(label string, duration time.Duration) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(label).Observe(duration.Seconds())
}
