package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics. A nil *Metrics is valid and records nothing.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	DegradedResponses   *prometheus.CounterVec

	// Tracking metrics
	VisitorsResolved  *prometheus.CounterVec
	RecordsTotal      *prometheus.CounterVec
	StorageErrors     *prometheus.CounterVec
	PageViewsDropped  prometheus.Counter
	ProcessorQueueLen prometheus.Gauge

	registry *prometheus.Registry
}

// NewMetrics creates and registers all Prometheus metrics on the given registry.
// A nil registry gets a fresh one.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "equisplit_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "equisplit_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		DegradedResponses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "equisplit_degraded_responses_total",
				Help: "Responses served from a degraded tracking outcome",
			},
			[]string{"route"},
		),
		VisitorsResolved: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "equisplit_visitors_resolved_total",
				Help: "Visitor resolutions by result (created, returning, degraded)",
			},
			[]string{"result"},
		),
		RecordsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "equisplit_tracking_records_total",
				Help: "Tracking rows written by kind",
			},
			[]string{"kind"},
		),
		StorageErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "equisplit_storage_errors_total",
				Help: "Storage failures masked by the fail-soft tracking path",
			},
			[]string{"component", "operation"},
		),
		PageViewsDropped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "equisplit_page_views_dropped_total",
				Help: "Page views dropped because the async queue was full or stopped",
			},
		),
		ProcessorQueueLen: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "equisplit_processor_queue_length",
				Help: "Current number of queued page-view jobs",
			},
		),
		registry: registry,
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DegradedResponses,
		m.VisitorsResolved,
		m.RecordsTotal,
		m.StorageErrors,
		m.PageViewsDropped,
		m.ProcessorQueueLen,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records an HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// DegradedResponse counts a response carrying the degraded header.
func (m *Metrics) DegradedResponse(route string) {
	if m == nil {
		return
	}
	m.DegradedResponses.WithLabelValues(route).Inc()
}

// VisitorResolved counts a resolver outcome: "created", "returning" or "degraded".
func (m *Metrics) VisitorResolved(result string) {
	if m == nil {
		return
	}
	m.VisitorsResolved.WithLabelValues(result).Inc()
}

// Recorded counts a successfully written tracking row.
func (m *Metrics) Recorded(kind string) {
	if m == nil {
		return
	}
	m.RecordsTotal.WithLabelValues(kind).Inc()
}

// StorageError counts a masked storage failure.
func (m *Metrics) StorageError(component, operation string) {
	if m == nil {
		return
	}
	m.StorageErrors.WithLabelValues(component, operation).Inc()
}

// PageViewDropped counts a page view the async processor refused.
func (m *Metrics) PageViewDropped() {
	if m == nil {
		return
	}
	m.PageViewsDropped.Inc()
}

// SetQueueLength reports the processor backlog.
func (m *Metrics) SetQueueLength(n int) {
	if m == nil {
		return
	}
	m.ProcessorQueueLen.Set(float64(n))
}
