package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics wraps a private Prometheus registry with the service's collectors.
type Metrics struct {
	registry     *prometheus.Registry
	requestCount *prometheus.CounterVec
	latency      *prometheus.HistogramVec
	errorCount   *prometheus.CounterVec
	claimCount   *prometheus.CounterVec
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "http_requests_total", Help: "Count of HTTP requests"},
			[]string{"path", "method", "status"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Latency of HTTP requests",
				Buckets: prometheus.DefBuckets,
			}, []string{"path", "method"},
		),
		errorCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "http_errors_total", Help: "Count of error responses by error code"},
			[]string{"path", "method", "code"},
		),
		claimCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "claim_transitions_total", Help: "Committed claim state transitions"},
			[]string{"status"},
		),
	}
	m.registry.MustRegister(
		m.requestCount,
		m.latency,
		m.errorCount,
		m.claimCount,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestCount.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	m.latency.WithLabelValues(path, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.errorCount.WithLabelValues(path, method, code).Inc()
}

// RecordClaimTransition counts a committed claim status change.
func (m *Metrics) RecordClaimTransition(status string) {
	if m == nil {
		return
	}
	m.claimCount.WithLabelValues(status).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
