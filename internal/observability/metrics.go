package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector holds all Prometheus metrics for Swapzo.
// Uses a custom registry, no global state. The matching engine and the
// digest scheduler register their own metrics on the same Registry.
type MetricsCollector struct {
	Registry *prometheus.Registry

	// Match request metrics (gateway-level, per caller).
	MatchRequestsTotal   *prometheus.CounterVec
	MatchRequestDuration *prometheus.HistogramVec

	// HTTP gateway metrics.
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// System metrics.
	ActiveRequests prometheus.Gauge
}

// NewMetricsCollector creates a MetricsCollector with all metrics registered
// on a custom prometheus.Registry.
func NewMetricsCollector() *MetricsCollector {
	reg := prometheus.NewRegistry()

	m := &MetricsCollector{
		Registry: reg,

		MatchRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "swapzo",
			Subsystem: "match",
			Name:      "requests_total",
			Help:      "Total match computation requests.",
		}, []string{"status"}),

		MatchRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "swapzo",
			Subsystem: "match",
			Name:      "request_duration_seconds",
			Help:      "Match computation duration in seconds.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"status"}),

		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "swapzo",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		}, []string{"method", "path", "status_code"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "swapzo",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),

		ActiveRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "swapzo",
			Name:      "active_requests",
			Help:      "Number of currently active requests.",
		}),
	}

	// Register all collectors.
	reg.MustRegister(
		m.MatchRequestsTotal,
		m.MatchRequestDuration,
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.ActiveRequests,
	)

	return m
}
