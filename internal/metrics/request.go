package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RequestMetrics tracks served HTTP requests by route template, so
// cardinality stays bounded regardless of path parameters.
type RequestMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	limited  prometheus.Counter
}

// NewRequestMetrics creates the HTTP metric families and registers them.
func NewRequestMetrics(registry prometheus.Registerer) *RequestMetrics {
	rm := &RequestMetrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "HTTP requests served, by method, route and status.",
			},
			[]string{"method", "route", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request latency.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		limited: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "rate_limited_total",
				Help:      "Requests rejected by the rate limiter.",
			},
		),
	}

	registry.MustRegister(rm.requests, rm.duration, rm.limited)
	return rm
}

// Observe records a completed request. A nil receiver is a no-op.
func (rm *RequestMetrics) Observe(method, route string, status int, elapsed time.Duration) {
	if rm == nil {
		return
	}
	rm.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	rm.duration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RateLimited counts one rejected request.
func (rm *RequestMetrics) RateLimited() {
	if rm == nil {
		return
	}
	rm.limited.Inc()
}
