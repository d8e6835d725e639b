package client

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// transportMetrics instruments the transport. All methods are nil-safe so the
// client pays nothing when no Registerer is configured.
type transportMetrics struct {
	requests *prometheus.CounterVec
	errors   *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newTransportMetrics(reg prometheus.Registerer) *transportMetrics {
	if reg == nil {
		return nil
	}

	m := &transportMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rxreturn",
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "API requests by method and HTTP status code.",
		}, []string{"method", "status"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rxreturn",
			Subsystem: "client",
			Name:      "request_errors_total",
			Help:      "Requests that failed before a response arrived.",
		}, []string{"method"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "rxreturn",
			Subsystem: "client",
			Name:      "request_duration_seconds",
			Help:      "API request durations by method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}

	reg.MustRegister(m.requests, m.errors, m.duration)
	return m
}

func (m *transportMetrics) observe(method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method).Observe(d.Seconds())
}

func (m *transportMetrics) observeError(method string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(method).Inc()
}
