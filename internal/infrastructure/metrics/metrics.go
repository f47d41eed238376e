// Package metrics exposes dashboard counters to Prometheus.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/garyjia/invoice-dashboard/internal/application/port"
)

// Metrics records invoice mutations and HTTP request figures
type Metrics struct {
	mutations       *prometheus.CounterVec
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// New registers the dashboard metrics on registry
func New(registry *prometheus.Registry) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		mutations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "invoice_mutations_total",
				Help: "Invoice create, update and delete attempts by outcome",
			},
			[]string{"operation", "outcome"},
		),
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "HTTP requests by method, route and status code",
			},
			[]string{"method", "route", "status"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
}

// RecordMutation counts one invoice mutation attempt
func (m *Metrics) RecordMutation(operation, outcome string) {
	m.mutations.WithLabelValues(operation, outcome).Inc()
}

// ObserveRequest records a served HTTP request
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Verify interface compliance
var _ port.MutationMetrics = (*Metrics)(nil)
