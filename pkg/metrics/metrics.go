package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	Registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	MutationsTotal  *prometheus.CounterVec
}

// New creates the collectors on a private registry, so tests can build as
// many instances as they like.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "padron_http_requests_total",
			Help: "HTTP requests by method, route and status code",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "padron_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		MutationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "padron_agremiado_mutations_total",
			Help: "Member create/update/delete operations by outcome",
		}, []string{"op", "result"}),
	}
	reg.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.MutationsTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// IncMutation counts one member mutation. No-op on a nil receiver.
func (m *Metrics) IncMutation(op, result string) {
	if m == nil {
		return
	}
	m.MutationsTotal.WithLabelValues(op, result).Inc()
}
