package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	httpRequestsTotal     *prometheus.CounterVec
	httpLatencySeconds    *prometheus.HistogramVec
	httpErrorsTotal       *prometheus.CounterVec
	evaluationWarnings    *prometheus.CounterVec
	realtimeClientsActive prometheus.Gauge
	eventsPublishedTotal  *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		evaluationWarnings = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "evaluation_warnings_total",
			Help: "Data-quality warnings raised while evaluating marks.",
		}, []string{"kind"})

		realtimeClientsActive = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "realtime_clients_active",
			Help: "Number of connected realtime websocket clients.",
		})

		eventsPublishedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Academic events delivered to local subscribers.",
		}, []string{"type", "origin"})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			httpErrorsTotal,
			evaluationWarnings,
			realtimeClientsActive,
			eventsPublishedTotal,
		)
	})
}

// HTTPRequests exposes the request counter.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the request latency histogram.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the error response counter.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// EvaluationWarnings counts engine warnings by kind.
func EvaluationWarnings() *prometheus.CounterVec {
	RegisterMetrics()
	return evaluationWarnings
}

// RealtimeClientsActive tracks open websocket streams.
func RealtimeClientsActive() prometheus.Gauge {
	RegisterMetrics()
	return realtimeClientsActive
}

// EventsPublished counts academic events by type and origin (local or remote).
func EventsPublished() *prometheus.CounterVec {
	RegisterMetrics()
	return eventsPublishedTotal
}
