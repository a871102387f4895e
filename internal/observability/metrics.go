package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "gqlcost"

// Metrics holds all Prometheus collectors of the service.
type Metrics struct {
	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Analysis
	QueryCost       prometheus.Histogram
	QueriesRejected *prometheus.CounterVec
	DocumentCache   *prometheus.CounterVec
}

// NewMetrics creates and registers metrics with the default registry.
func NewMetrics() *Metrics {
	return newMetrics(promauto.With(prometheus.DefaultRegisterer))
}

// NewTestMetrics creates metrics backed by a throw-away registry.
func NewTestMetrics() *Metrics {
	return newMetrics(promauto.With(prometheus.NewRegistry()))
}

func newMetrics(factory promauto.Factory) *Metrics {
	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests processed.",
		}, []string{"method", "path", "status"}),

		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"method", "path"}),

		QueryCost: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_cost",
			Help:      "Computed cost of analyzed documents.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}),

		QueriesRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_rejected_total",
			Help:      "Total documents rejected, by reason.",
		}, []string{"reason"}),

		DocumentCache: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "document_cache_total",
			Help:      "Parsed document cache lookups, by result.",
		}, []string{"result"}),
	}
}
