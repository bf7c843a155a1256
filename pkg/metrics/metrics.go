// Package metrics registers the Prometheus instruments for the search
// pipeline and exposes them over /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the pipeline instruments.
type Metrics struct {
	registry *prometheus.Registry

	SearchesTotal    *prometheus.CounterVec
	SearchDuration   prometheus.Histogram
	EvidenceCount    prometheus.Histogram
	RateLimitedTotal prometheus.Counter
}

// New creates a registry with process/go collectors and the pipeline
// instruments.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		SearchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "medqa_searches_total",
			Help: "Search requests by outcome.",
		}, []string{"outcome"}),
		SearchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "medqa_search_duration_seconds",
			Help:    "End-to-end search pipeline latency.",
			Buckets: prometheus.DefBuckets,
		}),
		EvidenceCount: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "medqa_search_evidence_count",
			Help:    "Evidence hits surviving the lexical filter per search.",
			Buckets: []float64{0, 1, 2, 3, 5, 10},
		}),
		RateLimitedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "medqa_search_rate_limited_total",
			Help: "Requests rejected by the rate limiter.",
		}),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
