// Package metrics exposes Prometheus counters/histograms for the reasoning
// pipeline and memory store, following the shape of the teacher's
// internal/integration/victorialogs.Metrics (gauge+counters registered
// against a caller-supplied registerer, with matching Unregister).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the engine's Prometheus instrumentation.
type Metrics struct {
	RequestsTotal       *prometheus.CounterVec // by endpoint, status
	CohortSize          prometheus.Histogram   // size of the reranked top-K cohort
	RetrievalLatency    *prometheus.HistogramVec
	LowConfidenceTotal  prometheus.Counter // responses whose overall confidence label was "low"
	StoreCacheHitsTotal prometheus.Counter
	StoreCacheMissTotal prometheus.Counter

	collectors []prometheus.Collector
	registerer prometheus.Registerer
}

// New creates and registers the engine's metrics against reg.
func New(reg prometheus.Registerer) *Metrics {
	requestsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "quakecase_requests_total",
		Help: "Total HTTP requests handled, by endpoint and status.",
	}, []string{"endpoint", "status"})

	cohortSize := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "quakecase_cohort_size",
		Help:    "Size of the reranked top-K cohort used to produce a response.",
		Buckets: []float64{0, 1, 2, 3, 5, 8, 13, 20},
	})

	retrievalLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "quakecase_stage_duration_seconds",
		Help:    "Duration of each handled HTTP request, labeled by request path, in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})

	lowConfidenceTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "quakecase_low_confidence_responses_total",
		Help: "Total responses whose overall confidence label was low.",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "quakecase_store_cache_hits_total",
		Help: "Total kNN queries served from the store's LRU cache.",
	})
	cacheMiss := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "quakecase_store_cache_misses_total",
		Help: "Total kNN queries that missed the store's LRU cache.",
	})

	collectors := []prometheus.Collector{requestsTotal, cohortSize, retrievalLatency, lowConfidenceTotal, cacheHits, cacheMiss}
	reg.MustRegister(collectors...)

	return &Metrics{
		RequestsTotal:       requestsTotal,
		CohortSize:          cohortSize,
		RetrievalLatency:    retrievalLatency,
		LowConfidenceTotal:  lowConfidenceTotal,
		StoreCacheHitsTotal: cacheHits,
		StoreCacheMissTotal: cacheMiss,
		collectors:          collectors,
		registerer:          reg,
	}
}

// Unregister removes all metrics from the registry. Must be called
// before re-creating Metrics against the same registerer to avoid
// duplicate-registration panics.
func (m *Metrics) Unregister() {
	if m.registerer == nil {
		return
	}
	for _, c := range m.collectors {
		m.registerer.Unregister(c)
	}
}
