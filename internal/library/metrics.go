package library

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stwalsh4118/trackflix/internal/watchlist"
)

const metricsNamespace = "trackflix"

// Metrics records batch commits and cache efficiency. A nil *Metrics records
// nothing.
type Metrics struct {
	batches   *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	mutations *prometheus.CounterVec
	cache     *prometheus.CounterVec
}

// NewMetrics creates the library collectors and registers them with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "library",
			Name:      "batches_total",
			Help:      "Mutation batches planned, by operation and outcome.",
		}, []string{"operation", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "library",
			Name:      "batch_duration_seconds",
			Help:      "Time spent committing a mutation batch.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		}, []string{"operation"}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "library",
			Name:      "mutations_total",
			Help:      "Committed mutations, by op and collection.",
		}, []string{"op", "collection"}),
		cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "library",
			Name:      "view_cache_requests_total",
			Help:      "View cache lookups, by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(m.batches, m.duration, m.mutations, m.cache)
	return m
}

func (m *Metrics) observeBatch(operation, status string, batch *watchlist.Batch, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.batches.WithLabelValues(operation, status).Inc()
	if status != statusCommitted {
		return
	}
	m.duration.WithLabelValues(operation).Observe(elapsed.Seconds())
	for _, mut := range batch.Mutations() {
		m.mutations.WithLabelValues(string(mut.Op), string(mut.Collection)).Inc()
	}
}

func (m *Metrics) observeCache(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cache.WithLabelValues("hit").Inc()
		return
	}
	m.cache.WithLabelValues("miss").Inc()
}
