package service

import (
	"github.com/prometheus/client_golang/prometheus"
)

// MetricsService aggregates the process counters: cache effectiveness,
// revalidation outcomes and upstream latency.
type MetricsService struct {
	cacheHits    *prometheus.CounterVec
	cacheMisses  *prometheus.CounterVec
	syncOutcomes *prometheus.CounterVec
	upstream     *prometheus.HistogramVec
}

// NewMetricsService registers the companion metrics on the given registerer.
func NewMetricsService(reg prometheus.Registerer) *MetricsService {
	m := &MetricsService{
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "companion",
			Name:      "cache_hits_total",
			Help:      "Cache reads served from the persistent store.",
		}, []string{"kind"}),
		cacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "companion",
			Name:      "cache_misses_total",
			Help:      "Cache reads that found nothing usable.",
		}, []string{"kind"}),
		syncOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "companion",
			Name:      "sync_outcomes_total",
			Help:      "Revalidation results by stage.",
		}, []string{"stage", "outcome"}),
		upstream: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "companion",
			Name:      "upstream_request_seconds",
			Help:      "Latency of upstream schedule API calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}
	if reg != nil {
		reg.MustRegister(m.cacheHits, m.cacheMisses, m.syncOutcomes, m.upstream)
	}
	return m
}

// CacheHit counts a cache read that found a usable entry.
func (m *MetricsService) CacheHit(kind string) {
	if m == nil {
		return
	}
	m.cacheHits.WithLabelValues(kind).Inc()
}

// CacheMiss counts a cache read that came back empty or undecodable.
func (m *MetricsService) CacheMiss(kind string) {
	if m == nil {
		return
	}
	m.cacheMisses.WithLabelValues(kind).Inc()
}

// SyncOutcome counts one finished revalidation pass. Outcome is one of
// "match", "refetch", "error", "offline" or "stale".
func (m *MetricsService) SyncOutcome(stage, outcome string) {
	if m == nil {
		return
	}
	m.syncOutcomes.WithLabelValues(stage, outcome).Inc()
}

// UpstreamLatency records the duration of one upstream call.
func (m *MetricsService) UpstreamLatency(endpoint string, seconds float64) {
	if m == nil {
		return
	}
	m.upstream.WithLabelValues(endpoint).Observe(seconds)
}
