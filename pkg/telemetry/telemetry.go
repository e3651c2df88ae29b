// Package telemetry exposes the engine's Prometheus metrics
// (SPEC_FULL.md §4.13). Purely observational: nothing in core/ reads
// these values back, so a telemetry failure never changes a query
// result, only what gets scraped.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the engine's Prometheus collectors, registered against
// their own registry rather than the global default so a process can
// construct more than one Metrics (e.g. in tests) without a
// double-registration panic.
type Metrics struct {
	registry *prometheus.Registry

	PrepareDuration   *prometheus.HistogramVec
	TermsVisited      prometheus.Counter
	ScoredTerms       prometheus.Counter
	QueryCacheHits    prometheus.Counter
	QueryCacheMisses  prometheus.Counter
}

// New creates and registers every collector.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		PrepareDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "prepare_duration_seconds",
				Help:    "Time spent preparing a filter into a MultiTermQuery, by filter kind.",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"filter_kind"},
		),
		TermsVisited: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "terms_visited_total",
				Help: "Total dictionary terms visited by acceptor-driven term iterators.",
			},
		),
		ScoredTerms: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "scored_terms_total",
				Help: "Total terms admitted into a filter's scored state, across all segments.",
			},
		),
		QueryCacheHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "query_cache_hits_total",
				Help: "Total querycache lookups that returned a usable entry.",
			},
		),
		QueryCacheMisses: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "query_cache_misses_total",
				Help: "Total querycache lookups that fell back to full preparation.",
			},
		),
	}

	m.registry.MustRegister(
		m.PrepareDuration,
		m.TermsVisited,
		m.ScoredTerms,
		m.QueryCacheHits,
		m.QueryCacheMisses,
	)

	return m
}

// Handler returns the Prometheus scrape HTTP handler for this Metrics'
// registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObservePrepare records how long preparing a filter of the given kind
// took.
func (m *Metrics) ObservePrepare(filterKind string, seconds float64) {
	m.PrepareDuration.WithLabelValues(filterKind).Observe(seconds)
}

// ObserveWalk records one segment's contribution to a prepare call:
// how many dictionary terms the acceptor walk visited and how many of
// those were admitted into the scored state.
func (m *Metrics) ObserveWalk(visited, scored int) {
	m.TermsVisited.Add(float64(visited))
	m.ScoredTerms.Add(float64(scored))
}

// ObserveCacheHit records a querycache hit.
func (m *Metrics) ObserveCacheHit() { m.QueryCacheHits.Inc() }

// ObserveCacheMiss records a querycache miss.
func (m *Metrics) ObserveCacheMiss() { m.QueryCacheMisses.Inc() }
