// Package metrics defines the Prometheus collectors used by the search server
// and exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Result types recorded by SearchQueriesTotal.
const (
	ResultHit        = "hit"
	ResultZeroResult = "zero_result"
	ResultError      = "error"
)

// Metrics holds all Prometheus collectors for the search server.
type Metrics struct {
	DocsIndexedTotal       prometheus.Counter
	DocsRejectedTotal      *prometheus.CounterVec
	IndexedTerms           prometheus.Gauge
	SearchQueriesTotal     *prometheus.CounterVec
	SearchLatency          prometheus.Histogram
	SearchResultsCount     prometheus.Histogram
	RequestHistoryNoResult prometheus.Gauge

	gatherer prometheus.Gatherer
}

// New creates the collectors and registers them with reg. A nil reg uses a
// fresh private registry, which keeps repeated construction in tests safe.
func New(reg prometheus.Registerer) *Metrics {
	var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
	if reg == nil {
		r := prometheus.NewRegistry()
		reg, gatherer = r, r
	} else if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}
	m := &Metrics{
		DocsIndexedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "docs_indexed_total",
				Help: "Total documents added to the index.",
			},
		),
		DocsRejectedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "documents_rejected_total",
				Help: "Documents rejected at ingestion by reason.",
			},
			[]string{"reason"},
		),
		IndexedTerms: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "indexed_terms",
				Help: "Number of distinct terms in the inverted index.",
			},
		),
		SearchQueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "search_queries_total",
				Help: "Total search queries by result type (hit, zero_result, error).",
			},
			[]string{"result_type"},
		),
		SearchLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "search_latency_seconds",
				Help:    "Search query latency in seconds.",
				Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
			},
		),
		SearchResultsCount: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "search_results_count",
				Help:    "Number of results returned per search query.",
				Buckets: []float64{0, 1, 2, 3, 4, 5},
			},
		),
		RequestHistoryNoResult: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "request_history_no_result",
				Help: "Empty-result requests currently retained in the request history window.",
			},
		),
		gatherer: gatherer,
	}

	reg.MustRegister(
		m.DocsIndexedTotal,
		m.DocsRejectedTotal,
		m.IndexedTerms,
		m.SearchQueriesTotal,
		m.SearchLatency,
		m.SearchResultsCount,
		m.RequestHistoryNoResult,
	)

	return m
}

// Handler returns the Prometheus scrape HTTP handler for the registry the
// collectors were registered with.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
