package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search pipeline Prometheus metrics.
var (
	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bazaarsearch",
			Name:      "searches_total",
			Help:      "Total number of search requests by outcome",
		},
		[]string{"outcome"}, // "ok" / "empty" / "error"
	)

	SearchCandidates = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "bazaarsearch",
			Name:      "search_candidates",
			Help:      "Candidate set size entering the ranker",
			Buckets:   []float64{0, 1, 5, 10, 20, 50, 100, 200},
		},
	)

	SearchLastResortTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "bazaarsearch",
			Name:      "search_last_resort_total",
			Help:      "Searches that fell back to the top-rated tier",
		},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchesTotal)
	prometheus.MustRegister(SearchCandidates)
	prometheus.MustRegister(SearchLastResortTotal)
	searchMetricsRegistered = true
}
