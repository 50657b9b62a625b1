package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "melodex",
			Name:      "search_requests_total",
			Help:      "Total number of search requests",
		},
		[]string{"engine", "status"},
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "melodex",
			Name:      "search_duration_seconds",
			Help:      "Full search pipeline duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"engine"},
	)

	SectionsEmittedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "melodex",
			Name:      "sections_emitted_total",
			Help:      "Response sections emitted, by kind",
		},
		[]string{"kind"},
	)

	IndexItems = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "melodex",
			Name:      "index_items",
			Help:      "Items currently indexed, by content type",
		},
		[]string{"content_type"},
	)

	IndexRebuildsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "melodex",
			Name:      "index_rebuilds_total",
			Help:      "Index rebuilds, by outcome",
		},
		[]string{"status"},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(SectionsEmittedTotal)
	prometheus.MustRegister(IndexItems)
	prometheus.MustRegister(IndexRebuildsTotal)
	searchMetricsRegistered = true
}
