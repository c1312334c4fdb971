package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search and catalog Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "facetdex",
			Name:      "search_requests_total",
			Help:      "Total number of search computations",
		},
		[]string{"mode"}, // "text" / "browse" / "empty" / "loading"
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "facetdex",
			Name:      "search_duration_seconds",
			Help:      "Result pipeline duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		},
		[]string{"mode"},
	)

	SearchResults = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "facetdex",
			Name:      "search_results",
			Help:      "Number of results returned per search",
			Buckets:   []float64{0, 1, 5, 10, 20, 30, 40},
		},
	)

	FacetsDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "facetdex",
			Name:      "facets_duration_seconds",
			Help:      "Available-tags computation duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		},
	)

	CatalogDocuments = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "facetdex",
			Name:      "catalog_documents",
			Help:      "Number of entities in the loaded catalog",
		},
	)

	CatalogLoaded = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "facetdex",
			Name:      "catalog_loaded",
			Help:      "1 once the catalog snapshot is published",
		},
	)

	SessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "facetdex",
			Name:      "sessions_active",
			Help:      "Number of live search sessions",
		},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers search, catalog and session metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(SearchResults)
	prometheus.MustRegister(FacetsDuration)
	prometheus.MustRegister(CatalogDocuments)
	prometheus.MustRegister(CatalogLoaded)
	prometheus.MustRegister(SessionsActive)
	searchMetricsRegistered = true
}
