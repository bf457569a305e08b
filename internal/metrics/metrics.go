// Package metrics exposes Prometheus counters for the aggregation engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SearchesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stagefinder_searches_total",
		Help: "Aggregation calls handled.",
	})
	SearchFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stagefinder_search_failures_total",
		Help: "Aggregation calls that returned a caller-visible failure.",
	})
	ProviderRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stagefinder_provider_requests_total",
		Help: "Network calls issued per provider.",
	}, []string{"provider"})
	ProviderFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stagefinder_provider_failures_total",
		Help: "Providers that contributed nothing to a search.",
	}, []string{"provider"})
	EventsFetched = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stagefinder_events_fetched_total",
		Help: "Raw events fetched across all providers, before filtering.",
	})
)

// Register adds all engine collectors to the default registry. Call once
// at startup.
func Register() {
	prometheus.MustRegister(SearchesTotal, SearchFailures, ProviderRequests, ProviderFailures, EventsFetched)
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
