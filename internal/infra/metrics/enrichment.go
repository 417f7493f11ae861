package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(enrichmentLookupsTotal) }

var enrichmentLookupsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "enrichment_lookups_total",
		Help: "Geocoding lookups by outcome.",
	},
	[]string{"outcome"}, // hit, miss, error
)

func IncEnrichment(outcome string) {
	enrichmentLookupsTotal.WithLabelValues(norm(outcome)).Inc()
}
