package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() { register(aiTokensIn, aiCallLatencyMs) }

var aiTokensIn = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "ai_tokens_in",
		Help: "Sum of estimated prompt tokens per model.",
	},
	[]string{"model"},
)

var aiCallLatencyMs = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "ai_calls_latency_ms",
		Help:    "Completion call latency distribution in milliseconds.",
		Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
	},
	[]string{"model", "success"},
)

func ObserveCompletion(model string, promptTokens, latencyMs int, success bool) {
	aiTokensIn.WithLabelValues(norm(model)).Add(float64(promptTokens))
	aiCallLatencyMs.WithLabelValues(norm(model), strconv.FormatBool(success)).
		Observe(float64(latencyMs))
}
