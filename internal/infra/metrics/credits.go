package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(creditsChargedTotal, creditsRefundedTotal, creditBlocksTotal) }

var creditsChargedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "credits_charged_total",
		Help: "Ledger units deducted, by charged phase.",
	},
	[]string{"phase"}, // structure, activities
)

var creditsRefundedTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "credits_refunded_total",
		Help: "Ledger units refunded after charges that produced no value.",
	},
)

var creditBlocksTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "credit_blocks_total",
		Help: "Charges rejected for insufficient balance, by phase.",
	},
	[]string{"phase"},
)

func AddCreditCharge(phase string, n int64) {
	creditsChargedTotal.WithLabelValues(norm(phase)).Add(float64(n))
}

func AddCreditRefund(n int64) {
	creditsRefundedTotal.Add(float64(n))
}

func IncCreditBlocked(phase string) {
	creditBlocksTotal.WithLabelValues(norm(phase)).Inc()
}
