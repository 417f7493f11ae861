package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(planJobsTotal, planJobDuration, planDaysTotal) }

var planJobsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "plan_jobs_total",
		Help: "Plan generation jobs by terminal status.",
	},
	[]string{"status"}, // completed, failed, cancelled
)

var planJobDuration = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "plan_job_duration_seconds",
		Help:    "End-to-end duration of one plan generation execution.",
		Buckets: []float64{5, 15, 30, 60, 120, 300, 600, 1200},
	},
)

var planDaysTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "plan_days_total",
		Help: "Per-day activity generation outcomes.",
	},
	[]string{"outcome"}, // ok, model_error, parse_error, store_error
)

func IncPlanJob(status string) {
	planJobsTotal.WithLabelValues(norm(status)).Inc()
}

func ObservePlanJobDuration(seconds float64) {
	planJobDuration.Observe(seconds)
}

func IncPlanDay(outcome string) {
	planDaysTotal.WithLabelValues(norm(outcome)).Inc()
}
