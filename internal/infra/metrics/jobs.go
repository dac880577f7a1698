package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		jobsSubmitted,
		jobsFinished,
		jobPolls,
		jobWaitSeconds,
	)
}

var (
	jobsSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "generation_jobs_submitted",
			Help: "Generation jobs submitted per vendor.",
		},
		[]string{"vendor"},
	)

	jobsFinished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "generation_jobs_finished",
			Help: "Generation jobs by terminal outcome (succeeded/failed/timeout).",
		},
		[]string{"vendor", "outcome"},
	)

	jobPolls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "generation_job_polls",
			Help: "Status checks issued while waiting on generation jobs.",
		},
		[]string{"vendor"},
	)

	jobWaitSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "generation_job_wait_seconds",
			Help:    "Wall-clock wait between submission and terminal status.",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		},
		[]string{"vendor"},
	)
)

func JobSubmitted(vendor string) {
	jobsSubmitted.WithLabelValues(norm(vendor)).Inc()
}

func JobFinished(vendor, outcome string, waitSeconds float64) {
	jobsFinished.WithLabelValues(norm(vendor), norm(outcome)).Inc()
	jobWaitSeconds.WithLabelValues(norm(vendor)).Observe(waitSeconds)
}

func JobPolled(vendor string) {
	jobPolls.WithLabelValues(norm(vendor)).Inc()
}
