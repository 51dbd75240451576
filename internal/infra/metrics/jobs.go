package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(jobsEnqueuedTotal, jobsProcessedTotal) }

var (
	jobsEnqueuedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "generation_jobs_enqueued_total",
			Help: "Total number of generation jobs enqueued.",
		},
	)

	jobsProcessedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "generation_jobs_processed_total",
			Help: "Total number of generation jobs processed, labeled by status.",
		},
		[]string{"status"}, // 'completed', 'failed'
	)
)

func IncJobEnqueued() {
	jobsEnqueuedTotal.Inc()
}

func IncJobProcessed(status string) {
	jobsProcessedTotal.WithLabelValues(norm(status)).Inc()
}
