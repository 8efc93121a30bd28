// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	IntentRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intent_requests_total",
			Help: "Total number of dispatched intents by result tag",
		},
		[]string{"intent", "tag", "kind"},
	)

	IntentDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "intent_duration_seconds",
			Help:    "Duration of intent handling in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"intent"},
	)

	IntentsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "intents_active",
			Help: "Number of intents currently being handled",
		},
		[]string{"intent"},
	)

	ProfileUpdateConflicts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "profile_update_conflicts_total",
			Help: "Optimistic profile updates retried after a concurrent write",
		},
		[]string{"backend"},
	)

	FactGatewayRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fact_gateway_requests_total",
			Help: "Requests sent to external fact services by outcome",
		},
		[]string{"kind", "status"},
	)

	DatasetRecords = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dataset_records",
			Help: "Number of records loaded per dataset table",
		},
		[]string{"table"},
	)

	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of Zeebe jobs completed by intent worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of Zeebe jobs failed by intent worker",
		},
		[]string{"task_type", "error_code"},
	)
)
