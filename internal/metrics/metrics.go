package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	SalesSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pos_sales_submitted_total",
			Help: "Resolved sale submissions by path",
		},
		[]string{"path"}, // direct | offline
	)

	SyncPasses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pos_sync_passes_total",
			Help: "Synchronization passes started",
		},
	)

	SyncedSales = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pos_synced_sales_total",
			Help: "Queued sales confirmed by the remote service and removed",
		},
	)

	RejectedSales = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pos_rejected_sales_total",
			Help: "Queued sales rejected by the remote service",
		},
	)

	DeferredSales = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pos_deferred_sales_total",
			Help: "Queued sales left for a later pass after a transport failure",
		},
	)

	QueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pos_queue_depth",
			Help: "Sales currently held in the local queue",
		},
	)
)

func Init() {
	prometheus.MustRegister(
		SalesSubmitted,
		SyncPasses,
		SyncedSales,
		RejectedSales,
		DeferredSales,
		QueueDepth,
	)
}
