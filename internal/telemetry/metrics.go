package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var samplesTotal = promauto.With(prometheus.DefaultRegisterer).NewCounter(
	prometheus.CounterOpts{
		Name: "container_monitor_samples_total",
		Help: "Total number of container resource samples taken.",
	},
)

var batchesFlushedTotal = promauto.With(prometheus.DefaultRegisterer).NewCounterVec(
	prometheus.CounterOpts{
		Name: "container_monitor_batches_flushed_total",
		Help: "Total number of sample batches written to the store, by trigger.",
	},
	[]string{"trigger"},
)

var summariesDroppedTotal = promauto.With(prometheus.DefaultRegisterer).NewCounter(
	prometheus.CounterOpts{
		Name: "container_monitor_summaries_dropped_total",
		Help: "Total number of summary messages dropped because the send failed (for example, a full queue).",
	},
)

var eventsProcessedTotal = promauto.With(prometheus.DefaultRegisterer).NewCounterVec(
	prometheus.CounterOpts{
		Name: "container_monitor_events_processed_total",
		Help: "Total number of runtime lifecycle events processed, by status.",
	},
	[]string{"status"},
)

var storeWriteFailuresTotal = promauto.With(prometheus.DefaultRegisterer).NewCounter(
	prometheus.CounterOpts{
		Name: "container_monitor_store_write_failures_total",
		Help: "Total number of dropped store writes.",
	},
)

func RecordSample() {
	samplesTotal.Inc()
}

// RecordBatchFlushed counts one batch write; trigger is "full" for a
// batch-size drain, "flush" for a membership or shutdown flush.
func RecordBatchFlushed(trigger string) {
	batchesFlushedTotal.WithLabelValues(trigger).Inc()
}

func RecordSummaryDropped() {
	summariesDroppedTotal.Inc()
}

func RecordEventProcessed(status string) {
	eventsProcessedTotal.WithLabelValues(status).Inc()
}

func RecordStoreWriteFailure() {
	storeWriteFailuresTotal.Inc()
}
