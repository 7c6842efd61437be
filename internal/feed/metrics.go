package feed

import (
	"detailq/internal/metrics"
	"time"
)

func (instance *Instance) CollectMetrics(interval time.Duration) (collection []metrics.Metric) {
	recordTime := time.Now()

	add := func(name string, raw uint64, unit string, t metrics.MetricType, description string) {
		collection = append(collection, metrics.Metric{
			Name:        name,
			Description: description,
			Namespace:   instance.Namespace,
			Value: metrics.MetricValue{
				Raw:      raw,
				Unit:     unit,
				Interval: interval,
			},
			Type:      t,
			Timestamp: recordTime,
		})
	}

	add("files_claimed", instance.Metrics.FilesClaimed.Swap(0), "count", metrics.Counter, "Detail files claimed in the interval")
	add("files_completed", instance.Metrics.FilesCompleted.Swap(0), "count", metrics.Counter, "Work files finished and removed in the interval")
	add("files_replayed", instance.Metrics.FilesReplayed.Swap(0), "count", metrics.Counter, "Work files reopened to retry undelivered records in the interval")
	add("records_dispatched", instance.Metrics.RecordsDispatched.Swap(0), "count", metrics.Counter, "Records pushed to the dispatch lanes in the interval")
	add("acks_delivered", instance.Metrics.AcksDelivered.Swap(0), "count", metrics.Counter, "Records acknowledged as delivered in the interval")
	add("acks_suppressed", instance.Metrics.AcksSuppressed.Swap(0), "count", metrics.Counter, "Records released without a Done marker in the interval")
	add("ack_errors", instance.Metrics.AckErrors.Swap(0), "count", metrics.Counter, "Completions rejected by the stream in the interval")
	add("fatal_errors", instance.Metrics.FatalErrors.Swap(0), "count", metrics.Counter, "Stream failures forcing a reopen in the interval")
	add("watcher_events", instance.Metrics.WatcherEvents.Swap(0), "count", metrics.Counter, "Directory change notifications in the interval")

	instance.mu.Lock()
	stream := instance.stream
	var active uint64
	if stream != nil {
		active = 1
		collection = append(collection, stream.CollectMetrics(interval)...)
	}
	instance.mu.Unlock()

	add("active_stream", active, "count", metrics.Gauge, "Whether a work file is open")
	return
}
