package mpmc

import (
	"detailq/internal/metrics"
	"sync/atomic"
	"time"
)

type MetricStorage struct {
	Bytes atomic.Uint64 // Current byte size in queue (as reported by producers)

	PushAttempts   atomic.Uint64 // every push call
	PushSuccess    atomic.Uint64 // CAS success
	PushCASRetries atomic.Uint64 // CAS failed (seq==pos but CAS failed)
	PushFull       atomic.Uint64 // push rejected because the ring was full

	PopAttempts    atomic.Uint64 // every pop attempt
	PopSuccess     atomic.Uint64 // CAS success
	PopCASRetries  atomic.Uint64 // CAS failed
	PopWaitSignals atomic.Uint64 // blocked pops woken by a push
}

func (queue *Queue[T]) CollectMetrics(interval time.Duration) (collection []metrics.Metric) {
	recordTime := time.Now()

	// Helper to add metrics
	add := func(name string, raw interface{}, unit string, t metrics.MetricType, description string) {
		collection = append(collection, metrics.Metric{
			Name:        name,
			Description: description,
			Namespace:   queue.Namespace,
			Type:        t,
			Timestamp:   recordTime,
			Value: metrics.MetricValue{
				Raw:      raw,
				Unit:     unit,
				Interval: interval,
			},
		})
	}

	add("depth", uint64(queue.Len()), "count", metrics.Gauge, "Current number of items in the queue")
	add("capacity", uint64(queue.Size), "count", metrics.Gauge, "Maximum number of items the queue holds")
	add("byte_sum", queue.Metrics.Bytes.Load(), "bytes", metrics.Gauge, "Byte sum of all items in the queue")
	add("push_attempts", queue.Metrics.PushAttempts.Swap(0), "count", metrics.Counter, "Total push attempts in the interval")
	add("push_success", queue.Metrics.PushSuccess.Swap(0), "count", metrics.Counter, "Total push attempts that succeeded in the interval")
	add("push_cas_retries", queue.Metrics.PushCASRetries.Swap(0), "count", metrics.Counter, "Sum of retries to push in the interval")
	add("push_full", queue.Metrics.PushFull.Swap(0), "count", metrics.Counter, "Pushes rejected because the queue was full")
	add("pop_attempts", queue.Metrics.PopAttempts.Swap(0), "count", metrics.Counter, "Total pop attempts in the interval")
	add("pop_success", queue.Metrics.PopSuccess.Swap(0), "count", metrics.Counter, "Total pop attempts that succeeded in the interval")
	add("pop_cas_retries", queue.Metrics.PopCASRetries.Swap(0), "count", metrics.Counter, "Sum of retries to pop in the interval")
	add("pop_wait_signals", queue.Metrics.PopWaitSignals.Swap(0), "count", metrics.Counter, "Blocked pops woken by a push in the interval")

	return
}
