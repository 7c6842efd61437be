package worker

import (
	"detailq/internal/dispatch"
	"detailq/internal/externalio"
	"sync/atomic"
)

type Instance struct {
	Namespace   []string
	id          int
	lanes       *dispatch.Lanes            // jobs from the feed
	outputs     []externalio.Output        // every record is delivered to all of these
	completions chan<- dispatch.Completion // tokens back to the feed
	Metrics     *MetricStorage
}

type MetricStorage struct {
	Processed     atomic.Uint64 // jobs popped and handled
	Delivered     atomic.Uint64 // jobs written to every output
	Failed        atomic.Uint64 // jobs answered with do-not-respond
	ParseErrors   atomic.Uint64 // payloads that did not parse as a record
	OutputErrors  atomic.Uint64 // individual output write failures
	BytesIn       atomic.Uint64 // payload bytes handled
	ProcessTimeNs atomic.Uint64 // sum of per-job processing time
	MaxProcessNs  atomic.Uint64 // slowest job in the interval
}
