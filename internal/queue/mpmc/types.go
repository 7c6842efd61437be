package mpmc

import "sync/atomic"

type cell[T any] struct {
	seq  atomic.Uint64
	size uint64 // byte size reported by the producer
	data T
}

// Queue is a bounded lock-free multi-producer multi-consumer ring.
type Queue[T any] struct {
	Namespace []string
	Size      int
	mask      uint64
	buf       []cell[T]
	head      atomic.Uint64
	tail      atomic.Uint64
	notEmpty  chan struct{}
	Metrics   *MetricStorage
}
