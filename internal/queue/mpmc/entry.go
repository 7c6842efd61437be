// Multi-producer Multi-Consumer lock-free ring buffer queue with power-of-two capacity
package mpmc

import (
	"context"
	"detailq/internal/atomics"
	"detailq/internal/global"
	"detailq/internal/logctx"
	"fmt"
	"runtime"
	"time"
)

// Creates a new queue
func New[T any](namespace []string, capacity uint64) (new *Queue[T], err error) {
	if capacity < 2 {
		err = fmt.Errorf("capacity must be greater than or equal to 2")
		return
	}
	if (capacity & (capacity - 1)) != 0 {
		err = fmt.Errorf("capacity must be a power of two")
		return
	}

	buf := make([]cell[T], capacity)
	for i := uint64(0); i < capacity; i++ {
		buf[i].seq.Store(i)
	}

	new = &Queue[T]{
		Namespace: append(append([]string{}, namespace...), global.NSQueue),
		Size:      int(capacity),
		mask:      capacity - 1,
		buf:       buf,
		notEmpty:  make(chan struct{}, 1),
		Metrics:   &MetricStorage{},
	}
	return
}

// Poll based wrapper around Push to block until it succeeds or ctx ends
func (queue *Queue[T]) PushBlocking(ctx context.Context, value T, size int) (err error) {
	for {
		if queue.push(value, uint64(size)) {
			return
		}
		select {
		case <-ctx.Done():
			err = ctx.Err()
			return
		case <-time.After(10 * time.Millisecond):
		}
	}
}

// Attempts to write an element (non success = queue full)
func (queue *Queue[T]) Push(value T) (success bool) {
	success = queue.push(value, 0)
	return
}

func (queue *Queue[T]) push(value T, size uint64) (success bool) {
	queue.Metrics.PushAttempts.Add(1)

	var pos, seq uint64
	var cell *cell[T]

	for {
		pos = queue.tail.Load()
		cell = &queue.buf[pos&queue.mask]
		seq = cell.seq.Load()

		if seq == pos {
			if queue.tail.CompareAndSwap(pos, pos+1) {
				break
			}
			queue.Metrics.PushCASRetries.Add(1)
		} else if seq < pos {
			queue.Metrics.PushFull.Add(1)
			return // queue full
		} else {
			runtime.Gosched() // another producer is ahead, retry
		}
	}

	cell.data = value
	cell.size = size
	cell.seq.Store(pos + 1)

	queue.Metrics.PushSuccess.Add(1)
	queue.Metrics.Bytes.Add(size)

	// notify blocked consumers, non-blocking
	select {
	case queue.notEmpty <- struct{}{}:
	default:
	}

	success = true
	return
}

// Attempts to read an element without blocking. Returns false if empty.
func (queue *Queue[T]) TryPop() (out T, success bool) {
	var zero T

	for {
		queue.Metrics.PopAttempts.Add(1)

		pos := queue.head.Load()
		cell := &queue.buf[pos&queue.mask]
		seq := cell.seq.Load()
		readySeq := pos + 1

		if seq == readySeq {
			if !queue.head.CompareAndSwap(pos, pos+1) {
				queue.Metrics.PopCASRetries.Add(1)
				continue
			}
			out = cell.data
			size := cell.size
			cell.data = zero
			cell.seq.Store(pos + queue.mask + 1)

			queue.Metrics.PopSuccess.Add(1)
			atomics.Subtract(&queue.Metrics.Bytes, size, 4)

			success = true
			return
		}

		if seq < readySeq {
			return // empty
		}
		// seq > readySeq, another consumer ahead, retry
		runtime.Gosched()
	}
}

// Reads an element, blocking until one is available or ctx ends
func (queue *Queue[T]) Pop(ctx context.Context) (out T, success bool) {
	for {
		out, success = queue.TryPop()
		if success {
			// Pass the wakeup on when signals for several pushes were coalesced
			if queue.Len() > 0 {
				select {
				case queue.notEmpty <- struct{}{}:
				default:
				}
			}
			return
		}

		select {
		case <-ctx.Done():
			// Last attempt so items pushed right before cancellation are not stranded
			out, success = queue.TryPop()
			if !success {
				logctx.LogEvent(ctx, global.VerbosityData, global.InfoLog,
					"queue pop interrupted: %v\n", ctx.Err())
			}
			return
		case <-queue.notEmpty:
			queue.Metrics.PopWaitSignals.Add(1)
		}
	}
}

// Number of elements currently in the queue
func (queue *Queue[T]) Len() (depth int) {
	tail := queue.tail.Load()
	head := queue.head.Load()
	if tail > head {
		depth = int(tail - head)
	}
	return
}
