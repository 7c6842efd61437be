package dispatch

import (
	"context"
	"detailq/internal/atomics"
	"detailq/internal/detail"
	"detailq/internal/global"
	"detailq/internal/queue/mpmc"
	"fmt"
)

// Creates lanes with capacity slots per priority level
func NewLanes(namespace []string, capacity uint64) (new *Lanes, err error) {
	new = &Lanes{
		Namespace: append(append([]string{}, namespace...), global.NSDispatch),
		wake:      make(chan struct{}, 1),
	}

	for index, level := range levelOrder {
		new.queues[index], err = mpmc.New[Job](append(append([]string{}, new.Namespace...), level.String()), capacity)
		if err != nil {
			err = fmt.Errorf("failed to create %s lane: %w", level, err)
			new = nil
			return
		}
	}
	return
}

func laneIndex(priority detail.Priority) (index int) {
	for i, level := range levelOrder {
		if level == priority {
			return i
		}
	}
	return laneIndex(detail.PriorityNormal)
}

// Queues job in its priority lane, blocking while the lane is full
func (lanes *Lanes) Push(ctx context.Context, job Job) (err error) {
	queue := lanes.queues[laneIndex(job.Priority)]

	lanes.InFlight.Add(1)
	err = queue.PushBlocking(ctx, job, len(job.Payload))
	if err != nil {
		atomics.Subtract(&lanes.InFlight, 1, 4)
		return
	}

	lanes.signal()
	return
}

// Takes the next job from the highest non-empty lane, blocking until one
// is available or ctx ends
func (lanes *Lanes) Pop(ctx context.Context) (job Job, ok bool) {
	for {
		job, ok = lanes.TryPop()
		if ok {
			if lanes.Len() > 0 {
				lanes.signal()
			}
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-lanes.wake:
		}
	}
}

// Non-blocking Pop
func (lanes *Lanes) TryPop() (job Job, ok bool) {
	for _, queue := range lanes.queues {
		job, ok = queue.TryPop()
		if ok {
			return
		}
	}
	return
}

// Marks a popped job as fully handled
func (lanes *Lanes) Finish() {
	atomics.Subtract(&lanes.InFlight, 1, 4)
}

// Total queued jobs across lanes
func (lanes *Lanes) Len() (depth int) {
	for _, queue := range lanes.queues {
		depth += queue.Len()
	}
	return
}

// Slots per lane
func (lanes *Lanes) Capacity() (capacity int) {
	capacity = lanes.queues[0].Size
	return
}

func (lanes *Lanes) signal() {
	select {
	case lanes.wake <- struct{}{}:
	default:
	}
}
