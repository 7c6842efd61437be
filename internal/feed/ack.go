package feed

import (
	"context"
	"detailq/internal/atomics"
	"detailq/internal/detail"
	"detailq/internal/dispatch"
	"detailq/internal/global"
	"detailq/internal/logctx"
	"errors"
	"sync"
)

func (instance *Instance) current() (stream *detail.Stream) {
	instance.mu.Lock()
	stream = instance.stream
	instance.mu.Unlock()
	return
}

// Hands a worker's reply to the stream
func (instance *Instance) acknowledge(ctx context.Context, completion dispatch.Completion) {
	stream := instance.current()
	if stream == nil {
		// Stream already dropped, the record replays on the next open
		instance.Metrics.AckErrors.Add(1)
		return
	}

	_, err := stream.Acknowledge(completion.Token, completion.Reply)
	if err != nil {
		instance.Metrics.AckErrors.Add(1)
		if errors.Is(err, detail.ErrForeignToken) || errors.Is(err, detail.ErrClosed) {
			logctx.LogEvent(ctx, global.VerbosityProgress, global.WarnLog,
				"ignoring completion from a previous stream: %v\n", err)
			return
		}
		logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog, "acknowledgment failed: %v\n", err)
		return
	}

	if completion.Delivered() {
		instance.Metrics.AcksDelivered.Add(1)
	} else {
		instance.Metrics.AcksSuppressed.Add(1)
		instance.undelivered.Add(1)
	}
}

// Acknowledges whatever completions are already waiting
func (instance *Instance) drainCompletions(ctx context.Context) {
	for {
		select {
		case completion := <-instance.completions:
			instance.acknowledge(ctx, completion)
		default:
			return
		}
	}
}

// Stops reading and gives workers a bounded window to return tokens
// before the stream is closed
func (instance *Instance) shutdown(ctx context.Context) {
	stream := instance.current()
	if stream == nil {
		return
	}

	// ctx is done, acknowledgments run on a detached context
	drainCtx := logctx.OverwriteCtxTag(context.WithoutCancel(ctx), instance.Namespace)
	stopPump := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stopPump:
				return
			case completion := <-instance.completions:
				instance.acknowledge(drainCtx, completion)
			}
		}
	}()

	outstanding := atomics.LoaderFunc(func() uint64 {
		return uint64(max(stream.Outstanding(), 0))
	})
	drained, left := atomics.WaitUntilZero(drainCtx, outstanding, instance.config.AckDrainTimeout)

	close(stopPump)
	wg.Wait()

	if !drained {
		logctx.LogEvent(drainCtx, global.VerbosityStandard, global.WarnLog,
			"shutting down with %d unacknowledged records, they will be replayed\n", left)
	}

	finished := drained && stream.Drained() && instance.undelivered.Load() == 0
	err := instance.release(finished)
	if err != nil {
		logctx.LogEvent(drainCtx, global.VerbosityStandard, global.ErrorLog, "%v\n", err)
		return
	}
	if finished {
		instance.Metrics.FilesCompleted.Add(1)
	}
}
