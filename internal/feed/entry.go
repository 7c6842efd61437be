package feed

import (
	"context"
	"detailq/internal/dispatch"
	"detailq/internal/global"
	"detailq/internal/logctx"
	"path/filepath"
	"time"
)

func (instance *Instance) Run(ctx context.Context) {
	changed := instance.changed

	// Inotify is an optimization, polling alone is enough to make progress
	watcher, err := newDirWatcher(filepath.Dir(instance.config.Glob))
	if err != nil {
		logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog,
			"falling back to polling every %s: %v\n", instance.config.PollInterval, err)
	} else {
		watchCtx, stopWatcher := context.WithCancel(ctx)
		watchDone := make(chan struct{})
		go func() {
			defer close(watchDone)
			watcher.Run(logctx.AppendCtxTag(watchCtx, global.NSWatcher), instance.matchesName, changed)
		}()
		defer func() {
			stopWatcher()
			<-watchDone
			watcher.Close()
		}()
	}

	ticker := time.NewTicker(instance.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			instance.shutdown(ctx)
			return
		default:
		}

		if instance.current() == nil {
			if !instance.acquire(ctx) {
				instance.wait(ctx, changed, ticker.C)
				continue
			}
		}

		err := instance.readAvailable(ctx)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			instance.fatal(ctx, err)
			continue
		}

		if instance.current().Drained() {
			instance.finish(ctx)
			continue
		}

		instance.wait(ctx, changed, ticker.C)
	}
}

// Wakes the read loop to look for new records and files without waiting
// for the next poll tick
func (instance *Instance) Rescan() {
	select {
	case instance.changed <- struct{}{}:
	default:
	}
}

// Claims and opens the next file, reports whether a stream is ready
func (instance *Instance) acquire(ctx context.Context) (ready bool) {
	claimed, err := instance.claim()
	if err != nil {
		logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog, "%v\n", err)
		return
	}
	if !claimed {
		return
	}

	err = instance.open()
	if err != nil {
		logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog, "%v\n", err)
		instance.Metrics.FatalErrors.Add(1)
		instance.sleep(ctx, instance.config.RetryDelay)
		return
	}

	instance.Metrics.FilesClaimed.Add(1)
	logctx.LogEvent(ctx, global.VerbosityStandard, global.InfoLog,
		"Consuming %s (%d bytes)\n", instance.config.WorkFile, instance.current().FileSize())
	ready = true
	return
}

// Blocks until a completion arrives, the directory changes, the poll
// interval passes, or ctx ends. Completions are acknowledged in place.
func (instance *Instance) wait(ctx context.Context, changed <-chan struct{}, tick <-chan time.Time) {
	select {
	case <-ctx.Done():
	case completion := <-instance.completions:
		instance.acknowledge(ctx, completion)
		instance.drainCompletions(ctx)
	case <-changed:
		instance.Metrics.WatcherEvents.Add(1)
	case <-tick:
	}
}

// Pushes every record currently available into the lanes
func (instance *Instance) readAvailable(ctx context.Context) (err error) {
	stream := instance.current()

	for {
		if ctx.Err() != nil {
			return
		}

		// Acknowledge between reads so workers never stall on a full channel
		instance.drainCompletions(ctx)

		rec, readErr := stream.ReadNext(instance.buffer)
		if readErr != nil {
			err = readErr
			return
		}
		if rec.Empty() {
			// Not at EOF means a full buffer was discarded, keep reading
			if stream.AtEOF() || stream.Closing() {
				return
			}
			continue
		}

		// Payload is a view into the buffer, reused by the next read
		payload := make([]byte, len(rec.Payload))
		copy(payload, rec.Payload)

		job := dispatch.Job{
			Token:    rec.Token,
			Payload:  payload,
			Priority: rec.Priority,
			Source:   stream.Path(),
			Offset:   rec.Offset,
			ReadAt:   rec.Token.CreatedAt,
		}

		pushErr := instance.push(ctx, job)
		if pushErr != nil {
			// Not dispatched, release without marking so it replays
			instance.undelivered.Add(1)
			_, ackErr := stream.Acknowledge(rec.Token, dispatch.ReplyNoResponse)
			if ackErr != nil {
				logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog,
					"failed to release undispatched record at offset %d: %v\n", rec.Offset, ackErr)
			}
			return
		}

		instance.Metrics.RecordsDispatched.Add(1)
		logctx.LogEvent(ctx, global.VerbosityData, global.InfoLog,
			"dispatched %d byte record at offset %d (%s)\n", len(payload), rec.Offset, rec.Priority)
	}
}

// Pushes job, acknowledging completions while its lane is full
func (instance *Instance) push(ctx context.Context, job dispatch.Job) (err error) {
	for {
		pushCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
		err = instance.lanes.Push(pushCtx, job)
		cancel()
		if err == nil || ctx.Err() != nil {
			return
		}
		instance.drainCompletions(ctx)
	}
}

// Work file fully consumed and acknowledged. It is removed unless some
// records were not delivered, in which case it is reopened after the retry
// delay so only those records replay.
func (instance *Instance) finish(ctx context.Context) {
	undelivered := instance.undelivered.Load()
	if undelivered > 0 {
		err := instance.release(false)
		if err != nil {
			logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog, "%v\n", err)
		}
		instance.Metrics.FilesReplayed.Add(1)
		logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog,
			"%d records in %s were not delivered, replaying in %s\n", undelivered, instance.config.WorkFile, instance.config.RetryDelay)
		instance.sleep(ctx, instance.config.RetryDelay)
		return
	}

	err := instance.release(true)
	if err != nil {
		logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog, "%v\n", err)
		return
	}
	instance.Metrics.FilesCompleted.Add(1)
	logctx.LogEvent(ctx, global.VerbosityStandard, global.InfoLog,
		"Finished %s\n", instance.config.WorkFile)
}

// Drops the stream after an I/O failure and waits before reopening.
// Records not yet marked Done are replayed from the work file.
func (instance *Instance) fatal(ctx context.Context, err error) {
	instance.Metrics.FatalErrors.Add(1)
	logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog,
		"detail stream failed, reopening in %s: %v\n", instance.config.RetryDelay, err)

	closeErr := instance.release(false)
	if closeErr != nil {
		logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog, "%v\n", closeErr)
	}
	instance.sleep(ctx, instance.config.RetryDelay)
}

func (instance *Instance) sleep(ctx context.Context, delay time.Duration) {
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
