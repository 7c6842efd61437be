// Processes dispatched records: parse, deliver to outputs, hand back the token
package worker

import (
	"context"
	"detailq/internal/dispatch"
	"detailq/internal/externalio"
	"detailq/internal/global"
	"detailq/internal/logctx"
	"detailq/pkg/record"
	"runtime/debug"
	"strconv"
	"time"
)

func New(namespace []string, id int, lanes *dispatch.Lanes, outputs []externalio.Output, completions chan<- dispatch.Completion) (new *Instance) {
	new = &Instance{
		Namespace:   append(append([]string{}, namespace...), global.NSWorker, strconv.Itoa(id)),
		id:          id,
		lanes:       lanes,
		outputs:     outputs,
		completions: completions,
		Metrics:     &MetricStorage{},
	}
	return
}

func (instance *Instance) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		job, ok := instance.lanes.Pop(ctx)
		if !ok {
			continue
		}

		reply := instance.safeProcess(ctx, job)

		select {
		case instance.completions <- dispatch.Completion{Token: job.Token, Reply: reply}:
		case <-ctx.Done():
			logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog,
				"shutdown before completion of record at offset %d could be returned, it will be replayed\n", job.Offset)
		}
		instance.lanes.Finish()
	}
}

// Any panic in processing answers the job with do-not-respond
func (instance *Instance) safeProcess(ctx context.Context, job dispatch.Job) (reply []byte) {
	reply = dispatch.ReplyNoResponse

	defer func() {
		if fatalError := recover(); fatalError != nil {
			stack := debug.Stack()
			logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog,
				"panic in dispatch worker thread: %v\n%s", fatalError, stack)
			instance.Metrics.Failed.Add(1)
		}
	}()

	reply = instance.process(ctx, job)
	return
}

func (instance *Instance) process(ctx context.Context, job dispatch.Job) (reply []byte) {
	start := time.Now()
	defer func() {
		elapsed := uint64(time.Since(start).Nanoseconds())
		instance.Metrics.ProcessTimeNs.Add(elapsed)
		maxSeen := instance.Metrics.MaxProcessNs.Load()
		if elapsed > maxSeen {
			instance.Metrics.MaxProcessNs.CompareAndSwap(maxSeen, elapsed)
		}
	}()

	instance.Metrics.Processed.Add(1)
	instance.Metrics.BytesIn.Add(uint64(len(job.Payload)))

	rec, err := record.Parse(job.Payload)
	if err != nil {
		instance.Metrics.ParseErrors.Add(1)
		instance.Metrics.Failed.Add(1)
		logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog,
			"record at offset %d in %s is malformed: %v\n", job.Offset, job.Source, err)
		reply = dispatch.ReplyNoResponse
		return
	}

	delivery := externalio.Delivery{
		Record:     rec,
		Source:     job.Source,
		Offset:     job.Offset,
		Length:     len(job.Payload),
		Priority:   job.Priority.String(),
		ReceivedAt: job.ReadAt,
	}

	logctx.LogEvent(ctx, global.VerbosityData, global.InfoLog,
		"delivering %q (%s priority) from offset %d\n", rec.Header, delivery.Priority, job.Offset)

	failures := 0
	for _, output := range instance.outputs {
		writeCtx, cancel := context.WithTimeout(ctx, global.OutputWriteTimeout)
		err = output.Write(writeCtx, delivery)
		cancel()
		if err != nil {
			failures++
			instance.Metrics.OutputErrors.Add(1)
			logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog,
				"failed delivering record at offset %d to %s: %v\n", job.Offset, output.Name(), err)
		}
	}

	if failures > 0 {
		instance.Metrics.Failed.Add(1)
		reply = dispatch.ReplyNoResponse
		return
	}

	instance.Metrics.Delivered.Add(1)
	reply = dispatch.ReplyDone
	return
}
