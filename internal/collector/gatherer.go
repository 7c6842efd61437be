// Gathers component metrics into the central registry and Prometheus
package collector

import (
	"context"
	"detailq/internal/dispatch/manager"
	"detailq/internal/feed"
	"detailq/internal/global"
	"detailq/internal/logctx"
	"detailq/internal/metrics"
	"runtime/debug"
	"time"
)

func New(feedInst *feed.Instance, dispatchMgr *manager.InstanceManager, outputs []Source, interval time.Duration, maximumMetricAge time.Duration) (new *Gatherer) {
	new = &Gatherer{
		Registry:  metrics.New(),
		Exporter:  NewExporter(),
		Feed:      feedInst,
		Dispatch:  dispatchMgr,
		Outputs:   outputs,
		Interval:  interval,
		Retention: maximumMetricAge,
	}
	return
}

func (gatherer *Gatherer) Run(ctx context.Context) {
	ctx = logctx.AppendCtxTag(ctx, global.NSMetric)
	defer func() { ctx = logctx.RemoveLastCtxTag(ctx) }()

	// Tracking last interval run time
	lastRun := time.Now()

	ticker := time.NewTicker(gatherer.Interval / 2) // Use polling interval half of desired record interval
	defer ticker.Stop()

	// Counter to track how many ticks have passed (for retention)
	var tickCount int

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if now.Sub(lastRun) >= gatherer.Interval {
				timeSlice := gatherer.Registry.NewTimeSlice(now, gatherer.Interval)

				lastRun = now
				go gatherer.runIntervalTasks(ctx, timeSlice, gatherer.Interval)
			}

			// Conduct old metric evaluations and cleanup
			tickCount++
			if tickCount >= 30 {
				gatherer.Registry.Prune(now, gatherer.Retention)
				tickCount = 0
			}
		}
	}
}

// Read metrics from each pipeline component
func (gatherer *Gatherer) runIntervalTasks(ctx context.Context, timeSlice time.Time, interval time.Duration) {
	// Record panics and continue on next interval
	defer func() {
		if fatalError := recover(); fatalError != nil {
			stack := debug.Stack()
			logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog,
				"panic in metric collector thread: %v\n%s", fatalError, stack)
		}
	}()

	gatherer.Collect(timeSlice, interval)
}

// Collects one interval from every component
func (gatherer *Gatherer) Collect(timeSlice time.Time, interval time.Duration) {
	var collection []metrics.Metric

	if gatherer.Feed != nil {
		collection = append(collection, gatherer.Feed.CollectMetrics(interval)...)
	}
	if gatherer.Dispatch != nil {
		collection = append(collection, gatherer.Dispatch.CollectMetrics(interval)...)
	}
	for _, output := range gatherer.Outputs {
		if output == nil {
			continue
		}
		collection = append(collection, output.CollectMetrics(interval)...)
	}

	gatherer.Registry.Add(timeSlice, collection)
	gatherer.Exporter.Observe(collection)
}
