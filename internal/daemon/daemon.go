// Daemon that claims detail files, dispatches their records to output
// workers and writes acknowledgments back as records are delivered
package daemon

import (
	"context"
	"detailq/internal/atomics"
	"detailq/internal/collector"
	"detailq/internal/dispatch"
	"detailq/internal/dispatch/manager"
	"detailq/internal/externalio/beats"
	"detailq/internal/externalio/file"
	"detailq/internal/externalio/journald"
	"detailq/internal/externalio/kafka"
	"detailq/internal/externalio/server"
	"detailq/internal/externalio/stdout"
	"detailq/internal/feed"
	"detailq/internal/global"
	"detailq/internal/logctx"
	"detailq/internal/queue/mpmc"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"
)

// Approximate queued job footprint excluding its payload
const jobOverhead uint64 = 128

// Create new daemon instance
func NewDaemon(cfg Config) (new *Daemon) {
	ctx, cancel := context.WithCancel(context.Background())
	new = &Daemon{
		cfg:    cfg,
		ctx:    ctx,
		cancel: cancel,
	}
	return
}

// Starts pipeline threads in background - gracefully shuts down if startup error is encountered
func (daemon *Daemon) Start(globalCtx context.Context) (err error) {
	// New context for the daemon
	daemon.ctx, daemon.cancel = context.WithCancel(context.Background())
	daemon.ctx = logctx.WithLogger(daemon.ctx, logctx.GetLogger(globalCtx))

	// Top level tag for daemon logs
	daemon.ctx = logctx.AppendCtxTag(daemon.ctx, global.NSDaemon)

	logctx.LogEvent(daemon.ctx, global.VerbosityStandard, global.InfoLog, "Starting...\n")

	daemon.cfg.setDefaults()
	if daemon.cfg.Verbosity >= 0 {
		logctx.SetLogLevel(daemon.ctx, daemon.cfg.Verbosity)
	}

	global.Hostname, err = os.Hostname()
	if err != nil {
		err = fmt.Errorf("failed to determine local hostname: %w", err)
		return
	}
	global.PID = os.Getpid()

	namespace := logctx.GetTagList(daemon.ctx)

	// Stage 3 - Outputs
	err = daemon.openOutputs(namespace)
	if err != nil {
		daemon.closeOutputs()
		return
	}

	// Stage 2 - Dispatch lanes and workers
	laneCapacity := mpmc.CapacityFor(jobOverhead+uint64(daemon.cfg.MaxRecordSize), daemon.cfg.MinQueueSize, daemon.cfg.MaxQueueSize)
	daemon.Lanes, err = dispatch.NewLanes(namespace, laneCapacity)
	if err != nil {
		err = fmt.Errorf("error creating dispatch lanes: %w", err)
		daemon.closeOutputs()
		return
	}

	// Sized so every queued job plus one per worker can complete without blocking
	completions := make(chan dispatch.Completion, 4*int(laneCapacity)+daemon.cfg.MaxWorkers)

	daemon.Dispatch, err = manager.NewInstanceManager(daemon.ctx,
		daemon.Lanes,
		daemon.Outputs,
		completions,
		daemon.cfg.MinWorkers,
		daemon.cfg.MaxWorkers)
	if err != nil {
		err = fmt.Errorf("error creating dispatch instance manager: %w", err)
		daemon.closeOutputs()
		return
	}
	daemon.Dispatch.Start()

	// Stage 1 - Feed
	daemon.Feed, err = feed.New(namespace, feed.Config{
		Glob:            daemon.cfg.DetailGlob,
		WorkFile:        daemon.cfg.WorkFile,
		PollInterval:    daemon.cfg.PollInterval,
		RetryDelay:      daemon.cfg.RetryDelay,
		AckDrainTimeout: daemon.cfg.AckDrainTimeout,
		BufferSize:      daemon.cfg.BufferSize,
		MaxRecordSize:   daemon.cfg.MaxRecordSize,
		Priorities:      daemon.cfg.Priorities,
	}, daemon.Lanes, completions)
	if err != nil {
		err = fmt.Errorf("error creating detail feed: %w", err)
		daemon.Shutdown()
		return
	}

	var feedCtx context.Context
	feedCtx, daemon.feedCancel = context.WithCancel(daemon.ctx)
	feedCtx = logctx.OverwriteCtxTag(feedCtx, daemon.Feed.Namespace)
	daemon.feedDone = make(chan struct{})
	go func() {
		defer close(daemon.feedDone)
		daemon.Feed.Run(feedCtx)
	}()

	// Autoscaler
	if daemon.cfg.MaxWorkers > daemon.cfg.MinWorkers {
		workerCtx := logctx.AppendCtxTag(daemon.ctx, global.NSDispatch)
		daemon.wg.Add(1)
		go func() {
			defer daemon.wg.Done()
			daemon.runScaler(workerCtx)
		}()
	}

	// Metrics Collector
	sources := make([]collector.Source, 0, len(daemon.Outputs))
	for _, output := range daemon.Outputs {
		source, ok := output.(collector.Source)
		if ok {
			sources = append(sources, source)
		}
	}
	daemon.metricsCollector = collector.New(daemon.Feed,
		daemon.Dispatch,
		sources,
		daemon.cfg.MetricCollectionInterval,
		daemon.cfg.MetricMaxAge)
	collectorCtx := daemon.ctx
	daemon.wg.Add(1)
	go func() {
		defer daemon.wg.Done()
		daemon.metricsCollector.Run(collectorCtx)
	}()

	// Metric Server
	if daemon.cfg.MetricQueryServerEnabled {
		serverCtx := logctx.AppendCtxTag(daemon.ctx, global.NSMetric)
		serverCtx = logctx.AppendCtxTag(serverCtx, global.NSMetricSrv)

		registry := daemon.metricsCollector.Registry
		daemon.MetricServer, err = server.SetupListener(serverCtx,
			daemon.cfg.MetricQueryServerPort,
			registry.Search,
			registry.Discover,
			registry.Aggregate,
			daemon.metricsCollector.Exporter.Registry)
		if err != nil {
			err = fmt.Errorf("error creating metric server: %w", err)
			daemon.Shutdown()
			return
		}
		daemon.wg.Add(1)
		go func() {
			defer daemon.wg.Done()
			server.Start(serverCtx, daemon.MetricServer)
		}()
	}

	logctx.LogEvent(daemon.ctx, global.VerbosityStandard, global.InfoLog, "Startup complete.\n")
	return
}

// Opens every configured output, at least one is required
func (daemon *Daemon) openOutputs(namespace []string) (err error) {
	outNamespace := append(append([]string{}, namespace...), global.NSOut)

	fileOut, err := file.NewOutput(outNamespace, daemon.cfg.FilePath, daemon.cfg.FileBatchSize)
	if err != nil {
		return
	}
	if fileOut != nil {
		daemon.Outputs = append(daemon.Outputs, fileOut)
	}

	if daemon.cfg.StdoutEnabled {
		daemon.Outputs = append(daemon.Outputs, stdout.NewOutput(outNamespace, os.Stdout))
	}

	beatsOut, err := beats.NewOutput(outNamespace, daemon.cfg.BeatsEndpoint, daemon.cfg.BeatsTimeout)
	if err != nil {
		err = fmt.Errorf("failed to connect beats output: %w", err)
		return
	}
	if beatsOut != nil {
		daemon.Outputs = append(daemon.Outputs, beatsOut)
	}

	kafkaOut, err := kafka.NewOutput(outNamespace, daemon.cfg.KafkaBrokers, daemon.cfg.KafkaTopic)
	if err != nil {
		err = fmt.Errorf("failed to create kafka output: %w", err)
		return
	}
	if kafkaOut != nil {
		daemon.Outputs = append(daemon.Outputs, kafkaOut)
	}

	journalOut, err := journald.NewOutput(outNamespace, daemon.cfg.JournalURL, daemon.cfg.JournalFacility)
	if err != nil {
		err = fmt.Errorf("failed to connect journald output: %w", err)
		return
	}
	if journalOut != nil {
		daemon.Outputs = append(daemon.Outputs, journalOut)
	}

	if len(daemon.Outputs) == 0 {
		err = fmt.Errorf("no outputs configured")
		return
	}
	for _, output := range daemon.Outputs {
		logctx.LogEvent(daemon.ctx, global.VerbosityProgress, global.InfoLog, "Output enabled: %s\n", output.Name())
	}
	return
}

// Periodically resizes the worker pool
func (daemon *Daemon) runScaler(ctx context.Context) {
	ticker := time.NewTicker(daemon.cfg.ScaleInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			daemon.Dispatch.Scale(ctx)
		}
	}
}

// Blocking daemon waiter
func (daemon *Daemon) Run() {
	<-daemon.ctx.Done()
}

// Picks up new detail files immediately and flushes buffered output
func (daemon *Daemon) Reload(ctx context.Context) (err error) {
	if daemon.Feed != nil {
		daemon.Feed.Rescan()
	}

	var flushErrs []error
	for _, output := range daemon.Outputs {
		flushErr := output.Flush()
		if flushErr != nil {
			flushErrs = append(flushErrs, fmt.Errorf("%s: %w", output.Name(), flushErr))
		}
	}
	err = errors.Join(flushErrs...)
	if err == nil {
		logctx.LogEvent(ctx, global.VerbosityStandard, global.InfoLog, "Reload complete\n")
	}
	return
}

// Gracefully shutdown pipeline threads. Records read but not acknowledged
// in time stay in the work file and are replayed on the next start.
func (daemon *Daemon) Shutdown() {
	daemon.shutdownOnce.Do(daemon.shutdown)
}

func (daemon *Daemon) shutdown() {
	logctx.LogEvent(daemon.ctx, global.VerbosityStandard, global.InfoLog,
		"Daemon shutdown started...\n")

	// Stop metric server
	if daemon.MetricServer != nil {
		serverCtx, cancel := context.WithTimeout(daemon.ctx, global.HTTPWriteTimeout)
		err := daemon.MetricServer.Shutdown(serverCtx)
		cancel()
		if err != nil && err != http.ErrServerClosed {
			logctx.LogEvent(daemon.ctx, global.VerbosityStandard, global.WarnLog,
				"metric HTTP server did not shutdown gracefully: %v\n", err)
		}
	}

	// Stop reading, feed waits for outstanding acknowledgments itself
	if daemon.feedCancel != nil {
		daemon.feedCancel()
		<-daemon.feedDone
	}

	// Stop workers once nothing is in flight
	if daemon.Dispatch != nil {
		success, last := atomics.WaitUntilZero(daemon.ctx, &daemon.Lanes.InFlight, time.Second)
		if !success {
			logctx.LogEvent(daemon.ctx, global.VerbosityStandard, global.WarnLog,
				"dispatch lanes did not empty in time: %d records will replay on restart\n", last)
		}
		daemon.Dispatch.Shutdown()
	}

	daemon.closeOutputs()

	// Stop the run loop after instances are drained and stopped
	daemon.cancel()

	// Wait for all workers to finish (with timeout)
	done := make(chan struct{})
	go func() {
		daemon.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logctx.LogEvent(daemon.ctx, global.VerbosityStandard, global.InfoLog,
			"Daemon shutdown completed successfully\n")
	case <-time.After(global.ShutdownTimeout):
		logctx.LogEvent(daemon.ctx, global.VerbosityStandard, global.WarnLog,
			"Timeout: daemon did not shutdown within %v seconds\n", global.ShutdownTimeout.Seconds())
	}
}

func (daemon *Daemon) closeOutputs() {
	for _, output := range daemon.Outputs {
		err := output.Flush()
		if err != nil {
			logctx.LogEvent(daemon.ctx, global.VerbosityStandard, global.WarnLog,
				"failed to flush output %s: %v\n", output.Name(), err)
		}
		err = output.Shutdown()
		if err != nil {
			logctx.LogEvent(daemon.ctx, global.VerbosityStandard, global.WarnLog,
				"failed to close output %s: %v\n", output.Name(), err)
		}
	}
	daemon.Outputs = nil
}
