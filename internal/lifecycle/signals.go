package lifecycle

import (
	"context"
	"detailq/internal/global"
	"detailq/internal/logctx"
	"os"
	"os/signal"
	"syscall"
)

type DaemonLike interface {
	Reload(context.Context) (err error)
	Shutdown()
}

// Handles all incoming signals from external sources. SIGHUP reloads the
// daemon in place, every other handled signal shuts it down and returns.
func SignalHandler(ctx context.Context, daemonManager DaemonLike) {
	sigChan := make(chan os.Signal, 10)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigChan)

	for {
		var sig os.Signal
		select {
		case <-ctx.Done():
			return
		case sig = <-sigChan:
		}
		logctx.LogEvent(ctx, global.VerbosityStandard, global.InfoLog, "Received signal: %v\n", sig)

		if !handleSignal(ctx, sig, daemonManager) {
			return
		}
	}
}

// Returns false once the daemon has been shut down
func handleSignal(ctx context.Context, sig os.Signal, daemonManager DaemonLike) (keepRunning bool) {
	recvSignal, ok := sig.(syscall.Signal)
	if !ok {
		logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog, "Failed to type assert received signal: %v\n", sig)
		keepRunning = true
		return
	}

	if recvSignal == syscall.SIGHUP {
		logctx.LogEvent(ctx, global.VerbosityStandard, global.InfoLog, "Beginning reload...\n")
		err := NotifyReload(ctx)
		if err != nil {
			logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog, "Systemd notify reload failed: %v\n", err)
		}

		err = daemonManager.Reload(ctx)
		if err != nil {
			logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog, "Reload error: %v\n", err)
			err = NotifyStatus(ctx, "Reload failed due to internal error. Check daemon logs.")
			if err != nil {
				logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog, "Systemd notify status failed: %v\n", err)
			}
		}

		err = NotifyReady(ctx)
		if err != nil {
			logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog, "Systemd notify ready failed: %v\n", err)
		}
		keepRunning = true
		return
	}

	err := NotifyStopping(ctx)
	if err != nil {
		logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog, "Systemd notify stopping failed: %v\n", err)
	}

	daemonManager.Shutdown()

	logger := logctx.GetLogger(ctx)
	if logger != nil {
		logger.Wake()
	}
	return
}
