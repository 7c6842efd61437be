package main

import (
	"context"
	"detailq/internal/cli"
	"detailq/internal/global"
	"detailq/internal/logctx"
	"flag"
	"fmt"
	"os"
	"runtime"
)

func main() {
	global.CmdOpts = cli.DefineOptions()

	rootFlags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	logLevel := cli.SetGlobalArguments(rootFlags)
	rootFlags.Usage = func() {
		cli.PrintHelpMenu(rootFlags, cli.RootCLICommand, global.CmdOpts)
	}
	if len(os.Args) < 2 {
		rootFlags.Usage()
		os.Exit(1)
	}
	rootFlags.Parse(os.Args[1:])

	command, args := os.Args[1], os.Args[2:]

	// Events from every command go through one stdout watcher
	ctx, cancel := context.WithCancel(context.Background())
	ctx = logctx.New(ctx, "global", *logLevel, ctx.Done())
	logger := logctx.GetLogger(ctx)
	logctx.StartWatcher(logger, os.Stdout)

	switch command {
	case "run":
		cli.RunMode(ctx, command, args)
	case "inspect":
		cli.InspectMode(command, args)
	case "append":
		cli.AppendMode(command, args)
	case "configure":
		cli.ConfigureMode(command, args)
	case "version":
		printVersion(args)
	default:
		rootFlags.Usage()
		os.Exit(1)
	}

	// Drain queued events before exit
	cancel()
	logger.Wake()
	logger.Wait()
}

func printVersion(args []string) {
	fmt.Println(global.ProgVersion)
	if len(args) == 0 || (args[0] != "-v" && args[0] != "--verbosity") {
		return
	}
	fmt.Printf("Built using %s(%s) for %s on %s\n", runtime.Version(), runtime.Compiler, runtime.GOOS, runtime.GOARCH)
}
