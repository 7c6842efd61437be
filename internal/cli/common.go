package cli

import (
	"detailq/internal/global"
	"flag"
)

func SetGlobalArguments(fs *flag.FlagSet) (logLevel *int) {
	logLevel = &global.Verbosity
	fs.IntVar(logLevel, "v", 1, "Increase detailed progress messages (Higher is more verbose) <0...5>")
	fs.IntVar(logLevel, "verbosity", 1, "Increase detailed progress messages (Higher is more verbose) <0...5>")
	return
}

func SetCommon(fs *flag.FlagSet, configPath *string) {
	fs.StringVar(configPath, "c", global.DefaultConfigPath, "Path to the configuration file")
	fs.StringVar(configPath, "config", global.DefaultConfigPath, "Path to the configuration file")
}
