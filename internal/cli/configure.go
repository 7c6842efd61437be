package cli

import (
	"detailq/internal/global"
	"detailq/internal/install"
	"flag"
	"fmt"
	"os"
)

func ConfigureMode(commandname string, args []string) {
	var configPath string
	var installAll, uninstallAll, templateOnly bool

	commandFlags := flag.NewFlagSet(commandname, flag.ExitOnError)
	SetGlobalArguments(commandFlags)
	SetCommon(commandFlags, &configPath)
	commandFlags.BoolVar(&installAll, "install", false, "Install binary, template config and systemd service")
	commandFlags.BoolVar(&uninstallAll, "uninstall", false, "Remove binary, config and systemd service")
	commandFlags.BoolVar(&templateOnly, "t", false, "Write a template config to the config path")
	commandFlags.BoolVar(&templateOnly, "template", false, "Write a template config to the config path")

	commandFlags.Usage = func() {
		PrintHelpMenu(commandFlags, commandname, global.CmdOpts)
	}
	if len(args) < 1 {
		PrintHelpMenu(commandFlags, commandname, global.CmdOpts)
		os.Exit(1)
	}
	commandFlags.Parse(args)

	switch {
	case installAll:
		install.Run(configPath)
	case uninstallAll:
		install.Remove(configPath)
	case templateOnly:
		err := install.CreateTemplateConfig(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote template configuration to '%s'\n", configPath)
	default:
		PrintHelpMenu(commandFlags, commandname, global.CmdOpts)
		os.Exit(1)
	}
}
