package cli

import "detailq/internal/global"

func DefineOptions() (cmdOpts *global.CommandSet) {
	// Root level
	root := &global.CommandSet{
		Description:     "Detail Queue (detailq)",
		FullDescription: "  Replays detail files through output workers and marks records done as they are delivered",
		CommandName:     RootCLICommand,
		ChildCommands:   make(map[string]*global.CommandSet),
	}

	root.ChildCommands["run"] = &global.CommandSet{
		CommandName:     "run",
		Description:     "Run Daemon",
		FullDescription: "Claims detail files, dispatches records to configured outputs, and acknowledges them in place",
	}

	root.ChildCommands["inspect"] = &global.CommandSet{
		CommandName:     "inspect",
		UsageOption:     "<detail file>",
		Description:     "Inspect Detail File",
		FullDescription: "Lists every record in a detail file with its offset, length and delivery status",
	}

	root.ChildCommands["append"] = &global.CommandSet{
		CommandName:     "append",
		UsageOption:     "<detail file>",
		Description:     "Append Record",
		FullDescription: "Writes one record to the end of a detail file",
	}

	root.ChildCommands["configure"] = &global.CommandSet{
		CommandName:     "configure",
		Description:     "Setup Actions",
		FullDescription: "Install or remove the service, or write a template configuration",
	}

	// Version Info
	root.ChildCommands["version"] = &global.CommandSet{
		CommandName:     "version",
		Description:     "Show Version Information",
		FullDescription: "Display meta information about program",
	}

	cmdOpts = root
	return
}
