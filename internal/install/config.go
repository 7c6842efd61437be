package install

import (
	"detailq/internal/daemon"
	"detailq/internal/global"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/term"
)

func installConfig(configFilePath string) (err error) {
	err = os.MkdirAll(filepath.Dir(configFilePath), 0755)
	if err != nil {
		err = fmt.Errorf("failed to create configuration directory: %w", err)
		return
	}

	// Don't overwrite existing
	_, err = os.Stat(configFilePath)
	if err == nil {
		// No terminal - no overwrite
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Printf("Existing configuration file present, not overwriting\n")
			return
		}
		if !confirm(fmt.Sprintf("Configuration file already exists at '%s'. Are you SURE you want to overwrite it? (yes/no): ", configFilePath)) {
			fmt.Printf("Not overwriting configuration file\n")
			return
		}
	}

	err = CreateTemplateConfig(configFilePath)
	if err != nil {
		return
	}

	fmt.Printf("Successfully wrote template configuration file to '%s'\n", configFilePath)
	return
}

// Template with every section filled in, outputs other than the file left disabled
func TemplateConfig() (newCfg daemon.JSONConfig) {
	newCfg.Detail.Filename = global.DefaultDetailGlob
	newCfg.Detail.PollInterval = global.DefaultPollInterval.String()
	newCfg.Detail.RetryDelay = global.DefaultRetryDelay.String()
	newCfg.Detail.AckDrainTimeout = global.AckDrainTimeout.String()
	newCfg.Detail.BufferSize = global.DefaultBufferSize
	newCfg.Detail.MaxRecordSize = global.DefaultMaxRecordSize
	newCfg.Detail.Priorities = map[string]string{
		"A": "high",
		"D": "low",
	}

	newCfg.Outputs.File.Path = "/var/log/detailq/delivered.log"
	newCfg.Outputs.File.BatchSize = 16
	newCfg.Outputs.Beats.Timeout = global.OutputWriteTimeout.String()
	newCfg.Outputs.Journald.Facility = "daemon"

	newCfg.Dispatch.MinWorkers = 2
	newCfg.Dispatch.MaxWorkers = 16
	newCfg.Dispatch.ScaleInterval = "5s"
	newCfg.Dispatch.MinQueueSize = global.DefaultMinQueueSize
	newCfg.Dispatch.MaxQueueSize = global.DefaultMaxQueueSize

	newCfg.Metrics.MaxAge = "72h"
	newCfg.Metrics.Interval = "5s"
	newCfg.Metrics.EnableQueryServer = true
	newCfg.Metrics.QueryServerPort = global.HTTPListenPort
	return
}

func CreateTemplateConfig(filepath string) (err error) {
	if filepath == "" {
		err = fmt.Errorf("specify template file path via the --config/-c arguments")
		return
	}

	confBytes, err := json.MarshalIndent(TemplateConfig(), "", "  ")
	if err != nil {
		err = fmt.Errorf("error marshaling new config: %w", err)
		return
	}
	confBytes = append(confBytes, '\n')

	err = os.WriteFile(filepath, confBytes, 0600)
	if err != nil {
		err = fmt.Errorf("failed to write config to file: %w", err)
		return
	}
	return
}
