package install

import (
	"detailq/internal/global"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Type=notify-reload matches the RELOADING=1/READY=1 pair sent on SIGHUP
const unitTemplate string = `[Unit]
Description=Detail file queue
Documentation=man:detailq(1)
After=network-online.target
Wants=network-online.target

[Service]
Type=notify-reload
ExecStart=$executableFilePath run --config $configFilePath
Restart=on-failure
RestartSec=5s
TimeoutStopSec=30s
NoNewPrivileges=true
ProtectSystem=full
PrivateTmp=true

[Install]
WantedBy=multi-user.target
`

func renderUnit(executablePath, configPath string) (unit string) {
	unit = strings.Replace(unitTemplate, "$executableFilePath", executablePath, 1)
	unit = strings.Replace(unit, "$configFilePath", configPath, 1)
	return
}

func installService(configPath string) (err error) {
	unitName := filepath.Base(global.DefaultUnitPath)

	err = os.WriteFile(global.DefaultUnitPath, []byte(renderUnit(global.DefaultBinaryPath, configPath)), 0644)
	if err != nil {
		return
	}

	// Reload for new unit file
	output, err := systemctl("daemon-reload")
	if err != nil {
		err = fmt.Errorf("failed to reload systemd units: %w: %s", err, output)
		return
	}

	// Disabled status is exit code 1
	output, err = systemctl("is-enabled", unitName)
	if err != nil && !strings.Contains(output, "disabled") {
		err = fmt.Errorf("failed to check systemd service enablement status: %w: %s", err, output)
		return
	}
	err = nil

	if strings.ToLower(output) != "enabled" {
		output, err = systemctl("enable", unitName)
		if err != nil {
			err = fmt.Errorf("failed to enable systemd service: %w: %s", err, output)
			return
		}
	}

	fmt.Printf("Successfully installed Systemd service\n")
	fmt.Printf("  IMPORTANT: modify the configuration to your needs and start the service with 'systemctl start %s'\n", unitName)
	return
}

func uninstallService() (err error) {
	unitName := filepath.Base(global.DefaultUnitPath)

	// Disabled/not-found status is exit code != 0
	output, err := systemctl("is-enabled", unitName)
	if err != nil && !strings.Contains(output, "not-found") && !strings.Contains(output, "disabled") {
		err = fmt.Errorf("failed to check systemd service enablement status: %w: %s", err, output)
		return
	}
	err = nil

	if strings.ToLower(output) == "enabled" {
		output, err = systemctl("disable", "--now", unitName)
		if err != nil {
			err = fmt.Errorf("failed to disable systemd service: %w: %s", err, output)
			return
		}
	}

	err = os.Remove(global.DefaultUnitPath)
	if err != nil && !os.IsNotExist(err) {
		return
	}

	output, err = systemctl("daemon-reload")
	if err != nil {
		err = fmt.Errorf("failed to reload systemd units: %w: %s", err, output)
		return
	}

	fmt.Printf("Successfully removed Systemd service\n")
	return
}

// Runs systemctl, returning its trimmed combined output
func systemctl(args ...string) (output string, err error) {
	raw, err := exec.Command("systemctl", args...).CombinedOutput()
	output = strings.TrimSpace(string(raw))
	return
}
