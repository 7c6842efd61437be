// Handles installation of the binary, template config and systemd service
package install

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// Full installation (idempotent)
func Run(configPath string) {
	// Must run as root
	if os.Geteuid() != 0 {
		fmt.Fprintf(os.Stderr, "Installation must be run as root\n")
		os.Exit(1)
	}

	// Move binary (self) into place
	err := installBinary()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error installing binary: %v\n", err)
		os.Exit(1)
	}

	// Create template config
	err = installConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error with template config: %v\n", err)
		os.Exit(1)
	}

	// Create systemd service
	err = installService(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error with Systemd service: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Installation completed successfully\n")
}

// Full uninstall. Detail files and the work file are left in place.
func Remove(configPath string) {
	if !confirm("Are you SURE you want to uninstall? (this will remove the configuration file) (yes/no): ") {
		fmt.Printf("Aborting uninstall\n")
		return
	}

	// Must run as root
	if os.Geteuid() != 0 {
		fmt.Fprintf(os.Stderr, "Uninstall must be run as root\n")
		os.Exit(1)
	}

	err := uninstallService()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error with Systemd service: %v\n", err)
	}

	err = uninstallBinary()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error removing binary: %v\n", err)
	}

	err = os.Remove(configPath)
	if err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error removing configuration file: %v\n", err)
	}
}

// Asks on the terminal, anything but "yes" declines. Without a terminal
// there is nobody to ask and the answer is yes.
func confirm(prompt string) (accepted bool) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		accepted = true
		return
	}

	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	accepted = strings.ToLower(strings.TrimSpace(input)) == "yes"
	return
}
