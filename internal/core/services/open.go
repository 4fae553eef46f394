package services

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// Operating system identifiers.
const (
	osDarwin  = "darwin"
	osLinux   = "linux"
	osWindows = "windows"
)

// openURL opens a path or URL with the system default handler.
// Replaced in tests.
var openURL = func(target string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case osDarwin:
		cmd = exec.Command("open", target)
	case osLinux:
		cmd = exec.Command("xdg-open", target)
	case osWindows:
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", target)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}

// openableTarget turns a stored document URI into something the desktop
// can open: file URIs become plain paths, everything else passes through.
func openableTarget(uri string) string {
	return strings.TrimPrefix(uri, "file://")
}
