package cmd

import (
	"os"
	"runtime"
)

// ANSI color codes for terminal output of the non-TUI commands.
// Cleared in init() when the terminal cannot take them.
var (
	colorYellow = "\033[0;33m"
	colorCyan   = "\033[0;36m"
	colorDim    = "\033[2m"
	colorBold   = "\033[1m"
	colorReset  = "\033[0m"
)

func init() {
	if shouldDisableColors() {
		colorYellow = ""
		colorCyan = ""
		colorDim = ""
		colorBold = ""
		colorReset = ""
	}
}

func shouldDisableColors() bool {
	// Check NO_COLOR environment variable (https://no-color.org/)
	if os.Getenv("NO_COLOR") != "" {
		return true
	}

	if os.Getenv("TERM") == "dumb" {
		return true
	}

	// On Windows, check if ANSI is supported
	if runtime.GOOS == "windows" {
		if os.Getenv("WT_SESSION") != "" {
			return false // Windows Terminal supports ANSI
		}
		if os.Getenv("TERM_PROGRAM") != "" {
			return false // Modern terminal emulator
		}
		return os.Getenv("ANSICON") == "" && os.Getenv("ConEmuANSI") != "ON"
	}

	return false
}
