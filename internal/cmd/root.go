// Package cmd wires the vitrine command line: the viewer itself plus
// the small maintenance commands around it.
package cmd

import (
	"errors"

	"github.com/spf13/cobra"
)

// Exit codes. Environment problems (no tty, hostile TERM, tiny
// terminal) are distinguished so wrappers can tell "fix your setup"
// from "vitrine broke".
const (
	exitOK  = 0
	exitErr = 1
	exitEnv = 2
)

var rootCmd = &cobra.Command{
	Use:   "vitrine [dir]",
	Short: "ambient viewer for a generated-art site build",
	Long: `vitrine - ambient viewer for a generated-art site build
  plays curated passages over their artwork variations
  as a slow full-screen carousel`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

// Execute runs the root command and maps errors to exit codes.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		var envErr *environmentError
		if errors.As(err, &envErr) {
			return exitEnv
		}
		return exitErr
	}
	return exitOK
}

// environmentError marks failures a shell wrapper should treat as
// "this terminal cannot run the viewer" rather than a crash.
type environmentError struct {
	msg string
}

func (e *environmentError) Error() string {
	return e.msg
}

func init() {
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().BoolVar(&flagReducedMotion, "reduced-motion", false,
		"disable ambient drift and shorten fades")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "",
		"append JSON logs to this file instead of the default")
}
