//go:build !windows

package cmd

import (
	"os"

	"golang.org/x/sys/unix"
)

// termSize returns the terminal's size via ioctl, or 0,0 when it
// cannot be determined. Callers skip size checks on 0.
func termSize(f *os.File) (cols, rows int) {
	ws, err := unix.IoctlGetWinsize(int(f.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return 0, 0
	}
	return int(ws.Col), int(ws.Row)
}
