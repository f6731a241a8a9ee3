//go:build !windows

// Package expect provides pty-level smoke tests for the vitrine viewer
// using go-expect.
//
// It wraps the Netflix go-expect library so tests can launch the real
// binary on a pseudo-terminal, watch its output, and press keys the way
// a person would.
package expect

import (
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"syscall"
	"testing"
	"time"

	expect "github.com/Netflix/go-expect"
	"github.com/creack/pty"
)

// Key constants for special keys (ANSI escape sequences)
const (
	KeyRight  = "\x1b[C"
	KeyLeft   = "\x1b[D"
	KeyUp     = "\x1b[A"
	KeyDown   = "\x1b[B"
	KeyEscape = "\x1b"
	KeyEnter  = "\r"
	KeyCtrlC  = "\x03"
)

// ViewerSession wraps go-expect for driving a live viewer process.
type ViewerSession struct {
	Console *expect.Console
	Timeout time.Duration
	cmd     *exec.Cmd
}

// SessionOption configures a ViewerSession.
type SessionOption func(*sessionConfig)

type sessionConfig struct {
	timeout    time.Duration
	env        []string
	showOutput bool
	cols       uint16
	rows       uint16
}

// WithTimeout sets the default timeout for expect operations.
func WithTimeout(d time.Duration) SessionOption {
	return func(c *sessionConfig) {
		c.timeout = d
	}
}

// WithEnv adds environment variables to the viewer process.
func WithEnv(env ...string) SessionOption {
	return func(c *sessionConfig) {
		c.env = append(c.env, env...)
	}
}

// WithOutput enables output to stdout for debugging.
func WithOutput(show bool) SessionOption {
	return func(c *sessionConfig) {
		c.showOutput = show
	}
}

// WithSize sets the pty geometry. The default is 80x24.
func WithSize(cols, rows uint16) SessionOption {
	return func(c *sessionConfig) {
		c.cols, c.rows = cols, rows
	}
}

// NewViewer starts `vitrine show <siteDir>` on a fresh pseudo-terminal.
//
// The vitrine binary must be on PATH; use SkipIfViewerMissing in tests.
func NewViewer(siteDir string, opts ...SessionOption) (*ViewerSession, error) {
	cfg := &sessionConfig{
		timeout: 5 * time.Second,
		cols:    80,
		rows:    24,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	binPath, err := exec.LookPath("vitrine")
	if err != nil {
		return nil, fmt.Errorf("vitrine binary not found: %w", err)
	}

	var consoleOpts []expect.ConsoleOpt
	consoleOpts = append(consoleOpts, expect.WithDefaultTimeout(cfg.timeout))
	if cfg.showOutput {
		consoleOpts = append(consoleOpts, expect.WithStdout(os.Stdout))
	}

	console, err := expect.NewConsole(consoleOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create console: %w", err)
	}

	// go-expect leaves the pty at 0x0 and the viewer refuses terminals
	// smaller than 24x8, so give it a real geometry before starting.
	ws := &pty.Winsize{Rows: cfg.rows, Cols: cfg.cols}
	if err := pty.Setsize(console.Tty(), ws); err != nil {
		console.Close()
		return nil, fmt.Errorf("failed to size pty: %w", err)
	}

	cmd := exec.Command(binPath, "show", siteDir) //nolint:gosec // G204: binPath is from test config
	cmd.Stdin = console.Tty()
	cmd.Stdout = console.Tty()
	cmd.Stderr = console.Tty()
	// New session with the pty as controlling terminal, so the viewer's
	// /dev/tty open resolves to the console rather than the test runner's
	// terminal. Ctty 0 is the child's stdin, which is the pty slave.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true, Setctty: true}

	cmd.Env = os.Environ()
	cmd.Env = append(cmd.Env, cfg.env...)
	// Ensure TERM is set for proper terminal handling
	cmd.Env = append(cmd.Env, "TERM=xterm-256color")

	if err := cmd.Start(); err != nil {
		console.Close()
		return nil, fmt.Errorf("failed to start viewer: %w", err)
	}

	return &ViewerSession{
		Console: console,
		Timeout: cfg.timeout,
		cmd:     cmd,
	}, nil
}

// Send sends text to the viewer without a newline.
func (s *ViewerSession) Send(text string) error {
	_, err := s.Console.Send(text)
	return err
}

// SendKey sends a special key (use Key* constants).
func (s *ViewerSession) SendKey(key string) error {
	_, err := s.Console.Send(key)
	return err
}

// Expect waits for an exact string match in the output.
func (s *ViewerSession) Expect(str string) (string, error) {
	return s.Console.ExpectString(str)
}

// ExpectTimeout waits for an exact string match with a specific timeout.
func (s *ViewerSession) ExpectTimeout(str string, timeout time.Duration) (string, error) {
	return s.Console.Expect(expect.String(str), expect.WithTimeout(timeout))
}

// ExpectRegex waits for a regex pattern match in the output.
func (s *ViewerSession) ExpectRegex(pattern string) (string, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return "", fmt.Errorf("invalid regex: %w", err)
	}
	return s.Console.Expect(expect.Regexp(re))
}

// WaitExit waits for the viewer process to exit. It drains the pty in
// the background so the viewer can flush its final frames and the
// alt-screen teardown without blocking on a full buffer.
func (s *ViewerSession) WaitExit(timeout time.Duration) error {
	go s.Console.ExpectEOF() //nolint:errcheck // drain only

	done := make(chan error, 1)
	go func() { done <- s.cmd.Wait() }()

	select {
	case err := <-done:
		return err
	case <-time.After(timeout):
		return fmt.Errorf("viewer still running after %s", timeout)
	}
}

// Close terminates the viewer session.
func (s *ViewerSession) Close() error {
	// Ask the viewer to quit before tearing the pty down.
	s.Send("q")

	// Close the console (this closes the pty)
	if err := s.Console.Close(); err != nil {
		return err
	}

	// Wait for the process to exit
	if s.cmd != nil && s.cmd.Process != nil {
		s.cmd.Process.Kill()
		s.cmd.Wait()
	}

	return nil
}

// SkipIfViewerMissing skips the test if the vitrine binary is not on PATH.
func SkipIfViewerMissing(t interface{ Skip(args ...interface{}) }) {
	if _, err := exec.LookPath("vitrine"); err != nil {
		t.Skip("vitrine not available, skipping")
	}
}

// SkipIfShort skips the test if running in short mode.
func SkipIfShort(t *testing.T, reason string) {
	if testing.Short() {
		t.Skip("skipping in short mode: " + reason)
	}
}
