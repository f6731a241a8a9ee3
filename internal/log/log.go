// Package log provides JSON-lines structured logging for the viewer.
// The terminal belongs to the presentation surface, so logs go to a file;
// logging failures never interrupt playback.
package log

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Config configures the structured logger.
type Config struct {
	// Output is the writer for log output (default: io.Discard)
	Output io.Writer

	// Level is the minimum log level (default: LevelInfo)
	Level slog.Level

	// Debug enables debug level logging (overrides Level)
	Debug bool
}

// DefaultConfig returns the default logging configuration.
func DefaultConfig() *Config {
	return &Config{
		Output: io.Discard,
		Level:  slog.LevelInfo,
		Debug:  false,
	}
}

// New creates a new JSON-lines structured logger. Log format is:
//
//	{"ts":"2026-08-25T10:30:00Z","level":"info","msg":"viewer started","version":"1.2.0","pid":12345}
//
// Log levels:
//   - debug: Verbose (enabled via VITRINE_DEBUG=1)
//   - info: Startup, shutdown, unit selection, variation changes
//   - warn: Non-fatal issues (image load failures, excluded units)
//   - error: Issues requiring attention
func New(cfg *Config) *slog.Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	output := cfg.Output
	if output == nil {
		output = io.Discard
	}

	level := cfg.Level
	if cfg.Debug {
		level = slog.LevelDebug
	}

	// Create JSON handler with timestamp formatted as "ts"
	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Rename "time" to "ts"
			if a.Key == slog.TimeKey {
				a.Key = "ts"
			}
			return a
		},
	}

	handler := slog.NewJSONHandler(output, opts)
	return slog.New(handler)
}

// OpenFile creates a logger appending JSON lines to path, creating the
// parent directory if needed. On failure it returns a discard logger and
// the error; callers may report it but the viewer runs regardless.
// The returned closer is nil when no file was opened.
func OpenFile(path string, debug bool) (*slog.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return Discard(), nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return Discard(), nil, err
	}
	return New(&Config{Output: f, Debug: debug}), f, nil
}

// NewFromEnv creates a stderr logger configured from environment variables.
// VITRINE_DEBUG=1 enables debug logging. Intended for non-TUI commands.
func NewFromEnv() *slog.Logger {
	cfg := DefaultConfig()
	cfg.Output = os.Stderr
	if os.Getenv("VITRINE_DEBUG") == "1" {
		cfg.Debug = true
	}
	return New(cfg)
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// NewSessionID returns a fresh id attached to every record of one
// viewer session.
func NewSessionID() string {
	return uuid.New().String()
}

// StartupInfo holds information to log at viewer startup.
type StartupInfo struct {
	Version    string
	GitCommit  string
	ConfigPath string
	SiteDir    string
	Units      int
	Excluded   int
	PID        int
}

// LogStartup logs viewer startup information.
func LogStartup(logger *slog.Logger, info StartupInfo) {
	logger.Info("viewer started",
		"version", info.Version,
		"git_commit", info.GitCommit,
		"config_path", info.ConfigPath,
		"site_dir", info.SiteDir,
		"units", info.Units,
		"excluded_units", info.Excluded,
		"pid", info.PID,
	)
}

// LogShutdown logs viewer shutdown.
func LogShutdown(logger *slog.Logger, reason string) {
	logger.Info("viewer shutting down", "reason", reason)
}

// LogUnitSelected logs the unit selector's choice.
func LogUnitSelected(logger *slog.Logger, slug string, variations int, cause string) {
	logger.Info("unit selected",
		"slug", slug,
		"variations", variations,
		"cause", cause,
	)
}

// LogUnitExcluded logs a manifest unit excluded from selection.
func LogUnitExcluded(logger *slog.Logger, slug string, reason string) {
	logger.Warn("unit excluded", "slug", slug, "reason", reason)
}

// LogVariationShown logs the variation now on screen. Emitted when a
// cross-fade starts and again on forced resyncs (resume), so the log
// mirrors what dependent UI shows.
func LogVariationShown(logger *slog.Logger, slug string, index, total int, style string) {
	logger.Info("variation showing",
		"slug", slug,
		"index", index,
		"total", total,
		"style", style,
	)
}

// LogTransitionStarted logs the start of a cross-fade.
func LogTransitionStarted(logger *slog.Logger, slug string, from, to int, cause string) {
	logger.Debug("transition started",
		"slug", slug,
		"from", from,
		"to", to,
		"cause", cause,
	)
}

// LogImageLoadFailed logs a failed artwork load. The cycle skips the
// variation; this is the only trace it leaves.
func LogImageLoadFailed(logger *slog.Logger, path string, err error) {
	logger.Warn("image load failed", "path", path, "error", err)
}

// LogPauseChanged logs pause/resume flips with their cause.
func LogPauseChanged(logger *slog.Logger, paused bool, cause string) {
	logger.Info("pause changed", "paused", paused, "cause", cause)
}

// LogConfigWarning logs a configuration value that was fixed at load.
func LogConfigWarning(logger *slog.Logger, field, message string) {
	logger.Warn("config value fixed", "field", field, "message", message)
}

// LogOpenCommand logs an external open command invocation.
func LogOpenCommand(logger *slog.Logger, command string, err error) {
	if err != nil {
		logger.Warn("open command failed", "command", command, "error", err)
		return
	}
	logger.Info("open command launched", "command", command)
}
