package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/runger/vitrine/internal/carousel"
	"github.com/runger/vitrine/internal/config"
	vlog "github.com/runger/vitrine/internal/log"
	"github.com/runger/vitrine/internal/manifest"
)

// Smallest terminal the viewer starts in. Below this there is no room
// for even the text-only layout plus its status line.
const (
	minCols = 24
	minRows = 8
)

var (
	flagReducedMotion bool
	flagLogFile       string
)

var showCmd = &cobra.Command{
	Use:   "show [dir]",
	Short: "Run the viewer",
	Long: `Run the viewer over a site build directory.

The directory must contain content.json and the images/ tree it
references. Without an argument the configured site.dir is used.

The viewer takes the whole terminal until q or ctrl+c. Keys:
  space     next piece        ←/→  previous/next artwork
  esc or p  pause/resume      ↑/↓  first/last artwork
  i         details           o    open artwork externally`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	paths := config.DefaultPaths()
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if len(args) > 0 {
		cfg.Site.Dir = args[0]
	}
	if flagReducedMotion {
		cfg.Display.ReducedMotion = true
	}
	if flagLogFile != "" {
		cfg.Log.File = flagLogFile
	}

	if term := os.Getenv("TERM"); term == "" || term == "dumb" {
		return &environmentError{msg: fmt.Sprintf("TERM=%q cannot run the viewer", term)}
	}

	// The viewer draws on the controlling terminal so it keeps working
	// when stdout is redirected. Sessions without one (some CI ptys)
	// fall back to the std streams, provided those are a terminal.
	var in, out *os.File
	if tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0); err == nil {
		defer tty.Close()
		in, out = tty, tty
	} else if cols, _ := termSize(os.Stdout); cols > 0 {
		in, out = os.Stdin, os.Stdout
	} else {
		return &environmentError{msg: fmt.Sprintf("not a terminal: %v", err)}
	}

	if cols, rows := termSize(out); cols > 0 && (cols < minCols || rows < minRows) {
		return &environmentError{msg: fmt.Sprintf("terminal is %dx%d, the viewer needs at least %dx%d", cols, rows, minCols, minRows)}
	}

	logPath := cfg.Log.File
	if logPath == "" {
		logPath = paths.LogFile()
	}
	logger, closer, err := vlog.OpenFile(logPath, cfg.Log.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vitrine: logging to %s unavailable: %v\n", logPath, err)
	}
	if closer != nil {
		defer closer.Close()
	}
	logger = logger.With("session_id", vlog.NewSessionID())

	man, err := manifest.Load(cfg.Site.Dir, logger)
	if err != nil {
		return err
	}

	vlog.LogStartup(logger, vlog.StartupInfo{
		Version:    Version,
		GitCommit:  GitCommit,
		ConfigPath: paths.ConfigFile(),
		SiteDir:    cfg.Site.Dir,
		Units:      len(man.Units),
		Excluded:   man.Excluded,
		PID:        os.Getpid(),
	})

	// Styles are created against the default renderer; pointing its
	// profile at the terminal keeps colors on when stdout is a pipe.
	lipgloss.SetColorProfile(termenv.NewOutput(out).ColorProfile())

	p := tea.NewProgram(carousel.New(cfg, man, logger),
		tea.WithAltScreen(),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("viewer error: %w", err)
	}
	return nil
}
