// Package carousel implements the presentation engine behind the
// viewer: one content unit on screen at a time, its artwork variations
// cross-faded in order, with pausable timing, random unit rotation,
// and keyboard/mouse control.
package carousel

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/runger/vitrine/internal/config"
	vlog "github.com/runger/vitrine/internal/log"
	"github.com/runger/vitrine/internal/manifest"
	"github.com/runger/vitrine/internal/render"
)

// statusLineDuration is how long a transient status message stays up.
const statusLineDuration = 4 * time.Second

// viewerState is the engine's coarse state. Paused is tracked
// separately: a pause can overlap a fade that is finishing.
type viewerState int

const (
	stateLoading       viewerState = iota // First artwork not decoded yet
	stateShowing                          // A variation is on screen
	stateTransitioning                    // Cross-fade in flight
	stateExhausted                        // Cycle complete; next unit preloading
)

// dwellAction is decided when the dwell is armed, not when it fires:
// the final variation schedules unit completion directly instead of
// another in-unit step.
type dwellAction int

const (
	dwellAdvance  dwellAction = iota // Show the next variation in order
	dwellComplete                    // Final variation done; rotate to a new unit
)

// transitionKind selects fade duration and shows up in logs as the
// transition's cause.
type transitionKind int

const (
	transAuto   transitionKind = iota // Dwell elapsed
	transManual                       // Arrow keys, swipe, click-advance
	transJump                         // Indicator click, first/last keys
	transUnit                         // New unit (cycle complete or skip)
	transReload                       // Same variation at a new geometry
)

func (k transitionKind) String() string {
	switch k {
	case transAuto:
		return "timer"
	case transManual:
		return "manual"
	case transJump:
		return "jump"
	case transUnit:
		return "unit"
	case transReload:
		return "reload"
	default:
		return "unknown"
	}
}

// initMsg is sent by Init() so the first preload runs through Update,
// where state mutations are visible to the Bubble Tea runtime.
type initMsg struct{}

// preloadDoneMsg is sent when an async artwork decode completes.
type preloadDoneMsg struct {
	id   uint64
	grid *render.Grid
	err  error
}

// frameMsg drives fade and drift animation at the configured rate.
type frameMsg struct {
	id uint64
}

// statusClearMsg retires a transient status message.
type statusClearMsg struct {
	id uint64
}

// openDoneMsg reports the external open command's launch result.
type openDoneMsg struct {
	command string
	err     error
}

// Model is the Bubble Tea model for the viewer.
type Model struct {
	cfg    *config.Config
	man    *manifest.Manifest
	loader *render.Loader
	logger *slog.Logger

	// now is the clock used for all timing math.
	now func() time.Time
	rng *rand.Rand

	state   viewerState
	paused  bool
	unitIdx int
	// varIdx is the authoritative pointer into the current unit's
	// variations; every dependent surface reads it, nothing else.
	varIdx int

	timer       dwellTimer
	dwellAction dwellAction
	sel         *selector

	// In-flight transition bookkeeping. pendingID filters stale
	// preload results the same way timer generations filter ticks.
	inTransition bool
	pendingID    uint64
	pendingUnit  int
	pendingVar   int
	pendingKind  transitionKind
	pendingTries int

	layers       render.Layers
	activeMotion motionState
	nextMotion   motionState
	fadeStart    time.Time
	fadeDur      time.Duration

	// lastManual is the leading edge of the manual-input debounce
	// window. Automatic advances never consult it.
	lastManual time.Time

	frameID       uint64
	framesRunning bool

	width, height int
	artW, artH    int // pixel geometry of the artwork area
	artLines      []string
	palette       render.Palette

	overlayOpen   bool
	overlayPaused bool
	overlay       viewport.Model
	spin          spinner.Model
	help          help.Model
	keys          keyMap

	status   string
	statusID uint64

	// Swipe tracking between mouse press and release.
	dragging     bool
	dragX, dragY int

	quitting bool
}

// motionState is the ambient drift assigned to one artwork layer.
type motionState struct {
	motion render.Motion
	start  time.Time
}

// New creates the viewer model over a loaded manifest.
func New(cfg *config.Config, man *manifest.Manifest, logger *slog.Logger) Model {
	if logger == nil {
		logger = vlog.Discard()
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return Model{
		cfg:    cfg,
		man:    man,
		loader: render.NewLoader(),
		logger: logger,
		now:    time.Now,
		rng:    rng,
		state:  stateLoading,
		sel:    newSelector(cfg.Playback.RecentHistorySize, rng),
		spin:   sp,
		help:   help.New(),
		keys:   defaultKeyMap(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spin.Tick,
		func() tea.Msg { return initMsg{} },
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.FocusMsg:
		if m.overlayOpen {
			return m, nil
		}
		return m.resumeCycle("focus")

	case tea.BlurMsg:
		return m.pauseCycle("blur")

	case initMsg:
		// The first preload waits for terminal geometry.
		m.sel.record(m.unitIdx)
		vlog.LogUnitSelected(m.logger, m.unit().Slug, m.variationCount(), "startup")
		if m.width > 0 && !m.inTransition && m.layers.Active() == nil {
			if m.artH >= 2 {
				return m, m.transitionTo(m.unitIdx, m.varIdx, transReload)
			}
			if m.state == stateLoading {
				return m, m.switchInstant(m.unitIdx, m.varIdx)
			}
		}
		return m, nil

	case preloadDoneMsg:
		return m.handlePreloadDone(msg)

	case dwellFiredMsg:
		return m.handleDwellFired(msg)

	case frameMsg:
		return m.handleFrame(msg)

	case statusClearMsg:
		if msg.id == m.statusID {
			m.status = ""
		}
		return m, nil

	case openDoneMsg:
		vlog.LogOpenCommand(m.logger, msg.command, msg.err)
		if msg.err != nil {
			return m, m.setStatus("open failed: " + msg.err.Error())
		}
		return m, m.setStatus("opened externally")

	case spinner.TickMsg:
		if m.state != stateLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, nil
}

// Paused reports whether playback is held.
func (m Model) Paused() bool {
	return m.paused
}

// Current returns the unit and variation on screen.
func (m Model) Current() (unit, variation int) {
	return m.unitIdx, m.varIdx
}

// unit returns the current content unit.
func (m Model) unit() manifest.Unit {
	return m.man.Units[m.unitIdx]
}

// variation returns the current unit's variation at idx, clamped.
func (m Model) variationAt(idx int) manifest.Variation {
	vs := m.man.Units[m.unitIdx].Variations
	if idx < 0 {
		idx = 0
	}
	if idx >= len(vs) {
		idx = len(vs) - 1
	}
	return vs[idx]
}

// variationCount returns N for the current unit.
func (m Model) variationCount() int {
	return len(m.man.Units[m.unitIdx].Variations)
}

// setStatus shows a transient status-line message.
func (m *Model) setStatus(text string) tea.Cmd {
	m.statusID++
	m.status = text
	id := m.statusID
	return tea.Tick(statusLineDuration, func(time.Time) tea.Msg {
		return statusClearMsg{id: id}
	})
}

// manualAllowed implements the leading-edge debounce for manual
// input: the first gesture acts immediately, repeats inside the
// window are dropped.
func (m *Model) manualAllowed() bool {
	now := m.now()
	if now.Sub(m.lastManual) < m.cfg.Debounce() {
		return false
	}
	m.lastManual = now
	return true
}

// frameInterval derives the animation tick from the configured rate.
func (m Model) frameInterval() time.Duration {
	fps := m.cfg.Display.FPS
	if fps < 1 {
		fps = 15
	}
	return time.Second / time.Duration(fps)
}

// animating reports whether frames need to keep flowing: a fade in
// flight always does, ambient drift only while playing.
func (m Model) animating() bool {
	if m.layers.Fading() {
		return true
	}
	if m.cfg.Display.ReducedMotion || m.paused {
		return false
	}
	return m.layers.Active() != nil && m.activeMotion.motion != render.MotionNone
}

// startFrames begins the animation tick chain if it is not running.
func (m *Model) startFrames() tea.Cmd {
	if m.framesRunning || !m.animating() {
		return nil
	}
	m.framesRunning = true
	return m.nextFrame()
}

// nextFrame schedules one animation tick under a fresh generation.
func (m *Model) nextFrame() tea.Cmd {
	m.frameID++
	id := m.frameID
	return tea.Tick(m.frameInterval(), func(time.Time) tea.Msg {
		return frameMsg{id: id}
	})
}

// stopFrames orphans the outstanding animation tick.
func (m *Model) stopFrames() {
	m.framesRunning = false
	m.frameID++
}
