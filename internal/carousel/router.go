package carousel

import (
	"os/exec"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/shlex"
)

// swipeThreshold is the horizontal cell distance a press and release
// must span to count as a swipe rather than a click.
const swipeThreshold = 3

type keyMap struct {
	Next     key.Binding
	Prev     key.Binding
	First    key.Binding
	Last     key.Binding
	NextUnit key.Binding
	Pause    key.Binding
	Detail   key.Binding
	Open     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "next"),
		),
		Prev: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "previous"),
		),
		First: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "first"),
		),
		Last: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "last"),
		),
		NextUnit: key.NewBinding(
			key.WithKeys(" ", "n"),
			key.WithHelp("space", "next piece"),
		),
		Pause: key.NewBinding(
			key.WithKeys("esc", "p"),
			key.WithHelp("esc", "pause"),
		),
		Detail: key.NewBinding(
			key.WithKeys("i", "enter"),
			key.WithHelp("i", "details"),
		),
		Open: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextUnit, k.Pause, k.Detail, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.First, k.Last},
		{k.NextUnit, k.Pause, k.Detail},
		{k.Open, k.Quit},
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.overlayOpen {
		return m.handleOverlayKey(msg)
	}
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit("quit key")
	case key.Matches(msg, m.keys.Next):
		return m, m.manualNext()
	case key.Matches(msg, m.keys.Prev):
		return m, m.manualPrevious()
	case key.Matches(msg, m.keys.First):
		return m, m.goTo(0)
	case key.Matches(msg, m.keys.Last):
		return m, m.goTo(m.variationCount() - 1)
	case key.Matches(msg, m.keys.NextUnit):
		return m, m.skipUnit()
	case key.Matches(msg, m.keys.Pause):
		return m.togglePause("pause key")
	case key.Matches(msg, m.keys.Detail):
		return m.openOverlay()
	case key.Matches(msg, m.keys.Open):
		return m, m.openExternal()
	}
	return m, nil
}

// handleOverlayKey keeps the detail overlay modal: close and quit
// work, scrolling goes to the viewport, everything else stops here
// instead of reaching the cycle underneath.
func (m Model) handleOverlayKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit("quit key")
	case key.Matches(msg, m.keys.Detail), key.Matches(msg, m.keys.Pause):
		return m.closeOverlay()
	case key.Matches(msg, m.keys.Open):
		return m, m.openExternal()
	}
	var cmd tea.Cmd
	m.overlay, cmd = m.overlay.Update(msg)
	return m, cmd
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
		if m.overlayOpen {
			var cmd tea.Cmd
			m.overlay, cmd = m.overlay.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.dragging = true
			m.dragX, m.dragY = msg.X, msg.Y
		}
		return m, nil

	case tea.MouseActionRelease:
		if !m.dragging {
			return m, nil
		}
		m.dragging = false
		dx := msg.X - m.dragX
		dy := msg.Y - m.dragY
		if abs(dx) >= swipeThreshold && abs(dx) > abs(dy) {
			// Swipe left pulls the next variation in, right the previous.
			if dx < 0 {
				return m, m.manualNext()
			}
			return m, m.manualPrevious()
		}
		return m.handleClick(msg.X, msg.Y)
	}
	return m, nil
}

// handleClick routes a click to the control that owns the cell, if
// any. A control that matches handles the click entirely; the
// advance-on-click fallback only sees clicks no control claimed, so
// hitting an indicator can never also flip the page.
func (m Model) handleClick(x, y int) (tea.Model, tea.Cmd) {
	if m.overlayOpen {
		return m.closeOverlay()
	}
	for _, r := range m.hitRegions() {
		if !r.contains(x, y) {
			continue
		}
		switch r.action {
		case regionIndicator:
			return m, m.goTo(r.arg)
		case regionDetail:
			return m.openOverlay()
		case regionStatus:
			return m, nil
		}
	}
	return m, m.manualNext()
}

type regionAction int

const (
	regionIndicator regionAction = iota
	regionDetail
	regionStatus
)

// hitRegion is an inclusive cell rectangle owned by a control.
type hitRegion struct {
	x0, y0, x1, y1 int
	action         regionAction
	arg            int
}

func (r hitRegion) contains(x, y int) bool {
	return x >= r.x0 && x <= r.x1 && y >= r.y0 && y <= r.y1
}

// hitRegions derives the clickable controls from the same layout the
// view draws from, most specific first.
func (m Model) hitRegions() []hitRegion {
	lay := m.layout()
	var regions []hitRegion
	if lay.indicatorRow >= 0 {
		for i := 0; i < lay.indicatorN; i++ {
			x := lay.indicatorX0 + 2*i
			regions = append(regions, hitRegion{x, lay.indicatorRow, x + 1, lay.indicatorRow, regionIndicator, i})
		}
		if lay.detailX0 >= 0 {
			regions = append(regions, hitRegion{lay.detailX0, lay.indicatorRow, lay.detailX1, lay.indicatorRow, regionDetail, 0})
		}
	}
	if lay.statusRow >= 0 {
		regions = append(regions, hitRegion{0, lay.statusRow, lay.width - 1, lay.statusRow, regionStatus, 0})
	}
	return regions
}

// openOverlay shows the metadata panel for the current variation and
// suspends the cycle while it is up.
func (m Model) openOverlay() (tea.Model, tea.Cmd) {
	if m.state == stateLoading {
		return m, nil
	}
	lay := m.layout()
	if lay.overlayW < 16 || lay.overlayH < 3 {
		return m, m.setStatus("terminal too small for details")
	}
	m.overlay = viewport.New(lay.overlayW, lay.overlayH)
	m.overlay.SetContent(m.overlayContent())
	m.overlay.GotoTop()
	m.overlayOpen = true
	if !m.paused {
		m.overlayPaused = true
		return m.pauseCycle("detail overlay")
	}
	return m, nil
}

// closeOverlay dismisses the panel and resumes the cycle, unless the
// viewer had paused it on their own before opening.
func (m Model) closeOverlay() (tea.Model, tea.Cmd) {
	if !m.overlayOpen {
		return m, nil
	}
	m.overlayOpen = false
	if m.overlayPaused {
		m.overlayPaused = false
		return m.resumeCycle("detail overlay closed")
	}
	return m, nil
}

// openExternal hands the current artwork to the configured viewer
// command. {path} in the command is replaced with the image path;
// without it the path is appended. The child is detached and only a
// failure to start is reported back.
func (m *Model) openExternal() tea.Cmd {
	line := strings.TrimSpace(m.cfg.Site.OpenCommand)
	if line == "" {
		return m.setStatus("no open command configured")
	}
	argv, err := shlex.Split(line)
	if err != nil || len(argv) == 0 {
		return m.setStatus("open command is malformed")
	}

	target := m.variationAt(m.varIdx).AbsPath
	substituted := false
	for i, a := range argv {
		if strings.Contains(a, "{path}") {
			argv[i] = strings.ReplaceAll(a, "{path}", target)
			substituted = true
		}
	}
	if !substituted {
		argv = append(argv, target)
	}

	display := strings.Join(argv, " ")
	return func() tea.Msg {
		c := exec.Command(argv[0], argv[1:]...)
		if err := c.Start(); err != nil {
			return openDoneMsg{command: display, err: err}
		}
		go c.Wait()
		return openDoneMsg{command: display}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
