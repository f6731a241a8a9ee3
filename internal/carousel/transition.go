package carousel

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	vlog "github.com/runger/vitrine/internal/log"
	"github.com/runger/vitrine/internal/manifest"
	"github.com/runger/vitrine/internal/render"
)

// transitionTo stages a switch to the given unit and variation. While
// a transition is in flight further requests are dropped, not queued;
// rapid input cannot overlap fades. Out-of-range variation indexes
// are clamped. Reloads bypass the guard: they refresh the current
// artwork in place and own the pending slot by superseding its id.
func (m *Model) transitionTo(unitIdx, varIdx int, kind transitionKind) tea.Cmd {
	if m.inTransition && kind != transReload {
		return nil
	}

	n := len(m.man.Units[unitIdx].Variations)
	if varIdx < 0 {
		varIdx = 0
	}
	if varIdx >= n {
		varIdx = n - 1
	}

	if m.artH < 2 && m.state != stateLoading {
		return m.switchInstant(unitIdx, varIdx)
	}

	m.inTransition = true
	m.pendingID++
	m.pendingUnit = unitIdx
	m.pendingVar = varIdx
	m.pendingKind = kind
	m.pendingTries = 0

	if kind != transReload {
		// No dwell may fire while the switch is in flight.
		m.timer.cancel()
		if kind == transUnit {
			m.state = stateExhausted
		} else {
			m.state = stateTransitioning
		}
	}
	return m.startPreload()
}

// switchInstant changes the shown variation without artwork, for
// terminals too small to draw any. The cycle keeps its timing.
func (m *Model) switchInstant(unitIdx, varIdx int) tea.Cmd {
	now := m.now()
	m.unitIdx = unitIdx
	m.varIdx = varIdx
	m.state = stateShowing
	m.palette = render.PaletteForBrightness(-1)
	cmds := []tea.Cmd{m.notifyShown()}
	if !m.paused {
		cmds = append(cmds, m.armDwell(now))
	}
	return tea.Batch(cmds...)
}

// startPreload decodes the pending variation's artwork off the update
// loop. The result carries the pending generation; anything staler is
// dropped on arrival.
func (m *Model) startPreload() tea.Cmd {
	id := m.pendingID
	loader := m.loader
	path := m.man.Units[m.pendingUnit].Variations[m.pendingVar].AbsPath
	w, h := m.artW, m.artH
	return func() tea.Msg {
		g, err := loader.Artwork(path, w, h)
		if err != nil {
			return preloadDoneMsg{id: id, err: err}
		}
		return preloadDoneMsg{id: id, grid: g}
	}
}

// handlePreloadDone finishes the preload step of a transition: on
// success the fade begins, on failure the cycle skips to the unit's
// next variation, and once every variation has failed the unit keeps
// playing over placeholder art.
func (m Model) handlePreloadDone(msg preloadDoneMsg) (tea.Model, tea.Cmd) {
	if msg.id != m.pendingID {
		return m, nil // A newer request owns the transition.
	}

	grid := msg.grid
	var cmds []tea.Cmd

	if msg.err != nil {
		u := m.man.Units[m.pendingUnit]
		vlog.LogImageLoadFailed(m.logger, u.Variations[m.pendingVar].AbsPath, msg.err)
		m.pendingTries++
		if m.pendingTries < len(u.Variations) {
			m.pendingVar = (m.pendingVar + 1) % len(u.Variations)
			return m, tea.Batch(m.setStatus("artwork unavailable, skipping"), m.startPreload())
		}
		grid = m.loader.Placeholder(u.Slug, u.PaletteColor(), m.artW, m.artH)
		cmds = append(cmds, m.setStatus("artwork missing, showing placeholder"))
	}

	if m.pendingKind == transReload {
		cmds = append(cmds, m.applyReload(grid))
	} else {
		cmds = append(cmds, m.beginFade(grid))
	}
	return m, tea.Batch(cmds...)
}

// applyReload swaps the artwork in place: the first image of a
// session, or the current variation redecoded after a resize. There
// is no fade. A fade the reload interrupted counts as finished, so
// the dwell is re-armed and the cycle keeps moving.
func (m *Model) applyReload(grid *render.Grid) tea.Cmd {
	now := m.now()
	first := m.layers.Active() == nil

	m.layers.SetActive(grid)
	m.activeMotion = m.newMotion(now)
	m.inTransition = false
	m.state = stateShowing

	var cmds []tea.Cmd
	if first {
		m.palette = m.paletteFor(m.variationAt(m.varIdx), grid)
		cmds = append(cmds, m.notifyShown())
	}
	if !m.paused && !m.timer.armed {
		cmds = append(cmds, m.armDwell(now))
	}
	m.renderArt(now)
	if c := m.startFrames(); c != nil {
		cmds = append(cmds, c)
	}
	return tea.Batch(cmds...)
}

// beginFade is the moment a transition becomes visible. Everything a
// viewer can observe switches here, together: the incoming layer
// starts fading in, the authoritative index moves, and dependent
// surfaces are told. Only the fade's completion happens later.
func (m *Model) beginFade(grid *render.Grid) tea.Cmd {
	now := m.now()

	m.layers.ArmNext(grid)
	m.nextMotion = m.newMotion(now)
	m.fadeStart = now
	if m.pendingKind == transUnit {
		m.fadeDur = m.cfg.UnitFadeDuration()
	} else {
		m.fadeDur = m.cfg.CrossFadeDuration()
	}

	from := m.varIdx
	m.unitIdx = m.pendingUnit
	m.varIdx = m.pendingVar
	m.state = stateTransitioning
	m.palette = m.paletteFor(m.variationAt(m.varIdx), grid)

	u := m.unit()
	vlog.LogTransitionStarted(m.logger, u.Slug, from, m.varIdx, m.pendingKind.String())

	cmds := []tea.Cmd{m.notifyShown()}
	m.renderArt(now)
	if c := m.startFrames(); c != nil {
		cmds = append(cmds, c)
	}
	return tea.Batch(cmds...)
}

// handleFrame advances fade and drift animation one tick.
func (m Model) handleFrame(msg frameMsg) (tea.Model, tea.Cmd) {
	if msg.id != m.frameID {
		return m, nil // Stale chain.
	}

	now := m.now()
	var cmds []tea.Cmd

	if m.layers.Fading() {
		p := render.Progress(now, m.fadeStart, m.fadeDur)
		m.layers.SetCrossfade(render.EaseInOutQuad(p))
		if !m.layers.Fading() {
			if c := m.finishFade(now); c != nil {
				cmds = append(cmds, c)
			}
		}
	}

	m.renderArt(now)

	if m.animating() {
		m.framesRunning = true
		cmds = append(cmds, m.nextFrame())
	} else {
		m.framesRunning = false
	}
	return m, tea.Batch(cmds...)
}

// finishFade is the cleanup step after a cross-fade: the promoted
// layer keeps its drift, the transition slot frees up, and the next
// dwell is armed unless playback is paused. A pause issued mid-fade
// lands here: the fade ran to completion, the dwell stays unarmed.
func (m *Model) finishFade(now time.Time) tea.Cmd {
	m.inTransition = false
	m.activeMotion = m.nextMotion
	m.state = stateShowing
	if m.paused {
		return nil
	}
	return m.armDwell(now)
}

// armDwell schedules the end of the current variation's display. What
// happens when it fires is decided now: the final variation arms the
// cycle-completion step directly, every other index arms a plain
// advance. Deciding at fire time instead produced a redundant extra
// fade at the wrap point.
func (m *Model) armDwell(now time.Time) tea.Cmd {
	if m.varIdx >= m.variationCount()-1 {
		m.dwellAction = dwellComplete
	} else {
		m.dwellAction = dwellAdvance
	}
	return m.timer.arm(now, m.cfg.VariationDuration())
}

// newMotion assigns a drift pattern to an incoming layer.
func (m *Model) newMotion(now time.Time) motionState {
	if m.cfg.Display.ReducedMotion {
		return motionState{motion: render.MotionNone, start: now}
	}
	return motionState{motion: render.RandomMotion(m.rng), start: now}
}

// motionProgress maps a layer's drift onto [0, 1] over the dwell.
func (m Model) motionProgress(now time.Time, ms motionState) float64 {
	return render.Progress(now, ms.start, m.cfg.VariationDuration())
}

// renderArt composes the visible artwork into cached terminal lines:
// each layer sampled through its drift window, blended by the eased
// fade alpha.
func (m *Model) renderArt(now time.Time) {
	if m.artW < 1 || m.artH < 2 || m.layers.Active() == nil {
		m.artLines = nil
		return
	}

	active := render.NewGrid(m.artW, m.artH)
	render.ApplyMotion(m.layers.Active(), active, m.activeMotion.motion, m.motionProgress(now, m.activeMotion))

	out := active
	if m.layers.Fading() && m.layers.Next() != nil {
		next := render.NewGrid(m.artW, m.artH)
		render.ApplyMotion(m.layers.Next(), next, m.nextMotion.motion, m.motionProgress(now, m.nextMotion))
		out = render.NewGrid(m.artW, m.artH)
		alpha := render.EaseInOutQuad(render.Progress(now, m.fadeStart, m.fadeDur))
		render.Blend(out, active, next, alpha)
	}
	m.artLines = render.ComposeLines(out)
}

// paletteFor derives the text scheme for a variation, preferring the
// site build's analysis and falling back to measuring the artwork.
func (m Model) paletteFor(v manifest.Variation, grid *render.Grid) render.Palette {
	b := v.BrightnessValue()
	if b < 0 && grid != nil {
		b = render.AverageBrightness(grid)
	}
	if v.Brightness != nil {
		return render.PaletteFromAnalysis(v.Brightness.TextColor, v.Brightness.BackgroundColor, v.Brightness.AccentColor, b)
	}
	return render.PaletteForBrightness(b)
}

// notifyShown pushes "variation now showing" to every surface that
// tracks it outside the frame loop: the structured log, the terminal
// title, and an open detail overlay. Called at fade start and again
// on forced resyncs.
func (m *Model) notifyShown() tea.Cmd {
	u := m.unit()
	v := m.variationAt(m.varIdx)
	vlog.LogVariationShown(m.logger, u.Slug, m.varIdx, m.variationCount(), v.StyleName(u.StyleName))

	if m.overlayOpen {
		m.overlay.SetContent(m.overlayContent())
	}

	title := fmt.Sprintf("vitrine: %s (%d/%d)", u.Title, m.varIdx+1, m.variationCount())
	return tea.SetWindowTitle(title)
}

// handleResize adopts the new terminal geometry, drops cached grids
// that no longer fit it, and redecodes the current artwork.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width, m.height = msg.Width, msg.Height
	lay := m.layout()
	m.artW, m.artH = lay.artPxW, lay.artPxH
	m.help.Width = msg.Width
	if m.overlayOpen {
		m.overlay.Width = lay.overlayW
		m.overlay.Height = lay.overlayH
	}

	if m.artW > 0 && m.artH >= 2 {
		m.loader.DropOtherGeometries(m.artW, m.artH)
	}

	if m.state == stateLoading {
		if m.inTransition || m.layers.Active() != nil {
			return m, nil
		}
		if m.artH >= 2 {
			return m, m.transitionTo(m.unitIdx, m.varIdx, transReload)
		}
		// Too small for artwork; start the cycle text-only.
		return m, m.switchInstant(m.unitIdx, m.varIdx)
	}
	if m.artH < 2 {
		m.artLines = nil
		return m, nil
	}
	return m, m.transitionTo(m.unitIdx, m.varIdx, transReload)
}
