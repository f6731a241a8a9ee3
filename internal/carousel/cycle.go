package carousel

import (
	tea "github.com/charmbracelet/bubbletea"

	vlog "github.com/runger/vitrine/internal/log"
)

// handleDwellFired runs the action decided when the dwell was armed.
// Stale ticks from cancelled or superseded timers are dropped here.
func (m Model) handleDwellFired(msg dwellFiredMsg) (tea.Model, tea.Cmd) {
	if !m.timer.fired(msg.id) {
		return m, nil
	}
	if m.dwellAction == dwellComplete {
		return m, m.advanceUnit("cycle complete")
	}
	return m, m.transitionTo(m.unitIdx, m.varIdx+1, transAuto)
}

// advanceUnit picks the next unit and fades to its first variation.
func (m *Model) advanceUnit(cause string) tea.Cmd {
	if m.inTransition {
		return nil
	}
	pick := m.sel.next(len(m.man.Units))
	u := m.man.Units[pick]
	vlog.LogUnitSelected(m.logger, u.Slug, len(u.Variations), cause)
	return m.transitionTo(pick, 0, transUnit)
}

// manualNext advances one variation, wrapping within the unit.
func (m *Model) manualNext() tea.Cmd {
	if !m.manualAllowed() {
		return nil
	}
	return m.transitionTo(m.unitIdx, (m.varIdx+1)%m.variationCount(), transManual)
}

// manualPrevious steps one variation back, wrapping within the unit.
func (m *Model) manualPrevious() tea.Cmd {
	if !m.manualAllowed() {
		return nil
	}
	n := m.variationCount()
	return m.transitionTo(m.unitIdx, (m.varIdx-1+n)%n, transManual)
}

// goTo jumps straight to a variation, as from an indicator click.
// Jumping to the one already shown is a no-op.
func (m *Model) goTo(idx int) tea.Cmd {
	if idx == m.varIdx && !m.inTransition {
		return nil
	}
	if !m.manualAllowed() {
		return nil
	}
	return m.transitionTo(m.unitIdx, idx, transJump)
}

// skipUnit abandons the rest of the current unit's cycle.
func (m *Model) skipUnit() tea.Cmd {
	if !m.manualAllowed() {
		return nil
	}
	return m.advanceUnit("manual skip")
}

// pauseCycle freezes playback. The dwell timer banks its remaining
// time; a fade already in flight keeps running to completion and the
// pause takes hold when the next dwell would have been armed. Pausing
// while paused does nothing.
func (m Model) pauseCycle(cause string) (tea.Model, tea.Cmd) {
	if m.paused {
		return m, nil
	}
	m.paused = true
	m.timer.pause(m.now())
	vlog.LogPauseChanged(m.logger, true, cause)
	return m, nil
}

// resumeCycle restarts playback from the banked remaining time, or
// arms a full dwell when none is banked. It also resyncs every
// dependent surface: while paused nothing advanced, but the viewer
// may have been away long enough to mistrust them. Resuming while
// not paused does nothing.
func (m Model) resumeCycle(cause string) (tea.Model, tea.Cmd) {
	if !m.paused {
		return m, nil
	}
	m.paused = false
	vlog.LogPauseChanged(m.logger, false, cause)

	now := m.now()
	var cmds []tea.Cmd
	if m.state == stateShowing && !m.inTransition {
		if c := m.timer.resume(now); c != nil {
			cmds = append(cmds, c)
		} else if !m.timer.armed {
			cmds = append(cmds, m.armDwell(now))
		}
	}
	if m.state != stateLoading {
		cmds = append(cmds, m.notifyShown())
	}
	m.renderArt(now)
	if c := m.startFrames(); c != nil {
		cmds = append(cmds, c)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) togglePause(cause string) (tea.Model, tea.Cmd) {
	if m.paused {
		return m.resumeCycle(cause)
	}
	return m.pauseCycle(cause)
}

// quit tears the session down in order: no timer may fire and no
// frame may draw after this.
func (m Model) quit(reason string) (tea.Model, tea.Cmd) {
	m.quitting = true
	m.timer.cancel()
	m.stopFrames()
	vlog.LogShutdown(m.logger, reason)
	return m, tea.Quit
}
