package carousel

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// dwellFiredMsg is sent when a variation's display time elapses.
type dwellFiredMsg struct {
	id uint64 // Must match the timer's current generation to be accepted
}

// dwellTimer schedules the end of a variation's dwell. It is modeled
// as a duration plus start timestamp so the remaining time is always
// computable, which pause depends on. Outstanding ticks are not
// cancelled; they arrive carrying a stale generation and are dropped.
type dwellTimer struct {
	id        uint64
	armed     bool
	paused    bool
	duration  time.Duration
	startedAt time.Time
	remaining time.Duration
}

// arm schedules a fresh dwell of d, implicitly discarding any
// outstanding one.
func (t *dwellTimer) arm(now time.Time, d time.Duration) tea.Cmd {
	t.id++
	t.armed = true
	t.paused = false
	t.duration = d
	t.startedAt = now
	t.remaining = 0
	return t.tick(d)
}

// cancel discards the outstanding dwell, if any.
func (t *dwellTimer) cancel() {
	t.id++
	t.armed = false
	t.paused = false
	t.remaining = 0
}

// pause captures the remaining dwell and invalidates the scheduled
// tick. Pausing an unarmed or already paused timer is a no-op.
func (t *dwellTimer) pause(now time.Time) {
	if !t.armed || t.paused {
		return
	}
	t.id++
	t.paused = true
	t.remaining = t.duration - now.Sub(t.startedAt)
	if t.remaining < 0 {
		t.remaining = 0
	}
}

// resume re-arms with the remaining duration captured at pause, not
// the original full duration. Resuming a timer that is not paused is
// a no-op and returns nil.
func (t *dwellTimer) resume(now time.Time) tea.Cmd {
	if !t.paused {
		return nil
	}
	t.id++
	t.armed = true
	t.paused = false
	t.duration = t.remaining
	t.startedAt = now
	t.remaining = 0
	return t.tick(t.duration)
}

// fired reports whether a tick should be acted on: it must carry the
// current generation while the timer is still running. Accepting a
// tick disarms the timer.
func (t *dwellTimer) fired(id uint64) bool {
	if id != t.id || !t.armed || t.paused {
		return false
	}
	t.armed = false
	return true
}

func (t *dwellTimer) tick(d time.Duration) tea.Cmd {
	id := t.id
	return tea.Tick(d, func(time.Time) tea.Msg {
		return dwellFiredMsg{id: id}
	})
}
