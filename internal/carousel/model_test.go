package carousel

import (
	"bytes"
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runger/vitrine/internal/config"
	vlog "github.com/runger/vitrine/internal/log"
	"github.com/runger/vitrine/internal/manifest"
	"github.com/runger/vitrine/internal/render"
)

// --- Fixtures ---

// testClock is the injected deterministic clock. Tests advance it by
// hand; timer commands are never executed, their messages are built
// directly instead.
type testClock struct {
	t time.Time
}

func (c *testClock) now() time.Time {
	return c.t
}

func (c *testClock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func testManifest() *manifest.Manifest {
	return &manifest.Manifest{
		SiteDir: "/nonexistent",
		Units: []manifest.Unit{
			{
				Title:     "The Garden",
				Author:    "Mary Oliver",
				Type:      "poem",
				QuoteText: "I do not know exactly what a prayer is.",
				StyleName: "impressionist",
				Slug:      "the_garden",
				Metadata:  &manifest.Metadata{Source: "Devotions"},
				Variations: []manifest.Variation{
					{Path: "images/g1.png", Filename: "g1.png", AbsPath: "/nonexistent/images/g1.png"},
					{Path: "images/g2.png", Filename: "g2.png", AbsPath: "/nonexistent/images/g2.png"},
					{Path: "images/g3.png", Filename: "g3.png", AbsPath: "/nonexistent/images/g3.png"},
				},
			},
			{
				Title:     "Stillness",
				Type:      "quote",
				QuoteText: "In the midst of movement and chaos, keep stillness inside of you.",
				StyleName: "minimalist",
				Slug:      "stillness",
				Variations: []manifest.Variation{
					{Path: "images/s1.png", Filename: "s1.png", AbsPath: "/nonexistent/images/s1.png"},
					{Path: "images/s2.png", Filename: "s2.png", AbsPath: "/nonexistent/images/s2.png"},
				},
			},
		},
	}
}

func testGrid() *render.Grid {
	g := render.NewGrid(84, 40)
	g.Fill(colorful.Color{R: 0.5, G: 0.5, B: 0.5})
	return g
}

func newViewerModel(t *testing.T) (Model, *testClock) {
	t.Helper()
	clk := &testClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	m := New(config.DefaultConfig(), testManifest(), nil)
	m.now = clk.now
	m.rng = rand.New(rand.NewSource(7))
	m.sel = newSelector(m.cfg.Playback.RecentHistorySize, m.rng)
	return m, clk
}

// showFirst brings a fresh model to its first displayed variation:
// geometry arrives, the first preload is requested, and its result is
// fed in directly.
func showFirst(t *testing.T, m Model) Model {
	t.Helper()

	result, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = result.(Model)
	require.True(t, m.inTransition, "geometry must trigger the first preload")

	result, _ = m.Update(initMsg{})
	m = result.(Model)

	result, _ = m.Update(preloadDoneMsg{id: m.pendingID, grid: testGrid()})
	m = result.(Model)
	require.Equal(t, stateShowing, m.state)
	require.False(t, m.inTransition)
	return m
}

// completePending feeds the staged preload result and runs the fade
// to completion.
func completePending(t *testing.T, m Model, clk *testClock) Model {
	t.Helper()
	require.True(t, m.inTransition, "no transition in flight to complete")

	result, _ := m.Update(preloadDoneMsg{id: m.pendingID, grid: testGrid()})
	m = result.(Model)
	require.True(t, m.layers.Fading(), "preload completion must arm the fade")

	clk.advance(m.fadeDur + 50*time.Millisecond)
	result, _ = m.Update(frameMsg{id: m.frameID})
	m = result.(Model)
	require.False(t, m.layers.Fading())
	require.False(t, m.inTransition)
	return m
}

func fireDwell(t *testing.T, m Model) Model {
	t.Helper()
	require.True(t, m.timer.armed, "no dwell armed to fire")
	result, _ := m.Update(dwellFiredMsg{id: m.timer.id})
	return result.(Model)
}

func pressKey(t *testing.T, m Model, key tea.KeyMsg) Model {
	t.Helper()
	result, _ := m.Update(key)
	return result.(Model)
}

func clickAt(t *testing.T, m Model, x, y int) Model {
	t.Helper()
	result, _ := m.Update(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = result.(Model)
	result, _ = m.Update(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	return result.(Model)
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// --- Startup ---

func TestStartup_ShowsFirstVariation(t *testing.T) {
	m, _ := newViewerModel(t)
	m = showFirst(t, m)

	unit, variation := m.Current()
	assert.Equal(t, 0, unit)
	assert.Equal(t, 0, variation)
	assert.True(t, m.timer.armed)
	assert.Equal(t, dwellAdvance, m.dwellAction)
	assert.Len(t, m.artLines, 18)
}

func TestStartup_WaitsForGeometry(t *testing.T) {
	m, _ := newViewerModel(t)

	result, _ := m.Update(initMsg{})
	m = result.(Model)
	assert.False(t, m.inTransition, "no preload before the terminal size is known")
	assert.Equal(t, stateLoading, m.state)
	assert.Equal(t, "", m.View())
}

func TestStartup_TinyTerminal_ShowsTextOnly(t *testing.T) {
	m, _ := newViewerModel(t)

	result, _ := m.Update(tea.WindowSizeMsg{Width: 14, Height: 5})
	m = result.(Model)

	assert.Equal(t, stateShowing, m.state)
	assert.True(t, m.timer.armed, "the cycle runs without artwork")
	view := m.View()
	assert.Contains(t, view, "prayer")
}

// --- Cycle order ---

func TestCycle_VisitsVariationsAscendingThenRotatesUnit(t *testing.T) {
	m, clk := newViewerModel(t)
	m = showFirst(t, m)

	var visited []int
	for {
		if m.dwellAction == dwellComplete {
			break
		}
		m = fireDwell(t, m)
		require.True(t, m.inTransition)
		require.Equal(t, transAuto, m.pendingKind)
		m = completePending(t, m, clk)
		_, v := m.Current()
		visited = append(visited, v)
	}

	assert.Equal(t, []int{1, 2}, visited, "each variation shown once, in order")

	// The final dwell rotates to a new unit with no extra in-unit fade.
	m = fireDwell(t, m)
	assert.Equal(t, transUnit, m.pendingKind)
	assert.Equal(t, stateExhausted, m.state)
	assert.Equal(t, 1, m.pendingUnit, "recent history excludes the unit just shown")
	assert.Equal(t, 0, m.pendingVar)

	m = completePending(t, m, clk)
	unit, variation := m.Current()
	assert.Equal(t, 1, unit)
	assert.Equal(t, 0, variation)
}

func TestUnitFade_UsesUnitDuration(t *testing.T) {
	m, clk := newViewerModel(t)
	m = showFirst(t, m)
	clk.advance(time.Second)

	m = pressKey(t, m, keyRune('n'))
	require.Equal(t, transUnit, m.pendingKind)

	result, _ := m.Update(preloadDoneMsg{id: m.pendingID, grid: testGrid()})
	m = result.(Model)
	assert.Equal(t, m.cfg.UnitFadeDuration(), m.fadeDur)
}

func TestDwellAction_DecidedWhenArmed(t *testing.T) {
	m, clk := newViewerModel(t)
	m = showFirst(t, m)
	clk.advance(time.Second)

	// Jump straight to the final variation.
	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyDown})
	require.Equal(t, transJump, m.pendingKind)
	require.Equal(t, 2, m.pendingVar)
	m = completePending(t, m, clk)

	assert.Equal(t, dwellComplete, m.dwellAction,
		"the dwell armed on the final variation must schedule unit rotation")
}

// --- Index committed at fade start ---

func TestTransition_IndexMovesWhenFadeStarts(t *testing.T) {
	m, clk := newViewerModel(t)
	m = showFirst(t, m)
	clk.advance(time.Second)

	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyRight})
	require.True(t, m.inTransition)
	_, v := m.Current()
	assert.Equal(t, 0, v, "index holds while the image decodes")

	result, _ := m.Update(preloadDoneMsg{id: m.pendingID, grid: testGrid()})
	m = result.(Model)
	_, v = m.Current()
	assert.Equal(t, 1, v, "index moves the moment the fade starts")
	assert.True(t, m.layers.Fading())
	assert.True(t, m.inTransition, "the transition slot stays held until the fade ends")
}

// --- Re-entrancy and debounce ---

func TestTransition_ReentrantRequestDropped(t *testing.T) {
	m, clk := newViewerModel(t)
	m = showFirst(t, m)
	clk.advance(time.Second)

	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyRight})
	id := m.pendingID
	require.Equal(t, 1, m.pendingVar)

	clk.advance(500 * time.Millisecond) // well past the debounce window
	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyRight})

	assert.Equal(t, id, m.pendingID, "request during a transition must be dropped")
	assert.Equal(t, 1, m.pendingVar, "dropped, not queued")

	m = completePending(t, m, clk)
	_, v := m.Current()
	assert.Equal(t, 1, v)
}

func TestManualDebounce_RepeatInWindowDropped(t *testing.T) {
	m, clk := newViewerModel(t)
	m = showFirst(t, m)
	clk.advance(time.Second)

	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyRight})
	require.True(t, m.inTransition)
	id := m.pendingID

	clk.advance(30 * time.Millisecond)
	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, id, m.pendingID)

	// Exactly one manual step, and the automatic cycle re-arms after it.
	m = completePending(t, m, clk)
	_, v := m.Current()
	assert.Equal(t, 1, v)
	assert.True(t, m.timer.armed, "manual input must not suppress the automatic cycle")
}

func TestManualDebounce_LeadingEdge(t *testing.T) {
	m, clk := newViewerModel(t)
	m = showFirst(t, m)

	m.lastManual = clk.t
	clk.advance(50 * time.Millisecond)
	assert.False(t, m.manualAllowed())

	clk.advance(60 * time.Millisecond)
	assert.True(t, m.manualAllowed(), "the window reopens after debounce_ms")
}

func TestManualDebounce_NeverGatesAutomaticAdvance(t *testing.T) {
	m, clk := newViewerModel(t)
	m = showFirst(t, m)

	// A manual gesture just landed; its debounce window is still open
	// when the dwell elapses.
	m.lastManual = clk.t
	clk.advance(20 * time.Millisecond)
	m = fireDwell(t, m)

	require.True(t, m.inTransition, "the timer-driven advance must ignore the manual debounce")
	assert.Equal(t, transAuto, m.pendingKind)
	assert.Equal(t, 1, m.pendingVar)
}

func TestDwellTick_ForSupersededTimerIgnored(t *testing.T) {
	m, clk := newViewerModel(t)
	m = showFirst(t, m)
	staleID := m.timer.id

	clk.advance(time.Second)
	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m = completePending(t, m, clk)

	result, _ := m.Update(dwellFiredMsg{id: staleID})
	m = result.(Model)
	assert.False(t, m.inTransition, "a stale dwell tick must not start a transition")
}

// --- Pause and resume ---

func TestPause_BanksRemaining_ResumeUsesIt(t *testing.T) {
	m, clk := newViewerModel(t)
	m = showFirst(t, m)

	clk.advance(4 * time.Second)
	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.True(t, m.Paused())
	assert.Equal(t, 6*time.Second, m.timer.remaining)

	clk.advance(time.Hour)
	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.False(t, m.Paused())
	assert.True(t, m.timer.armed)
	assert.Equal(t, 6*time.Second, m.timer.duration)
}

func TestPause_Idempotent(t *testing.T) {
	m, clk := newViewerModel(t)
	m = showFirst(t, m)

	clk.advance(4 * time.Second)
	result, _ := m.Update(tea.BlurMsg{})
	m = result.(Model)
	require.Equal(t, 6*time.Second, m.timer.remaining)

	clk.advance(2 * time.Second)
	result, _ = m.Update(tea.BlurMsg{})
	m = result.(Model)
	assert.Equal(t, 6*time.Second, m.timer.remaining, "second pause must not recapture")
}

func TestResume_WhenPlaying_NoOp(t *testing.T) {
	m, _ := newViewerModel(t)
	m = showFirst(t, m)
	id := m.timer.id

	result, _ := m.Update(tea.FocusMsg{})
	m = result.(Model)
	assert.False(t, m.Paused())
	assert.Equal(t, id, m.timer.id, "focus while playing must not re-arm the dwell")
}

func TestPauseDuringFade_FadeFinishes_DwellWaitsForResume(t *testing.T) {
	m, clk := newViewerModel(t)
	m = showFirst(t, m)
	clk.advance(time.Second)

	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyRight})
	result, _ := m.Update(preloadDoneMsg{id: m.pendingID, grid: testGrid()})
	m = result.(Model)
	require.True(t, m.layers.Fading())

	clk.advance(500 * time.Millisecond)
	result, _ = m.Update(tea.BlurMsg{})
	m = result.(Model)
	require.True(t, m.Paused())
	assert.True(t, m.layers.Fading(), "pause must not cut a fade short")

	clk.advance(2 * time.Second)
	result, _ = m.Update(frameMsg{id: m.frameID})
	m = result.(Model)
	assert.False(t, m.layers.Fading())
	assert.Equal(t, stateShowing, m.state)
	assert.False(t, m.timer.armed, "no dwell while paused")

	result, _ = m.Update(tea.FocusMsg{})
	m = result.(Model)
	assert.True(t, m.timer.armed)
	assert.Equal(t, m.cfg.VariationDuration(), m.timer.duration,
		"nothing was banked, so the resumed dwell runs in full")
}

func TestResume_ResyncsSurfaces(t *testing.T) {
	var buf bytes.Buffer
	logger := vlog.New(&vlog.Config{Output: &buf})

	m, clk := newViewerModel(t)
	m.logger = logger
	m = showFirst(t, m)

	buf.Reset()
	clk.advance(time.Second)
	result, _ := m.Update(tea.BlurMsg{})
	m = result.(Model)
	result, _ = m.Update(tea.FocusMsg{})
	m = result.(Model)

	logged := buf.String()
	assert.Contains(t, logged, "variation showing", "resume must re-announce the current variation")
	assert.Contains(t, logged, `"slug":"the_garden"`)
}

// --- Input routing ---

func TestIndicatorClick_JumpsWithoutPageAdvance(t *testing.T) {
	m, clk := newViewerModel(t)
	m = showFirst(t, m)
	clk.advance(time.Second)

	lay := m.layout()
	require.Equal(t, 3, lay.indicatorN)
	m = clickAt(t, m, lay.indicatorX0+4, lay.indicatorRow)

	require.True(t, m.inTransition)
	assert.Equal(t, transJump, m.pendingKind, "an indicator click must never fall through to advance")
	assert.Equal(t, 2, m.pendingVar)
}

func TestClickOnArtwork_Advances(t *testing.T) {
	m, clk := newViewerModel(t)
	m = showFirst(t, m)
	clk.advance(time.Second)

	m = clickAt(t, m, 10, 3)
	require.True(t, m.inTransition)
	assert.Equal(t, transManual, m.pendingKind)
	assert.Equal(t, 1, m.pendingVar)
}

func TestClickOnStatusRow_Consumed(t *testing.T) {
	m, clk := newViewerModel(t)
	m = showFirst(t, m)
	clk.advance(time.Second)

	lay := m.layout()
	m = clickAt(t, m, 5, lay.statusRow)
	assert.False(t, m.inTransition, "the status row owns its clicks")
}

func TestSwipe_Navigates(t *testing.T) {
	m, clk := newViewerModel(t)
	m = showFirst(t, m)
	clk.advance(time.Second)

	// Swipe left advances.
	result, _ := m.Update(tea.MouseMsg{X: 40, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = result.(Model)
	result, _ = m.Update(tea.MouseMsg{X: 30, Y: 5, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	m = result.(Model)
	require.True(t, m.inTransition)
	assert.Equal(t, 1, m.pendingVar)
	m = completePending(t, m, clk)

	// Swipe right goes back.
	clk.advance(time.Second)
	result, _ = m.Update(tea.MouseMsg{X: 30, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = result.(Model)
	result, _ = m.Update(tea.MouseMsg{X: 42, Y: 6, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	m = result.(Model)
	require.True(t, m.inTransition)
	assert.Equal(t, 0, m.pendingVar)
}

func TestArrowKeys_FirstAndLast(t *testing.T) {
	m, clk := newViewerModel(t)
	m = showFirst(t, m)
	clk.advance(time.Second)

	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyDown})
	require.Equal(t, 2, m.pendingVar)
	m = completePending(t, m, clk)

	clk.advance(time.Second)
	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyUp})
	require.True(t, m.inTransition)
	assert.Equal(t, 0, m.pendingVar)
}

func TestGoTo_CurrentVariation_NoOp(t *testing.T) {
	m, clk := newViewerModel(t)
	m = showFirst(t, m)
	clk.advance(time.Second)

	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.False(t, m.inTransition, "jumping to the shown variation does nothing")
}

func TestPrevious_WrapsWithinUnit(t *testing.T) {
	m, clk := newViewerModel(t)
	m = showFirst(t, m)
	clk.advance(time.Second)

	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	require.True(t, m.inTransition)
	assert.Equal(t, 2, m.pendingVar)
}

func TestSkipUnit_RotatesImmediately(t *testing.T) {
	m, clk := newViewerModel(t)
	m = showFirst(t, m)
	clk.advance(time.Second)

	m = pressKey(t, m, keyRune('n'))
	assert.Equal(t, stateExhausted, m.state)
	assert.Equal(t, transUnit, m.pendingKind)
	assert.Equal(t, 1, m.pendingUnit)
}

func TestQuitKey_StopsEverything(t *testing.T) {
	m, _ := newViewerModel(t)
	m = showFirst(t, m)

	result, cmd := m.Update(keyRune('q'))
	m = result.(Model)
	assert.True(t, m.quitting)
	assert.False(t, m.timer.armed)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

// --- Detail overlay ---

func TestOverlay_OpensPausesAndSwallowsInput(t *testing.T) {
	m, clk := newViewerModel(t)
	m = showFirst(t, m)
	clk.advance(time.Second)

	m = pressKey(t, m, keyRune('i'))
	require.True(t, m.overlayOpen)
	assert.True(t, m.Paused())

	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.False(t, m.inTransition, "the overlay is modal")

	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.overlayOpen)
	assert.False(t, m.Paused(), "closing resumes the pause the overlay caused")
	assert.Equal(t, 9*time.Second, m.timer.duration, "the dwell resumes from where the overlay froze it")
}

func TestOverlay_ClickClosesWithoutAdvance(t *testing.T) {
	m, clk := newViewerModel(t)
	m = showFirst(t, m)
	clk.advance(time.Second)

	m = pressKey(t, m, keyRune('i'))
	require.True(t, m.overlayOpen)

	m = clickAt(t, m, 10, 3)
	assert.False(t, m.overlayOpen)
	assert.False(t, m.inTransition, "the closing click must not leak to the page")
}

func TestOverlay_KeepsUserPause(t *testing.T) {
	m, clk := newViewerModel(t)
	m = showFirst(t, m)
	clk.advance(time.Second)

	m = pressKey(t, m, keyRune('p'))
	require.True(t, m.Paused())

	m = pressKey(t, m, keyRune('i'))
	m = pressKey(t, m, keyRune('i'))
	assert.False(t, m.overlayOpen)
	assert.True(t, m.Paused(), "a pause the viewer set themselves survives the overlay")
}

func TestOverlay_Content(t *testing.T) {
	m, _ := newViewerModel(t)
	m = showFirst(t, m)

	result, _ := m.Update(keyRune('i'))
	m = result.(Model)

	content := m.overlayContent()
	assert.Contains(t, content, "The Garden")
	assert.Contains(t, content, "Mary Oliver")
	assert.Contains(t, content, "Devotions")
	assert.Contains(t, content, "impressionist")
	assert.Contains(t, content, "g1.png (1/3)")
}

// --- Preload failures ---

func TestPreloadFailure_SkipsThenFallsBackToPlaceholder(t *testing.T) {
	m, clk := newViewerModel(t)
	m = showFirst(t, m)
	clk.advance(time.Second)

	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyRight})
	require.Equal(t, 1, m.pendingVar)

	result, _ := m.Update(preloadDoneMsg{id: m.pendingID, err: errors.New("no such file")})
	m = result.(Model)
	assert.Equal(t, 2, m.pendingVar, "a failed decode skips to the next variation")
	assert.Equal(t, "artwork unavailable, skipping", m.status)
	require.True(t, m.inTransition)

	result, _ = m.Update(preloadDoneMsg{id: m.pendingID, err: errors.New("no such file")})
	m = result.(Model)
	require.Equal(t, 0, m.pendingVar)

	result, _ = m.Update(preloadDoneMsg{id: m.pendingID, err: errors.New("no such file")})
	m = result.(Model)
	assert.True(t, m.layers.Fading(), "after every variation fails, placeholder art fades in")
	assert.Equal(t, "artwork missing, showing placeholder", m.status)
}

func TestPreload_StaleResultIgnored(t *testing.T) {
	m, clk := newViewerModel(t)
	m = showFirst(t, m)
	clk.advance(time.Second)

	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyRight})
	result, _ := m.Update(preloadDoneMsg{id: m.pendingID - 1, grid: testGrid()})
	m = result.(Model)

	assert.True(t, m.inTransition)
	assert.False(t, m.layers.Fading(), "a stale decode must not start a fade")
}

// --- Resize ---

func TestResize_ReloadsWithoutFadeOrTimerReset(t *testing.T) {
	m, clk := newViewerModel(t)
	m = showFirst(t, m)
	timerID := m.timer.id
	clk.advance(time.Second)

	result, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = result.(Model)
	require.True(t, m.inTransition)
	require.Equal(t, transReload, m.pendingKind)

	result, _ = m.Update(preloadDoneMsg{id: m.pendingID, grid: testGrid()})
	m = result.(Model)
	assert.False(t, m.layers.Fading(), "a reload swaps in place")
	assert.Equal(t, stateShowing, m.state)
	assert.Equal(t, timerID, m.timer.id, "the running dwell is untouched")
}

func TestResizeDuringFade_DwellRecovers(t *testing.T) {
	m, clk := newViewerModel(t)
	m = showFirst(t, m)
	clk.advance(time.Second)

	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyRight})
	result, _ := m.Update(preloadDoneMsg{id: m.pendingID, grid: testGrid()})
	m = result.(Model)
	require.True(t, m.layers.Fading())

	result, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = result.(Model)
	result, _ = m.Update(preloadDoneMsg{id: m.pendingID, grid: testGrid()})
	m = result.(Model)

	assert.Equal(t, stateShowing, m.state)
	assert.True(t, m.timer.armed, "the interrupted fade must not strand the cycle")
}

// --- View ---

func TestView_ShowsQuoteIndicatorsAndStatus(t *testing.T) {
	m, _ := newViewerModel(t)
	m = showFirst(t, m)

	view := m.View()
	lines := strings.Split(view, "\n")
	assert.Len(t, lines, 24, "the view must fill the terminal exactly")

	assert.Contains(t, view, "prayer")
	assert.Contains(t, view, "The Garden · Mary Oliver")
	assert.Contains(t, view, "1/2 · impressionist")
	assert.Equal(t, 1, strings.Count(view, "●"))
	assert.Equal(t, 2, strings.Count(view, "○"))
}

func TestView_PausedBadge(t *testing.T) {
	m, _ := newViewerModel(t)
	m = showFirst(t, m)

	result, _ := m.Update(tea.BlurMsg{})
	m = result.(Model)
	assert.Contains(t, m.View(), "paused")
}

func TestView_LoadingSpinner(t *testing.T) {
	m, _ := newViewerModel(t)

	result, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = result.(Model)
	assert.Contains(t, m.View(), "loading artwork")
}

// --- External open ---

func TestOpenKey_WithoutCommand_ShowsStatus(t *testing.T) {
	m, _ := newViewerModel(t)
	m = showFirst(t, m)

	m = pressKey(t, m, keyRune('o'))
	assert.Equal(t, "no open command configured", m.status)
}

func TestOpenKey_MalformedCommand_ShowsStatus(t *testing.T) {
	m, _ := newViewerModel(t)
	m.cfg.Site.OpenCommand = `feh "unclosed`
	m = showFirst(t, m)

	m = pressKey(t, m, keyRune('o'))
	assert.Equal(t, "open command is malformed", m.status)
}

func TestOpenResult_ReportsFailure(t *testing.T) {
	m, _ := newViewerModel(t)
	m = showFirst(t, m)

	result, _ := m.Update(openDoneMsg{command: "feh x.png", err: errors.New("not found")})
	m = result.(Model)
	assert.Contains(t, m.status, "open failed")
}

// --- Transient status ---

func TestStatus_ClearedByMatchingGeneration(t *testing.T) {
	m, _ := newViewerModel(t)
	m = showFirst(t, m)

	m.setStatus("first")
	stale := m.statusID
	m.setStatus("second")

	result, _ := m.Update(statusClearMsg{id: stale})
	m = result.(Model)
	assert.Equal(t, "second", m.status, "an old clear must not wipe a newer message")

	result, _ = m.Update(statusClearMsg{id: m.statusID})
	m = result.(Model)
	assert.Equal(t, "", m.status)
}
