package carousel

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// layout is the screen plan for one frame. View draws from it and the
// mouse router resolves clicks against it, so a control is clickable
// exactly where it is drawn.
type layout struct {
	width, height int

	artRows        int
	artPxW, artPxH int

	quoteRows int
	textWidth int

	attrRow      int
	indicatorRow int
	indicatorX0  int
	indicatorN   int
	detailX0     int
	detailX1     int
	statusRow    int

	overlayW, overlayH int
}

// detailChip is the clickable label on the indicator row.
const detailChip = "i details"

// layout computes the screen plan from the current geometry and unit.
// It is a pure function of the model so View and the click router
// always agree.
func (m Model) layout() layout {
	lay := layout{
		width:  m.width,
		height: m.height,
		attrRow: -1, indicatorRow: -1, statusRow: -1,
		detailX0: -1, detailX1: -1,
	}
	if m.width < 1 || m.height < 1 {
		return lay
	}

	// Terminals too cramped for chrome show only the passage and a
	// status line.
	if m.width < 16 || m.height < 6 {
		lay.quoteRows = m.height - 1
		lay.statusRow = m.height - 1
		lay.textWidth = max(1, m.width-2)
		return lay
	}

	// Bottom chrome: attribution, indicators, status.
	const chrome = 3
	avail := m.height - chrome

	frac, _ := quoteTier(len(m.unit().QuoteText))
	lay.textWidth = clamp(int(frac*float64(m.width)), 12, m.width-4)

	qLines := m.quoteLineCount(lay.textWidth, max(1, avail/2))
	lay.quoteRows = qLines + 2
	if lay.quoteRows > avail {
		lay.quoteRows = avail
	}

	lay.artRows = avail - lay.quoteRows
	if lay.artRows < 4 {
		lay.artRows = 0
		lay.quoteRows = avail
	}
	lay.artPxW = m.width
	lay.artPxH = lay.artRows * 2

	lay.attrRow = lay.artRows + lay.quoteRows
	lay.indicatorRow = lay.attrRow + 1
	lay.statusRow = m.height - 1

	n := m.variationCount()
	stripW := 2*n - 1
	if stripW <= m.width-2 {
		lay.indicatorN = n
		lay.indicatorX0 = (m.width - stripW) / 2
		chipW := runewidth.StringWidth(detailChip)
		x0 := m.width - chipW - 1
		if x0-(lay.indicatorX0+stripW) >= 3 {
			lay.detailX0 = x0
			lay.detailX1 = x0 + chipW - 1
		}
	}

	lay.overlayW = clamp(m.width-10, 0, 76)
	lay.overlayH = lay.artRows - 2
	if lay.overlayH < 0 {
		lay.overlayH = 0
	}
	return lay
}

// quoteLineCount measures the wrapped passage without styling it.
func (m Model) quoteLineCount(textWidth, maxLines int) int {
	wrapped := lipgloss.NewStyle().Width(textWidth).Render(m.unit().QuoteText)
	n := strings.Count(wrapped, "\n") + 1
	if n > maxLines {
		n = maxLines
	}
	return n
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width < 1 || m.height < 1 {
		return ""
	}
	if m.state == stateLoading {
		return m.viewLoading()
	}

	lay := m.layout()
	var b strings.Builder

	if lay.artRows > 0 {
		if m.overlayOpen {
			b.WriteString(m.viewOverlay(lay))
		} else {
			b.WriteString(m.viewArt(lay))
		}
		b.WriteRune('\n')
	}

	b.WriteString(m.viewQuote(lay))

	if lay.attrRow >= 0 {
		b.WriteRune('\n')
		b.WriteString(m.viewAttribution(lay))
		b.WriteRune('\n')
		b.WriteString(m.viewIndicators(lay))
	}
	b.WriteRune('\n')
	b.WriteString(m.viewStatus(lay))

	return b.String()
}

func (m Model) viewLoading() string {
	line := m.spin.View() + loadingStyle.Render(" loading artwork")
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, line)
}

// viewArt emits the cached halfblock lines, padded to the art area.
func (m Model) viewArt(lay layout) string {
	lines := m.artLines
	if len(lines) > lay.artRows {
		lines = lines[:lay.artRows]
	}
	var b strings.Builder
	for i := 0; i < lay.artRows; i++ {
		if i > 0 {
			b.WriteRune('\n')
		}
		if i < len(lines) {
			b.WriteString(lines[i])
		}
	}
	return b.String()
}

// viewOverlay draws the metadata panel over the art area.
func (m Model) viewOverlay(lay layout) string {
	panel := overlayStyle.
		BorderForeground(lipgloss.Color(m.palette.Accent)).
		Render(m.overlay.View())
	return lipgloss.Place(lay.width, lay.artRows, lipgloss.Center, lipgloss.Center, panel)
}

func (m Model) viewQuote(lay layout) string {
	u := m.unit()
	_, bold := quoteTier(len(u.QuoteText))

	style := quoteStyle.
		Width(lay.textWidth).
		Bold(bold).
		Foreground(lipgloss.Color(m.palette.Text))

	block := style.Render(u.QuoteText)
	lines := strings.Split(block, "\n")
	maxLines := lay.quoteRows
	if lay.attrRow >= 0 && maxLines > 2 {
		maxLines -= 2
	}
	if len(lines) > maxLines {
		lines = lines[:maxLines]
		lines[len(lines)-1] = runewidth.Truncate(lines[len(lines)-1], lay.textWidth, "…")
		block = strings.Join(lines, "\n")
	}
	return lipgloss.Place(lay.width, lay.quoteRows, lipgloss.Center, lipgloss.Center, block)
}

func (m Model) viewAttribution(lay layout) string {
	u := m.unit()
	text := u.Title
	if u.Author != "" {
		text += " · " + u.Author
	}
	text = runewidth.Truncate(text, lay.width-2, "…")
	line := attributionStyle.Foreground(lipgloss.Color(m.palette.Accent)).Render(text)
	return lipgloss.PlaceHorizontal(lay.width, lipgloss.Center, line)
}

// viewIndicators renders one dot per variation, the current one
// filled, plus the detail chip at the right edge when it fits.
func (m Model) viewIndicators(lay layout) string {
	if lay.indicatorN == 0 {
		pos := fmt.Sprintf("%d/%d", m.varIdx+1, m.variationCount())
		return lipgloss.PlaceHorizontal(lay.width, lipgloss.Center, statusStyle.Render(pos))
	}

	on := indicatorOnStyle.Foreground(lipgloss.Color(m.palette.Accent))
	off := indicatorOffStyle.Foreground(lipgloss.Color(m.palette.Text))

	var dots strings.Builder
	for i := 0; i < lay.indicatorN; i++ {
		if i > 0 {
			dots.WriteRune(' ')
		}
		if i == m.varIdx {
			dots.WriteString(on.Render("●"))
		} else {
			dots.WriteString(off.Render("○"))
		}
	}

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", lay.indicatorX0))
	b.WriteString(dots.String())
	if lay.detailX0 >= 0 {
		gap := lay.detailX0 - (lay.indicatorX0 + 2*lay.indicatorN - 1)
		b.WriteString(strings.Repeat(" ", gap))
		b.WriteString(chipStyle.Render(detailChip))
	}
	return b.String()
}

// viewStatus renders the bottom line: position and style on the left,
// transient notices in the middle, key help on the right.
func (m Model) viewStatus(lay layout) string {
	u := m.unit()
	v := m.variationAt(m.varIdx)

	left := fmt.Sprintf("%d/%d · %s", m.unitIdx+1, len(m.man.Units), v.StyleName(u.StyleName))
	if label := v.ModelLabel(); label != "" && lay.width >= 60 {
		left += " · " + label
	}
	left = runewidth.Truncate(left, lay.width/2, "…")
	leftR := statusStyle.Render(left)

	var center string
	switch {
	case m.status != "":
		center = statusStyle.Render(m.status)
	case m.paused:
		center = pausedStyle.Foreground(lipgloss.Color(m.palette.Accent)).Render("paused")
	}

	right := ""
	if lay.width >= 48 {
		right = m.help.View(m.keys)
	}

	used := lipgloss.Width(leftR) + lipgloss.Width(center) + lipgloss.Width(right)
	if used > lay.width {
		center = ""
		used = lipgloss.Width(leftR) + lipgloss.Width(right)
	}
	if used > lay.width {
		right = ""
		used = lipgloss.Width(leftR)
	}

	pad := lay.width - used
	padL := pad / 2
	padR := pad - padL
	if center == "" {
		padL, padR = pad, 0
	}
	return leftR + strings.Repeat(" ", max(0, padL)) + center + strings.Repeat(" ", max(0, padR)) + right
}

// overlayContent builds the metadata text for the current variation.
func (m Model) overlayContent() string {
	u := m.unit()
	v := m.variationAt(m.varIdx)
	w := m.overlay.Width
	if w < 8 {
		w = 8
	}
	wrap := lipgloss.NewStyle().Width(w)

	var b strings.Builder
	b.WriteString(overlayTitleStyle.Render(runewidth.Truncate(u.Title, w, "…")))
	b.WriteRune('\n')
	sub := u.Author
	if u.Type != "" {
		if sub != "" {
			sub += " · "
		}
		sub += u.Type
	}
	if sub != "" {
		b.WriteString(overlayLabelStyle.Render(runewidth.Truncate(sub, w, "…")))
		b.WriteRune('\n')
	}

	field := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteRune('\n')
		b.WriteString(overlayLabelStyle.Render(label + ":"))
		b.WriteRune(' ')
		b.WriteString(wrap.Render(value))
	}

	if md := u.Metadata; md != nil {
		field("Source", md.Source)
		field("Tags", strings.Join(md.Tags, ", "))
		field("Why I like it", md.WhyILikeIt)
	}

	field("Style", v.StyleName(u.StyleName))
	field("Approach", u.StyleApproach)
	if g := v.Generation; g != nil {
		field("Model", v.ModelLabel())
		field("Prompt", g.Prompt)
		field("Generated", g.Timestamp)
		field("Size", g.Dimensions)
	}
	field("Image", fmt.Sprintf("%s (%d/%d)", v.Filename, m.varIdx+1, m.variationCount()))
	if br := v.Brightness; br != nil {
		tone := "dark"
		if br.IsLight {
			tone = "light"
		}
		field("Brightness", fmt.Sprintf("%.2f · %s", br.Brightness, tone))
	}
	return b.String()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
