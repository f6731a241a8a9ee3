package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// halfBlock shows two pixels per cell: foreground paints the upper
// half, background the lower.
const halfBlock = "▀"

// ComposeLines renders the grid as one string per terminal row. A grid
// of height H yields H/2 rows; an odd trailing pixel line is dropped.
func ComposeLines(g *Grid) []string {
	rows := g.H / 2
	lines := make([]string, rows)
	var b strings.Builder
	for row := 0; row < rows; row++ {
		b.Reset()
		for x := 0; x < g.W; x++ {
			top := g.At(x, row*2).Clamped()
			bottom := g.At(x, row*2+1).Clamped()
			cell := lipgloss.NewStyle().
				Foreground(lipgloss.Color(top.Hex())).
				Background(lipgloss.Color(bottom.Hex())).
				Render(halfBlock)
			b.WriteString(cell)
		}
		lines[row] = b.String()
	}
	return lines
}
