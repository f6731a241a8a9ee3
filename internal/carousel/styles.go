package carousel

import "github.com/charmbracelet/lipgloss"

var (
	quoteStyle        = lipgloss.NewStyle().Align(lipgloss.Center).Italic(true)
	attributionStyle  = lipgloss.NewStyle().Faint(true)
	indicatorOnStyle  = lipgloss.NewStyle().Bold(true)
	indicatorOffStyle = lipgloss.NewStyle().Faint(true)
	statusStyle       = lipgloss.NewStyle().Faint(true)
	pausedStyle       = lipgloss.NewStyle().Bold(true)
	chipStyle         = lipgloss.NewStyle().Faint(true).Underline(true)
	loadingStyle      = lipgloss.NewStyle().Faint(true)
	overlayStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 2)
	overlayTitleStyle = lipgloss.NewStyle().Bold(true)
	overlayLabelStyle = lipgloss.NewStyle().Faint(true)
)

// quoteTier maps quote length to presentation emphasis: short
// passages get a narrow, bold column, long ones spread out and stay
// plain. Mirrors the site's display-size tiers.
func quoteTier(n int) (widthFrac float64, bold bool) {
	switch {
	case n < 50:
		return 0.60, true
	case n < 150:
		return 0.70, true
	case n < 300:
		return 0.80, false
	case n < 500:
		return 0.90, false
	default:
		return 0.95, false
	}
}
