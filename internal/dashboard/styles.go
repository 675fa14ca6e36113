package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("6")).
			Padding(1, 2).
			Width(52)

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	valueStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	goodStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	critStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)

	barFillStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	barEmptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// renderBar draws a label + filled/empty block bar + percentage, the same
// shape as the fleet dashboard's resource bars, generalized from "percent
// of capacity used" to "fraction of run complete".
func renderBar(label string, frac float64, width int) string {
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}

	barWidth := width - len(label) - 10
	if barWidth < 10 {
		barWidth = 10
	}

	filled := int(frac * float64(barWidth))
	if filled > barWidth {
		filled = barWidth
	}
	empty := barWidth - filled

	bar := barFillStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", empty))

	return fmt.Sprintf("%s [%s] %5.1f%%", label, bar, frac*100)
}

// penaltyStyle colors a [0,1] penalty score: low is good (green), high is
// bad (red), matching the resource-bar thresholds' sense (lower utilisation
// risk reads as healthier) inverted for "this is a cost, not a gauge".
func penaltyStyle(v float64) lipgloss.Style {
	switch {
	case v >= 0.66:
		return critStyle
	case v >= 0.33:
		return warnStyle
	default:
		return goodStyle
	}
}
