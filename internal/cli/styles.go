package cli

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

const barWidth = 30

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Width(22)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	goodStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	badgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Padding(0, 1)

	activeCell   = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("■")
	inactiveCell = lipgloss.NewStyle().Foreground(lipgloss.Color("238")).Render("□")
)

func title(s string) string {
	return titleStyle.Render(s)
}

// row renders an aligned "label  value" line.
func row(label string, value interface{}) string {
	return labelStyle.Render(label) + valueStyle.Render(fmt.Sprint(value))
}

// bar renders a static progress bar for a 0..100 score.
func bar(score float64) string {
	b := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(barWidth),
	)
	pct := score / 100
	if pct < 0 {
		pct = 0
	}
	if pct > 1 {
		pct = 1
	}
	return b.ViewAs(pct)
}

func trendArrow(direction string) string {
	switch direction {
	case "up", "improving":
		return goodStyle.Render("↑ " + direction)
	case "down", "declining":
		return warnStyle.Render("↓ " + direction)
	case "stable":
		return valueStyle.Render("→ " + direction)
	default:
		return mutedStyle.Render(direction)
	}
}
