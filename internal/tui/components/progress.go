package components

import (
	"fmt"

	"smartbudget/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// ColorForSpend returns green/yellow/orange/red based on how much of a
// budget has been consumed (0-1, may exceed 1).
func ColorForSpend(frac float64) string {
	t := theme.Active
	switch {
	case frac >= 1:
		return string(t.Red)
	case frac >= 0.85:
		return string(t.Orange)
	case frac >= 0.6:
		return string(t.Yellow)
	default:
		return string(t.Green)
	}
}

// BudgetBar renders a labeled budget progress bar with the spent/limit
// amounts after it. frac is spend over limit and may exceed 1; the bar fill
// clamps while the color keeps signaling overrun.
func BudgetBar(label string, frac float64, detail string, labelW, barWidth int) string {
	t := theme.Active

	fill := frac
	if fill < 0 {
		fill = 0
	}
	if fill > 1 {
		fill = 1
	}

	bar := progress.New(
		progress.WithSolidFill(ColorForSpend(frac)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	pctStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorForSpend(frac))).Bold(true)
	detailStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	pctStr := fmt.Sprintf("%3.0f%%", fill*100)
	if frac > 1 {
		pctStr = "over"
	}

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) +
		" " +
		bar.ViewAs(fill) +
		" " +
		pctStyle.Render(pctStr) +
		"  " +
		detailStyle.Render(detail)
}
