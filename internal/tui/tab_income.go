package tui

import (
	"fmt"
	"strings"
	"time"

	"smartbudget/internal/cli"
	"smartbudget/internal/report"
	"smartbudget/internal/tui/components"
	"smartbudget/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderIncomeTab(cw, contentH int) string {
	t := theme.Active
	symbol := a.cfg.Appearance.CurrencySymbol

	var b strings.Builder

	if a.incomeErr != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(t.Red).Render(" " + a.incomeErr))
		b.WriteString("\n")
	}

	entries := report.FromIncome(a.income)
	total := report.Sum(entries)
	trend := report.MonthOverMonth(entries, time.Now())

	cards := []struct {
		Label, Amount, Trend string
		Accent               lipgloss.Color
	}{
		{"Total Income", cli.FormatMoney(total, symbol), monthDelta(trend, symbol), t.Green},
		{"Entries", cli.FormatCount(len(a.income)), "", t.Blue},
	}
	b.WriteString(components.SummaryCardRow(cards, cw))
	b.WriteString("\n")

	listH := contentH - lipgloss.Height(b.String()) - 3
	if listH < 3 {
		listH = 3
	}
	b.WriteString(components.ContentCard("Income", a.incomeList(components.CardInnerWidth(cw), listH), cw))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(t.TextDim).Render(" [a]dd  [enter]edit  [x]delete  [s]export  [j/k]select"))

	return b.String()
}

func (a App) incomeList(width, height int) string {
	t := theme.Active
	symbol := a.cfg.Appearance.CurrencySymbol

	if len(a.income) == 0 {
		return lipgloss.NewStyle().Foreground(t.TextDim).Render("No income recorded. Press [a] to add one.")
	}

	start, end := listWindow(a.incomeCursor, len(a.income), height)

	labelW := width - 14 - 12 - 14
	if labelW < 8 {
		labelW = 8
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		in := a.income[i]

		dateStyle := lipgloss.NewStyle().Foreground(t.TextDim)
		sourceStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
		recurStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
		amountStyle := lipgloss.NewStyle().Foreground(t.Green)
		if i == a.incomeCursor {
			dateStyle = dateStyle.Background(t.SurfaceHover)
			sourceStyle = sourceStyle.Background(t.SurfaceHover).Bold(true)
			recurStyle = recurStyle.Background(t.SurfaceHover)
			amountStyle = amountStyle.Background(t.SurfaceHover)
		}

		fmt.Fprintf(&b, "%s %s %s %s",
			dateStyle.Render(fmt.Sprintf("%-13s", cli.FormatDate(in.Date))),
			sourceStyle.Render(fmt.Sprintf("%-*s", labelW, truncStr(in.Source, labelW))),
			recurStyle.Render(fmt.Sprintf("%-10s", cli.FormatRecurrence(in.IsRecurring, in.Recurrence))),
			amountStyle.Render(cli.FormatMoney(in.Amount, symbol)))
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// listWindow returns the [start, end) slice bounds that keep cursor visible
// in a viewport of height rows.
func listWindow(cursor, n, height int) (int, int) {
	if height < 1 {
		height = 1
	}
	if n <= height {
		return 0, n
	}
	start := cursor - height/2
	if start < 0 {
		start = 0
	}
	if start+height > n {
		start = n - height
	}
	return start, start + height
}
