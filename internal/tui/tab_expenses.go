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

func (a App) renderExpensesTab(cw, contentH int) string {
	t := theme.Active
	symbol := a.cfg.Appearance.CurrencySymbol

	var b strings.Builder

	if a.expensesErr != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(t.Red).Render(" " + a.expensesErr))
		b.WriteString("\n")
	}

	entries := report.FromExpenses(a.expenses)
	total := report.Sum(entries)
	trend := report.MonthOverMonth(entries, time.Now())

	topCategory := ""
	if groups := report.GroupByLabel(entries); len(groups) > 0 {
		top := groups[0]
		for _, g := range groups[1:] {
			if g.Total.GreaterThan(top.Total) {
				top = g
			}
		}
		topCategory = top.Label
	}

	cards := []struct {
		Label, Amount, Trend string
		Accent               lipgloss.Color
	}{
		{"Total Spent", cli.FormatMoney(total, symbol), monthDelta(trend, symbol), t.Red},
		{"Entries", cli.FormatCount(len(a.expenses)), "", t.Blue},
		{"Top Category", topCategory, "", t.Orange},
	}
	b.WriteString(components.SummaryCardRow(cards, cw))
	b.WriteString("\n")

	listH := contentH - lipgloss.Height(b.String()) - 3
	if listH < 3 {
		listH = 3
	}
	b.WriteString(components.ContentCard("Expenses", a.expenseList(components.CardInnerWidth(cw), listH), cw))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(t.TextDim).Render(" [a]dd  [enter]edit  [x]delete  [s]export  [j/k]select"))

	return b.String()
}

func (a App) expenseList(width, height int) string {
	t := theme.Active
	symbol := a.cfg.Appearance.CurrencySymbol

	if len(a.expenses) == 0 {
		return lipgloss.NewStyle().Foreground(t.TextDim).Render("No expenses recorded. Press [a] to add one.")
	}

	start, end := listWindow(a.expenseCursor, len(a.expenses), height)

	catW := 14
	descW := width - 14 - catW - 14
	if descW < 8 {
		descW = 8
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		ex := a.expenses[i]

		dateStyle := lipgloss.NewStyle().Foreground(t.TextDim)
		catStyle := lipgloss.NewStyle().Foreground(t.Orange)
		descStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
		amountStyle := lipgloss.NewStyle().Foreground(t.Red)
		if i == a.expenseCursor {
			dateStyle = dateStyle.Background(t.SurfaceHover)
			catStyle = catStyle.Background(t.SurfaceHover)
			descStyle = descStyle.Background(t.SurfaceHover).Bold(true)
			amountStyle = amountStyle.Background(t.SurfaceHover)
		}

		fmt.Fprintf(&b, "%s %s %s %s",
			dateStyle.Render(fmt.Sprintf("%-13s", cli.FormatDate(ex.Date))),
			catStyle.Render(fmt.Sprintf("%-*s", catW, truncStr(ex.Category, catW))),
			descStyle.Render(fmt.Sprintf("%-*s", descW, truncStr(ex.Description, descW))),
			amountStyle.Render(cli.FormatMoney(ex.Amount, symbol)))
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
