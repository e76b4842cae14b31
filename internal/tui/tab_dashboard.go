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

func (a App) renderDashboardTab(cw int) string {
	t := theme.Active
	symbol := a.cfg.Appearance.CurrencySymbol
	now := time.Now()

	var b strings.Builder

	// Greeting line
	username := ""
	if sess, ok := a.store.Current(); ok {
		username = sess.Username
	}
	greetStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	b.WriteString(greetStyle.Render(fmt.Sprintf(" %s, %s", cli.Greeting(now), username)))
	b.WriteString("\n")

	// Totals: server-side summary when available, recomputed from the raw
	// lists otherwise so one failed request doesn't blank the cards.
	incomeEntries := report.FromIncome(a.income)
	expenseEntries := report.FromExpenses(a.expenses)

	var totals report.Summary
	if a.summary != nil && a.summaryErr == "" {
		totals = report.Summary{
			TotalIncome:   a.summary.TotalIncome,
			TotalExpenses: a.summary.TotalExpenses,
			Balance:       a.summary.Balance,
		}
	} else {
		totals = report.Totals(incomeEntries, expenseEntries)
	}

	incomeTrend := report.MonthOverMonth(incomeEntries, now)
	expenseTrend := report.MonthOverMonth(expenseEntries, now)

	balanceColor := t.Blue
	if totals.Balance.IsNegative() {
		balanceColor = t.Red
	}

	cards := []struct {
		Label, Amount, Trend string
		Accent               lipgloss.Color
	}{
		{"Income", cli.FormatMoney(totals.TotalIncome, symbol), monthDelta(incomeTrend, symbol), t.Green},
		{"Expenses", cli.FormatMoney(totals.TotalExpenses, symbol), monthDelta(expenseTrend, symbol), t.Red},
		{"Balance", cli.FormatMoney(totals.Balance, symbol), "", balanceColor},
	}
	b.WriteString(components.SummaryCardRow(cards, cw))
	b.WriteString("\n")

	// Spending trend chart for the selected window
	buckets := report.Buckets(expenseEntries, a.trendView, now)
	chartVals := make([]float64, len(buckets))
	chartLabels := make([]string, len(buckets))
	for i, bk := range buckets {
		chartVals[i], _ = bk.Total.Float64()
		chartLabels[i] = bk.Label
	}
	b.WriteString(components.ContentCard(
		fmt.Sprintf("Spending · %s [w]", a.trendView),
		components.BarChart(chartVals, chartLabels, t.Red, components.CardInnerWidth(cw), 8),
		cw,
	))
	b.WriteString("\n")

	// Income-by-source and expenses-by-category side by side
	halves := components.LayoutRow(cw, 2)

	sourceCard := components.ContentCard("By Source",
		labeledTotals(report.GroupByLabel(incomeEntries), symbol, t.Green, "No income yet",
			components.CardInnerWidth(halves[0])), halves[0])
	catCard := components.ContentCard("By Category",
		labeledTotals(report.GroupByLabel(expenseEntries), symbol, t.Red, "No expenses yet",
			components.CardInnerWidth(halves[1])), halves[1])

	b.WriteString(components.CardRow([]string{sourceCard, catCard}))
	b.WriteString("\n")

	// Budget alerts
	var alertBody strings.Builder
	if a.summaryErr != "" {
		alertBody.WriteString(lipgloss.NewStyle().Foreground(t.Red).Render(truncStr(a.summaryErr, components.CardInnerWidth(cw))))
	} else if a.summary == nil || len(a.summary.Alerts) == 0 {
		alertBody.WriteString(lipgloss.NewStyle().Foreground(t.TextDim).Render("All budgets on track"))
	} else {
		warnStyle := lipgloss.NewStyle().Foreground(t.Orange)
		for i, alert := range a.summary.Alerts {
			alertBody.WriteString(warnStyle.Render("⚠ " + truncStr(alert.Message, components.CardInnerWidth(cw)-2)))
			if i < len(a.summary.Alerts)-1 {
				alertBody.WriteString("\n")
			}
		}
	}
	b.WriteString(components.ContentCard("Alerts", alertBody.String(), cw))
	b.WriteString("\n")

	// Recent transactions
	if a.recent != nil {
		b.WriteString(components.ContentCard("Recent", a.recentBody(components.CardInnerWidth(cw)), cw))
	}

	return b.String()
}

func monthDelta(trend report.MonthTrend, symbol string) string {
	if trend.LastMonth.IsZero() && trend.ThisMonth.IsZero() {
		return ""
	}
	if trend.LastMonth.IsZero() {
		return cli.FormatMoney(trend.ThisMonth, symbol) + " this month"
	}
	return fmt.Sprintf("%s vs last month (%+.0f%%)",
		cli.FormatMoneyDelta(trend.ThisMonth, trend.LastMonth, symbol), trend.PctChange)
}

func labeledTotals(groups []report.LabelTotal, symbol string, color lipgloss.Color, empty string, width int) string {
	if len(groups) == 0 {
		return lipgloss.NewStyle().Foreground(theme.Active.TextDim).Render(empty)
	}

	limit := 6
	if len(groups) < limit {
		limit = len(groups)
	}
	labels := make([]string, limit)
	values := make([]float64, limit)
	amounts := make([]string, limit)
	for i, g := range groups[:limit] {
		labels[i] = g.Label
		values[i], _ = g.Total.Float64()
		amounts[i] = cli.FormatMoney(g.Total, symbol)
	}
	return components.LabeledBars(labels, values, amounts, color, width)
}

func (a App) recentBody(width int) string {
	t := theme.Active
	symbol := a.cfg.Appearance.CurrencySymbol

	dateStyle := lipgloss.NewStyle().Foreground(t.TextDim)
	labelStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)

	type row struct {
		date, label, amount string
		income              bool
	}
	var rows []row
	for _, in := range a.recent.Income {
		rows = append(rows, row{cli.FormatDate(in.Date), in.Source, cli.FormatMoney(in.Amount, symbol), true})
	}
	for _, ex := range a.recent.Expenses {
		label := ex.Category
		if ex.Description != "" {
			label = ex.Category + " · " + ex.Description
		}
		rows = append(rows, row{cli.FormatDate(ex.Date), label, cli.FormatMoney(ex.Amount, symbol), false})
	}
	if len(rows) == 0 {
		return lipgloss.NewStyle().Foreground(t.TextDim).Render("Nothing yet")
	}

	labelW := width - 14 - 14
	if labelW < 8 {
		labelW = 8
	}

	var b strings.Builder
	for i, r := range rows {
		amount := "-" + r.amount
		amountStyle := lipgloss.NewStyle().Foreground(t.Red)
		if r.income {
			amount = "+" + r.amount
			amountStyle = lipgloss.NewStyle().Foreground(t.Green)
		}
		fmt.Fprintf(&b, "%s  %s %s",
			dateStyle.Render(fmt.Sprintf("%-12s", r.date)),
			labelStyle.Render(fmt.Sprintf("%-*s", labelW, truncStr(r.label, labelW))),
			amountStyle.Render(amount))
		if i < len(rows)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
