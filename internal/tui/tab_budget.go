package tui

import (
	"fmt"
	"strings"

	"smartbudget/internal/api"
	"smartbudget/internal/cli"
	"smartbudget/internal/tui/components"
	"smartbudget/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderBudgetTab(cw int) string {
	t := theme.Active
	symbol := a.cfg.Appearance.CurrencySymbol

	var b strings.Builder

	if a.budgetsErr != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(t.Red).Render(" " + a.budgetsErr))
		b.WriteString("\n")
	}

	if len(a.budgets) == 0 {
		body := lipgloss.NewStyle().Foreground(t.TextDim).Render("No budgets set. Press [a] to create one.")
		b.WriteString(components.ContentCard("Budgets", body, cw))
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(t.TextDim).Render(" [a]dd  [x]delete  [j/k]select"))
		return b.String()
	}

	// Server-computed spend per category; bars fall back to limit-only
	// rows when the summary fetch failed.
	spent := make(map[string]api.BudgetProgress)
	if a.summary != nil {
		for _, bp := range a.summary.BudgetProgress {
			spent[bp.Category] = bp
		}
	}

	labelW := 0
	for _, budget := range a.budgets {
		if len(budget.Category) > labelW {
			labelW = len(budget.Category)
		}
	}
	if labelW > 16 {
		labelW = 16
	}

	innerW := components.CardInnerWidth(cw)
	barW := innerW - labelW - 34
	if barW < 10 {
		barW = 10
	}

	cursorStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)

	var body strings.Builder
	for i, budget := range a.budgets {
		marker := "  "
		if i == a.budgetCursor {
			marker = cursorStyle.Render("> ")
		}

		label := truncStr(budget.Category, labelW)
		detail := fmt.Sprintf("%s limit · %s", cli.FormatMoney(budget.Amount, symbol), budget.Period)

		frac := 0.0
		if bp, ok := spent[budget.Category]; ok {
			if f, _ := budget.Amount.Float64(); f > 0 {
				sf, _ := bp.Spent.Float64()
				frac = sf / f
			} else if bp.Spent.IsPositive() {
				frac = 2 // no limit but spending exists, render as overrun
			}
			detail = fmt.Sprintf("%s of %s · %s",
				cli.FormatMoney(bp.Spent, symbol),
				cli.FormatMoney(budget.Amount, symbol),
				budget.Period)
		}

		body.WriteString(marker)
		body.WriteString(components.BudgetBar(label, frac, detail, labelW, barW))
		if i < len(a.budgets)-1 {
			body.WriteString("\n")
		}
	}

	b.WriteString(components.ContentCard("Budgets", body.String(), cw))
	b.WriteString("\n")

	// Alerts repeated here so overruns are visible where budgets are managed
	if a.summary != nil && len(a.summary.Alerts) > 0 {
		warnStyle := lipgloss.NewStyle().Foreground(t.Orange)
		var alerts strings.Builder
		for i, alert := range a.summary.Alerts {
			alerts.WriteString(warnStyle.Render("⚠ " + truncStr(alert.Message, innerW-2)))
			if i < len(a.summary.Alerts)-1 {
				alerts.WriteString("\n")
			}
		}
		b.WriteString(components.ContentCard("Alerts", alerts.String(), cw))
		b.WriteString("\n")
	}

	b.WriteString(lipgloss.NewStyle().Foreground(t.TextDim).Render(" [a]dd or update  [x]delete  [j/k]select"))
	return b.String()
}
