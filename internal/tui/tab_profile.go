package tui

import (
	"fmt"
	"strings"

	"smartbudget/internal/config"
	"smartbudget/internal/tui/components"
	"smartbudget/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderProfileTab(cw int) string {
	t := theme.Active

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	sess, ok := a.store.Current()
	if !ok {
		return dimStyle.Render(" Not signed in")
	}

	emoji := "🙂"
	if a.avatar != nil && a.avatar.Emoji != "" {
		emoji = a.avatar.Emoji
	}

	var acct strings.Builder
	fmt.Fprintf(&acct, "%s  %s\n\n", emoji, valueStyle.Render(sess.Username))
	fmt.Fprintf(&acct, "%s %s\n",
		labelStyle.Render("Session expires"),
		valueStyle.Render(sess.TokenExpiry.Format("Jan 2, 2006 15:04")))
	if a.avatar != nil && a.avatar.ProfilePic != "" {
		fmt.Fprintf(&acct, "%s %s\n",
			labelStyle.Render("Profile picture"),
			valueStyle.Render("uploaded"))
	}

	var settings strings.Builder
	fmt.Fprintf(&settings, "%s %s\n",
		labelStyle.Render("Server  "),
		valueStyle.Render(config.ServerURL(a.cfg)))
	fmt.Fprintf(&settings, "%s %s\n",
		labelStyle.Render("Theme   "),
		valueStyle.Render(a.cfg.Appearance.Theme))
	fmt.Fprintf(&settings, "%s %s\n",
		labelStyle.Render("Currency"),
		valueStyle.Render(a.cfg.Appearance.CurrencySymbol))
	settings.WriteString("\n")
	settings.WriteString(dimStyle.Render("Edit " + config.Path() + " to change"))

	var b strings.Builder
	halves := components.LayoutRow(cw, 2)
	b.WriteString(components.CardRow([]string{
		components.ContentCard("Account", acct.String(), halves[0]),
		components.ContentCard("Settings", settings.String(), halves[1]),
	}))
	b.WriteString("\n")

	if len(a.categories) > 0 {
		b.WriteString(components.ContentCard("Expense Categories", strings.Join(a.categories, " · "), cw))
		b.WriteString("\n")
	}

	b.WriteString(dimStyle.Render(" [a]vatar  [l]ogout"))
	return b.String()
}
