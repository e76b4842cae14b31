package cmd

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"smartbudget/internal/cli"
	"smartbudget/internal/config"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show server health and session state",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(_ *cobra.Command, _ []string) error {
	env, err := newEnv()
	if err != nil {
		return err
	}

	progressf("  Checking server...\n")

	ctx, cancel := cmdCtx()
	defer cancel()

	health, healthErr := env.client.CheckHealth(ctx)

	fmt.Println()
	fmt.Println(cli.RenderTitle("SMARTBUDGET STATUS"))
	fmt.Println()

	serverState := cli.RenderIncome("reachable")
	if healthErr != nil {
		serverState = cli.RenderExpense("unreachable")
	} else if health.Status != "" && health.Status != "ok" {
		serverState = cli.RenderWarn(health.Status)
	}

	rows := [][]string{
		{"Server", config.ServerURL(env.cfg)},
		{"Health", serverState},
	}
	if healthErr == nil && health.Message != "" {
		rows = append(rows, []string{"Message", health.Message})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Server",
		Headers: []string{"Setting", "Value"},
		Rows:    rows,
	}))
	fmt.Println()

	if sess, ok := env.store.Current(); ok {
		expires := sess.TokenExpiry.Format("Jan 2 15:04")
		remaining := time.Until(sess.TokenExpiry)
		if remaining > 0 {
			expires += " (" + formatCountdown(remaining) + ")"
		} else {
			expires = cli.RenderExpense("expired")
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Session",
			Headers: []string{"Setting", "Value"},
			Rows: [][]string{
				{"Signed in as", sess.Username},
				{"Valid until", expires},
			},
		}))
	} else {
		fmt.Printf("  Not signed in — run %s to start a session.\n", cli.RenderMuted("smartbudget login"))
	}

	if healthErr != nil {
		warn := lipgloss.NewStyle().Foreground(cli.ColorOrange)
		fmt.Printf("\n  %s\n", warn.Render(fmt.Sprintf("Health check failed — %s", healthErr)))
	}

	fmt.Printf("\n  Checked at %s\n\n", time.Now().Format("3:04:05 PM"))

	return nil
}

func formatCountdown(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
