package cmd

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"smartbudget/internal/api"
	"smartbudget/internal/cli"
	"smartbudget/internal/report"
)

var flagBudgetPeriod string

var budgetsCmd = &cobra.Command{
	Use:     "budgets",
	Aliases: []string{"budget"},
	Short:   "Manage per-category spending limits",
	RunE:    runBudgetsList,
}

var budgetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List budgets with current spend",
	RunE:  runBudgetsList,
}

var budgetsSetCmd = &cobra.Command{
	Use:   "set <category> <amount>",
	Short: "Create or update a budget (upserts per category and period)",
	Args:  cobra.ExactArgs(2),
	RunE:  runBudgetsSet,
}

var budgetsRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a budget",
	Args:  cobra.ExactArgs(1),
	RunE:  runBudgetsRm,
}

func init() {
	budgetsSetCmd.Flags().StringVar(&flagBudgetPeriod, "period", api.PeriodMonthly,
		"Budget period: monthly or annual")

	budgetsCmd.AddCommand(budgetsListCmd, budgetsSetCmd, budgetsRmCmd)
	rootCmd.AddCommand(budgetsCmd)
}

func runBudgetsList(_ *cobra.Command, _ []string) error {
	env, err := requireSession()
	if err != nil {
		return err
	}

	ctx, cancel := cmdCtx()
	defer cancel()

	budgets, err := env.client.ListBudgets(ctx)
	if err != nil {
		return friendlyErr(err)
	}
	if len(budgets) == 0 {
		fmt.Println("\n  No budgets set. Try `smartbudget budgets set Food 300`.")
		return nil
	}

	// Spend comes from the dashboard summary; a failure there still lists
	// the configured limits.
	spent := make(map[string]api.BudgetProgress)
	if summary, err := env.client.GetDashboardSummary(ctx); err == nil {
		for _, bp := range summary.BudgetProgress {
			spent[bp.Category] = bp
		}
	}

	symbol := env.cfg.Appearance.CurrencySymbol
	rows := make([][]string, len(budgets))
	for i, b := range budgets {
		spentStr := "-"
		bar := ""
		if bp, ok := spent[b.Category]; ok {
			spentStr = cli.FormatMoney(bp.Spent, symbol)
			pct, status := report.Progress(b.Amount, bp.Spent)
			bar = cli.RenderBudgetBar(pct, status, 16)
		}
		rows[i] = []string{
			b.Category,
			b.Period,
			cli.FormatMoney(b.Amount, symbol),
			spentStr,
			bar,
			b.ID,
		}
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Budgets",
		Headers: []string{"Category", "Period", "Limit", "Spent", "Progress", "ID"},
		Rows:    rows,
	}))
	return nil
}

func runBudgetsSet(_ *cobra.Command, args []string) error {
	env, err := requireSession()
	if err != nil {
		return err
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(args[1]))
	if err != nil {
		return fmt.Errorf("bad amount %q: %w", args[1], err)
	}
	if flagBudgetPeriod != api.PeriodMonthly && flagBudgetPeriod != api.PeriodAnnual {
		return fmt.Errorf("period must be %q or %q", api.PeriodMonthly, api.PeriodAnnual)
	}

	ctx, cancel := cmdCtx()
	defer cancel()

	in := api.BudgetInput{Category: args[0], Period: flagBudgetPeriod, Amount: amount}
	if err := env.client.SetBudget(ctx, in); err != nil {
		return friendlyErr(err)
	}
	fmt.Printf("  %s budget for %s set to %s\n",
		flagBudgetPeriod, in.Category,
		cli.FormatMoney(amount, env.cfg.Appearance.CurrencySymbol))
	return nil
}

func runBudgetsRm(_ *cobra.Command, args []string) error {
	env, err := requireSession()
	if err != nil {
		return err
	}

	ctx, cancel := cmdCtx()
	defer cancel()

	if err := env.client.DeleteBudget(ctx, args[0]); err != nil {
		return friendlyErr(err)
	}
	fmt.Println("  Deleted.")
	return nil
}
