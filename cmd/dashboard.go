package cmd

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"smartbudget/internal/api"
	"smartbudget/internal/cli"
	"smartbudget/internal/report"
)

var flagTrendView string

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"summary"},
	Short:   "Show the finance overview",
	RunE:    runDashboard,
}

func init() {
	dashboardCmd.Flags().StringVar(&flagTrendView, "trend", "",
		"Trend window: weekly, monthly, yearly (default from config)")
	rootCmd.AddCommand(dashboardCmd)
}

// dashboardData holds per-slot results. Each slot carries its own error so
// one failed request doesn't sink the whole view.
type dashboardData struct {
	summary    api.DashboardSummary
	summaryErr error
	income     []api.Income
	incomeErr  error
	expenses   []api.Expense
	expErr     error
	recent     api.RecentTransactions
	recentErr  error
}

func runDashboard(_ *cobra.Command, _ []string) error {
	env, err := requireSession()
	if err != nil {
		return err
	}

	progressf("  Fetching...\n")

	ctx, cancel := cmdCtx()
	defer cancel()

	var data dashboardData
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		data.summary, data.summaryErr = env.client.GetDashboardSummary(gctx)
		return nil
	})
	g.Go(func() error {
		data.income, data.incomeErr = env.client.ListIncome(gctx)
		return nil
	})
	g.Go(func() error {
		data.expenses, data.expErr = env.client.ListExpenses(gctx)
		return nil
	})
	g.Go(func() error {
		data.recent, data.recentErr = env.client.GetRecentTransactions(gctx)
		return nil
	})
	_ = g.Wait() // goroutines record errors per slot, never abort the group

	// A stale token fails every slot the same way; report it once
	for _, slotErr := range []error{data.summaryErr, data.incomeErr, data.expErr, data.recentErr} {
		if api.IsUnauthorized(slotErr) {
			return friendlyErr(slotErr)
		}
	}

	symbol := env.cfg.Appearance.CurrencySymbol
	now := time.Now()

	sess, _ := env.store.Current()
	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("%s, %s", cli.Greeting(now), sess.Username)))
	fmt.Println()

	incomeEntries := report.FromIncome(data.income)
	expenseEntries := report.FromExpenses(data.expenses)

	// Totals: prefer the server aggregate, recompute locally if it failed
	totals := report.Summary{
		TotalIncome:   data.summary.TotalIncome,
		TotalExpenses: data.summary.TotalExpenses,
		Balance:       data.summary.Balance,
	}
	if data.summaryErr != nil {
		totals = report.Totals(incomeEntries, expenseEntries)
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"", "Amount"},
		Rows: [][]string{
			{"Income", cli.FormatMoney(totals.TotalIncome, symbol)},
			{"Expenses", cli.FormatMoney(totals.TotalExpenses, symbol)},
			{"---"},
			{"Balance", cli.FormatMoney(totals.Balance, symbol)},
		},
	}))
	fmt.Println()

	// Spending trend sparkline
	view := report.ParseTrendView(env.cfg.Dashboard.TrendView)
	if flagTrendView != "" {
		view = report.ParseTrendView(flagTrendView)
	}
	if data.expErr == nil && len(data.expenses) > 0 {
		buckets := report.Buckets(expenseEntries, view, now)
		fmt.Printf("  Spending (%s)  %s\n\n", view, cli.RenderSparkline(cli.SparklineValues(buckets)))
		printCategoryBreakdown(expenseEntries, symbol)
	}

	// Budget progress
	if data.summaryErr == nil && len(data.summary.BudgetProgress) > 0 {
		rows := make([][]string, len(data.summary.BudgetProgress))
		for i, bp := range data.summary.BudgetProgress {
			pct, status := report.Progress(bp.Budget, bp.Spent)
			rows[i] = []string{
				bp.Category,
				cli.FormatMoney(bp.Spent, symbol),
				cli.FormatMoney(bp.Budget, symbol),
				cli.RenderBudgetBar(pct, status, 16),
			}
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Budgets",
			Headers: []string{"Category", "Spent", "Limit", "Progress"},
			Rows:    rows,
		}))
	}
	for _, alert := range data.summary.Alerts {
		fmt.Printf("  %s\n", cli.RenderWarn("⚠ "+alert.Message))
	}

	// Recent activity
	if data.recentErr == nil {
		printRecent(data.recent, symbol)
	}

	// Surface slot failures after whatever data did arrive
	warn := lipgloss.NewStyle().Foreground(cli.ColorOrange)
	slots := []struct {
		label string
		err   error
	}{
		{"summary", data.summaryErr},
		{"income", data.incomeErr},
		{"expenses", data.expErr},
		{"recent", data.recentErr},
	}
	for _, s := range slots {
		if s.err != nil {
			fmt.Printf("  %s\n", warn.Render(fmt.Sprintf("%s unavailable — %s", s.label, s.err)))
		}
	}

	return nil
}

// printCategoryBreakdown renders top spending categories as proportional
// horizontal bars, largest category setting the scale.
func printCategoryBreakdown(expenses []report.Entry, symbol string) {
	groups := report.GroupByLabel(expenses)
	if len(groups) == 0 {
		return
	}

	limit := 6
	if len(groups) < limit {
		limit = len(groups)
	}
	var maxVal float64
	for _, g := range groups {
		if v, _ := g.Total.Float64(); v > maxVal {
			maxVal = v
		}
	}

	fmt.Println("  By Category")
	for _, g := range groups[:limit] {
		v, _ := g.Total.Float64()
		fmt.Printf("    %-14s %-24s %s\n",
			g.Label,
			cli.RenderExpense(cli.RenderHorizontalBar(v, maxVal, 20)),
			cli.FormatMoney(g.Total, symbol))
	}
	fmt.Println()
}

func printRecent(recent api.RecentTransactions, symbol string) {
	if len(recent.Income) == 0 && len(recent.Expenses) == 0 {
		return
	}

	var rows [][]string
	for _, in := range recent.Income {
		rows = append(rows, []string{cli.FormatDate(in.Date), in.Source, "+" + cli.FormatMoney(in.Amount, symbol)})
	}
	if len(rows) > 0 && len(recent.Expenses) > 0 {
		rows = append(rows, []string{"---"})
	}
	for _, ex := range recent.Expenses {
		label := ex.Category
		if ex.Description != "" {
			label += " · " + ex.Description
		}
		rows = append(rows, []string{cli.FormatDate(ex.Date), label, "-" + cli.FormatMoney(ex.Amount, symbol)})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Recent",
		Headers: []string{"Date", "What", "Amount"},
		Rows:    rows,
	}))
}
