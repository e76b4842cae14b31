package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"smartbudget/internal/api"
	"smartbudget/internal/cli"
	"smartbudget/internal/report"
)

var (
	flagExpenseCategory string
	flagExpenseFrom     string
	flagExpenseTo       string

	flagExpenseDate string
	flagExpenseDesc string

	flagExpenseEditAmount string

	flagExpenseOut string
)

var expensesCmd = &cobra.Command{
	Use:     "expenses",
	Aliases: []string{"expense"},
	Short:   "Manage expense entries",
	RunE:    runExpensesList,
}

var expensesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List expenses, optionally filtered",
	RunE:  runExpensesList,
}

var expensesAddCmd = &cobra.Command{
	Use:   "add <amount> <category>",
	Short: "Record an expense",
	Args:  cobra.ExactArgs(2),
	RunE:  runExpensesAdd,
}

var expensesEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Update an expense (only the flags you pass change)",
	Args:  cobra.ExactArgs(1),
	RunE:  runExpensesEdit,
}

var expensesRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete an expense",
	Args:  cobra.ExactArgs(1),
	RunE:  runExpensesRm,
}

var expensesExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Download expenses as a spreadsheet",
	RunE:  runExpensesExport,
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List expense categories",
	RunE:  runCategories,
}

func init() {
	for _, c := range []*cobra.Command{expensesCmd, expensesListCmd} {
		c.Flags().StringVarP(&flagExpenseCategory, "category", "c", "", "Filter by category")
		c.Flags().StringVar(&flagExpenseFrom, "from", "", "Earliest date (YYYY-MM-DD)")
		c.Flags().StringVar(&flagExpenseTo, "to", "", "Latest date (YYYY-MM-DD)")
	}

	expensesAddCmd.Flags().StringVar(&flagExpenseDate, "date", "", "Date spent (YYYY-MM-DD, default today)")
	expensesAddCmd.Flags().StringVarP(&flagExpenseDesc, "note", "m", "", "Description")

	expensesEditCmd.Flags().StringVar(&flagExpenseEditAmount, "amount", "", "New amount")
	expensesEditCmd.Flags().StringVarP(&flagExpenseCategory, "category", "c", "", "New category")
	expensesEditCmd.Flags().StringVarP(&flagExpenseDesc, "note", "m", "", "New description")
	expensesEditCmd.Flags().StringVar(&flagExpenseDate, "date", "", "New date (YYYY-MM-DD)")

	expensesExportCmd.Flags().StringVarP(&flagExpenseOut, "out", "o", "expenses.xlsx", "Output file")

	expensesCmd.AddCommand(expensesListCmd, expensesAddCmd, expensesEditCmd, expensesRmCmd, expensesExportCmd, categoriesCmd)
	rootCmd.AddCommand(expensesCmd)
}

func runExpensesList(_ *cobra.Command, _ []string) error {
	env, err := requireSession()
	if err != nil {
		return err
	}

	ctx, cancel := cmdCtx()
	defer cancel()

	var list []api.Expense
	if flagExpenseCategory != "" || flagExpenseFrom != "" || flagExpenseTo != "" {
		list, err = env.client.FilterExpenses(ctx, api.ExpenseFilter{
			Category: flagExpenseCategory,
			From:     flagExpenseFrom,
			To:       flagExpenseTo,
		})
	} else {
		list, err = env.client.ListExpenses(ctx)
	}
	if err != nil {
		return friendlyErr(err)
	}

	symbol := env.cfg.Appearance.CurrencySymbol
	if len(list) == 0 {
		fmt.Println("\n  No expenses recorded.")
		return nil
	}

	rows := make([][]string, len(list))
	for i, ex := range list {
		rows[i] = []string{
			cli.FormatDate(ex.Date),
			ex.Category,
			ex.Description,
			cli.FormatMoney(ex.Amount, symbol),
			ex.ID,
		}
	}

	total := report.Sum(report.FromExpenses(list))

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   fmt.Sprintf("Expenses · %d entries · %s total", len(list), cli.FormatMoney(total, symbol)),
		Headers: []string{"Date", "Category", "Description", "Amount", "ID"},
		Rows:    rows,
	}))
	return nil
}

func runExpensesAdd(_ *cobra.Command, args []string) error {
	env, err := requireSession()
	if err != nil {
		return err
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(args[0]))
	if err != nil {
		return fmt.Errorf("bad amount %q: %w", args[0], err)
	}

	in := api.ExpenseInput{
		Amount:      amount,
		Category:    args[1],
		Description: flagExpenseDesc,
		Date:        dateOrToday(flagExpenseDate),
	}

	ctx, cancel := cmdCtx()
	defer cancel()

	if err := env.client.AddExpense(ctx, in); err != nil {
		return friendlyErr(err)
	}
	fmt.Printf("  Added %s on %s\n", cli.FormatMoney(amount, env.cfg.Appearance.CurrencySymbol), in.Category)
	return nil
}

func runExpensesEdit(cmd *cobra.Command, args []string) error {
	env, err := requireSession()
	if err != nil {
		return err
	}

	ctx, cancel := cmdCtx()
	defer cancel()

	// The update endpoint replaces the record, so start from its current
	// state and overlay the flags that were actually passed.
	list, err := env.client.ListExpenses(ctx)
	if err != nil {
		return friendlyErr(err)
	}
	var current *api.Expense
	for i := range list {
		if list[i].ID == args[0] {
			current = &list[i]
			break
		}
	}
	if current == nil {
		return fmt.Errorf("no expense with id %s", args[0])
	}

	in := api.ExpenseInput{
		Amount:      current.Amount,
		Category:    current.Category,
		Description: current.Description,
		Date:        current.Date,
	}
	if cmd.Flags().Changed("amount") {
		amount, err := decimal.NewFromString(strings.TrimSpace(flagExpenseEditAmount))
		if err != nil {
			return fmt.Errorf("bad amount %q: %w", flagExpenseEditAmount, err)
		}
		in.Amount = amount
	}
	if cmd.Flags().Changed("category") {
		in.Category = flagExpenseCategory
	}
	if cmd.Flags().Changed("note") {
		in.Description = flagExpenseDesc
	}
	if cmd.Flags().Changed("date") {
		in.Date = flagExpenseDate
	}

	if err := env.client.UpdateExpense(ctx, args[0], in); err != nil {
		return friendlyErr(err)
	}
	fmt.Println("  Updated.")
	return nil
}

func runExpensesRm(_ *cobra.Command, args []string) error {
	env, err := requireSession()
	if err != nil {
		return err
	}

	ctx, cancel := cmdCtx()
	defer cancel()

	if err := env.client.DeleteExpense(ctx, args[0]); err != nil {
		return friendlyErr(err)
	}
	fmt.Println("  Deleted.")
	return nil
}

func runExpensesExport(_ *cobra.Command, _ []string) error {
	env, err := requireSession()
	if err != nil {
		return err
	}

	progressf("  Downloading export...\n")

	ctx, cancel := cmdCtx()
	defer cancel()

	data, err := env.client.ExportExpenses(ctx)
	if err != nil {
		return friendlyErr(err)
	}
	if err := os.WriteFile(flagExpenseOut, data, 0o644); err != nil {
		return err
	}
	fmt.Printf("  Saved %s (%d bytes)\n", flagExpenseOut, len(data))
	return nil
}

func runCategories(_ *cobra.Command, _ []string) error {
	env, err := requireSession()
	if err != nil {
		return err
	}

	ctx, cancel := cmdCtx()
	defer cancel()

	cats, err := env.client.GetExpenseCategories(ctx)
	if err != nil {
		return friendlyErr(err)
	}

	fmt.Println()
	for _, c := range cats {
		fmt.Printf("  %s\n", c)
	}
	return nil
}
