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
	flagIncomeSource string
	flagIncomeFrom   string
	flagIncomeTo     string

	flagIncomeDate       string
	flagIncomeRecurrence string
	flagIncomeNext       string

	flagIncomeEditAmount string

	flagIncomeOut string
)

var incomeCmd = &cobra.Command{
	Use:   "income",
	Short: "Manage income entries",
	RunE:  runIncomeList,
}

var incomeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List income, optionally filtered",
	RunE:  runIncomeList,
}

var incomeAddCmd = &cobra.Command{
	Use:   "add <amount> <source>",
	Short: "Record income",
	Args:  cobra.ExactArgs(2),
	RunE:  runIncomeAdd,
}

var incomeEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Update an income entry (only the flags you pass change)",
	Args:  cobra.ExactArgs(1),
	RunE:  runIncomeEdit,
}

var incomeRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete an income entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runIncomeRm,
}

var incomeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Download income as a spreadsheet",
	RunE:  runIncomeExport,
}

func init() {
	for _, c := range []*cobra.Command{incomeCmd, incomeListCmd} {
		c.Flags().StringVar(&flagIncomeSource, "source", "", "Filter by source (substring match)")
		c.Flags().StringVar(&flagIncomeFrom, "from", "", "Earliest date (YYYY-MM-DD)")
		c.Flags().StringVar(&flagIncomeTo, "to", "", "Latest date (YYYY-MM-DD)")
	}

	incomeAddCmd.Flags().StringVar(&flagIncomeDate, "date", "", "Date received (YYYY-MM-DD, default today)")
	incomeAddCmd.Flags().StringVar(&flagIncomeRecurrence, "repeats", "",
		"Recurring interval: daily, weekly, monthly, yearly")
	incomeAddCmd.Flags().StringVar(&flagIncomeNext, "next", "",
		"Next occurrence (YYYY-MM-DD, recurring income only)")

	incomeEditCmd.Flags().StringVar(&flagIncomeEditAmount, "amount", "", "New amount")
	incomeEditCmd.Flags().StringVar(&flagIncomeSource, "source", "", "New source")
	incomeEditCmd.Flags().StringVar(&flagIncomeDate, "date", "", "New date (YYYY-MM-DD)")
	incomeEditCmd.Flags().StringVar(&flagIncomeRecurrence, "repeats", "",
		"New recurring interval, or \"none\" for one-time")

	incomeExportCmd.Flags().StringVarP(&flagIncomeOut, "out", "o", "income.xlsx", "Output file")

	incomeCmd.AddCommand(incomeListCmd, incomeAddCmd, incomeEditCmd, incomeRmCmd, incomeExportCmd)
	rootCmd.AddCommand(incomeCmd)
}

func runIncomeList(_ *cobra.Command, _ []string) error {
	env, err := requireSession()
	if err != nil {
		return err
	}

	ctx, cancel := cmdCtx()
	defer cancel()

	var list []api.Income
	if flagIncomeSource != "" || flagIncomeFrom != "" || flagIncomeTo != "" {
		list, err = env.client.FilterIncome(ctx, api.IncomeFilter{
			Source: flagIncomeSource,
			From:   flagIncomeFrom,
			To:     flagIncomeTo,
		})
	} else {
		list, err = env.client.ListIncome(ctx)
	}
	if err != nil {
		return friendlyErr(err)
	}

	symbol := env.cfg.Appearance.CurrencySymbol
	if len(list) == 0 {
		fmt.Println("\n  No income recorded.")
		return nil
	}

	rows := make([][]string, len(list))
	for i, in := range list {
		rows[i] = []string{
			cli.FormatDate(in.Date),
			in.Source,
			cli.FormatRecurrence(in.IsRecurring, in.Recurrence),
			cli.FormatMoney(in.Amount, symbol),
			in.ID,
		}
	}

	total := report.Sum(report.FromIncome(list))

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   fmt.Sprintf("Income · %d entries · %s total", len(list), cli.FormatMoney(total, symbol)),
		Headers: []string{"Date", "Source", "Repeats", "Amount", "ID"},
		Rows:    rows,
	}))
	return nil
}

func runIncomeAdd(_ *cobra.Command, args []string) error {
	env, err := requireSession()
	if err != nil {
		return err
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(args[0]))
	if err != nil {
		return fmt.Errorf("bad amount %q: %w", args[0], err)
	}

	in := api.IncomeInput{
		Amount:      amount,
		Source:      args[1],
		Date:        dateOrToday(flagIncomeDate),
		IsRecurring: flagIncomeRecurrence != "",
		Recurrence:  flagIncomeRecurrence,
	}
	if in.IsRecurring {
		in.NextOccurrence = flagIncomeNext
	}

	ctx, cancel := cmdCtx()
	defer cancel()

	if err := env.client.AddIncome(ctx, in); err != nil {
		return friendlyErr(err)
	}
	fmt.Printf("  Added %s from %s\n", cli.FormatMoney(amount, env.cfg.Appearance.CurrencySymbol), in.Source)
	return nil
}

func runIncomeEdit(cmd *cobra.Command, args []string) error {
	env, err := requireSession()
	if err != nil {
		return err
	}

	ctx, cancel := cmdCtx()
	defer cancel()

	// The update endpoint replaces the record, so start from its current
	// state and overlay the flags that were actually passed.
	list, err := env.client.ListIncome(ctx)
	if err != nil {
		return friendlyErr(err)
	}
	var current *api.Income
	for i := range list {
		if list[i].ID == args[0] {
			current = &list[i]
			break
		}
	}
	if current == nil {
		return fmt.Errorf("no income entry with id %s", args[0])
	}

	in := api.IncomeInput{
		Amount:         current.Amount,
		Source:         current.Source,
		Date:           current.Date,
		IsRecurring:    current.IsRecurring,
		Recurrence:     current.Recurrence,
		NextOccurrence: current.NextOccurrence,
	}
	if cmd.Flags().Changed("amount") {
		amount, err := decimal.NewFromString(strings.TrimSpace(flagIncomeEditAmount))
		if err != nil {
			return fmt.Errorf("bad amount %q: %w", flagIncomeEditAmount, err)
		}
		in.Amount = amount
	}
	if cmd.Flags().Changed("source") {
		in.Source = flagIncomeSource
	}
	if cmd.Flags().Changed("date") {
		in.Date = flagIncomeDate
	}
	if cmd.Flags().Changed("repeats") {
		if flagIncomeRecurrence == "none" {
			in.IsRecurring = false
			in.Recurrence = ""
		} else {
			in.IsRecurring = true
			in.Recurrence = flagIncomeRecurrence
		}
	}

	if err := env.client.UpdateIncome(ctx, args[0], in); err != nil {
		return friendlyErr(err)
	}
	fmt.Println("  Updated.")
	return nil
}

func runIncomeRm(_ *cobra.Command, args []string) error {
	env, err := requireSession()
	if err != nil {
		return err
	}

	ctx, cancel := cmdCtx()
	defer cancel()

	if err := env.client.DeleteIncome(ctx, args[0]); err != nil {
		return friendlyErr(err)
	}
	fmt.Println("  Deleted.")
	return nil
}

func runIncomeExport(_ *cobra.Command, _ []string) error {
	env, err := requireSession()
	if err != nil {
		return err
	}

	progressf("  Downloading export...\n")

	ctx, cancel := cmdCtx()
	defer cancel()

	data, err := env.client.ExportIncome(ctx)
	if err != nil {
		return friendlyErr(err)
	}
	if err := os.WriteFile(flagIncomeOut, data, 0o644); err != nil {
		return err
	}
	fmt.Printf("  Saved %s (%d bytes)\n", flagIncomeOut, len(data))
	return nil
}
