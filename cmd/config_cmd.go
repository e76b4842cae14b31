// Package cmd implements the smartbudget CLI commands.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"smartbudget/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Printf("  Token file:  %s\n", config.TokenPath())
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    URL: %s\n", config.ServerURL(cfg))
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme:    %s\n", cfg.Appearance.Theme)
	fmt.Printf("    Currency: %s\n", cfg.Appearance.CurrencySymbol)
	fmt.Println()

	fmt.Println("  [Dashboard]")
	fmt.Printf("    Trend view: %s\n", cfg.Dashboard.TrendView)
	fmt.Println()

	fmt.Printf("  Edit %s to change settings.\n", config.Path())
	return nil
}
