package cmd

import (
	"fmt"

	"github.com/theirongolddev/khata/internal/config"
	"github.com/theirongolddev/khata/internal/store"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("  Problems: %s\n", err)
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Ledger:        %s\n", store.Path(dataDir()))
	fmt.Printf("    Recent limit:  %d\n", cfg.General.RecentLimit)
	fmt.Println()

	fmt.Println("  [Currency]")
	c := cfg.Currency
	fmt.Printf("    Primary:       %s (%s)\n", c.Primary, c.Symbol(false))
	fmt.Printf("    Secondary:     %s (%s)\n", c.Secondary, c.Symbol(true))
	fmt.Printf("    Rate:          1 %s = %s %s\n", c.Secondary, config.GetExchangeRate(cfg), c.Primary)
	fmt.Println()

	fmt.Println("  [Backup]")
	if u := config.GetAMQPURL(cfg); u != "" {
		fmt.Printf("    AMQP URL:      %s\n", maskURL(u))
		fmt.Printf("    Exchange:      %s\n", cfg.Backup.AMQPExchange)
		fmt.Printf("    Queue:         %s\n", cfg.Backup.AMQPQueue)
	} else {
		fmt.Println("    AMQP URL:      not configured")
	}
	fmt.Printf("    Timeout:       %s\n", config.BackupTimeout(cfg))
	fmt.Println()

	fmt.Println("  [Advisor]")
	if u := config.GetAdvisorURL(cfg); u != "" {
		fmt.Printf("    Base URL:      %s\n", u)
		fmt.Printf("    Model:         %s\n", cfg.Advisor.Model)
	} else {
		fmt.Println("    Base URL:      not configured")
	}
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme:         %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  Run `khata setup` to reconfigure.")
	return nil
}
