package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/theirongolddev/khata/internal/config"
	"github.com/theirongolddev/khata/internal/export"

	"github.com/spf13/cobra"
)

var flagExportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write transactions, goals and liabilities as CSV",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagExportOut, "out", "o", "", "Output file, - for stdout (default khata_backup_YYYY-MM-DD.csv)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(_ *cobra.Command, _ []string) error {
	book, st, err := openBook()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	opts := export.Options{
		PrimaryCode:   cfg.Currency.Primary,
		SecondaryCode: cfg.Currency.Secondary,
		Rate:          config.GetExchangeRate(cfg),
	}

	if flagExportOut == "-" {
		return export.WriteCSV(os.Stdout, book.Snapshot(), opts)
	}

	path := flagExportOut
	if path == "" {
		path = export.FileName(time.Now())
	}
	f, err := os.Create(path) //nolint:gosec // output path is chosen by the local user
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	if err := export.WriteCSV(f, book.Snapshot(), opts); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing export file: %w", err)
	}

	snap := book.Snapshot()
	fmt.Printf("  Exported %s transactions, %d goals, %d liabilities to %s\n",
		formatNumber(int64(len(snap.Transactions))), len(snap.Goals), len(snap.Liabilities), path)
	return nil
}
