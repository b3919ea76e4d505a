package cmd

import (
	"fmt"

	"github.com/theirongolddev/khata/internal/cli"
	"github.com/theirongolddev/khata/internal/pipeline"

	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Expense breakdown by category",
	Args:  cobra.NoArgs,
	RunE:  runCategories,
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}

func runCategories(_ *cobra.Command, _ []string) error {
	book, st, err := openBook()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	cats := pipeline.CategoryBreakdown(book.Snapshot().Transactions)
	if len(cats) == 0 {
		fmt.Println("\n  No expenses recorded yet.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("EXPENSES BY CATEGORY"))
	fmt.Println()

	peak := cats[0].Amount.InexactFloat64()
	rows := make([][]string, 0, len(cats))
	for _, c := range cats {
		rows = append(rows, []string{
			truncate(c.Category, 16),
			cli.FormatNumber(int64(c.Count)),
			money(c.Amount),
			cli.FormatShare(c.Share),
			cli.RenderHorizontalBar(c.Amount.InexactFloat64(), peak, 20),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Category", "Count", "Amount", "Share", ""},
		Rows:    rows,
	}))
	return nil
}
