package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/khata/internal/cli"
	"github.com/theirongolddev/khata/internal/ledger"
	"github.com/theirongolddev/khata/internal/model"
	"github.com/theirongolddev/khata/internal/pipeline"

	"github.com/spf13/cobra"
)

var (
	flagListType   string
	flagListMonth  string
	flagListSearch string
	flagListLimit  int
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List transactions, newest first",
	Args:    cobra.NoArgs,
	RunE:    runList,
}

func init() {
	listCmd.Flags().StringVarP(&flagListType, "type", "t", "", "Only income or expense")
	listCmd.Flags().StringVarP(&flagListMonth, "month", "m", "", "Only one month, as YYYY-MM")
	listCmd.Flags().StringVarP(&flagListSearch, "search", "s", "", "Match description or category")
	listCmd.Flags().IntVarP(&flagListLimit, "limit", "n", -1, "Max rows (default from config, 0 for all)")
	rootCmd.AddCommand(listCmd)
}

func runList(_ *cobra.Command, _ []string) error {
	book, st, err := openBook()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	txs := book.Snapshot().Transactions
	if len(txs) == 0 {
		fmt.Println("\n  No transactions yet.")
		return nil
	}

	title := "TRANSACTIONS"
	if flagListType != "" {
		typ := model.TransactionType(strings.ToLower(flagListType))
		if !typ.Valid() {
			return fmt.Errorf("--type must be income or expense, got %q", flagListType)
		}
		txs = pipeline.FilterByType(txs, typ)
		title += "  " + strings.ToUpper(string(typ))
	}
	if flagListMonth != "" {
		month, err := time.Parse("2006-01", flagListMonth)
		if err != nil {
			return fmt.Errorf("--month must be YYYY-MM, got %q", flagListMonth)
		}
		txs = pipeline.FilterByMonth(txs, month)
		title += "  " + month.Format("Jan 2006")
	}
	txs = pipeline.FilterBySearch(txs, flagListSearch)

	if len(txs) == 0 {
		fmt.Println("\n  No transactions match.")
		return nil
	}

	limit := flagListLimit
	if limit < 0 {
		limit = cfg.General.RecentLimit
	}
	shown := txs
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(title))
	fmt.Println()

	rows := make([][]string, 0, len(shown))
	for _, tx := range shown {
		amt := cli.FormatMoney(tx.Amount, symbolFor(tx.Currency))
		if tx.Type == model.Income {
			amt = cli.RenderIncome("+" + amt)
		} else {
			amt = cli.RenderExpense("-" + amt)
		}
		rows = append(rows, []string{
			ledger.ShortID(tx.ID),
			tx.Date.String(),
			truncate(tx.Description, 28),
			truncate(tx.Category, 14),
			amt,
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"ID", "Date", "Description", "Category", "Amount"},
		Rows:    rows,
	}))

	if len(shown) < len(txs) {
		fmt.Println(cli.RenderMuted(fmt.Sprintf("  Showing %d of %s. Use --limit 0 for all.",
			len(shown), formatNumber(int64(len(txs))))))
	}
	return nil
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-1]) + "…"
}
