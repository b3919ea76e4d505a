package cmd

import (
	"fmt"
	"time"

	"github.com/theirongolddev/khata/internal/cli"
	"github.com/theirongolddev/khata/internal/config"
	"github.com/theirongolddev/khata/internal/model"
	"github.com/theirongolddev/khata/internal/pipeline"

	"github.com/spf13/cobra"
)

var flagInPrimary bool

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Balance, income, expense and progress overview",
	RunE:  runSummary,
}

func init() {
	summaryCmd.Flags().BoolVar(&flagInPrimary, "in-primary", false, "Convert secondary-currency amounts before totalling")
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	book, st, err := openBook()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	snap := book.Snapshot()
	if len(snap.Transactions) == 0 && len(snap.Goals) == 0 && len(snap.Liabilities) == 0 {
		fmt.Println("\n  Nothing recorded yet.")
		fmt.Println("  Try: khata add expense 150 Lunch --category Food")
		return nil
	}

	now := time.Now()
	var s model.Summary
	title := "KHATA  " + now.Format("January 2006")
	if flagInPrimary {
		s = pipeline.SummarizeInPrimary(snap.Transactions, now, config.GetExchangeRate(cfg))
		title += "  (in " + cfg.Currency.Primary + ")"
	} else {
		s = pipeline.Summarize(snap.Transactions, now)
	}
	at := pipeline.Attainment(s, snap.Goals, snap.Liabilities)

	fmt.Println()
	fmt.Println(cli.RenderTitle(title))
	fmt.Println()

	balance := cli.RenderIncome(money(s.TotalBalance))
	if s.TotalBalance.IsNegative() {
		balance = cli.RenderExpense(money(s.TotalBalance))
	}

	rows := [][]string{
		{"Balance", balance},
		{"Income", cli.RenderIncome(money(s.TotalIncome))},
		{"Expense", cli.RenderExpense(money(s.TotalExpense))},
		{"This month", money(s.MonthlyExpense)},
		cli.SeparatorRow,
		{"Savings rate", cli.FormatPercent(at.SavingsRate)},
		{"Expense ratio", cli.FormatPercent(at.ExpenseRatio)},
	}
	if len(snap.Goals) > 0 {
		rows = append(rows, cli.SeparatorRow,
			[]string{"Goals saved", fmt.Sprintf("%s / %s", money(at.GoalSaved), money(at.GoalTarget))},
			[]string{"Goal progress", cli.RenderProgressBar(at.GoalProgress, 20)},
		)
	}
	if len(snap.Liabilities) > 0 {
		rows = append(rows, cli.SeparatorRow,
			[]string{"Debt paid", fmt.Sprintf("%s / %s", money(at.LiabilityPaid), money(at.LiabilityTotal))},
			[]string{"Debt cleared", cli.RenderProgressBar(at.DebtProgress, 20)},
			[]string{"Remaining", cli.FormatPercent(at.RemainingLiability)},
		)
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))

	if !flagInPrimary && hasSecondary(snap.Transactions) {
		fmt.Println(cli.RenderMuted(fmt.Sprintf("  Totals mix %s and %s amounts; use --in-primary to convert.",
			cfg.Currency.Primary, cfg.Currency.Secondary)))
	}
	return nil
}

func hasSecondary(txs []model.Transaction) bool {
	for _, tx := range txs {
		if tx.Currency.IsSecondary() {
			return true
		}
	}
	return false
}
