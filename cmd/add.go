package cmd

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/khata/internal/cli"
	"github.com/theirongolddev/khata/internal/ledger"
	"github.com/theirongolddev/khata/internal/model"

	"github.com/spf13/cobra"
)

var (
	flagAddCategory string
	flagAddCurrency string
	flagAddDate     string
)

var addCmd = &cobra.Command{
	Use:       "add income|expense AMOUNT DESCRIPTION...",
	Short:     "Record an income or expense",
	Example:   "  khata add expense 150 Lunch --category Food\n  khata add income 3200 Salary --currency MYR",
	Args:      cobra.MinimumNArgs(3),
	ValidArgs: []string{string(model.Income), string(model.Expense)},
	RunE:      runAdd,
}

func init() {
	addCmd.Flags().StringVarP(&flagAddCategory, "category", "c", "", "Category label (default Other)")
	addCmd.Flags().StringVar(&flagAddCurrency, "currency", "", "primary, secondary, or a configured currency code")
	addCmd.Flags().StringVar(&flagAddDate, "date", "", "Date as YYYY-MM-DD (default today)")
	rootCmd.AddCommand(addCmd)
}

func runAdd(_ *cobra.Command, args []string) error {
	typ := model.TransactionType(strings.ToLower(args[0]))
	if !typ.Valid() {
		return fmt.Errorf("type must be income or expense, got %q", args[0])
	}
	amount, err := parseAmount(args[1])
	if err != nil {
		return err
	}
	currency, err := parseCurrency(flagAddCurrency)
	if err != nil {
		return err
	}

	book, st, err := openBook()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	date := book.Today()
	if flagAddDate != "" {
		if date, err = model.ParseDate(flagAddDate); err != nil {
			return err
		}
	}
	category := strings.TrimSpace(flagAddCategory)
	if category == "" {
		category = "Other"
	}

	tx, err := book.AddTransaction(ledger.NewTransaction{
		Amount:      amount,
		Currency:    currency,
		Type:        typ,
		Category:    category,
		Description: strings.Join(args[2:], " "),
		Date:        date,
	})
	if err != nil {
		return err
	}

	amt := cli.FormatMoney(tx.Amount, symbolFor(tx.Currency))
	if tx.Type == model.Income {
		amt = cli.RenderIncome("+" + amt)
	} else {
		amt = cli.RenderExpense("-" + amt)
	}
	fmt.Printf("  Added %s %s (%s, %s)  %s\n", amt, tx.Description, tx.Category, tx.Date, cli.RenderMuted(ledger.ShortID(tx.ID)))
	return nil
}
