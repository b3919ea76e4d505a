package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/theirongolddev/khata/internal/cli"
	"github.com/theirongolddev/khata/internal/ledger"
	"github.com/theirongolddev/khata/internal/model"
	"github.com/theirongolddev/khata/internal/pipeline"

	"github.com/spf13/cobra"
)

var (
	flagLiabilityTitle string
	flagLiabilityTotal string
)

var liabilityCmd = &cobra.Command{
	Use:     "liability",
	Aliases: []string{"liabilities", "debt"},
	Short:   "Remittances and debts being paid down",
	RunE:    runLiabilityList,
}

var liabilityListCmd = &cobra.Command{
	Use:   "list",
	Short: "List liabilities with progress",
	Args:  cobra.NoArgs,
	RunE:  runLiabilityList,
}

var liabilityAddCmd = &cobra.Command{
	Use:       "add remittance|debt TOTAL TITLE...",
	Short:     "Create a liability",
	Example:   "  khata liability add remittance 50000 Send home for Eid\n  khata liability add debt 2000 Loan from Rahim",
	Args:      cobra.MinimumNArgs(3),
	ValidArgs: []string{string(model.Remittance), string(model.Debt)},
	RunE:      runLiabilityAdd,
}

var liabilityPayCmd = &cobra.Command{
	Use:   "pay ID AMOUNT",
	Short: "Record a payment towards a liability",
	Args:  cobra.ExactArgs(2),
	RunE:  runLiabilityPay,
}

var liabilityEditCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Change a liability's title or total",
	Args:  cobra.ExactArgs(1),
	RunE:  runLiabilityEdit,
}

var liabilityDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a liability",
	Args:  cobra.ExactArgs(1),
	RunE:  runLiabilityDelete,
}

func init() {
	liabilityEditCmd.Flags().StringVar(&flagLiabilityTitle, "title", "", "New title")
	liabilityEditCmd.Flags().StringVar(&flagLiabilityTotal, "total", "", "New total amount")

	liabilityCmd.AddCommand(liabilityListCmd, liabilityAddCmd, liabilityPayCmd, liabilityEditCmd, liabilityDeleteCmd)
	rootCmd.AddCommand(liabilityCmd)
}

func runLiabilityList(_ *cobra.Command, _ []string) error {
	book, st, err := openBook()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	items := book.Snapshot().Liabilities
	if len(items) == 0 {
		fmt.Println("\n  No liabilities. Try: khata liability add debt 2000 Loan from Rahim")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("REMITTANCES & DEBTS"))
	fmt.Println()

	rows := make([][]string, 0, len(items))
	for _, l := range items {
		remaining := money(l.Remaining())
		if l.Remaining().IsNegative() {
			remaining = cli.RenderWarning(remaining)
		}
		rows = append(rows, []string{
			ledger.ShortID(l.ID),
			string(l.Type),
			truncate(l.Title, 24),
			money(l.PaidAmount),
			money(l.TotalAmount),
			remaining,
			cli.RenderProgressBar(pipeline.LiabilityProgressPercent(l), 16),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"ID", "Type", "Title", "Paid", "Total", "Remaining", "Progress"},
		Rows:    rows,
	}))
	return nil
}

func runLiabilityAdd(_ *cobra.Command, args []string) error {
	typ := model.LiabilityType(strings.ToLower(args[0]))
	if !typ.Valid() {
		return fmt.Errorf("type must be remittance or debt, got %q", args[0])
	}
	total, err := parseAmount(args[1])
	if err != nil {
		return err
	}

	book, st, err := openBook()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	l, err := book.AddLiability(strings.Join(args[2:], " "), total, typ)
	if err != nil {
		return err
	}
	fmt.Printf("  Added %s %q, total %s  %s\n", l.Type, l.Title, money(l.TotalAmount), cli.RenderMuted(ledger.ShortID(l.ID)))
	return nil
}

func runLiabilityPay(_ *cobra.Command, args []string) error {
	amount, err := parseAmount(args[1])
	if err != nil {
		return err
	}

	book, st, err := openBook()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	id, err := ledger.Resolve(book.Snapshot(), ledger.KindLiability, args[0])
	if err != nil {
		return err
	}
	if err := book.UpdateLiabilityAmount(id, amount); err != nil {
		return err
	}

	l, _ := findLiability(book.Snapshot(), id)
	fmt.Printf("  %s: paid %s of %s  %s\n", l.Title, money(l.PaidAmount), money(l.TotalAmount),
		cli.RenderProgressBar(pipeline.LiabilityProgressPercent(l), 16))
	if l.Remaining().IsNegative() {
		fmt.Println(cli.RenderWarning("  Overpaid by " + money(l.Remaining().Neg())))
	}
	return nil
}

func runLiabilityEdit(_ *cobra.Command, args []string) error {
	if flagLiabilityTitle == "" && flagLiabilityTotal == "" {
		return errors.New("nothing to change: pass --title and/or --total")
	}

	book, st, err := openBook()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	id, err := ledger.Resolve(book.Snapshot(), ledger.KindLiability, args[0])
	if err != nil {
		return err
	}
	l, _ := findLiability(book.Snapshot(), id)

	title, total := l.Title, l.TotalAmount
	if flagLiabilityTitle != "" {
		title = flagLiabilityTitle
	}
	if flagLiabilityTotal != "" {
		if total, err = parseAmount(flagLiabilityTotal); err != nil {
			return err
		}
	}
	if err := book.EditLiability(id, title, total); err != nil {
		return err
	}
	fmt.Printf("  Updated %q, total %s (paid %s)\n", strings.TrimSpace(title), money(total), money(l.PaidAmount))
	return nil
}

func runLiabilityDelete(_ *cobra.Command, args []string) error {
	book, st, err := openBook()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	id, err := ledger.Resolve(book.Snapshot(), ledger.KindLiability, args[0])
	if err != nil {
		return err
	}
	if err := book.DeleteLiability(id); err != nil {
		return declined(err)
	}
	fmt.Printf("  Deleted liability %s\n", cli.RenderMuted(ledger.ShortID(id)))
	return nil
}

func findLiability(s model.Snapshot, id string) (model.Liability, bool) {
	for _, l := range s.Liabilities {
		if l.ID == id {
			return l, true
		}
	}
	return model.Liability{}, false
}
