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
	flagPresetIcon        string
	flagPresetCategory    string
	flagPresetCurrency    string
	flagPresetAmount      string
	flagPresetDescription string
	flagPresetType        string
)

var presetCmd = &cobra.Command{
	Use:     "preset",
	Aliases: []string{"presets"},
	Short:   "Quick-entry presets for frequent transactions",
	RunE:    runPresetList,
}

var presetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List presets",
	Args:  cobra.NoArgs,
	RunE:  runPresetList,
}

var presetAddCmd = &cobra.Command{
	Use:     "add income|expense AMOUNT DESCRIPTION...",
	Short:   "Create a preset",
	Example: "  khata preset add expense 20 Tea --icon ☕ --category Food",
	Args:    cobra.MinimumNArgs(3),
	RunE:    runPresetAdd,
}

var presetUpdateCmd = &cobra.Command{
	Use:   "update ID",
	Short: "Change fields of a preset",
	Args:  cobra.ExactArgs(1),
	RunE:  runPresetUpdate,
}

var presetDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a preset",
	Args:  cobra.ExactArgs(1),
	RunE:  runPresetDelete,
}

var presetUseCmd = &cobra.Command{
	Use:   "use ID",
	Short: "Record today's transaction from a preset",
	Args:  cobra.ExactArgs(1),
	RunE:  runPresetUse,
}

func init() {
	for _, c := range []*cobra.Command{presetAddCmd, presetUpdateCmd} {
		c.Flags().StringVar(&flagPresetIcon, "icon", "", "Emoji shown on the dashboard")
		c.Flags().StringVarP(&flagPresetCategory, "category", "c", "", "Category label")
		c.Flags().StringVar(&flagPresetCurrency, "currency", "", "primary, secondary, or a configured currency code")
	}
	presetUpdateCmd.Flags().StringVar(&flagPresetAmount, "amount", "", "New amount")
	presetUpdateCmd.Flags().StringVar(&flagPresetDescription, "description", "", "New description")
	presetUpdateCmd.Flags().StringVar(&flagPresetType, "type", "", "income or expense")

	presetCmd.AddCommand(presetListCmd, presetAddCmd, presetUpdateCmd, presetDeleteCmd, presetUseCmd)
	rootCmd.AddCommand(presetCmd)
}

func runPresetList(_ *cobra.Command, _ []string) error {
	book, st, err := openBook()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	presets := book.Snapshot().Presets
	if len(presets) == 0 {
		fmt.Println("\n  No presets. Try: khata preset add expense 20 Tea --icon ☕")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("QUICK PRESETS"))
	fmt.Println()

	rows := make([][]string, 0, len(presets))
	for i, p := range presets {
		amt := cli.FormatMoney(p.Amount, symbolFor(p.Currency))
		if p.Type == model.Income {
			amt = cli.RenderIncome("+" + amt)
		} else {
			amt = cli.RenderExpense("-" + amt)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			ledger.ShortID(p.ID),
			strings.TrimSpace(p.Icon + " " + truncate(p.Description, 22)),
			truncate(p.Category, 14),
			amt,
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"#", "ID", "Preset", "Category", "Amount"},
		Rows:    rows,
	}))
	fmt.Println(cli.RenderMuted("  Press the number on the dashboard, or run: khata preset use ID"))
	return nil
}

func runPresetAdd(_ *cobra.Command, args []string) error {
	typ := model.TransactionType(strings.ToLower(args[0]))
	if !typ.Valid() {
		return fmt.Errorf("type must be income or expense, got %q", args[0])
	}
	amount, err := parseAmount(args[1])
	if err != nil {
		return err
	}
	currency, err := parseCurrency(flagPresetCurrency)
	if err != nil {
		return err
	}
	category := strings.TrimSpace(flagPresetCategory)
	if category == "" {
		category = "Other"
	}

	book, st, err := openBook()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	p, err := book.AddPreset(model.QuickPreset{
		Icon:        strings.TrimSpace(flagPresetIcon),
		Amount:      amount,
		Currency:    currency,
		Description: strings.Join(args[2:], " "),
		Category:    category,
		Type:        typ,
	})
	if err != nil {
		return err
	}
	fmt.Printf("  Added preset %q  %s\n", p.Description, cli.RenderMuted(ledger.ShortID(p.ID)))
	return nil
}

func runPresetUpdate(cmd *cobra.Command, args []string) error {
	book, st, err := openBook()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	id, err := ledger.Resolve(book.Snapshot(), ledger.KindPreset, args[0])
	if err != nil {
		return err
	}
	var p model.QuickPreset
	for _, q := range book.Snapshot().Presets {
		if q.ID == id {
			p = q
		}
	}

	flags := cmd.Flags()
	if flags.Changed("icon") {
		p.Icon = strings.TrimSpace(flagPresetIcon)
	}
	if flags.Changed("category") {
		p.Category = strings.TrimSpace(flagPresetCategory)
	}
	if flags.Changed("description") {
		p.Description = flagPresetDescription
	}
	if flags.Changed("currency") {
		if p.Currency, err = parseCurrency(flagPresetCurrency); err != nil {
			return err
		}
	}
	if flags.Changed("amount") {
		if p.Amount, err = parseAmount(flagPresetAmount); err != nil {
			return err
		}
	}
	if flags.Changed("type") {
		p.Type = model.TransactionType(strings.ToLower(flagPresetType))
	}

	if err := book.UpdatePreset(p); err != nil {
		return err
	}
	fmt.Printf("  Updated preset %q\n", strings.TrimSpace(p.Description))
	return nil
}

func runPresetDelete(_ *cobra.Command, args []string) error {
	book, st, err := openBook()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	id, err := ledger.Resolve(book.Snapshot(), ledger.KindPreset, args[0])
	if err != nil {
		return err
	}
	if err := book.DeletePreset(id); err != nil {
		return declined(err)
	}
	fmt.Printf("  Deleted preset %s\n", cli.RenderMuted(ledger.ShortID(id)))
	return nil
}

func runPresetUse(_ *cobra.Command, args []string) error {
	book, st, err := openBook()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	id, err := ledger.Resolve(book.Snapshot(), ledger.KindPreset, args[0])
	if err != nil {
		return err
	}
	tx, err := book.UsePreset(id)
	if err != nil {
		return err
	}
	fmt.Printf("  Added %s %s (%s, %s)  %s\n", cli.FormatMoney(tx.Amount, symbolFor(tx.Currency)),
		tx.Description, tx.Category, tx.Date, cli.RenderMuted(ledger.ShortID(tx.ID)))
	return nil
}
