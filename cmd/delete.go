package cmd

import (
	"fmt"

	"github.com/theirongolddev/khata/internal/cli"
	"github.com/theirongolddev/khata/internal/ledger"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete ID",
	Aliases: []string{"rm"},
	Short:   "Delete a transaction by id or id prefix",
	Args:    cobra.ExactArgs(1),
	RunE:    runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(_ *cobra.Command, args []string) error {
	book, st, err := openBook()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	id, err := ledger.Resolve(book.Snapshot(), ledger.KindTransaction, args[0])
	if err != nil {
		return err
	}
	if err := book.DeleteTransaction(id); err != nil {
		return declined(err)
	}
	fmt.Printf("  Deleted transaction %s\n", cli.RenderMuted(ledger.ShortID(id)))
	return nil
}
