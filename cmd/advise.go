package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/theirongolddev/khata/internal/advisor"
	"github.com/theirongolddev/khata/internal/cli"
	"github.com/theirongolddev/khata/internal/config"
	"github.com/theirongolddev/khata/internal/pipeline"

	"github.com/spf13/cobra"
)

var adviseCmd = &cobra.Command{
	Use:   "advise",
	Short: "Ask a local model for savings and debt tips",
	Args:  cobra.NoArgs,
	RunE:  runAdvise,
}

func init() {
	rootCmd.AddCommand(adviseCmd)
}

func runAdvise(_ *cobra.Command, _ []string) error {
	client := advisor.NewClient(config.GetAdvisorURL(cfg), cfg.Advisor.Model, logger)
	if client == nil {
		return errors.New("advisor disabled: set [advisor] base_url or KHATA_ADVISOR_URL")
	}

	book, st, err := openBook()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	snap := book.Snapshot()
	if len(snap.Transactions) == 0 {
		fmt.Println("\n  Record a few transactions first.")
		return nil
	}

	s := pipeline.Summarize(snap.Transactions, time.Now())
	at := pipeline.Attainment(s, snap.Goals, snap.Liabilities)
	fc := advisor.BuildContext(snap, s, at, cfg.Currency.Primary, cfg.Currency.Secondary, advisor.RecentLimit)

	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Asking %s...\n", cfg.Advisor.Model)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	text, err := client.Analyze(ctx, fc)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("ADVISOR"))
	fmt.Println()
	fmt.Println(text)
	fmt.Println()
	return nil
}
