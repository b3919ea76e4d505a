// Package cmd implements the khata CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/theirongolddev/khata/internal/cli"
	"github.com/theirongolddev/khata/internal/config"
	"github.com/theirongolddev/khata/internal/ledger"
	"github.com/theirongolddev/khata/internal/model"
	"github.com/theirongolddev/khata/internal/store"
	"github.com/theirongolddev/khata/internal/tui/theme"

	"github.com/charmbracelet/huh"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	flagDataDir string
	flagQuiet   bool
	flagVerbose bool
	flagYes     bool
)

// Loaded once per invocation in PersistentPreRunE.
var (
	cfg    config.Config
	logger zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:               "khata",
	Short:             "Personal expense tracker",
	Long:              "Track income, expenses, savings goals, remittances and debts across two currencies.",
	SilenceUsage:      true,
	PersistentPreRunE: prepare,
	RunE:              runSummary,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagDataDir, "data-dir", "d", "", "Ledger data directory (default from config or $XDG_DATA_HOME/khata)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Only log errors")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log debug output")
	rootCmd.PersistentFlags().BoolVarP(&flagYes, "yes", "y", false, "Skip confirmation prompts")
	rootCmd.Flags().BoolVar(&flagInPrimary, "in-primary", false, "Convert secondary-currency amounts before totalling")
}

func prepare(_ *cobra.Command, _ []string) error {
	logger = newLogger()

	loaded, err := config.Load()
	if err != nil {
		logger.Warn().Err(err).Str("path", config.Path()).Msg("using default config")
	}
	cfg = loaded
	theme.SetActive(cfg.Appearance.Theme)
	return nil
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	switch {
	case flagVerbose:
		level = zerolog.DebugLevel
	case flagQuiet:
		level = zerolog.ErrorLevel
	}
	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

func dataDir() string {
	if flagDataDir != "" {
		return flagDataDir
	}
	return config.GetDataDir(cfg)
}

// openBook loads the ledger from the data directory. The caller closes
// the returned store.
func openBook() (*ledger.Book, *store.Store, error) {
	st, err := store.Open(store.Path(dataDir()), logger)
	if err != nil {
		return nil, nil, fmt.Errorf("opening ledger: %w", err)
	}
	book := ledger.New(st.Load(), ledger.Options{
		Store:   st,
		Confirm: confirmer(),
		Logger:  logger,
	})
	return book, st, nil
}

func confirmer() ledger.Confirmer {
	if flagYes {
		return ledger.AutoConfirm
	}
	return ledger.ConfirmFunc(func(prompt string) (bool, error) {
		var ok bool
		err := huh.NewConfirm().
			Title(prompt).
			Affirmative("Delete").
			Negative("Keep").
			Value(&ok).
			Run()
		return ok, err
	})
}

// declined reports a refused confirmation as a normal outcome.
func declined(err error) error {
	if errors.Is(err, ledger.ErrDeclined) {
		fmt.Println("  Cancelled.")
		return nil
	}
	return err
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", ""))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	return d, nil
}

func parseCurrency(s string) (model.Currency, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "primary", strings.ToLower(cfg.Currency.Primary):
		return model.CurrencyPrimary, nil
	case "secondary", strings.ToLower(cfg.Currency.Secondary):
		return model.CurrencySecondary, nil
	}
	return "", fmt.Errorf("unknown currency %q (use %s or %s)", s, cfg.Currency.Primary, cfg.Currency.Secondary)
}

func symbolFor(c model.Currency) string {
	return cfg.Currency.Symbol(c.IsSecondary())
}

func money(amount decimal.Decimal) string {
	return cli.FormatMoney(amount, cfg.Currency.Symbol(false))
}

func formatNumber(n int64) string {
	return cli.FormatNumber(n)
}
