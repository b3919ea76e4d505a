package cmd

import (
	"fmt"

	"github.com/theirongolddev/khata/internal/advisor"
	"github.com/theirongolddev/khata/internal/backup"
	"github.com/theirongolddev/khata/internal/config"
	"github.com/theirongolddev/khata/internal/ledger"
	"github.com/theirongolddev/khata/internal/store"
	"github.com/theirongolddev/khata/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	st, err := store.Open(store.Path(dataDir()), logger)
	if err != nil {
		return fmt.Errorf("opening ledger: %w", err)
	}
	defer func() { _ = st.Close() }()

	// Log lines would tear the alt screen; keep errors only.
	log := logger.Level(max(logger.GetLevel(), zerolog.ErrorLevel))

	gate := tui.NewConfirmGate()
	book := ledger.New(st.Load(), ledger.Options{
		Store:   st,
		Confirm: gate,
		Logger:  log,
	})

	app := tui.NewApp(tui.Options{
		Book:      book,
		Gate:      gate,
		Config:    cfg,
		Syncer:    backup.NewSyncer(0, log),
		Advisor:   advisor.NewClient(config.GetAdvisorURL(cfg), cfg.Advisor.Model, log),
		NeedSetup: !config.Exists(),
		Logger:    log,
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
