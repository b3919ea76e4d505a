package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/theirongolddev/khata/internal/config"
	"github.com/theirongolddev/khata/internal/tui/theme"

	"github.com/charmbracelet/huh"
	"github.com/shopspring/decimal"
)

// SetupValues are the answers collected by the setup wizard.
type SetupValues struct {
	Primary         string
	PrimarySymbol   string
	Secondary       string
	SecondarySymbol string
	Rate            string
	Theme           string
	AdvisorURL      string
}

// SetupValuesFrom seeds the wizard with cfg so re-running it edits in place.
func SetupValuesFrom(cfg config.Config) SetupValues {
	return SetupValues{
		Primary:         cfg.Currency.Primary,
		PrimarySymbol:   cfg.Currency.PrimarySymbol,
		Secondary:       cfg.Currency.Secondary,
		SecondarySymbol: cfg.Currency.SecondarySymbol,
		Rate:            decimal.NewFromFloat(cfg.Currency.ExchangeRate).String(),
		Theme:           cfg.Appearance.Theme,
		AdvisorURL:      cfg.Advisor.BaseURL,
	}
}

// Apply copies the answers onto cfg.
func (v SetupValues) Apply(cfg config.Config) (config.Config, error) {
	rate, err := parseAmount(v.Rate)
	if err != nil {
		return cfg, fmt.Errorf("exchange rate: %w", err)
	}
	cfg.Currency.Primary = strings.ToUpper(strings.TrimSpace(v.Primary))
	cfg.Currency.PrimarySymbol = strings.TrimSpace(v.PrimarySymbol)
	cfg.Currency.Secondary = strings.ToUpper(strings.TrimSpace(v.Secondary))
	cfg.Currency.SecondarySymbol = strings.TrimSpace(v.SecondarySymbol)
	cfg.Currency.ExchangeRate = rate.InexactFloat64()
	cfg.Appearance.Theme = v.Theme
	cfg.Advisor.BaseURL = strings.TrimSpace(v.AdvisorURL)
	return cfg, cfg.Validate()
}

// NewSetupForm builds the first-run wizard bound to vals.
func NewSetupForm(vals *SetupValues) *huh.Form {
	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themeOpts = append(themeOpts, huh.NewOption(t.Name, t.Name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to khata").
				Description("A few questions about your currencies.\nRun `khata setup` anytime to change them."),
			huh.NewInput().
				Title("Primary currency code").
				Placeholder("BDT").
				Value(&vals.Primary).
				Validate(requireCode),
			huh.NewInput().
				Title("Primary currency symbol").
				Placeholder("৳").
				Value(&vals.PrimarySymbol),
			huh.NewInput().
				Title("Secondary currency code").
				Placeholder("MYR").
				Value(&vals.Secondary).
				Validate(requireCode),
			huh.NewInput().
				Title("Secondary currency symbol").
				Placeholder("RM").
				Value(&vals.SecondarySymbol),
			huh.NewInput().
				Title("Exchange rate").
				Description("Primary units per one secondary unit").
				Value(&vals.Rate).
				Validate(validateAmount),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&vals.Theme),
			huh.NewInput().
				Title("Advisor endpoint").
				Description("Ollama base URL, e.g. http://localhost:11434. Leave empty to disable.").
				Value(&vals.AdvisorURL),
		),
	).WithShowHelp(false)
}

func requireCode(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("required")
	}
	return nil
}

// saveSetup applies the wizard answers to the running app and the config file.
func (a *App) saveSetup() error {
	cfg, err := a.setupVals.Apply(a.cfg)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.rate = config.GetExchangeRate(cfg)
	theme.SetActive(cfg.Appearance.Theme)
	return config.Save(cfg)
}
