package tui

import (
	"testing"

	"github.com/theirongolddev/khata/internal/config"
)

func TestSetupValues_Apply(t *testing.T) {
	vals := SetupValuesFrom(config.DefaultConfig())
	if vals.Rate != "26.5" || vals.Primary != "BDT" {
		t.Fatalf("seeded values = %+v", vals)
	}

	vals.Primary = " inr "
	vals.PrimarySymbol = "₹"
	vals.Rate = "18.2"
	vals.Theme = "tokyo-night"
	cfg, err := vals.Apply(config.DefaultConfig())
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if cfg.Currency.Primary != "INR" || cfg.Currency.PrimarySymbol != "₹" {
		t.Errorf("currency = %+v", cfg.Currency)
	}
	if cfg.Currency.ExchangeRate != 18.2 || cfg.Appearance.Theme != "tokyo-night" {
		t.Errorf("rate=%v theme=%q", cfg.Currency.ExchangeRate, cfg.Appearance.Theme)
	}
}

func TestSetupValues_ApplyRejectsBadInput(t *testing.T) {
	vals := SetupValuesFrom(config.DefaultConfig())
	vals.Rate = "0"
	if _, err := vals.Apply(config.DefaultConfig()); err == nil {
		t.Fatal("zero exchange rate accepted")
	}

	vals = SetupValuesFrom(config.DefaultConfig())
	vals.AdvisorURL = "not a url"
	if _, err := vals.Apply(config.DefaultConfig()); err == nil {
		t.Fatal("bad advisor url accepted")
	}
}
