// Package config loads and saves the khata TOML configuration.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/shopspring/decimal"
)

// Config holds all khata configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Currency   CurrencyConfig   `toml:"currency"`
	Backup     BackupConfig     `toml:"backup"`
	Advisor    AdvisorConfig    `toml:"advisor"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	DataDir     string `toml:"data_dir,omitempty"`
	RecentLimit int    `toml:"recent_limit"`
}

// CurrencyConfig names the two currencies and the fixed rate between them.
type CurrencyConfig struct {
	Primary         string  `toml:"primary"`
	Secondary       string  `toml:"secondary"`
	PrimarySymbol   string  `toml:"primary_symbol"`
	SecondarySymbol string  `toml:"secondary_symbol"`
	ExchangeRate    float64 `toml:"exchange_rate"` // primary units per secondary unit
}

// BackupConfig holds settings for sinks other than the webhook, which
// lives with the ledger data.
type BackupConfig struct {
	AMQPURL      string `toml:"amqp_url,omitempty"`
	AMQPExchange string `toml:"amqp_exchange"`
	AMQPQueue    string `toml:"amqp_queue"`
	TimeoutSec   int    `toml:"timeout_sec"`
}

// AdvisorConfig points at an Ollama-compatible generate endpoint.
type AdvisorConfig struct {
	BaseURL string `toml:"base_url,omitempty"`
	Model   string `toml:"model"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			RecentLimit: 20,
		},
		Currency: CurrencyConfig{
			Primary:         "BDT",
			Secondary:       "MYR",
			PrimarySymbol:   "৳",
			SecondarySymbol: "RM",
			ExchangeRate:    26.5,
		},
		Backup: BackupConfig{
			AMQPExchange: "khata",
			AMQPQueue:    "khata_backups",
			TimeoutSec:   15,
		},
		Advisor: AdvisorConfig{
			Model: "llama3.2",
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "khata")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "khata")
}

// Path returns the full path to the config file.
func Path() string {
	if p := os.Getenv("KHATA_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(Dir(), "config.toml")
}

// DefaultDataDir returns the XDG-compliant data directory.
func DefaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "khata")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "khata")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(Path())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return toml.NewEncoder(f).Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}

// Validate reports every problem with cfg at once.
func (c Config) Validate() error {
	var problems []string

	if c.Currency.ExchangeRate <= 0 {
		problems = append(problems, fmt.Sprintf("currency.exchange_rate must be positive, got %v", c.Currency.ExchangeRate))
	}
	if strings.TrimSpace(c.Currency.Primary) == "" || strings.TrimSpace(c.Currency.Secondary) == "" {
		problems = append(problems, "currency.primary and currency.secondary are required")
	}
	if c.Backup.AMQPURL != "" {
		if u, err := url.Parse(c.Backup.AMQPURL); err != nil || (u.Scheme != "amqp" && u.Scheme != "amqps") {
			problems = append(problems, fmt.Sprintf("backup.amqp_url %q must be an amqp:// or amqps:// URL", c.Backup.AMQPURL))
		}
	}
	if c.Advisor.BaseURL != "" {
		if u, err := url.Parse(c.Advisor.BaseURL); err != nil || u.Host == "" {
			problems = append(problems, fmt.Sprintf("advisor.base_url %q is not a valid URL", c.Advisor.BaseURL))
		}
	}

	if len(problems) > 0 {
		return errors.New("invalid config: " + strings.Join(problems, "; "))
	}
	return nil
}

// GetDataDir returns the data directory from env var, config, or the XDG
// default, in that order.
func GetDataDir(cfg Config) string {
	if dir := os.Getenv("KHATA_DATA_DIR"); dir != "" {
		return dir
	}
	if cfg.General.DataDir != "" {
		return cfg.General.DataDir
	}
	return DefaultDataDir()
}

// GetExchangeRate returns the secondary-to-primary rate from env var or
// config, in that order. An unparseable env value is ignored.
func GetExchangeRate(cfg Config) decimal.Decimal {
	if raw := os.Getenv("KHATA_EXCHANGE_RATE"); raw != "" {
		if d, err := decimal.NewFromString(raw); err == nil && d.IsPositive() {
			return d
		}
	}
	return decimal.NewFromFloat(cfg.Currency.ExchangeRate)
}

// GetAMQPURL returns the broker URL from env var or config, in that order.
func GetAMQPURL(cfg Config) string {
	if u := os.Getenv("KHATA_AMQP_URL"); u != "" {
		return u
	}
	return cfg.Backup.AMQPURL
}

// GetAdvisorURL returns the advisor base URL from env var or config, in
// that order.
func GetAdvisorURL(cfg Config) string {
	if u := os.Getenv("KHATA_ADVISOR_URL"); u != "" {
		return u
	}
	return cfg.Advisor.BaseURL
}

// BackupTimeout returns the per-sync network timeout.
func BackupTimeout(cfg Config) time.Duration {
	if cfg.Backup.TimeoutSec <= 0 {
		return 15 * time.Second
	}
	return time.Duration(cfg.Backup.TimeoutSec) * time.Second
}

// Symbol returns the display symbol for a currency tag, falling back to
// the currency code.
func (c CurrencyConfig) Symbol(secondary bool) string {
	if secondary {
		if c.SecondarySymbol != "" {
			return c.SecondarySymbol
		}
		return c.Secondary
	}
	if c.PrimarySymbol != "" {
		return c.PrimarySymbol
	}
	return c.Primary
}
