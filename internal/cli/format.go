// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// FormatMoney formats an amount with thousands separators and at most two
// decimals, prefixed by symbol.
// e.g., (1234.5, "৳") -> "৳1,234.5", (-40, "RM") -> "-RM40"
func FormatMoney(amount decimal.Decimal, symbol string) string {
	if amount.IsNegative() {
		return "-" + FormatMoney(amount.Neg(), symbol)
	}
	return symbol + FormatAmount(amount)
}

// FormatAmount formats an amount with thousands separators and at most two
// decimals, without a symbol.
func FormatAmount(amount decimal.Decimal) string {
	rounded := amount.Round(2)
	whole := rounded.Truncate(0)
	s := humanize.Comma(whole.IntPart())

	frac := rounded.Sub(whole).Abs()
	if frac.IsZero() {
		return s
	}
	digits := strings.TrimRight(frac.StringFixed(2)[2:], "0")
	if rounded.IsNegative() && whole.IsZero() {
		s = "-" + s
	}
	return s + "." + digits
}

// FormatSignedMoney formats amount with an explicit + or - sign.
func FormatSignedMoney(amount decimal.Decimal, symbol string) string {
	if amount.IsNegative() {
		return FormatMoney(amount, symbol)
	}
	return "+" + FormatMoney(amount, symbol)
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	return humanize.Comma(n)
}

// FormatPercent formats a whole-number percentage.
func FormatPercent(p int) string {
	return fmt.Sprintf("%d%%", p)
}

// FormatShare formats a 0-1 float as a percentage string.
func FormatShare(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatAgo formats a timestamp relative to now, or "never" for zero.
func FormatAgo(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.Time(t)
}
