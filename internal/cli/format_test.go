package cli

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in     string
		symbol string
		want   string
	}{
		{"0", "৳", "৳0"},
		{"40", "RM", "RM40"},
		{"1234.5", "৳", "৳1,234.5"},
		{"1234.50", "৳", "৳1,234.5"},
		{"1234567.891", "৳", "৳1,234,567.89"},
		{"-60", "৳", "-৳60"},
		{"-0.25", "RM", "-RM0.25"},
		{"0.05", "", "0.05"},
	}
	for _, tt := range tests {
		got := FormatMoney(decimal.RequireFromString(tt.in), tt.symbol)
		if got != tt.want {
			t.Errorf("FormatMoney(%s, %q) = %q, want %q", tt.in, tt.symbol, got, tt.want)
		}
	}
}

func TestFormatSignedMoney(t *testing.T) {
	if got := FormatSignedMoney(decimal.NewFromInt(100), "৳"); got != "+৳100" {
		t.Errorf("positive = %q", got)
	}
	if got := FormatSignedMoney(decimal.NewFromInt(-40), "৳"); got != "-৳40" {
		t.Errorf("negative = %q", got)
	}
}

func TestFormatNumber(t *testing.T) {
	if got := FormatNumber(1234567); got != "1,234,567" {
		t.Errorf("FormatNumber = %q", got)
	}
	if got := FormatNumber(-1000); got != "-1,000" {
		t.Errorf("FormatNumber negative = %q", got)
	}
}

func TestFormatPercent(t *testing.T) {
	if got := FormatPercent(125); got != "125%" {
		t.Errorf("FormatPercent = %q", got)
	}
	if got := FormatShare(0.25); got != "25.0%" {
		t.Errorf("FormatShare = %q", got)
	}
}

func TestRenderProgressBar_Clamps(t *testing.T) {
	over := RenderProgressBar(125, 10)
	if strings.Count(over, "█") != 10 || !strings.Contains(over, "125%") {
		t.Errorf("over-target bar = %q", over)
	}
	neg := RenderProgressBar(-20, 10)
	if strings.Count(neg, "░") != 10 || !strings.Contains(neg, "-20%") {
		t.Errorf("negative bar = %q", neg)
	}
	half := RenderProgressBar(50, 10)
	if strings.Count(half, "█") != 5 {
		t.Errorf("half bar = %q", half)
	}
}

func TestRenderTable_Separator(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Category", "Amount"},
		Rows: [][]string{
			{"Food", "৳40"},
			SeparatorRow,
			{"Total", "৳40"},
		},
	})
	if strings.Count(out, "├") != 2 {
		t.Errorf("expected header rule plus one separator:\n%s", out)
	}
	if strings.Contains(out, "---") {
		t.Errorf("separator marker leaked into output:\n%s", out)
	}
}
