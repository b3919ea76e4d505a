package components

import (
	"fmt"

	"github.com/theirongolddev/khata/internal/pipeline"
	"github.com/theirongolddev/khata/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// ProgressBar renders a bar filled to pct (clamped to 0-100) followed by
// the unclamped percentage, so an overfunded goal reads "125%" on a full bar.
func ProgressBar(pct, width int, color lipgloss.Color) string {
	t := theme.Active
	if width < 4 {
		width = 4
	}
	if color == "" {
		color = ColorForProgress(pct)
	}

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	pctStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return bar.ViewAs(float64(pipeline.ClampPercent(pct))/100) +
		spaceStyle.Render(" ") +
		pctStyle.Render(fmt.Sprintf("%3d%%", pct))
}

// LabeledBar renders a fixed-width label, a progress bar and the percentage.
func LabeledBar(label string, pct, labelW, barW int, color lipgloss.Color) string {
	t := theme.Active
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, truncate(label, labelW))) +
		spaceStyle.Render(" ") +
		ProgressBar(pct, barW, color)
}

// ColorForProgress returns red/orange/yellow/green as pct approaches 100.
func ColorForProgress(pct int) lipgloss.Color {
	t := theme.Active
	switch {
	case pct >= 100:
		return t.Green
	case pct >= 60:
		return t.Yellow
	case pct >= 25:
		return t.Orange
	default:
		return t.Red
	}
}

// ColorForSpend returns the color of an expense ratio: green while under
// half of income, red once spending passes it.
func ColorForSpend(ratio int) lipgloss.Color {
	t := theme.Active
	switch {
	case ratio > 100:
		return t.Red
	case ratio >= 80:
		return t.Orange
	case ratio >= 50:
		return t.Yellow
	default:
		return t.Green
	}
}

func truncate(s string, w int) string {
	r := []rune(s)
	if len(r) <= w {
		return s
	}
	if w <= 1 {
		return string(r[:w])
	}
	return string(r[:w-1]) + "…"
}
