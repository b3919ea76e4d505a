package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/theirongolddev/khata/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

var blocks = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders a unicode sparkline from values.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	peak := maxOf(values)
	if peak == 0 {
		peak = 1
	}

	var buf strings.Builder
	buf.Grow(len(values) * 3)
	for _, v := range values {
		idx := 1 + int(v/peak*7)
		idx = min(max(idx, 1), 8)
		buf.WriteRune(blocks[idx])
	}
	return lipgloss.NewStyle().Foreground(color).Background(theme.Active.Surface).Render(buf.String())
}

// Series is one set of bars in a grouped chart.
type Series struct {
	Name   string
	Values []float64
	Color  lipgloss.Color
}

// GroupedBarChart renders one group of bars per label, one bar per series,
// with a y-axis scaled to a round ceiling. Falls back to a sparkline of the
// first series when the area is too small.
func GroupedBarChart(series []Series, labels []string, width, height int) string {
	if len(series) == 0 || len(labels) == 0 {
		return ""
	}
	if width < 20 || height < 3 {
		return Sparkline(series[0].Values, series[0].Color)
	}

	t := theme.Active
	peak := 0.0
	for _, s := range series {
		peak = math.Max(peak, maxOf(s.Values))
	}
	if peak == 0 {
		peak = 1
	}

	step := chartTickStep(peak)
	for math.Ceil(peak/step) > float64(max(2, height/2)) {
		step *= 2
	}
	ceiling := math.Ceil(peak/step) * step
	ticks := int(math.Round(ceiling / step))
	rowsPerTick := max(2, height/ticks)
	chartH := rowsPerTick * ticks

	yLabelW := max(4, len(formatChartLabel(ceiling))+1)
	n := len(labels)
	groupW := (width - yLabelW - 1) / n
	barW := min(max(1, (groupW-1)/len(series)), 4)
	groupW = barW*len(series) + 1

	axis := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	blank := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	for row := chartH; row >= 1; row-- {
		top := ceiling * float64(row) / float64(chartH)
		bottom := ceiling * float64(row-1) / float64(chartH)

		label := ""
		if row%rowsPerTick == 0 {
			label = formatChartLabel(step * float64(row/rowsPerTick))
		}
		b.WriteString(axis.Render(fmt.Sprintf("%*s│", yLabelW, label)))

		for i := 0; i < n; i++ {
			for _, s := range series {
				v := 0.0
				if i < len(s.Values) {
					v = s.Values[i]
				}
				cell := " "
				switch {
				case v >= top:
					cell = "█"
				case v > bottom:
					cell = string(blocks[min(max(int((v-bottom)/(top-bottom)*8), 1), 8)])
				}
				b.WriteString(lipgloss.NewStyle().Foreground(s.Color).Background(t.Surface).Render(strings.Repeat(cell, barW)))
			}
			b.WriteString(blank.Render(" "))
		}
		b.WriteString("\n")
	}

	b.WriteString(axis.Render(fmt.Sprintf("%*s└%s", yLabelW, "0", strings.Repeat("─", n*groupW))))
	b.WriteString("\n")
	b.WriteString(blank.Render(strings.Repeat(" ", yLabelW+1)))
	for _, l := range labels {
		b.WriteString(axis.Render(fmt.Sprintf("%-*s", groupW, truncate(l, groupW))))
	}

	legend := make([]string, len(series))
	for i, s := range series {
		legend[i] = lipgloss.NewStyle().Foreground(s.Color).Background(t.Surface).Render("■ ") + axis.Render(s.Name)
	}
	b.WriteString("\n")
	b.WriteString(blank.Render(strings.Repeat(" ", yLabelW+1)) + strings.Join(legend, blank.Render("  ")))

	return b.String()
}

// HorizontalBar renders a bar proportional to value/maxValue.
func HorizontalBar(value, maxValue float64, maxWidth int, color lipgloss.Color) string {
	if maxValue <= 0 || maxWidth <= 0 {
		return ""
	}
	w := int(math.Round(value / maxValue * float64(maxWidth)))
	w = min(max(w, 0), maxWidth)
	return lipgloss.NewStyle().Foreground(color).Background(theme.Active.Surface).Render(strings.Repeat("█", w)) +
		lipgloss.NewStyle().Background(theme.Active.Surface).Render(strings.Repeat(" ", maxWidth-w))
}

func maxOf(values []float64) float64 {
	peak := 0.0
	for _, v := range values {
		peak = math.Max(peak, v)
	}
	return peak
}

// chartTickStep computes a nice tick interval targeting ~5 ticks.
func chartTickStep(maxVal float64) float64 {
	if maxVal <= 0 {
		return 1
	}
	rough := maxVal / 5
	base := math.Pow(10, math.Floor(math.Log10(rough)))

	switch frac := rough / base; {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}

func formatChartLabel(v float64) string {
	scaled := func(div float64, suffix string) string {
		if v == math.Trunc(v/div)*div {
			return fmt.Sprintf("%.0f%s", v/div, suffix)
		}
		return fmt.Sprintf("%.1f%s", v/div, suffix)
	}
	switch {
	case v >= 1e7:
		return scaled(1e7, "cr")
	case v >= 1e5:
		return scaled(1e5, "L")
	case v >= 1e3:
		return scaled(1e3, "k")
	case v >= 1:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}
