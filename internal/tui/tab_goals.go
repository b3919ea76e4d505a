package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/khata/internal/cli"
	"github.com/theirongolddev/khata/internal/model"
	"github.com/theirongolddev/khata/internal/pipeline"
	"github.com/theirongolddev/khata/internal/tui/components"
	"github.com/theirongolddev/khata/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// goalBumps are the one-key deposit sizes on the goals tab.
var goalBumps = map[string]int64{"1": 100, "5": 500}

func (a App) updateGoalsKey(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case "a":
		vals := &formValues{}
		m, cmd := a.openForm(formGoal, vals, newGoalForm(vals))
		return m, cmd, true
	}

	if len(a.snap.Goals) == 0 {
		return a, nil, false
	}
	g := a.snap.Goals[a.goalCur]

	switch key {
	case "enter", "+":
		vals := &formValues{targetID: g.ID}
		m, cmd := a.openForm(formDeposit, vals, newAmountForm("Deposit into "+g.Title, vals))
		return m, cmd, true
	case "1", "5":
		return a.quickBump(func(d decimal.Decimal) error { return a.book.UpdateGoalAmount(g.ID, d) },
			goalBumps[key], "Deposited into "+g.Title)
	case "d", "delete":
		book := a.book
		return a.askConfirm(fmt.Sprintf("Delete goal %q?", g.Title), "Goal deleted",
			func() error { return book.DeleteGoal(g.ID) })
	}
	return a, nil, false
}

// quickBump applies a fixed deposit or payment without opening a form.
func (a App) quickBump(apply func(decimal.Decimal) error, amount int64, done string) (tea.Model, tea.Cmd, bool) {
	amt := decimal.NewFromInt(amount)
	if err := apply(amt); err != nil {
		a.message = errorText(err)
	} else {
		a.message = fmt.Sprintf("%s: %s", done, cli.FormatMoney(amt, a.cfg.Currency.Symbol(false)))
	}
	a.refresh()
	return a, nil, true
}

func (a App) renderGoalsTab(cw int) string {
	t := theme.Active
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	if len(a.snap.Goals) == 0 {
		return components.ContentCard("Goals", dim.Render("No savings goals yet. Press a to add one."), cw)
	}

	sym := a.cfg.Currency.Symbol(false)
	at := a.attainment
	summary := components.MetricCardRow([]components.Metric{
		{Label: "Saved", Value: cli.FormatMoney(at.GoalSaved, sym), Color: t.Goal},
		{Label: "Target", Value: cli.FormatMoney(at.GoalTarget, sym)},
		{Label: "Overall", Value: cli.FormatPercent(at.GoalProgress), Color: components.ColorForProgress(at.GoalProgress)},
	}, cw)

	inner := components.CardInnerWidth(cw)
	rows := make([]string, 0, len(a.snap.Goals))
	for i, g := range a.snap.Goals {
		rows = append(rows, a.renderProgressRow(i == a.goalCur, g.Title,
			fmt.Sprintf("%s / %s", cli.FormatMoney(g.CurrentAmount, sym), cli.FormatMoney(g.TargetAmount, sym)),
			goalNote(g, sym), pipeline.GoalProgressPercent(g), t.Goal, inner))
	}
	return summary + "\n" + components.ContentCard("Savings goals", strings.Join(rows, "\n"), cw)
}

func goalNote(g model.Goal, sym string) string {
	left := g.TargetAmount.Sub(g.CurrentAmount)
	if !left.IsPositive() {
		return "reached"
	}
	return cli.FormatMoney(left, sym) + " to go"
}

// renderProgressRow draws one goal or liability: a title line and a bar line.
func (a App) renderProgressRow(selected bool, title, amounts, note string, pct int, color lipgloss.Color, inner int) string {
	t := theme.Active
	bg := t.Surface
	marker := "  "
	if selected {
		bg = t.SurfaceHover
		marker = "▸ "
	}
	titleStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(bg).Bold(selected)
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(bg)
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	titleW := max(inner-lipgloss.Width(amounts)-3, 8)
	head := titleStyle.Render(marker+fmt.Sprintf("%-*s", titleW, truncStr(title, titleW))) + muted.Render(" "+amounts)

	barW := max(inner-lipgloss.Width(note)-10, 8)
	bar := dim.Render("  ") + components.ProgressBar(pct, barW, color) + dim.Render(" "+note)
	return head + "\n" + bar
}
