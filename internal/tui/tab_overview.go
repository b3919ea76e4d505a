package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/khata/internal/cli"
	"github.com/theirongolddev/khata/internal/model"
	"github.com/theirongolddev/khata/internal/pipeline"
	"github.com/theirongolddev/khata/internal/tui/components"
	"github.com/theirongolddev/khata/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const maxOverviewCategories = 6

func (a App) updateOverviewKey(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case "a":
		vals := &formValues{}
		m, cmd := a.openForm(formTransaction, vals, a.newTransactionForm(vals))
		return m, cmd, true
	case "P":
		vals := &formValues{}
		m, cmd := a.openForm(formPreset, vals, a.newPresetForm(vals))
		return m, cmd, true
	case "A":
		m, cmd := a.startAdvice()
		return m, cmd, true
	}

	if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= 9 {
		if n > len(a.snap.Presets) {
			return a, nil, true
		}
		p := a.snap.Presets[n-1]
		t, err := a.book.UsePreset(p.ID)
		if err != nil {
			a.message = errorText(err)
		} else {
			a.message = fmt.Sprintf("%s %s %s", p.Icon, t.Description, a.money(t.Amount, t.Currency))
		}
		a.refresh()
		return a, nil, true
	}
	return a, nil, false
}

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	sym := a.cfg.Currency.Symbol(false)
	s := a.summary

	balanceColor := t.Income
	if s.TotalBalance.IsNegative() {
		balanceColor = t.Expense
	}
	normalized := pipeline.SummarizeInPrimary(a.snap.Transactions, a.now(), a.rate)

	var b strings.Builder
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Balance", Value: cli.FormatMoney(s.TotalBalance, sym), Color: balanceColor,
			Note: "≈ " + cli.FormatMoney(normalized.TotalBalance, sym) + " in " + a.cfg.Currency.Primary},
		{Label: "Income", Value: cli.FormatMoney(s.TotalIncome, sym), Color: t.Income},
		{Label: "Expense", Value: cli.FormatMoney(s.TotalExpense, sym), Color: t.Expense},
		{Label: "This month", Value: cli.FormatMoney(s.MonthlyExpense, sym),
			Note: fmt.Sprintf("%d transactions total", len(a.snap.Transactions))},
	}, cw))
	b.WriteString("\n")

	if a.isCompactLayout() {
		b.WriteString(components.ContentCard("Attainment", a.renderAttainment(cw), cw))
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Last 6 months", a.renderTrend(cw), cw))
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Spending by category", a.renderCategories(cw), cw))
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Quick add", a.renderPresets(), cw))
	} else {
		halves := components.LayoutRow(cw, 2)
		b.WriteString(components.CardRow([]string{
			components.ContentCard("Attainment", a.renderAttainment(halves[0]), halves[0]),
			components.ContentCard("Last 6 months", a.renderTrend(halves[1]), halves[1]),
		}))
		b.WriteString("\n")
		b.WriteString(components.CardRow([]string{
			components.ContentCard("Spending by category", a.renderCategories(halves[0]), halves[0]),
			components.ContentCard("Quick add", a.renderPresets(), halves[1]),
		}))
	}

	if a.advising || a.advice != "" {
		b.WriteString("\n")
		body := a.advice
		if a.advising {
			body = a.spinner.View() + " thinking..."
		}
		body = lipgloss.NewStyle().Width(components.CardInnerWidth(cw)).Render(body)
		b.WriteString(components.ContentCard("Advisor", body, cw))
	}

	return b.String()
}

func (a App) renderAttainment(outer int) string {
	t := theme.Active
	at := a.attainment
	sym := a.cfg.Currency.Symbol(false)
	barW := max(components.CardInnerWidth(outer)-20, 8)
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	lines := []string{
		components.LabeledBar("Goals", at.GoalProgress, 14, barW, t.Goal),
		muted.Render(fmt.Sprintf("  %s of %s saved", cli.FormatMoney(at.GoalSaved, sym), cli.FormatMoney(at.GoalTarget, sym))),
		components.LabeledBar("Debt cleared", at.DebtProgress, 14, barW, t.Debt),
		muted.Render(fmt.Sprintf("  %s of %s paid, %d%% remaining",
			cli.FormatMoney(at.LiabilityPaid, sym), cli.FormatMoney(at.LiabilityTotal, sym), at.RemainingLiability)),
		components.LabeledBar("Savings rate", at.SavingsRate, 14, barW, t.Income),
		components.LabeledBar("Expense ratio", at.ExpenseRatio, 14, barW, components.ColorForSpend(at.ExpenseRatio)),
	}
	return strings.Join(lines, "\n")
}

func (a App) renderTrend(outer int) string {
	t := theme.Active
	labels := make([]string, len(a.months))
	income := make([]float64, len(a.months))
	expense := make([]float64, len(a.months))
	for i, m := range a.months {
		labels[i] = m.Label()
		income[i] = m.Income.InexactFloat64()
		expense[i] = m.Expense.InexactFloat64()
	}
	return components.GroupedBarChart([]components.Series{
		{Name: "Income", Values: income, Color: t.Income},
		{Name: "Expense", Values: expense, Color: t.Expense},
	}, labels, components.CardInnerWidth(outer), 6)
}

func (a App) renderCategories(outer int) string {
	t := theme.Active
	if len(a.categories) == 0 {
		return lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).Render("No expenses yet")
	}

	inner := components.CardInnerWidth(outer)
	labelW := 14
	valueW := 12
	barW := max(inner-labelW-valueW-8, 4)
	peak := a.categories[0].Amount.InexactFloat64()
	sym := a.cfg.Currency.Symbol(false)

	label := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	share := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var lines []string
	for i, c := range a.categories {
		if i == maxOverviewCategories {
			lines = append(lines, share.Render(fmt.Sprintf("+%d more", len(a.categories)-i)))
			break
		}
		lines = append(lines,
			label.Render(fmt.Sprintf("%-*s ", labelW, truncStr(c.Category, labelW)))+
				components.HorizontalBar(c.Amount.InexactFloat64(), peak, barW, t.Expense)+
				value.Render(fmt.Sprintf(" %*s", valueW, cli.FormatMoney(c.Amount, sym)))+
				share.Render(fmt.Sprintf(" %6s", cli.FormatShare(c.Share))))
	}
	return strings.Join(lines, "\n")
}

func (a App) renderPresets() string {
	t := theme.Active
	if len(a.snap.Presets) == 0 {
		return lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).Render("No presets. Press P to add one.")
	}

	key := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	desc := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	var lines []string
	for i, p := range a.snap.Presets {
		if i == 9 {
			break
		}
		color := t.Expense
		if p.Type == model.Income {
			color = t.Income
		}
		amount := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Render(a.money(p.Amount, p.Currency))
		lines = append(lines, fmt.Sprintf("%s %s %s %s",
			key.Render(fmt.Sprintf("[%d]", i+1)), p.Icon, desc.Render(p.Description), amount))
	}
	return strings.Join(lines, "\n")
}
