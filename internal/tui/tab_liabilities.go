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

func (a App) updateLiabilitiesKey(key string) (tea.Model, tea.Cmd, bool) {
	if key == "a" {
		vals := &formValues{}
		m, cmd := a.openForm(formLiability, vals, newLiabilityForm(vals, false))
		return m, cmd, true
	}

	if len(a.snap.Liabilities) == 0 {
		return a, nil, false
	}
	l := a.snap.Liabilities[a.liabCur]

	switch key {
	case "enter", "+":
		vals := &formValues{targetID: l.ID}
		m, cmd := a.openForm(formPayment, vals, newAmountForm("Payment towards "+l.Title, vals))
		return m, cmd, true
	case "5":
		return a.quickBump(func(d decimal.Decimal) error { return a.book.UpdateLiabilityAmount(l.ID, d) },
			500, "Paid towards "+l.Title)
	case "e":
		vals := &formValues{targetID: l.ID, Title: l.Title, Amount: l.TotalAmount.String()}
		m, cmd := a.openForm(formEditLiability, vals, newLiabilityForm(vals, true))
		return m, cmd, true
	case "d", "delete":
		book := a.book
		return a.askConfirm(fmt.Sprintf("Delete liability %q?", l.Title), "Liability deleted",
			func() error { return book.DeleteLiability(l.ID) })
	}
	return a, nil, false
}

func (a App) renderLiabilitiesTab(cw int) string {
	t := theme.Active
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	if len(a.snap.Liabilities) == 0 {
		return components.ContentCard("Liabilities", dim.Render("No debts or remittances. Press a to add one."), cw)
	}

	sym := a.cfg.Currency.Symbol(false)
	at := a.attainment
	summary := components.MetricCardRow([]components.Metric{
		{Label: "Paid", Value: cli.FormatMoney(at.LiabilityPaid, sym), Color: t.Income},
		{Label: "Outstanding", Value: cli.FormatMoney(at.LiabilityTotal.Sub(at.LiabilityPaid), sym), Color: t.Debt},
		{Label: "Cleared", Value: cli.FormatPercent(at.DebtProgress), Color: components.ColorForProgress(at.DebtProgress),
			Note: fmt.Sprintf("%d%% remaining", at.RemainingLiability)},
	}, cw)

	inner := components.CardInnerWidth(cw)
	rows := make([]string, 0, len(a.snap.Liabilities))
	for i, l := range a.snap.Liabilities {
		rows = append(rows, a.renderProgressRow(i == a.liabCur, liabilityTitle(l),
			fmt.Sprintf("%s / %s", cli.FormatMoney(l.PaidAmount, sym), cli.FormatMoney(l.TotalAmount, sym)),
			liabilityNote(l, sym), pipeline.LiabilityProgressPercent(l), t.Debt, inner))
	}
	return summary + "\n" + components.ContentCard("Remittances & debts", strings.Join(rows, "\n"), cw)
}

func liabilityTitle(l model.Liability) string {
	if l.Type == model.Remittance {
		return "↗ " + l.Title
	}
	return "● " + l.Title
}

func liabilityNote(l model.Liability, sym string) string {
	rem := l.Remaining()
	switch {
	case rem.IsNegative():
		return "overpaid by " + cli.FormatMoney(rem.Neg(), sym)
	case rem.IsZero():
		return "cleared"
	default:
		return cli.FormatMoney(rem, sym) + " remaining"
	}
}
