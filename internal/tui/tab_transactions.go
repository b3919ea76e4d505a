package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/khata/internal/ledger"
	"github.com/theirongolddev/khata/internal/model"
	"github.com/theirongolddev/khata/internal/pipeline"
	"github.com/theirongolddev/khata/internal/tui/components"
	"github.com/theirongolddev/khata/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// transactionsState tracks the transactions tab.
type transactionsState struct {
	cursor      int
	typeFilter  model.TransactionType // "" shows both
	searching   bool
	searchInput textinput.Model
	searchQuery string
}

// visibleTransactions applies the type filter and search query.
func (a App) visibleTransactions() []model.Transaction {
	txs := a.snap.Transactions
	if a.txState.typeFilter != "" {
		txs = pipeline.FilterByType(txs, a.txState.typeFilter)
	}
	if a.txState.searchQuery != "" {
		txs = pipeline.FilterBySearch(txs, a.txState.searchQuery)
	}
	return txs
}

func (a App) updateTransactionsKey(key string) (tea.Model, tea.Cmd, bool) {
	txs := a.visibleTransactions()

	switch key {
	case "a":
		vals := &formValues{}
		m, cmd := a.openForm(formTransaction, vals, a.newTransactionForm(vals))
		return m, cmd, true

	case "d", "delete":
		if len(txs) == 0 {
			return a, nil, true
		}
		tx := txs[a.txState.cursor]
		book := a.book
		return a.askConfirm(
			fmt.Sprintf("Delete %q (%s)?", tx.Description, a.money(tx.Amount, tx.Currency)),
			"Transaction deleted",
			func() error { return book.DeleteTransaction(tx.ID) },
		)

	case "/":
		a.txState.searching = true
		a.txState.searchInput.SetValue(a.txState.searchQuery)
		a.txState.searchInput.Focus()
		return a, a.txState.searchInput.Cursor.BlinkCmd(), true

	case "f":
		switch a.txState.typeFilter {
		case "":
			a.txState.typeFilter = model.Expense
		case model.Expense:
			a.txState.typeFilter = model.Income
		default:
			a.txState.typeFilter = ""
		}
		a.txState.cursor = 0
		return a, nil, true

	case "esc":
		a.txState.searchQuery = ""
		a.txState.typeFilter = ""
		a.txState.cursor = 0
		return a, nil, true

	case "G":
		a.txState.cursor = max(len(txs)-1, 0)
		return a, nil, true
	}
	return a, nil, false
}

// updateSearch handles key events while the search box is focused.
func (a App) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.txState.searchQuery = strings.TrimSpace(a.txState.searchInput.Value())
		a.txState.searching = false
		a.txState.searchInput.Blur()
		a.txState.cursor = 0
		return a, nil
	case "esc":
		a.txState.searching = false
		a.txState.searchInput.Blur()
		return a, nil
	}

	var cmd tea.Cmd
	a.txState.searchInput, cmd = a.txState.searchInput.Update(msg)
	return a, cmd
}

func (a App) renderTransactionsTab(cw, h int) string {
	t := theme.Active
	txs := a.visibleTransactions()
	inner := components.CardInnerWidth(cw)

	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	var header strings.Builder
	switch {
	case a.txState.searching:
		header.WriteString(a.txState.searchInput.View())
	case a.txState.searchQuery != "":
		header.WriteString(dim.Render("search: ") + accent.Render(a.txState.searchQuery) + dim.Render("  (esc to clear)"))
	default:
		header.WriteString(dim.Render("/ to search"))
	}
	filter := "all"
	if a.txState.typeFilter != "" {
		filter = string(a.txState.typeFilter)
	}
	header.WriteString(dim.Render("   type: ") + accent.Render(filter))
	header.WriteString(dim.Render(fmt.Sprintf("   %d of %d", len(txs), len(a.snap.Transactions))))

	if len(txs) == 0 {
		return components.ContentCard("Transactions", header.String()+"\n\n"+dim.Render("Nothing here. Press a to add a transaction."), cw)
	}

	// Card border, title, header and column row take 5 lines.
	rows := max(h-5, 1)
	cursor := a.txState.cursor
	offset := max(cursor-rows+1, 0)

	dateW, amountW, catW := 10, 14, 14
	descW := max(inner-dateW-amountW-catW-6, 10)
	if a.isCompactLayout() {
		catW = 0
		descW = max(inner-dateW-amountW-4, 10)
	}

	colStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Bold(true)
	cols := fmt.Sprintf("  %-*s %-*s", dateW, "Date", descW, "Description")
	if catW > 0 {
		cols += fmt.Sprintf(" %-*s", catW, "Category")
	}
	cols += fmt.Sprintf(" %*s", amountW, "Amount")

	lines := []string{header.String(), colStyle.Render(cols)}
	for i := offset; i < len(txs) && i < offset+rows; i++ {
		tx := txs[i]
		selected := i == cursor

		bg := t.Surface
		marker := "  "
		if selected {
			bg = t.SurfaceHover
			marker = "▸ "
		}
		text := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(bg)
		muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(bg)

		amountColor, sign := t.Expense, "-"
		if tx.Type == model.Income {
			amountColor, sign = t.Income, "+"
		}
		amount := lipgloss.NewStyle().Foreground(amountColor).Background(bg).Bold(selected)

		row := text.Render(marker) +
			muted.Render(fmt.Sprintf("%-*s ", dateW, tx.Date.String())) +
			text.Render(fmt.Sprintf("%-*s", descW, truncStr(tx.Description, descW)))
		if catW > 0 {
			row += muted.Render(fmt.Sprintf(" %-*s", catW, truncStr(tx.Category, catW)))
		}
		row += amount.Render(fmt.Sprintf(" %*s", amountW, sign+a.money(tx.Amount, tx.Currency)))
		lines = append(lines, row)
	}

	title := fmt.Sprintf("Transactions  %s", dim.Render(ledger.ShortID(txs[cursor].ID)))
	return components.ContentCard(title, strings.Join(lines, "\n"), cw)
}
