package tui

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/khata/internal/config"
	"github.com/theirongolddev/khata/internal/ledger"
	"github.com/theirongolddev/khata/internal/model"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var fixedNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func newTestApp(t *testing.T, snap model.Snapshot) (App, *ledger.Book) {
	t.Helper()
	gate := NewConfirmGate()
	n := 0
	book := ledger.New(snap, ledger.Options{
		Confirm: gate,
		NewID:   func() string { n++; return fmt.Sprintf("id-%d", n) },
		Now:     func() time.Time { return fixedNow },
		Logger:  zerolog.Nop(),
	})
	a := NewApp(Options{
		Book:   book,
		Gate:   gate,
		Config: config.DefaultConfig(),
		Now:    func() time.Time { return fixedNow },
		Logger: zerolog.Nop(),
	})
	return a, book
}

func press(t *testing.T, a App, keys ...string) App {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEscape}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m, _ := a.Update(msg)
		a = m.(App)
	}
	return a
}

func sampleSnapshot() model.Snapshot {
	return model.Snapshot{
		Transactions: []model.Transaction{
			{ID: "t2", Amount: decimal.NewFromInt(40), Type: model.Expense, Category: "Food", Description: "Lunch", Date: model.Date{Year: 2025, Month: 6, Day: 10}},
			{ID: "t1", Amount: decimal.NewFromInt(100), Type: model.Income, Category: "Salary", Description: "Pay", Date: model.Date{Year: 2025, Month: 6, Day: 1}},
		},
		Goals: []model.Goal{
			{ID: "g1", Title: "Laptop", TargetAmount: decimal.NewFromInt(1000), CurrentAmount: decimal.NewFromInt(500)},
		},
		Liabilities: []model.Liability{
			{ID: "l1", Title: "Loan", TotalAmount: decimal.NewFromInt(2000), PaidAmount: decimal.NewFromInt(2500), Type: model.Debt},
		},
		Presets: []model.QuickPreset{
			{ID: "p1", Icon: "☕", Amount: decimal.NewFromInt(20), Description: "Tea", Category: "Food", Type: model.Expense},
		},
	}
}

func TestNewApp_DerivesSummary(t *testing.T) {
	a, _ := newTestApp(t, sampleSnapshot())
	if !a.summary.TotalBalance.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("balance = %s, want 60", a.summary.TotalBalance)
	}
	if a.attainment.GoalProgress != 50 || a.attainment.DebtProgress != 125 {
		t.Fatalf("attainment = %+v", a.attainment)
	}
	if len(a.months) != trendMonths {
		t.Fatalf("months = %d", len(a.months))
	}
}

func TestDelete_DeclineKeepsTransaction(t *testing.T) {
	a, book := newTestApp(t, sampleSnapshot())
	a = press(t, a, "t", "d")
	if a.confirm == nil {
		t.Fatal("expected a pending confirmation")
	}
	a = press(t, a, "n")
	if a.confirm != nil || len(book.Snapshot().Transactions) != 2 {
		t.Fatalf("declined delete changed state: %d transactions", len(book.Snapshot().Transactions))
	}
	if a.message != "Cancelled" {
		t.Errorf("message = %q", a.message)
	}
}

func TestDelete_ConfirmRemovesSelected(t *testing.T) {
	a, book := newTestApp(t, sampleSnapshot())
	a = press(t, a, "t", "j", "d", "y")

	txs := book.Snapshot().Transactions
	if len(txs) != 1 || txs[0].ID != "t2" {
		t.Fatalf("transactions = %+v, want only t2", txs)
	}
	if len(a.snap.Transactions) != 1 {
		t.Fatal("app view not refreshed after delete")
	}
}

func TestGate_DeclinesOutsidePrompt(t *testing.T) {
	_, book := newTestApp(t, sampleSnapshot())
	if err := book.DeleteGoal("g1"); err == nil {
		t.Fatal("delete without the y/n prompt should be declined")
	}
	if len(book.Snapshot().Goals) != 1 {
		t.Fatal("goal removed without confirmation")
	}
}

func TestOverview_UsePreset(t *testing.T) {
	a, book := newTestApp(t, sampleSnapshot())
	a = press(t, a, "1")

	txs := book.Snapshot().Transactions
	if len(txs) != 3 || txs[0].Description != "Tea" {
		t.Fatalf("first transaction = %+v", txs[0])
	}
	if txs[0].Date != (model.Date{Year: 2025, Month: 6, Day: 15}) {
		t.Errorf("preset dated %s, want today", txs[0].Date)
	}
	if !strings.Contains(a.message, "Tea") {
		t.Errorf("message = %q", a.message)
	}

	// Out-of-range preset numbers are ignored.
	a = press(t, a, "7")
	if len(book.Snapshot().Transactions) != 3 {
		t.Fatal("unknown preset added a transaction")
	}
}

func TestSubmitForm(t *testing.T) {
	a, book := newTestApp(t, sampleSnapshot())

	a.formKind = formDeposit
	a.formVals = &formValues{targetID: "g1", Amount: "250"}
	if err := a.submitForm(); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if got := book.Snapshot().Goals[0].CurrentAmount; !got.Equal(decimal.NewFromInt(750)) {
		t.Fatalf("goal current = %s, want 750", got)
	}

	a.formKind = formTransaction
	a.formVals = &formValues{Type: "expense", Currency: "secondary", Amount: "1,200.50", Description: "Rent", Category: "House Rent", Date: "2025-06-14"}
	if err := a.submitForm(); err != nil {
		t.Fatalf("transaction: %v", err)
	}
	tx := book.Snapshot().Transactions[0]
	if tx.Description != "Rent" || !tx.Amount.Equal(decimal.RequireFromString("1200.5")) || !tx.Currency.IsSecondary() {
		t.Fatalf("added = %+v", tx)
	}

	a.formKind = formEditLiability
	a.formVals = &formValues{targetID: "l1", Title: "Car loan", Amount: "3000"}
	if err := a.submitForm(); err != nil {
		t.Fatalf("edit: %v", err)
	}
	l := book.Snapshot().Liabilities[0]
	if l.Title != "Car loan" || !l.PaidAmount.Equal(decimal.NewFromInt(2500)) {
		t.Fatalf("edited = %+v", l)
	}

	a.formKind = formGoal
	a.formVals = &formValues{Title: "  ", Amount: "10"}
	if err := a.submitForm(); err == nil {
		t.Fatal("blank goal title accepted")
	}
}

func TestSync_WithoutSink(t *testing.T) {
	a, _ := newTestApp(t, sampleSnapshot())
	a = press(t, a, "s")
	if a.syncing {
		t.Fatal("sync started with no sink configured")
	}
	if !strings.Contains(a.message, "webhook") {
		t.Errorf("message = %q", a.message)
	}
}

type recordingStore struct {
	saved []model.Snapshot
}

func (r *recordingStore) Persist(snap model.Snapshot) error {
	r.saved = append(r.saved, snap)
	return nil
}

func TestSync_PersistsCurrentSnapshotBeforeSend(t *testing.T) {
	rec := &recordingStore{}
	gate := NewConfirmGate()
	book := ledger.New(sampleSnapshot(), ledger.Options{
		Store:   rec,
		Confirm: gate,
		Now:     func() time.Time { return fixedNow },
		Logger:  zerolog.Nop(),
	})
	book.SetWebhookURL("http://127.0.0.1:1/hook")
	a := NewApp(Options{
		Book:   book,
		Gate:   gate,
		Config: config.DefaultConfig(),
		Now:    func() time.Time { return fixedNow },
		Logger: zerolog.Nop(),
	})

	a = press(t, a, "1")
	rec.saved = nil

	// The returned command is never run, so nothing is sent.
	m, cmd := a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	a = m.(App)
	if cmd == nil || !a.syncing {
		t.Fatal("expected a sync to start")
	}
	if len(rec.saved) != 1 {
		t.Fatalf("persisted %d times before send, want 1", len(rec.saved))
	}
	got := rec.saved[0]
	if len(got.Transactions) != 3 || got.WebhookURL != "http://127.0.0.1:1/hook" {
		t.Fatalf("persisted snapshot = %d transactions, webhook %q", len(got.Transactions), got.WebhookURL)
	}
}

func TestGoals_QuickDeposit(t *testing.T) {
	a, book := newTestApp(t, sampleSnapshot())
	a = press(t, a, "g", "1", "5")

	g := book.Snapshot().Goals[0]
	if !g.CurrentAmount.Equal(decimal.NewFromInt(1100)) {
		t.Fatalf("goal current = %s, want 1100", g.CurrentAmount)
	}
	if !a.snap.Goals[0].CurrentAmount.Equal(g.CurrentAmount) {
		t.Fatal("app view not refreshed after deposit")
	}
	if !strings.Contains(a.message, "Laptop") {
		t.Errorf("message = %q", a.message)
	}
	if len(book.Snapshot().Transactions) != 2 {
		t.Fatal("quick deposit on goals tab used a preset")
	}
}

func TestLiabilities_QuickPayment(t *testing.T) {
	a, book := newTestApp(t, sampleSnapshot())
	a = press(t, a, "l", "5")

	l := book.Snapshot().Liabilities[0]
	if !l.PaidAmount.Equal(decimal.NewFromInt(3000)) {
		t.Fatalf("paid = %s, want 3000", l.PaidAmount)
	}
	if !strings.Contains(a.message, "Loan") {
		t.Errorf("message = %q", a.message)
	}

	// 1 is a goals shortcut only.
	a = press(t, a, "1")
	if !book.Snapshot().Liabilities[0].PaidAmount.Equal(decimal.NewFromInt(3000)) {
		t.Fatal("1 changed a liability")
	}
}

func TestTransactions_TypeFilter(t *testing.T) {
	a, _ := newTestApp(t, sampleSnapshot())
	a = press(t, a, "t", "f")
	if got := a.visibleTransactions(); len(got) != 1 || got[0].Type != model.Expense {
		t.Fatalf("expense filter = %+v", got)
	}
	a = press(t, a, "f")
	if got := a.visibleTransactions(); len(got) != 1 || got[0].Type != model.Income {
		t.Fatalf("income filter = %+v", got)
	}
	a = press(t, a, "f")
	if len(a.visibleTransactions()) != 2 {
		t.Fatal("filter did not cycle back to all")
	}
}

func TestView_RendersEveryTab(t *testing.T) {
	a, _ := newTestApp(t, sampleSnapshot())
	m, _ := a.Update(tea.WindowSizeMsg{Width: 140, Height: 45})
	a = m.(App)

	want := []string{"Balance", "Transactions", "Savings goals", "Remittances", "Webhook URL"}
	for tab := range want {
		a.activeTab = tab
		view := a.View()
		if !strings.Contains(view, want[tab]) {
			t.Errorf("tab %d view missing %q", tab, want[tab])
		}
		if lines := strings.Count(view, "\n") + 1; lines != 45 {
			t.Errorf("tab %d renders %d lines, want 45", tab, lines)
		}
	}
}

func TestView_TooNarrow(t *testing.T) {
	a, _ := newTestApp(t, model.Snapshot{})
	m, _ := a.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	if view := m.(App).View(); !strings.Contains(view, "too narrow") {
		t.Fatalf("view = %q", view)
	}
}
