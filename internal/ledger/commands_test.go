package ledger

import (
	"errors"
	"testing"

	"github.com/theirongolddev/khata/internal/model"

	"github.com/shopspring/decimal"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", s, err)
	}
	return d
}

func mustDate(t *testing.T, s string) model.Date {
	t.Helper()
	d, err := model.ParseDate(s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func expense(t *testing.T, amount, desc string) NewTransaction {
	t.Helper()
	return NewTransaction{
		Amount:      dec(t, amount),
		Type:        model.Expense,
		Category:    "Food",
		Description: desc,
		Date:        mustDate(t, "2025-06-01"),
	}
}

func TestAddTransaction_PrependsNewest(t *testing.T) {
	var s model.Snapshot
	s, _, err := AddTransaction(s, expense(t, "10", "first"), "a")
	if err != nil {
		t.Fatal(err)
	}
	s, added, err := AddTransaction(s, expense(t, "20", "second"), "b")
	if err != nil {
		t.Fatal(err)
	}

	if len(s.Transactions) != 2 {
		t.Fatalf("len = %d, want 2", len(s.Transactions))
	}
	if s.Transactions[0].ID != "b" || added.ID != "b" {
		t.Fatalf("first transaction = %s, want b", s.Transactions[0].ID)
	}
	if s.Transactions[0].Currency != model.CurrencyPrimary {
		t.Fatalf("currency = %q, want primary default", s.Transactions[0].Currency)
	}
}

func TestAddTransaction_Validation(t *testing.T) {
	base := model.Snapshot{Transactions: []model.Transaction{{ID: "x"}}}

	tests := []struct {
		name string
		in   NewTransaction
		want error
	}{
		{"zero amount", expense(t, "0", "tea"), ErrInvalidAmount},
		{"negative amount", expense(t, "-5", "tea"), ErrInvalidAmount},
		{"blank description", expense(t, "5", "   "), ErrEmptyDescription},
		{"bad type", func() NewTransaction { in := expense(t, "5", "tea"); in.Type = "transfer"; return in }(), ErrInvalidType},
		{"bad currency", func() NewTransaction { in := expense(t, "5", "tea"); in.Currency = "usd"; return in }(), ErrInvalidCurrency},
	}

	for _, tt := range tests {
		got, _, err := AddTransaction(base, tt.in, "new")
		if !errors.Is(err, tt.want) {
			t.Errorf("%s: err = %v, want %v", tt.name, err, tt.want)
		}
		if len(got.Transactions) != 1 {
			t.Errorf("%s: state changed, len = %d", tt.name, len(got.Transactions))
		}
	}
}

func TestAddTransaction_DoesNotAliasInput(t *testing.T) {
	orig := model.Snapshot{Transactions: make([]model.Transaction, 1, 4)}
	orig.Transactions[0] = model.Transaction{ID: "old"}

	next, _, err := AddTransaction(orig, expense(t, "1", "x"), "new")
	if err != nil {
		t.Fatal(err)
	}
	if orig.Transactions[0].ID != "old" || len(orig.Transactions) != 1 {
		t.Fatalf("input snapshot mutated: %+v", orig.Transactions)
	}
	if next.Transactions[1].ID != "old" {
		t.Fatalf("next order = %+v", next.Transactions)
	}
}

func TestDeleteTransaction_UnknownIDIsNoop(t *testing.T) {
	s := model.Snapshot{Transactions: []model.Transaction{{ID: "a"}, {ID: "b"}}}
	got := DeleteTransaction(s, "zzz")
	if len(got.Transactions) != 2 {
		t.Fatalf("len = %d, want 2", len(got.Transactions))
	}
	got = DeleteTransaction(s, "a")
	if len(got.Transactions) != 1 || got.Transactions[0].ID != "b" {
		t.Fatalf("after delete = %+v", got.Transactions)
	}
}

func TestGoal_DepositsAccumulate(t *testing.T) {
	var s model.Snapshot
	s, g, err := AddGoal(s, "Laptop", dec(t, "1000"), "g1")
	if err != nil {
		t.Fatal(err)
	}
	if !g.CurrentAmount.IsZero() {
		t.Fatalf("new goal current = %s, want 0", g.CurrentAmount)
	}

	for i := 0; i < 2; i++ {
		if s, err = UpdateGoalAmount(s, "g1", dec(t, "250")); err != nil {
			t.Fatal(err)
		}
	}
	if !s.Goals[0].CurrentAmount.Equal(dec(t, "500")) {
		t.Fatalf("current = %s, want 500", s.Goals[0].CurrentAmount)
	}

	// Overshoot is kept.
	s, _ = UpdateGoalAmount(s, "g1", dec(t, "800"))
	if !s.Goals[0].CurrentAmount.Equal(dec(t, "1300")) {
		t.Fatalf("current = %s, want 1300", s.Goals[0].CurrentAmount)
	}
}

func TestGoal_Validation(t *testing.T) {
	var s model.Snapshot
	if _, _, err := AddGoal(s, " ", dec(t, "10"), "g"); !errors.Is(err, ErrEmptyTitle) {
		t.Errorf("blank title err = %v", err)
	}
	if _, _, err := AddGoal(s, "Bike", dec(t, "0"), "g"); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("zero target err = %v", err)
	}

	s = model.Snapshot{Goals: []model.Goal{{ID: "g", TargetAmount: dec(t, "10")}}}
	for _, bad := range []string{"0", "-3"} {
		got, err := UpdateGoalAmount(s, "g", dec(t, bad))
		if !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("delta %s err = %v, want ErrInvalidAmount", bad, err)
		}
		if !got.Goals[0].CurrentAmount.IsZero() {
			t.Errorf("delta %s changed current to %s", bad, got.Goals[0].CurrentAmount)
		}
	}

	got, err := UpdateGoalAmount(s, "missing", dec(t, "5"))
	if err != nil || !got.Goals[0].CurrentAmount.IsZero() {
		t.Errorf("unknown id should be a no-op, got err=%v current=%s", err, got.Goals[0].CurrentAmount)
	}
}

func TestLiability_PaymentAndEdit(t *testing.T) {
	var s model.Snapshot
	s, _, err := AddLiability(s, "Send home", dec(t, "2000"), model.Remittance, "l1")
	if err != nil {
		t.Fatal(err)
	}

	s, err = UpdateLiabilityAmount(s, "l1", dec(t, "2500"))
	if err != nil {
		t.Fatal(err)
	}
	if !s.Liabilities[0].PaidAmount.Equal(dec(t, "2500")) {
		t.Fatalf("paid = %s, want 2500", s.Liabilities[0].PaidAmount)
	}

	s, err = EditLiability(s, "l1", "Send home (Eid)", dec(t, "3000"))
	if err != nil {
		t.Fatal(err)
	}
	l := s.Liabilities[0]
	if l.Title != "Send home (Eid)" || !l.TotalAmount.Equal(dec(t, "3000")) {
		t.Fatalf("edited = %+v", l)
	}
	if !l.PaidAmount.Equal(dec(t, "2500")) {
		t.Fatalf("edit changed paid amount to %s", l.PaidAmount)
	}
}

func TestLiability_Validation(t *testing.T) {
	var s model.Snapshot
	if _, _, err := AddLiability(s, "Loan", dec(t, "100"), "mortgage", "l"); !errors.Is(err, ErrInvalidType) {
		t.Errorf("bad type err = %v", err)
	}

	s = model.Snapshot{Liabilities: []model.Liability{{ID: "l", Title: "Loan", TotalAmount: dec(t, "100")}}}
	if _, err := EditLiability(s, "l", "", dec(t, "100")); !errors.Is(err, ErrEmptyTitle) {
		t.Errorf("blank title err = %v", err)
	}
	if _, err := EditLiability(s, "l", "Loan", dec(t, "0")); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("zero total err = %v", err)
	}
	if _, err := UpdateLiabilityAmount(s, "l", dec(t, "-1")); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("negative payment err = %v", err)
	}
}

func TestPresets_CRUD(t *testing.T) {
	var s model.Snapshot
	p := model.QuickPreset{Icon: "☕", Amount: dec(t, "20"), Description: "Tea", Category: "Food", Type: model.Expense}

	s, added, err := AddPreset(s, p, "p1")
	if err != nil {
		t.Fatal(err)
	}
	if added.ID != "p1" || len(s.Presets) != 1 {
		t.Fatalf("added = %+v", s.Presets)
	}

	added.Amount = dec(t, "25")
	s, err = UpdatePreset(s, added)
	if err != nil {
		t.Fatal(err)
	}
	if !s.Presets[0].Amount.Equal(dec(t, "25")) {
		t.Fatalf("amount = %s, want 25", s.Presets[0].Amount)
	}

	bad := added
	bad.Description = ""
	if _, err := UpdatePreset(s, bad); !errors.Is(err, ErrEmptyDescription) {
		t.Fatalf("blank description err = %v", err)
	}
	bad = added
	bad.Amount = decimal.Zero
	if _, err := UpdatePreset(s, bad); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("zero amount err = %v", err)
	}

	s = DeletePreset(s, "p1")
	if len(s.Presets) != 0 {
		t.Fatalf("presets after delete = %+v", s.Presets)
	}
}

func TestPresetTransaction_CopiesFields(t *testing.T) {
	p := model.QuickPreset{ID: "p", Amount: dec(t, "150"), Currency: model.CurrencySecondary, Description: "Lunch", Category: "Food", Type: model.Expense}
	on := mustDate(t, "2025-07-04")

	in := PresetTransaction(p, on)
	if !in.Amount.Equal(p.Amount) || in.Currency != p.Currency || in.Description != "Lunch" || in.Date != on {
		t.Fatalf("PresetTransaction = %+v", in)
	}
}

func TestSetWebhookURL_Trims(t *testing.T) {
	s := SetWebhookURL(model.Snapshot{}, "  https://example.com/hook \n")
	if s.WebhookURL != "https://example.com/hook" {
		t.Fatalf("WebhookURL = %q", s.WebhookURL)
	}
}

func TestResolve(t *testing.T) {
	s := model.Snapshot{Goals: []model.Goal{{ID: "abc123"}, {ID: "abd999"}, {ID: "ab"}}}

	if id, err := Resolve(s, KindGoal, "abc"); err != nil || id != "abc123" {
		t.Errorf("Resolve(abc) = %q, %v", id, err)
	}
	if id, err := Resolve(s, KindGoal, "ab"); err != nil || id != "ab" {
		t.Errorf("exact match should win, got %q, %v", id, err)
	}
	if _, err := Resolve(s, KindGoal, "abx"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Resolve(abx) err = %v, want ErrNotFound", err)
	}

	s.Goals = s.Goals[:2]
	if _, err := Resolve(s, KindGoal, "ab"); !errors.Is(err, ErrAmbiguous) {
		t.Errorf("Resolve(ab) err = %v, want ErrAmbiguous", err)
	}
}
