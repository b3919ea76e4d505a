package store

import (
	"path/filepath"
	"testing"

	"github.com/theirongolddev/khata/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

func openTemp(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", DBFile)
	s, err := Open(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func TestLoad_FreshStoreDefaults(t *testing.T) {
	s, _ := openTemp(t)

	snap := s.Load()
	if len(snap.Transactions) != 0 || len(snap.Goals) != 0 || len(snap.Liabilities) != 0 {
		t.Fatalf("fresh store not empty: %+v", snap)
	}
	if snap.WebhookURL != "" {
		t.Fatalf("WebhookURL = %q, want empty", snap.WebhookURL)
	}
	if len(snap.Presets) != len(model.StarterPresets()) {
		t.Fatalf("presets = %d, want starter set of %d", len(snap.Presets), len(model.StarterPresets()))
	}
	seen := make(map[string]bool)
	for _, p := range snap.Presets {
		if p.ID == "" || seen[p.ID] {
			t.Fatalf("preset id %q missing or duplicated", p.ID)
		}
		seen[p.ID] = true
	}
}

func TestPersistLoad_RoundTrip(t *testing.T) {
	s, path := openTemp(t)

	in := model.Snapshot{
		Transactions: []model.Transaction{
			{ID: "t2", Amount: decimal.RequireFromString("40"), Currency: model.CurrencyPrimary, Type: model.Expense, Category: "Food", Description: "Lunch", Date: model.Date{Year: 2025, Month: 6, Day: 2}},
			{ID: "t1", Amount: decimal.RequireFromString("12.50"), Currency: model.CurrencySecondary, Type: model.Income, Category: "Gift", Description: "Card", Date: model.Date{Year: 2025, Month: 6, Day: 1}},
		},
		Goals:       []model.Goal{{ID: "g1", Title: "Laptop", TargetAmount: decimal.NewFromInt(1000), CurrentAmount: decimal.NewFromInt(500)}},
		Liabilities: []model.Liability{{ID: "l1", Title: "Home", TotalAmount: decimal.NewFromInt(2000), PaidAmount: decimal.NewFromInt(2500), Type: model.Remittance}},
		Presets:     []model.QuickPreset{{ID: "p1", Icon: "☕", Amount: decimal.NewFromInt(20), Description: "Tea", Category: "Food", Type: model.Expense}},
		WebhookURL:  "https://script.example/exec",
	}
	if err := s.Persist(in); err != nil {
		t.Fatalf("Persist: %v", err)
	}
	_ = s.Close()

	reopened, err := Open(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = reopened.Close() }()

	out := reopened.Load()
	if len(out.Transactions) != 2 || out.Transactions[0].ID != "t2" || out.Transactions[1].ID != "t1" {
		t.Fatalf("transaction order = %+v", out.Transactions)
	}
	if !out.Transactions[1].Amount.Equal(decimal.RequireFromString("12.5")) {
		t.Errorf("amount = %s, want 12.5", out.Transactions[1].Amount)
	}
	if out.Transactions[1].Currency != model.CurrencySecondary {
		t.Errorf("currency = %q, want secondary", out.Transactions[1].Currency)
	}
	if out.Transactions[0].Date.String() != "2025-06-02" {
		t.Errorf("date = %s", out.Transactions[0].Date)
	}
	if len(out.Goals) != 1 || !out.Goals[0].CurrentAmount.Equal(decimal.NewFromInt(500)) {
		t.Errorf("goals = %+v", out.Goals)
	}
	if len(out.Liabilities) != 1 || !out.Liabilities[0].PaidAmount.Equal(decimal.NewFromInt(2500)) {
		t.Errorf("liabilities = %+v", out.Liabilities)
	}
	if len(out.Presets) != 1 || out.Presets[0].ID != "p1" {
		t.Errorf("presets = %+v", out.Presets)
	}
	if out.WebhookURL != in.WebhookURL {
		t.Errorf("WebhookURL = %q", out.WebhookURL)
	}
}

func TestLoad_EmptyPresetsStayEmpty(t *testing.T) {
	s, _ := openTemp(t)
	if err := s.Persist(model.Snapshot{}); err != nil {
		t.Fatal(err)
	}
	if got := s.Load().Presets; len(got) != 0 {
		t.Fatalf("presets = %d, want 0 after explicit empty persist", len(got))
	}

	raw, ok, err := s.Get(KeyGoals)
	if err != nil || !ok {
		t.Fatalf("Get goals: ok=%v err=%v", ok, err)
	}
	if raw != "[]" {
		t.Fatalf("empty goals encoded as %q, want []", raw)
	}
}

func TestLoad_CorruptSlotFallsBack(t *testing.T) {
	s, _ := openTemp(t)
	if err := s.Persist(model.Snapshot{Goals: []model.Goal{{ID: "g1", Title: "Keep", TargetAmount: decimal.NewFromInt(1)}}}); err != nil {
		t.Fatal(err)
	}
	if err := s.Set(KeyTransactions, "{not json"); err != nil {
		t.Fatal(err)
	}
	if err := s.Set(KeyPresets, `[{"id":"p","amount":"abc"}]`); err != nil {
		t.Fatal(err)
	}

	snap := s.Load()
	if len(snap.Transactions) != 0 {
		t.Fatalf("corrupt transactions decoded to %+v", snap.Transactions)
	}
	if len(snap.Presets) != 0 {
		t.Fatalf("corrupt presets decoded to %+v, want empty", snap.Presets)
	}
	if len(snap.Goals) != 1 || snap.Goals[0].Title != "Keep" {
		t.Fatalf("healthy slot lost: %+v", snap.Goals)
	}

	kept, ok, err := s.Get(KeyTransactions + CorruptSuffix)
	if err != nil || !ok || kept != "{not json" {
		t.Fatalf("corrupt copy = %q ok=%v err=%v", kept, ok, err)
	}

	// A later persist replaces the slot but leaves the copy alone.
	if err := s.Persist(snap); err != nil {
		t.Fatal(err)
	}
	if kept, _, _ := s.Get(KeyTransactions + CorruptSuffix); kept != "{not json" {
		t.Fatalf("corrupt copy overwritten: %q", kept)
	}
}

func TestLoad_StarterPresetIDsStable(t *testing.T) {
	s, path := openTemp(t)
	first := s.Load()
	_ = s.Close()

	reopened, err := Open(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = reopened.Close() }()

	second := reopened.Load()
	if len(second.Presets) != len(first.Presets) {
		t.Fatalf("presets = %d, want %d", len(second.Presets), len(first.Presets))
	}
	for i := range first.Presets {
		if first.Presets[i].ID != second.Presets[i].ID {
			t.Fatalf("preset %d id changed across loads: %s -> %s", i, first.Presets[i].ID, second.Presets[i].ID)
		}
	}
	if third := reopened.Load(); third.Presets[0].ID != first.Presets[0].ID {
		t.Fatalf("preset id changed on reload: %s", third.Presets[0].ID)
	}
}

func TestUpdatedAt(t *testing.T) {
	s, _ := openTemp(t)

	at, err := s.UpdatedAt(KeyGoals)
	if err != nil || !at.IsZero() {
		t.Fatalf("before write: %v, %v", at, err)
	}
	if err := s.Persist(model.Snapshot{}); err != nil {
		t.Fatal(err)
	}
	at, err = s.UpdatedAt(KeyGoals)
	if err != nil || at.IsZero() {
		t.Fatalf("after write: %v, %v", at, err)
	}
}
