package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestDateJSON(t *testing.T) {
	d := Date{Year: 2025, Month: time.March, Day: 7}
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `"2025-03-07"` {
		t.Fatalf("Marshal = %s, want \"2025-03-07\"", b)
	}

	var back Date
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatal(err)
	}
	if back != d {
		t.Fatalf("Unmarshal = %v, want %v", back, d)
	}
}

func TestDateUnmarshal_AcceptsTimestamp(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte(`"2024-12-31T23:10:00.000Z"`), &d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.String() != "2024-12-31" {
		t.Fatalf("date = %s, want 2024-12-31", d)
	}
}

func TestDateUnmarshal_RejectsGarbage(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte(`"yesterday"`), &d); err == nil {
		t.Fatal("expected error for non-date string")
	}
}

func TestDateOrdering(t *testing.T) {
	a := Date{Year: 2025, Month: time.January, Day: 31}
	b := Date{Year: 2025, Month: time.February, Day: 1}
	if !a.Before(b) || b.Before(a) {
		t.Fatal("expected Jan 31 before Feb 1")
	}
	if a.SameMonth(b) {
		t.Fatal("Jan and Feb reported as same month")
	}
}

func TestTransactionJSON_AmountIsNumber(t *testing.T) {
	tx := Transaction{
		ID:     "t1",
		Amount: decimal.RequireFromString("12.50"),
		Type:   Expense,
		Date:   Date{Year: 2025, Month: time.May, Day: 1},
	}
	b, err := json.Marshal(tx)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `"amount":12.5`) {
		t.Fatalf("amount not encoded as number: %s", b)
	}
}
