package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/theirongolddev/khata/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

func manyTransactions(n int) []model.Transaction {
	txs := make([]model.Transaction, n)
	for i := range txs {
		txs[i] = model.Transaction{
			ID:          fmt.Sprintf("t%d", i),
			Amount:      decimal.NewFromInt(int64(i + 1)),
			Type:        model.Expense,
			Category:    "Food",
			Description: fmt.Sprintf("item %d", i),
			Date:        model.Date{Year: 2025, Month: 6, Day: 1},
		}
	}
	txs[0].Currency = model.CurrencySecondary
	return txs
}

func TestNewClient_EmptyURL(t *testing.T) {
	if NewClient("  ", "llama3.2", zerolog.Nop()) != nil {
		t.Fatal("expected nil client for empty url")
	}
}

func TestBuildContext_LimitsRecent(t *testing.T) {
	snap := model.Snapshot{Transactions: manyTransactions(20)}
	fc := BuildContext(snap, model.Summary{}, model.Attainment{}, "BDT", "MYR", RecentLimit)

	if len(fc.RecentTransactions) != RecentLimit {
		t.Fatalf("recent = %d, want %d", len(fc.RecentTransactions), RecentLimit)
	}
	if fc.RecentTransactions[0].Description != "item 0" {
		t.Errorf("first recent = %q, want newest", fc.RecentTransactions[0].Description)
	}
	if fc.RecentTransactions[0].Amount != "1 MYR" || fc.RecentTransactions[1].Amount != "2 BDT" {
		t.Errorf("amounts = %q, %q", fc.RecentTransactions[0].Amount, fc.RecentTransactions[1].Amount)
	}
	if fc.Goals == nil || fc.Liabilities == nil {
		t.Error("nil collections in context")
	}
}

func TestBuildContext_FewerThanLimit(t *testing.T) {
	snap := model.Snapshot{Transactions: manyTransactions(3)}
	fc := BuildContext(snap, model.Summary{}, model.Attainment{}, "BDT", "MYR", RecentLimit)
	if len(fc.RecentTransactions) != 3 {
		t.Fatalf("recent = %d, want 3", len(fc.RecentTransactions))
	}
}

func TestAnalyze(t *testing.T) {
	requests := make(chan generateRequest, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		requests <- req
		_ = json.NewEncoder(w).Encode(generateResponse{Model: req.Model, Response: "  **Save more.**\n", Done: true})
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "llama3.2", zerolog.Nop())
	snap := model.Snapshot{Transactions: manyTransactions(2)}
	text, err := c.Analyze(context.Background(), BuildContext(snap, model.Summary{}, model.Attainment{}, "BDT", "MYR", RecentLimit))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if text != "**Save more.**" {
		t.Errorf("text = %q", text)
	}
	got := <-requests
	if got.Model != "llama3.2" || got.Stream {
		t.Errorf("request = %+v", got)
	}
	if !strings.Contains(got.Prompt, "item 1") {
		t.Error("prompt missing transaction data")
	}
}

func TestAnalyze_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(error) bool
	}{
		{"non-200", http.StatusInternalServerError, "model not found", func(err error) bool {
			return err != nil && strings.Contains(err.Error(), "500 - model not found")
		}},
		{"empty response", http.StatusOK, `{"model":"m","response":"","done":true}`, func(err error) bool {
			return errors.Is(err, ErrEmptyResponse)
		}},
		{"bad json", http.StatusOK, `{"response":`, func(err error) bool {
			return err != nil && strings.Contains(err.Error(), "parsing response")
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, "m", zerolog.Nop()).Analyze(context.Background(), Context{})
			if !tt.check(err) {
				t.Fatalf("err = %v", err)
			}
		})
	}
}
