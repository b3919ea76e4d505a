// Package pipeline computes the derived views over a ledger snapshot:
// totals, monthly windows, progress percentages, breakdowns and trends.
// Every function is pure and takes the reference time explicitly.
package pipeline

import (
	"sort"
	"strings"
	"time"

	"github.com/theirongolddev/khata/internal/model"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Summarize computes the headline totals over native amounts. Amounts in
// the secondary currency are summed as-is, without conversion.
func Summarize(txs []model.Transaction, now time.Time) model.Summary {
	return summarize(txs, now, func(t model.Transaction) decimal.Decimal {
		return t.Amount
	})
}

// SummarizeInPrimary is Summarize with every amount converted to the
// primary currency at rate first.
func SummarizeInPrimary(txs []model.Transaction, now time.Time, rate decimal.Decimal) model.Summary {
	return summarize(txs, now, func(t model.Transaction) decimal.Decimal {
		return ToPrimary(t.Amount, t.Currency, rate)
	})
}

func summarize(txs []model.Transaction, now time.Time, amount func(model.Transaction) decimal.Decimal) model.Summary {
	var s model.Summary
	today := model.DateOf(now)

	for _, t := range txs {
		v := amount(t)
		switch t.Type {
		case model.Income:
			s.TotalIncome = s.TotalIncome.Add(v)
		case model.Expense:
			s.TotalExpense = s.TotalExpense.Add(v)
			if t.Date.SameMonth(today) {
				s.MonthlyExpense = s.MonthlyExpense.Add(v)
			}
		}
	}

	s.TotalBalance = s.TotalIncome.Sub(s.TotalExpense)
	return s
}

// MonthlyExpense sums expenses dated in the calendar month of now, judged
// in now's own location.
func MonthlyExpense(txs []model.Transaction, now time.Time) decimal.Decimal {
	return Summarize(txs, now).MonthlyExpense
}

// ToPrimary converts amount to the primary currency. Secondary amounts are
// multiplied by rate; everything else passes through.
func ToPrimary(amount decimal.Decimal, c model.Currency, rate decimal.Decimal) decimal.Decimal {
	if c.IsSecondary() {
		return amount.Mul(rate)
	}
	return amount
}

// CategoryBreakdown groups expenses by category, largest first. Ties are
// broken by label so the order is stable.
func CategoryBreakdown(txs []model.Transaction) []model.CategoryTotal {
	byCat := make(map[string]*model.CategoryTotal)
	total := decimal.Zero

	for _, t := range txs {
		if t.Type != model.Expense {
			continue
		}
		ct, ok := byCat[t.Category]
		if !ok {
			ct = &model.CategoryTotal{Category: t.Category}
			byCat[t.Category] = ct
		}
		ct.Amount = ct.Amount.Add(t.Amount)
		ct.Count++
		total = total.Add(t.Amount)
	}

	result := make([]model.CategoryTotal, 0, len(byCat))
	for _, ct := range byCat {
		if total.IsPositive() {
			ct.Share = ct.Amount.Div(total).InexactFloat64()
		}
		result = append(result, *ct)
	}

	sort.Slice(result, func(i, j int) bool {
		if c := result[i].Amount.Cmp(result[j].Amount); c != 0 {
			return c > 0
		}
		return result[i].Category < result[j].Category
	})
	return result
}

// AggregateMonths returns income and expense totals for the n calendar
// months ending with now's month, oldest first. Months without activity
// are present with zero totals.
func AggregateMonths(txs []model.Transaction, now time.Time, n int) []model.MonthTotal {
	if n <= 0 {
		return nil
	}

	y, m, _ := now.Date()
	first := time.Date(y, m, 1, 0, 0, 0, 0, now.Location()).AddDate(0, -(n - 1), 0)

	months := make([]model.MonthTotal, n)
	index := make(map[[2]int]int, n)
	for i := range months {
		mt := first.AddDate(0, i, 0)
		months[i] = model.MonthTotal{Year: mt.Year(), Month: mt.Month()}
		index[[2]int{mt.Year(), int(mt.Month())}] = i
	}

	for _, t := range txs {
		i, ok := index[[2]int{t.Date.Year, int(t.Date.Month)}]
		if !ok {
			continue
		}
		switch t.Type {
		case model.Income:
			months[i].Income = months[i].Income.Add(t.Amount)
		case model.Expense:
			months[i].Expense = months[i].Expense.Add(t.Amount)
		}
	}

	return months
}

// FilterByType returns the transactions of the given type.
func FilterByType(txs []model.Transaction, typ model.TransactionType) []model.Transaction {
	var result []model.Transaction
	for _, t := range txs {
		if t.Type == typ {
			result = append(result, t)
		}
	}
	return result
}

// FilterByMonth returns the transactions dated in the calendar month of now.
func FilterByMonth(txs []model.Transaction, now time.Time) []model.Transaction {
	today := model.DateOf(now)
	var result []model.Transaction
	for _, t := range txs {
		if t.Date.SameMonth(today) {
			result = append(result, t)
		}
	}
	return result
}

// FilterBySearch keeps transactions whose description or category contains
// query, case-insensitively.
func FilterBySearch(txs []model.Transaction, query string) []model.Transaction {
	query = strings.TrimSpace(query)
	if query == "" {
		return txs
	}
	var result []model.Transaction
	for _, t := range txs {
		if containsIgnoreCase(t.Description, query) || containsIgnoreCase(t.Category, query) {
			result = append(result, t)
		}
	}
	return result
}

func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
