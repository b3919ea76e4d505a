package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Summary holds the headline totals. Derived, never persisted.
type Summary struct {
	TotalBalance   decimal.Decimal `json:"totalBalance"`
	TotalIncome    decimal.Decimal `json:"totalIncome"`
	TotalExpense   decimal.Decimal `json:"totalExpense"`
	MonthlyExpense decimal.Decimal `json:"monthlyExpense"`
}

// CategoryTotal is one slice of the expense breakdown.
type CategoryTotal struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Count    int             `json:"count"`
	Share    float64         `json:"share"` // 0-1 of all expenses
}

// Attainment aggregates progress across every goal and liability.
// Percentages are whole numbers and unclamped.
type Attainment struct {
	GoalTarget   decimal.Decimal `json:"goalTarget"`
	GoalSaved    decimal.Decimal `json:"goalSaved"`
	GoalProgress int             `json:"goalProgress"`

	LiabilityTotal     decimal.Decimal `json:"liabilityTotal"`
	LiabilityPaid      decimal.Decimal `json:"liabilityPaid"`
	DebtProgress       int             `json:"debtProgress"`
	RemainingLiability int             `json:"remainingLiability"`

	SavingsRate  int `json:"savingsRate"`
	ExpenseRatio int `json:"expenseRatio"`
}

// MonthTotal holds income and expense for one calendar month.
type MonthTotal struct {
	Year    int             `json:"year"`
	Month   time.Month      `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// Label returns a short month label like "Mar".
func (m MonthTotal) Label() string {
	return m.Month.String()[:3]
}
