package pipeline

import (
	"github.com/theirongolddev/khata/internal/model"

	"github.com/shopspring/decimal"
)

// Percent returns round(100*part/whole). A non-positive whole yields 0.
// The result is not clamped; overshoot is reported as-is.
func Percent(part, whole decimal.Decimal) int {
	if !whole.IsPositive() {
		return 0
	}
	return int(part.Mul(hundred).Div(whole).Round(0).IntPart())
}

// ClampPercent limits p to [0, 100] for bar rendering.
func ClampPercent(p int) int {
	return max(0, min(p, 100))
}

// GoalProgressPercent is current over target, unclamped.
func GoalProgressPercent(g model.Goal) int {
	return Percent(g.CurrentAmount, g.TargetAmount)
}

// LiabilityProgressPercent is paid over total, unclamped.
func LiabilityProgressPercent(l model.Liability) int {
	return Percent(l.PaidAmount, l.TotalAmount)
}

// SavingsRate is the share of income left after expenses, floored at 0.
func SavingsRate(income, expense decimal.Decimal) int {
	return max(0, Percent(income.Sub(expense), income))
}

// ExpenseRatio is expenses as a share of income, capped at 100.
func ExpenseRatio(income, expense decimal.Decimal) int {
	return min(100, Percent(expense, income))
}

// Attainment aggregates progress across all goals and liabilities and
// folds in the savings figures from s.
func Attainment(s model.Summary, goals []model.Goal, liabilities []model.Liability) model.Attainment {
	var a model.Attainment

	for _, g := range goals {
		a.GoalTarget = a.GoalTarget.Add(g.TargetAmount)
		a.GoalSaved = a.GoalSaved.Add(g.CurrentAmount)
	}
	a.GoalProgress = Percent(a.GoalSaved, a.GoalTarget)

	for _, l := range liabilities {
		a.LiabilityTotal = a.LiabilityTotal.Add(l.TotalAmount)
		a.LiabilityPaid = a.LiabilityPaid.Add(l.PaidAmount)
	}
	a.DebtProgress = Percent(a.LiabilityPaid, a.LiabilityTotal)
	if a.LiabilityTotal.IsPositive() {
		a.RemainingLiability = 100 - a.DebtProgress
	}

	a.SavingsRate = SavingsRate(s.TotalIncome, s.TotalExpense)
	a.ExpenseRatio = ExpenseRatio(s.TotalIncome, s.TotalExpense)
	return a
}
