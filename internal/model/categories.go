package model

import "github.com/shopspring/decimal"

// Suggested category labels. Transactions may use any label.
var (
	IncomeCategories = []string{
		"Salary",
		"Business",
		"Gift",
		"Freelancing",
		"Other",
	}

	ExpenseCategories = []string{
		"Food",
		"Transport",
		"House Rent",
		"Shopping",
		"Bills",
		"Entertainment",
		"Other",
	}
)

// CategoriesFor returns the suggested labels for t.
func CategoriesFor(t TransactionType) []string {
	if t == Income {
		return IncomeCategories
	}
	return ExpenseCategories
}

// StarterPresets returns the presets seeded on first run, without ids.
func StarterPresets() []QuickPreset {
	return []QuickPreset{
		{Icon: "☕", Amount: decimal.NewFromInt(20), Description: "Tea/Coffee", Category: "Food", Type: Expense},
		{Icon: "🚌", Amount: decimal.NewFromInt(30), Description: "Bus fare", Category: "Transport", Type: Expense},
		{Icon: "🍔", Amount: decimal.NewFromInt(150), Description: "Lunch", Category: "Food", Type: Expense},
		{Icon: "🛒", Amount: decimal.NewFromInt(500), Description: "Groceries", Category: "Shopping", Type: Expense},
		{Icon: "💰", Amount: decimal.NewFromInt(1000), Description: "Freelancing", Category: "Freelancing", Type: Income},
		{Icon: "🎁", Amount: decimal.NewFromInt(500), Description: "Gift", Category: "Gift", Type: Income},
	}
}
