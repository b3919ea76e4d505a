// Package model defines the entities tracked by khata and the derived
// values computed from them.
package model

import (
	"github.com/shopspring/decimal"
)

func init() {
	// Amounts travel as JSON numbers, matching payloads older backups used.
	decimal.MarshalJSONWithoutQuotes = true
}

// Currency tags which of the two configured currencies an amount is in.
type Currency string

const (
	CurrencyPrimary   Currency = "primary"
	CurrencySecondary Currency = "secondary"
)

// Valid reports whether c is a known currency tag. An empty tag is valid
// and means primary; records written before currencies existed omit it.
func (c Currency) Valid() bool {
	return c == "" || c == CurrencyPrimary || c == CurrencySecondary
}

// IsSecondary reports whether amounts tagged c need conversion.
func (c Currency) IsSecondary() bool {
	return c == CurrencySecondary
}

// TransactionType is the direction of a transaction.
type TransactionType string

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// Valid reports whether t is income or expense.
func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

// LiabilityType distinguishes money owed home from ordinary debt.
type LiabilityType string

const (
	Remittance LiabilityType = "remittance"
	Debt       LiabilityType = "debt"
)

// Valid reports whether t is remittance or debt.
func (t LiabilityType) Valid() bool {
	return t == Remittance || t == Debt
}

// Transaction is a single income or expense entry. Immutable once created.
type Transaction struct {
	ID          string          `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    Currency        `json:"currency,omitempty"`
	Type        TransactionType `json:"type"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Date        Date            `json:"date"`
}

// Goal is a savings target. CurrentAmount may exceed TargetAmount.
type Goal struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
}

// Liability is an obligation being paid down. PaidAmount may exceed
// TotalAmount.
type Liability struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	PaidAmount  decimal.Decimal `json:"paidAmount"`
	Type        LiabilityType   `json:"type"`
}

// Remaining returns TotalAmount - PaidAmount, negative on overpayment.
func (l Liability) Remaining() decimal.Decimal {
	return l.TotalAmount.Sub(l.PaidAmount)
}

// QuickPreset is a template for one-tap transaction entry.
type QuickPreset struct {
	ID          string          `json:"id"`
	Icon        string          `json:"icon"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    Currency        `json:"currency,omitempty"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Type        TransactionType `json:"type"`
}

// Snapshot is the full persisted state. Transactions are newest first;
// goals, liabilities and presets keep insertion order.
type Snapshot struct {
	Transactions []Transaction `json:"transactions"`
	Goals        []Goal        `json:"goals"`
	Liabilities  []Liability   `json:"liabilities"`
	Presets      []QuickPreset `json:"presets"`
	WebhookURL   string        `json:"webhookUrl,omitempty"`
}
