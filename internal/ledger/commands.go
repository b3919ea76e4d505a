// Package ledger implements the mutating commands over a snapshot.
//
// Each command is a pure function from (snapshot, input) to a new
// snapshot. Inputs that fail validation return the original snapshot
// together with a sentinel error, so callers can show a prompt and carry
// on. Commands never modify the slices of the snapshot they receive.
package ledger

import (
	"errors"
	"strings"

	"github.com/theirongolddev/khata/internal/model"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidAmount is returned for a zero or negative amount.
	ErrInvalidAmount = errors.New("ledger: amount must be greater than zero")
	// ErrEmptyDescription is returned when a description is blank.
	ErrEmptyDescription = errors.New("ledger: description is required")
	// ErrEmptyTitle is returned when a goal or liability title is blank.
	ErrEmptyTitle = errors.New("ledger: title is required")
	// ErrInvalidType is returned for an unknown transaction or liability type.
	ErrInvalidType = errors.New("ledger: unknown type")
	// ErrInvalidCurrency is returned for an unknown currency tag.
	ErrInvalidCurrency = errors.New("ledger: unknown currency")
	// ErrNotFound is returned when a command needs an entity that does not exist.
	ErrNotFound = errors.New("ledger: not found")
	// ErrDeclined is returned when a destructive command is not confirmed.
	ErrDeclined = errors.New("ledger: not confirmed")
)

// NewTransaction is the input for AddTransaction.
type NewTransaction struct {
	Amount      decimal.Decimal
	Currency    model.Currency
	Type        model.TransactionType
	Category    string
	Description string
	Date        model.Date
}

// Validate checks the input without applying it.
func (in NewTransaction) Validate() error {
	if !in.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(in.Description) == "" {
		return ErrEmptyDescription
	}
	if !in.Type.Valid() {
		return ErrInvalidType
	}
	if !in.Currency.Valid() {
		return ErrInvalidCurrency
	}
	return nil
}

// AddTransaction prepends a transaction with the given id.
func AddTransaction(s model.Snapshot, in NewTransaction, id string) (model.Snapshot, model.Transaction, error) {
	if err := in.Validate(); err != nil {
		return s, model.Transaction{}, err
	}

	currency := in.Currency
	if currency == "" {
		currency = model.CurrencyPrimary
	}
	t := model.Transaction{
		ID:          id,
		Amount:      in.Amount,
		Currency:    currency,
		Type:        in.Type,
		Category:    strings.TrimSpace(in.Category),
		Description: strings.TrimSpace(in.Description),
		Date:        in.Date,
	}

	txs := make([]model.Transaction, 0, len(s.Transactions)+1)
	txs = append(txs, t)
	txs = append(txs, s.Transactions...)
	s.Transactions = txs
	return s, t, nil
}

// DeleteTransaction removes the transaction with id. Unknown ids are a no-op.
func DeleteTransaction(s model.Snapshot, id string) model.Snapshot {
	s.Transactions = without(s.Transactions, func(t model.Transaction) bool { return t.ID == id })
	return s
}

// AddGoal appends a goal with zero progress.
func AddGoal(s model.Snapshot, title string, target decimal.Decimal, id string) (model.Snapshot, model.Goal, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return s, model.Goal{}, ErrEmptyTitle
	}
	if !target.IsPositive() {
		return s, model.Goal{}, ErrInvalidAmount
	}

	g := model.Goal{ID: id, Title: title, TargetAmount: target, CurrentAmount: decimal.Zero}
	s.Goals = appendCopy(s.Goals, g)
	return s, g, nil
}

// UpdateGoalAmount adds delta to a goal's current amount. The result is
// not clamped to the target. Unknown ids are a no-op.
func UpdateGoalAmount(s model.Snapshot, id string, delta decimal.Decimal) (model.Snapshot, error) {
	if !delta.IsPositive() {
		return s, ErrInvalidAmount
	}
	s.Goals = update(s.Goals, func(g model.Goal) bool { return g.ID == id }, func(g *model.Goal) {
		g.CurrentAmount = g.CurrentAmount.Add(delta)
	})
	return s, nil
}

// DeleteGoal removes the goal with id. Unknown ids are a no-op.
func DeleteGoal(s model.Snapshot, id string) model.Snapshot {
	s.Goals = without(s.Goals, func(g model.Goal) bool { return g.ID == id })
	return s
}

// AddLiability appends a liability with nothing paid.
func AddLiability(s model.Snapshot, title string, total decimal.Decimal, typ model.LiabilityType, id string) (model.Snapshot, model.Liability, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return s, model.Liability{}, ErrEmptyTitle
	}
	if !total.IsPositive() {
		return s, model.Liability{}, ErrInvalidAmount
	}
	if !typ.Valid() {
		return s, model.Liability{}, ErrInvalidType
	}

	l := model.Liability{ID: id, Title: title, TotalAmount: total, PaidAmount: decimal.Zero, Type: typ}
	s.Liabilities = appendCopy(s.Liabilities, l)
	return s, l, nil
}

// UpdateLiabilityAmount records a payment of delta. Overpayment is kept.
// Unknown ids are a no-op.
func UpdateLiabilityAmount(s model.Snapshot, id string, delta decimal.Decimal) (model.Snapshot, error) {
	if !delta.IsPositive() {
		return s, ErrInvalidAmount
	}
	s.Liabilities = update(s.Liabilities, func(l model.Liability) bool { return l.ID == id }, func(l *model.Liability) {
		l.PaidAmount = l.PaidAmount.Add(delta)
	})
	return s, nil
}

// EditLiability replaces a liability's title and total, leaving the paid
// amount untouched. Unknown ids are a no-op.
func EditLiability(s model.Snapshot, id, title string, total decimal.Decimal) (model.Snapshot, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return s, ErrEmptyTitle
	}
	if !total.IsPositive() {
		return s, ErrInvalidAmount
	}
	s.Liabilities = update(s.Liabilities, func(l model.Liability) bool { return l.ID == id }, func(l *model.Liability) {
		l.Title = title
		l.TotalAmount = total
	})
	return s, nil
}

// DeleteLiability removes the liability with id. Unknown ids are a no-op.
func DeleteLiability(s model.Snapshot, id string) model.Snapshot {
	s.Liabilities = without(s.Liabilities, func(l model.Liability) bool { return l.ID == id })
	return s
}

func validatePreset(p model.QuickPreset) error {
	if strings.TrimSpace(p.Description) == "" {
		return ErrEmptyDescription
	}
	if !p.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !p.Type.Valid() {
		return ErrInvalidType
	}
	if !p.Currency.Valid() {
		return ErrInvalidCurrency
	}
	return nil
}

// AddPreset appends p under the given id.
func AddPreset(s model.Snapshot, p model.QuickPreset, id string) (model.Snapshot, model.QuickPreset, error) {
	if err := validatePreset(p); err != nil {
		return s, model.QuickPreset{}, err
	}
	p.ID = id
	p.Description = strings.TrimSpace(p.Description)
	s.Presets = appendCopy(s.Presets, p)
	return s, p, nil
}

// UpdatePreset replaces the preset whose id matches p.ID. Unknown ids are
// a no-op.
func UpdatePreset(s model.Snapshot, p model.QuickPreset) (model.Snapshot, error) {
	if err := validatePreset(p); err != nil {
		return s, err
	}
	p.Description = strings.TrimSpace(p.Description)
	s.Presets = update(s.Presets, func(q model.QuickPreset) bool { return q.ID == p.ID }, func(q *model.QuickPreset) {
		*q = p
	})
	return s, nil
}

// DeletePreset removes the preset with id. Unknown ids are a no-op.
func DeletePreset(s model.Snapshot, id string) model.Snapshot {
	s.Presets = without(s.Presets, func(p model.QuickPreset) bool { return p.ID == id })
	return s
}

// PresetTransaction copies p into a transaction input dated on.
func PresetTransaction(p model.QuickPreset, on model.Date) NewTransaction {
	return NewTransaction{
		Amount:      p.Amount,
		Currency:    p.Currency,
		Type:        p.Type,
		Category:    p.Category,
		Description: p.Description,
		Date:        on,
	}
}

// SetWebhookURL stores url with surrounding whitespace removed. The value
// is otherwise opaque.
func SetWebhookURL(s model.Snapshot, url string) model.Snapshot {
	s.WebhookURL = strings.TrimSpace(url)
	return s
}

// ─── Slice helpers ──────────────────────────────────────────────

func appendCopy[T any](items []T, item T) []T {
	out := make([]T, 0, len(items)+1)
	out = append(out, items...)
	return append(out, item)
}

func without[T any](items []T, match func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if !match(it) {
			out = append(out, it)
		}
	}
	return out
}

func update[T any](items []T, match func(T) bool, apply func(*T)) []T {
	out := make([]T, len(items))
	copy(out, items)
	for i := range out {
		if match(out[i]) {
			apply(&out[i])
		}
	}
	return out
}

func find[T any](items []T, match func(T) bool) (T, bool) {
	for _, it := range items {
		if match(it) {
			return it, true
		}
	}
	var zero T
	return zero, false
}
