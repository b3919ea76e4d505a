package ledger

import (
	"fmt"
	"time"

	"github.com/theirongolddev/khata/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Persister stores a full snapshot.
type Persister interface {
	Persist(model.Snapshot) error
}

// Confirmer approves destructive commands.
type Confirmer interface {
	Confirm(prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) (bool, error)

// Confirm calls f.
func (f ConfirmFunc) Confirm(prompt string) (bool, error) { return f(prompt) }

// AutoConfirm approves everything. Used for --yes.
var AutoConfirm = ConfirmFunc(func(string) (bool, error) { return true, nil })

// Options configures a Book. Zero values get defaults; a nil Confirm
// declines every destructive command.
type Options struct {
	Store   Persister
	Confirm Confirmer
	NewID   func() string
	Now     func() time.Time
	Logger  zerolog.Logger
}

// Book owns the live snapshot. Each command applies the matching pure
// function and then persists the whole snapshot. Persistence is
// best-effort: failures are logged and the in-memory change stands.
type Book struct {
	snap    model.Snapshot
	store   Persister
	confirm Confirmer
	newID   func() string
	now     func() time.Time
	log     zerolog.Logger
}

// New returns a Book starting from snap.
func New(snap model.Snapshot, opts Options) *Book {
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Book{
		snap:    snap,
		store:   opts.Store,
		confirm: opts.Confirm,
		newID:   opts.NewID,
		now:     opts.Now,
		log:     opts.Logger.With().Str("component", "ledger").Logger(),
	}
}

// Snapshot returns the current state.
func (b *Book) Snapshot() model.Snapshot {
	return b.snap
}

// Today returns the current civil date.
func (b *Book) Today() model.Date {
	return model.DateOf(b.now())
}

// Persist writes the current snapshot. Unlike the implicit persistence
// after each command, the error is returned.
func (b *Book) Persist() error {
	if b.store == nil {
		return nil
	}
	return b.store.Persist(b.snap)
}

func (b *Book) commit(next model.Snapshot, op string) {
	b.snap = next
	if err := b.Persist(); err != nil {
		b.log.Error().Err(err).Str("op", op).Msg("persisting snapshot")
		return
	}
	b.log.Debug().Str("op", op).Msg("snapshot persisted")
}

func (b *Book) confirmed(prompt string) error {
	if b.confirm == nil {
		return ErrDeclined
	}
	ok, err := b.confirm.Confirm(prompt)
	if err != nil {
		return fmt.Errorf("confirming: %w", err)
	}
	if !ok {
		return ErrDeclined
	}
	return nil
}

// AddTransaction records a new transaction.
func (b *Book) AddTransaction(in NewTransaction) (model.Transaction, error) {
	next, t, err := AddTransaction(b.snap, in, b.newID())
	if err != nil {
		return model.Transaction{}, err
	}
	b.commit(next, "add_transaction")
	return t, nil
}

// DeleteTransaction removes a transaction after confirmation. Unknown ids
// return nil without prompting.
func (b *Book) DeleteTransaction(id string) error {
	t, ok := find(b.snap.Transactions, func(t model.Transaction) bool { return t.ID == id })
	if !ok {
		return nil
	}
	if err := b.confirmed(fmt.Sprintf("Delete transaction %q?", t.Description)); err != nil {
		return err
	}
	b.commit(DeleteTransaction(b.snap, id), "delete_transaction")
	return nil
}

// AddGoal creates a savings goal.
func (b *Book) AddGoal(title string, target decimal.Decimal) (model.Goal, error) {
	next, g, err := AddGoal(b.snap, title, target, b.newID())
	if err != nil {
		return model.Goal{}, err
	}
	b.commit(next, "add_goal")
	return g, nil
}

// UpdateGoalAmount deposits delta into a goal.
func (b *Book) UpdateGoalAmount(id string, delta decimal.Decimal) error {
	next, err := UpdateGoalAmount(b.snap, id, delta)
	if err != nil {
		return err
	}
	b.commit(next, "update_goal_amount")
	return nil
}

// DeleteGoal removes a goal after confirmation.
func (b *Book) DeleteGoal(id string) error {
	g, ok := find(b.snap.Goals, func(g model.Goal) bool { return g.ID == id })
	if !ok {
		return nil
	}
	if err := b.confirmed(fmt.Sprintf("Delete goal %q?", g.Title)); err != nil {
		return err
	}
	b.commit(DeleteGoal(b.snap, id), "delete_goal")
	return nil
}

// AddLiability creates a liability.
func (b *Book) AddLiability(title string, total decimal.Decimal, typ model.LiabilityType) (model.Liability, error) {
	next, l, err := AddLiability(b.snap, title, total, typ, b.newID())
	if err != nil {
		return model.Liability{}, err
	}
	b.commit(next, "add_liability")
	return l, nil
}

// UpdateLiabilityAmount records a payment.
func (b *Book) UpdateLiabilityAmount(id string, delta decimal.Decimal) error {
	next, err := UpdateLiabilityAmount(b.snap, id, delta)
	if err != nil {
		return err
	}
	b.commit(next, "update_liability_amount")
	return nil
}

// EditLiability changes a liability's title and total.
func (b *Book) EditLiability(id, title string, total decimal.Decimal) error {
	next, err := EditLiability(b.snap, id, title, total)
	if err != nil {
		return err
	}
	b.commit(next, "edit_liability")
	return nil
}

// DeleteLiability removes a liability after confirmation.
func (b *Book) DeleteLiability(id string) error {
	l, ok := find(b.snap.Liabilities, func(l model.Liability) bool { return l.ID == id })
	if !ok {
		return nil
	}
	if err := b.confirmed(fmt.Sprintf("Delete liability %q?", l.Title)); err != nil {
		return err
	}
	b.commit(DeleteLiability(b.snap, id), "delete_liability")
	return nil
}

// AddPreset creates a quick-entry preset.
func (b *Book) AddPreset(p model.QuickPreset) (model.QuickPreset, error) {
	next, added, err := AddPreset(b.snap, p, b.newID())
	if err != nil {
		return model.QuickPreset{}, err
	}
	b.commit(next, "add_preset")
	return added, nil
}

// UpdatePreset replaces a preset in place.
func (b *Book) UpdatePreset(p model.QuickPreset) error {
	next, err := UpdatePreset(b.snap, p)
	if err != nil {
		return err
	}
	b.commit(next, "update_preset")
	return nil
}

// DeletePreset removes a preset after confirmation.
func (b *Book) DeletePreset(id string) error {
	p, ok := find(b.snap.Presets, func(p model.QuickPreset) bool { return p.ID == id })
	if !ok {
		return nil
	}
	if err := b.confirmed(fmt.Sprintf("Delete preset %q?", p.Description)); err != nil {
		return err
	}
	b.commit(DeletePreset(b.snap, id), "delete_preset")
	return nil
}

// UsePreset records a transaction copied from the preset, dated today.
func (b *Book) UsePreset(id string) (model.Transaction, error) {
	p, ok := find(b.snap.Presets, func(p model.QuickPreset) bool { return p.ID == id })
	if !ok {
		return model.Transaction{}, ErrNotFound
	}
	return b.AddTransaction(PresetTransaction(p, b.Today()))
}

// SetWebhookURL stores the backup endpoint.
func (b *Book) SetWebhookURL(url string) {
	b.commit(SetWebhookURL(b.snap, url), "set_webhook_url")
}
