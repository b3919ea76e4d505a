// Package export renders a ledger snapshot as CSV for spreadsheets and as
// the JSON payload handed to backup sinks.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/theirongolddev/khata/internal/model"
	"github.com/theirongolddev/khata/internal/pipeline"

	"github.com/shopspring/decimal"
)

// Options names the currencies written into the CSV.
type Options struct {
	PrimaryCode   string
	SecondaryCode string
	Rate          decimal.Decimal // primary units per secondary unit
}

// Section titles written between CSV blocks.
const (
	GoalsSection       = "Financial Goals"
	LiabilitiesSection = "Liabilities (Remittance/Debt)"
)

// FileName returns the default CSV file name for a backup taken at now.
func FileName(now time.Time) string {
	return "khata_backup_" + model.DateOf(now).String() + ".csv"
}

// WriteCSV writes transactions, goals and liabilities as three CSV blocks
// separated by blank lines.
func WriteCSV(w io.Writer, snap model.Snapshot, opts Options) error {
	cw := csv.NewWriter(w)

	write := func(record ...string) {
		_ = cw.Write(record)
	}

	write("Type", "Date", "Description", "Category", "Amount", "Currency", "Amount("+opts.PrimaryCode+")")
	for _, t := range snap.Transactions {
		write(
			string(t.Type),
			t.Date.String(),
			t.Description,
			t.Category,
			t.Amount.String(),
			opts.code(t.Currency),
			pipeline.ToPrimary(t.Amount, t.Currency, opts.Rate).StringFixed(2),
		)
	}

	write()
	write(GoalsSection)
	write("Title", "Target", "Current", "Progress")
	for _, g := range snap.Goals {
		write(
			g.Title,
			g.TargetAmount.String(),
			g.CurrentAmount.String(),
			fmt.Sprintf("%d%%", pipeline.GoalProgressPercent(g)),
		)
	}

	write()
	write(LiabilitiesSection)
	write("Type", "Title", "Total", "Paid", "Remaining")
	for _, l := range snap.Liabilities {
		write(
			string(l.Type),
			l.Title,
			l.TotalAmount.String(),
			l.PaidAmount.String(),
			l.Remaining().String(),
		)
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}

func (o Options) code(c model.Currency) string {
	if c.IsSecondary() {
		return o.SecondaryCode
	}
	return o.PrimaryCode
}

// Payload is the document sent to backup sinks. Presets and the webhook
// URL stay local.
type Payload struct {
	Timestamp    time.Time           `json:"timestamp"`
	Transactions []model.Transaction `json:"transactions"`
	Goals        []model.Goal        `json:"goals"`
	Liabilities  []model.Liability   `json:"liabilities"`
}

// NewPayload captures snap at now.
func NewPayload(snap model.Snapshot, now time.Time) Payload {
	return Payload{
		Timestamp:    now.UTC(),
		Transactions: nonNil(snap.Transactions),
		Goals:        nonNil(snap.Goals),
		Liabilities:  nonNil(snap.Liabilities),
	}
}

// Encode returns the payload as JSON.
func (p Payload) Encode() ([]byte, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encoding payload: %w", err)
	}
	return b, nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
