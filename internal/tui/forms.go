package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/theirongolddev/khata/internal/ledger"
	"github.com/theirongolddev/khata/internal/model"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/shopspring/decimal"
)

type formKind int

const (
	formNone formKind = iota
	formTransaction
	formGoal
	formDeposit
	formLiability
	formPayment
	formEditLiability
	formPreset
)

// formValues is shared by pointer with the active huh form.
type formValues struct {
	targetID string

	Type          string
	Currency      string
	Amount        string
	Description   string
	Category      string
	Date          string
	Title         string
	LiabilityType string
	Icon          string
}

var errNotPositive = errors.New("must be greater than zero")

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(strings.ReplaceAll(s, ",", "")))
	if err != nil {
		return decimal.Zero, errors.New("not a number")
	}
	if !d.IsPositive() {
		return decimal.Zero, errNotPositive
	}
	return d, nil
}

func validateAmount(s string) error {
	_, err := parseAmount(s)
	return err
}

func validateRequired(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func validateDate(s string) error {
	_, err := model.ParseDate(strings.TrimSpace(s))
	return err
}

func (a App) currencyOptions() []huh.Option[string] {
	return []huh.Option[string]{
		huh.NewOption(a.cfg.Currency.Primary, string(model.CurrencyPrimary)),
		huh.NewOption(a.cfg.Currency.Secondary, string(model.CurrencySecondary)),
	}
}

func categoryOptions(typ string) []huh.Option[string] {
	return huh.NewOptions(model.CategoriesFor(model.TransactionType(typ))...)
}

func (a App) newTransactionForm(v *formValues) *huh.Form {
	if v.Type == "" {
		v.Type = string(model.Expense)
	}
	v.Currency = string(model.CurrencyPrimary)
	v.Date = a.book.Today().String()

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Type").
				Options(huh.NewOption("Expense", string(model.Expense)), huh.NewOption("Income", string(model.Income))).
				Value(&v.Type),
			huh.NewSelect[string]().
				Title("Currency").
				Options(a.currencyOptions()...).
				Value(&v.Currency),
			huh.NewInput().Title("Amount").Value(&v.Amount).Validate(validateAmount),
			huh.NewInput().Title("Description").Value(&v.Description).Validate(validateRequired("description")),
			huh.NewSelect[string]().
				Title("Category").
				OptionsFunc(func() []huh.Option[string] { return categoryOptions(v.Type) }, &v.Type).
				Value(&v.Category),
			huh.NewInput().Title("Date").Description("YYYY-MM-DD").Value(&v.Date).Validate(validateDate),
		).Title("New transaction"),
	)
}

func newGoalForm(v *formValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(&v.Title).Validate(validateRequired("title")),
			huh.NewInput().Title("Target amount").Value(&v.Amount).Validate(validateAmount),
		).Title("New goal"),
	)
}

func newAmountForm(title string, v *formValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Amount").Value(&v.Amount).Validate(validateAmount),
		).Title(title),
	)
}

func newLiabilityForm(v *formValues, editing bool) *huh.Form {
	title := huh.NewInput().Title("Title").Value(&v.Title).Validate(validateRequired("title"))
	total := huh.NewInput().Title("Total amount").Value(&v.Amount).Validate(validateAmount)
	if editing {
		return huh.NewForm(huh.NewGroup(title, total).Title("Edit liability"))
	}
	if v.LiabilityType == "" {
		v.LiabilityType = string(model.Debt)
	}
	return huh.NewForm(
		huh.NewGroup(
			title,
			total,
			huh.NewSelect[string]().
				Title("Type").
				Options(huh.NewOption("Debt", string(model.Debt)), huh.NewOption("Remittance", string(model.Remittance))).
				Value(&v.LiabilityType),
		).Title("New liability"),
	)
}

func (a App) newPresetForm(v *formValues) *huh.Form {
	v.Type = string(model.Expense)
	v.Currency = string(model.CurrencyPrimary)
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Icon").Placeholder("☕").Value(&v.Icon),
			huh.NewSelect[string]().
				Title("Type").
				Options(huh.NewOption("Expense", string(model.Expense)), huh.NewOption("Income", string(model.Income))).
				Value(&v.Type),
			huh.NewSelect[string]().Title("Currency").Options(a.currencyOptions()...).Value(&v.Currency),
			huh.NewInput().Title("Amount").Value(&v.Amount).Validate(validateAmount),
			huh.NewInput().Title("Description").Value(&v.Description).Validate(validateRequired("description")),
			huh.NewSelect[string]().
				Title("Category").
				OptionsFunc(func() []huh.Option[string] { return categoryOptions(v.Type) }, &v.Type).
				Value(&v.Category),
		).Title("New quick preset"),
	)
}

// openForm shows a form over the dashboard.
func (a App) openForm(kind formKind, vals *formValues, form *huh.Form) (tea.Model, tea.Cmd) {
	form = form.WithShowHelp(true)
	if a.width > 0 {
		form = form.WithWidth(min(a.width-4, 72))
	}
	a.form = form
	a.formKind = kind
	a.formVals = vals
	return a, form.Init()
}

func (a App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		a.closeForm()
		a.message = "Cancelled"
		return a, nil
	}

	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	switch a.form.State {
	case huh.StateCompleted:
		err := a.submitForm()
		a.closeForm()
		if err != nil {
			a.message = errorText(err)
		}
		a.refresh()
		return a, nil
	case huh.StateAborted:
		a.closeForm()
		return a, nil
	}
	return a, cmd
}

func (a *App) closeForm() {
	a.form = nil
	a.formKind = formNone
	a.formVals = nil
}

// submitForm turns the completed form into a ledger command. Amounts were
// validated by the form; the commands still reject bad input.
func (a *App) submitForm() error {
	v := a.formVals
	amount, _ := parseAmount(v.Amount)

	switch a.formKind {
	case formTransaction:
		date, err := model.ParseDate(strings.TrimSpace(v.Date))
		if err != nil {
			return err
		}
		t, err := a.book.AddTransaction(ledger.NewTransaction{
			Amount:      amount,
			Currency:    model.Currency(v.Currency),
			Type:        model.TransactionType(v.Type),
			Category:    v.Category,
			Description: v.Description,
			Date:        date,
		})
		if err != nil {
			return err
		}
		a.message = fmt.Sprintf("Added %s %s", t.Type, a.money(t.Amount, t.Currency))

	case formGoal:
		g, err := a.book.AddGoal(v.Title, amount)
		if err != nil {
			return err
		}
		a.message = fmt.Sprintf("Goal %q created", g.Title)

	case formDeposit:
		if err := a.book.UpdateGoalAmount(v.targetID, amount); err != nil {
			return err
		}
		a.message = "Deposited " + a.money(amount, model.CurrencyPrimary)

	case formLiability:
		l, err := a.book.AddLiability(v.Title, amount, model.LiabilityType(v.LiabilityType))
		if err != nil {
			return err
		}
		a.message = fmt.Sprintf("Liability %q added", l.Title)

	case formPayment:
		if err := a.book.UpdateLiabilityAmount(v.targetID, amount); err != nil {
			return err
		}
		a.message = "Paid " + a.money(amount, model.CurrencyPrimary)

	case formEditLiability:
		if err := a.book.EditLiability(v.targetID, v.Title, amount); err != nil {
			return err
		}
		a.message = "Liability updated"

	case formPreset:
		p, err := a.book.AddPreset(model.QuickPreset{
			Icon:        strings.TrimSpace(v.Icon),
			Amount:      amount,
			Currency:    model.Currency(v.Currency),
			Description: v.Description,
			Category:    v.Category,
			Type:        model.TransactionType(v.Type),
		})
		if err != nil {
			return err
		}
		a.message = fmt.Sprintf("Preset %q added", p.Description)
	}
	return nil
}

// errorText turns ledger sentinels into status bar text.
func errorText(err error) string {
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount):
		return "Amount must be greater than zero"
	case errors.Is(err, ledger.ErrEmptyDescription):
		return "Description is required"
	case errors.Is(err, ledger.ErrEmptyTitle):
		return "Title is required"
	case errors.Is(err, ledger.ErrDeclined):
		return "Cancelled"
	case errors.Is(err, ledger.ErrNotFound):
		return "No longer exists"
	default:
		return "Error: " + err.Error()
	}
}
