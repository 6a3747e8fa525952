package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// FirstInstallment is the installment number created by a forecast transfer.
const FirstInstallment = 1

// Cent is the smallest unit settled or split.
var Cent = decimal.New(1, -2)

// Expense is an ad-hoc planned cost owned by a trip.
type Expense struct {
	CreatedAt   time.Time
	ID          string
	TripID      string
	Description string
	Currency    string
	Amount      decimal.Decimal
	SplitPolicy SplitPolicy
	Status      Status
}

// Validate validates an expense before it is stored.
func (e *Expense) Validate() error {
	if err := ValidateDescription(e.Description); err != nil {
		return err
	}
	if err := ValidateCurrency(e.Currency); err != nil {
		return err
	}
	if err := ValidateAmount(e.Amount); err != nil {
		return err
	}
	if !e.SplitPolicy.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidSplitPolicy, e.SplitPolicy)
	}
	return nil
}

// GrossAmount is the expense total when charged to headcount travelers.
func (e *Expense) GrossAmount(headcount int) decimal.Decimal {
	if e.SplitPolicy == SplitPerHead {
		return e.Amount.Mul(decimal.NewFromInt(int64(headcount)))
	}
	return e.Amount
}

// ExpenseSplit is one traveler's estimated share of an expense.
type ExpenseSplit struct {
	ExpenseID       string
	TravelerID      string
	Currency        string // of the owning expense, read-only
	EstimatedAmount decimal.Decimal
}

// BuildSplits creates one split per traveler. The splits always sum to the
// expense's gross amount rounded to cents.
func BuildSplits(e *Expense, travelerIDs []string) ([]ExpenseSplit, error) {
	if len(travelerIDs) == 0 {
		return nil, ErrNoTravelers
	}

	var amounts []decimal.Decimal
	if e.SplitPolicy == SplitPerHead {
		amounts = make([]decimal.Decimal, len(travelerIDs))
		for i := range amounts {
			amounts[i] = e.Amount.Round(2)
		}
	} else {
		amounts = SplitEvenly(e.Amount, len(travelerIDs))
	}

	splits := make([]ExpenseSplit, len(travelerIDs))
	for i, id := range travelerIDs {
		splits[i] = ExpenseSplit{
			ExpenseID:       e.ID,
			TravelerID:      id,
			Currency:        NormalizeCurrency(e.Currency),
			EstimatedAmount: amounts[i],
		}
	}

	return splits, nil
}

// SplitEvenly divides amount into n cent-rounded parts that sum to amount.
// Leftover cents go to the first parts.
func SplitEvenly(amount decimal.Decimal, n int) []decimal.Decimal {
	if n <= 0 {
		return nil
	}

	total := amount.Round(2)
	count := decimal.NewFromInt(int64(n))
	base := total.Div(count).Truncate(2)
	remainder := total.Sub(base.Mul(count))

	step := Cent
	if remainder.IsNegative() {
		step = Cent.Neg()
	}

	parts := make([]decimal.Decimal, n)
	for i := range parts {
		parts[i] = base
		if !remainder.IsZero() {
			parts[i] = parts[i].Add(step)
			remainder = remainder.Sub(step)
		}
	}

	return parts
}

// ExpenseActual records what a traveler actually owes or paid for one installment.
type ExpenseActual struct {
	CreatedAt         time.Time
	UpdatedAt         time.Time
	Date              *time.Time
	PaidByTravelerID  *string
	PaymentMethodKey  *string
	ReceiptURL        *string
	Notes             *string
	ID                string
	ExpenseID         string
	TravelerID        string
	Currency          string // of the owning expense, read-only
	Amount            decimal.Decimal
	InstallmentNumber int
}

// NewActualFromSplit seeds a first-installment actual from a split. No payer is set.
func NewActualFromSplit(id string, split ExpenseSplit, now time.Time) *ExpenseActual {
	return &ExpenseActual{
		ID:                id,
		ExpenseID:         split.ExpenseID,
		TravelerID:        split.TravelerID,
		Currency:          split.Currency,
		InstallmentNumber: FirstInstallment,
		Amount:            split.EstimatedAmount,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// IsPaid reports whether a payer has been recorded.
func (a *ExpenseActual) IsPaid() bool {
	return a.PaidByTravelerID != nil && *a.PaidByTravelerID != ""
}

// Optional marks whether a field was supplied in a partial update.
type Optional[T any] struct {
	Value T
	Set   bool
}

// Some returns a supplied Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

// ActualUpdate lists the actual fields a caller may change. Unset fields are left alone.
// Pointer-valued fields accept nil to clear the stored value.
type ActualUpdate struct {
	Amount           Optional[decimal.Decimal]
	Date             Optional[*time.Time]
	PaidByTravelerID Optional[*string]
	PaymentMethodKey Optional[*string]
	ReceiptURL       Optional[*string]
	Notes            Optional[*string]
}

// IsEmpty reports whether no field was supplied.
func (u ActualUpdate) IsEmpty() bool {
	return !u.Amount.Set && !u.Date.Set && !u.PaidByTravelerID.Set &&
		!u.PaymentMethodKey.Set && !u.ReceiptURL.Set && !u.Notes.Set
}

// Validate validates the supplied fields.
func (u ActualUpdate) Validate() error {
	if u.IsEmpty() {
		return ErrEmptyUpdate
	}
	if u.Amount.Set {
		if err := ValidateAmount(u.Amount.Value); err != nil {
			return err
		}
	}
	if u.PaidByTravelerID.Set && u.PaidByTravelerID.Value != nil {
		if err := ValidateID(*u.PaidByTravelerID.Value); err != nil {
			return err
		}
	}
	return nil
}

// ApplyTo copies every supplied field onto a and stamps UpdatedAt.
func (u ActualUpdate) ApplyTo(a *ExpenseActual, now time.Time) {
	if u.Amount.Set {
		a.Amount = u.Amount.Value
	}
	if u.Date.Set {
		a.Date = u.Date.Value
	}
	if u.PaidByTravelerID.Set {
		a.PaidByTravelerID = u.PaidByTravelerID.Value
	}
	if u.PaymentMethodKey.Set {
		a.PaymentMethodKey = u.PaymentMethodKey.Value
	}
	if u.ReceiptURL.Set {
		a.ReceiptURL = u.ReceiptURL.Value
	}
	if u.Notes.Set {
		a.Notes = u.Notes.Value
	}
	a.UpdatedAt = now
}
