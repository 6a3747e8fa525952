package dto

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/tripcost/internal/domain"
	"github.com/iho/tripcost/internal/usecase"
)

// Nullable distinguishes an absent JSON field from an explicit null.
// Set is true whenever the key was present; Value is nil for null.
type Nullable[T any] struct {
	Value *T
	Set   bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Value = nil
		return nil
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

// CollectCostsRequest is the body of a forecast collection.
type CollectCostsRequest struct {
	Statuses []string `json:"statuses,omitempty"`
}

// ToDomain parses the requested statuses. An empty list means the defaults.
func (r *CollectCostsRequest) ToDomain() ([]domain.Status, error) {
	if len(r.Statuses) == 0 {
		return nil, nil
	}
	return domain.ParseStatuses(r.Statuses)
}

// UpdateActualRequest is a partial update of an actual. Omitted fields are unchanged;
// null clears a nullable field.
type UpdateActualRequest struct {
	Amount           Nullable[decimal.Decimal] `json:"amount"`
	Date             Nullable[time.Time]       `json:"date"`
	PaidByTravelerID Nullable[string]          `json:"paid_by_traveler_id"`
	PaymentMethodKey Nullable[string]          `json:"payment_method_key"`
	ReceiptURL       Nullable[string]          `json:"receipt_url"`
	Notes            Nullable[string]          `json:"notes"`
}

// ToDomain converts the request into a domain update. Amount cannot be null.
func (r *UpdateActualRequest) ToDomain() (domain.ActualUpdate, error) {
	var u domain.ActualUpdate

	if r.Amount.Set {
		if r.Amount.Value == nil {
			return u, domain.ErrInvalidAmount
		}
		u.Amount = domain.Some(*r.Amount.Value)
	}
	if r.Date.Set {
		u.Date = domain.Some(r.Date.Value)
	}
	if r.PaidByTravelerID.Set {
		u.PaidByTravelerID = domain.Some(r.PaidByTravelerID.Value)
	}
	if r.PaymentMethodKey.Set {
		u.PaymentMethodKey = domain.Some(r.PaymentMethodKey.Value)
	}
	if r.ReceiptURL.Set {
		u.ReceiptURL = domain.Some(r.ReceiptURL.Value)
	}
	if r.Notes.Set {
		u.Notes = domain.Some(r.Notes.Value)
	}

	return u, nil
}

// CreateExpenseRequest represents a request to create an expense.
type CreateExpenseRequest struct {
	Description string          `json:"description"`
	Currency    string          `json:"currency"`
	Amount      decimal.Decimal `json:"amount"`
	SplitPolicy string          `json:"split_policy,omitempty"`
	Status      string          `json:"status,omitempty"`
	TravelerIDs []string        `json:"traveler_ids,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateExpenseRequest) ToUseCaseInput(tripID string) (usecase.CreateExpenseInput, error) {
	input := usecase.CreateExpenseInput{
		TripID:      tripID,
		Description: r.Description,
		Currency:    r.Currency,
		Amount:      r.Amount,
		Status:      domain.Status(r.Status),
		TravelerIDs: r.TravelerIDs,
	}

	if r.SplitPolicy != "" {
		policy, err := domain.ParseSplitPolicy(r.SplitPolicy)
		if err != nil {
			return input, err
		}
		input.SplitPolicy = policy
	}

	return input, nil
}
