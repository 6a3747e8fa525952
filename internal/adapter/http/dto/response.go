package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/tripcost/internal/domain"
)

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// TransferResponse reports how many actuals a transfer created.
type TransferResponse struct {
	TransferredCount int `json:"transferred_count"`
}

// ResetResponse reports how many actuals a reset deleted.
type ResetResponse struct {
	DeletedCount int `json:"deleted_count"`
}

// ActualResponse represents an expense actual in API responses.
type ActualResponse struct {
	ID                string          `json:"id"`
	ExpenseID         string          `json:"expense_id"`
	TravelerID        string          `json:"traveler_id"`
	InstallmentNumber int             `json:"installment_number"`
	Amount            decimal.Decimal `json:"amount"`
	Currency          string          `json:"currency"`
	Date              *time.Time      `json:"date"`
	PaidByTravelerID  *string         `json:"paid_by_traveler_id"`
	PaymentMethodKey  *string         `json:"payment_method_key"`
	ReceiptURL        *string         `json:"receipt_url"`
	Notes             *string         `json:"notes"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ActualFromDomain converts a domain actual to a response.
func ActualFromDomain(a *domain.ExpenseActual) *ActualResponse {
	return &ActualResponse{
		ID:                a.ID,
		ExpenseID:         a.ExpenseID,
		TravelerID:        a.TravelerID,
		InstallmentNumber: a.InstallmentNumber,
		Amount:            a.Amount,
		Currency:          a.Currency,
		Date:              a.Date,
		PaidByTravelerID:  a.PaidByTravelerID,
		PaymentMethodKey:  a.PaymentMethodKey,
		ReceiptURL:        a.ReceiptURL,
		Notes:             a.Notes,
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
}

// ActualsFromDomain converts domain actuals to responses.
func ActualsFromDomain(actuals []*domain.ExpenseActual) []*ActualResponse {
	result := make([]*ActualResponse, len(actuals))
	for i, a := range actuals {
		result[i] = ActualFromDomain(a)
	}
	return result
}

// ListActualsResponse represents a list of actuals.
type ListActualsResponse struct {
	Actuals []*ActualResponse `json:"actuals"`
	Total   int               `json:"total"`
}

// BalanceResponse is one traveler's settlement position.
type BalanceResponse struct {
	TravelerID   string          `json:"traveler_id"`
	Name         string          `json:"name"`
	ShouldPay    decimal.Decimal `json:"should_pay"`
	ActuallyPaid decimal.Decimal `json:"actually_paid"`
	Balance      decimal.Decimal `json:"balance"`
}

// SettlementTransactionResponse is one suggested payment.
type SettlementTransactionResponse struct {
	FromTravelerID string          `json:"from_traveler_id"`
	FromName       string          `json:"from_name"`
	ToTravelerID   string          `json:"to_traveler_id"`
	ToName         string          `json:"to_name"`
	Amount         decimal.Decimal `json:"amount"`
}

// SkippedActualResponse is an actual left out of the settlement.
type SkippedActualResponse struct {
	ActualID string `json:"actual_id"`
	Currency string `json:"currency"`
	Reason   string `json:"reason"`
}

// SettlementResponse represents a settlement summary.
type SettlementResponse struct {
	TripID         string                          `json:"trip_id"`
	Currency       string                          `json:"currency"`
	TotalEstimated decimal.Decimal                 `json:"total_estimated"`
	TotalActual    decimal.Decimal                 `json:"total_actual"`
	Balances       []BalanceResponse               `json:"balances"`
	Transactions   []SettlementTransactionResponse `json:"settlement_transactions"`
	Skipped        []SkippedActualResponse         `json:"skipped,omitempty"`
}

// SettlementFromDomain converts a settlement summary to a response.
func SettlementFromDomain(s *domain.SettlementSummary) *SettlementResponse {
	resp := &SettlementResponse{
		TripID:         s.TripID,
		Currency:       s.Currency,
		TotalEstimated: s.TotalEstimated,
		TotalActual:    s.TotalActual,
		Balances:       make([]BalanceResponse, len(s.Balances)),
		Transactions:   make([]SettlementTransactionResponse, len(s.Transactions)),
	}

	for i, b := range s.Balances {
		resp.Balances[i] = BalanceResponse{
			TravelerID:   b.TravelerID,
			Name:         b.Name,
			ShouldPay:    b.ShouldPay,
			ActuallyPaid: b.ActuallyPaid,
			Balance:      b.Balance,
		}
	}
	for i, t := range s.Transactions {
		resp.Transactions[i] = SettlementTransactionResponse{
			FromTravelerID: t.FromTravelerID,
			FromName:       t.FromName,
			ToTravelerID:   t.ToTravelerID,
			ToName:         t.ToName,
			Amount:         t.Amount,
		}
	}
	for _, sk := range s.Skipped {
		resp.Skipped = append(resp.Skipped, SkippedActualResponse{
			ActualID: sk.ActualID,
			Currency: sk.Currency,
			Reason:   sk.Reason,
		})
	}

	return resp
}

// RatesResponse represents a rate snapshot.
type RatesResponse struct {
	Base      string                     `json:"base"`
	Rates     map[string]decimal.Decimal `json:"rates"`
	FetchedAt time.Time                  `json:"fetched_at"`
}

// RatesFromDomain converts a rate snapshot to a response.
func RatesFromDomain(s *domain.RateSnapshot) *RatesResponse {
	rates := make(map[string]decimal.Decimal, len(s.Rates))
	for code, r := range s.Rates {
		rates[code] = r.Value
	}
	return &RatesResponse{Base: s.Base, Rates: rates, FetchedAt: s.FetchedAt}
}

// SplitResponse is one traveler's estimated share of an expense.
type SplitResponse struct {
	ExpenseID       string          `json:"expense_id"`
	TravelerID      string          `json:"traveler_id"`
	Currency        string          `json:"currency"`
	EstimatedAmount decimal.Decimal `json:"estimated_amount"`
}

// SplitsFromDomain converts domain splits to responses.
func SplitsFromDomain(splits []domain.ExpenseSplit) []SplitResponse {
	result := make([]SplitResponse, len(splits))
	for i, s := range splits {
		result[i] = SplitResponse{
			ExpenseID:       s.ExpenseID,
			TravelerID:      s.TravelerID,
			Currency:        s.Currency,
			EstimatedAmount: s.EstimatedAmount,
		}
	}
	return result
}

// ExpenseResponse represents an expense and its splits.
type ExpenseResponse struct {
	ID          string          `json:"id"`
	TripID      string          `json:"trip_id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	SplitPolicy string          `json:"split_policy"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	Splits      []SplitResponse `json:"splits,omitempty"`
}

// ExpenseFromDomain converts a domain expense and its splits to a response.
func ExpenseFromDomain(e *domain.Expense, splits []domain.ExpenseSplit) *ExpenseResponse {
	resp := &ExpenseResponse{
		ID:          e.ID,
		TripID:      e.TripID,
		Description: e.Description,
		Amount:      e.Amount,
		Currency:    e.Currency,
		SplitPolicy: string(e.SplitPolicy),
		Status:      string(e.Status),
		CreatedAt:   e.CreatedAt,
	}
	if len(splits) > 0 {
		resp.Splits = SplitsFromDomain(splits)
	}
	return resp
}
