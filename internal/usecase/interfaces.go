package usecase

import (
	"context"
	"time"

	"github.com/iho/tripcost/internal/domain"
)

// TravelerRepository reads trip travelers.
type TravelerRepository interface {
	ListByTrip(ctx context.Context, tripID string) ([]*domain.Traveler, error)
}

// ExpenseRepository defines data access for ad-hoc expenses.
type ExpenseRepository interface {
	Create(ctx context.Context, tx Transaction, expense *domain.Expense) error
	GetByID(ctx context.Context, id string) (*domain.Expense, error)
}

// SplitRepository defines data access for expense splits.
type SplitRepository interface {
	CreateBatch(ctx context.Context, tx Transaction, splits []domain.ExpenseSplit) error
	ListByTrip(ctx context.Context, tripID string) ([]domain.ExpenseSplit, error)
}

// ActualRepository defines data access for expense actuals.
type ActualRepository interface {
	// CreateIfAbsent inserts the actual unless one already exists for its
	// (expense, traveler, installment). Returns whether a row was inserted.
	CreateIfAbsent(ctx context.Context, tx Transaction, actual *domain.ExpenseActual) (bool, error)
	GetByID(ctx context.Context, id string) (*domain.ExpenseActual, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.ExpenseActual, error)
	Update(ctx context.Context, tx Transaction, actual *domain.ExpenseActual) error
	ListByTrip(ctx context.Context, tripID string) ([]*domain.ExpenseActual, error)
	DeleteByTrip(ctx context.Context, tx Transaction, tripID string) (int64, error)
}

// LineItemSource projects planned costs out of the trip modules.
type LineItemSource interface {
	ListLineItems(ctx context.Context, tripID string, module domain.Module, statuses []domain.Status) ([]*domain.PlannedLineItem, error)
}

// ForecastRepository stores the latest collected forecast per trip.
type ForecastRepository interface {
	Save(ctx context.Context, tx Transaction, report *domain.CostForecastReport) error
	GetLatest(ctx context.Context, tripID string) (*domain.CostForecastReport, error)
}

// RateSource resolves a snapshot of rates from base into each target.
type RateSource interface {
	GetRates(ctx context.Context, base string, targets []string) (*domain.RateSnapshot, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on transient storage failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a claimed key so the request can be replayed.
	Release(ctx context.Context, key string) error
}
