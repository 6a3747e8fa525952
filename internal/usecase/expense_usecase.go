package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/tripcost/internal/domain"
)

// ExpenseUseCase defines ad-hoc trip expenses and their per-traveler splits.
type ExpenseUseCase struct {
	txManager    TransactionManager
	travelerRepo TravelerRepository
	expenseRepo  ExpenseRepository
	splitRepo    SplitRepository
	retrier      Retrier
	idGen        IDGenerator
	now          func() time.Time
}

// NewExpenseUseCase creates a new ExpenseUseCase.
func NewExpenseUseCase(
	txManager TransactionManager,
	travelerRepo TravelerRepository,
	expenseRepo ExpenseRepository,
	splitRepo SplitRepository,
	retrier Retrier,
	idGen IDGenerator,
) *ExpenseUseCase {
	return &ExpenseUseCase{
		txManager:    txManager,
		travelerRepo: travelerRepo,
		expenseRepo:  expenseRepo,
		splitRepo:    splitRepo,
		retrier:      retrier,
		idGen:        idGen,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// CreateExpenseInput represents input for creating an expense.
type CreateExpenseInput struct {
	TripID      string
	Description string
	Currency    string
	Amount      decimal.Decimal
	SplitPolicy domain.SplitPolicy
	Status      domain.Status
	// TravelerIDs defaults to every cost-sharer of the trip.
	TravelerIDs []string
}

// CreateExpenseResult is a stored expense with its splits.
type CreateExpenseResult struct {
	Expense *domain.Expense
	Splits  []domain.ExpenseSplit
}

// CreateExpense stores an expense and splits it across travelers in one transaction.
func (uc *ExpenseUseCase) CreateExpense(ctx context.Context, input CreateExpenseInput) (*CreateExpenseResult, error) {
	if err := domain.ValidateID(input.TripID); err != nil {
		return nil, err
	}

	if input.SplitPolicy == "" {
		input.SplitPolicy = domain.SplitTotal
	}
	if input.Status == "" {
		input.Status = domain.StatusConfirmed
	}

	expense := &domain.Expense{
		ID:          uc.idGen.Generate(),
		TripID:      input.TripID,
		Description: input.Description,
		Currency:    domain.NormalizeCurrency(input.Currency),
		Amount:      input.Amount,
		SplitPolicy: input.SplitPolicy,
		Status:      input.Status,
		CreatedAt:   uc.now(),
	}
	if err := expense.Validate(); err != nil {
		return nil, err
	}
	if _, err := domain.ParseStatus(string(expense.Status)); err != nil {
		return nil, err
	}

	travelers, err := uc.travelerRepo.ListByTrip(ctx, input.TripID)
	if err != nil {
		return nil, err
	}
	if len(travelers) == 0 {
		return nil, domain.ErrTripNotFound
	}
	domain.SortTravelers(travelers)

	travelerIDs, err := resolveTravelers(travelers, input.TravelerIDs)
	if err != nil {
		return nil, err
	}

	splits, err := domain.BuildSplits(expense, travelerIDs)
	if err != nil {
		return nil, err
	}

	err = uc.withRetry(ctx, func() error {
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer tx.Rollback(txCtx)

		if err := uc.expenseRepo.Create(txCtx, tx, expense); err != nil {
			return err
		}
		if err := uc.splitRepo.CreateBatch(txCtx, tx, splits); err != nil {
			return err
		}

		return tx.Commit(txCtx)
	})
	if err != nil {
		return nil, err
	}

	return &CreateExpenseResult{Expense: expense, Splits: splits}, nil
}

// GetExpense returns one expense.
func (uc *ExpenseUseCase) GetExpense(ctx context.Context, id string) (*domain.Expense, error) {
	if err := domain.ValidateID(id); err != nil {
		return nil, err
	}
	return uc.expenseRepo.GetByID(ctx, id)
}

// ListSplitsByTrip lists the expense splits of a trip.
func (uc *ExpenseUseCase) ListSplitsByTrip(ctx context.Context, tripID string) ([]domain.ExpenseSplit, error) {
	if err := domain.ValidateID(tripID); err != nil {
		return nil, err
	}
	return uc.splitRepo.ListByTrip(ctx, tripID)
}

func (uc *ExpenseUseCase) withRetry(ctx context.Context, op func() error) error {
	if uc.retrier == nil {
		return op()
	}
	return uc.retrier.Retry(ctx, op)
}

// resolveTravelers returns the requested traveler IDs in trip order, or every cost-sharer.
// Only cost-sharers carry splits, so settlement balances stay in step with the forecast.
func resolveTravelers(travelers []*domain.Traveler, requested []string) ([]string, error) {
	if len(requested) == 0 {
		sharers := domain.CostSharers(travelers)
		if len(sharers) == 0 {
			return nil, domain.ErrNoTravelers
		}
		ids := make([]string, len(sharers))
		for i, t := range sharers {
			ids[i] = t.ID
		}
		return ids, nil
	}

	members := make(map[string]*domain.Traveler, len(travelers))
	for _, t := range travelers {
		members[t.ID] = t
	}

	wanted := make(map[string]bool, len(requested))
	for _, id := range requested {
		t, ok := members[id]
		if !ok {
			return nil, domain.ErrTravelerNotFound
		}
		if !t.IsCostSharer {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotCostSharer, id)
		}
		wanted[id] = true
	}

	ids := make([]string, 0, len(wanted))
	for _, t := range travelers {
		if wanted[t.ID] {
			ids = append(ids, t.ID)
		}
	}
	return ids, nil
}
