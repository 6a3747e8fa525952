package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/iho/tripcost/internal/domain"
	"github.com/iho/tripcost/internal/infrastructure/postgres/generated"
	"github.com/iho/tripcost/internal/usecase"
)

// ExpenseRepository implements usecase.ExpenseRepository.
type ExpenseRepository struct {
	queries *generated.Queries
}

// NewExpenseRepository creates a new ExpenseRepository.
func NewExpenseRepository(db generated.DBTX) *ExpenseRepository {
	return &ExpenseRepository{queries: generated.New(db)}
}

// Create inserts an expense within a transaction.
func (r *ExpenseRepository) Create(ctx context.Context, tx usecase.Transaction, expense *domain.Expense) error {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	return queries.CreateExpense(ctx, generated.CreateExpenseParams{
		ID:          expense.ID,
		TripID:      expense.TripID,
		Description: expense.Description,
		Amount:      decimalToNumeric(expense.Amount),
		Currency:    expense.Currency,
		SplitPolicy: string(expense.SplitPolicy),
		Status:      string(expense.Status),
		CreatedAt:   timeToPgTimestamptz(expense.CreatedAt),
	})
}

// GetByID retrieves an expense by ID.
func (r *ExpenseRepository) GetByID(ctx context.Context, id string) (*domain.Expense, error) {
	row, err := r.queries.GetExpenseByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrExpenseNotFound
		}

		return nil, err
	}

	return &domain.Expense{
		ID:          row.ID,
		TripID:      row.TripID,
		Description: row.Description,
		Amount:      numericToDecimal(row.Amount),
		Currency:    row.Currency,
		SplitPolicy: domain.SplitPolicy(row.SplitPolicy),
		Status:      domain.Status(row.Status),
		CreatedAt:   row.CreatedAt.Time,
	}, nil
}

// SplitRepository implements usecase.SplitRepository.
type SplitRepository struct {
	queries *generated.Queries
}

// NewSplitRepository creates a new SplitRepository.
func NewSplitRepository(db generated.DBTX) *SplitRepository {
	return &SplitRepository{queries: generated.New(db)}
}

// CreateBatch inserts splits within a transaction.
func (r *SplitRepository) CreateBatch(ctx context.Context, tx usecase.Transaction, splits []domain.ExpenseSplit) error {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	for _, s := range splits {
		err := queries.CreateExpenseSplit(ctx, generated.CreateExpenseSplitParams{
			ExpenseID:       s.ExpenseID,
			TravelerID:      s.TravelerID,
			EstimatedAmount: decimalToNumeric(s.EstimatedAmount),
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// ListByTrip lists the splits of every expense of a trip.
func (r *SplitRepository) ListByTrip(ctx context.Context, tripID string) ([]domain.ExpenseSplit, error) {
	rows, err := r.queries.ListSplitsByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	splits := make([]domain.ExpenseSplit, 0, len(rows))
	for _, row := range rows {
		splits = append(splits, domain.ExpenseSplit{
			ExpenseID:       row.ExpenseID,
			TravelerID:      row.TravelerID,
			Currency:        row.Currency,
			EstimatedAmount: numericToDecimal(row.EstimatedAmount),
		})
	}

	return splits, nil
}
