package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/iho/tripcost/internal/domain"
	"github.com/iho/tripcost/internal/infrastructure/postgres/generated"
	"github.com/iho/tripcost/internal/usecase"
)

// ActualRepository implements usecase.ActualRepository.
type ActualRepository struct {
	queries *generated.Queries
}

// NewActualRepository creates a new ActualRepository.
func NewActualRepository(db generated.DBTX) *ActualRepository {
	return &ActualRepository{queries: generated.New(db)}
}

// CreateIfAbsent inserts an actual unless its installment already exists.
func (r *ActualRepository) CreateIfAbsent(ctx context.Context, tx usecase.Transaction, actual *domain.ExpenseActual) (bool, error) {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	inserted, err := queries.CreateActualIfAbsent(ctx, generated.CreateActualIfAbsentParams{
		ID:                actual.ID,
		ExpenseID:         actual.ExpenseID,
		TravelerID:        actual.TravelerID,
		InstallmentNumber: int32(actual.InstallmentNumber),
		Amount:            decimalToNumeric(actual.Amount),
		Date:              timePtrToPgTimestamptz(actual.Date),
		PaidByTravelerID:  stringPtrToPgText(actual.PaidByTravelerID),
		PaymentMethodKey:  stringPtrToPgText(actual.PaymentMethodKey),
		ReceiptUrl:        stringPtrToPgText(actual.ReceiptURL),
		Notes:             stringPtrToPgText(actual.Notes),
		CreatedAt:         timeToPgTimestamptz(actual.CreatedAt),
		UpdatedAt:         timeToPgTimestamptz(actual.UpdatedAt),
	})
	if err != nil {
		return false, err
	}

	return inserted > 0, nil
}

// GetByID retrieves an actual by ID.
func (r *ActualRepository) GetByID(ctx context.Context, id string) (*domain.ExpenseActual, error) {
	row, err := r.queries.GetActualByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrActualNotFound
		}

		return nil, err
	}

	return rowToActual(generated.ListActualsByTripRow(row)), nil
}

// GetByIDForUpdate retrieves an actual by ID with a FOR UPDATE lock.
func (r *ActualRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.ExpenseActual, error) {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	row, err := queries.GetActualByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrActualNotFound
		}

		return nil, err
	}

	return rowToActual(generated.ListActualsByTripRow(row)), nil
}

// Update writes every mutable field of an actual.
func (r *ActualRepository) Update(ctx context.Context, tx usecase.Transaction, actual *domain.ExpenseActual) error {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	updated, err := queries.UpdateActual(ctx, generated.UpdateActualParams{
		ID:               actual.ID,
		Amount:           decimalToNumeric(actual.Amount),
		Date:             timePtrToPgTimestamptz(actual.Date),
		PaidByTravelerID: stringPtrToPgText(actual.PaidByTravelerID),
		PaymentMethodKey: stringPtrToPgText(actual.PaymentMethodKey),
		ReceiptUrl:       stringPtrToPgText(actual.ReceiptURL),
		Notes:            stringPtrToPgText(actual.Notes),
		UpdatedAt:        timeToPgTimestamptz(actual.UpdatedAt),
	})
	if err != nil {
		return err
	}
	if updated == 0 {
		return domain.ErrActualNotFound
	}

	return nil
}

// ListByTrip lists the actuals of a trip.
func (r *ActualRepository) ListByTrip(ctx context.Context, tripID string) ([]*domain.ExpenseActual, error) {
	rows, err := r.queries.ListActualsByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	actuals := make([]*domain.ExpenseActual, 0, len(rows))
	for _, row := range rows {
		actuals = append(actuals, rowToActual(row))
	}

	return actuals, nil
}

// DeleteByTrip deletes every actual of a trip and returns how many were removed.
func (r *ActualRepository) DeleteByTrip(ctx context.Context, tx usecase.Transaction, tripID string) (int64, error) {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	return queries.DeleteActualsByTrip(ctx, tripID)
}

func rowToActual(row generated.ListActualsByTripRow) *domain.ExpenseActual {
	return &domain.ExpenseActual{
		ID:                row.ID,
		ExpenseID:         row.ExpenseID,
		TravelerID:        row.TravelerID,
		Currency:          row.Currency,
		InstallmentNumber: int(row.InstallmentNumber),
		Amount:            numericToDecimal(row.Amount),
		Date:              pgTimestamptzToTimePtr(row.Date),
		PaidByTravelerID:  pgTextToStringPtr(row.PaidByTravelerID),
		PaymentMethodKey:  pgTextToStringPtr(row.PaymentMethodKey),
		ReceiptURL:        pgTextToStringPtr(row.ReceiptUrl),
		Notes:             pgTextToStringPtr(row.Notes),
		CreatedAt:         row.CreatedAt.Time,
		UpdatedAt:         row.UpdatedAt.Time,
	}
}
