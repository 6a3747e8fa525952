package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/iho/tripcost/internal/domain"
	"github.com/iho/tripcost/internal/infrastructure/metrics"
)

// ActualUseCase moves forecast splits into actuals and maintains them.
type ActualUseCase struct {
	txManager    TransactionManager
	travelerRepo TravelerRepository
	expenseRepo  ExpenseRepository
	splitRepo    SplitRepository
	actualRepo   ActualRepository
	retrier      Retrier
	idGen        IDGenerator
	metrics      *metrics.Metrics
	now          func() time.Time
}

// NewActualUseCase creates a new ActualUseCase. retrier and metrics may be nil.
func NewActualUseCase(
	txManager TransactionManager,
	travelerRepo TravelerRepository,
	expenseRepo ExpenseRepository,
	splitRepo SplitRepository,
	actualRepo ActualRepository,
	retrier Retrier,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *ActualUseCase {
	return &ActualUseCase{
		txManager:    txManager,
		travelerRepo: travelerRepo,
		expenseRepo:  expenseRepo,
		splitRepo:    splitRepo,
		actualRepo:   actualRepo,
		retrier:      retrier,
		idGen:        idGen,
		metrics:      metrics,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// TransferForecastToActuals creates a first-installment actual for every split of the
// trip that does not have one yet, and returns how many were created. Running it again
// creates nothing.
func (uc *ActualUseCase) TransferForecastToActuals(ctx context.Context, tripID string) (int, error) {
	if err := domain.ValidateID(tripID); err != nil {
		return 0, err
	}

	splits, err := uc.splitRepo.ListByTrip(ctx, tripID)
	if err != nil {
		return 0, err
	}
	if len(splits) == 0 {
		return 0, nil
	}

	var created int
	err = uc.withRetry(ctx, func() error {
		created = 0

		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer tx.Rollback(txCtx)

		now := uc.now()
		for _, split := range splits {
			actual := domain.NewActualFromSplit(uc.idGen.Generate(), split, now)

			// A conflict means the split was already transferred.
			inserted, err := uc.actualRepo.CreateIfAbsent(txCtx, tx, actual)
			if err != nil {
				return err
			}
			if inserted {
				created++
			}
		}

		return tx.Commit(txCtx)
	})
	if err != nil {
		return 0, err
	}

	if uc.metrics != nil {
		uc.metrics.ActualsTransferred.Add(float64(created))
	}

	return created, nil
}

// ResetActuals deletes every actual of the trip and returns how many existed.
func (uc *ActualUseCase) ResetActuals(ctx context.Context, tripID string) (int, error) {
	if err := domain.ValidateID(tripID); err != nil {
		return 0, err
	}

	var deleted int64
	err := uc.withRetry(ctx, func() error {
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer tx.Rollback(txCtx)

		deleted, err = uc.actualRepo.DeleteByTrip(txCtx, tx, tripID)
		if err != nil {
			return err
		}

		return tx.Commit(txCtx)
	})
	if err != nil {
		return 0, err
	}

	if uc.metrics != nil {
		uc.metrics.ActualsReset.Add(float64(deleted))
	}

	return int(deleted), nil
}

// UpdateActual applies the supplied fields of update to one actual.
func (uc *ActualUseCase) UpdateActual(ctx context.Context, id string, update domain.ActualUpdate) (*domain.ExpenseActual, error) {
	if err := domain.ValidateID(id); err != nil {
		return nil, err
	}
	if err := update.Validate(); err != nil {
		return nil, err
	}

	var updated *domain.ExpenseActual
	err := uc.withRetry(ctx, func() error {
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer tx.Rollback(txCtx)

		actual, err := uc.actualRepo.GetByIDForUpdate(txCtx, tx, id)
		if err != nil {
			return err
		}
		if update.PaidByTravelerID.Set && update.PaidByTravelerID.Value != nil {
			if err := uc.checkPayer(txCtx, actual, *update.PaidByTravelerID.Value); err != nil {
				return err
			}
		}

		update.ApplyTo(actual, uc.now())

		if err := uc.actualRepo.Update(txCtx, tx, actual); err != nil {
			return err
		}
		if err := tx.Commit(txCtx); err != nil {
			return err
		}

		updated = actual
		return nil
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.ActualsUpdated.Inc()
	}

	return updated, nil
}

// checkPayer ensures payerID travels on the trip that owns the actual.
func (uc *ActualUseCase) checkPayer(ctx context.Context, actual *domain.ExpenseActual, payerID string) error {
	expense, err := uc.expenseRepo.GetByID(ctx, actual.ExpenseID)
	if err != nil {
		return err
	}

	travelers, err := uc.travelerRepo.ListByTrip(ctx, expense.TripID)
	if err != nil {
		return err
	}
	for _, t := range travelers {
		if t.ID == payerID {
			return nil
		}
	}
	return fmt.Errorf("%w: payer %s is not on trip %s", domain.ErrTravelerNotFound, payerID, expense.TripID)
}

// GetActual returns one actual.
func (uc *ActualUseCase) GetActual(ctx context.Context, id string) (*domain.ExpenseActual, error) {
	if err := domain.ValidateID(id); err != nil {
		return nil, err
	}
	return uc.actualRepo.GetByID(ctx, id)
}

// GetActualsByTrip lists the actuals of a trip.
func (uc *ActualUseCase) GetActualsByTrip(ctx context.Context, tripID string) ([]*domain.ExpenseActual, error) {
	if err := domain.ValidateID(tripID); err != nil {
		return nil, err
	}
	return uc.actualRepo.ListByTrip(ctx, tripID)
}

func (uc *ActualUseCase) withRetry(ctx context.Context, op func() error) error {
	if uc.retrier == nil {
		return op()
	}
	return uc.retrier.Retry(ctx, op)
}
