package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/iho/tripcost/internal/domain"
	"github.com/iho/tripcost/internal/infrastructure/postgres/generated"
	"github.com/iho/tripcost/internal/usecase"
)

// ForecastRepository implements usecase.ForecastRepository.
// The full report is kept as JSONB; per-traveler shares get their own rows.
type ForecastRepository struct {
	queries *generated.Queries
}

// NewForecastRepository creates a new ForecastRepository.
func NewForecastRepository(db generated.DBTX) *ForecastRepository {
	return &ForecastRepository{queries: generated.New(db)}
}

// Save replaces the trip's stored forecast within a transaction.
func (r *ForecastRepository) Save(ctx context.Context, tx usecase.Transaction, report *domain.CostForecastReport) error {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	payload, err := json.Marshal(report)
	if err != nil {
		return err
	}

	statuses := make([]string, len(report.Statuses))
	for i, s := range report.Statuses {
		statuses[i] = string(s)
	}

	err = queries.UpsertCostForecast(ctx, generated.UpsertCostForecastParams{
		TripID:       report.TripID,
		BaseCurrency: report.BaseCurrency,
		Statuses:     statuses,
		Total:        decimalToNumeric(report.Total),
		Report:       payload,
		CollectedAt:  timeToPgTimestamptz(report.CollectedAt),
	})
	if err != nil {
		return err
	}

	if err := queries.DeleteCostForecastShares(ctx, report.TripID); err != nil {
		return err
	}

	for _, share := range report.Shares {
		err := queries.CreateCostForecastShare(ctx, generated.CreateCostForecastShareParams{
			TripID:     report.TripID,
			Module:     string(share.Module),
			ItemID:     share.ItemID,
			TravelerID: share.TravelerID,
			Amount:     decimalToNumeric(share.Amount),
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// GetLatest returns the trip's stored forecast.
func (r *ForecastRepository) GetLatest(ctx context.Context, tripID string) (*domain.CostForecastReport, error) {
	row, err := r.queries.GetCostForecast(ctx, tripID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrForecastNotFound
		}

		return nil, err
	}

	var report domain.CostForecastReport
	if err := json.Unmarshal(row.Report, &report); err != nil {
		return nil, err
	}

	return &report, nil
}
