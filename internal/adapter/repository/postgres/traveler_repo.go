package postgres

import (
	"context"

	"github.com/iho/tripcost/internal/domain"
	"github.com/iho/tripcost/internal/infrastructure/postgres/generated"
)

// TravelerRepository implements usecase.TravelerRepository.
type TravelerRepository struct {
	queries *generated.Queries
}

// NewTravelerRepository creates a new TravelerRepository.
func NewTravelerRepository(db generated.DBTX) *TravelerRepository {
	return &TravelerRepository{queries: generated.New(db)}
}

// ListByTrip lists the travelers of a trip, primary first.
func (r *TravelerRepository) ListByTrip(ctx context.Context, tripID string) ([]*domain.Traveler, error) {
	rows, err := r.queries.ListTravelersByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	travelers := make([]*domain.Traveler, 0, len(rows))
	for _, row := range rows {
		travelers = append(travelers, &domain.Traveler{
			ID:           row.ID,
			TripID:       row.TripID,
			Name:         row.Name,
			Currency:     row.Currency,
			IsCostSharer: row.IsCostSharer,
			IsPrimary:    row.IsPrimary,
		})
	}

	return travelers, nil
}
