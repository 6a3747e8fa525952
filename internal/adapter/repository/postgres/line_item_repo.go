package postgres

import (
	"context"
	"fmt"

	"github.com/iho/tripcost/internal/domain"
	"github.com/iho/tripcost/internal/infrastructure/postgres/generated"
)

// LineItemRepository implements usecase.LineItemSource over the trip module tables.
type LineItemRepository struct {
	queries *generated.Queries
}

// NewLineItemRepository creates a new LineItemRepository.
func NewLineItemRepository(db generated.DBTX) *LineItemRepository {
	return &LineItemRepository{queries: generated.New(db)}
}

// ListLineItems lists a module's planned costs in the given statuses.
func (r *LineItemRepository) ListLineItems(ctx context.Context, tripID string, module domain.Module, statuses []domain.Status) ([]*domain.PlannedLineItem, error) {
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}

	var (
		rows []generated.ListExpenseLineItemsRow
		err  error
	)

	switch module {
	case domain.ModuleFlights:
		var flights []generated.ListFlightLineItemsRow
		flights, err = r.queries.ListFlightLineItems(ctx, generated.ListFlightLineItemsParams{TripID: tripID, Statuses: names})
		for _, row := range flights {
			rows = append(rows, generated.ListExpenseLineItemsRow(row))
		}
	case domain.ModuleAccommodations:
		var stays []generated.ListAccommodationLineItemsRow
		stays, err = r.queries.ListAccommodationLineItems(ctx, generated.ListAccommodationLineItemsParams{TripID: tripID, Statuses: names})
		for _, row := range stays {
			rows = append(rows, generated.ListExpenseLineItemsRow(row))
		}
	case domain.ModuleItinerary:
		var activities []generated.ListItineraryLineItemsRow
		activities, err = r.queries.ListItineraryLineItems(ctx, generated.ListItineraryLineItemsParams{TripID: tripID, Statuses: names})
		for _, row := range activities {
			rows = append(rows, generated.ListExpenseLineItemsRow(row))
		}
	case domain.ModuleExpenses:
		rows, err = r.queries.ListExpenseLineItems(ctx, generated.ListExpenseLineItemsParams{TripID: tripID, Statuses: names})
	default:
		return nil, fmt.Errorf("unknown module %q", module)
	}
	if err != nil {
		return nil, err
	}

	items := make([]*domain.PlannedLineItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, &domain.PlannedLineItem{
			ID:          row.ID,
			Module:      module,
			Description: row.Description,
			Amount:      numericToDecimal(row.Amount),
			Currency:    row.Currency,
			SplitPolicy: domain.SplitPolicy(row.SplitPolicy),
			Status:      domain.Status(row.Status),
			TravelerIDs: row.TravelerIds,
		})
	}

	return items, nil
}
