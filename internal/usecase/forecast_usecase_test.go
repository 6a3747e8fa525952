package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/tripcost/internal/domain"
	"github.com/iho/tripcost/internal/usecase"
	"github.com/iho/tripcost/internal/usecase/mocks"
)

type forecastFixture struct {
	travelers *mocks.MockTravelerRepository
	items     *mocks.MockLineItemSource
	forecasts *mocks.MockForecastRepository
	rates     *mocks.MockRateSource
	txManager *mocks.MockTransactionManager
	uc        *usecase.ForecastUseCase
}

func newForecastFixture(rates map[string]decimal.Decimal) *forecastFixture {
	f := &forecastFixture{
		travelers: mocks.NewMockTravelerRepository(),
		items:     mocks.NewMockLineItemSource(),
		forecasts: mocks.NewMockForecastRepository(),
		rates:     mocks.NewMockRateSource(rates),
		txManager: mocks.NewMockTransactionManager(),
	}
	f.uc = usecase.NewForecastUseCase(f.txManager, f.travelers, f.items, f.forecasts, f.rates, mocks.NewMockRetrier(), "USD", zerolog.Nop(), nil)
	return f
}

func threeTravelers(trip string) []*domain.Traveler {
	return []*domain.Traveler{
		{ID: "t-carol", TripID: trip, Name: "Carol", Currency: "USD", IsCostSharer: true},
		{ID: "t-alice", TripID: trip, Name: "Alice", Currency: "USD", IsCostSharer: true, IsPrimary: true},
		{ID: "t-bob", TripID: trip, Name: "Bob", Currency: "USD", IsCostSharer: true},
	}
}

func TestForecastUseCase_CollectCosts_SplitsEvenly(t *testing.T) {
	f := newForecastFixture(nil)
	f.travelers.Add(threeTravelers("trip-1")...)
	f.items.Add("trip-1", &domain.PlannedLineItem{
		ID:          "acc-1",
		Module:      domain.ModuleAccommodations,
		Description: "Cabin",
		Amount:      decimal.NewFromInt(90),
		Currency:    "USD",
		SplitPolicy: domain.SplitTotal,
		Status:      domain.StatusConfirmed,
		TravelerIDs: []string{"t-alice", "t-bob", "t-carol"},
	})

	report, err := f.uc.CollectCosts(context.Background(), "trip-1", nil)
	require.NoError(t, err)

	assert.Equal(t, "USD", report.BaseCurrency)
	assert.Equal(t, domain.DefaultForecastStatuses, report.Statuses)
	assert.True(t, report.Total.Equal(decimal.NewFromInt(90)))
	assert.True(t, report.Module(domain.ModuleAccommodations).Total.Equal(decimal.NewFromInt(90)))
	assert.True(t, report.Module(domain.ModuleFlights).Total.IsZero())

	require.Len(t, report.TravelerShares, 3)
	assert.Equal(t, "t-alice", report.TravelerShares[0].TravelerID)
	for _, share := range report.TravelerShares {
		assert.True(t, share.Amount.Equal(decimal.NewFromInt(30)), share.TravelerID)
	}
	assert.Empty(t, f.rates.Requested)

	stored, err := f.uc.GetCostForecastReport(context.Background(), "trip-1")
	require.NoError(t, err)
	assert.Same(t, report, stored)
}

func TestForecastUseCase_CollectCosts_ConvertsForeignItems(t *testing.T) {
	f := newForecastFixture(map[string]decimal.Decimal{"EUR": decimal.RequireFromString("0.8")})
	f.travelers.Add(threeTravelers("trip-1")[:2]...)
	f.items.Add("trip-1",
		&domain.PlannedLineItem{
			ID: "fl-1", Module: domain.ModuleFlights, Description: "Lisbon",
			Amount: decimal.NewFromInt(400), Currency: "EUR", SplitPolicy: domain.SplitTotal,
			Status: domain.StatusShortlisted, TravelerIDs: []string{"t-alice", "t-carol"},
		},
		&domain.PlannedLineItem{
			ID: "it-1", Module: domain.ModuleItinerary, Description: "Museum",
			Amount: decimal.NewFromInt(2000), Currency: "JPY", SplitPolicy: domain.SplitPerHead,
			Status: domain.StatusConfirmed, TravelerIDs: []string{"t-alice"},
		},
		&domain.PlannedLineItem{
			ID: "it-2", Module: domain.ModuleItinerary, Description: "Idea",
			Amount: decimal.NewFromInt(10), Currency: "USD", SplitPolicy: domain.SplitTotal,
			Status: domain.StatusDraft, TravelerIDs: []string{"t-alice"},
		},
	)

	report, err := f.uc.CollectCosts(context.Background(), "trip-1", nil)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"EUR", "JPY"}, f.rates.Requested)
	assert.True(t, report.Module(domain.ModuleFlights).Total.Equal(decimal.NewFromInt(500)))
	assert.True(t, report.Total.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, 1, report.FlaggedCount(domain.FlagRateUnavailable))
	assert.Len(t, report.FxItems, 2)
	assert.Len(t, report.Module(domain.ModuleItinerary).Items, 1)
}

func TestForecastUseCase_CollectCosts_ModuleFailureIsSkipped(t *testing.T) {
	f := newForecastFixture(nil)
	f.travelers.Add(threeTravelers("trip-1")...)
	f.items.ListLineItemsFunc = func(ctx context.Context, tripID string, module domain.Module, statuses []domain.Status) ([]*domain.PlannedLineItem, error) {
		if module == domain.ModuleItinerary {
			return nil, errors.New("itinerary store offline")
		}
		return nil, nil
	}

	report, err := f.uc.CollectCosts(context.Background(), "trip-1", []domain.Status{domain.StatusConfirmed})
	require.NoError(t, err)

	require.Len(t, report.Skipped, 1)
	assert.Equal(t, domain.ModuleItinerary, report.Skipped[0].Module)
	assert.Len(t, report.Modules, len(domain.ForecastModules))
	assert.True(t, report.Total.IsZero())
}

func TestForecastUseCase_CollectCosts_FallsBackToDefaultBase(t *testing.T) {
	f := newForecastFixture(nil)
	f.travelers.Add(&domain.Traveler{ID: "t-1", TripID: "trip-1", Name: "Solo", IsCostSharer: true})

	report, err := f.uc.CollectCosts(context.Background(), "trip-1", nil)
	require.NoError(t, err)
	assert.Equal(t, "USD", report.BaseCurrency)
}

func TestForecastUseCase_CollectCosts_Errors(t *testing.T) {
	tests := []struct {
		name      string
		tripID    string
		setup     func(*forecastFixture)
		errorType error
	}{
		{
			name:      "invalid trip id",
			tripID:    "",
			errorType: domain.ErrInvalidIDFormat,
		},
		{
			name:   "traveler lookup fails",
			tripID: "trip-1",
			setup: func(f *forecastFixture) {
				f.travelers.ListByTripFunc = func(ctx context.Context, tripID string) ([]*domain.Traveler, error) {
					return nil, domain.ErrTransientNetwork
				}
			},
			errorType: domain.ErrTransientNetwork,
		},
		{
			name:   "save fails",
			tripID: "trip-1",
			setup: func(f *forecastFixture) {
				f.forecasts.SaveFunc = func(ctx context.Context, tx usecase.Transaction, report *domain.CostForecastReport) error {
					return domain.ErrConfirmationConflict
				}
			},
			errorType: domain.ErrConfirmationConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newForecastFixture(nil)
			if tt.setup != nil {
				tt.setup(f)
			}

			_, err := f.uc.CollectCosts(context.Background(), tt.tripID, nil)
			assert.True(t, errors.Is(err, tt.errorType), "got %v", err)
		})
	}
}

func TestForecastUseCase_GetCostForecastReport_NotFound(t *testing.T) {
	f := newForecastFixture(nil)

	_, err := f.uc.GetCostForecastReport(context.Background(), "trip-404")
	assert.True(t, errors.Is(err, domain.ErrForecastNotFound))
}
