package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func forecastTravelers() []*Traveler {
	travelers := []*Traveler{
		{ID: "t-carol", Name: "Carol", IsCostSharer: true},
		{ID: "t-alice", Name: "Alice", IsCostSharer: true, IsPrimary: true, Currency: "USD"},
		{ID: "t-bob", Name: "Bob", IsCostSharer: true},
		{ID: "t-kid", Name: "Kid", IsCostSharer: false},
	}
	SortTravelers(travelers)
	return travelers
}

func TestForecastBuilder_EvenAccommodationSplit(t *testing.T) {
	travelers := forecastTravelers()
	snapshot := NewRateSnapshot("USD", time.Now())

	b := NewForecastBuilder("trip-1", DefaultForecastStatuses, travelers, snapshot)
	err := b.Add(&PlannedLineItem{
		ID:          "acc-1",
		Module:      ModuleAccommodations,
		Description: "Hostel",
		Amount:      decimal.NewFromInt(90),
		Currency:    "USD",
		SplitPolicy: SplitTotal,
		Status:      StatusConfirmed,
		TravelerIDs: []string{"t-alice", "t-bob", "t-carol"},
	})
	require.NoError(t, err)

	report := b.Report(time.Now())

	require.Len(t, report.Modules, len(ForecastModules))
	assert.True(t, report.Module(ModuleAccommodations).Total.Equal(decimal.NewFromInt(90)))
	assert.True(t, report.Total.Equal(decimal.NewFromInt(90)))
	for _, id := range []string{"t-alice", "t-bob", "t-carol"} {
		assert.True(t, report.ShareOf(id).Equal(decimal.NewFromInt(30)), "share of %s = %s", id, report.ShareOf(id))
	}
	assert.Empty(t, report.FxItems, "same-currency items need no conversion")
}

func TestForecastBuilder_EmptyModulesArePresent(t *testing.T) {
	b := NewForecastBuilder("trip-1", DefaultForecastStatuses, forecastTravelers(), NewRateSnapshot("USD", time.Now()))
	report := b.Report(time.Now())

	require.Len(t, report.Modules, 4)
	for i, m := range ForecastModules {
		assert.Equal(t, m, report.Modules[i].Module)
		assert.True(t, report.Modules[i].Total.IsZero())
		assert.NotNil(t, report.Modules[i].Items)
	}
	assert.True(t, report.Total.IsZero())
}

func TestForecastBuilder_ConvertsForeignItems(t *testing.T) {
	now := time.Now()
	snapshot := NewRateSnapshot("USD", now)
	snapshot.Set("EUR", decimal.RequireFromString("0.8"), now)

	b := NewForecastBuilder("trip-1", DefaultForecastStatuses, forecastTravelers(), snapshot)
	require.NoError(t, b.Add(&PlannedLineItem{
		ID: "fl-1", Module: ModuleFlights, Description: "CDG-JFK", Amount: decimal.NewFromInt(400),
		Currency: "EUR", SplitPolicy: SplitTotal, Status: StatusShortlisted,
		TravelerIDs: []string{"t-alice", "t-bob"},
	}))

	report := b.Report(now)

	require.Len(t, report.FxItems, 1)
	fx := report.FxItems[0]
	assert.True(t, fx.Available)
	assert.Equal(t, "EUR", fx.OriginalCurrency)
	assert.True(t, fx.ConvertedAmount.Equal(decimal.NewFromInt(500)))
	assert.True(t, report.Module(ModuleFlights).Total.Equal(decimal.NewFromInt(500)))
	assert.True(t, report.ShareOf("t-alice").Equal(decimal.NewFromInt(250)))
	assert.True(t, report.ShareOf("t-carol").IsZero())
}

func TestForecastBuilder_RateUnavailableIsFlagged(t *testing.T) {
	b := NewForecastBuilder("trip-1", DefaultForecastStatuses, forecastTravelers(), NewRateSnapshot("USD", time.Now()))
	require.NoError(t, b.Add(&PlannedLineItem{
		ID: "it-1", Module: ModuleItinerary, Description: "Onsen", Amount: decimal.NewFromInt(8000),
		Currency: "JPY", SplitPolicy: SplitTotal, Status: StatusConfirmed, TravelerIDs: []string{"t-alice"},
	}))

	report := b.Report(time.Now())

	itinerary := report.Module(ModuleItinerary)
	require.Len(t, itinerary.Items, 1, "flagged items stay in the report")
	assert.Contains(t, itinerary.Items[0].Flags, FlagRateUnavailable)
	assert.True(t, itinerary.Total.IsZero())
	assert.True(t, report.Total.IsZero())
	require.Len(t, report.FxItems, 1)
	assert.False(t, report.FxItems[0].Available)
	assert.Equal(t, 1, report.FlaggedCount(FlagRateUnavailable))
}

func TestForecastBuilder_NoCostSharers(t *testing.T) {
	b := NewForecastBuilder("trip-1", DefaultForecastStatuses, forecastTravelers(), NewRateSnapshot("USD", time.Now()))
	require.NoError(t, b.Add(&PlannedLineItem{
		ID: "exp-1", Module: ModuleExpenses, Description: "Kids club", Amount: decimal.NewFromInt(40),
		Currency: "USD", SplitPolicy: SplitTotal, Status: StatusConfirmed, TravelerIDs: []string{"t-kid"},
	}))

	report := b.Report(time.Now())

	assert.True(t, report.Module(ModuleExpenses).Total.Equal(decimal.NewFromInt(40)))
	assert.Contains(t, report.Module(ModuleExpenses).Items[0].Flags, FlagNoCostSharers)
	assert.Empty(t, report.Shares)
	for _, s := range report.TravelerShares {
		assert.True(t, s.Amount.IsZero())
	}
}

func TestForecastBuilder_PerHead(t *testing.T) {
	b := NewForecastBuilder("trip-1", DefaultForecastStatuses, forecastTravelers(), NewRateSnapshot("USD", time.Now()))
	require.NoError(t, b.Add(&PlannedLineItem{
		ID: "it-2", Module: ModuleItinerary, Description: "Boat tour", Amount: decimal.NewFromInt(25),
		Currency: "USD", SplitPolicy: SplitPerHead, Status: StatusConfirmed,
		TravelerIDs: []string{"t-alice", "t-bob", "t-kid"},
	}))

	report := b.Report(time.Now())

	// the kid rides along but only cost-sharers are charged a head
	assert.True(t, report.Module(ModuleItinerary).Total.Equal(decimal.NewFromInt(50)))
	assert.True(t, report.ShareOf("t-alice").Equal(decimal.NewFromInt(25)))
	assert.True(t, report.ShareOf("t-bob").Equal(decimal.NewFromInt(25)))
	assert.True(t, report.ShareOf("t-kid").IsZero())
}

func TestForecastBuilder_PerHeadShareIgnoresNonSharers(t *testing.T) {
	now := time.Now()
	snapshot := NewRateSnapshot("USD", now)
	snapshot.Set("EUR", decimal.RequireFromString("0.5"), now)

	tests := []struct {
		name      string
		travelers []string
	}{
		{name: "cost-sharers only", travelers: []string{"t-alice", "t-bob"}},
		{name: "with non-sharer", travelers: []string{"t-alice", "t-bob", "t-kid"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewForecastBuilder("trip-1", DefaultForecastStatuses, forecastTravelers(), snapshot)
			require.NoError(t, b.Add(&PlannedLineItem{
				ID: "it-3", Module: ModuleItinerary, Description: "Museum", Amount: decimal.NewFromInt(100),
				Currency: "EUR", SplitPolicy: SplitPerHead, Status: StatusConfirmed, TravelerIDs: tt.travelers,
			}))

			report := b.Report(now)

			assert.True(t, report.Module(ModuleItinerary).Total.Equal(decimal.NewFromInt(400)))
			assert.True(t, report.ShareOf("t-alice").Equal(decimal.NewFromInt(200)))
			assert.True(t, report.ShareOf("t-bob").Equal(decimal.NewFromInt(200)))
		})
	}
}

func TestForecastBuilder_PerHeadWithoutCostSharers(t *testing.T) {
	b := NewForecastBuilder("trip-1", DefaultForecastStatuses, forecastTravelers(), NewRateSnapshot("USD", time.Now()))
	require.NoError(t, b.Add(&PlannedLineItem{
		ID: "it-4", Module: ModuleItinerary, Description: "Kids camp", Amount: decimal.NewFromInt(30),
		Currency: "USD", SplitPolicy: SplitPerHead, Status: StatusConfirmed, TravelerIDs: []string{"t-kid"},
	}))

	report := b.Report(time.Now())

	assert.True(t, report.Module(ModuleItinerary).Total.Equal(decimal.NewFromInt(30)))
	assert.Contains(t, report.Module(ModuleItinerary).Items[0].Flags, FlagNoCostSharers)
	assert.Empty(t, report.Shares)
}

func TestForecastBuilder_MalformedItemsAreSkipped(t *testing.T) {
	b := NewForecastBuilder("trip-1", DefaultForecastStatuses, forecastTravelers(), NewRateSnapshot("USD", time.Now()))

	err := b.Add(&PlannedLineItem{
		ID: "bad-1", Module: ModuleFlights, Amount: decimal.NewFromInt(-10), Currency: "USD", SplitPolicy: SplitTotal,
	})
	assert.ErrorIs(t, err, ErrMalformedLineItem)

	err = b.Add(&PlannedLineItem{
		ID: "bad-2", Module: Module("packing"), Amount: decimal.NewFromInt(10), Currency: "USD", SplitPolicy: SplitTotal,
	})
	assert.Error(t, err)

	report := b.Report(time.Now())
	require.Len(t, report.Skipped, 2)
	assert.Equal(t, "bad-1", report.Skipped[0].ItemID)
	assert.True(t, report.Total.IsZero())
}

func TestForecastBuilder_SharesSumToModuleTotals(t *testing.T) {
	now := time.Now()
	snapshot := NewRateSnapshot("USD", now)
	snapshot.Set("EUR", decimal.RequireFromString("0.93"), now)

	b := NewForecastBuilder("trip-1", DefaultForecastStatuses, forecastTravelers(), snapshot)
	items := []*PlannedLineItem{
		{ID: "a", Module: ModuleFlights, Amount: decimal.RequireFromString("333.33"), Currency: "EUR", SplitPolicy: SplitTotal, TravelerIDs: []string{"t-alice", "t-bob", "t-carol"}},
		{ID: "b", Module: ModuleAccommodations, Amount: decimal.RequireFromString("100"), Currency: "USD", SplitPolicy: SplitTotal, TravelerIDs: []string{"t-alice", "t-bob", "t-carol"}},
		{ID: "c", Module: ModuleItinerary, Amount: decimal.RequireFromString("17.17"), Currency: "EUR", SplitPolicy: SplitPerHead, TravelerIDs: []string{"t-bob", "t-carol"}},
	}
	for _, item := range items {
		require.NoError(t, b.Add(item))
	}

	report := b.Report(now)

	shared := decimal.Zero
	for _, s := range report.TravelerShares {
		shared = shared.Add(s.Amount)
	}
	assert.True(t, shared.Equal(report.Total), "shares %s total %s", shared, report.Total)
}
