package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/tripcost/internal/domain"
)

var (
	fixedTime  = time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	actualCols = []string{
		"id", "expense_id", "traveler_id", "installment_number", "amount", "date",
		"paid_by_traveler_id", "payment_method_key", "receipt_url", "notes",
		"created_at", "updated_at", "currency",
	}
)

func TestTravelerRepository_ListByTrip(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectQuery("FROM trip_travelers").
		WithArgs("trip-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "trip_id", "name", "currency", "is_cost_sharer", "is_primary", "created_at"}).
			AddRow("t-1", "trip-1", "Alice", "USD", true, true, fixedTime).
			AddRow("t-2", "trip-1", "Bob", "EUR", false, false, fixedTime))

	travelers, err := NewTravelerRepository(pool).ListByTrip(context.Background(), "trip-1")
	require.NoError(t, err)

	require.Len(t, travelers, 2)
	assert.True(t, travelers[0].IsPrimary)
	assert.Equal(t, "EUR", travelers[1].Currency)
	assert.False(t, travelers[1].IsCostSharer)
	assertExpectations(t, pool)
}

func TestExpenseRepository_CreateAndGet(t *testing.T) {
	pool := newMockPool(t)
	tx := beginMockTx(t, pool)

	pool.ExpectExec("INSERT INTO expenses").
		WithArgs("exp-1", "trip-1", "Dinner", pgxmock.AnyArg(), "USD", "total", "confirmed", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	pool.ExpectExec("INSERT INTO expense_splits").
		WithArgs("exp-1", "t-1", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	pool.ExpectExec("INSERT INTO expense_splits").
		WithArgs("exp-1", "t-2", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	expense := &domain.Expense{
		ID: "exp-1", TripID: "trip-1", Description: "Dinner", Currency: "USD",
		Amount: decimal.NewFromInt(90), SplitPolicy: domain.SplitTotal, Status: domain.StatusConfirmed,
		CreatedAt: fixedTime,
	}
	require.NoError(t, NewExpenseRepository(pool).Create(context.Background(), tx, expense))

	splits, err := domain.BuildSplits(expense, []string{"t-1", "t-2"})
	require.NoError(t, err)
	require.NoError(t, NewSplitRepository(pool).CreateBatch(context.Background(), tx, splits))

	pool.ExpectQuery("FROM expenses").
		WithArgs("exp-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "trip_id", "description", "amount", "currency", "split_policy", "status", "created_at"}).
			AddRow("exp-1", "trip-1", "Dinner", "90.0000", "USD", "total", "confirmed", fixedTime))

	stored, err := NewExpenseRepository(pool).GetByID(context.Background(), "exp-1")
	require.NoError(t, err)
	assert.True(t, stored.Amount.Equal(decimal.NewFromInt(90)))
	assert.Equal(t, domain.SplitTotal, stored.SplitPolicy)

	assertExpectations(t, pool)
}

func TestExpenseRepository_GetByIDNotFound(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectQuery("FROM expenses").WithArgs("missing").WillReturnError(pgx.ErrNoRows)

	_, err := NewExpenseRepository(pool).GetByID(context.Background(), "missing")
	assert.True(t, errors.Is(err, domain.ErrExpenseNotFound))
}

func TestSplitRepository_ListByTrip(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectQuery("FROM expense_splits").
		WithArgs("trip-1").
		WillReturnRows(pgxmock.NewRows([]string{"expense_id", "traveler_id", "currency", "estimated_amount"}).
			AddRow("exp-1", "t-1", "EUR", "45.00").
			AddRow("exp-1", "t-2", "EUR", "45.00"))

	splits, err := NewSplitRepository(pool).ListByTrip(context.Background(), "trip-1")
	require.NoError(t, err)

	require.Len(t, splits, 2)
	assert.Equal(t, "EUR", splits[0].Currency)
	assert.True(t, splits[1].EstimatedAmount.Equal(decimal.NewFromInt(45)))
}

func TestActualRepository_CreateIfAbsent(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		want     bool
	}{
		{name: "inserted", affected: 1, want: true},
		{name: "already transferred", affected: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := newMockPool(t)
			tx := beginMockTx(t, pool)

			pool.ExpectExec("ON CONFLICT").
				WithArgs("act-1", "exp-1", "t-1", int32(1), pgxmock.AnyArg(), pgxmock.AnyArg(),
					pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
					pgxmock.AnyArg(), pgxmock.AnyArg()).
				WillReturnResult(pgxmock.NewResult("INSERT", tt.affected))

			actual := domain.NewActualFromSplit("act-1", domain.ExpenseSplit{
				ExpenseID: "exp-1", TravelerID: "t-1", EstimatedAmount: decimal.NewFromInt(30),
			}, fixedTime)

			inserted, err := NewActualRepository(pool).CreateIfAbsent(context.Background(), tx, actual)
			require.NoError(t, err)
			assert.Equal(t, tt.want, inserted)
			assertExpectations(t, pool)
		})
	}
}

func TestActualRepository_GetByID(t *testing.T) {
	pool := newMockPool(t)
	paidOn := fixedTime.Add(24 * time.Hour)

	pool.ExpectQuery("FROM expense_actuals").
		WithArgs("act-1").
		WillReturnRows(pgxmock.NewRows(actualCols).
			AddRow("act-1", "exp-1", "t-2", int32(1), "30.00", paidOn,
				"t-1", "card", nil, "split dinner", fixedTime, fixedTime, "USD"))

	actual, err := NewActualRepository(pool).GetByID(context.Background(), "act-1")
	require.NoError(t, err)

	assert.Equal(t, "USD", actual.Currency)
	assert.Equal(t, 1, actual.InstallmentNumber)
	assert.True(t, actual.IsPaid())
	assert.Equal(t, "t-1", *actual.PaidByTravelerID)
	require.NotNil(t, actual.Date)
	assert.True(t, actual.Date.Equal(paidOn))
	assert.Nil(t, actual.ReceiptURL)
	assert.Equal(t, "split dinner", *actual.Notes)
}

func TestActualRepository_NotFound(t *testing.T) {
	pool := newMockPool(t)
	tx := beginMockTx(t, pool)

	pool.ExpectQuery("FOR UPDATE").WithArgs("act-404").WillReturnError(pgx.ErrNoRows)
	_, err := NewActualRepository(pool).GetByIDForUpdate(context.Background(), tx, "act-404")
	assert.True(t, errors.Is(err, domain.ErrActualNotFound))

	pool.ExpectExec("UPDATE expense_actuals").WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	err = NewActualRepository(pool).Update(context.Background(), tx, &domain.ExpenseActual{ID: "act-404", UpdatedAt: fixedTime})
	assert.True(t, errors.Is(err, domain.ErrActualNotFound))

	assertExpectations(t, pool)
}

func TestActualRepository_ListAndDeleteByTrip(t *testing.T) {
	pool := newMockPool(t)

	pool.ExpectQuery("FROM expense_actuals").
		WithArgs("trip-1").
		WillReturnRows(pgxmock.NewRows(actualCols).
			AddRow("act-1", "exp-1", "t-1", int32(1), "30.00", nil, nil, nil, nil, nil, fixedTime, fixedTime, "USD").
			AddRow("act-2", "exp-1", "t-2", int32(1), "30.00", nil, nil, nil, nil, nil, fixedTime, fixedTime, "USD"))

	repo := NewActualRepository(pool)
	actuals, err := repo.ListByTrip(context.Background(), "trip-1")
	require.NoError(t, err)
	require.Len(t, actuals, 2)
	assert.False(t, actuals[0].IsPaid())
	assert.Nil(t, actuals[1].Date)

	tx := beginMockTx(t, pool)
	pool.ExpectExec("DELETE FROM expense_actuals").
		WithArgs("trip-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 2))

	deleted, err := repo.DeleteByTrip(context.Background(), tx, "trip-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
	assertExpectations(t, pool)
}

func TestLineItemRepository_ListLineItems(t *testing.T) {
	tests := []struct {
		module domain.Module
		table  string
	}{
		{domain.ModuleFlights, "FROM flights"},
		{domain.ModuleAccommodations, "FROM accommodations"},
		{domain.ModuleItinerary, "FROM itinerary_items"},
		{domain.ModuleExpenses, "FROM expenses"},
	}

	for _, tt := range tests {
		t.Run(string(tt.module), func(t *testing.T) {
			pool := newMockPool(t)
			pool.ExpectQuery(tt.table).
				WithArgs("trip-1", []string{"confirmed", "shortlisted"}).
				WillReturnRows(pgxmock.NewRows([]string{"id", "description", "amount", "currency", "split_policy", "status", "traveler_ids"}).
					AddRow("item-1", "Planned", "120.50", "EUR", "per_head", "confirmed", []string{"t-1", "t-2"}))

			items, err := NewLineItemRepository(pool).ListLineItems(context.Background(), "trip-1", tt.module, domain.DefaultForecastStatuses)
			require.NoError(t, err)

			require.Len(t, items, 1)
			assert.Equal(t, tt.module, items[0].Module)
			assert.Equal(t, domain.SplitPerHead, items[0].SplitPolicy)
			assert.True(t, items[0].Amount.Equal(decimal.RequireFromString("120.5")))
			assert.Equal(t, []string{"t-1", "t-2"}, items[0].TravelerIDs)
			assertExpectations(t, pool)
		})
	}
}

func TestLineItemRepository_UnknownModule(t *testing.T) {
	pool := newMockPool(t)

	_, err := NewLineItemRepository(pool).ListLineItems(context.Background(), "trip-1", domain.Module("packing"), nil)
	assert.Error(t, err)
}

func TestForecastRepository_SaveAndGet(t *testing.T) {
	pool := newMockPool(t)
	tx := beginMockTx(t, pool)

	report := &domain.CostForecastReport{
		TripID:       "trip-1",
		BaseCurrency: "USD",
		Statuses:     []domain.Status{domain.StatusConfirmed},
		Total:        decimal.NewFromInt(90),
		CollectedAt:  fixedTime,
		Shares: []domain.ItemShare{
			{ItemID: "acc-1", Module: domain.ModuleAccommodations, TravelerID: "t-1", Amount: decimal.NewFromInt(45)},
			{ItemID: "acc-1", Module: domain.ModuleAccommodations, TravelerID: "t-2", Amount: decimal.NewFromInt(45)},
		},
	}

	pool.ExpectExec("INSERT INTO cost_forecasts").
		WithArgs("trip-1", "USD", []string{"confirmed"}, pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	pool.ExpectExec("DELETE FROM cost_forecast_shares").
		WithArgs("trip-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 3))
	for _, s := range report.Shares {
		pool.ExpectExec("INSERT INTO cost_forecast_shares").
			WithArgs("trip-1", "accommodations", "acc-1", s.TravelerID, pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
	}

	require.NoError(t, NewForecastRepository(pool).Save(context.Background(), tx, report))

	payload, err := json.Marshal(report)
	require.NoError(t, err)
	pool.ExpectQuery("FROM cost_forecasts").
		WithArgs("trip-1").
		WillReturnRows(pgxmock.NewRows([]string{"trip_id", "base_currency", "statuses", "total", "report", "collected_at"}).
			AddRow("trip-1", "USD", []string{"confirmed"}, "90", payload, fixedTime))

	stored, err := NewForecastRepository(pool).GetLatest(context.Background(), "trip-1")
	require.NoError(t, err)
	assert.True(t, stored.Total.Equal(decimal.NewFromInt(90)))
	assert.Len(t, stored.Shares, 2)
	assert.True(t, stored.CollectedAt.Equal(fixedTime))

	assertExpectations(t, pool)
}

func TestForecastRepository_GetLatestNotFound(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectQuery("FROM cost_forecasts").WithArgs("trip-1").WillReturnError(pgx.ErrNoRows)

	_, err := NewForecastRepository(pool).GetLatest(context.Background(), "trip-1")
	assert.True(t, errors.Is(err, domain.ErrForecastNotFound))
}

func TestNumericRoundTrip(t *testing.T) {
	for _, s := range []string{"0", "30.5", "-12.345", "1000000000"} {
		d := decimal.RequireFromString(s)
		assert.True(t, numericToDecimal(decimalToNumeric(d)).Equal(d), s)
	}
}
