package usecase

import (
	"context"
	"sort"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/tripcost/internal/domain"
	"github.com/iho/tripcost/internal/infrastructure/metrics"
)

// SettlementUseCase derives who owes whom from a trip's actuals.
type SettlementUseCase struct {
	travelerRepo TravelerRepository
	splitRepo    SplitRepository
	actualRepo   ActualRepository
	rates        RateSource
	defaultBase  string
	logger       zerolog.Logger
	metrics      *metrics.Metrics
}

// NewSettlementUseCase creates a new SettlementUseCase.
func NewSettlementUseCase(
	travelerRepo TravelerRepository,
	splitRepo SplitRepository,
	actualRepo ActualRepository,
	rates RateSource,
	defaultBase string,
	logger zerolog.Logger,
	metrics *metrics.Metrics,
) *SettlementUseCase {
	if defaultBase == "" {
		defaultBase = DefaultBaseCurrency
	}

	return &SettlementUseCase{
		travelerRepo: travelerRepo,
		splitRepo:    splitRepo,
		actualRepo:   actualRepo,
		rates:        rates,
		defaultBase:  domain.NormalizeCurrency(defaultBase),
		logger:       logger.With().Str("component", "settlement").Logger(),
		metrics:      metrics,
	}
}

// GetSettlementSummary computes balances and a settlement plan in the trip's base currency.
// Amounts in currencies with no available rate are left out and listed as skipped.
func (uc *SettlementUseCase) GetSettlementSummary(ctx context.Context, tripID string) (*domain.SettlementSummary, error) {
	if err := domain.ValidateID(tripID); err != nil {
		return nil, err
	}

	travelers, err := uc.travelerRepo.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	domain.SortTravelers(travelers)
	base := domain.BaseCurrency(travelers, uc.defaultBase)

	splits, err := uc.splitRepo.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	actuals, err := uc.actualRepo.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	snapshot, err := uc.rates.GetRates(ctx, base, settlementCurrencies(base, splits, actuals))
	if err != nil {
		return nil, err
	}

	summary := &domain.SettlementSummary{
		TripID:         tripID,
		Currency:       base,
		TotalEstimated: decimal.Zero,
		TotalActual:    decimal.Zero,
		Skipped:        []domain.SkippedActual{},
	}

	for _, split := range splits {
		converted, _, err := snapshot.Convert(split.EstimatedAmount, currencyOr(split.Currency, base), base)
		if err != nil {
			uc.logger.Warn().Err(err).Str("trip_id", tripID).Str("expense_id", split.ExpenseID).Msg("split left out of estimate")
			continue
		}
		summary.TotalEstimated = summary.TotalEstimated.Add(converted.Round(2))
	}

	inBase := make([]*domain.ExpenseActual, 0, len(actuals))
	for _, a := range actuals {
		currency := currencyOr(a.Currency, base)
		converted, _, err := snapshot.Convert(a.Amount, currency, base)
		if err != nil {
			summary.Skipped = append(summary.Skipped, domain.SkippedActual{
				ActualID: a.ID,
				Currency: currency,
				Reason:   err.Error(),
			})
			continue
		}

		copied := *a
		copied.Amount = converted.Round(2)
		copied.Currency = base
		inBase = append(inBase, &copied)

		// Only paid actuals count as actual spend; should_pay counts all of them.
		if copied.IsPaid() {
			summary.TotalActual = summary.TotalActual.Add(copied.Amount)
		}
	}

	summary.Balances = domain.ComputeBalances(travelers, inBase)
	summary.Transactions = domain.PlanSettlement(summary.Balances)

	if uc.metrics != nil {
		uc.metrics.SettlementsComputed.Inc()
		uc.metrics.SettlementTransactions.Observe(float64(len(summary.Transactions)))
	}

	return summary, nil
}

func currencyOr(code, fallback string) string {
	if code = domain.NormalizeCurrency(code); code != "" {
		return code
	}
	return fallback
}

func settlementCurrencies(base string, splits []domain.ExpenseSplit, actuals []*domain.ExpenseActual) []string {
	seen := make(map[string]bool)
	for _, s := range splits {
		seen[currencyOr(s.Currency, base)] = true
	}
	for _, a := range actuals {
		seen[currencyOr(a.Currency, base)] = true
	}
	delete(seen, base)

	codes := make([]string, 0, len(seen))
	for code := range seen {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
