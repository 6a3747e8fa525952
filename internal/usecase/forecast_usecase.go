package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/tripcost/internal/domain"
	"github.com/iho/tripcost/internal/infrastructure/metrics"
)

// ForecastUseCase collects planned costs across trip modules into a forecast report.
type ForecastUseCase struct {
	txManager    TransactionManager
	travelerRepo TravelerRepository
	lineItems    LineItemSource
	forecastRepo ForecastRepository
	rates        RateSource
	retrier      Retrier
	defaultBase  string
	logger       zerolog.Logger
	metrics      *metrics.Metrics
	now          func() time.Time
}

// NewForecastUseCase creates a new ForecastUseCase. retrier and m may be nil.
func NewForecastUseCase(
	txManager TransactionManager,
	travelerRepo TravelerRepository,
	lineItems LineItemSource,
	forecastRepo ForecastRepository,
	rates RateSource,
	retrier Retrier,
	defaultBase string,
	logger zerolog.Logger,
	metrics *metrics.Metrics,
) *ForecastUseCase {
	if defaultBase == "" {
		defaultBase = DefaultBaseCurrency
	}

	return &ForecastUseCase{
		txManager:    txManager,
		travelerRepo: travelerRepo,
		lineItems:    lineItems,
		forecastRepo: forecastRepo,
		rates:        rates,
		retrier:      retrier,
		defaultBase:  domain.NormalizeCurrency(defaultBase),
		logger:       logger.With().Str("component", "forecast").Logger(),
		metrics:      metrics,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

type moduleItems struct {
	module domain.Module
	items  []*domain.PlannedLineItem
	err    error
}

// CollectCosts aggregates every module's line items in the given statuses into a report
// expressed in the trip's base currency, and stores it as the trip's latest forecast.
// An empty status set means confirmed and shortlisted items.
func (uc *ForecastUseCase) CollectCosts(ctx context.Context, tripID string, statuses []domain.Status) (*domain.CostForecastReport, error) {
	start := time.Now()

	if err := domain.ValidateID(tripID); err != nil {
		return nil, err
	}
	if len(statuses) == 0 {
		statuses = append([]domain.Status(nil), domain.DefaultForecastStatuses...)
	}

	travelers, err := uc.travelerRepo.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	domain.SortTravelers(travelers)
	base := domain.BaseCurrency(travelers, uc.defaultBase)

	modules := make([]moduleItems, 0, len(domain.ForecastModules))
	for _, m := range domain.ForecastModules {
		items, err := uc.lineItems.ListLineItems(ctx, tripID, m, statuses)
		if err != nil {
			uc.logger.Warn().Err(err).Str("trip_id", tripID).Str("module", string(m)).Msg("module skipped")
		}
		modules = append(modules, moduleItems{module: m, items: items, err: err})
	}

	snapshot, err := uc.rates.GetRates(ctx, base, foreignCurrencies(base, modules))
	if err != nil {
		return nil, err
	}

	builder := domain.NewForecastBuilder(tripID, statuses, travelers, snapshot)
	for _, m := range modules {
		if m.err != nil {
			builder.SkipModule(m.module, m.err)
			uc.countSkipped("module_unavailable", 1)
			continue
		}
		for _, item := range m.items {
			if err := builder.Add(item); err != nil {
				uc.logger.Warn().Err(err).Str("trip_id", tripID).Str("item_id", item.ID).Msg("line item skipped")
				uc.countSkipped("malformed", 1)
			}
		}
	}

	report := builder.Report(uc.now())
	uc.countSkipped(string(domain.FlagRateUnavailable), report.FlaggedCount(domain.FlagRateUnavailable))
	uc.countSkipped(string(domain.FlagNoCostSharers), report.FlaggedCount(domain.FlagNoCostSharers))

	if err := uc.withRetry(ctx, func() error { return uc.save(ctx, report) }); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.ForecastsCollected.Inc()
		uc.metrics.ForecastDuration.Observe(time.Since(start).Seconds())
	}

	uc.logger.Info().
		Str("trip_id", tripID).
		Str("base_currency", report.BaseCurrency).
		Str("total", report.Total.StringFixed(2)).
		Int("skipped", len(report.Skipped)).
		Msg("forecast collected")

	return report, nil
}

func (uc *ForecastUseCase) save(ctx context.Context, report *domain.CostForecastReport) error {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return err
	}
	defer tx.Rollback(txCtx)

	if err := uc.forecastRepo.Save(txCtx, tx, report); err != nil {
		return err
	}

	return tx.Commit(txCtx)
}

// GetCostForecastReport returns the most recently collected report for a trip.
func (uc *ForecastUseCase) GetCostForecastReport(ctx context.Context, tripID string) (*domain.CostForecastReport, error) {
	if err := domain.ValidateID(tripID); err != nil {
		return nil, err
	}
	return uc.forecastRepo.GetLatest(ctx, tripID)
}

func (uc *ForecastUseCase) withRetry(ctx context.Context, op func() error) error {
	if uc.retrier == nil {
		return op()
	}
	return uc.retrier.Retry(ctx, op)
}

func (uc *ForecastUseCase) countSkipped(reason string, n int) {
	if uc.metrics != nil && n > 0 {
		uc.metrics.ForecastSkipped.WithLabelValues(reason).Add(float64(n))
	}
}

func foreignCurrencies(base string, modules []moduleItems) []string {
	seen := make(map[string]bool)
	for _, m := range modules {
		for _, item := range m.items {
			code := domain.NormalizeCurrency(item.Currency)
			if code != "" && code != base {
				seen[code] = true
			}
		}
	}

	codes := make([]string, 0, len(seen))
	for code := range seen {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
