package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/iho/tripcost/internal/domain"
	"github.com/iho/tripcost/internal/infrastructure/metrics"
)

// ExchangeRateUseCase resolves rate snapshots against a quote source.
type ExchangeRateUseCase struct {
	provider    RateProvider
	cache       Cache
	cacheTTL    time.Duration
	concurrency int
	logger      zerolog.Logger
	metrics     *metrics.Metrics
	now         func() time.Time
}

// ExchangeRateConfig tunes rate lookups.
type ExchangeRateConfig struct {
	CacheTTL    time.Duration
	Concurrency int
}

// NewExchangeRateUseCase creates a new ExchangeRateUseCase. cache and m may be nil.
func NewExchangeRateUseCase(
	provider RateProvider,
	cache Cache,
	cfg ExchangeRateConfig,
	logger zerolog.Logger,
	m *metrics.Metrics,
) *ExchangeRateUseCase {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultRateCacheTTL
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultRateConcurrency
	}

	return &ExchangeRateUseCase{
		provider:    provider,
		cache:       cache,
		cacheTTL:    cfg.CacheTTL,
		concurrency: cfg.Concurrency,
		logger:      logger.With().Str("component", "exchange_rates").Logger(),
		metrics:     m,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

type cachedRate struct {
	Value decimal.Decimal `json:"value"`
	AsOf  time.Time       `json:"as_of"`
}

// GetRates resolves every target against base. Targets that cannot be resolved
// are left out of the snapshot; only an invalid base is an error.
func (uc *ExchangeRateUseCase) GetRates(ctx context.Context, base string, targets []string) (*domain.RateSnapshot, error) {
	if err := domain.ValidateCurrency(base); err != nil {
		return nil, err
	}

	snapshot := domain.NewRateSnapshot(base, uc.now())
	pending := uc.uniqueTargets(snapshot.Base, targets)
	if len(pending) == 0 {
		return snapshot, nil
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(uc.concurrency)

	for _, target := range pending {
		target := target
		g.Go(func() error {
			rate, err := uc.lookup(ctx, snapshot.Base, target)
			if err != nil {
				uc.logger.Warn().Err(err).Str("base", snapshot.Base).Str("target", target).Msg("exchange rate omitted")
				return nil
			}

			mu.Lock()
			snapshot.Set(target, rate.Value, rate.AsOf)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return snapshot, nil
}

func (uc *ExchangeRateUseCase) uniqueTargets(base string, targets []string) []string {
	seen := make(map[string]bool, len(targets))
	unique := make([]string, 0, len(targets))

	for _, t := range targets {
		code := domain.NormalizeCurrency(t)
		if code == base || seen[code] {
			continue
		}
		seen[code] = true

		if err := domain.ValidateCurrency(code); err != nil {
			uc.logger.Debug().Str("target", t).Msg("skipping invalid currency code")
			continue
		}
		unique = append(unique, code)
	}

	return unique
}

func (uc *ExchangeRateUseCase) lookup(ctx context.Context, base, target string) (domain.Rate, error) {
	key := "fx:" + base + ":" + target

	if rate, ok := uc.fromCache(ctx, key); ok {
		uc.countLookup("cache")
		return rate, nil
	}

	start := time.Now()
	rate, err := uc.provider.FetchRate(ctx, base, target)
	if uc.metrics != nil {
		uc.metrics.FXDuration.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		if errors.Is(err, domain.ErrRateUnavailable) {
			uc.countLookup("unavailable")
		} else {
			uc.countLookup("error")
		}
		return domain.Rate{}, err
	}
	if !rate.Value.IsPositive() {
		uc.countLookup("unavailable")
		return domain.Rate{}, domain.ErrRateUnavailable
	}
	uc.countLookup("fetched")

	uc.toCache(ctx, key, rate)
	return rate, nil
}

func (uc *ExchangeRateUseCase) fromCache(ctx context.Context, key string) (domain.Rate, bool) {
	if uc.cache == nil {
		return domain.Rate{}, false
	}

	data, err := uc.cache.Get(ctx, key)
	if err != nil || len(data) == 0 {
		uc.countCache("miss")
		return domain.Rate{}, false
	}

	var cached cachedRate
	if err := json.Unmarshal(data, &cached); err != nil {
		uc.logger.Debug().Err(err).Str("key", key).Msg("dropping unreadable cached rate")
		_ = uc.cache.Delete(ctx, key)
		uc.countCache("miss")
		return domain.Rate{}, false
	}

	uc.countCache("hit")
	return domain.Rate{Value: cached.Value, AsOf: cached.AsOf}, true
}

func (uc *ExchangeRateUseCase) toCache(ctx context.Context, key string, rate domain.Rate) {
	if uc.cache == nil {
		return
	}

	data, err := json.Marshal(cachedRate{Value: rate.Value, AsOf: rate.AsOf})
	if err != nil {
		return
	}
	if err := uc.cache.Set(ctx, key, data, uc.cacheTTL); err != nil {
		uc.logger.Debug().Err(err).Str("key", key).Msg("failed to cache rate")
	}
}

func (uc *ExchangeRateUseCase) countLookup(result string) {
	if uc.metrics != nil {
		uc.metrics.FXLookups.WithLabelValues(result).Inc()
	}
}

func (uc *ExchangeRateUseCase) countCache(outcome string) {
	if uc.metrics != nil {
		uc.metrics.FXCacheLookups.WithLabelValues(outcome).Inc()
	}
}
