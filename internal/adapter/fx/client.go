// Package fx fetches exchange rates from a Frankfurter-compatible quote API.
package fx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"

	"github.com/iho/tripcost/internal/domain"
	"github.com/iho/tripcost/internal/infrastructure/metrics"
)

// Config configures the quote client.
type Config struct {
	BaseURL         string
	Timeout         time.Duration
	MaxRetries      uint64
	InitialInterval time.Duration

	// Breaker trips after this many consecutive transient failures and
	// stays open for BreakerTimeout.
	BreakerFailures uint32
	BreakerTimeout  time.Duration
}

// DefaultConfig returns settings suitable for the public Frankfurter API.
func DefaultConfig() Config {
	return Config{
		BaseURL:         "https://api.frankfurter.app",
		Timeout:         10 * time.Second,
		MaxRetries:      3,
		InitialInterval: 200 * time.Millisecond,
		BreakerFailures: 5,
		BreakerTimeout:  30 * time.Second,
	}
}

// Client implements usecase.RateProvider.
type Client struct {
	baseURL         string
	http            *http.Client
	maxRetries      uint64
	initialInterval time.Duration
	breaker         *gobreaker.CircuitBreaker
	logger          zerolog.Logger
	metrics         *metrics.Metrics
}

type latestResponse struct {
	Base  string                     `json:"base"`
	Date  string                     `json:"date"`
	Rates map[string]decimal.Decimal `json:"rates"`
}

// NewClient creates a new Client. Zero fields in cfg fall back to DefaultConfig. m may be nil.
func NewClient(cfg Config, logger zerolog.Logger, m *metrics.Metrics) *Client {
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.InitialInterval <= 0 {
		cfg.InitialInterval = def.InitialInterval
	}
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = def.BreakerFailures
	}
	if cfg.BreakerTimeout <= 0 {
		cfg.BreakerTimeout = def.BreakerTimeout
	}

	c := &Client{
		baseURL:         strings.TrimRight(cfg.BaseURL, "/"),
		http:            &http.Client{Timeout: cfg.Timeout},
		maxRetries:      cfg.MaxRetries,
		initialInterval: cfg.InitialInterval,
		logger:          logger.With().Str("component", "fx_client").Logger(),
		metrics:         m,
	}

	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "fx-quotes",
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
		// An unknown currency is an answer, not an outage.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, domain.ErrRateUnavailable)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
			if c.metrics != nil {
				c.metrics.FXBreakerChange.WithLabelValues(to.String()).Inc()
			}
		},
	})

	return c
}

// FetchRate quotes one unit of from in to.
func (c *Client) FetchRate(ctx context.Context, from, to string) (domain.Rate, error) {
	from, to = domain.NormalizeCurrency(from), domain.NormalizeCurrency(to)
	if from == to {
		return domain.Rate{Value: decimal.NewFromInt(1), AsOf: time.Now().UTC()}, nil
	}

	result, err := c.breaker.Execute(func() (any, error) {
		return c.fetchWithRetry(ctx, from, to)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return domain.Rate{}, fmt.Errorf("%w: quote source unavailable: %v", domain.ErrTransientNetwork, err)
		}
		return domain.Rate{}, err
	}

	return result.(domain.Rate), nil
}

func (c *Client) fetchWithRetry(ctx context.Context, from, to string) (domain.Rate, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.initialInterval

	var (
		rate    domain.Rate
		attempt int
	)

	err := backoff.Retry(func() error {
		attempt++

		r, err := c.fetch(ctx, from, to)
		if err == nil {
			rate = r
			return nil
		}
		if errors.Is(err, domain.ErrRateUnavailable) || ctx.Err() != nil {
			return backoff.Permanent(err)
		}

		c.logger.Debug().Err(err).Int("attempt", attempt).Str("from", from).Str("to", to).Msg("quote request failed")
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(b, c.maxRetries), ctx))

	return rate, err
}

func (c *Client) fetch(ctx context.Context, from, to string) (domain.Rate, error) {
	q := url.Values{}
	q.Set("from", from)
	q.Set("to", to)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/latest?"+q.Encode(), nil)
	if err != nil {
		return domain.Rate{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.Rate{}, fmt.Errorf("%w: %v", domain.ErrTransientNetwork, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return domain.Rate{}, fmt.Errorf("%w: quote source returned %s", domain.ErrTransientNetwork, resp.Status)
	case resp.StatusCode >= 400:
		return domain.Rate{}, fmt.Errorf("%w: %s/%s: %s", domain.ErrRateUnavailable, from, to, resp.Status)
	}

	var body latestResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.Rate{}, fmt.Errorf("%w: decode quote: %v", domain.ErrTransientNetwork, err)
	}

	value, ok := body.Rates[to]
	if !ok || !value.IsPositive() {
		return domain.Rate{}, fmt.Errorf("%w: %s/%s", domain.ErrRateUnavailable, from, to)
	}

	asOf, err := time.Parse(time.DateOnly, body.Date)
	if err != nil {
		asOf = time.Now().UTC()
	}

	return domain.Rate{Value: value, AsOf: asOf}, nil
}
