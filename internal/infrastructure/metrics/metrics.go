package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Forecast metrics
	ForecastsCollected prometheus.Counter
	ForecastDuration   prometheus.Histogram
	ForecastSkipped    *prometheus.CounterVec

	// Actual metrics
	ActualsTransferred prometheus.Counter
	ActualsReset       prometheus.Counter
	ActualsUpdated     prometheus.Counter

	// Settlement metrics
	SettlementsComputed    prometheus.Counter
	SettlementTransactions prometheus.Histogram

	// FX metrics
	FXLookups       *prometheus.CounterVec
	FXDuration      prometheus.Histogram
	FXCacheLookups  *prometheus.CounterVec
	FXBreakerChange *prometheus.CounterVec

	// Database metrics
	DBRetries *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the metrics on reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ForecastsCollected: factory.NewCounter(prometheus.CounterOpts{
			Name: "tripcost_forecasts_collected_total",
			Help: "Total number of cost forecasts collected",
		}),
		ForecastDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "tripcost_forecast_duration_seconds",
			Help:    "Duration of forecast collection",
			Buckets: prometheus.DefBuckets,
		}),
		ForecastSkipped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tripcost_forecast_items_flagged_total",
				Help: "Line items skipped or flagged during forecast collection",
			},
			[]string{"reason"},
		),

		ActualsTransferred: factory.NewCounter(prometheus.CounterOpts{
			Name: "tripcost_actuals_transferred_total",
			Help: "Total number of actuals created from forecasts",
		}),
		ActualsReset: factory.NewCounter(prometheus.CounterOpts{
			Name: "tripcost_actuals_reset_total",
			Help: "Total number of actuals deleted by resets",
		}),
		ActualsUpdated: factory.NewCounter(prometheus.CounterOpts{
			Name: "tripcost_actuals_updated_total",
			Help: "Total number of actual updates",
		}),

		SettlementsComputed: factory.NewCounter(prometheus.CounterOpts{
			Name: "tripcost_settlements_computed_total",
			Help: "Total number of settlement summaries computed",
		}),
		SettlementTransactions: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "tripcost_settlement_transactions",
			Help:    "Transactions per settlement plan",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 13, 21},
		}),

		FXLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tripcost_fx_lookups_total",
				Help: "Exchange rate lookups by result",
			},
			[]string{"result"},
		),
		FXDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "tripcost_fx_lookup_duration_seconds",
			Help:    "Duration of exchange rate lookups against the quote source",
			Buckets: prometheus.DefBuckets,
		}),
		FXCacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tripcost_fx_cache_lookups_total",
				Help: "Exchange rate cache lookups by outcome",
			},
			[]string{"outcome"},
		),
		FXBreakerChange: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tripcost_fx_breaker_transitions_total",
				Help: "Circuit breaker state transitions for the quote source",
			},
			[]string{"to"},
		),

		DBRetries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tripcost_db_retries_total",
				Help: "Database operations retried after transient errors",
			},
			[]string{"code"},
		),
	}
}
