package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/tripcost/internal/adapter/http/handler"
	"github.com/iho/tripcost/internal/adapter/http/middleware"
	"github.com/iho/tripcost/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	ForecastHandler   *handler.ForecastHandler
	ActualHandler     *handler.ActualHandler
	SettlementHandler *handler.SettlementHandler
	RateHandler       *handler.RateHandler
	ExpenseHandler    *handler.ExpenseHandler
	HealthHandler     *handler.HealthHandler

	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	// RateLimiter throttles /rates per client, nil disables it.
	RateLimiter *middleware.RateLimiter

	Logger zerolog.Logger
	// Registry backs the HTTP metrics and /metrics. Nil disables both.
	Registry *prometheus.Registry
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery(cfg.Logger))
	if cfg.Registry != nil {
		r.Use(middleware.NewHTTPMetrics(cfg.Registry).Wrap)
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{}))
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.IdempotencyStore != nil {
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL).Wrap)
		}

		r.Route("/trips/{tripID}", func(r chi.Router) {
			r.Post("/forecast", cfg.ForecastHandler.Collect)
			r.Get("/forecast", cfg.ForecastHandler.Get)

			r.Post("/actuals/transfer", cfg.ActualHandler.Transfer)
			r.Get("/actuals", cfg.ActualHandler.ListByTrip)
			r.Delete("/actuals", cfg.ActualHandler.Reset)

			r.Get("/settlement", cfg.SettlementHandler.Get)

			r.Post("/expenses", cfg.ExpenseHandler.Create)
			r.Get("/expenses/splits", cfg.ExpenseHandler.ListSplits)
		})

		r.Get("/actuals/{actualID}", cfg.ActualHandler.Get)
		r.Patch("/actuals/{actualID}", cfg.ActualHandler.Update)

		r.Get("/expenses/{expenseID}", cfg.ExpenseHandler.Get)

		r.Group(func(r chi.Router) {
			if cfg.RateLimiter != nil {
				r.Use(cfg.RateLimiter.Limit)
			}
			r.Get("/rates", cfg.RateHandler.Get)
		})
	})

	return r
}
