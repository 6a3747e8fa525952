package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/iho/tripcost/internal/adapter/fx"
	httpAdapter "github.com/iho/tripcost/internal/adapter/http"
	"github.com/iho/tripcost/internal/adapter/http/handler"
	"github.com/iho/tripcost/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/tripcost/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/tripcost/internal/adapter/repository/redis"
	"github.com/iho/tripcost/internal/infrastructure/config"
	"github.com/iho/tripcost/internal/infrastructure/logger"
	"github.com/iho/tripcost/internal/infrastructure/metrics"
	"github.com/iho/tripcost/internal/infrastructure/postgres"
	"github.com/iho/tripcost/internal/infrastructure/redis"
	"github.com/iho/tripcost/internal/usecase"
)

const limiterIdleTimeout = time.Hour

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	zerolog.SetGlobalLevel(logger.ParseLevel(cfg.LogLevel))
	log.Logger = appLogger

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.Fatal().Err(err).Msg("server failed")
	}
}

func run(ctx context.Context, cfg *config.Config, appLogger zerolog.Logger) error {
	// Connect to PostgreSQL
	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()
	appLogger.Info().Msg("connected to postgres")

	if err := postgres.NewMigrator(cfg.MigrationsPath, cfg.DatabaseURL, appLogger).Up(); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, redis.Config{URL: cfg.RedisURL})
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()
	appLogger.Info().Msg("connected to redis")

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewWithRegisterer(registry)

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	travelerRepo := postgresRepo.NewTravelerRepository(pool)
	lineItemRepo := postgresRepo.NewLineItemRepository(pool)
	forecastRepo := postgresRepo.NewForecastRepository(pool)
	expenseRepo := postgresRepo.NewExpenseRepository(pool)
	splitRepo := postgresRepo.NewSplitRepository(pool)
	actualRepo := postgresRepo.NewActualRepository(pool)
	retrier := postgresRepo.NewRetrier(appLogger, m)
	idGen := postgresRepo.NewULIDGenerator()
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)

	// Exchange rates
	fxCfg := fx.DefaultConfig()
	fxCfg.BaseURL = cfg.FXAPIURL
	fxCfg.Timeout = cfg.FXTimeout
	fxCfg.MaxRetries = cfg.FXMaxRetries
	rateUC := usecase.NewExchangeRateUseCase(
		fx.NewClient(fxCfg, appLogger, m),
		redisRepo.NewCache(redisClient),
		usecase.ExchangeRateConfig{CacheTTL: cfg.FXCacheTTL, Concurrency: cfg.FXConcurrency},
		appLogger,
		m,
	)

	// Initialize use cases
	forecastUC := usecase.NewForecastUseCase(txManager, travelerRepo, lineItemRepo, forecastRepo, rateUC, retrier,
		cfg.DefaultBaseCurrency, appLogger, m)
	actualUC := usecase.NewActualUseCase(txManager, travelerRepo, expenseRepo, splitRepo, actualRepo, retrier, idGen, m)
	settlementUC := usecase.NewSettlementUseCase(travelerRepo, splitRepo, actualRepo, rateUC, cfg.DefaultBaseCurrency, appLogger, m)
	expenseUC := usecase.NewExpenseUseCase(txManager, travelerRepo, expenseRepo, splitRepo, retrier, idGen)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go cleanupLimiters(ctx, rateLimiter, limiterIdleTimeout)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		ForecastHandler:   handler.NewForecastHandler(forecastUC),
		ActualHandler:     handler.NewActualHandler(actualUC),
		SettlementHandler: handler.NewSettlementHandler(settlementUC),
		RateHandler:       handler.NewRateHandler(rateUC, cfg.DefaultBaseCurrency),
		ExpenseHandler:    handler.NewExpenseHandler(expenseUC),
		HealthHandler: handler.NewHealthHandler(
			handler.HealthCheck{Name: "postgres", Check: pool.Ping},
			handler.HealthCheck{Name: "redis", Check: func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			}},
		),
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		RateLimiter:      rateLimiter,
		Logger:           appLogger,
		Registry:         registry,
	})

	return serve(ctx, newHTTPServer(cfg, router), cfg.HTTPShutdownTimeout, appLogger)
}

func newHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      h,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}
}

// serve runs server until ctx is done, then shuts it down gracefully.
func serve(ctx context.Context, server *http.Server, shutdownTimeout time.Duration, appLogger zerolog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		appLogger.Info().Str("addr", server.Addr).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	appLogger.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	appLogger.Info().Msg("server stopped")
	return nil
}

func cleanupLimiters(ctx context.Context, rl *middleware.RateLimiter, idle time.Duration) {
	ticker := time.NewTicker(idle)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.CleanupLimiters(idle)
		}
	}
}
