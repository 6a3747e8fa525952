package usecase

import "time"

const (
	// DefaultTransactionTimeout bounds a single write transaction.
	DefaultTransactionTimeout = 10 * time.Second

	// DefaultRateCacheTTL is how long a resolved exchange rate is reused.
	DefaultRateCacheTTL = time.Hour

	// DefaultRateConcurrency caps parallel quote lookups per snapshot.
	DefaultRateConcurrency = 4

	// DefaultBaseCurrency is used when a trip has no primary traveler currency.
	DefaultBaseCurrency = "USD"

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour
)
