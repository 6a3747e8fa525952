package usecase

import (
	"context"
	"time"

	"github.com/iho/tripcost/internal/domain"
)

//go:generate mockgen -source=fx_interfaces.go -destination=mocks/mock_fx.go -package=mocks

// RateProvider quotes the rate converting one unit of from into to.
// Unresolvable pairs return an error wrapping domain.ErrRateUnavailable.
type RateProvider interface {
	FetchRate(ctx context.Context, from, to string) (domain.Rate, error)
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
