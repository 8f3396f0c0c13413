package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	cartapp "github.com/styleco/storefront/internal/application/cart"
	"github.com/styleco/storefront/internal/domain/shared"
	"github.com/styleco/storefront/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Stores bundles the cart storage and the checkout idempotency store
type Stores struct {
	Carts       cartapp.Storage
	Idempotency shared.IdempotencyStore
	// Redis is nil when the in-memory fallback is in use
	Redis *redis.Client
}

// Close releases the idempotency store and the Redis connection
func (s *Stores) Close() error {
	if err := s.Idempotency.Close(); err != nil {
		return err
	}
	if s.Redis != nil {
		return s.Redis.Close()
	}
	return nil
}

// FactoryOption configures NewStores
type FactoryOption func(*factory)

type factory struct {
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// WithLogger sets the logger used to report the chosen backend
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis falls back to
// process memory instead of failing. Default is true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *factory) {
		f.allowInMemoryFallback = allow
	}
}

// NewStores builds Redis-backed stores when Redis is enabled and reachable,
// and in-memory stores otherwise.
func NewStores(ctx context.Context, redisCfg config.RedisConfig, cartCfg config.CartConfig, opts ...FactoryOption) (*Stores, error) {
	f := &factory{logger: zap.NewNop(), allowInMemoryFallback: true}
	for _, opt := range opts {
		opt(f)
	}

	if redisCfg.Enabled {
		client, err := NewRedisClient(ctx, redisCfg)
		if err == nil {
			f.logger.Info("using Redis for carts and idempotency keys", zap.String("addr", redisCfg.Addr()))
			return &Stores{
				Carts:       NewRedisCartStorage(client, "", cartCfg.TTL),
				Idempotency: NewRedisIdempotencyStore(client, ""),
				Redis:       client,
			}, nil
		}
		if !f.allowInMemoryFallback {
			return nil, fmt.Errorf("redis required but unavailable: %w", err)
		}
		f.logger.Warn("Redis unavailable, carts and idempotency keys are kept in memory and are not shared between instances",
			zap.Error(err),
		)
	}

	return &Stores{
		Carts:       NewMemoryCartStorage(),
		Idempotency: NewInMemoryIdempotencyStore(0),
	}, nil
}
