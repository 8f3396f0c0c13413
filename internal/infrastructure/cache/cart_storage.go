package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	cartapp "github.com/styleco/storefront/internal/application/cart"
)

const defaultCartPrefix = "storefront:"

// RedisCartStorage keeps serialized carts in Redis, refreshing the TTL on every save
type RedisCartStorage struct {
	client    redis.UniversalClient
	keyPrefix string
	ttl       time.Duration
}

// NewRedisCartStorage creates cart storage on an existing client. A zero ttl keeps carts forever.
func NewRedisCartStorage(client redis.UniversalClient, keyPrefix string, ttl time.Duration) *RedisCartStorage {
	if keyPrefix == "" {
		keyPrefix = defaultCartPrefix
	}
	return &RedisCartStorage{client: client, keyPrefix: keyPrefix, ttl: ttl}
}

// Load returns the stored bytes, or nil when nothing is stored under key
func (s *RedisCartStorage) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return data, nil
}

// Save stores data under key
func (s *RedisCartStorage) Save(ctx context.Context, key string, data []byte) error {
	if err := s.client.Set(ctx, s.keyPrefix+key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

var _ cartapp.Storage = (*RedisCartStorage)(nil)

// MemoryCartStorage keeps carts in process memory
type MemoryCartStorage struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryCartStorage creates an empty in-memory cart storage
func NewMemoryCartStorage() *MemoryCartStorage {
	return &MemoryCartStorage{data: make(map[string][]byte)}
}

// Load returns a copy of the stored bytes, or nil when nothing is stored
func (s *MemoryCartStorage) Load(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

// Save stores a copy of data under key
func (s *MemoryCartStorage) Save(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	s.data[key] = append([]byte(nil), data...)
	s.mu.Unlock()
	return nil
}

var _ cartapp.Storage = (*MemoryCartStorage)(nil)
