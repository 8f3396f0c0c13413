package auth

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Revocations rejects access tokens before they expire. Logout revokes one
// token; an admin flag change revokes everything a user holds.
type Revocations interface {
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
	// RevokeUser rejects every token of userID issued up to now
	RevokeUser(ctx context.Context, userID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti, userID string, issuedAt time.Time) (bool, error)
}

// RedisRevocations shares revocations between instances
type RedisRevocations struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisRevocations(client redis.UniversalClient) *RedisRevocations {
	return &RedisRevocations{client: client, prefix: "styleco:revoked:"}
}

func (r *RedisRevocations) RevokeToken(ctx context.Context, jti string, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.prefix+"jti:"+jti, 1, ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (r *RedisRevocations) RevokeUser(ctx context.Context, userID string, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.prefix+"user:"+userID, time.Now().Unix(), ttl).Err(); err != nil {
		return fmt.Errorf("revoke tokens of %s: %w", userID, err)
	}
	return nil
}

// IsRevoked reads both markers in one round trip
func (r *RedisRevocations) IsRevoked(ctx context.Context, jti, userID string, issuedAt time.Time) (bool, error) {
	vals, err := r.client.MGet(ctx, r.prefix+"jti:"+jti, r.prefix+"user:"+userID).Result()
	if err != nil {
		return false, fmt.Errorf("check revocation: %w", err)
	}
	if vals[0] != nil {
		return true, nil
	}
	raw, ok := vals[1].(string)
	if !ok {
		return false, nil
	}
	since, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false, fmt.Errorf("check revocation: bad user marker %q", raw)
	}
	return issuedAt.Unix() <= since, nil
}

// MemoryRevocations serves a single instance running without Redis
type MemoryRevocations struct {
	mu     sync.Mutex
	tokens map[string]time.Time // expiry
	users  map[string]int64     // revoked up to, unix seconds
}

func NewMemoryRevocations() *MemoryRevocations {
	return &MemoryRevocations{
		tokens: make(map[string]time.Time),
		users:  make(map[string]int64),
	}
}

func (m *MemoryRevocations) RevokeToken(_ context.Context, jti string, ttl time.Duration) error {
	m.mu.Lock()
	m.tokens[jti] = time.Now().Add(ttl)
	m.mu.Unlock()
	return nil
}

func (m *MemoryRevocations) RevokeUser(_ context.Context, userID string, _ time.Duration) error {
	m.mu.Lock()
	m.users[userID] = time.Now().Unix()
	m.mu.Unlock()
	return nil
}

func (m *MemoryRevocations) IsRevoked(_ context.Context, jti, userID string, issuedAt time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if expiry, ok := m.tokens[jti]; ok {
		if time.Now().Before(expiry) {
			return true, nil
		}
		delete(m.tokens, jti)
	}
	since, ok := m.users[userID]
	return ok && issuedAt.Unix() <= since, nil
}

var (
	_ Revocations = (*RedisRevocations)(nil)
	_ Revocations = (*MemoryRevocations)(nil)
)
