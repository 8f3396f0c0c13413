package shared

import (
	"context"
	"strings"
	"time"
)

// IdempotencyStore holds claims on request keys, such as the Idempotency-Key
// a storefront sends with each checkout attempt. A claim expires after its
// TTL so an abandoned key can eventually be reused.
type IdempotencyStore interface {
	// Claim takes key for ttl and reports whether this call took it.
	// false means an earlier, unexpired claim exists.
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Claimed reports whether key is currently held
	Claimed(ctx context.Context, key string) (bool, error)

	// Release drops the claim so a failed checkout can be retried
	Release(ctx context.Context, key string) error

	Close() error
}

// DefaultIdempotencyTTL bounds how long a checkout key is remembered
const DefaultIdempotencyTTL = 24 * time.Hour

// SubmissionKey scopes a client key to the cart owner so two shoppers
// sending the same key never collide.
func SubmissionKey(owner, key string) string {
	return owner + ":" + strings.TrimSpace(key)
}
