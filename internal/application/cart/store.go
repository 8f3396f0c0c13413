package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/styleco/storefront/internal/domain/cart"
	"go.uber.org/zap"
)

// StorageKey is the key a cart is persisted under
const StorageKey = "cart"

// OwnerKey scopes StorageKey to a user id or guest cart id
func OwnerKey(owner string) string {
	if owner == "" {
		return StorageKey
	}
	return StorageKey + ":" + owner
}

// Storage persists serialized carts
type Storage interface {
	// Load returns nil, nil when nothing is stored under key
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
}

// Store owns one cart. Every change goes through cart.Reduce and is written to
// storage before it becomes visible.
type Store struct {
	mu      sync.Mutex
	key     string
	storage Storage
	state   cart.State
	logger  *zap.Logger
}

// NewStore loads the cart stored under key. Unreadable data is logged and
// replaced by an empty cart; only storage failures are returned.
func NewStore(ctx context.Context, storage Storage, key string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		key:     key,
		storage: storage,
		state:   cart.Empty(),
		logger:  logger,
	}

	data, err := storage.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return s, nil
	}

	var items []cart.Item
	if err := json.Unmarshal(data, &items); err != nil {
		logger.Warn("Discarding unreadable cart",
			zap.String("key", key),
			zap.Int("bytes", len(data)),
			zap.Error(err),
		)
		return s, nil
	}
	s.state = cart.Reduce(s.state, cart.Load{Items: items})
	return s, nil
}

// State returns the current cart
func (s *Store) State() cart.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Key returns the storage key
func (s *Store) Key() string {
	return s.key
}

// Dispatch applies a and persists the result. When saving fails the error is
// returned and the previous state is kept.
func (s *Store) Dispatch(ctx context.Context, a cart.Action) (cart.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := cart.Reduce(s.state, a)
	data, err := json.Marshal(next.Items)
	if err != nil {
		return s.state, fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := s.storage.Save(ctx, s.key, data); err != nil {
		s.logger.Error("Failed to persist cart",
			zap.String("key", s.key),
			zap.String("action", cart.Name(a)),
			zap.Error(err),
		)
		return s.state, err
	}
	s.state = next
	return s.state, nil
}

// AddItem merges quantity into the matching line or appends a new one
func (s *Store) AddItem(ctx context.Context, p cart.Product, quantity int, size, color string) (cart.State, error) {
	return s.Dispatch(ctx, cart.AddItem{Product: p, Quantity: quantity, Size: size, Color: color})
}

// RemoveItem drops every line for the product/size/color
func (s *Store) RemoveItem(ctx context.Context, productID uuid.UUID, size, color string) (cart.State, error) {
	return s.Dispatch(ctx, cart.RemoveItem{ProductID: productID, Size: size, Color: color})
}

// UpdateQuantity sets the line quantity; quantity <= 0 removes the line
func (s *Store) UpdateQuantity(ctx context.Context, productID uuid.UUID, quantity int, size, color string) (cart.State, error) {
	return s.Dispatch(ctx, cart.UpdateQuantity{ProductID: productID, Quantity: quantity, Size: size, Color: color})
}

// Clear empties the cart
func (s *Store) Clear(ctx context.Context) (cart.State, error) {
	return s.Dispatch(ctx, cart.Clear{})
}
