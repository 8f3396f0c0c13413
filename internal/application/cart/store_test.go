package cart

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/styleco/storefront/internal/domain/cart"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// memoryStorage is a Storage that can be told to fail
type memoryStorage struct {
	mu      sync.Mutex
	data    map[string][]byte
	saveErr error
	loadErr error
	saves   int
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{data: make(map[string][]byte)}
}

func (m *memoryStorage) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.data[key], nil
}

func (m *memoryStorage) Save(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.data[key] = append([]byte(nil), data...)
	m.saves++
	return nil
}

func testProduct(price string) cart.Product {
	return cart.Product{
		ID:    uuid.New(),
		Name:  "Linen Shirt",
		Slug:  "linen-shirt",
		Price: decimal.RequireFromString(price),
		Sizes: []string{"M", "L"},
	}
}

func TestOwnerKey(t *testing.T) {
	assert.Equal(t, "cart", OwnerKey(""))
	assert.Equal(t, "cart:guest-1", OwnerKey("guest-1"))
}

func TestNewStore(t *testing.T) {
	ctx := context.Background()

	t.Run("empty storage gives empty cart", func(t *testing.T) {
		store, err := NewStore(ctx, newMemoryStorage(), StorageKey, nil)
		require.NoError(t, err)
		assert.True(t, store.State().IsEmpty())
		assert.True(t, store.State().Total.IsZero())
	})

	t.Run("seeds state from persisted items", func(t *testing.T) {
		p := testProduct("100")
		storage := newMemoryStorage()
		data, err := json.Marshal([]cart.Item{
			{Product: p, Quantity: 2, Size: "M"},
			{Product: p, Quantity: 1, Size: "L"},
		})
		require.NoError(t, err)
		storage.data[StorageKey] = data

		store, err := NewStore(ctx, storage, StorageKey, nil)
		require.NoError(t, err)
		state := store.State()
		assert.Len(t, state.Items, 2)
		assert.Equal(t, 3, state.ItemCount)
		assert.True(t, decimal.NewFromInt(300).Equal(state.Total))
	})

	t.Run("malformed data is logged and discarded", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)
		storage := newMemoryStorage()
		storage.data[StorageKey] = []byte(`{"items": not json`)

		store, err := NewStore(ctx, storage, StorageKey, zap.New(core))
		require.NoError(t, err)
		assert.True(t, store.State().IsEmpty())
		assert.Equal(t, 1, logs.FilterMessage("Discarding unreadable cart").Len())
	})

	t.Run("storage failure is returned", func(t *testing.T) {
		storage := newMemoryStorage()
		storage.loadErr = errors.New("connection refused")

		_, err := NewStore(ctx, storage, StorageKey, nil)
		assert.Error(t, err)
	})
}

func TestStore_Dispatch(t *testing.T) {
	ctx := context.Background()
	p := testProduct("100")

	t.Run("every change is persisted", func(t *testing.T) {
		storage := newMemoryStorage()
		store, err := NewStore(ctx, storage, StorageKey, nil)
		require.NoError(t, err)

		_, err = store.AddItem(ctx, p, 2, "M", "")
		require.NoError(t, err)
		_, err = store.AddItem(ctx, p, 1, "L", "")
		require.NoError(t, err)
		state, err := store.UpdateQuantity(ctx, p.ID, 5, "M", "")
		require.NoError(t, err)
		assert.Equal(t, 6, state.ItemCount)
		assert.Equal(t, 3, storage.saves)

		reloaded, err := NewStore(ctx, storage, StorageKey, nil)
		require.NoError(t, err)
		assert.Equal(t, state.Items, reloaded.State().Items)
		assert.True(t, state.Total.Equal(reloaded.State().Total))
	})

	t.Run("update to zero removes and repeating is a no-op", func(t *testing.T) {
		store, err := NewStore(ctx, newMemoryStorage(), StorageKey, nil)
		require.NoError(t, err)
		_, err = store.AddItem(ctx, p, 1, "M", "")
		require.NoError(t, err)

		state, err := store.UpdateQuantity(ctx, p.ID, 0, "M", "")
		require.NoError(t, err)
		assert.True(t, state.IsEmpty())

		again, err := store.UpdateQuantity(ctx, p.ID, 0, "M", "")
		require.NoError(t, err)
		assert.Equal(t, state, again)
	})

	t.Run("clear resets to empty", func(t *testing.T) {
		store, err := NewStore(ctx, newMemoryStorage(), StorageKey, nil)
		require.NoError(t, err)
		_, err = store.AddItem(ctx, p, 3, "L", "")
		require.NoError(t, err)

		state, err := store.Clear(ctx)
		require.NoError(t, err)
		assert.Empty(t, state.Items)
		assert.True(t, state.Total.IsZero())
		assert.Zero(t, state.ItemCount)
	})

	t.Run("failed save keeps previous state", func(t *testing.T) {
		storage := newMemoryStorage()
		store, err := NewStore(ctx, storage, StorageKey, nil)
		require.NoError(t, err)
		before, err := store.AddItem(ctx, p, 1, "M", "")
		require.NoError(t, err)

		storage.saveErr = errors.New("disk full")
		_, err = store.RemoveItem(ctx, p.ID, "M", "")
		require.Error(t, err)
		assert.Equal(t, before, store.State())
	})
}

func TestKeyedMutex(t *testing.T) {
	k := keyedMutex{locks: make(map[string]*refLock)}
	var wg sync.WaitGroup
	counter := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := k.Lock("owner")
			counter++
			unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, counter)
	assert.Empty(t, k.locks)
}
