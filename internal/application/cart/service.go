package cart

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/styleco/storefront/internal/domain/cart"
	"github.com/styleco/storefront/internal/domain/catalog"
	"github.com/styleco/storefront/internal/domain/shared"
	"go.uber.org/zap"
)

// UserOwner is the cart owner key of a signed-in buyer
func UserOwner(id uuid.UUID) string {
	return "user:" + id.String()
}

// GuestOwner is the cart owner key of a guest cart id
func GuestOwner(id uuid.UUID) string {
	return "guest:" + id.String()
}

var ErrMissingOwner = shared.NewDomainError("MISSING_CART", "No cart is associated with this request")

// Service serves carts by owner (a user id or a guest cart id). Operations on
// the same owner are serialized so a load-modify-save cycle never interleaves.
type Service struct {
	storage  Storage
	products catalog.ProductRepository
	logger   *zap.Logger
	locks    keyedMutex
}

// NewService creates a new cart Service
func NewService(storage Storage, products catalog.ProductRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		storage:  storage,
		products: products,
		logger:   logger,
		locks:    keyedMutex{locks: make(map[string]*refLock)},
	}
}

// WithCart runs fn with exclusive access to the owner's cart
func (s *Service) WithCart(ctx context.Context, owner string, fn func(ctx context.Context, store *Store) error) error {
	if owner == "" {
		return ErrMissingOwner
	}
	unlock := s.locks.Lock(owner)
	defer unlock()

	store, err := NewStore(ctx, s.storage, OwnerKey(owner), s.logger.With(zap.String("cart_owner", owner)))
	if err != nil {
		return err
	}
	return fn(ctx, store)
}

// Get returns the owner's cart
func (s *Service) Get(ctx context.Context, owner string) (*Response, error) {
	var state cart.State
	err := s.WithCart(ctx, owner, func(_ context.Context, store *Store) error {
		state = store.State()
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := ToResponse(state)
	return &resp, nil
}

// AddItem resolves the product from the catalog and adds it to the cart
func (s *Service) AddItem(ctx context.Context, owner string, req AddItemRequest) (*Response, error) {
	if req.Quantity < 1 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	product, err := s.products.FindByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
		}
		return nil, err
	}
	if err := checkPurchasable(product, req.Size, req.Color); err != nil {
		return nil, err
	}

	return s.dispatch(ctx, owner, cart.AddItem{
		Product:  cart.ProductFrom(product),
		Quantity: req.Quantity,
		Size:     req.Size,
		Color:    req.Color,
	})
}

// UpdateQuantity sets a line quantity; 0 removes the line
func (s *Service) UpdateQuantity(ctx context.Context, owner string, req UpdateItemRequest) (*Response, error) {
	return s.dispatch(ctx, owner, cart.UpdateQuantity{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Size:      req.Size,
		Color:     req.Color,
	})
}

// RemoveItem drops a line
func (s *Service) RemoveItem(ctx context.Context, owner string, req RemoveItemRequest) (*Response, error) {
	return s.dispatch(ctx, owner, cart.RemoveItem{
		ProductID: req.ProductID,
		Size:      req.Size,
		Color:     req.Color,
	})
}

// Clear empties the cart
func (s *Service) Clear(ctx context.Context, owner string) (*Response, error) {
	return s.dispatch(ctx, owner, cart.Clear{})
}

// Merge moves the lines of the guest cart into the user's cart and empties the
// guest cart. Quantities of matching lines are added together.
func (s *Service) Merge(ctx context.Context, guestOwner, userOwner string) (*Response, error) {
	if guestOwner == "" || guestOwner == userOwner {
		return s.Get(ctx, userOwner)
	}

	// the guest cart stays locked until it is emptied, so a line added to it
	// mid-merge is neither lost nor merged twice. Lock order is guest, then user.
	var merged cart.State
	err := s.WithCart(ctx, guestOwner, func(ctx context.Context, guestStore *Store) error {
		guest := guestStore.State()
		err := s.WithCart(ctx, userOwner, func(ctx context.Context, store *Store) error {
			state := store.State()
			if guest.IsEmpty() {
				merged = state
				return nil
			}
			for _, it := range guest.Items {
				state = cart.Reduce(state, cart.AddItem{Product: it.Product, Quantity: it.Quantity, Size: it.Size, Color: it.Color})
			}
			var err error
			merged, err = store.Dispatch(ctx, cart.Load{Items: state.Items})
			return err
		})
		if err != nil || guest.IsEmpty() {
			return err
		}
		if _, err := guestStore.Clear(ctx); err != nil {
			s.logger.Warn("Failed to clear guest cart after merge", zap.String("guest", guestOwner), zap.Error(err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := ToResponse(merged)
	return &resp, nil
}

func (s *Service) dispatch(ctx context.Context, owner string, a cart.Action) (*Response, error) {
	var state cart.State
	err := s.WithCart(ctx, owner, func(ctx context.Context, store *Store) error {
		var err error
		state, err = store.Dispatch(ctx, a)
		return err
	})
	if err != nil {
		return nil, err
	}
	resp := ToResponse(state)
	return &resp, nil
}

func checkPurchasable(p *catalog.Product, size, color string) error {
	if !p.IsActive {
		return shared.NewDomainError("PRODUCT_UNAVAILABLE", "Product is not available")
	}
	if !p.InStock() {
		return shared.NewDomainError("OUT_OF_STOCK", "Product is out of stock")
	}
	if len(p.Sizes) > 0 && size == "" {
		return shared.NewDomainError("SIZE_REQUIRED", "Please select a size")
	}
	if len(p.Colors) > 0 && color == "" {
		return shared.NewDomainError("COLOR_REQUIRED", "Please select a color")
	}
	if !p.OffersSize(size) {
		return shared.NewDomainError("INVALID_SIZE", "Selected size is not available")
	}
	if !p.OffersColor(color) {
		return shared.NewDomainError("INVALID_COLOR", "Selected color is not available")
	}
	return nil
}

// keyedMutex hands out one mutex per key and forgets it once unused
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refLock
}

type refLock struct {
	sync.Mutex
	refs int
}

func (k *keyedMutex) Lock(key string) (unlock func()) {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &refLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
