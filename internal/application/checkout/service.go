// Package checkout turns a cart into an order.
package checkout

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	cartapp "github.com/styleco/storefront/internal/application/cart"
	"github.com/styleco/storefront/internal/application/notification"
	"github.com/styleco/storefront/internal/domain/cart"
	"github.com/styleco/storefront/internal/domain/delivery"
	"github.com/styleco/storefront/internal/domain/order"
	"github.com/styleco/storefront/internal/domain/shared"
	"go.uber.org/zap"
)

const defaultNotifyTimeout = 15 * time.Second

var (
	// ErrPlacementFailed hides persistence details from the buyer
	ErrPlacementFailed = shared.NewDomainError("ORDER_PLACEMENT_FAILED", "Failed to place order. Please try again.")
	// ErrDuplicateSubmission is returned when an Idempotency-Key is reused
	ErrDuplicateSubmission = shared.NewDomainError("DUPLICATE_SUBMISSION", "This order has already been submitted")
	ErrEmptyCart           = shared.NewDomainError("EMPTY_CART", "Your cart is empty")
)

// Service places orders from carts
type Service struct {
	carts          *cartapp.Service
	orders         order.Repository
	prices         delivery.Repository
	notifier       notification.OrderNotifier
	events         shared.EventPublisher
	idempotency    shared.IdempotencyStore
	idempotencyTTL time.Duration
	notifyTimeout  time.Duration
	logger         *zap.Logger
}

// Option configures optional collaborators
type Option func(*Service)

// WithNotifier sets the order notifier
func WithNotifier(n notification.OrderNotifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithEventPublisher publishes order events after placement
func WithEventPublisher(p shared.EventPublisher) Option {
	return func(s *Service) { s.events = p }
}

// WithIdempotencyStore enables Idempotency-Key handling
func WithIdempotencyStore(store shared.IdempotencyStore, ttl time.Duration) Option {
	return func(s *Service) {
		s.idempotency = store
		if ttl > 0 {
			s.idempotencyTTL = ttl
		}
	}
}

// WithNotifyTimeout bounds how long checkout waits for the notifier
func WithNotifyTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.notifyTimeout = d
		}
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService creates a new checkout Service
func NewService(carts *cartapp.Service, orders order.Repository, prices delivery.Repository, opts ...Option) *Service {
	s := &Service{
		carts:          carts,
		orders:         orders,
		prices:         prices,
		idempotencyTTL: shared.DefaultIdempotencyTTL,
		notifyTimeout:  defaultNotifyTimeout,
		logger:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Quote prices the owner's cart for a governorate
func (s *Service) Quote(ctx context.Context, owner, governorate string) (*QuoteResponse, error) {
	resp, err := s.carts.Get(ctx, owner)
	if err != nil {
		return nil, err
	}
	deliveryPrice, resolved := s.deliveryPrice(ctx, strings.TrimSpace(governorate))
	q := order.NewQuote(resp.Total, deliveryPrice)
	return &QuoteResponse{
		Governorate:      strings.TrimSpace(governorate),
		DeliveryResolved: resolved,
		ItemCount:        resp.ItemCount,
		Subtotal:         q.Subtotal,
		DeliveryPrice:    q.DeliveryPrice,
		Tax:              q.Tax,
		Total:            q.Total,
	}, nil
}

// Submit places an order for the owner's cart.
//
// The shipping form is validated before anything is read or written. The
// order and its items are stored together; if that fails the buyer gets
// ErrPlacementFailed and the cart is left as it was. The notifier runs after
// the order exists and its failure is only logged. The cart is cleared last.
func (s *Service) Submit(ctx context.Context, sub Submission) (*Confirmation, error) {
	addr := sub.Request.address()
	if err := addr.Validate(); err != nil {
		return nil, err
	}
	method := sub.Request.paymentMethod()
	if !method.IsValid() {
		return nil, order.ErrInvalidPaymentMethod.OnField("payment_method")
	}

	log := s.logger.With(zap.String("cart_owner", sub.Owner))
	var confirmation *Confirmation

	err := s.carts.WithCart(ctx, sub.Owner, func(ctx context.Context, store *cartapp.Store) error {
		state := store.State()
		if state.IsEmpty() {
			return ErrEmptyCart
		}

		release, err := s.claim(ctx, sub)
		if err != nil {
			return err
		}

		price, resolved := s.deliveryPrice(ctx, addr.Governorate)
		if !resolved {
			log.Warn("No active delivery price for governorate, charging 0", zap.String("governorate", addr.Governorate))
		}
		addr.DeliveryPrice = price

		o, err := order.Place(order.PlaceParams{
			UserID:        sub.UserID,
			Address:       addr,
			PaymentMethod: method,
			Lines:         linesFrom(state),
		})
		if err != nil {
			release()
			return err
		}

		if err := s.orders.Create(ctx, o); err != nil {
			release()
			log.Error("Failed to store order",
				zap.String("order_id", o.ID.String()),
				zap.String("total", o.TotalAmount.StringFixed(2)),
				zap.Error(err),
			)
			return ErrPlacementFailed
		}
		log = log.With(zap.String("order_id", o.ID.String()))
		log.Info("Order placed",
			zap.String("total", o.TotalAmount.StringFixed(2)),
			zap.Int("items", len(o.Items)),
			zap.String("payment_method", string(o.PaymentMethod)),
		)

		notified := s.notify(ctx, log, notification.SummaryFromOrder(o, strings.TrimSpace(sub.Request.Email), productNames(state)))
		s.publish(ctx, log, o)

		if _, err := store.Clear(ctx); err != nil {
			log.Error("Order placed but cart could not be cleared", zap.Error(err))
		}
		confirmation = toConfirmation(o, notified)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return confirmation, nil
}

// claim marks the idempotency key and returns a func that frees it again
func (s *Service) claim(ctx context.Context, sub Submission) (func(), error) {
	noop := func() {}
	if s.idempotency == nil || sub.IdempotencyKey == "" {
		return noop, nil
	}
	key := shared.SubmissionKey(sub.Owner, sub.IdempotencyKey)
	fresh, err := s.idempotency.Claim(ctx, key, s.idempotencyTTL)
	if err != nil {
		// an unavailable store must not block checkout
		s.logger.Warn("Idempotency store unavailable", zap.Error(err))
		return noop, nil
	}
	if !fresh {
		return nil, ErrDuplicateSubmission
	}
	return func() {
		if err := s.idempotency.Release(context.WithoutCancel(ctx), key); err != nil {
			s.logger.Warn("Failed to release idempotency key", zap.String("key", key), zap.Error(err))
		}
	}, nil
}

// deliveryPrice looks up the active price for governorate; unresolved is 0
func (s *Service) deliveryPrice(ctx context.Context, governorate string) (decimal.Decimal, bool) {
	if governorate == "" || s.prices == nil {
		return decimal.Zero, false
	}
	p, err := s.prices.FindActiveByGovernorate(ctx, governorate)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Delivery price lookup failed", zap.String("governorate", governorate), zap.Error(err))
		}
		return decimal.Zero, false
	}
	return p.DeliveryPrice, true
}

func (s *Service) notify(ctx context.Context, log *zap.Logger, summary notification.OrderSummary) bool {
	if s.notifier == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.notifyTimeout)
	defer cancel()

	receipt, err := s.notifier.NotifyOrderPlaced(ctx, summary)
	if err != nil {
		log.Warn("Order notification failed", zap.Error(err))
		return false
	}
	if receipt != nil && receipt.MessageID != "" {
		log.Debug("Order notification sent", zap.String("message_id", receipt.MessageID))
	}
	return true
}

func (s *Service) publish(ctx context.Context, log *zap.Logger, o *order.Order) {
	events := o.TakeEvents()
	if s.events == nil || len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		log.Warn("Failed to publish order events", zap.Error(err))
	}
}

func linesFrom(state cart.State) []order.Line {
	lines := make([]order.Line, len(state.Items))
	for i, it := range state.Items {
		lines[i] = order.Line{
			ProductID: it.Product.ID,
			Quantity:  it.Quantity,
			Price:     it.Product.Price,
			Size:      it.Size,
			Color:     it.Color,
		}
	}
	return lines
}

func productNames(state cart.State) map[string]string {
	names := make(map[string]string, len(state.Items))
	for _, it := range state.Items {
		names[it.Product.ID.String()] = it.Product.Name
	}
	return names
}
