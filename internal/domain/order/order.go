package order

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/styleco/storefront/internal/domain/shared"
)

// ErrInvalidPaymentMethod rejects anything but the supported payment methods
var ErrInvalidPaymentMethod = shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unsupported payment method")

// Item is a line of an order. Price, size and color are copied from the cart
// at placement and never follow later product edits.
type Item struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	ProductID uuid.UUID
	Quantity  int
	Price     decimal.Decimal
	Size      string
	Color     string
	CreatedAt time.Time
}

// Amount is price × quantity
func (i Item) Amount() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Line is the input for one order item
type Line struct {
	ProductID uuid.UUID
	Quantity  int
	Price     decimal.Decimal
	Size      string
	Color     string
}

// Order is the aggregate root for a placed order
type Order struct {
	shared.EventSource
	UserID          *uuid.UUID
	Status          Status
	PaymentStatus   PaymentStatus
	PaymentMethod   PaymentMethod
	TotalAmount     decimal.Decimal
	ShippingAddress Address
	BillingAddress  Address
	Items           []Item
}

// PlaceParams is everything needed to place an order
type PlaceParams struct {
	UserID        *uuid.UUID
	Address       Address
	PaymentMethod PaymentMethod
	Lines         []Line
}

// Place builds a pending order from validated checkout data.
// The delivery price is taken from the address.
func Place(p PlaceParams) (*Order, error) {
	if len(p.Lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_CART", "Your cart is empty")
	}
	if !p.PaymentMethod.IsValid() {
		return nil, ErrInvalidPaymentMethod
	}
	addr := p.Address.Normalize()
	if err := addr.Validate(); err != nil {
		return nil, err
	}

	o := &Order{
		EventSource:     shared.NewEventSource(),
		UserID:          p.UserID,
		Status:          StatusPending,
		PaymentStatus:   p.PaymentMethod.InitialPaymentStatus(),
		PaymentMethod:   p.PaymentMethod,
		ShippingAddress: addr,
		BillingAddress:  addr,
		Items:           make([]Item, 0, len(p.Lines)),
	}
	for _, l := range p.Lines {
		if l.Quantity < 1 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
		}
		if l.Price.IsNegative() {
			return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
		}
		o.Items = append(o.Items, Item{
			ID:        uuid.New(),
			OrderID:   o.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			Price:     l.Price,
			Size:      l.Size,
			Color:     l.Color,
			CreatedAt: o.CreatedAt,
		})
	}
	o.TotalAmount = o.Quote().Total

	o.Record(NewPlacedEvent(o))
	return o, nil
}

// Subtotal is Σ item price × quantity
func (o *Order) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range o.Items {
		sum = sum.Add(it.Amount())
	}
	return sum
}

// Quote recomputes the price breakdown from the items and delivery price
func (o *Order) Quote() Quote {
	return NewQuote(o.Subtotal(), o.ShippingAddress.DeliveryPrice)
}

// ItemCount is Σ quantity
func (o *Order) ItemCount() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

// ShortID is the first 8 characters of the id, as shown to buyers and admins
func (o *Order) ShortID() string {
	return ShortID(o.ID)
}

// ShortID formats an order id for display
func ShortID(id uuid.UUID) string {
	return id.String()[:8]
}

// UpdateStatus moves the order along its lifecycle. Delivering an order also
// marks it paid.
func (o *Order) UpdateStatus(target Status) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown order status: %s", target))
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot change order status from %s to %s", o.Status, target))
	}
	from := o.Status
	o.Status = target
	if target == StatusDelivered {
		o.PaymentStatus = PaymentPaid
	}
	o.Touch()
	o.Record(NewStatusChangedEvent(o, from))
	return nil
}

// IsOwnedBy reports whether the order belongs to userID
func (o *Order) IsOwnedBy(userID uuid.UUID) bool {
	return o.UserID != nil && *o.UserID == userID
}
