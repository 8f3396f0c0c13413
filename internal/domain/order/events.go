package order

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/styleco/storefront/internal/domain/shared"
)

// AggregateType is the aggregate name carried on order events
const AggregateType = "Order"

const (
	EventTypePlaced        = "order.placed"
	EventTypeStatusChanged = "order.status_changed"
)

// PlacedEvent is raised once when checkout persists an order
type PlacedEvent struct {
	shared.BaseDomainEvent
	OrderID       uuid.UUID       `json:"order_id"`
	ShortID       string          `json:"short_id"`
	CustomerName  string          `json:"customer_name"`
	Governorate   string          `json:"governorate"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	ItemCount     int             `json:"item_count"`
}

// NewPlacedEvent creates a PlacedEvent
func NewPlacedEvent(o *Order) *PlacedEvent {
	return &PlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePlaced, AggregateType, o.ID),
		OrderID:         o.ID,
		ShortID:         o.ShortID(),
		CustomerName:    o.ShippingAddress.FullName,
		Governorate:     o.ShippingAddress.Governorate,
		PaymentMethod:   o.PaymentMethod,
		TotalAmount:     o.TotalAmount,
		ItemCount:       o.ItemCount(),
	}
}

// StatusChangedEvent is raised on every admin status transition
type StatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderID       uuid.UUID       `json:"order_id"`
	From          Status          `json:"from"`
	To            Status          `json:"to"`
	PaymentStatus PaymentStatus   `json:"payment_status"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// NewStatusChangedEvent creates a StatusChangedEvent
func NewStatusChangedEvent(o *Order, from Status) *StatusChangedEvent {
	return &StatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStatusChanged, AggregateType, o.ID),
		OrderID:         o.ID,
		From:            from,
		To:              o.Status,
		PaymentStatus:   o.PaymentStatus,
		TotalAmount:     o.TotalAmount,
	}
}
