// Package notification tells the shop owner about new orders.
//
// Checkout only depends on OrderNotifier. Delivery is best effort: a failed
// notification is reported to the caller, who logs it and moves on.
package notification

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/styleco/storefront/internal/domain/order"
)

// OrderNotifier is told about every placed order
type OrderNotifier interface {
	NotifyOrderPlaced(ctx context.Context, summary OrderSummary) (*Receipt, error)
}

// Receipt confirms a delivered notification
type Receipt struct {
	// MessageID is the provider's id for the sent message, if any
	MessageID string `json:"message_id,omitempty"`
	Recipient string `json:"recipient,omitempty"`
}

// LineSummary is one ordered item with the product name resolved
type LineSummary struct {
	ProductName string
	Quantity    int
	Price       decimal.Decimal
	Size        string
	Color       string
}

// Amount is price × quantity
func (l LineSummary) Amount() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// OrderSummary is what a notification says about an order
type OrderSummary struct {
	OrderID       string
	CustomerEmail string
	PlacedAt      time.Time
	PaymentMethod order.PaymentMethod
	Address       order.Address
	Quote         order.Quote
	Items         []LineSummary
}

// ShortID is the first 8 characters of the order id
func (s OrderSummary) ShortID() string {
	if len(s.OrderID) <= 8 {
		return s.OrderID
	}
	return s.OrderID[:8]
}

// SummaryFromOrder builds a summary; names maps product ids to display names
func SummaryFromOrder(o *order.Order, customerEmail string, names map[string]string) OrderSummary {
	items := make([]LineSummary, len(o.Items))
	for i, it := range o.Items {
		name := names[it.ProductID.String()]
		if name == "" {
			name = "Product"
		}
		items[i] = LineSummary{
			ProductName: name,
			Quantity:    it.Quantity,
			Price:       it.Price,
			Size:        it.Size,
			Color:       it.Color,
		}
	}
	return OrderSummary{
		OrderID:       o.ID.String(),
		CustomerEmail: customerEmail,
		PlacedAt:      o.CreatedAt,
		PaymentMethod: o.PaymentMethod,
		Address:       o.ShippingAddress,
		Quote:         o.Quote(),
		Items:         items,
	}
}

// TestSummary is the canned order sent by the admin "send test email" action
func TestSummary(now time.Time) OrderSummary {
	addr := order.Address{
		FullName:      "Test Customer",
		Phone:         "01234567890",
		Address:       "123 Test Street",
		City:          "Cairo",
		Governorate:   "Cairo",
		Country:       order.DefaultCountry,
		DeliveryPrice: decimal.NewFromInt(25),
	}
	items := []LineSummary{
		{ProductName: "Test T-Shirt", Quantity: 2, Price: decimal.RequireFromString("99.99"), Size: "M", Color: "Blue"},
		{ProductName: "Test Jeans", Quantity: 1, Price: decimal.RequireFromString("149.99"), Size: "L", Color: "Black"},
	}
	return OrderSummary{
		OrderID:       "test-order-123",
		CustomerEmail: "customer@test.com",
		PlacedAt:      now,
		PaymentMethod: order.PaymentCashOnDelivery,
		Address:       addr,
		Quote: order.Quote{
			Subtotal:      decimal.RequireFromString("349.97"),
			DeliveryPrice: addr.DeliveryPrice,
			Tax:           decimal.Zero,
			Total:         decimal.RequireFromString("299.99"),
		},
		Items: items,
	}
}
