package checkout

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/styleco/storefront/internal/domain/order"
)

// SubmitRequest is the shipping form posted at checkout.
// Phone rules are checked after non-digits are stripped, so they are not binding tags.
type SubmitRequest struct {
	FullName         string `json:"full_name" binding:"max=200"`
	Email            string `json:"email" binding:"omitempty,email,max=200"`
	Phone            string `json:"phone" binding:"max=40"`
	AlternativePhone string `json:"alternative_phone" binding:"max=40"`
	Address          string `json:"address" binding:"max=500"`
	City             string `json:"city" binding:"max=100"`
	Governorate      string `json:"governorate" binding:"max=100"`
	ZipCode          string `json:"zip_code" binding:"max=20"`
	Country          string `json:"country" binding:"max=100"`
	PaymentMethod    string `json:"payment_method" binding:"omitempty,oneof=cash_on_delivery credit_card"`
}

// Submission carries a SubmitRequest with the caller's identity
type Submission struct {
	// Owner is the cart owner key (user id or guest cart id)
	Owner string
	// UserID is set for signed-in buyers
	UserID *uuid.UUID
	// IdempotencyKey deduplicates retried submissions when non-empty
	IdempotencyKey string
	Request        SubmitRequest
}

func (r SubmitRequest) address() order.Address {
	return order.Address{
		FullName:         r.FullName,
		Phone:            r.Phone,
		AlternativePhone: r.AlternativePhone,
		Address:          r.Address,
		City:             r.City,
		Governorate:      r.Governorate,
		ZipCode:          r.ZipCode,
		Country:          r.Country,
	}.Normalize()
}

func (r SubmitRequest) paymentMethod() order.PaymentMethod {
	if r.PaymentMethod == "" {
		return order.PaymentCashOnDelivery
	}
	return order.PaymentMethod(r.PaymentMethod)
}

// QuoteResponse is the price breakdown for the current cart
type QuoteResponse struct {
	Governorate string `json:"governorate,omitempty"`
	// DeliveryResolved is false when no active price exists for the governorate
	DeliveryResolved bool            `json:"delivery_resolved"`
	ItemCount        int             `json:"item_count"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	DeliveryPrice    decimal.Decimal `json:"delivery_price"`
	Tax              decimal.Decimal `json:"tax"`
	Total            decimal.Decimal `json:"total"`
}

// Confirmation is returned after an order is placed
type Confirmation struct {
	OrderID          uuid.UUID           `json:"order_id"`
	ShortID          string              `json:"short_id"`
	Status           order.Status        `json:"status"`
	PaymentStatus    order.PaymentStatus `json:"payment_status"`
	PaymentMethod    order.PaymentMethod `json:"payment_method"`
	ItemCount        int                 `json:"item_count"`
	Subtotal         decimal.Decimal     `json:"subtotal"`
	DeliveryPrice    decimal.Decimal     `json:"delivery_price"`
	Tax              decimal.Decimal     `json:"tax"`
	Total            decimal.Decimal     `json:"total"`
	NotificationSent bool                `json:"notification_sent"`
	CreatedAt        time.Time           `json:"created_at"`
}

func toConfirmation(o *order.Order, notified bool) *Confirmation {
	q := o.Quote()
	return &Confirmation{
		OrderID:          o.ID,
		ShortID:          o.ShortID(),
		Status:           o.Status,
		PaymentStatus:    o.PaymentStatus,
		PaymentMethod:    o.PaymentMethod,
		ItemCount:        o.ItemCount(),
		Subtotal:         q.Subtotal,
		DeliveryPrice:    q.DeliveryPrice,
		Tax:              q.Tax,
		Total:            o.TotalAmount,
		NotificationSent: notified,
		CreatedAt:        o.CreatedAt,
	}
}
