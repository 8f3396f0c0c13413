package order

import "github.com/shopspring/decimal"

// TaxRate is applied to the subtotal only, never to delivery
var TaxRate = decimal.RequireFromString("0.08")

// Quote is the price breakdown shown at checkout and stored as the order total
type Quote struct {
	Subtotal      decimal.Decimal `json:"subtotal"`
	DeliveryPrice decimal.Decimal `json:"delivery_price"`
	Tax           decimal.Decimal `json:"tax"`
	Total         decimal.Decimal `json:"total"`
}

// NewQuote computes tax = subtotal × 8% (rounded to cents) and
// total = subtotal + delivery + tax.
func NewQuote(subtotal, deliveryPrice decimal.Decimal) Quote {
	tax := subtotal.Mul(TaxRate).Round(2)
	return Quote{
		Subtotal:      subtotal,
		DeliveryPrice: deliveryPrice,
		Tax:           tax,
		Total:         subtotal.Add(deliveryPrice).Add(tax),
	}
}
