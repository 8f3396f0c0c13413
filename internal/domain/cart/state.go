package cart

import (
	"github.com/shopspring/decimal"
)

// State is the cart contents plus its derived totals
type State struct {
	Items     []Item          `json:"items"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
}

// Empty returns the empty cart
func Empty() State {
	return State{Items: []Item{}, Total: decimal.Zero}
}

// IsEmpty reports whether the cart has no lines
func (s State) IsEmpty() bool {
	return len(s.Items) == 0
}

// Find returns the line with key k
func (s State) Find(k Key) (Item, bool) {
	for _, it := range s.Items {
		if it.Key() == k {
			return it, true
		}
	}
	return Item{}, false
}

// Subtotal is Σ price × quantity, the same value as Total
func (s State) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range s.Items {
		sum = sum.Add(it.LineTotal())
	}
	return sum
}

func withItems(items []Item) State {
	s := State{Items: items, Total: decimal.Zero}
	for _, it := range items {
		s.Total = s.Total.Add(it.LineTotal())
		s.ItemCount += it.Quantity
	}
	return s
}
