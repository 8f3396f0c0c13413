package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/styleco/storefront/internal/domain/catalog"
)

// Product is the catalog data a cart line carries with it
type Product struct {
	ID            uuid.UUID        `json:"id"`
	Name          string           `json:"name"`
	Slug          string           `json:"slug"`
	Price         decimal.Decimal  `json:"price"`
	ComparePrice  *decimal.Decimal `json:"compare_price,omitempty"`
	Images        []string         `json:"images"`
	Sizes         []string         `json:"sizes"`
	Colors        []string         `json:"colors"`
	StockQuantity int              `json:"stock_quantity"`
}

// ProductFrom snapshots a catalog product for the cart
func ProductFrom(p *catalog.Product) Product {
	return Product{
		ID:            p.ID,
		Name:          p.Name,
		Slug:          p.Slug,
		Price:         p.Price,
		ComparePrice:  p.ComparePrice,
		Images:        append([]string(nil), p.Images...),
		Sizes:         append([]string(nil), p.Sizes...),
		Colors:        append([]string(nil), p.Colors...),
		StockQuantity: p.StockQuantity,
	}
}

// Key is the identity of a cart line
type Key struct {
	ProductID uuid.UUID
	Size      string
	Color     string
}

// Item is one cart line
type Item struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
	Size     string  `json:"size,omitempty"`
	Color    string  `json:"color,omitempty"`
}

// Key returns the line identity
func (i Item) Key() Key {
	return Key{ProductID: i.Product.ID, Size: i.Size, Color: i.Color}
}

// LineTotal is price × quantity
func (i Item) LineTotal() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func (i Item) valid() bool {
	return i.Product.ID != uuid.Nil && i.Quantity >= 1 && !i.Product.Price.IsNegative()
}
