package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/styleco/storefront/internal/domain/cart"
)

// AddItemRequest adds a product variant to the cart
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1,max=999"`
	Size      string    `json:"size" binding:"max=50"`
	Color     string    `json:"color" binding:"max=50"`
}

// UpdateItemRequest sets the quantity of a line; 0 removes it
type UpdateItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"min=0,max=999"`
	Size      string    `json:"size" binding:"max=50"`
	Color     string    `json:"color" binding:"max=50"`
}

// RemoveItemRequest identifies the line to remove
type RemoveItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Size      string    `json:"size"`
	Color     string    `json:"color"`
}

// ItemResponse is one cart line
type ItemResponse struct {
	ProductID    uuid.UUID        `json:"product_id"`
	Name         string           `json:"name"`
	Slug         string           `json:"slug"`
	Image        string           `json:"image,omitempty"`
	Price        decimal.Decimal  `json:"price"`
	ComparePrice *decimal.Decimal `json:"compare_price,omitempty"`
	Quantity     int              `json:"quantity"`
	Size         string           `json:"size,omitempty"`
	Color        string           `json:"color,omitempty"`
	LineTotal    decimal.Decimal  `json:"line_total"`
}

// Response is the cart as returned to the buyer
type Response struct {
	Items     []ItemResponse  `json:"items"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
}

// ToResponse converts cart state to a response
func ToResponse(s cart.State) Response {
	items := make([]ItemResponse, len(s.Items))
	for i, it := range s.Items {
		var image string
		if len(it.Product.Images) > 0 {
			image = it.Product.Images[0]
		}
		items[i] = ItemResponse{
			ProductID:    it.Product.ID,
			Name:         it.Product.Name,
			Slug:         it.Product.Slug,
			Image:        image,
			Price:        it.Product.Price,
			ComparePrice: it.Product.ComparePrice,
			Quantity:     it.Quantity,
			Size:         it.Size,
			Color:        it.Color,
			LineTotal:    it.LineTotal(),
		}
	}
	return Response{Items: items, Total: s.Total, ItemCount: s.ItemCount}
}
