package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/styleco/storefront/internal/domain/order"
)

// ItemResponse is an order line with the product details resolved at read time
type ItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	ProductSlug string          `json:"product_slug,omitempty"`
	Image       string          `json:"image,omitempty"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Size        string          `json:"size,omitempty"`
	Color       string          `json:"color,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID              uuid.UUID           `json:"id"`
	ShortID         string              `json:"short_id"`
	UserID          *uuid.UUID          `json:"user_id,omitempty"`
	Status          order.Status        `json:"status"`
	PaymentStatus   order.PaymentStatus `json:"payment_status"`
	PaymentMethod   order.PaymentMethod `json:"payment_method"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	Tax             decimal.Decimal     `json:"tax"`
	DeliveryPrice   decimal.Decimal     `json:"delivery_price"`
	TotalAmount     decimal.Decimal     `json:"total_amount"`
	ItemCount       int                 `json:"item_count"`
	ShippingAddress order.Address       `json:"shipping_address"`
	Items           []ItemResponse      `json:"items"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// ListQuery filters the admin order list
type ListQuery struct {
	Status   string `form:"status" binding:"omitempty,oneof=pending processing shipped delivered cancelled"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// UpdateStatusRequest moves an order to a new status
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending processing shipped delivered cancelled"`
}

// StatsResponse feeds the admin dashboard
type StatsResponse struct {
	ProductCount int64                  `json:"product_count"`
	OrderCount   int64                  `json:"order_count"`
	UserCount    int64                  `json:"user_count"`
	Revenue      decimal.Decimal        `json:"revenue"`
	ByStatus     map[order.Status]int64 `json:"by_status"`
}

// productInfo is the display data looked up for order lines
type productInfo struct {
	Name  string
	Slug  string
	Image string
}

func toResponse(o *order.Order, products map[uuid.UUID]productInfo) OrderResponse {
	q := o.Quote()
	items := make([]ItemResponse, len(o.Items))
	for i, it := range o.Items {
		info, ok := products[it.ProductID]
		if !ok {
			info.Name = "Product"
		}
		items[i] = ItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: info.Name,
			ProductSlug: info.Slug,
			Image:       info.Image,
			Quantity:    it.Quantity,
			Price:       it.Price,
			Size:        it.Size,
			Color:       it.Color,
			Amount:      it.Amount(),
		}
	}
	return OrderResponse{
		ID:              o.ID,
		ShortID:         o.ShortID(),
		UserID:          o.UserID,
		Status:          o.Status,
		PaymentStatus:   o.PaymentStatus,
		PaymentMethod:   o.PaymentMethod,
		Subtotal:        q.Subtotal,
		Tax:             q.Tax,
		DeliveryPrice:   q.DeliveryPrice,
		TotalAmount:     o.TotalAmount,
		ItemCount:       o.ItemCount(),
		ShippingAddress: o.ShippingAddress,
		Items:           items,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}
