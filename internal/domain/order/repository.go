package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/styleco/storefront/internal/domain/shared"
)

// Query narrows admin order listings
type Query struct {
	Status   *Status
	UserID   *uuid.UUID
	Page     int
	PageSize int
}

// Stats is the admin dashboard summary over orders
type Stats struct {
	OrderCount int64
	// Revenue only counts orders that are delivered and paid
	Revenue  decimal.Decimal
	ByStatus map[Status]int64
}

// Repository defines persistence for orders
type Repository interface {
	// Create stores the order and all of its items atomically
	Create(ctx context.Context, o *Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]Order, error)
	Find(ctx context.Context, q Query) ([]Order, int64, error)
	// UpdateStatus persists Status and PaymentStatus
	UpdateStatus(ctx context.Context, o *Order) error
	Stats(ctx context.Context) (Stats, error)
}
