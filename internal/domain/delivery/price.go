package delivery

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/styleco/storefront/internal/domain/shared"
)

// GovernoratePrice is the delivery fee charged for a governorate
type GovernoratePrice struct {
	shared.BaseEntity
	Governorate   string
	DeliveryPrice decimal.Decimal
	IsActive      bool
}

// NewGovernoratePrice creates an active price row
func NewGovernoratePrice(governorate string, price decimal.Decimal) (*GovernoratePrice, error) {
	governorate = strings.TrimSpace(governorate)
	if governorate == "" {
		return nil, shared.NewDomainError("INVALID_GOVERNORATE", "Governorate cannot be empty")
	}
	p := &GovernoratePrice{
		BaseEntity:  shared.NewBaseEntity(),
		Governorate: governorate,
		IsActive:    true,
	}
	if err := p.SetPrice(price); err != nil {
		return nil, err
	}
	return p, nil
}

// SetPrice changes the delivery fee
func (p *GovernoratePrice) SetPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_DELIVERY_PRICE", "Delivery price cannot be negative")
	}
	p.DeliveryPrice = price
	p.Touch()
	return nil
}

// SetActive shows or hides the governorate at checkout
func (p *GovernoratePrice) SetActive(active bool) {
	p.IsActive = active
	p.Touch()
}

// Repository defines persistence for delivery prices
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*GovernoratePrice, error)
	// FindActiveByGovernorate matches the name exactly among active rows
	FindActiveByGovernorate(ctx context.Context, governorate string) (*GovernoratePrice, error)
	// FindAll returns rows ordered by governorate name
	FindAll(ctx context.Context, activeOnly bool) ([]GovernoratePrice, error)
	ExistsByGovernorate(ctx context.Context, governorate string) (bool, error)
	Save(ctx context.Context, p *GovernoratePrice) error
}
