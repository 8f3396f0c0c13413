// Package delivery manages the per-governorate delivery fees charged at checkout.
package delivery

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/styleco/storefront/internal/domain/delivery"
	"github.com/styleco/storefront/internal/domain/shared"
)

// CreatePriceRequest adds a governorate
type CreatePriceRequest struct {
	Governorate   string          `json:"governorate" binding:"required,max=100"`
	DeliveryPrice decimal.Decimal `json:"delivery_price"`
}

// UpdatePriceRequest changes the fee and optionally the active flag
type UpdatePriceRequest struct {
	DeliveryPrice *decimal.Decimal `json:"delivery_price"`
	IsActive      *bool            `json:"is_active"`
}

// PriceResponse represents a governorate price in API responses
type PriceResponse struct {
	ID            uuid.UUID       `json:"id"`
	Governorate   string          `json:"governorate"`
	DeliveryPrice decimal.Decimal `json:"delivery_price"`
	IsActive      bool            `json:"is_active"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func toResponse(p *delivery.GovernoratePrice) PriceResponse {
	return PriceResponse{
		ID:            p.ID,
		Governorate:   p.Governorate,
		DeliveryPrice: p.DeliveryPrice,
		IsActive:      p.IsActive,
		UpdatedAt:     p.UpdatedAt,
	}
}

func toResponses(prices []delivery.GovernoratePrice) []PriceResponse {
	out := make([]PriceResponse, len(prices))
	for i := range prices {
		out[i] = toResponse(&prices[i])
	}
	return out
}

// Service handles delivery price operations
type Service struct {
	repo delivery.Repository
}

// NewService creates a new delivery Service
func NewService(repo delivery.Repository) *Service {
	return &Service{repo: repo}
}

// ListActive returns the governorates offered at checkout, ordered by name
func (s *Service) ListActive(ctx context.Context) ([]PriceResponse, error) {
	prices, err := s.repo.FindAll(ctx, true)
	if err != nil {
		return nil, err
	}
	return toResponses(prices), nil
}

// ListAll returns every governorate for the admin console
func (s *Service) ListAll(ctx context.Context) ([]PriceResponse, error) {
	prices, err := s.repo.FindAll(ctx, false)
	if err != nil {
		return nil, err
	}
	return toResponses(prices), nil
}

// Create adds a governorate price
func (s *Service) Create(ctx context.Context, req CreatePriceRequest) (*PriceResponse, error) {
	price, err := delivery.NewGovernoratePrice(req.Governorate, req.DeliveryPrice)
	if err != nil {
		return nil, err
	}
	exists, err := s.repo.ExistsByGovernorate(ctx, price.Governorate)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewFieldError("governorate", shared.ErrAlreadyExists.Code, "Governorate already has a delivery price")
	}
	if err := s.repo.Save(ctx, price); err != nil {
		return nil, err
	}
	resp := toResponse(price)
	return &resp, nil
}

// Update changes a governorate's fee or visibility
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdatePriceRequest) (*PriceResponse, error) {
	price, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.DeliveryPrice != nil {
		if err := price.SetPrice(*req.DeliveryPrice); err != nil {
			return nil, err
		}
	}
	if req.IsActive != nil {
		price.SetActive(*req.IsActive)
	}
	if err := s.repo.Save(ctx, price); err != nil {
		return nil, err
	}
	resp := toResponse(price)
	return &resp, nil
}
