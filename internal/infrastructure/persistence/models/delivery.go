package models

import (
	"github.com/shopspring/decimal"
	"github.com/styleco/storefront/internal/domain/delivery"
)

// DeliveryPriceModel is the persistence model for a governorate delivery price.
type DeliveryPriceModel struct {
	BaseModel
	Governorate   string          `gorm:"type:varchar(100);not null;uniqueIndex"`
	DeliveryPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	IsActive      bool            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DeliveryPriceModel) TableName() string {
	return "delivery_prices"
}

// ToDomain converts the persistence model to a domain GovernoratePrice.
func (m *DeliveryPriceModel) ToDomain() *delivery.GovernoratePrice {
	return &delivery.GovernoratePrice{
		BaseEntity:    m.BaseModel.ToDomain(),
		Governorate:   m.Governorate,
		DeliveryPrice: m.DeliveryPrice,
		IsActive:      m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain GovernoratePrice.
func (m *DeliveryPriceModel) FromDomain(p *delivery.GovernoratePrice) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.Governorate = p.Governorate
	m.DeliveryPrice = p.DeliveryPrice
	m.IsActive = p.IsActive
}
