package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/styleco/storefront/internal/domain/order"
	"github.com/styleco/storefront/internal/domain/shared"
)

// OrderModel is the persistence model for the Order aggregate root.
type OrderModel struct {
	BaseModel
	UserID          *uuid.UUID          `gorm:"type:uuid;index"`
	Status          order.Status        `gorm:"type:varchar(20);not null;default:'pending';index"`
	PaymentStatus   order.PaymentStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	PaymentMethod   order.PaymentMethod `gorm:"type:varchar(30);not null"`
	TotalAmount     decimal.Decimal     `gorm:"type:decimal(10,2);not null"`
	ShippingAddress AddressJSON         `gorm:"type:jsonb;not null"`
	BillingAddress  AddressJSON         `gorm:"type:jsonb;not null"`
	Items           []OrderItemModel    `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order.
// Items are included when they were preloaded.
func (m *OrderModel) ToDomain() *order.Order {
	o := &order.Order{
		EventSource:     shared.EventSource{BaseEntity: m.BaseModel.ToDomain()},
		UserID:          m.UserID,
		Status:          m.Status,
		PaymentStatus:   m.PaymentStatus,
		PaymentMethod:   m.PaymentMethod,
		TotalAmount:     m.TotalAmount,
		ShippingAddress: order.Address(m.ShippingAddress),
		BillingAddress:  order.Address(m.BillingAddress),
		Items:           make([]order.Item, len(m.Items)),
	}
	for i := range m.Items {
		o.Items[i] = m.Items[i].ToDomain()
	}
	return o
}

// FromDomain populates the persistence model from a domain Order, items included.
func (m *OrderModel) FromDomain(o *order.Order) {
	m.FromDomainBaseEntity(o.BaseEntity)
	m.UserID = o.UserID
	m.Status = o.Status
	m.PaymentStatus = o.PaymentStatus
	m.PaymentMethod = o.PaymentMethod
	m.TotalAmount = o.TotalAmount
	m.ShippingAddress = AddressJSON(o.ShippingAddress)
	m.BillingAddress = AddressJSON(o.BillingAddress)
	m.Items = make([]OrderItemModel, len(o.Items))
	for i := range o.Items {
		m.Items[i].FromDomain(o.Items[i])
	}
}

// OrderModelFromDomain creates a new persistence model from a domain Order.
func OrderModelFromDomain(o *order.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// OrderItemModel is the persistence model for an order line.
type OrderItemModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity  int             `gorm:"not null"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Size      string          `gorm:"type:varchar(50)"`
	Color     string          `gorm:"type:varchar(50)"`
	CreatedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain order item.
func (m *OrderItemModel) ToDomain() order.Item {
	return order.Item{
		ID:        m.ID,
		OrderID:   m.OrderID,
		ProductID: m.ProductID,
		Quantity:  m.Quantity,
		Price:     m.Price,
		Size:      m.Size,
		Color:     m.Color,
		CreatedAt: m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain order item.
func (m *OrderItemModel) FromDomain(it order.Item) {
	m.ID = it.ID
	m.OrderID = it.OrderID
	m.ProductID = it.ProductID
	m.Quantity = it.Quantity
	m.Price = it.Price
	m.Size = it.Size
	m.Color = it.Color
	m.CreatedAt = it.CreatedAt
}
