package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/styleco/storefront/internal/domain/catalog"
	"github.com/styleco/storefront/internal/domain/shared"
)

// ProductModel is the persistence model for the Product domain entity.
type ProductModel struct {
	BaseModel
	Name          string           `gorm:"type:varchar(200);not null"`
	Slug          string           `gorm:"type:varchar(200);not null;uniqueIndex"`
	Description   string           `gorm:"type:text"`
	Price         decimal.Decimal  `gorm:"type:decimal(10,2);not null"`
	ComparePrice  *decimal.Decimal `gorm:"type:decimal(10,2)"`
	CategoryID    *uuid.UUID       `gorm:"type:uuid;index"`
	Images        StringList       `gorm:"type:jsonb;not null"`
	Sizes         StringList       `gorm:"type:jsonb;not null"`
	Colors        StringList       `gorm:"type:jsonb;not null"`
	StockQuantity int              `gorm:"not null;default:0"`
	IsFeatured    bool             `gorm:"not null;default:false;index"`
	IsActive      bool             `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseEntity:    m.BaseModel.ToDomain(),
		Name:          m.Name,
		Slug:          m.Slug,
		Description:   m.Description,
		Price:         m.Price,
		ComparePrice:  m.ComparePrice,
		CategoryID:    m.CategoryID,
		Images:        []string(m.Images),
		Sizes:         []string(m.Sizes),
		Colors:        []string(m.Colors),
		StockQuantity: m.StockQuantity,
		IsFeatured:    m.IsFeatured,
		IsActive:      m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.Name = p.Name
	m.Slug = p.Slug
	m.Description = p.Description
	m.Price = p.Price
	m.ComparePrice = p.ComparePrice
	m.CategoryID = p.CategoryID
	m.Images = StringList(p.Images)
	m.Sizes = StringList(p.Sizes)
	m.Colors = StringList(p.Colors)
	m.StockQuantity = p.StockQuantity
	m.IsFeatured = p.IsFeatured
	m.IsActive = p.IsActive
}

// ProductModelFromDomain creates a new persistence model from a domain Product entity.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}

// CategoryModel is the persistence model for the Category domain entity.
type CategoryModel struct {
	BaseModel
	Name        string `gorm:"type:varchar(100);not null"`
	Slug        string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Description string `gorm:"type:text"`
	ImageURL    string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the persistence model to a domain Category entity.
func (m *CategoryModel) ToDomain() *catalog.Category {
	return &catalog.Category{
		BaseEntity:  shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		Name:        m.Name,
		Slug:        m.Slug,
		Description: m.Description,
		ImageURL:    m.ImageURL,
	}
}

// FromDomain populates the persistence model from a domain Category entity.
func (m *CategoryModel) FromDomain(c *catalog.Category) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.Name = c.Name
	m.Slug = c.Slug
	m.Description = c.Description
	m.ImageURL = c.ImageURL
}

// CategoryModelFromDomain creates a new persistence model from a domain Category entity.
func CategoryModelFromDomain(c *catalog.Category) *CategoryModel {
	m := &CategoryModel{}
	m.FromDomain(c)
	return m
}
