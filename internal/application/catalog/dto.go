package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/styleco/storefront/internal/domain/catalog"
	"github.com/styleco/storefront/internal/domain/shared"
)

// FeaturedLimit is how many featured products the home page shows
const FeaturedLimit = 4

// ProductRequest creates or fully replaces a product
type ProductRequest struct {
	Name          string           `json:"name" binding:"required,min=1,max=200"`
	Slug          string           `json:"slug" binding:"omitempty,max=200,slug"`
	Description   string           `json:"description" binding:"max=5000"`
	Price         decimal.Decimal  `json:"price"`
	ComparePrice  *decimal.Decimal `json:"compare_price"`
	CategoryID    *uuid.UUID       `json:"category_id"`
	Images        []string         `json:"images" binding:"max=20,dive,url"`
	Sizes         []string         `json:"sizes" binding:"max=20,dive,max=50"`
	Colors        []string         `json:"colors" binding:"max=20,dive,max=50"`
	StockQuantity int              `json:"stock_quantity" binding:"min=0"`
	IsFeatured    bool             `json:"is_featured"`
	IsActive      *bool            `json:"is_active"`
}

func (r ProductRequest) input() catalog.ProductInput {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return catalog.ProductInput{
		Name:          r.Name,
		Slug:          r.Slug,
		Description:   r.Description,
		Price:         r.Price,
		ComparePrice:  r.ComparePrice,
		CategoryID:    r.CategoryID,
		Images:        r.Images,
		Sizes:         r.Sizes,
		Colors:        r.Colors,
		StockQuantity: r.StockQuantity,
		IsFeatured:    r.IsFeatured,
		IsActive:      active,
	}
}

// SetActiveRequest toggles storefront visibility
type SetActiveRequest struct {
	IsActive bool `json:"is_active"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID            uuid.UUID        `json:"id"`
	Name          string           `json:"name"`
	Slug          string           `json:"slug"`
	Description   string           `json:"description"`
	Price         decimal.Decimal  `json:"price"`
	ComparePrice  *decimal.Decimal `json:"compare_price,omitempty"`
	CategoryID    *uuid.UUID       `json:"category_id,omitempty"`
	Images        []string         `json:"images"`
	Sizes         []string         `json:"sizes"`
	Colors        []string         `json:"colors"`
	StockQuantity int              `json:"stock_quantity"`
	InStock       bool             `json:"in_stock"`
	IsFeatured    bool             `json:"is_featured"`
	IsActive      bool             `json:"is_active"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// ProductListQuery holds storefront and admin listing parameters
type ProductListQuery struct {
	CategoryID *uuid.UUID `form:"category_id"`
	Search     string     `form:"q" binding:"max=100"`
	MinPrice   string     `form:"minPrice" binding:"omitempty,numeric"`
	MaxPrice   string     `form:"maxPrice" binding:"omitempty,numeric"`
	InStock    bool       `form:"inStock"`
	SortBy     string     `form:"sortBy" binding:"omitempty,oneof=price-asc price-desc newest popular"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

func (q ProductListQuery) toDomain(activeOnly bool) (catalog.ProductQuery, error) {
	page, size := shared.NormalizePage(q.Page, q.PageSize, shared.DefaultGridPageSize)
	minPrice, err := parsePrice(q.MinPrice)
	if err != nil {
		return catalog.ProductQuery{}, err
	}
	maxPrice, err := parsePrice(q.MaxPrice)
	if err != nil {
		return catalog.ProductQuery{}, err
	}
	return catalog.ProductQuery{
		CategoryID: q.CategoryID,
		Search:     strings.TrimSpace(q.Search),
		MinPrice:   minPrice,
		MaxPrice:   maxPrice,
		InStock:    q.InStock,
		ActiveOnly: activeOnly,
		SortBy:     catalog.ParseSortBy(q.SortBy),
		Page:       page,
		PageSize:   size,
	}, nil
}

func parsePrice(s string) (*decimal.Decimal, error) {
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE_FILTER", "Price filters must be non-negative numbers")
	}
	return &d, nil
}

// CategoryRequest creates or replaces a category
type CategoryRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Slug        string `json:"slug" binding:"omitempty,max=100,slug"`
	Description string `json:"description" binding:"max=2000"`
	ImageURL    string `json:"image_url" binding:"omitempty,url,max=500"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// CategoryPageResponse is a category with its filtered products
type CategoryPageResponse struct {
	Category CategoryResponse  `json:"category"`
	Products []ProductResponse `json:"products"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Slug:          p.Slug,
		Description:   p.Description,
		Price:         p.Price,
		ComparePrice:  p.ComparePrice,
		CategoryID:    p.CategoryID,
		Images:        nonNil(p.Images),
		Sizes:         nonNil(p.Sizes),
		Colors:        nonNil(p.Colors),
		StockQuantity: p.StockQuantity,
		InStock:       p.InStock(),
		IsFeatured:    p.IsFeatured,
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// ToProductResponses converts a slice of domain Products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}

// ToCategoryResponse converts a domain Category to CategoryResponse
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		ImageURL:    c.ImageURL,
		CreatedAt:   c.CreatedAt,
	}
}

// ToCategoryResponses converts a slice of domain Categories
func ToCategoryResponses(categories []catalog.Category) []CategoryResponse {
	responses := make([]CategoryResponse, len(categories))
	for i := range categories {
		responses[i] = ToCategoryResponse(&categories[i])
	}
	return responses
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
