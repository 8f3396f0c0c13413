package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/styleco/storefront/internal/domain/shared"
)

// SortBy is a storefront listing order
type SortBy string

const (
	SortNewest    SortBy = "newest"
	SortPriceAsc  SortBy = "price-asc"
	SortPriceDesc SortBy = "price-desc"
	// SortPopular has no view counter behind it and orders like SortNewest
	SortPopular SortBy = "popular"
)

// ParseSortBy maps query values onto SortBy, defaulting to newest
func ParseSortBy(s string) SortBy {
	switch SortBy(s) {
	case SortPriceAsc, SortPriceDesc, SortPopular:
		return SortBy(s)
	default:
		return SortNewest
	}
}

// ProductQuery narrows product listings
type ProductQuery struct {
	CategoryID   *uuid.UUID
	Search       string
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	InStock      bool
	FeaturedOnly bool
	// ActiveOnly is set by every storefront query; admin listings leave it false
	ActiveOnly bool
	SortBy     SortBy
	Page       int
	PageSize   int
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindBySlug(ctx context.Context, slug string) (*Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)
	Find(ctx context.Context, q ProductQuery) ([]Product, int64, error)
	ExistsBySlug(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error)
	Save(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindBySlug(ctx context.Context, slug string) (*Category, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Category, error)
	ExistsBySlug(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error)
	Save(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}
