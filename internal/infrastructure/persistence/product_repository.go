package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/styleco/storefront/internal/domain/catalog"
	"github.com/styleco/storefront/internal/domain/shared"
	"github.com/styleco/storefront/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormProductRepository stores products in the products table
type GormProductRepository struct {
	db *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)

func (r *GormProductRepository) products(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.ProductModel{})
}

func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	return first(r.products(ctx).Where("id = ?", id), (*models.ProductModel).ToDomain)
}

func (r *GormProductRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	return first(r.products(ctx).Where("slug = ?", slug), (*models.ProductModel).ToDomain)
}

// FindByIDs loads the cart's products in one query. Unknown ids are absent
// from the result rather than an error.
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}
	var rows []models.ProductModel
	if err := r.products(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return domainValues(rows, (*models.ProductModel).ToDomain), nil
}

// Find returns one page of products matching q plus the unpaged total
func (r *GormProductRepository) Find(ctx context.Context, q catalog.ProductQuery) ([]catalog.Product, int64, error) {
	matching := r.products(ctx).Scopes(productFilter(q))

	var total int64
	if err := matching.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.ProductModel
	err := matching.Scopes(paged(q.Page, q.PageSize)).Order(productOrderBy(q.SortBy)).Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return domainValues(rows, (*models.ProductModel).ToDomain), total, nil
}

func (r *GormProductRepository) ExistsBySlug(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error) {
	return slugTaken[models.ProductModel](r.db.WithContext(ctx), slug, excludeID)
}

// Save inserts or fully replaces the product row
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Save(models.ProductModelFromDomain(product)).Error
}

func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteOne[models.ProductModel](r.db.WithContext(ctx), id)
}

func (r *GormProductRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.products(ctx).Count(&n).Error
	return n, err
}

// productFilter narrows a products query to q. Search matches name or
// description case-insensitively.
func productFilter(q catalog.ProductQuery) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if q.ActiveOnly {
			db = db.Where("is_active = ?", true)
		}
		if q.FeaturedOnly {
			db = db.Where("is_featured = ?", true)
		}
		if q.CategoryID != nil {
			db = db.Where("category_id = ?", *q.CategoryID)
		}
		if q.MinPrice != nil {
			db = db.Where("price >= ?", *q.MinPrice)
		}
		if q.MaxPrice != nil {
			db = db.Where("price <= ?", *q.MaxPrice)
		}
		if q.InStock {
			db = db.Where("stock_quantity > 0")
		}
		if term := strings.ToLower(strings.TrimSpace(q.Search)); term != "" {
			like := "%" + term + "%"
			db = db.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
		}
		return db
	}
}

// paged limits a query to one page. A zero size means everything.
func paged(page, size int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if size <= 0 {
			return db
		}
		return db.Offset(shared.PageOffset(page, size)).Limit(size)
	}
}
