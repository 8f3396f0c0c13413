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

// GormCategoryRepository stores categories in the categories table
type GormCategoryRepository struct {
	db *gorm.DB
}

func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

var _ catalog.CategoryRepository = (*GormCategoryRepository)(nil)

func (r *GormCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	return first(r.db.WithContext(ctx).Where("id = ?", id), (*models.CategoryModel).ToDomain)
}

func (r *GormCategoryRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Category, error) {
	return first(r.db.WithContext(ctx).Where("slug = ?", slug), (*models.CategoryModel).ToDomain)
}

// FindAll lists categories ordered by name unless filter names another column
func (r *GormCategoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Category, error) {
	q := r.db.WithContext(ctx).Model(&models.CategoryModel{})
	if term := strings.ToLower(filter.Search); term != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+term+"%")
	}

	var rows []models.CategoryModel
	err := q.Scopes(paged(filter.Page, filter.PageSize)).
		Order(categorySort.orderBy(filter.OrderBy, filter.OrderDir)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return domainValues(rows, (*models.CategoryModel).ToDomain), nil
}

func (r *GormCategoryRepository) ExistsBySlug(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error) {
	return slugTaken[models.CategoryModel](r.db.WithContext(ctx), slug, excludeID)
}

func (r *GormCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	return r.db.WithContext(ctx).Save(models.CategoryModelFromDomain(category)).Error
}

// Delete removes the category and leaves its products uncategorized
func (r *GormCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.ProductModel{}).Where("category_id = ?", id).Update("category_id", nil).Error
		if err != nil {
			return err
		}
		return deleteOne[models.CategoryModel](tx, id)
	})
}
