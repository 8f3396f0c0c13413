package persistence

import (
	"context"

	"github.com/styleco/storefront/internal/domain/content"
	"github.com/styleco/storefront/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormHeroRepository implements content.HeroRepository using GORM
type GormHeroRepository struct {
	db *gorm.DB
}

// NewGormHeroRepository creates a new GormHeroRepository
func NewGormHeroRepository(db *gorm.DB) *GormHeroRepository {
	return &GormHeroRepository{db: db}
}

// FindActive returns the most recently updated active hero section
func (r *GormHeroRepository) FindActive(ctx context.Context) (*content.HeroSection, error) {
	q := r.db.WithContext(ctx).Where("is_active = ?", true).Order("updated_at DESC")
	return first(q, (*models.HeroSectionModel).ToDomain)
}

// Save upserts h. Saving an active section deactivates every other one.
func (r *GormHeroRepository) Save(ctx context.Context, h *content.HeroSection) error {
	model := &models.HeroSectionModel{}
	model.FromDomain(h)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if h.IsActive {
			if err := tx.Model(&models.HeroSectionModel{}).
				Where("id <> ? AND is_active = ?", h.ID, true).
				Update("is_active", false).Error; err != nil {
				return err
			}
		}
		return tx.Save(model).Error
	})
}

var _ content.HeroRepository = (*GormHeroRepository)(nil)
