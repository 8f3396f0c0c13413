package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/styleco/storefront/internal/domain/delivery"
	"github.com/styleco/storefront/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormDeliveryPriceRepository implements delivery.Repository using GORM
type GormDeliveryPriceRepository struct {
	db *gorm.DB
}

// NewGormDeliveryPriceRepository creates a new GormDeliveryPriceRepository
func NewGormDeliveryPriceRepository(db *gorm.DB) *GormDeliveryPriceRepository {
	return &GormDeliveryPriceRepository{db: db}
}

// FindByID finds a delivery price row by ID
func (r *GormDeliveryPriceRepository) FindByID(ctx context.Context, id uuid.UUID) (*delivery.GovernoratePrice, error) {
	return first(r.db.WithContext(ctx).Where("id = ?", id), (*models.DeliveryPriceModel).ToDomain)
}

// FindActiveByGovernorate finds the active row whose name matches exactly
func (r *GormDeliveryPriceRepository) FindActiveByGovernorate(ctx context.Context, governorate string) (*delivery.GovernoratePrice, error) {
	q := r.db.WithContext(ctx).Where("governorate = ? AND is_active = ?", governorate, true)
	return first(q, (*models.DeliveryPriceModel).ToDomain)
}

// FindAll lists delivery prices by governorate name
func (r *GormDeliveryPriceRepository) FindAll(ctx context.Context, activeOnly bool) ([]delivery.GovernoratePrice, error) {
	query := r.db.WithContext(ctx).Order("governorate ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var rows []models.DeliveryPriceModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return domainValues(rows, (*models.DeliveryPriceModel).ToDomain), nil
}

// ExistsByGovernorate checks whether a governorate already has a row
func (r *GormDeliveryPriceRepository) ExistsByGovernorate(ctx context.Context, governorate string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.DeliveryPriceModel{}).
		Where("governorate = ?", governorate).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a delivery price row
func (r *GormDeliveryPriceRepository) Save(ctx context.Context, p *delivery.GovernoratePrice) error {
	model := &models.DeliveryPriceModel{}
	model.FromDomain(p)
	return r.db.WithContext(ctx).Save(model).Error
}

var _ delivery.Repository = (*GormDeliveryPriceRepository)(nil)
