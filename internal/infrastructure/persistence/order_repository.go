package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/styleco/storefront/internal/domain/order"
	"github.com/styleco/storefront/internal/domain/shared"
	"github.com/styleco/storefront/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormOrderRepository implements order.Repository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Create inserts the order row and its item rows in one transaction.
// If the items insert fails the order row is rolled back with it.
func (r *GormOrderRepository) Create(ctx context.Context, o *order.Order) error {
	model := models.OrderModelFromDomain(o)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Create(model).Error; err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		if len(model.Items) == 0 {
			return nil
		}
		if err := tx.Create(&model.Items).Error; err != nil {
			return fmt.Errorf("insert order items: %w", err)
		}
		return nil
	})
}

// FindByID loads an order with its items
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	return first(r.db.WithContext(ctx).Preload("Items").Where("id = ?", id), (*models.OrderModel).ToDomain)
}

// FindByUser lists a customer's orders, newest first unless filter sorts
func (r *GormOrderRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]order.Order, error) {
	query := r.db.WithContext(ctx).Preload("Items").
		Where("user_id = ?", userID).
		Order(orderSort.orderBy(filter.OrderBy, filter.OrderDir)).
		Scopes(paged(filter.Page, filter.PageSize))

	var rows []models.OrderModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return domainValues(rows, (*models.OrderModel).ToDomain), nil
}

// Find lists orders for the admin, newest first, with the total before pagination
func (r *GormOrderRepository) Find(ctx context.Context, q order.Query) ([]order.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.OrderModel{})
	if q.Status != nil {
		query = query.Where("status = ?", *q.Status)
	}
	if q.UserID != nil {
		query = query.Where("user_id = ?", *q.UserID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Preload("Items").Order("created_at DESC").Scopes(paged(q.Page, q.PageSize))

	var rows []models.OrderModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return domainValues(rows, (*models.OrderModel).ToDomain), total, nil
}

// UpdateStatus persists the order and payment status
func (r *GormOrderRepository) UpdateStatus(ctx context.Context, o *order.Order) error {
	return affected(r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Where("id = ?", o.ID).
		Updates(map[string]any{
			"status":         o.Status,
			"payment_status": o.PaymentStatus,
			"updated_at":     o.UpdatedAt,
		}))
}

// Stats summarises orders for the admin dashboard
func (r *GormOrderRepository) Stats(ctx context.Context) (order.Stats, error) {
	stats := order.Stats{Revenue: decimal.Zero, ByStatus: make(map[order.Status]int64)}
	db := r.db.WithContext(ctx)

	var groups []struct {
		Status order.Status
		Count  int64
	}
	if err := db.Model(&models.OrderModel{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&groups).Error; err != nil {
		return stats, err
	}
	for _, g := range groups {
		stats.ByStatus[g.Status] = g.Count
		stats.OrderCount += g.Count
	}

	var revenue decimal.NullDecimal
	if err := db.Model(&models.OrderModel{}).
		Select("SUM(total_amount)").
		Where("status = ? AND payment_status = ?", order.StatusDelivered, order.PaymentPaid).
		Row().Scan(&revenue); err != nil {
		return stats, err
	}
	if revenue.Valid {
		stats.Revenue = revenue.Decimal
	}
	return stats, nil
}

// Ensure GormOrderRepository implements order.Repository
var _ order.Repository = (*GormOrderRepository)(nil)
