package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/styleco/storefront/internal/domain/identity"
	"github.com/styleco/storefront/internal/domain/shared"
	"github.com/styleco/storefront/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormUserRepository stores shopper and admin accounts. Emails are kept
// lowercased, so lookups normalize before querying.
type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *GormUserRepository) users(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.UserModel{})
}

func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	return first(r.users(ctx).Where("id = ?", id), (*models.UserModel).ToDomain)
}

// FindByEmail ignores case and surrounding whitespace
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	return first(r.users(ctx).Where("email = ?", emailKey(email)), (*models.UserModel).ToDomain)
}

// FindAll returns one page of accounts and the total matching the search,
// which covers email and full name.
func (r *GormUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, int64, error) {
	matching := r.users(ctx)
	if term := strings.ToLower(strings.TrimSpace(filter.Search)); term != "" {
		like := "%" + term + "%"
		matching = matching.Where("LOWER(email) LIKE ? OR LOWER(full_name) LIKE ?", like, like)
	}

	var total int64
	if err := matching.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := matching.Order(userSort.orderBy(filter.OrderBy, filter.OrderDir)).
		Scopes(paged(filter.Page, filter.PageSize))
	var rows []models.UserModel
	if err := page.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return domainValues(rows, (*models.UserModel).ToDomain), total, nil
}

func (r *GormUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var n int64
	err := r.users(ctx).Where("email = ?", emailKey(email)).Limit(1).Count(&n).Error
	return n > 0, err
}

func (r *GormUserRepository) Save(ctx context.Context, u *identity.User) error {
	return r.db.WithContext(ctx).Save(models.UserModelFromDomain(u)).Error
}

// Delete removes the account. Orders placed under it are kept as guest
// orders by clearing their user_id first.
func (r *GormUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		detach := tx.Model(&models.OrderModel{}).Where("user_id = ?", id).Update("user_id", nil)
		if detach.Error != nil {
			return detach.Error
		}
		removed := tx.Where("id = ?", id).Delete(&models.UserModel{})
		switch {
		case removed.Error != nil:
			return removed.Error
		case removed.RowsAffected == 0:
			return shared.ErrNotFound
		}
		return nil
	})
}

func (r *GormUserRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.users(ctx).Count(&n).Error
	return n, err
}

var _ identity.UserRepository = (*GormUserRepository)(nil)
