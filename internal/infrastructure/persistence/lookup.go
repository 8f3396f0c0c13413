package persistence

import (
	"errors"

	"github.com/google/uuid"
	"github.com/styleco/storefront/internal/domain/shared"
	"gorm.io/gorm"
)

// first runs q for a single row and converts it with toDomain. A miss is
// shared.ErrNotFound.
func first[M, D any](q *gorm.DB, toDomain func(*M) D) (D, error) {
	var model M
	if err := q.First(&model).Error; err != nil {
		var zero D
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return zero, shared.ErrNotFound
		}
		return zero, err
	}
	return toDomain(&model), nil
}

// domainValues converts rows loaded by Find
func domainValues[M, D any](rows []M, toDomain func(*M) *D) []D {
	out := make([]D, len(rows))
	for i := range rows {
		out[i] = *toDomain(&rows[i])
	}
	return out
}

// affected turns a write that touched no row into shared.ErrNotFound
func affected(result *gorm.DB) error {
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// deleteOne removes the M row with id
func deleteOne[M any](db *gorm.DB, id uuid.UUID) error {
	return affected(db.Delete(new(M), "id = ?", id))
}

// slugTaken reports whether an M row other than excludeID uses slug
func slugTaken[M any](db *gorm.DB, slug string, excludeID *uuid.UUID) (bool, error) {
	q := db.Model(new(M)).Where("slug = ?", slug)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}
	var n int64
	err := q.Limit(1).Count(&n).Error
	return n > 0, err
}
