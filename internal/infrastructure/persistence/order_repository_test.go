package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/styleco/storefront/internal/domain/order"
	"github.com/styleco/storefront/internal/domain/shared"
	"github.com/styleco/storefront/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

func placeTestOrder(t *testing.T, userID *uuid.UUID, lines ...order.Line) *order.Order {
	t.Helper()
	if len(lines) == 0 {
		lines = []order.Line{
			{ProductID: uuid.New(), Quantity: 2, Price: decimal.NewFromInt(100), Size: "M", Color: "Blue"},
			{ProductID: uuid.New(), Quantity: 1, Price: decimal.NewFromFloat(375.25)},
		}
	}
	o, err := order.Place(order.PlaceParams{
		UserID: userID,
		Address: order.Address{
			FullName:      "Mona Adel",
			Phone:         "0101 234 5678",
			Address:       "12 Tahrir St",
			City:          "Cairo",
			Governorate:   "Cairo",
			DeliveryPrice: decimal.NewFromInt(30),
		},
		PaymentMethod: order.PaymentCashOnDelivery,
		Lines:         lines,
	})
	require.NoError(t, err)
	return o
}

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestGormOrderRepository_CreateAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	o := placeTestOrder(t, &userID)
	require.NoError(t, repo.Create(ctx, o))

	found, err := repo.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusPending, found.Status)
	assert.Equal(t, order.PaymentCashOnDelivery, found.PaymentMethod)
	assert.True(t, found.TotalAmount.Equal(decimal.RequireFromString("651.27")), found.TotalAmount.String())
	assert.Equal(t, "01012345678", found.ShippingAddress.Phone)
	assert.Equal(t, "Egypt", found.BillingAddress.Country)
	require.Len(t, found.Items, 2)
	assert.Equal(t, 3, found.ItemCount())
	assert.True(t, found.IsOwnedBy(userID))

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormOrderRepository_CreateRollsBackWhenItemsFail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormOrderRepository(db)

	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:fail_order_items", func(tx *gorm.DB) {
		if tx.Statement.Table == "order_items" {
			_ = tx.AddError(errors.New("order_items unavailable"))
		}
	}))

	o := placeTestOrder(t, nil)
	err := repo.Create(context.Background(), o)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert order items")
	assert.Zero(t, countRows(t, db, &models.OrderModel{}), "order row must not survive a failed items insert")
	assert.Zero(t, countRows(t, db, &models.OrderItemModel{}))
}

func TestGormOrderRepository_Listings(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	first := placeTestOrder(t, &userID)
	require.NoError(t, repo.Create(ctx, first))
	time.Sleep(5 * time.Millisecond)
	second := placeTestOrder(t, &userID)
	require.NoError(t, repo.Create(ctx, second))
	time.Sleep(5 * time.Millisecond)
	guest := placeTestOrder(t, nil)
	require.NoError(t, repo.Create(ctx, guest))

	mine, err := repo.FindByUser(ctx, userID, shared.Filter{})
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, second.ID, mine[0].ID)
	assert.Len(t, mine[0].Items, 2)

	all, total, err := repo.Find(ctx, order.Query{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, all, 2)
	assert.Equal(t, guest.ID, all[0].ID)

	require.NoError(t, first.UpdateStatus(order.StatusProcessing))
	require.NoError(t, repo.UpdateStatus(ctx, first))

	processing := order.StatusProcessing
	filtered, total, err := repo.Find(ctx, order.Query{Status: &processing})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, filtered, 1)
	assert.Equal(t, first.ID, filtered[0].ID)
}

func TestGormOrderRepository_UpdateStatusAndStats(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	delivered := placeTestOrder(t, nil)
	require.NoError(t, repo.Create(ctx, delivered))
	pending := placeTestOrder(t, nil, order.Line{ProductID: uuid.New(), Quantity: 1, Price: decimal.NewFromInt(10)})
	require.NoError(t, repo.Create(ctx, pending))

	for _, s := range []order.Status{order.StatusProcessing, order.StatusShipped, order.StatusDelivered} {
		require.NoError(t, delivered.UpdateStatus(s))
	}
	require.NoError(t, repo.UpdateStatus(ctx, delivered))

	reloaded, err := repo.FindByID(ctx, delivered.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusDelivered, reloaded.Status)
	assert.Equal(t, order.PaymentPaid, reloaded.PaymentStatus)

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.OrderCount)
	assert.Equal(t, int64(1), stats.ByStatus[order.StatusDelivered])
	assert.Equal(t, int64(1), stats.ByStatus[order.StatusPending])
	assert.True(t, stats.Revenue.Equal(decimal.RequireFromString("651.27")), stats.Revenue.String())

	missing := placeTestOrder(t, nil)
	assert.ErrorIs(t, repo.UpdateStatus(ctx, missing), shared.ErrNotFound)
}

func TestGormOrderRepository_StatsEmpty(t *testing.T) {
	repo := NewGormOrderRepository(setupTestDB(t))

	stats, err := repo.Stats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.OrderCount)
	assert.True(t, stats.Revenue.IsZero())
}
