package persistence

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/styleco/storefront/internal/domain/content"
	"github.com/styleco/storefront/internal/domain/delivery"
	"github.com/styleco/storefront/internal/domain/shared"
)

func TestGormDeliveryPriceRepository(t *testing.T) {
	repo := NewGormDeliveryPriceRepository(setupTestDB(t))
	ctx := context.Background()

	for name, price := range map[string]int64{"Giza": 35, "Alexandria": 45, "Cairo": 30} {
		p, err := delivery.NewGovernoratePrice(name, decimal.NewFromInt(price))
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, p))
	}

	giza, err := repo.FindActiveByGovernorate(ctx, "Giza")
	require.NoError(t, err)
	assert.True(t, giza.DeliveryPrice.Equal(decimal.NewFromInt(35)))

	giza.SetActive(false)
	require.NoError(t, repo.Save(ctx, giza))

	_, err = repo.FindActiveByGovernorate(ctx, "Giza")
	assert.ErrorIs(t, err, shared.ErrNotFound)
	_, err = repo.FindActiveByGovernorate(ctx, "cairo")
	assert.ErrorIs(t, err, shared.ErrNotFound, "names match exactly")

	all, err := repo.FindAll(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"Alexandria", "Cairo", "Giza"}, []string{all[0].Governorate, all[1].Governorate, all[2].Governorate})

	active, err := repo.FindAll(ctx, true)
	require.NoError(t, err)
	assert.Len(t, active, 2)

	exists, err := repo.ExistsByGovernorate(ctx, "Giza")
	require.NoError(t, err)
	assert.True(t, exists)

	byID, err := repo.FindByID(ctx, giza.ID)
	require.NoError(t, err)
	assert.False(t, byID.IsActive)
}

func TestGormDeliveryPriceRepository_CreatedInactive(t *testing.T) {
	repo := NewGormDeliveryPriceRepository(setupTestDB(t))
	ctx := context.Background()

	aswan, err := delivery.NewGovernoratePrice("Aswan", decimal.NewFromInt(80))
	require.NoError(t, err)
	aswan.SetActive(false)
	require.NoError(t, repo.Save(ctx, aswan))

	_, err = repo.FindActiveByGovernorate(ctx, "Aswan")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	stored, err := repo.FindByID(ctx, aswan.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
}

func TestGormHeroRepository_CreatedInactive(t *testing.T) {
	repo := NewGormHeroRepository(setupTestDB(t))
	ctx := context.Background()

	draft, err := content.NewHeroSection(content.HeroInput{Title: "Draft", PrimaryButtonText: "Shop", PrimaryButtonLink: "/products"})
	require.NoError(t, err)
	draft.IsActive = false
	require.NoError(t, repo.Save(ctx, draft))

	_, err = repo.FindActive(ctx)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormHeroRepository(t *testing.T) {
	repo := NewGormHeroRepository(setupTestDB(t))
	ctx := context.Background()

	_, err := repo.FindActive(ctx)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	first, err := content.NewHeroSection(content.HeroInput{Title: "Summer Sale", PrimaryButtonText: "Shop", PrimaryButtonLink: "/products"})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, first))

	second, err := content.NewHeroSection(content.HeroInput{Title: "New Arrivals", PrimaryButtonText: "Browse", PrimaryButtonLink: "/categories"})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, second))

	active, err := repo.FindActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)

	require.NoError(t, second.Update(content.HeroInput{Title: "Autumn Drop", PrimaryButtonText: "Browse", PrimaryButtonLink: "/categories"}))
	require.NoError(t, repo.Save(ctx, second))

	active, err = repo.FindActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Autumn Drop", active.Title)
}
