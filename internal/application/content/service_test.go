package content

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/styleco/storefront/internal/domain/content"
	"github.com/styleco/storefront/internal/domain/shared"
)

type MockHeroRepository struct {
	mock.Mock
}

func (m *MockHeroRepository) FindActive(ctx context.Context) (*content.HeroSection, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*content.HeroSection), args.Error(1)
}

func (m *MockHeroRepository) Save(ctx context.Context, h *content.HeroSection) error {
	return m.Called(ctx, h).Error(0)
}

func heroRequest() HeroRequest {
	return HeroRequest{
		Title:             "Autumn Drop",
		Subtitle:          "Layers for cooler evenings",
		PrimaryButtonText: "Shop Autumn",
		PrimaryButtonLink: "/categories/autumn",
	}
}

func TestService_Hero(t *testing.T) {
	ctx := context.Background()

	t.Run("default when none stored", func(t *testing.T) {
		repo := new(MockHeroRepository)
		repo.On("FindActive", ctx).Return(nil, shared.ErrNotFound)
		resp, err := NewService(repo).Hero(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Discover Your Style", resp.Title)
		assert.Nil(t, resp.ID)
	})

	t.Run("stored hero", func(t *testing.T) {
		hero, err := content.NewHeroSection(heroRequest().input())
		require.NoError(t, err)
		repo := new(MockHeroRepository)
		repo.On("FindActive", ctx).Return(hero, nil)
		resp, err := NewService(repo).Hero(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Autumn Drop", resp.Title)
		require.NotNil(t, resp.ID)
		assert.Equal(t, hero.ID, *resp.ID)
	})
}

func TestService_SaveHero(t *testing.T) {
	ctx := context.Background()

	t.Run("inserts when none active", func(t *testing.T) {
		repo := new(MockHeroRepository)
		repo.On("FindActive", ctx).Return(nil, shared.ErrNotFound)
		repo.On("Save", ctx, mock.MatchedBy(func(h *content.HeroSection) bool {
			return h.IsActive && h.Title == "Autumn Drop"
		})).Return(nil)
		resp, err := NewService(repo).SaveHero(ctx, heroRequest())
		require.NoError(t, err)
		assert.NotNil(t, resp.ID)
		repo.AssertExpectations(t)
	})

	t.Run("updates the active row", func(t *testing.T) {
		existing, err := content.NewHeroSection(content.HeroInput{Title: "Old", PrimaryButtonText: "Go", PrimaryButtonLink: "/"})
		require.NoError(t, err)
		repo := new(MockHeroRepository)
		repo.On("FindActive", ctx).Return(existing, nil)
		repo.On("Save", ctx, existing).Return(nil)
		resp, err := NewService(repo).SaveHero(ctx, heroRequest())
		require.NoError(t, err)
		assert.Equal(t, existing.ID, *resp.ID)
		assert.Equal(t, "Autumn Drop", existing.Title)
	})
}
