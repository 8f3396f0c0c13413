package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHeroSection(t *testing.T) {
	h, err := NewHeroSection(HeroInput{
		Title:             " Summer Sale ",
		PrimaryButtonText: "Shop",
		PrimaryButtonLink: "/products",
	})
	require.NoError(t, err)
	assert.Equal(t, "Summer Sale", h.Title)
	assert.True(t, h.IsActive)

	_, err = NewHeroSection(HeroInput{Title: "x"})
	assert.Error(t, err)

	_, err = NewHeroSection(HeroInput{PrimaryButtonText: "Shop", PrimaryButtonLink: "/"})
	assert.Error(t, err)
}

func TestDefaultHero(t *testing.T) {
	h := DefaultHero()
	assert.NotEmpty(t, h.Title)
	assert.True(t, h.IsActive)
}
