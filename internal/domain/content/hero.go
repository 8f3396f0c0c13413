package content

import (
	"context"
	"strings"

	"github.com/styleco/storefront/internal/domain/shared"
)

// HeroSection is the banner on the storefront home page. At most one is active.
type HeroSection struct {
	shared.BaseEntity
	Title               string
	Subtitle            string
	BackgroundImageURL  string
	PrimaryButtonText   string
	PrimaryButtonLink   string
	SecondaryButtonText string
	SecondaryButtonLink string
	IsActive            bool
}

// HeroInput carries the editable hero fields
type HeroInput struct {
	Title               string
	Subtitle            string
	BackgroundImageURL  string
	PrimaryButtonText   string
	PrimaryButtonLink   string
	SecondaryButtonText string
	SecondaryButtonLink string
}

// DefaultHero is served when no hero section has been configured
func DefaultHero() HeroSection {
	return HeroSection{
		Title:               "Discover Your Style",
		Subtitle:            "Shop the latest trends in fashion",
		PrimaryButtonText:   "Shop Now",
		PrimaryButtonLink:   "/products",
		SecondaryButtonText: "Browse Categories",
		SecondaryButtonLink: "/categories",
		IsActive:            true,
	}
}

// NewHeroSection creates an active hero section
func NewHeroSection(in HeroInput) (*HeroSection, error) {
	h := &HeroSection{BaseEntity: shared.NewBaseEntity(), IsActive: true}
	if err := h.Update(in); err != nil {
		return nil, err
	}
	return h, nil
}

// Update replaces the editable fields
func (h *HeroSection) Update(in HeroInput) error {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Hero title cannot be empty")
	}
	if strings.TrimSpace(in.PrimaryButtonText) == "" || strings.TrimSpace(in.PrimaryButtonLink) == "" {
		return shared.NewDomainError("INVALID_BUTTON", "Primary button text and link are required")
	}
	h.Title = title
	h.Subtitle = strings.TrimSpace(in.Subtitle)
	h.BackgroundImageURL = strings.TrimSpace(in.BackgroundImageURL)
	h.PrimaryButtonText = strings.TrimSpace(in.PrimaryButtonText)
	h.PrimaryButtonLink = strings.TrimSpace(in.PrimaryButtonLink)
	h.SecondaryButtonText = strings.TrimSpace(in.SecondaryButtonText)
	h.SecondaryButtonLink = strings.TrimSpace(in.SecondaryButtonLink)
	h.Touch()
	return nil
}

// HeroRepository defines persistence for hero sections
type HeroRepository interface {
	// FindActive returns shared.ErrNotFound when no section is active
	FindActive(ctx context.Context) (*HeroSection, error)
	Save(ctx context.Context, h *HeroSection) error
}
