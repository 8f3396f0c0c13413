// Package content serves editable storefront content such as the home page hero.
package content

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/styleco/storefront/internal/domain/content"
	"github.com/styleco/storefront/internal/domain/shared"
)

// HeroRequest replaces the hero section
type HeroRequest struct {
	Title               string `json:"title" binding:"required,max=200"`
	Subtitle            string `json:"subtitle" binding:"max=500"`
	BackgroundImageURL  string `json:"background_image_url" binding:"omitempty,url,max=500"`
	PrimaryButtonText   string `json:"primary_button_text" binding:"required,max=50"`
	PrimaryButtonLink   string `json:"primary_button_link" binding:"required,max=200"`
	SecondaryButtonText string `json:"secondary_button_text" binding:"max=50"`
	SecondaryButtonLink string `json:"secondary_button_link" binding:"max=200"`
}

func (r HeroRequest) input() content.HeroInput {
	return content.HeroInput{
		Title:               r.Title,
		Subtitle:            r.Subtitle,
		BackgroundImageURL:  r.BackgroundImageURL,
		PrimaryButtonText:   r.PrimaryButtonText,
		PrimaryButtonLink:   r.PrimaryButtonLink,
		SecondaryButtonText: r.SecondaryButtonText,
		SecondaryButtonLink: r.SecondaryButtonLink,
	}
}

// HeroResponse represents the hero section in API responses
type HeroResponse struct {
	ID                  *uuid.UUID `json:"id,omitempty"`
	Title               string     `json:"title"`
	Subtitle            string     `json:"subtitle"`
	BackgroundImageURL  string     `json:"background_image_url,omitempty"`
	PrimaryButtonText   string     `json:"primary_button_text"`
	PrimaryButtonLink   string     `json:"primary_button_link"`
	SecondaryButtonText string     `json:"secondary_button_text,omitempty"`
	SecondaryButtonLink string     `json:"secondary_button_link,omitempty"`
	UpdatedAt           *time.Time `json:"updated_at,omitempty"`
}

func toResponse(h *content.HeroSection) HeroResponse {
	resp := HeroResponse{
		Title:               h.Title,
		Subtitle:            h.Subtitle,
		BackgroundImageURL:  h.BackgroundImageURL,
		PrimaryButtonText:   h.PrimaryButtonText,
		PrimaryButtonLink:   h.PrimaryButtonLink,
		SecondaryButtonText: h.SecondaryButtonText,
		SecondaryButtonLink: h.SecondaryButtonLink,
	}
	if h.ID != uuid.Nil {
		id, updated := h.ID, h.UpdatedAt
		resp.ID = &id
		resp.UpdatedAt = &updated
	}
	return resp
}

// Service handles hero section reads and edits
type Service struct {
	heroes content.HeroRepository
}

// NewService creates a new content Service
func NewService(heroes content.HeroRepository) *Service {
	return &Service{heroes: heroes}
}

// Hero returns the active hero, or the built-in default when none is stored
func (s *Service) Hero(ctx context.Context) (*HeroResponse, error) {
	hero, err := s.heroes.FindActive(ctx)
	if errors.Is(err, shared.ErrNotFound) {
		def := content.DefaultHero()
		resp := toResponse(&def)
		return &resp, nil
	}
	if err != nil {
		return nil, err
	}
	resp := toResponse(hero)
	return &resp, nil
}

// SaveHero updates the active hero section, creating one if none exists
func (s *Service) SaveHero(ctx context.Context, req HeroRequest) (*HeroResponse, error) {
	hero, err := s.heroes.FindActive(ctx)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		hero, err = content.NewHeroSection(req.input())
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		if err := hero.Update(req.input()); err != nil {
			return nil, err
		}
	}
	if err := s.heroes.Save(ctx, hero); err != nil {
		return nil, err
	}
	resp := toResponse(hero)
	return &resp, nil
}
