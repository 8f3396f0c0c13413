package catalog

import (
	"strings"

	"github.com/styleco/storefront/internal/domain/shared"
)

// Category groups products for browsing
type Category struct {
	shared.BaseEntity
	Name        string
	Slug        string
	Description string
	ImageURL    string
}

// NewCategory creates a category
func NewCategory(name, slug, description, imageURL string) (*Category, error) {
	c := &Category{BaseEntity: shared.NewBaseEntity()}
	if err := c.Update(name, slug, description, imageURL); err != nil {
		return nil, err
	}
	return c, nil
}

// Update replaces the editable fields
func (c *Category) Update(name, slug, description, imageURL string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot exceed 100 characters")
	}
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		slug = Slugify(name)
	}
	if err := ValidateSlug(slug); err != nil {
		return err
	}
	c.Name = name
	c.Slug = slug
	c.Description = strings.TrimSpace(description)
	c.ImageURL = strings.TrimSpace(imageURL)
	c.Touch()
	return nil
}
