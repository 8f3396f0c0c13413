package catalog

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/styleco/storefront/internal/domain/shared"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Product is a sellable item in the storefront catalog.
// Cart lines and order items copy what they need from it; they never hold a live reference.
type Product struct {
	shared.BaseEntity
	Name          string
	Slug          string
	Description   string
	Price         decimal.Decimal
	ComparePrice  *decimal.Decimal
	CategoryID    *uuid.UUID
	Images        []string
	Sizes         []string
	Colors        []string
	StockQuantity int
	IsFeatured    bool
	IsActive      bool
}

// ProductInput carries the editable product fields
type ProductInput struct {
	Name          string
	Slug          string
	Description   string
	Price         decimal.Decimal
	ComparePrice  *decimal.Decimal
	CategoryID    *uuid.UUID
	Images        []string
	Sizes         []string
	Colors        []string
	StockQuantity int
	IsFeatured    bool
	IsActive      bool
}

// NewProduct creates a product from validated input
func NewProduct(in ProductInput) (*Product, error) {
	p := &Product{BaseEntity: shared.NewBaseEntity()}
	if err := p.apply(in); err != nil {
		return nil, err
	}
	return p, nil
}

// Update replaces the editable fields
func (p *Product) Update(in ProductInput) error {
	if err := p.apply(in); err != nil {
		return err
	}
	p.Touch()
	return nil
}

func (p *Product) apply(in ProductInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	slug := strings.ToLower(strings.TrimSpace(in.Slug))
	if slug == "" {
		slug = Slugify(name)
	}
	if err := ValidateSlug(slug); err != nil {
		return err
	}
	if !in.Price.IsPositive() {
		return shared.NewDomainError("INVALID_PRICE", "Price must be greater than zero")
	}
	if in.ComparePrice != nil && in.ComparePrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Compare price cannot be negative")
	}
	if in.StockQuantity < 0 {
		return shared.NewDomainError("INVALID_STOCK", "Stock quantity cannot be negative")
	}

	p.Name = name
	p.Slug = slug
	p.Description = strings.TrimSpace(in.Description)
	p.Price = in.Price
	p.ComparePrice = in.ComparePrice
	p.CategoryID = in.CategoryID
	p.Images = compact(in.Images)
	p.Sizes = compact(in.Sizes)
	p.Colors = compact(in.Colors)
	p.StockQuantity = in.StockQuantity
	p.IsFeatured = in.IsFeatured
	p.IsActive = in.IsActive
	return nil
}

// SetActive toggles storefront visibility
func (p *Product) SetActive(active bool) {
	p.IsActive = active
	p.Touch()
}

// InStock reports whether at least one unit is available
func (p *Product) InStock() bool {
	return p.StockQuantity > 0
}

// OffersSize reports whether size is a valid choice. An empty size is valid
// only when the product has no size options.
func (p *Product) OffersSize(size string) bool {
	return offers(p.Sizes, size)
}

// OffersColor mirrors OffersSize for colors
func (p *Product) OffersColor(color string) bool {
	return offers(p.Colors, color)
}

// PrimaryImage returns the first image URL or ""
func (p *Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

func offers(options []string, v string) bool {
	if v == "" {
		return true
	}
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// ValidateSlug checks the URL slug format
func ValidateSlug(slug string) error {
	if slug == "" {
		return shared.NewDomainError("INVALID_SLUG", "Slug cannot be empty")
	}
	if len(slug) > 200 {
		return shared.NewDomainError("INVALID_SLUG", "Slug cannot exceed 200 characters")
	}
	if !slugPattern.MatchString(slug) {
		return shared.NewDomainError("INVALID_SLUG", "Slug may only contain lowercase letters, digits and single hyphens")
	}
	return nil
}

// Slugify derives a slug from a display name
func Slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
