package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/styleco/storefront/internal/domain/catalog"
	"github.com/styleco/storefront/internal/domain/shared"
)

// ProductService handles product-related business operations
type ProductService struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, categoryRepo catalog.CategoryRepository) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, req ProductRequest) (*ProductResponse, error) {
	product, err := catalog.NewProduct(req.input())
	if err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, product, nil); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// Update replaces a product's editable fields
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req ProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := product.Update(req.input()); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, product, &product.ID); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// SetActive shows or hides a product on the storefront
func (s *ProductService) SetActive(ctx context.Context, id uuid.UUID, active bool) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	product.SetActive(active)
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// Delete removes a product. Order items keep their snapshot.
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.productRepo.Delete(ctx, id)
}

// GetByID returns any product, active or not
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// GetBySlug returns an active product for the storefront product page
func (s *ProductService) GetBySlug(ctx context.Context, slug string) (*ProductResponse, error) {
	product, err := s.productRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, shared.NewDomainError("NOT_FOUND", "Product not found")
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// Featured returns up to FeaturedLimit active featured products, newest first
func (s *ProductService) Featured(ctx context.Context) ([]ProductResponse, error) {
	products, _, err := s.productRepo.Find(ctx, catalog.ProductQuery{
		FeaturedOnly: true,
		ActiveOnly:   true,
		SortBy:       catalog.SortNewest,
		Page:         1,
		PageSize:     FeaturedLimit,
	})
	if err != nil {
		return nil, err
	}
	return ToProductResponses(products), nil
}

// List returns active products for the storefront, including search
func (s *ProductService) List(ctx context.Context, q ProductListQuery) (*shared.Paginated[ProductResponse], error) {
	return s.list(ctx, q, true)
}

// ListAll returns every product for the admin console
func (s *ProductService) ListAll(ctx context.Context, q ProductListQuery) (*shared.Paginated[ProductResponse], error) {
	return s.list(ctx, q, false)
}

func (s *ProductService) list(ctx context.Context, q ProductListQuery, activeOnly bool) (*shared.Paginated[ProductResponse], error) {
	query, err := q.toDomain(activeOnly)
	if err != nil {
		return nil, err
	}
	if query.MinPrice != nil && query.MaxPrice != nil && query.MinPrice.GreaterThan(*query.MaxPrice) {
		return nil, shared.NewDomainError("INVALID_PRICE_FILTER", "Minimum price cannot exceed maximum price")
	}
	products, total, err := s.productRepo.Find(ctx, query)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(ToProductResponses(products), total, query.Page, query.PageSize)
	return &page, nil
}

// Count returns the number of products
func (s *ProductService) Count(ctx context.Context) (int64, error) {
	return s.productRepo.Count(ctx)
}

func (s *ProductService) checkReferences(ctx context.Context, p *catalog.Product, excludeID *uuid.UUID) error {
	exists, err := s.productRepo.ExistsBySlug(ctx, p.Slug, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "Product with this slug already exists")
	}
	if p.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *p.CategoryID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError("INVALID_CATEGORY", "Category not found")
			}
			return err
		}
	}
	return nil
}
