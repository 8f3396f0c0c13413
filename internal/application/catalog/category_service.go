package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/styleco/storefront/internal/domain/catalog"
	"github.com/styleco/storefront/internal/domain/shared"
)

// CategoryService handles category-related business operations
type CategoryService struct {
	categoryRepo catalog.CategoryRepository
	productRepo  catalog.ProductRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo catalog.CategoryRepository, productRepo catalog.ProductRepository) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
	}
}

// Create creates a new category
func (s *CategoryService) Create(ctx context.Context, req CategoryRequest) (*CategoryResponse, error) {
	category, err := catalog.NewCategory(req.Name, req.Slug, req.Description, req.ImageURL)
	if err != nil {
		return nil, err
	}
	if err := s.checkSlug(ctx, category.Slug, nil); err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(category)
	return &resp, nil
}

// Update replaces a category's fields
func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, req CategoryRequest) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := category.Update(req.Name, req.Slug, req.Description, req.ImageURL); err != nil {
		return nil, err
	}
	if err := s.checkSlug(ctx, category.Slug, &category.ID); err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(category)
	return &resp, nil
}

// Delete removes a category; its products become uncategorized
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.categoryRepo.Delete(ctx, id)
}

// GetByID returns a category
func (s *CategoryService) GetByID(ctx context.Context, id uuid.UUID) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(category)
	return &resp, nil
}

// List returns every category ordered by name
func (s *CategoryService) List(ctx context.Context) ([]CategoryResponse, error) {
	categories, err := s.categoryRepo.FindAll(ctx, shared.Filter{OrderBy: "name", OrderDir: "asc"})
	if err != nil {
		return nil, err
	}
	return ToCategoryResponses(categories), nil
}

// Page returns the category with the given slug and its active products,
// filtered and sorted by q
func (s *CategoryService) Page(ctx context.Context, slug string, q ProductListQuery) (*CategoryPageResponse, error) {
	category, err := s.categoryRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	q.CategoryID = &category.ID
	query, err := q.toDomain(true)
	if err != nil {
		return nil, err
	}
	products, total, err := s.productRepo.Find(ctx, query)
	if err != nil {
		return nil, err
	}
	return &CategoryPageResponse{
		Category: ToCategoryResponse(category),
		Products: ToProductResponses(products),
		Total:    total,
		Page:     query.Page,
		PageSize: query.PageSize,
	}, nil
}

func (s *CategoryService) checkSlug(ctx context.Context, slug string, excludeID *uuid.UUID) error {
	exists, err := s.categoryRepo.ExistsBySlug(ctx, slug, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "Category with this slug already exists")
	}
	return nil
}
