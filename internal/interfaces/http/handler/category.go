package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/styleco/storefront/internal/application/catalog"
)

// CategoryHandler handles category-related API endpoints
type CategoryHandler struct {
	BaseHandler
	categoryService *catalogapp.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService *catalogapp.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
	}
}

// List godoc
// @Summary      List categories
// @Tags         categories
// @Produce      json
// @Success      200 {object} APIResponse[[]catalogapp.CategoryResponse]
// @Router       /categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.categoryService.List(c.Request.Context())
	h.respond(c, http.StatusOK, categories, err)
}

// Page godoc
// @Summary      Category page
// @Description  The category and its active products, with the same filters as the product list
// @Tags         categories
// @Produce      json
// @Param        slug      path  string true  "Category slug"
// @Param        q         query string false "Search"
// @Param        minPrice  query number false "Minimum price"
// @Param        maxPrice  query number false "Maximum price"
// @Param        inStock   query bool   false "Only products in stock"
// @Param        sortBy    query string false "Sort order"
// @Param        page      query int    false "Page number"
// @Param        page_size query int    false "Page size"
// @Success      200 {object} APIResponse[catalogapp.CategoryPageResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /categories/{slug} [get]
func (h *CategoryHandler) Page(c *gin.Context) {
	var q catalogapp.ProductListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	page, err := h.categoryService.Page(c.Request.Context(), c.Param("slug"), q)
	h.respond(c, http.StatusOK, page, err)
}

// GetByID godoc
// @Summary      Get a category (admin)
// @Tags         admin-categories
// @Produce      json
// @Param        id path string true "Category ID"
// @Success      200 {object} APIResponse[catalogapp.CategoryResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/categories/{id} [get]
func (h *CategoryHandler) GetByID(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	category, err := h.categoryService.GetByID(c.Request.Context(), id)
	h.respond(c, http.StatusOK, category, err)
}

// Create godoc
// @Summary      Create a category
// @Tags         admin-categories
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CategoryRequest true "Category"
// @Success      201 {object} APIResponse[catalogapp.CategoryResponse]
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req catalogapp.CategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	category, err := h.categoryService.Create(c.Request.Context(), req)
	h.respond(c, http.StatusCreated, category, err)
}

// Update godoc
// @Summary      Replace a category
// @Tags         admin-categories
// @Accept       json
// @Produce      json
// @Param        id      path string                     true "Category ID"
// @Param        request body catalogapp.CategoryRequest true "Category"
// @Success      200 {object} APIResponse[catalogapp.CategoryResponse]
// @Security     BearerAuth
// @Router       /admin/categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req catalogapp.CategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	category, err := h.categoryService.Update(c.Request.Context(), id, req)
	h.respond(c, http.StatusOK, category, err)
}

// Delete godoc
// @Summary      Delete a category
// @Description  Products in the category are kept and become uncategorized
// @Tags         admin-categories
// @Param        id path string true "Category ID"
// @Success      204
// @Security     BearerAuth
// @Router       /admin/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	h.respond(c, http.StatusNoContent, nil, h.categoryService.Delete(c.Request.Context(), id))
}
