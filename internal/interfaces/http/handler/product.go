package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/styleco/storefront/internal/application/catalog"
)

// ProductHandler handles product-related API endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// List godoc
// @Summary      List storefront products
// @Description  Active products only, filtered and sorted
// @Tags         products
// @Produce      json
// @Param        category_id query string false "Category ID"
// @Param        q           query string false "Search name and description"
// @Param        minPrice    query number false "Minimum price"
// @Param        maxPrice    query number false "Maximum price"
// @Param        inStock     query bool   false "Only products in stock"
// @Param        sortBy      query string false "price-asc, price-desc, newest or popular"
// @Param        page        query int    false "Page number" default(1)
// @Param        page_size   query int    false "Page size" default(24)
// @Success      200 {object} APIResponse[[]catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	var q catalogapp.ProductListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	result, err := h.productService.List(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Featured godoc
// @Summary      Featured products
// @Description  Up to four active featured products for the home page
// @Tags         products
// @Produce      json
// @Success      200 {object} APIResponse[[]catalogapp.ProductResponse]
// @Router       /products/featured [get]
func (h *ProductHandler) Featured(c *gin.Context) {
	products, err := h.productService.Featured(c.Request.Context())
	h.respond(c, http.StatusOK, products, err)
}

// GetBySlug godoc
// @Summary      Get a product by slug
// @Tags         products
// @Produce      json
// @Param        slug path string true "Product slug"
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /products/{slug} [get]
func (h *ProductHandler) GetBySlug(c *gin.Context) {
	product, err := h.productService.GetBySlug(c.Request.Context(), c.Param("slug"))
	h.respond(c, http.StatusOK, product, err)
}

// ListAll godoc
// @Summary      List all products (admin)
// @Description  Includes inactive products
// @Tags         admin-products
// @Produce      json
// @Param        q         query string false "Search"
// @Param        page      query int    false "Page number"
// @Param        page_size query int    false "Page size"
// @Success      200 {object} APIResponse[[]catalogapp.ProductResponse]
// @Security     BearerAuth
// @Router       /admin/products [get]
func (h *ProductHandler) ListAll(c *gin.Context) {
	var q catalogapp.ProductListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	result, err := h.productService.ListAll(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// GetByID godoc
// @Summary      Get a product by ID (admin)
// @Tags         admin-products
// @Produce      json
// @Param        id path string true "Product ID"
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/products/{id} [get]
func (h *ProductHandler) GetByID(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	product, err := h.productService.GetByID(c.Request.Context(), id)
	h.respond(c, http.StatusOK, product, err)
}

// Create godoc
// @Summary      Create a product
// @Description  The slug is derived from the name when omitted
// @Tags         admin-products
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.ProductRequest true "Product"
// @Success      201 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalogapp.ProductRequest
	if !h.bindJSON(c, &req) {
		return
	}
	product, err := h.productService.Create(c.Request.Context(), req)
	h.respond(c, http.StatusCreated, product, err)
}

// Update godoc
// @Summary      Replace a product
// @Tags         admin-products
// @Accept       json
// @Produce      json
// @Param        id      path string                    true "Product ID"
// @Param        request body catalogapp.ProductRequest true "Product"
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req catalogapp.ProductRequest
	if !h.bindJSON(c, &req) {
		return
	}
	product, err := h.productService.Update(c.Request.Context(), id, req)
	h.respond(c, http.StatusOK, product, err)
}

// SetActive godoc
// @Summary      Show or hide a product
// @Tags         admin-products
// @Accept       json
// @Produce      json
// @Param        id      path string                      true "Product ID"
// @Param        request body catalogapp.SetActiveRequest true "Visibility"
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Security     BearerAuth
// @Router       /admin/products/{id}/active [patch]
func (h *ProductHandler) SetActive(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req catalogapp.SetActiveRequest
	if !h.bindJSON(c, &req) {
		return
	}
	product, err := h.productService.SetActive(c.Request.Context(), id, req.IsActive)
	h.respond(c, http.StatusOK, product, err)
}

// Delete godoc
// @Summary      Delete a product
// @Tags         admin-products
// @Param        id path string true "Product ID"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	h.respond(c, http.StatusNoContent, nil, h.productService.Delete(c.Request.Context(), id))
}
