package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	cartapp "github.com/styleco/storefront/internal/application/cart"
	"github.com/styleco/storefront/internal/interfaces/http/middleware"
)

// CartHandler serves the buyer's cart. The owner is resolved by the
// CartOwner middleware, so every route here works for guests and users alike.
type CartHandler struct {
	BaseHandler
	cartService *cartapp.Service
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService *cartapp.Service) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// Get godoc
// @Summary      Get the cart
// @Tags         cart
// @Produce      json
// @Success      200 {object} APIResponse[cartapp.Response]
// @Router       /cart [get]
func (h *CartHandler) Get(c *gin.Context) {
	resp, err := h.cartService.Get(c.Request.Context(), middleware.GetCartOwner(c))
	h.respond(c, http.StatusOK, resp, err)
}

// AddItem godoc
// @Summary      Add a product to the cart
// @Description  Adding a variant already in the cart increases its quantity
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request body cartapp.AddItemRequest true "Product variant"
// @Success      200 {object} APIResponse[cartapp.Response]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	var req cartapp.AddItemRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.cartService.AddItem(c.Request.Context(), middleware.GetCartOwner(c), req)
	h.respond(c, http.StatusOK, resp, err)
}

// UpdateItem godoc
// @Summary      Set the quantity of a cart line
// @Description  A quantity of 0 removes the line
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request body cartapp.UpdateItemRequest true "Line and quantity"
// @Success      200 {object} APIResponse[cartapp.Response]
// @Failure      400 {object} ErrorResponse
// @Router       /cart/items [patch]
func (h *CartHandler) UpdateItem(c *gin.Context) {
	var req cartapp.UpdateItemRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.cartService.UpdateQuantity(c.Request.Context(), middleware.GetCartOwner(c), req)
	h.respond(c, http.StatusOK, resp, err)
}

// RemoveItem godoc
// @Summary      Remove a cart line
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request body cartapp.RemoveItemRequest true "Line to remove"
// @Success      200 {object} APIResponse[cartapp.Response]
// @Router       /cart/items [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	var req cartapp.RemoveItemRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.cartService.RemoveItem(c.Request.Context(), middleware.GetCartOwner(c), req)
	h.respond(c, http.StatusOK, resp, err)
}

// Clear godoc
// @Summary      Empty the cart
// @Tags         cart
// @Produce      json
// @Success      200 {object} APIResponse[cartapp.Response]
// @Router       /cart [delete]
func (h *CartHandler) Clear(c *gin.Context) {
	resp, err := h.cartService.Clear(c.Request.Context(), middleware.GetCartOwner(c))
	h.respond(c, http.StatusOK, resp, err)
}
