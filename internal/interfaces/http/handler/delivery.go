package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	deliveryapp "github.com/styleco/storefront/internal/application/delivery"
)

// DeliveryHandler serves governorate delivery prices
type DeliveryHandler struct {
	BaseHandler
	deliveryService *deliveryapp.Service
}

// NewDeliveryHandler creates a new DeliveryHandler
func NewDeliveryHandler(deliveryService *deliveryapp.Service) *DeliveryHandler {
	return &DeliveryHandler{deliveryService: deliveryService}
}

// ListActive godoc
// @Summary      Delivery prices
// @Description  Active governorates and their delivery fee, for the checkout form
// @Tags         delivery
// @Produce      json
// @Success      200 {object} APIResponse[[]deliveryapp.PriceResponse]
// @Router       /delivery-prices [get]
func (h *DeliveryHandler) ListActive(c *gin.Context) {
	prices, err := h.deliveryService.ListActive(c.Request.Context())
	h.respond(c, http.StatusOK, prices, err)
}

// ListAll godoc
// @Summary      All delivery prices (admin)
// @Tags         admin-delivery
// @Produce      json
// @Success      200 {object} APIResponse[[]deliveryapp.PriceResponse]
// @Security     BearerAuth
// @Router       /admin/delivery-prices [get]
func (h *DeliveryHandler) ListAll(c *gin.Context) {
	prices, err := h.deliveryService.ListAll(c.Request.Context())
	h.respond(c, http.StatusOK, prices, err)
}

// Create godoc
// @Summary      Add a governorate
// @Tags         admin-delivery
// @Accept       json
// @Produce      json
// @Param        request body deliveryapp.CreatePriceRequest true "Governorate and fee"
// @Success      201 {object} APIResponse[deliveryapp.PriceResponse]
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/delivery-prices [post]
func (h *DeliveryHandler) Create(c *gin.Context) {
	var req deliveryapp.CreatePriceRequest
	if !h.bindJSON(c, &req) {
		return
	}
	price, err := h.deliveryService.Create(c.Request.Context(), req)
	h.respond(c, http.StatusCreated, price, err)
}

// Update godoc
// @Summary      Change a delivery fee or its active flag
// @Tags         admin-delivery
// @Accept       json
// @Produce      json
// @Param        id      path string                         true "Price ID"
// @Param        request body deliveryapp.UpdatePriceRequest true "Fields to change"
// @Success      200 {object} APIResponse[deliveryapp.PriceResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/delivery-prices/{id} [patch]
func (h *DeliveryHandler) Update(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req deliveryapp.UpdatePriceRequest
	if !h.bindJSON(c, &req) {
		return
	}
	price, err := h.deliveryService.Update(c.Request.Context(), id, req)
	h.respond(c, http.StatusOK, price, err)
}
