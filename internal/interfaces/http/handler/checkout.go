package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	checkoutapp "github.com/styleco/storefront/internal/application/checkout"
	"github.com/styleco/storefront/internal/interfaces/http/middleware"
)

// CheckoutHandler quotes and places orders from the current cart
type CheckoutHandler struct {
	BaseHandler
	checkoutService *checkoutapp.Service
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(checkoutService *checkoutapp.Service) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// Quote godoc
// @Summary      Price the cart
// @Description  Subtotal, 8% tax and the delivery fee for the governorate. An unknown governorate prices delivery at 0.
// @Tags         checkout
// @Produce      json
// @Param        governorate query string false "Delivery governorate"
// @Success      200 {object} APIResponse[checkoutapp.QuoteResponse]
// @Router       /checkout/quote [get]
func (h *CheckoutHandler) Quote(c *gin.Context) {
	resp, err := h.checkoutService.Quote(c.Request.Context(), middleware.GetCartOwner(c), c.Query("governorate"))
	h.respond(c, http.StatusOK, resp, err)
}

// Submit godoc
// @Summary      Place an order
// @Description  Places an order for the cart contents. The cart is cleared only when the order is stored.
// @Description  Guests may check out; a bearer token links the order to the account.
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Deduplicates retried submissions"
// @Param        request body checkoutapp.SubmitRequest true "Shipping details"
// @Success      201 {object} APIResponse[checkoutapp.Confirmation]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /checkout [post]
func (h *CheckoutHandler) Submit(c *gin.Context) {
	var req checkoutapp.SubmitRequest
	if !h.bindJSON(c, &req) {
		return
	}

	sub := checkoutapp.Submission{
		Owner:          middleware.GetCartOwner(c),
		IdempotencyKey: middleware.GetIdempotencyKey(c),
		Request:        req,
	}
	if p, ok := middleware.GetPrincipal(c); ok {
		userID := p.UserID
		sub.UserID = &userID
	}

	resp, err := h.checkoutService.Submit(c.Request.Context(), sub)
	h.respond(c, http.StatusCreated, resp, err)
}
