package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	orderapp "github.com/styleco/storefront/internal/application/order"
	"github.com/styleco/storefront/internal/domain/shared"
	"github.com/styleco/storefront/internal/infrastructure/realtime"
	"github.com/styleco/storefront/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// LiveFeed streams order events over a websocket
type LiveFeed interface {
	ServeWS(w http.ResponseWriter, r *http.Request) error
}

// OrderHandler serves buyer order history and the admin order desk
type OrderHandler struct {
	BaseHandler
	orderService *orderapp.Service
	sheets       orderapp.SheetWriter
	renderer     orderapp.PDFRenderer
	live         LiveFeed
	storeName    string
	logger       *zap.Logger
}

// OrderHandlerOption configures an OrderHandler
type OrderHandlerOption func(*OrderHandler)

// WithSheetWriter enables the spreadsheet export
func WithSheetWriter(w orderapp.SheetWriter) OrderHandlerOption {
	return func(h *OrderHandler) { h.sheets = w }
}

// WithPDFRenderer enables PDF printing; without it print returns HTML
func WithPDFRenderer(r orderapp.PDFRenderer) OrderHandlerOption {
	return func(h *OrderHandler) { h.renderer = r }
}

// WithLiveFeed enables the admin websocket feed
func WithLiveFeed(f LiveFeed) OrderHandlerOption {
	return func(h *OrderHandler) { h.live = f }
}

// WithStoreName sets the name printed on invoices
func WithStoreName(name string) OrderHandlerOption {
	return func(h *OrderHandler) { h.storeName = name }
}

// WithOrderLogger sets the logger
func WithOrderLogger(l *zap.Logger) OrderHandlerOption {
	return func(h *OrderHandler) {
		if l != nil {
			h.logger = l
		}
	}
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *orderapp.Service, opts ...OrderHandlerOption) *OrderHandler {
	h := &OrderHandler{orderService: orderService, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ListMine godoc
// @Summary      My orders
// @Description  Orders placed while signed in, newest first
// @Tags         orders
// @Produce      json
// @Success      200 {object} APIResponse[[]orderapp.OrderResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders [get]
func (h *OrderHandler) ListMine(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	orders, err := h.orderService.ListMine(c.Request.Context(), p.UserID)
	h.respond(c, http.StatusOK, orders, err)
}

// GetMine godoc
// @Summary      One of my orders
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} APIResponse[orderapp.OrderResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id} [get]
func (h *OrderHandler) GetMine(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	o, err := h.orderService.GetMine(c.Request.Context(), p.UserID, id)
	h.respond(c, http.StatusOK, o, err)
}

// List godoc
// @Summary      List orders (admin)
// @Tags         admin-orders
// @Produce      json
// @Param        status    query string false "pending, processing, shipped, delivered or cancelled"
// @Param        page      query int    false "Page number"
// @Param        page_size query int    false "Page size"
// @Success      200 {object} APIResponse[[]orderapp.OrderResponse]
// @Security     BearerAuth
// @Router       /admin/orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	var q orderapp.ListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	result, err := h.orderService.List(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Get godoc
// @Summary      Get an order (admin)
// @Tags         admin-orders
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} APIResponse[orderapp.OrderResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	o, err := h.orderService.Get(c.Request.Context(), id)
	h.respond(c, http.StatusOK, o, err)
}

// UpdateStatus godoc
// @Summary      Change an order's status
// @Description  Delivered also marks the order paid. Delivered and cancelled orders are final.
// @Tags         admin-orders
// @Accept       json
// @Produce      json
// @Param        id      path string                       true "Order ID"
// @Param        request body orderapp.UpdateStatusRequest true "New status"
// @Success      200 {object} APIResponse[orderapp.OrderResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req orderapp.UpdateStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	o, err := h.orderService.UpdateStatus(c.Request.Context(), id, req)
	h.respond(c, http.StatusOK, o, err)
}

// Stats godoc
// @Summary      Dashboard counters
// @Tags         admin-orders
// @Produce      json
// @Success      200 {object} APIResponse[orderapp.StatsResponse]
// @Security     BearerAuth
// @Router       /admin/stats [get]
func (h *OrderHandler) Stats(c *gin.Context) {
	stats, err := h.orderService.Stats(c.Request.Context())
	h.respond(c, http.StatusOK, stats, err)
}

// Export godoc
// @Summary      Export orders as a spreadsheet
// @Tags         admin-orders
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        status query string false "Only orders with this status"
// @Success      200 {file} file
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/orders/export [get]
func (h *OrderHandler) Export(c *gin.Context) {
	if h.sheets == nil {
		h.Fail(c, dto.ErrCodeUnavailable, "Order export is not configured")
		return
	}
	file, err := h.orderService.Export(c.Request.Context(), h.sheets, c.Query("status"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=\""+file.Name+"\"")
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

// Print godoc
// @Summary      Printable invoice
// @Description  A PDF when a renderer is configured, otherwise the HTML page. format=html forces HTML.
// @Tags         admin-orders
// @Produce      application/pdf,text/html
// @Param        id     path  string true  "Order ID"
// @Param        format query string false "pdf or html"
// @Success      200 {file} file
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/orders/{id}/print [get]
func (h *OrderHandler) Print(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if h.renderer != nil && c.Query("format") != "html" {
		pdf, err := h.orderService.PrintPDF(ctx, h.renderer, id, h.storeName)
		if err == nil {
			c.Header("Content-Disposition", "inline; filename=\"order-"+id.String()[:8]+".pdf\"")
			c.Header("Content-Length", strconv.Itoa(len(pdf)))
			c.Data(http.StatusOK, "application/pdf", pdf)
			return
		}
		var de *shared.DomainError
		if errors.As(err, &de) {
			h.HandleError(c, err)
			return
		}
		h.logger.Warn("PDF rendering failed, serving HTML invoice", zap.String("order_id", id.String()), zap.Error(err))
	}

	html, err := h.orderService.Invoice(ctx, id, h.storeName)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// Live godoc
// @Summary      Live order feed
// @Description  Websocket stream of order.placed and order.status_changed events. Browsers pass the access token as the subprotocol pair "bearer, <token>".
// @Tags         admin-orders
// @Success      101
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/orders/live [get]
func (h *OrderHandler) Live(c *gin.Context) {
	if h.live == nil {
		h.Fail(c, dto.ErrCodeUnavailable, "Live feed is not enabled")
		return
	}
	if err := h.live.ServeWS(c.Writer, c.Request); err != nil {
		if errors.Is(err, realtime.ErrTooManyClients) {
			h.Fail(c, dto.ErrCodeUnavailable, "Too many live feed connections")
			return
		}
		// the upgrader has already answered the client
		h.logger.Debug("Live feed upgrade failed", zap.Error(err))
	}
}
