package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	notificationapp "github.com/styleco/storefront/internal/application/notification"
)

// NotificationHandler exposes admin notification checks
type NotificationHandler struct {
	BaseHandler
	notificationService *notificationapp.Service
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notificationService *notificationapp.Service) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// TestEmail godoc
// @Summary      Send a test order email
// @Description  Sends a sample order notification to the admin address. Delivery failures are reported in the body.
// @Tags         admin-notifications
// @Produce      json
// @Success      200 {object} APIResponse[notificationapp.TestEmailResponse]
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/notifications/test-email [post]
func (h *NotificationHandler) TestEmail(c *gin.Context) {
	resp, err := h.notificationService.SendTestEmail(c.Request.Context())
	h.respond(c, http.StatusOK, resp, err)
}
