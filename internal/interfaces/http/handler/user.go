package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	identityapp "github.com/styleco/storefront/internal/application/identity"
)

// UserHandler is the admin user directory
type UserHandler struct {
	BaseHandler
	userService *identityapp.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *identityapp.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// List godoc
// @Summary      List users
// @Tags         admin-users
// @Produce      json
// @Param        q         query string false "Search email and name"
// @Param        page      query int    false "Page number"
// @Param        page_size query int    false "Page size"
// @Success      200 {object} APIResponse[[]identityapp.UserResponse]
// @Security     BearerAuth
// @Router       /admin/users [get]
func (h *UserHandler) List(c *gin.Context) {
	var q identityapp.UserListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	result, err := h.userService.List(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// GetByID godoc
// @Summary      Get a user
// @Tags         admin-users
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200 {object} APIResponse[identityapp.UserResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/users/{id} [get]
func (h *UserHandler) GetByID(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	user, err := h.userService.Get(c.Request.Context(), id)
	h.respond(c, http.StatusOK, user, err)
}

// SetAdmin godoc
// @Summary      Grant or revoke admin access
// @Description  Admins cannot change their own flag. The user's existing tokens are revoked.
// @Tags         admin-users
// @Accept       json
// @Produce      json
// @Param        id      path string                      true "User ID"
// @Param        request body identityapp.SetAdminRequest true "Admin flag"
// @Success      200 {object} APIResponse[identityapp.UserResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/users/{id}/admin [patch]
func (h *UserHandler) SetAdmin(c *gin.Context) {
	actor, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req identityapp.SetAdminRequest
	if !h.bindJSON(c, &req) {
		return
	}
	user, err := h.userService.SetAdmin(c.Request.Context(), actor.UserID, id, req.IsAdmin)
	h.respond(c, http.StatusOK, user, err)
}

// Update godoc
// @Summary      Edit a user's profile
// @Tags         admin-users
// @Accept       json
// @Produce      json
// @Param        id      path string                           true "User ID"
// @Param        request body identityapp.UpdateProfileRequest true "Profile fields"
// @Success      200 {object} APIResponse[identityapp.UserResponse]
// @Security     BearerAuth
// @Router       /admin/users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req identityapp.UpdateProfileRequest
	if !h.bindJSON(c, &req) {
		return
	}
	user, err := h.userService.UpdateProfile(c.Request.Context(), id, req)
	h.respond(c, http.StatusOK, user, err)
}

// Delete godoc
// @Summary      Delete a user
// @Description  Admins cannot delete themselves. Past orders are kept.
// @Tags         admin-users
// @Param        id path string true "User ID"
// @Success      204
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	actor, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	h.respond(c, http.StatusNoContent, nil, h.userService.Delete(c.Request.Context(), actor.UserID, id))
}
