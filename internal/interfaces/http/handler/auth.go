package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	cartapp "github.com/styleco/storefront/internal/application/cart"
	identityapp "github.com/styleco/storefront/internal/application/identity"
	"github.com/styleco/storefront/internal/infrastructure/session"
	"go.uber.org/zap"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	authService *identityapp.AuthService
	userService *identityapp.UserService
	cartService *cartapp.Service
	sessions    *session.Manager
	logger      *zap.Logger
}

// NewAuthHandler creates a new auth handler. cartService and sessions may be
// nil, in which case a guest cart is not carried over on sign in.
func NewAuthHandler(
	authService *identityapp.AuthService,
	userService *identityapp.UserService,
	cartService *cartapp.Service,
	sessions *session.Manager,
	logger *zap.Logger,
) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{
		authService: authService,
		userService: userService,
		cartService: cartService,
		sessions:    sessions,
		logger:      logger,
	}
}

// Register godoc
// @Summary      Create an account
// @Description  Creates a buyer account and signs it in. A guest cart is merged into the new account.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identityapp.RegisterRequest true "Account details"
// @Success      201 {object} APIResponse[identityapp.AuthResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req identityapp.RegisterRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.mergeGuestCart(c, resp.User.ID)
	h.respond(c, http.StatusCreated, resp, nil)
}

// Login godoc
// @Summary      Sign in
// @Description  Authenticate with email and password. A guest cart is merged into the account cart.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identityapp.LoginRequest true "Login credentials"
// @Success      200 {object} APIResponse[identityapp.AuthResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req identityapp.LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.mergeGuestCart(c, resp.User.ID)
	h.respond(c, http.StatusOK, resp, nil)
}

// mergeGuestCart moves the session's guest cart into the user's cart.
// Failure only costs the guest cart, so sign in still succeeds.
func (h *AuthHandler) mergeGuestCart(c *gin.Context, userID uuid.UUID) {
	if h.cartService == nil || h.sessions == nil {
		return
	}
	guestID, ok := h.sessions.PeekCartID(c.Request)
	if !ok {
		return
	}
	if _, err := h.cartService.Merge(c.Request.Context(), cartapp.GuestOwner(guestID), cartapp.UserOwner(userID)); err != nil {
		h.logger.Warn("Failed to merge guest cart on sign in",
			zap.String("user_id", userID.String()),
			zap.Error(err))
	}
}

// Logout godoc
// @Summary      Sign out
// @Description  Revokes the bearer token until it would have expired
// @Tags         auth
// @Success      204
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	if err := h.authService.Logout(c.Request.Context(), *p); err != nil {
		h.logger.Warn("Failed to revoke token on logout", zap.Error(err))
	}
	h.respond(c, http.StatusNoContent, nil, nil)
}

// Me godoc
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200 {object} APIResponse[identityapp.UserResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	user, err := h.authService.Me(c.Request.Context(), *p)
	h.respond(c, http.StatusOK, user, err)
}

// UpdateMe godoc
// @Summary      Edit own profile
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identityapp.UpdateProfileRequest true "Profile fields"
// @Success      200 {object} APIResponse[identityapp.UserResponse]
// @Security     BearerAuth
// @Router       /me [patch]
func (h *AuthHandler) UpdateMe(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	var req identityapp.UpdateProfileRequest
	if !h.bindJSON(c, &req) {
		return
	}
	user, err := h.userService.UpdateProfile(c.Request.Context(), p.UserID, req)
	h.respond(c, http.StatusOK, user, err)
}
