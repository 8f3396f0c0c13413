package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	cartapp "github.com/styleco/storefront/internal/application/cart"
	"github.com/styleco/storefront/internal/infrastructure/logger"
	"github.com/styleco/storefront/internal/infrastructure/session"
	"github.com/styleco/storefront/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

const (
	// CartOwnerKey is the gin context key holding the cart owner key
	CartOwnerKey = "cart_owner"
	// CSRFHeader carries the token on responses and unsafe requests
	CSRFHeader = "X-CSRF-Token"
)

// CartOwner resolves whose cart the request operates on: the signed-in user,
// or the guest cart id from the session cookie (issued on first use).
// It must run after OptionalAuth.
func CartOwner(sessions *session.Manager, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		var owner string
		if p, ok := GetPrincipal(c); ok {
			owner = cartapp.UserOwner(p.UserID)
		} else {
			id, err := sessions.CartID(c.Writer, c.Request)
			if err != nil {
				log.Error("Failed to issue guest cart session", zap.Error(err))
				abort(c, http.StatusInternalServerError, dto.ErrCodeInternal, "Failed to start a cart session")
				return
			}
			owner = cartapp.GuestOwner(id)
		}
		c.Set(CartOwnerKey, owner)
		c.Request = c.Request.WithContext(logger.WithCartOwner(c.Request.Context(), owner))
		c.Next()
	}
}

// GetCartOwner returns the owner key set by CartOwner
func GetCartOwner(c *gin.Context) string {
	return c.GetString(CartOwnerKey)
}

type ginContextKey struct{}

// CSRF enforces gorilla/csrf tokens on cookie-authenticated requests and
// echoes the current token in the X-CSRF-Token response header
func CSRF(sessions *session.Manager) gin.HandlerFunc {
	if !sessions.CSRFEnabled() {
		return func(c *gin.Context) { c.Next() }
	}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := r.Context().Value(ginContextKey{}).(*gin.Context)
		c.Request = r
		if token := session.Token(r); token != "" {
			w.Header().Set(CSRFHeader, token)
		}
		c.Next()
	})
	rejected := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := r.Context().Value(ginContextKey{}).(*gin.Context)
		reason := "CSRF token missing or invalid"
		if err := session.FailureReason(r); err != nil {
			reason = err.Error()
		}
		abort(c, http.StatusForbidden, dto.ErrCodeCSRF, reason)
	})
	protected := sessions.Protect(next, rejected)

	return func(c *gin.Context) {
		ctx := context.WithValue(c.Request.Context(), ginContextKey{}, c)
		protected.ServeHTTP(c.Writer, c.Request.WithContext(ctx))
	}
}
