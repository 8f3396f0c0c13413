package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	identityapp "github.com/styleco/storefront/internal/application/identity"
	"github.com/styleco/storefront/internal/domain/shared"
	"github.com/styleco/storefront/internal/infrastructure/logger"
	"github.com/styleco/storefront/internal/infrastructure/realtime"
	"github.com/styleco/storefront/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

const (
	// PrincipalKey is the gin context key holding *identityapp.Principal
	PrincipalKey  = "principal"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
	// WebSocketProtocolKey carries the token on websocket upgrades, where
	// browsers cannot set Authorization
	WebSocketProtocolKey = "Sec-WebSocket-Protocol"
)

// Authenticator resolves a bearer token to the calling user
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*identityapp.Principal, error)
}

// RequireAuth rejects requests without a valid bearer token
func RequireAuth(a Authenticator, log *zap.Logger) gin.HandlerFunc {
	return authenticate(a, log, true)
}

// OptionalAuth resolves the caller when a bearer token is present. A present
// but invalid token is still rejected so a stale session is not silently
// treated as a guest.
func OptionalAuth(a Authenticator, log *zap.Logger) gin.HandlerFunc {
	return authenticate(a, log, false)
}

func authenticate(a Authenticator, log *zap.Logger, required bool) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		token, present := bearerToken(c)
		if !present {
			if required {
				abort(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
				return
			}
			c.Next()
			return
		}

		p, err := a.Authenticate(c.Request.Context(), token)
		if err != nil {
			code, message := dto.ErrCodeTokenInvalid, "Invalid authentication token"
			var de *shared.DomainError
			if errors.As(err, &de) {
				code, message = dto.NormalizeErrorCode(de.Code), de.Message
			}
			log.Debug("Bearer token rejected", zap.String("path", c.Request.URL.Path), zap.Error(err))
			abort(c, http.StatusUnauthorized, code, message)
			return
		}

		c.Set(PrincipalKey, p)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), p.UserID.String()))
		c.Next()
	}
}

// RequireAdmin rejects callers whose token lacks the admin claim.
// It must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := GetPrincipal(c)
		if !ok {
			abort(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}
		if !p.IsAdmin {
			abort(c, http.StatusForbidden, dto.ErrCodeForbidden, "Admin access required")
			return
		}
		c.Next()
	}
}

// GetPrincipal returns the authenticated caller, if any
func GetPrincipal(c *gin.Context) (*identityapp.Principal, bool) {
	v, ok := c.Get(PrincipalKey)
	if !ok {
		return nil, false
	}
	p, ok := v.(*identityapp.Principal)
	return p, ok && p != nil
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader(AuthHeaderKey)
	if header == "" && c.IsWebsocket() {
		return subprotocolToken(c.GetHeader(WebSocketProtocolKey))
	}
	if !strings.HasPrefix(header, BearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
	return token, token != ""
}

// subprotocolToken reads "bearer, <token>" from the offered subprotocols
func subprotocolToken(header string) (string, bool) {
	parts := strings.Split(header, ",")
	if len(parts) != 2 || strings.TrimSpace(parts[0]) != realtime.AuthSubprotocol {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
