// Package middleware provides the gin middleware chain of the storefront API.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/styleco/storefront/internal/interfaces/http/dto"
)

// RequestIDKey is the gin context key holding the request id
const RequestIDKey = "request_id"

// abort stops the chain with the standard error envelope
func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, dto.NewErrorResponseWithRequestID(code, message, requestID(c)))
}

func requestID(c *gin.Context) string {
	if id := c.GetString(RequestIDKey); id != "" {
		return id
	}
	return truncate(c.GetHeader(RequestIDHeader), MaxRequestIDLength)
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
