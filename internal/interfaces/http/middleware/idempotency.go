package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/styleco/storefront/internal/interfaces/http/dto"
)

const (
	// IdempotencyKeyHeader deduplicates retried checkout submissions
	IdempotencyKeyHeader = "Idempotency-Key"
	idempotencyKey       = "idempotency_key"
	maxIdempotencyKeyLen = 255
)

// IdempotencyKey validates the optional Idempotency-Key header and stores it
// for the handler
func IdempotencyKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
		if len(key) > maxIdempotencyKeyLen {
			abort(c, http.StatusBadRequest, dto.ErrCodeBadRequest, "Idempotency-Key must be at most 255 characters")
			return
		}
		if key != "" {
			c.Set(idempotencyKey, key)
		}
		c.Next()
	}
}

// GetIdempotencyKey returns the validated key, or ""
func GetIdempotencyKey(c *gin.Context) string {
	return c.GetString(idempotencyKey)
}
