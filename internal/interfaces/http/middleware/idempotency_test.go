package middleware

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestIdempotencyKey(t *testing.T) {
	engine := gin.New()
	engine.POST("/checkout", IdempotencyKey(), func(c *gin.Context) {
		c.String(http.StatusOK, GetIdempotencyKey(c))
	})

	assert.Equal(t, "abc-123", call(engine, http.MethodPost, "/checkout", nil, IdempotencyKeyHeader, "  abc-123 ").Body.String())
	assert.Empty(t, call(engine, http.MethodPost, "/checkout", nil).Body.String())

	w := call(engine, http.MethodPost, "/checkout", nil, IdempotencyKeyHeader, strings.Repeat("k", 256))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
