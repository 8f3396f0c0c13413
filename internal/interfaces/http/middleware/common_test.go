package middleware

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCORS(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowOrigins = []string{"https://shop.example.com"}
	engine := gin.New()
	engine.Use(CORS(cfg))
	engine.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	const shop, evil = "https://shop.example.com", "https://evil.example.com"
	tests := []struct {
		method     string
		origin     string
		wantStatus int
		allowed    bool
	}{
		{http.MethodGet, shop, http.StatusOK, true},
		{http.MethodGet, evil, http.StatusOK, false},
		{http.MethodOptions, shop, http.StatusNoContent, true},
		{http.MethodOptions, evil, http.StatusNoContent, false},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.origin, func(t *testing.T) {
			w := call(engine, tt.method, "/x", nil, "Origin", tt.origin)
			assert.Equal(t, tt.wantStatus, w.Code)
			if !tt.allowed {
				assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
				return
			}
			assert.Equal(t, tt.origin, w.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
			assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), IdempotencyKeyHeader)
		})
	}
}

func TestRequestID(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestID())
	engine.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })

	w := call(engine, http.MethodGet, "/x", nil)
	id := w.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, w.Body.String())

	w = call(engine, http.MethodGet, "/x", nil, RequestIDHeader, "checkout-42")
	assert.Equal(t, "checkout-42", w.Body.String())

	w = call(engine, http.MethodGet, "/x", nil, RequestIDHeader, strings.Repeat("a", 300))
	assert.Len(t, w.Header().Get(RequestIDHeader), MaxRequestIDLength)
}

func TestSecure(t *testing.T) {
	cfg := DefaultSecurityConfig()
	cfg.HSTSEnabled = true
	engine := gin.New()
	engine.Use(Secure(cfg))
	engine.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	h := call(engine, http.MethodGet, "/x", nil).Header()
	assert.Equal(t, "DENY", h.Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", h.Get("X-Content-Type-Options"))
	assert.Contains(t, h.Get("Strict-Transport-Security"), "max-age=31536000")
}
