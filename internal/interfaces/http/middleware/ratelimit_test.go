package middleware

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/styleco/storefront/internal/interfaces/http/dto"
)

func TestRateLimiter_Window(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	defer rl.Stop()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.mu.Lock()
	rl.now = func() time.Time { return now }
	rl.mu.Unlock()

	ok, remaining := rl.Allow("10.0.0.1")
	assert.True(t, ok)
	assert.Equal(t, 1, remaining)
	ok, remaining = rl.Allow("10.0.0.1")
	assert.True(t, ok)
	assert.Zero(t, remaining)
	ok, _ = rl.Allow("10.0.0.1")
	assert.False(t, ok)

	ok, _ = rl.Allow("10.0.0.2")
	assert.True(t, ok, "each client has its own budget")

	now = now.Add(time.Minute)
	ok, _ = rl.Allow("10.0.0.1")
	assert.True(t, ok, "a new window starts")
}

func TestRateLimit(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	defer rl.Stop()
	engine := gin.New()
	engine.Use(RateLimit(rl))
	engine.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := call(engine, http.MethodGet, "/x", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))

	w = call(engine, http.MethodGet, "/x", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, dto.ErrCodeRateLimited, errorCode(t, w))
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
}
