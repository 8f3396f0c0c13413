package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/styleco/storefront/internal/interfaces/http/dto"
)

func bodyLimitRouter(limit int64, overrides ...BodyLimitOverride) *gin.Engine {
	router := gin.New()
	router.Use(BodyLimit(limit, overrides...))
	read := func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.String(http.StatusBadRequest, "read failed")
			return
		}
		c.String(http.StatusOK, "ok")
	}
	router.POST("/api/v1/checkout", read)
	router.POST("/api/v1/admin/images", read)
	router.POST("/api/v1/admin/images/presign", read)
	router.GET("/api/v1/products", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	return router
}

func post(router *gin.Engine, path string, size int, declared bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(strings.Repeat("x", size)))
	if !declared {
		req.ContentLength = -1
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestBodyLimit(t *testing.T) {
	t.Run("checkout body within the limit", func(t *testing.T) {
		w := post(bodyLimitRouter(1024), "/api/v1/checkout", 200, true)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("declared size over the limit is refused before the handler", func(t *testing.T) {
		w := post(bodyLimitRouter(100), "/api/v1/checkout", 200, true)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Contains(t, w.Body.String(), dto.ErrCodeTooLarge)
	})

	t.Run("undeclared size is cut off while reading", func(t *testing.T) {
		w := post(bodyLimitRouter(50), "/api/v1/checkout", 100, false)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bodiless GET passes", func(t *testing.T) {
		w := httptest.NewRecorder()
		bodyLimitRouter(10).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("image upload uses its own limit", func(t *testing.T) {
		router := bodyLimitRouter(100, BodyLimitOverride{PathPrefix: "/api/v1/admin/images", MaxBytes: 1000})

		assert.Equal(t, http.StatusOK, post(router, "/api/v1/admin/images", 500, true).Code)
		assert.Equal(t, http.StatusRequestEntityTooLarge, post(router, "/api/v1/admin/images", 1500, true).Code)
		assert.Equal(t, http.StatusRequestEntityTooLarge, post(router, "/api/v1/checkout", 500, true).Code)
	})

	t.Run("longest prefix wins", func(t *testing.T) {
		router := bodyLimitRouter(100,
			BodyLimitOverride{PathPrefix: "/api/v1/admin/images", MaxBytes: 1000},
			BodyLimitOverride{PathPrefix: "/api/v1/admin/images/presign", MaxBytes: 50},
		)

		assert.Equal(t, http.StatusRequestEntityTooLarge, post(router, "/api/v1/admin/images/presign", 80, true).Code)
		assert.Equal(t, http.StatusOK, post(router, "/api/v1/admin/images", 80, true).Code)
	})

	t.Run("non-positive limit disables the cap", func(t *testing.T) {
		router := bodyLimitRouter(10, BodyLimitOverride{PathPrefix: "/api/v1/admin/images", MaxBytes: 0})
		assert.Equal(t, http.StatusOK, post(router, "/api/v1/admin/images", 4096, true).Code)
	})
}

func TestUploadOverride(t *testing.T) {
	o := UploadOverride("/api/v1/admin/images", 5<<20)
	assert.Equal(t, "/api/v1/admin/images", o.PathPrefix)
	assert.Equal(t, int64(5<<20+multipartOverhead), o.MaxBytes)
	assert.Equal(t, int64(5<<20+multipartOverhead), limitFor("/api/v1/admin/images", 1<<20, []BodyLimitOverride{o}))
	assert.Equal(t, int64(1<<20), limitFor("/api/v1/cart", 1<<20, []BodyLimitOverride{o}))
}
