package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/styleco/storefront/internal/interfaces/http/dto"
)

// multipartOverhead covers boundaries and part headers around an uploaded file
const multipartOverhead = 64 << 10

// BodyLimitOverride raises or lowers the limit for requests under PathPrefix
type BodyLimitOverride struct {
	PathPrefix string
	MaxBytes   int64
}

// UploadOverride sizes an override for a multipart endpoint accepting files
// up to maxFile bytes.
func UploadOverride(pathPrefix string, maxFile int64) BodyLimitOverride {
	return BodyLimitOverride{PathPrefix: pathPrefix, MaxBytes: maxFile + multipartOverhead}
}

// BodyLimit caps request bodies at maxBytes. The longest matching override
// wins for its path prefix. Declared sizes over the limit are rejected up
// front and undeclared ones are cut off while reading.
func BodyLimit(maxBytes int64, overrides ...BodyLimitOverride) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := limitFor(c.Request.URL.Path, maxBytes, overrides)
		if limit <= 0 {
			c.Next()
			return
		}
		if c.Request.ContentLength > limit {
			abort(c, http.StatusRequestEntityTooLarge, dto.ErrCodeTooLarge, "Request body exceeds maximum allowed size")
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}

func limitFor(path string, fallback int64, overrides []BodyLimitOverride) int64 {
	limit, matched := fallback, 0
	for _, o := range overrides {
		if len(o.PathPrefix) > matched && strings.HasPrefix(path, o.PathPrefix) {
			limit, matched = o.MaxBytes, len(o.PathPrefix)
		}
	}
	return limit
}
