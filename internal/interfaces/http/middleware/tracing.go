package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracingConfig holds configuration for the tracing middleware
type TracingConfig struct {
	ServiceName string
	Enabled     bool
}

// Tracing wraps otelgin. Spans are named "METHOD /route/:pattern" and carry
// the request id.
func Tracing(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}
	return otelgin.Middleware(cfg.ServiceName,
		otelgin.WithFilter(func(r *http.Request) bool {
			return r.URL.Path != "/health" && r.URL.Path != "/ready"
		}),
		otelgin.WithSpanNameFormatter(func(c *gin.Context) string {
			route := c.FullPath()
			if route == "" {
				route = "unknown"
			}
			return c.Request.Method + " " + route
		}),
	)
}

// SpanEnricher tags the active span with the caller and marks 4xx/5xx
// responses as errors. Place it after the auth and cart owner middleware.
func SpanEnricher() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			c.Next()
			return
		}

		if id := requestID(c); id != "" {
			span.SetAttributes(attribute.String("request_id", id))
		}
		if p, ok := GetPrincipal(c); ok {
			span.SetAttributes(
				attribute.String("user_id", p.UserID.String()),
				attribute.Bool("user.is_admin", p.IsAdmin),
			)
		}
		if owner := GetCartOwner(c); owner != "" {
			span.SetAttributes(attribute.String("cart_owner", owner))
		}

		c.Next()

		status := c.Writer.Status()
		if status >= http.StatusBadRequest {
			span.SetStatus(codes.Error, http.StatusText(status))
			span.SetAttributes(attribute.Int("http.status_code", status))
		}
	}
}
