package middleware

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/styleco/storefront/internal/infrastructure/telemetry"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// requestsByRoute sums http_server_request_total per route label
func requestsByRoute(t *testing.T, reader *sdkmetric.ManualReader) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok || m.Name != "http_server_request_total" {
				continue
			}
			for _, dp := range sum.DataPoints {
				route, _ := dp.Attributes.Value(telemetry.AttrHTTPRoute)
				out[route.AsString()] += dp.Value
			}
		}
	}
	return out
}

func TestHTTPMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mw, err := HTTPMetrics(telemetry.ForReader(reader))
	require.NoError(t, err)

	engine := gin.New()
	engine.Use(mw)
	engine.GET("/api/v1/products/:slug", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	for _, slug := range []string{"shirt", "dress", "shirt"} {
		call(engine, http.MethodGet, "/api/v1/products/"+slug, nil)
	}
	call(engine, http.MethodGet, "/nowhere", nil)

	assert.Equal(t, map[string]int64{"/api/v1/products/:slug": 3, "unmatched": 1}, requestsByRoute(t, reader))
}

func TestHTTPMetrics_Disabled(t *testing.T) {
	mw, err := HTTPMetrics(nil)
	require.NoError(t, err)
	assert.NotNil(t, mw)
}

func TestResourceFromRoute(t *testing.T) {
	tests := map[string]string{
		"/api/v1/products/:slug":         "products",
		"/api/v1/admin/orders/:id":       "orders",
		"/api/v1/admin/orders/:id/print": "orders",
		"/api/v1/cart/items":             "cart",
		"/health":                        "health",
		"":                               "unknown",
	}
	for route, want := range tests {
		assert.Equal(t, want, resourceFromRoute(route), route)
	}
}
