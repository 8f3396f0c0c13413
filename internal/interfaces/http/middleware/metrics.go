package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/styleco/storefront/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// body size buckets, 100 B to 5 MB; image uploads land in the top ones
var bodySizeBuckets = []float64{100, 1 << 10, 10 << 10, 100 << 10, 512 << 10, 1 << 20, 5 << 20}

// attrResource groups routes by API area, e.g. products or orders
var attrResource = attribute.Key("storefront.resource")

type httpInstruments struct {
	requests metric.Int64Counter
	latency  metric.Float64Histogram
	reqSize  metric.Float64Histogram
	respSize metric.Float64Histogram
	inFlight metric.Int64UpDownCounter
}

func newHTTPInstruments(meter metric.Meter) (*httpInstruments, error) {
	in := telemetry.NewInstruments(meter)
	h := &httpInstruments{
		requests: in.Counter("http_server_request_total", "Requests served", "{request}"),
		latency:  in.Histogram("http_server_request_duration_seconds", "Time to serve a request", "s", telemetry.HTTPDurationBuckets),
		reqSize:  in.Histogram("http_server_request_size_bytes", "Request body size", "By", bodySizeBuckets),
		respSize: in.Histogram("http_server_response_size_bytes", "Response body size", "By", bodySizeBuckets),
		inFlight: in.Gauge("http_server_active_requests", "Requests being served", "{request}"),
	}
	return h, in.Err()
}

// HTTPMetrics counts and times requests by route pattern, never by raw
// path, so slugs and order IDs do not become label values. With metrics
// disabled it only calls c.Next.
func HTTPMetrics(p *telemetry.Providers) (gin.HandlerFunc, error) {
	if !p.Metering() {
		return func(c *gin.Context) { c.Next() }, nil
	}
	in, err := newHTTPInstruments(p.Meter("storefront/http"))
	if err != nil {
		return nil, err
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		began := time.Now()
		in.inFlight.Add(ctx, 1)
		defer in.inFlight.Add(ctx, -1)

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		kv := []attribute.KeyValue{
			telemetry.AttrHTTPMethod.String(c.Request.Method),
			telemetry.AttrHTTPRoute.String(route),
			attrResource.String(resourceFromRoute(c.FullPath())),
		}
		attrs := metric.WithAttributes(kv...)
		in.latency.Record(ctx, time.Since(began).Seconds(), attrs)
		in.requests.Add(ctx, 1, metric.WithAttributes(append(kv, telemetry.AttrHTTPStatusCode.Int(c.Writer.Status()))...))
		if n := c.Request.ContentLength; n > 0 {
			in.reqSize.Record(ctx, float64(n), attrs)
		}
		if n := c.Writer.Size(); n > 0 {
			in.respSize.Record(ctx, float64(n), attrs)
		}
	}, nil
}
