package telemetry

import (
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	AttrHTTPMethod     = attribute.Key("http.method")
	AttrHTTPRoute      = attribute.Key("http.route")
	AttrHTTPStatusCode = attribute.Key("http.status_code")
	AttrDBOperation    = attribute.Key("db.operation")
	AttrDBTable        = attribute.Key("db.table")
	AttrPaymentMethod  = attribute.Key("payment_method")
	AttrGovernorate    = attribute.Key("governorate")
	AttrOrderStatus    = attribute.Key("order_status")
)

// latency buckets in seconds
var (
	HTTPDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}
	DBDurationBuckets   = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}
)

// Instruments creates instruments on one meter and keeps the errors, so a
// constructor registers everything and checks Err once.
type Instruments struct {
	meter metric.Meter
	errs  []error
}

func NewInstruments(meter metric.Meter) *Instruments {
	return &Instruments{meter: meter}
}

func (in *Instruments) Counter(name, desc, unit string) metric.Int64Counter {
	c, err := in.meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit(unit))
	in.errs = append(in.errs, err)
	return c
}

// Amount counts money
func (in *Instruments) Amount(name, desc string) metric.Float64Counter {
	c, err := in.meter.Float64Counter(name, metric.WithDescription(desc), metric.WithUnit("EGP"))
	in.errs = append(in.errs, err)
	return c
}

func (in *Instruments) Histogram(name, desc, unit string, buckets []float64) metric.Float64Histogram {
	h, err := in.meter.Float64Histogram(name,
		metric.WithDescription(desc),
		metric.WithUnit(unit),
		metric.WithExplicitBucketBoundaries(buckets...))
	in.errs = append(in.errs, err)
	return h
}

func (in *Instruments) Gauge(name, desc, unit string) metric.Int64UpDownCounter {
	g, err := in.meter.Int64UpDownCounter(name, metric.WithDescription(desc), metric.WithUnit(unit))
	in.errs = append(in.errs, err)
	return g
}

func (in *Instruments) Err() error {
	return errors.Join(in.errs...)
}
