// Package telemetry wires OpenTelemetry traces, metrics and logs over OTLP
// gRPC, plus Pyroscope profiling. Every signal is off unless configured.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	otelpyroscope "github.com/grafana/otel-profiling-go"
	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	serviceVersion        = "1.0.0"
	defaultExportInterval = time.Minute
)

// Config selects the signals to export. All of them go to Endpoint.
type Config struct {
	ServiceName    string
	Endpoint       string
	Insecure       bool
	Traces         bool
	SampleRatio    float64
	Metrics        bool
	ExportInterval time.Duration
	Logs           bool
}

// Providers holds the SDK providers that were started. A nil provider means
// its signal is off and callers get the global no-op.
type Providers struct {
	traces  *sdktrace.TracerProvider
	metrics *sdkmetric.MeterProvider
	logs    *sdklog.LoggerProvider
}

// Setup starts each configured signal and installs it globally. A signal
// that fails to start stays off; the failures come back joined.
func Setup(ctx context.Context, cfg Config, logger *zap.Logger) (*Providers, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Providers{}
	if !cfg.Traces && !cfg.Metrics && !cfg.Logs {
		return p, nil
	}
	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(serviceVersion),
	))
	if err != nil {
		return p, fmt.Errorf("telemetry resource: %w", err)
	}

	var errs []error
	if cfg.Traces {
		errs = append(errs, p.startTraces(ctx, cfg, res))
	}
	if cfg.Metrics {
		errs = append(errs, p.startMetrics(ctx, cfg, res))
	}
	if cfg.Logs {
		errs = append(errs, p.startLogs(ctx, cfg, res))
	}
	logger.Info("Telemetry started",
		zap.String("endpoint", cfg.Endpoint),
		zap.Bool("traces", p.traces != nil),
		zap.Bool("metrics", p.metrics != nil),
		zap.Bool("logs", p.logs != nil))
	return p, errors.Join(errs...)
}

func (p *Providers) startTraces(ctx context.Context, cfg Config, res *resource.Resource) error {
	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}
	exp, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return fmt.Errorf("trace exporter: %w", err)
	}
	p.traces = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler(cfg.SampleRatio)),
	)
	otel.SetTracerProvider(p.traces)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))
	return nil
}

func (p *Providers) startMetrics(ctx context.Context, cfg Config, res *resource.Resource) error {
	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	exp, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return fmt.Errorf("metric exporter: %w", err)
	}
	interval := cfg.ExportInterval
	if interval <= 0 {
		interval = defaultExportInterval
	}
	p.metrics = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp, sdkmetric.WithInterval(interval))),
	)
	otel.SetMeterProvider(p.metrics)
	return nil
}

func (p *Providers) startLogs(ctx context.Context, cfg Config, res *resource.Resource) error {
	opts := []otlploggrpc.Option{otlploggrpc.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlploggrpc.WithInsecure())
	}
	exp, err := otlploggrpc.New(ctx, opts...)
	if err != nil {
		return fmt.Errorf("log exporter: %w", err)
	}
	p.logs = sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exp)),
	)
	global.SetLoggerProvider(p.logs)
	return nil
}

// ForReader exports metrics to reader only; tests collect with a ManualReader
func ForReader(reader sdkmetric.Reader) *Providers {
	return &Providers{metrics: sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))}
}

func sampler(ratio float64) sdktrace.Sampler {
	switch {
	case ratio >= 1:
		return sdktrace.ParentBased(sdktrace.AlwaysSample())
	case ratio <= 0:
		return sdktrace.NeverSample()
	default:
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
	}
}

func (p *Providers) Tracing() bool  { return p != nil && p.traces != nil }
func (p *Providers) Metering() bool { return p != nil && p.metrics != nil }

func (p *Providers) Meter(name string) metric.Meter {
	if !p.Metering() {
		return otel.GetMeterProvider().Meter(name)
	}
	return p.metrics.Meter(name)
}

// LogCore forwards entries at min and above to the log exporter. Tee it
// with the console core. Without log export it drops everything.
func (p *Providers) LogCore(name string, min zapcore.Level) zapcore.Core {
	if p == nil || p.logs == nil {
		return zapcore.NewNopCore()
	}
	return &minLevelCore{Core: otelzap.NewCore(name, otelzap.WithLoggerProvider(p.logs)), min: min}
}

// EnableSpanProfiles labels CPU profiles with span IDs. Start the profiler first.
func (p *Providers) EnableSpanProfiles() {
	if p.Tracing() {
		otel.SetTracerProvider(otelpyroscope.NewTracerProvider(p.traces))
	}
}

// Shutdown flushes every started provider
func (p *Providers) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var errs []error
	if p.traces != nil {
		errs = append(errs, p.traces.Shutdown(ctx))
	}
	if p.metrics != nil {
		errs = append(errs, p.metrics.Shutdown(ctx))
	}
	if p.logs != nil {
		errs = append(errs, p.logs.Shutdown(ctx))
	}
	return errors.Join(errs...)
}

// minLevelCore gives the otelzap core, which exports every level, a floor
type minLevelCore struct {
	zapcore.Core
	min zapcore.Level
}

func (c *minLevelCore) Enabled(lvl zapcore.Level) bool {
	return lvl >= c.min && c.Core.Enabled(lvl)
}

func (c *minLevelCore) Check(e zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if e.Level < c.min {
		return ce
	}
	return c.Core.Check(e, ce)
}

func (c *minLevelCore) With(fields []zapcore.Field) zapcore.Core {
	return &minLevelCore{Core: c.Core.With(fields), min: c.min}
}
