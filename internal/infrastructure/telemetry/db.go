package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RegisterDBTracing installs the otelgorm plugin. Query variables are left
// out of spans unless withVariables is set.
func RegisterDBTracing(db *gorm.DB, withVariables bool, logger *zap.Logger) error {
	opts := []otelgorm.Option{otelgorm.WithDBName("postgresql")}
	if !withVariables {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}
	if logger != nil {
		logger.Info("Database tracing enabled")
	}
	return nil
}

type dbStartKey struct{}

// DBMetricsPlugin times every statement through gorm callbacks
type DBMetricsPlugin struct {
	duration metric.Float64Histogram
	failures metric.Int64Counter
	slow     time.Duration
	logger   *zap.Logger
}

// NewDBMetricsPlugin also logs statements slower than slow at warn
func NewDBMetricsPlugin(p *Providers, slow time.Duration, logger *zap.Logger) (*DBMetricsPlugin, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	in := NewInstruments(p.Meter("storefront/db"))
	plugin := &DBMetricsPlugin{
		duration: in.Histogram("db_query_duration_seconds", "Database query duration", "s", DBDurationBuckets),
		failures: in.Counter("db_query_errors_total", "Failed database queries", "{queries}"),
		slow:     slow,
		logger:   logger,
	}
	if err := in.Err(); err != nil {
		return nil, err
	}
	return plugin, nil
}

// Name implements gorm.Plugin
func (p *DBMetricsPlugin) Name() string {
	return "storefront:db_metrics"
}

type registrar interface {
	Register(name string, fn func(*gorm.DB)) error
}

// Initialize implements gorm.Plugin
func (p *DBMetricsPlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()
	hooks := []struct {
		op            string
		before, after registrar
	}{
		{"create", cb.Create().Before("gorm:create"), cb.Create().After("gorm:create")},
		{"select", cb.Query().Before("gorm:query"), cb.Query().After("gorm:query")},
		{"update", cb.Update().Before("gorm:update"), cb.Update().After("gorm:update")},
		{"delete", cb.Delete().Before("gorm:delete"), cb.Delete().After("gorm:delete")},
		{"row", cb.Row().Before("gorm:row"), cb.Row().After("gorm:row")},
		{"raw", cb.Raw().Before("gorm:raw"), cb.Raw().After("gorm:raw")},
	}
	for _, h := range hooks {
		if err := h.before.Register(p.Name()+":before_"+h.op, p.before); err != nil {
			return err
		}
		if err := h.after.Register(p.Name()+":after_"+h.op, p.after(h.op)); err != nil {
			return err
		}
	}
	return nil
}

func (p *DBMetricsPlugin) before(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		ctx = context.Background()
	}
	db.Statement.Context = context.WithValue(ctx, dbStartKey{}, time.Now())
}

func (p *DBMetricsPlugin) after(op string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		ctx := db.Statement.Context
		start, ok := ctx.Value(dbStartKey{}).(time.Time)
		if !ok {
			return
		}
		elapsed := time.Since(start)
		attrs := metric.WithAttributes(AttrDBOperation.String(op), AttrDBTable.String(db.Statement.Table))
		p.duration.Record(ctx, elapsed.Seconds(), attrs)

		if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
			p.failures.Add(ctx, 1, attrs)
		}
		if p.slow > 0 && elapsed > p.slow {
			p.logger.Warn("Slow query",
				zap.String("operation", op),
				zap.String("table", db.Statement.Table),
				zap.Duration("elapsed", elapsed))
		}
	}
}

var _ gorm.Plugin = (*DBMetricsPlugin)(nil)
