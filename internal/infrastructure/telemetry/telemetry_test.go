package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/styleco/storefront/internal/domain/order"
	"github.com/styleco/storefront/internal/domain/shared"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]float64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[string]float64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					out[m.Name] += float64(dp.Value)
				}
			case metricdata.Sum[float64]:
				for _, dp := range data.DataPoints {
					out[m.Name] += dp.Value
				}
			case metricdata.Histogram[float64]:
				for _, dp := range data.DataPoints {
					out[m.Name] += float64(dp.Count)
				}
			}
		}
	}
	return out
}

func TestOrderMetrics_Handle(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	m, err := NewOrderMetrics(ForReader(reader))
	require.NoError(t, err)
	ctx := context.Background()

	id := uuid.New()
	require.NoError(t, m.Handle(ctx, &order.PlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(order.EventTypePlaced, order.AggregateType, id),
		Governorate:     "Cairo",
		PaymentMethod:   order.PaymentCashOnDelivery,
		TotalAmount:     decimal.RequireFromString("266.50"),
		ItemCount:       3,
	}))
	require.NoError(t, m.Handle(ctx, &order.StatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(order.EventTypeStatusChanged, order.AggregateType, id),
		From:            order.StatusShipped,
		To:              order.StatusDelivered,
		TotalAmount:     decimal.RequireFromString("266.50"),
	}))
	require.NoError(t, m.Handle(ctx, &order.StatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(order.EventTypeStatusChanged, order.AggregateType, id),
		To:              order.StatusCancelled,
		TotalAmount:     decimal.NewFromInt(10),
	}))

	got := collect(t, reader)
	assert.Equal(t, 1.0, got["storefront_orders_placed_total"])
	assert.InDelta(t, 266.5, got["storefront_orders_placed_amount_total"], 0.001)
	assert.Equal(t, 3.0, got["storefront_order_items_total"])
	assert.Equal(t, 2.0, got["storefront_order_status_changes_total"])
	assert.InDelta(t, 266.5, got["storefront_orders_delivered_amount_total"], 0.001)
	assert.ElementsMatch(t, []string{order.EventTypePlaced, order.EventTypeStatusChanged}, m.EventTypes())
}

type dbRow struct {
	ID   uint
	Name string
}

func TestDBMetricsPlugin(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	reader := sdkmetric.NewManualReader()
	plugin, err := NewDBMetricsPlugin(ForReader(reader), time.Hour, nil)
	require.NoError(t, err)
	require.NoError(t, db.Use(plugin))

	require.NoError(t, db.AutoMigrate(&dbRow{}))
	require.NoError(t, db.Create(&dbRow{Name: "a"}).Error)
	var rows []dbRow
	require.NoError(t, db.Find(&rows).Error)
	assert.Error(t, db.Table("missing_table").Find(&rows).Error)

	got := collect(t, reader)
	assert.GreaterOrEqual(t, got["db_query_duration_seconds"], 3.0)
	assert.Equal(t, 1.0, got["db_query_errors_total"])
}

func TestSetup_NothingEnabled(t *testing.T) {
	ctx := context.Background()

	p, err := Setup(ctx, Config{ServiceName: "storefront"}, nil)
	require.NoError(t, err)
	assert.False(t, p.Tracing())
	assert.False(t, p.Metering())
	assert.NotNil(t, p.Meter("test"))
	assert.False(t, p.LogCore("storefront", zapcore.InfoLevel).Enabled(zapcore.ErrorLevel))
	p.EnableSpanProfiles()
	assert.NoError(t, p.Shutdown(ctx))

	var missing *Providers
	assert.False(t, missing.Tracing())
	assert.False(t, missing.Metering())

	prof, err := NewProfiler(ProfilerConfig{}, nil)
	require.NoError(t, err)
	assert.False(t, prof.IsEnabled())
	assert.NoError(t, prof.Stop())
}

func TestForReader(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	p := ForReader(reader)
	assert.True(t, p.Metering())
	assert.False(t, p.Tracing())

	in := NewInstruments(p.Meter("test"))
	c := in.Counter("widgets_total", "Widgets", "{widgets}")
	require.NoError(t, in.Err())
	c.Add(context.Background(), 2)
	assert.Equal(t, 2.0, collect(t, reader)["widgets_total"])
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestNewProfiler_Validation(t *testing.T) {
	_, err := NewProfiler(ProfilerConfig{Enabled: true, ApplicationName: "storefront"}, zap.NewNop())
	assert.Error(t, err)
	_, err = NewProfiler(ProfilerConfig{Enabled: true, ServerAddress: "http://pyroscope:4040"}, zap.NewNop())
	assert.Error(t, err)
}

func TestMinLevelCore(t *testing.T) {
	inner := zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), zapcore.AddSync(&discard{}), zapcore.DebugLevel)
	core := &minLevelCore{Core: inner, min: zapcore.WarnLevel}

	assert.False(t, core.Enabled(zapcore.InfoLevel))
	assert.True(t, core.Enabled(zapcore.ErrorLevel))
	assert.Nil(t, core.Check(zapcore.Entry{Level: zapcore.InfoLevel}, nil))
	assert.NotNil(t, core.Check(zapcore.Entry{Level: zapcore.WarnLevel}, nil))

	with := core.With([]zapcore.Field{zap.String("k", "v")})
	assert.False(t, with.Enabled(zapcore.DebugLevel))
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func TestSampler(t *testing.T) {
	assert.Equal(t, sdktrace.NeverSample().Description(), sampler(0).Description())
	assert.Contains(t, sampler(1).Description(), "AlwaysOnSampler")
	assert.Contains(t, sampler(0.25).Description(), "TraceIDRatioBased{0.25}")
}
