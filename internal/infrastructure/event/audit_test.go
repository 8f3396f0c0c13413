package event

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/styleco/storefront/internal/domain/order"
	"github.com/styleco/storefront/internal/domain/shared"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestOrderAuditLog(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	bus := NewInMemoryEventBus(nil)
	bus.Subscribe(OrderAuditLog(zap.New(core)))

	id := uuid.New()
	placed := &order.PlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(order.EventTypePlaced, order.AggregateType, id),
		OrderID:         id,
		ShortID:         "AB12CD34",
		Governorate:     "Cairo",
		PaymentMethod:   order.PaymentCashOnDelivery,
		TotalAmount:     decimal.RequireFromString("580"),
		ItemCount:       2,
	}
	changed := &order.StatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(order.EventTypeStatusChanged, order.AggregateType, id),
		OrderID:         id,
		From:            order.StatusPending,
		To:              order.StatusShipped,
	}
	require.NoError(t, bus.Publish(context.Background(), placed, changed, newTestEvent("user.registered")))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "Order placed", entries[0].Message)
	assert.Equal(t, "order_audit", entries[0].LoggerName)
	assert.Equal(t, "580.00", entries[0].ContextMap()["total"])
	assert.Equal(t, "Order status changed", entries[1].Message)
	assert.Equal(t, string(order.StatusShipped), entries[1].ContextMap()["to"])
}
