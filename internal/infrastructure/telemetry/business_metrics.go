package telemetry

import (
	"context"

	"github.com/styleco/storefront/internal/domain/order"
	"github.com/styleco/storefront/internal/domain/shared"
	"go.opentelemetry.io/otel/metric"
)

// OrderMetrics turns order events into sales counters. Subscribe it to the
// event bus.
type OrderMetrics struct {
	placed        metric.Int64Counter
	placedAmount  metric.Float64Counter
	itemsSold     metric.Int64Counter
	statusChanges metric.Int64Counter
	delivered     metric.Float64Counter
}

func NewOrderMetrics(p *Providers) (*OrderMetrics, error) {
	in := NewInstruments(p.Meter("storefront/orders"))
	m := &OrderMetrics{
		placed:        in.Counter("storefront_orders_placed_total", "Orders placed at checkout", "{orders}"),
		placedAmount:  in.Amount("storefront_orders_placed_amount_total", "Total amount of placed orders"),
		itemsSold:     in.Counter("storefront_order_items_total", "Units across placed orders", "{items}"),
		statusChanges: in.Counter("storefront_order_status_changes_total", "Admin order status transitions", "{changes}"),
		delivered:     in.Amount("storefront_orders_delivered_amount_total", "Revenue of delivered orders"),
	}
	if err := in.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *OrderMetrics) EventTypes() []string {
	return []string{order.EventTypePlaced, order.EventTypeStatusChanged}
}

func (m *OrderMetrics) Handle(ctx context.Context, ev shared.DomainEvent) error {
	switch e := ev.(type) {
	case *order.PlacedEvent:
		method := AttrPaymentMethod.String(string(e.PaymentMethod))
		m.placed.Add(ctx, 1, metric.WithAttributes(method, AttrGovernorate.String(e.Governorate)))
		m.placedAmount.Add(ctx, e.TotalAmount.InexactFloat64(), metric.WithAttributes(method))
		m.itemsSold.Add(ctx, int64(e.ItemCount))
	case *order.StatusChangedEvent:
		m.statusChanges.Add(ctx, 1, metric.WithAttributes(AttrOrderStatus.String(string(e.To))))
		if e.To == order.StatusDelivered {
			m.delivered.Add(ctx, e.TotalAmount.InexactFloat64())
		}
	}
	return nil
}

var _ shared.EventHandler = (*OrderMetrics)(nil)
