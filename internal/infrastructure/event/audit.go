package event

import (
	"context"

	"github.com/styleco/storefront/internal/domain/order"
	"github.com/styleco/storefront/internal/domain/shared"
	"go.uber.org/zap"
)

// OrderAuditLog writes one structured line per order event so order history
// can be rebuilt from the logs.
func OrderAuditLog(logger *zap.Logger) shared.EventHandler {
	logger = logger.Named("order_audit")
	return shared.HandlerFunc(func(_ context.Context, ev shared.DomainEvent) error {
		switch e := ev.(type) {
		case *order.PlacedEvent:
			logger.Info("Order placed",
				zap.String("order_id", e.OrderID.String()),
				zap.String("short_id", e.ShortID),
				zap.String("governorate", e.Governorate),
				zap.String("payment_method", string(e.PaymentMethod)),
				zap.String("total", e.TotalAmount.StringFixed(2)),
				zap.Int("items", e.ItemCount))
		case *order.StatusChangedEvent:
			logger.Info("Order status changed",
				zap.String("order_id", e.OrderID.String()),
				zap.String("from", string(e.From)),
				zap.String("to", string(e.To)),
				zap.String("payment_status", string(e.PaymentStatus)))
		}
		return nil
	}, order.EventTypePlaced, order.EventTypeStatusChanged)
}
