package notification

import (
	"context"

	"go.uber.org/zap"
)

// LogNotifier only logs orders. It is used when email is disabled.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a LogNotifier
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

// NotifyOrderPlaced logs the order summary
func (n *LogNotifier) NotifyOrderPlaced(_ context.Context, s OrderSummary) (*Receipt, error) {
	n.logger.Info("New order",
		zap.String("order_id", s.OrderID),
		zap.String("customer", s.Address.FullName),
		zap.String("phone", s.Address.Phone),
		zap.String("governorate", s.Address.Governorate),
		zap.String("payment_method", string(s.PaymentMethod)),
		zap.String("total", s.Quote.Total.StringFixed(2)),
		zap.Int("items", len(s.Items)),
	)
	return &Receipt{}, nil
}

var _ OrderNotifier = (*LogNotifier)(nil)
