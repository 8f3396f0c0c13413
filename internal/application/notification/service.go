package notification

import (
	"context"
	"time"

	"github.com/styleco/storefront/internal/domain/shared"
	"go.uber.org/zap"
)

// TestEmailResponse reports the outcome of a test email
type TestEmailResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	MessageID string `json:"message_id,omitempty"`
	Recipient string `json:"recipient,omitempty"`
}

// Service exposes admin notification actions
type Service struct {
	notifier OrderNotifier
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates a new notification Service
func NewService(notifier OrderNotifier, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{notifier: notifier, logger: logger, now: time.Now}
}

// SendTestEmail pushes the canned test order through the configured notifier.
// A delivery failure is reported in the response rather than as an error.
func (s *Service) SendTestEmail(ctx context.Context) (*TestEmailResponse, error) {
	if s.notifier == nil {
		return nil, shared.NewDomainError("NOTIFICATIONS_DISABLED", "No notifier is configured")
	}
	receipt, err := s.notifier.NotifyOrderPlaced(ctx, TestSummary(s.now()))
	if err != nil {
		s.logger.Warn("Test email failed", zap.Error(err))
		return &TestEmailResponse{Success: false, Message: "Failed to send email: " + err.Error()}, nil
	}
	resp := &TestEmailResponse{Success: true, Message: "Test email sent successfully"}
	if receipt != nil {
		resp.MessageID = receipt.MessageID
		resp.Recipient = receipt.Recipient
	}
	return resp, nil
}
