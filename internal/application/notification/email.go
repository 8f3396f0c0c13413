package notification

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed templates/*.html
var templateFS embed.FS

// Message is a rendered email
type Message struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Sender delivers a rendered email and returns the provider message id
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// EmailConfig addresses the order emails
type EmailConfig struct {
	From       string
	AdminEmail string
	StoreName  string
	Currency   string
}

// EmailNotifier emails the shop admin about each new order
type EmailNotifier struct {
	sender Sender
	cfg    EmailConfig
	tmpl   *template.Template
	logger *zap.Logger
}

// NewEmailNotifier parses the order template and returns a notifier
func NewEmailNotifier(sender Sender, cfg EmailConfig, logger *zap.Logger) (*EmailNotifier, error) {
	if sender == nil {
		return nil, errors.New("email sender is required")
	}
	if cfg.AdminEmail == "" {
		return nil, errors.New("admin email is required")
	}
	if cfg.StoreName == "" {
		cfg.StoreName = "StyleCo"
	}
	if cfg.Currency == "" {
		cfg.Currency = "EGP"
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	tmpl, err := template.New("order_email.html").Funcs(templateFuncs(cfg.Currency)).ParseFS(templateFS, "templates/order_email.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse order email template: %w", err)
	}
	return &EmailNotifier{sender: sender, cfg: cfg, tmpl: tmpl, logger: logger}, nil
}

// Subject is the email subject for an order
func (n *EmailNotifier) Subject(s OrderSummary) string {
	return fmt.Sprintf("New Order #%s - %s", s.ShortID(), n.cfg.StoreName)
}

// Render produces the HTML body for an order
func (n *EmailNotifier) Render(s OrderSummary) (string, error) {
	var buf bytes.Buffer
	data := struct {
		OrderSummary
		StoreName string
	}{s, n.cfg.StoreName}
	if err := n.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render order email: %w", err)
	}
	return buf.String(), nil
}

// NotifyOrderPlaced renders and sends the admin email
func (n *EmailNotifier) NotifyOrderPlaced(ctx context.Context, s OrderSummary) (*Receipt, error) {
	html, err := n.Render(s)
	if err != nil {
		return nil, err
	}
	msg := Message{
		From:    n.cfg.From,
		To:      []string{n.cfg.AdminEmail},
		Subject: n.Subject(s),
		HTML:    html,
	}

	id, err := n.sender.Send(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("failed to send order email: %w", err)
	}
	n.logger.Info("Order email sent",
		zap.String("order_id", s.OrderID),
		zap.String("message_id", id),
		zap.Int("html_bytes", len(html)),
	)
	return &Receipt{MessageID: id, Recipient: n.cfg.AdminEmail}, nil
}

var _ OrderNotifier = (*EmailNotifier)(nil)

func templateFuncs(currency string) template.FuncMap {
	title := cases.Title(language.English)
	return template.FuncMap{
		"money": func(d decimal.Decimal) string {
			return d.StringFixed(2) + " " + currency
		},
		"title": func(s string) string {
			return title.String(strings.ToLower(s))
		},
	}
}
