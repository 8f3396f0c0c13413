package order

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/styleco/storefront/internal/domain/order"
	"go.uber.org/zap"
)

//go:embed templates/invoice.html
var templateFS embed.FS

var invoiceTemplate = template.Must(
	template.New("invoice.html").Funcs(template.FuncMap{
		"money": func(d decimal.Decimal) string { return d.StringFixed(2) + " EGP" },
	}).ParseFS(templateFS, "templates/invoice.html"),
)

// PDFRenderer turns a complete HTML document into a PDF
type PDFRenderer interface {
	RenderPDF(ctx context.Context, title, html string) ([]byte, error)
}

// Invoice renders the printable HTML page for an order
func (s *Service) Invoice(ctx context.Context, id uuid.UUID, storeName string) (string, error) {
	resp, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if storeName == "" {
		storeName = "StyleCo"
	}
	var buf bytes.Buffer
	data := struct {
		Order     *OrderResponse
		StoreName string
	}{resp, storeName}
	if err := invoiceTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render invoice: %w", err)
	}
	return buf.String(), nil
}

// PrintPDF renders the invoice through renderer
func (s *Service) PrintPDF(ctx context.Context, renderer PDFRenderer, id uuid.UUID, storeName string) ([]byte, error) {
	html, err := s.Invoice(ctx, id, storeName)
	if err != nil {
		return nil, err
	}
	pdf, err := renderer.RenderPDF(ctx, "Order #"+order.ShortID(id), html)
	if err != nil {
		s.logger.Error("Failed to print order", zap.String("order_id", id.String()), zap.Error(err))
		return nil, err
	}
	return pdf, nil
}
