package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/styleco/storefront/internal/domain/order"
	"go.uber.org/zap"
)

// ExportRow is one order line of the spreadsheet export
type ExportRow struct {
	ShortID       string
	CreatedAt     time.Time
	Customer      string
	Phone         string
	Governorate   string
	City          string
	Status        order.Status
	PaymentStatus order.PaymentStatus
	PaymentMethod string
	ItemCount     int
	Total         decimal.Decimal
}

// ExportSummary closes the sheet
type ExportSummary struct {
	OrderCount       int
	DeliveredRevenue decimal.Decimal
}

// SheetWriter renders the export rows into a file
type SheetWriter interface {
	WriteOrders(rows []ExportRow, summary ExportSummary) ([]byte, error)
	ContentType() string
	Extension() string
}

// ExportFile is a rendered export ready to download
type ExportFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// Export renders every order, or only those with status, as a spreadsheet.
// The summary revenue counts delivered orders only.
func (s *Service) Export(ctx context.Context, writer SheetWriter, status string) (*ExportFile, error) {
	var filter *order.Status
	if status != "" {
		st := order.Status(status)
		if !st.IsValid() {
			return nil, errInvalidStatus(status)
		}
		filter = &st
	}

	orders, err := s.allOrders(ctx, filter)
	if err != nil {
		return nil, err
	}

	rows := make([]ExportRow, len(orders))
	summary := ExportSummary{OrderCount: len(orders), DeliveredRevenue: decimal.Zero}
	for i := range orders {
		o := &orders[i]
		rows[i] = ExportRow{
			ShortID:       o.ShortID(),
			CreatedAt:     o.CreatedAt,
			Customer:      o.ShippingAddress.FullName,
			Phone:         o.ShippingAddress.Phone,
			Governorate:   o.ShippingAddress.Governorate,
			City:          o.ShippingAddress.City,
			Status:        o.Status,
			PaymentStatus: o.PaymentStatus,
			PaymentMethod: o.PaymentMethod.Label(),
			ItemCount:     o.ItemCount(),
			Total:         o.TotalAmount,
		}
		if o.Status == order.StatusDelivered {
			summary.DeliveredRevenue = summary.DeliveredRevenue.Add(o.TotalAmount)
		}
	}

	data, err := writer.WriteOrders(rows, summary)
	if err != nil {
		s.logger.Error("Failed to render order export", zap.Error(err))
		return nil, err
	}

	name := "orders-" + time.Now().UTC().Format("2006-01-02")
	if filter != nil {
		name += "-" + string(*filter)
	}
	return &ExportFile{
		Name:        name + writer.Extension(),
		ContentType: writer.ContentType(),
		Data:        data,
	}, nil
}
