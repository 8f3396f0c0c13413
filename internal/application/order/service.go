// Package order serves placed orders to buyers and to the admin console.
package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/styleco/storefront/internal/domain/catalog"
	"github.com/styleco/storefront/internal/domain/order"
	"github.com/styleco/storefront/internal/domain/shared"
	"go.uber.org/zap"
)

// Counter is anything that can count its rows
type Counter interface {
	Count(ctx context.Context) (int64, error)
}

func errInvalidStatus(status string) error {
	return shared.NewDomainError("INVALID_STATUS", "Unknown order status: "+status)
}

// Service handles order reads, status changes and dashboard stats
type Service struct {
	orders   order.Repository
	products catalog.ProductRepository
	users    Counter
	events   shared.EventPublisher
	logger   *zap.Logger
}

// NewService creates a new order Service. events may be nil.
func NewService(
	orders order.Repository,
	products catalog.ProductRepository,
	users Counter,
	events shared.EventPublisher,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		orders:   orders,
		products: products,
		users:    users,
		events:   events,
		logger:   logger,
	}
}

// ListMine returns the buyer's orders, newest first
func (s *Service) ListMine(ctx context.Context, userID uuid.UUID) ([]OrderResponse, error) {
	orders, err := s.orders.FindByUser(ctx, userID, shared.Filter{OrderBy: "created_at", OrderDir: "desc"})
	if err != nil {
		return nil, err
	}
	return s.toResponses(ctx, orders)
}

// GetMine returns one of the buyer's orders. Orders of other users look missing.
func (s *Service) GetMine(ctx context.Context, userID, orderID uuid.UUID) (*OrderResponse, error) {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !o.IsOwnedBy(userID) {
		return nil, shared.ErrNotFound
	}
	return s.toResponse(ctx, o)
}

// List returns all orders for the admin console, optionally by status
func (s *Service) List(ctx context.Context, q ListQuery) (*shared.Paginated[OrderResponse], error) {
	page, size := shared.NormalizePage(q.Page, q.PageSize, shared.DefaultPageSize)
	query := order.Query{Page: page, PageSize: size}
	if q.Status != "" {
		status := order.Status(q.Status)
		if !status.IsValid() {
			return nil, errInvalidStatus(q.Status)
		}
		query.Status = &status
	}

	orders, total, err := s.orders.Find(ctx, query)
	if err != nil {
		return nil, err
	}
	items, err := s.toResponses(ctx, orders)
	if err != nil {
		return nil, err
	}
	result := shared.NewPaginated(items, total, query.Page, query.PageSize)
	return &result, nil
}

// Get returns any order
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, o)
}

// UpdateStatus applies an admin status transition and publishes the change
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateStatusRequest) (*OrderResponse, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	from := o.Status
	if err := o.UpdateStatus(order.Status(req.Status)); err != nil {
		return nil, err
	}
	if err := s.orders.UpdateStatus(ctx, o); err != nil {
		return nil, err
	}

	s.logger.Info("Order status updated",
		zap.String("order_id", o.ID.String()),
		zap.String("from", string(from)),
		zap.String("to", string(o.Status)),
		zap.String("payment_status", string(o.PaymentStatus)))

	events := o.TakeEvents()
	if s.events != nil && len(events) > 0 {
		if err := s.events.Publish(ctx, events...); err != nil {
			s.logger.Warn("Failed to publish order events", zap.String("order_id", o.ID.String()), zap.Error(err))
		}
	}
	return s.toResponse(ctx, o)
}

// Stats returns the admin dashboard counters
func (s *Service) Stats(ctx context.Context) (*StatsResponse, error) {
	stats, err := s.orders.Stats(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.products.Count(ctx)
	if err != nil {
		return nil, err
	}
	var users int64
	if s.users != nil {
		if users, err = s.users.Count(ctx); err != nil {
			return nil, err
		}
	}
	byStatus := stats.ByStatus
	if byStatus == nil {
		byStatus = map[order.Status]int64{}
	}
	return &StatsResponse{
		ProductCount: products,
		OrderCount:   stats.OrderCount,
		UserCount:    users,
		Revenue:      stats.Revenue,
		ByStatus:     byStatus,
	}, nil
}

func (s *Service) toResponse(ctx context.Context, o *order.Order) (*OrderResponse, error) {
	infos, err := s.productInfos(ctx, []order.Order{*o})
	if err != nil {
		return nil, err
	}
	resp := toResponse(o, infos)
	return &resp, nil
}

func (s *Service) toResponses(ctx context.Context, orders []order.Order) ([]OrderResponse, error) {
	infos, err := s.productInfos(ctx, orders)
	if err != nil {
		return nil, err
	}
	out := make([]OrderResponse, len(orders))
	for i := range orders {
		out[i] = toResponse(&orders[i], infos)
	}
	return out, nil
}

// productInfos resolves display names for every product referenced by orders.
// Deleted products are simply absent from the map.
func (s *Service) productInfos(ctx context.Context, orders []order.Order) (map[uuid.UUID]productInfo, error) {
	seen := make(map[uuid.UUID]struct{})
	ids := make([]uuid.UUID, 0)
	for _, o := range orders {
		for _, it := range o.Items {
			if _, ok := seen[it.ProductID]; !ok {
				seen[it.ProductID] = struct{}{}
				ids = append(ids, it.ProductID)
			}
		}
	}
	infos := make(map[uuid.UUID]productInfo, len(ids))
	if len(ids) == 0 {
		return infos, nil
	}
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range products {
		p := &products[i]
		infos[p.ID] = productInfo{Name: p.Name, Slug: p.Slug, Image: p.PrimaryImage()}
	}
	return infos, nil
}

// allOrders pages through every order matching status, oldest page first
func (s *Service) allOrders(ctx context.Context, status *order.Status) ([]order.Order, error) {
	const pageSize = 500
	var all []order.Order
	for page := 1; ; page++ {
		batch, total, err := s.orders.Find(ctx, order.Query{Status: status, Page: page, PageSize: pageSize})
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < pageSize || int64(len(all)) >= total {
			return all, nil
		}
	}
}
