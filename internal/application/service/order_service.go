package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kikibeach/kiki-pos/internal/domain/entity"
	"github.com/kikibeach/kiki-pos/internal/domain/enum"
	"github.com/kikibeach/kiki-pos/internal/domain/event"
	"github.com/kikibeach/kiki-pos/internal/domain/repository"
	"github.com/kikibeach/kiki-pos/pkg/apperror"
	"github.com/kikibeach/kiki-pos/pkg/logger"
	"github.com/kikibeach/kiki-pos/pkg/pagination"
)

// OrderEventPublisher delivers order events to the kitchen
type OrderEventPublisher interface {
	PublishOrderCreated(ctx context.Context, evt event.OrderCreated) error
}

type noopPublisher struct{}

func (noopPublisher) PublishOrderCreated(context.Context, event.OrderCreated) error { return nil }

// OrderService handles order placement and the cashier queue
type OrderService struct {
	orderRepo repository.OrderRepository
	menuRepo  repository.MenuRepository
	publisher OrderEventPublisher
	location  *time.Location
	log       *logger.Logger
	now       func() time.Time
}

// NewOrderService creates a new order service. A nil publisher disables events.
func NewOrderService(
	orderRepo repository.OrderRepository,
	menuRepo repository.MenuRepository,
	publisher OrderEventPublisher,
	location *time.Location,
	log *logger.Logger,
) *OrderService {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	if location == nil {
		location = time.UTC
	}
	return &OrderService{
		orderRepo: orderRepo,
		menuRepo:  menuRepo,
		publisher: publisher,
		location:  location,
		log:       log,
		now:       time.Now,
	}
}

// CreateOrderInput represents a new order
type CreateOrderInput struct {
	CustomerName  string
	RoomNumber    string
	OrderType     enum.OrderType
	PaymentMethod enum.PaymentMethod
	IsPreOrder    bool
	ScheduledAt   *time.Time
	Items         []CreateOrderItemInput
	Cashier       string // empty for guest self-orders
	RequestID     string
}

// CreateOrderItemInput represents one line of a new order
type CreateOrderItemInput struct {
	MenuItemID uint
	Quantity   int
	Note       string
}

func (in *CreateOrderInput) validate() error {
	var fields []apperror.FieldError
	if len(in.Items) == 0 {
		fields = append(fields, apperror.FieldError{Field: "items", Message: "order must contain at least one item"})
	}
	for i, it := range in.Items {
		if it.MenuItemID == 0 {
			fields = append(fields, apperror.FieldError{Field: fmt.Sprintf("items[%d].menu_item_id", i), Message: "is required"})
		}
		if it.Quantity < 1 {
			fields = append(fields, apperror.FieldError{Field: fmt.Sprintf("items[%d].quantity", i), Message: "must be at least 1"})
		}
	}
	if !in.OrderType.IsValid() {
		fields = append(fields, apperror.FieldError{Field: "order_type", Message: "is invalid"})
	}
	if !in.PaymentMethod.IsValid() {
		fields = append(fields, apperror.FieldError{Field: "payment_method", Message: "is invalid"})
	}
	if in.OrderType.NeedsRoom() && strings.TrimSpace(in.RoomNumber) == "" {
		fields = append(fields, apperror.FieldError{Field: "room_number", Message: "is required for room delivery"})
	}
	if len(fields) > 0 {
		return apperror.NewValidationError(fields)
	}
	return nil
}

// CreateOrder validates the request, prices every line from the catalog and
// stores the order while reserving stock.
func (s *OrderService) CreateOrder(ctx context.Context, input *CreateOrderInput) (*entity.Order, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(input.Items))
	for _, it := range input.Items {
		ids = append(ids, it.MenuItemID)
	}
	menuItems, err := s.menuRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	catalog := make(map[uint]entity.MenuItem, len(menuItems))
	for _, m := range menuItems {
		catalog[m.ID] = m
	}

	order := &entity.Order{
		CustomerName:  strings.TrimSpace(input.CustomerName),
		OrderType:     input.OrderType,
		PaymentMethod: input.PaymentMethod,
		Status:        enum.OrderStatusSuccess,
		TotalOrder:    len(input.Items),
		IsPreOrder:    input.IsPreOrder || input.ScheduledAt != nil,
		ScheduledAt:   input.ScheduledAt,
	}
	if room := strings.TrimSpace(input.RoomNumber); room != "" {
		order.RoomNumber = &room
	}

	var short []string
	for _, it := range input.Items {
		m, ok := catalog[it.MenuItemID]
		if !ok {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("Menu item %d", it.MenuItemID))
		}
		if !m.InStock(it.Quantity) {
			short = append(short, m.Name)
			continue
		}
		price := m.Price
		item := entity.OrderItem{
			MenuItemID: m.ID,
			Quantity:   it.Quantity,
			Price:      &price,
			MenuItem:   m,
		}
		if note := strings.TrimSpace(it.Note); note != "" {
			item.Note = &note
		}
		order.Items = append(order.Items, item)
		order.TotalPrice += price * int64(it.Quantity)
	}
	if len(short) > 0 {
		return nil, apperror.NewInsufficientStockError(short)
	}

	if err := s.orderRepo.CreateWithStock(ctx, order); err != nil {
		var stockErr *repository.InsufficientStockError
		if errors.As(err, &stockErr) {
			return nil, apperror.NewInsufficientStockError(menuNames(catalog, stockErr.MenuItemIDs))
		}
		return nil, err
	}

	s.log.Info("order_created", input.RequestID, "order placed",
		slog.Uint64("order_id", uint64(order.ID)),
		slog.Int64("total_price", order.TotalPrice),
		slog.Bool("pre_order", order.IsPreOrder))

	evt := event.OrderCreated{
		OrderID:      order.ID,
		CustomerName: order.CustomerName,
		OrderType:    string(order.OrderType),
		TotalPrice:   order.TotalPrice,
		IsPreOrder:   order.IsPreOrder,
		ScheduledAt:  order.ScheduledAt,
		Cashier:      input.Cashier,
		CreatedAt:    order.CreatedAt,
	}
	if err := s.publisher.PublishOrderCreated(ctx, evt); err != nil {
		// The order is committed; the kitchen can still print from the queue.
		s.log.Error("order_publish_failed", input.RequestID, "failed to publish order event", err,
			slog.Uint64("order_id", uint64(order.ID)))
	}

	return order, nil
}

func menuNames(catalog map[uint]entity.MenuItem, ids []uint) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if m, ok := catalog[id]; ok {
			names = append(names, m.Name)
		} else {
			names = append(names, fmt.Sprintf("#%d", id))
		}
	}
	return names
}

// QueuedOrder is an order on the cashier screen with its urgency tag
type QueuedOrder struct {
	entity.Order
	Urgency enum.Urgency `json:"urgency"`
	Minutes int          `json:"minutes"` // elapsed, or until the scheduled time for pre-orders
}

// Queue returns today's non-archived orders, newest first
func (s *OrderService) Queue(ctx context.Context) ([]QueuedOrder, error) {
	now := s.now().In(s.location)
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location)
	end := start.AddDate(0, 0, 1)

	orders, err := s.orderRepo.ListActive(ctx, start, end)
	if err != nil {
		return nil, err
	}

	queue := make([]QueuedOrder, 0, len(orders))
	for _, o := range orders {
		urgency, minutes := OrderUrgency(&o, now)
		queue = append(queue, QueuedOrder{Order: o, Urgency: urgency, Minutes: minutes})
	}
	return queue, nil
}

// OrderUrgency tags regular orders by minutes waited and pre-orders by
// minutes left until their scheduled time.
func OrderUrgency(o *entity.Order, now time.Time) (enum.Urgency, int) {
	if o.IsPreOrder {
		if o.ScheduledAt == nil {
			return enum.UrgencyScheduled, 0
		}
		minutes := int(o.ScheduledAt.Sub(now) / time.Minute)
		return enum.CountdownUrgency(minutes), minutes
	}
	minutes := int(now.Sub(o.CreatedAt) / time.Minute)
	if minutes < 0 {
		minutes = 0
	}
	return enum.ElapsedUrgency(minutes), minutes
}

// GetOrder returns an order with its items
func (s *OrderService) GetOrder(ctx context.Context, id uint) (*entity.Order, error) {
	order, err := s.orderRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	return order, nil
}

// UpdateStatus changes the payment status of an order
func (s *OrderService) UpdateStatus(ctx context.Context, id uint, status enum.OrderStatus) (*entity.Order, error) {
	if !status.IsValid() {
		return nil, apperror.NewBadRequestError("Invalid order status")
	}
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.orderRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	order.Status = status
	return order, nil
}

// ArchiveOrder hides an order from the queue; its items are kept for reprints
func (s *OrderService) ArchiveOrder(ctx context.Context, id uint) error {
	order, err := s.orderRepo.GetWithItems(ctx, id)
	if err != nil {
		return err
	}
	if order == nil {
		return apperror.NewNotFoundError("Order")
	}
	if order.IsArchived {
		return nil
	}
	return s.orderRepo.Archive(ctx, id)
}

// HistoryInput selects one month of finished orders
type HistoryInput struct {
	Month      string // YYYY-MM, empty for the current month
	Pagination *pagination.PaginationParams
}

// History returns finished (SUCCESS or FAILED) orders of a month
func (s *OrderService) History(ctx context.Context, input *HistoryInput) ([]entity.Order, *pagination.Pagination, error) {
	from, to, err := s.MonthRange(input.Month)
	if err != nil {
		return nil, nil, err
	}

	params := &repository.OrderHistoryParams{
		Pagination: input.Pagination,
		From:       from,
		To:         to,
		Statuses:   []enum.OrderStatus{enum.OrderStatusSuccess, enum.OrderStatusFailed},
	}
	orders, total, err := s.orderRepo.ListHistory(ctx, params)
	if err != nil {
		return nil, nil, err
	}

	if input.Pagination == nil {
		return orders, pagination.NewPagination(1, len(orders), total), nil
	}
	return orders, pagination.NewPagination(input.Pagination.Page, input.Pagination.PerPage, total), nil
}

// MonthRange resolves "YYYY-MM" to [first day, first day of next month) in the
// display location.
func (s *OrderService) MonthRange(month string) (time.Time, time.Time, error) {
	var start time.Time
	if month == "" {
		now := s.now().In(s.location)
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.location)
	} else {
		parsed, err := time.ParseInLocation("2006-01", month, s.location)
		if err != nil {
			return time.Time{}, time.Time{}, apperror.NewBadRequestError("month must be formatted as YYYY-MM")
		}
		start = parsed
	}
	return start, start.AddDate(0, 1, 0), nil
}
