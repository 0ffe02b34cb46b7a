package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/kikibeach/kiki-pos/internal/domain/entity"
	"github.com/kikibeach/kiki-pos/internal/domain/enum"
	"github.com/kikibeach/kiki-pos/pkg/pagination"
)

// OrderRepository defines the interface for order data operations
type OrderRepository interface {
	// CreateWithStock inserts the order and its items and decrements stock
	// in one transaction. Returns *InsufficientStockError when any menu item
	// cannot cover its quantity.
	CreateWithStock(ctx context.Context, order *entity.Order) error
	GetWithItems(ctx context.Context, id uint) (*entity.Order, error)
	// ListActive returns non-archived orders created in [from, to), newest first.
	ListActive(ctx context.Context, from, to time.Time) ([]entity.Order, error)
	ListHistory(ctx context.Context, params *OrderHistoryParams) ([]entity.Order, int64, error)
	UpdateStatus(ctx context.Context, id uint, status enum.OrderStatus) error
	Archive(ctx context.Context, id uint) error
}

// OrderHistoryParams filters the finished-order listing
type OrderHistoryParams struct {
	Pagination *pagination.PaginationParams // nil returns every row
	From       time.Time
	To         time.Time
	Statuses   []enum.OrderStatus
}

// InsufficientStockError lists menu items whose stock could not be reserved
type InsufficientStockError struct {
	MenuItemIDs []uint
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for menu items %v", e.MenuItemIDs)
}
