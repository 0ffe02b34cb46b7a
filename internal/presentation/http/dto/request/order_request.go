package request

import (
	"time"

	"github.com/kikibeach/kiki-pos/internal/domain/enum"
)

// CreateOrderRequest represents an order placed from the menu page or the cashier
type CreateOrderRequest struct {
	CustomerName  string                   `json:"customer_name" binding:"max=255"`
	RoomNumber    string                   `json:"room_number" binding:"max=50"`
	OrderType     enum.OrderType           `json:"order_type" binding:"required"`
	PaymentMethod enum.PaymentMethod       `json:"payment_method" binding:"required"`
	IsPreOrder    bool                     `json:"is_pre_order"`
	ScheduledAt   *time.Time               `json:"scheduled_at"`
	Items         []CreateOrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// CreateOrderItemRequest represents one line of an order
type CreateOrderItemRequest struct {
	MenuItemID uint   `json:"menu_item_id" binding:"required"`
	Quantity   int    `json:"quantity" binding:"required,min=1,max=99"`
	Note       string `json:"note" binding:"max=255"`
}

// UpdateOrderStatusRequest changes the payment status of an order
type UpdateOrderStatusRequest struct {
	Status enum.OrderStatus `json:"status" binding:"required"`
}

// HistoryQuery selects a month of finished orders
type HistoryQuery struct {
	Month   string `form:"month"`
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
}
