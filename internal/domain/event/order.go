package event

import "time"

// OrderCreatedRoutingKey is the routing key of new-order events
const OrderCreatedRoutingKey = "order.created"

// OrderCreated is published after an order has been committed
type OrderCreated struct {
	OrderID      uint       `json:"order_id"`
	CustomerName string     `json:"customer_name"`
	OrderType    string     `json:"order_type"`
	TotalPrice   int64      `json:"total_price"`
	IsPreOrder   bool       `json:"is_pre_order"`
	ScheduledAt  *time.Time `json:"scheduled_at,omitempty"`
	Cashier      string     `json:"cashier,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}
