package entity

import (
	"time"

	"github.com/kikibeach/kiki-pos/internal/domain/enum"
)

// Order represents a guest order placed from the menu or by a cashier
type Order struct {
	ID            uint               `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerName  string             `gorm:"size:255;not null" json:"customer_name"`
	RoomNumber    *string            `gorm:"size:50" json:"room_number,omitempty"`
	OrderType     enum.OrderType     `gorm:"size:32;not null;index" json:"order_type"`
	PaymentMethod enum.PaymentMethod `gorm:"size:32;not null" json:"payment_method"`
	Status        enum.OrderStatus   `gorm:"size:16;not null;default:PENDING;index" json:"status"`
	TotalOrder    int                `gorm:"not null;default:0" json:"total_order"` // number of lines
	TotalPrice    int64              `gorm:"not null;default:0" json:"total_price"` // whole rupiah
	IsPreOrder    bool               `gorm:"not null;default:false" json:"is_pre_order"`
	ScheduledAt   *time.Time         `json:"scheduled_at,omitempty"`
	IsArchived    bool               `gorm:"not null;default:false;index" json:"is_archived"`
	CreatedAt     time.Time          `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`

	// Relationships
	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// TableName returns the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// ItemsTotal sums price x quantity over the loaded items.
func (o *Order) ItemsTotal() int64 {
	var total int64
	for _, it := range o.Items {
		total += it.UnitPrice() * int64(it.Quantity)
	}
	return total
}

// OrderItem represents a line item in an order
type OrderItem struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID    uint      `gorm:"not null;index" json:"order_id"`
	MenuItemID uint      `gorm:"not null;index" json:"menu_item_id"`
	Quantity   int       `gorm:"not null" json:"quantity"`
	Price      *int64    `json:"price,omitempty"` // captured at order time
	Note       *string   `gorm:"type:text" json:"note,omitempty"`
	CreatedAt  time.Time `json:"created_at"`

	// Relationships
	MenuItem MenuItem `gorm:"foreignKey:MenuItemID" json:"menu_item"`
}

// TableName returns the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}

// UnitPrice prefers the captured price over the current menu price.
func (i *OrderItem) UnitPrice() int64 {
	if i.Price != nil {
		return *i.Price
	}
	return i.MenuItem.Price
}
