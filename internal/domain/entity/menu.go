package entity

import (
	"time"

	"github.com/kikibeach/kiki-pos/internal/domain/enum"
	"gorm.io/gorm"
)

// Category represents a menu section such as "Seafood" or "Juice"
type Category struct {
	ID        uint               `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string             `gorm:"size:100;not null" json:"name"`
	Slug      string             `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Group     enum.CategoryGroup `gorm:"column:category_group;size:16;not null;index" json:"group"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`

	// Relationships
	MenuItems []MenuItem `gorm:"foreignKey:CategoryID" json:"-"`
}

// TableName returns the table name for the Category model
func (Category) TableName() string {
	return "categories"
}

// MenuItem represents a dish or drink on the menu
type MenuItem struct {
	ID          uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CategoryID  uint           `gorm:"not null;index" json:"category_id"`
	Name        string         `gorm:"size:255;not null" json:"name"`
	Description *string        `gorm:"type:text" json:"description,omitempty"`
	Image       *string        `gorm:"size:512" json:"image,omitempty"`
	Price       int64          `gorm:"not null;default:0" json:"price"` // whole rupiah
	Stock       int            `gorm:"not null;default:0" json:"stock"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// TableName returns the table name for the MenuItem model
func (MenuItem) TableName() string {
	return "menu_items"
}

// InStock reports whether qty portions can be served.
func (m *MenuItem) InStock(qty int) bool {
	return m.Stock >= qty
}
