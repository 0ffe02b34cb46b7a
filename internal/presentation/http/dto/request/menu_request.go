package request

// MenuItemRequest represents create/update input for a menu item
type MenuItemRequest struct {
	Name         string  `json:"name" binding:"required,max=255"`
	CategoryID   uint    `json:"category_id"`
	CategorySlug string  `json:"category_slug"`
	Price        int64   `json:"price" binding:"min=0"`
	Stock        int     `json:"stock" binding:"min=0"`
	Image        *string `json:"image"`
	Description  *string `json:"description"`
}

// UpdateStockRequest overwrites the stock of a menu item
type UpdateStockRequest struct {
	Stock *int `json:"stock" binding:"required,min=0"`
}

// MenuQuery filters the public menu
type MenuQuery struct {
	Category string `form:"category"`
	Group    string `form:"group"`
	Search   string `form:"search"`
	InStock  bool   `form:"in_stock"`
}
