package repository

import (
	"context"

	"github.com/kikibeach/kiki-pos/internal/domain/entity"
	"github.com/kikibeach/kiki-pos/internal/domain/enum"
)

// MenuRepository defines the interface for menu data operations
type MenuRepository interface {
	Create(ctx context.Context, item *entity.MenuItem) error
	GetByID(ctx context.Context, id uint) (*entity.MenuItem, error)
	// GetByIDs retrieves multiple items in a single query
	GetByIDs(ctx context.Context, ids []uint) ([]entity.MenuItem, error)
	Update(ctx context.Context, item *entity.MenuItem) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, params *MenuFilterParams) ([]entity.MenuItem, error)
	SetStock(ctx context.Context, id uint, stock int) error
	Count(ctx context.Context) (int64, error)
}

// MenuFilterParams contains filtering parameters for menu queries
type MenuFilterParams struct {
	CategorySlug string
	Group        *enum.CategoryGroup
	Search       string
	InStockOnly  bool
}

// CategoryRepository defines the interface for category data operations
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id uint) (*entity.Category, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Category, error)
	List(ctx context.Context, group *enum.CategoryGroup) ([]entity.Category, error)
}
