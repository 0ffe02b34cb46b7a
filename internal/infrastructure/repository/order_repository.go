package repository

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/kikibeach/kiki-pos/internal/domain/entity"
	"github.com/kikibeach/kiki-pos/internal/domain/enum"
	domainRepo "github.com/kikibeach/kiki-pos/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) domainRepo.OrderRepository {
	return &orderRepository{db: db}
}

// CreateWithStock reserves stock for every item and inserts the order in a
// single transaction. If any item falls short the whole transaction is rolled back.
func (r *orderRepository) CreateWithStock(ctx context.Context, order *entity.Order) error {
	var failedIDs []uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, d := range stockDecrements(order.Items) {
			result := tx.Model(&entity.MenuItem{}).
				Where("id = ? AND stock >= ?", d.menuItemID, d.amount).
				Update("stock", gorm.Expr("stock - ?", d.amount))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				failedIDs = append(failedIDs, d.menuItemID)
			}
		}

		if len(failedIDs) > 0 {
			return &domainRepo.InsufficientStockError{MenuItemIDs: failedIDs}
		}

		if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
			return err
		}
		for i := range order.Items {
			order.Items[i].OrderID = order.ID
		}
		if len(order.Items) == 0 {
			return nil
		}
		return tx.Omit(clause.Associations).Create(&order.Items).Error
	})

	return err
}

type stockDecrement struct {
	menuItemID uint
	amount     int
}

// stockDecrements sums quantities per menu item in ascending id order so
// concurrent orders lock menu rows in the same sequence.
func stockDecrements(items []entity.OrderItem) []stockDecrement {
	totals := make(map[uint]int, len(items))
	for _, item := range items {
		totals[item.MenuItemID] += item.Quantity
	}

	out := make([]stockDecrement, 0, len(totals))
	for id, amount := range totals {
		out = append(out, stockDecrement{menuItemID: id, amount: amount})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].menuItemID < out[j].menuItemID })
	return out
}

func (r *orderRepository) GetWithItems(ctx context.Context, id uint) (*entity.Order, error) {
	var order entity.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Items.MenuItem", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

func (r *orderRepository) ListActive(ctx context.Context, from, to time.Time) ([]entity.Order, error) {
	var orders []entity.Order
	err := r.db.WithContext(ctx).
		Where("is_archived = ? AND created_at >= ? AND created_at < ?", false, from, to).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Items.MenuItem", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepository) ListHistory(ctx context.Context, params *domainRepo.OrderHistoryParams) ([]entity.Order, int64, error) {
	var orders []entity.Order
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Order{}).
		Where("created_at >= ? AND created_at < ?", params.From, params.To)
	if len(params.Statuses) > 0 {
		query = query.Where("status IN ?", params.Statuses)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if params.Pagination != nil {
		params.Pagination.Validate()
		query = query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage)
	}

	err := query.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Items.MenuItem", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Order("created_at DESC").
		Find(&orders).Error

	return orders, total, err
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uint, status enum.OrderStatus) error {
	return r.db.WithContext(ctx).Model(&entity.Order{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *orderRepository) Archive(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&entity.Order{}).
		Where("id = ?", id).
		Update("is_archived", true).Error
}
