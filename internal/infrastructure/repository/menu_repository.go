package repository

import (
	"context"
	"errors"

	"github.com/kikibeach/kiki-pos/internal/domain/entity"
	"github.com/kikibeach/kiki-pos/internal/domain/enum"
	domainRepo "github.com/kikibeach/kiki-pos/internal/domain/repository"
	"gorm.io/gorm"
)

type menuRepository struct {
	db *gorm.DB
}

// NewMenuRepository creates a new menu repository
func NewMenuRepository(db *gorm.DB) domainRepo.MenuRepository {
	return &menuRepository{db: db}
}

func (r *menuRepository) Create(ctx context.Context, item *entity.MenuItem) error {
	return r.db.WithContext(ctx).Omit("Category").Create(item).Error
}

func (r *menuRepository) GetByID(ctx context.Context, id uint) (*entity.MenuItem, error) {
	var item entity.MenuItem
	err := r.db.WithContext(ctx).Preload("Category").First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &item, err
}

func (r *menuRepository) GetByIDs(ctx context.Context, ids []uint) ([]entity.MenuItem, error) {
	if len(ids) == 0 {
		return []entity.MenuItem{}, nil
	}
	var items []entity.MenuItem
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error
	return items, err
}

func (r *menuRepository) Update(ctx context.Context, item *entity.MenuItem) error {
	return r.db.WithContext(ctx).Omit("Category").Save(item).Error
}

func (r *menuRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&entity.MenuItem{}, "id = ?", id).Error
}

func (r *menuRepository) List(ctx context.Context, params *domainRepo.MenuFilterParams) ([]entity.MenuItem, error) {
	var items []entity.MenuItem

	query := r.db.WithContext(ctx).Model(&entity.MenuItem{}).
		Joins("Category")

	if params != nil {
		if params.CategorySlug != "" {
			query = query.Where(`"Category"."slug" = ?`, params.CategorySlug)
		}
		if params.Group != nil {
			query = query.Where(`"Category"."category_group" = ?`, *params.Group)
		}
		if params.Search != "" {
			query = query.Where("menu_items.name ILIKE ?", "%"+params.Search+"%")
		}
		if params.InStockOnly {
			query = query.Where("menu_items.stock > 0")
		}
	}

	err := query.Order("menu_items.category_id ASC, menu_items.name ASC").Find(&items).Error
	return items, err
}

func (r *menuRepository) SetStock(ctx context.Context, id uint, stock int) error {
	return r.db.WithContext(ctx).Model(&entity.MenuItem{}).
		Where("id = ?", id).
		Update("stock", stock).Error
}

func (r *menuRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entity.MenuItem{}).Count(&total).Error
	return total, err
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *gorm.DB) domainRepo.CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *categoryRepository) GetByID(ctx context.Context, id uint) (*entity.Category, error) {
	var category entity.Category
	err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &category, err
}

func (r *categoryRepository) GetBySlug(ctx context.Context, slug string) (*entity.Category, error) {
	var category entity.Category
	err := r.db.WithContext(ctx).First(&category, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &category, err
}

func (r *categoryRepository) List(ctx context.Context, group *enum.CategoryGroup) ([]entity.Category, error) {
	var categories []entity.Category
	query := r.db.WithContext(ctx).Model(&entity.Category{})
	if group != nil {
		query = query.Where("category_group = ?", *group)
	}
	err := query.Order("id ASC").Find(&categories).Error
	return categories, err
}
