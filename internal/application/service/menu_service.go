package service

import (
	"context"
	"strings"

	"github.com/kikibeach/kiki-pos/internal/domain/entity"
	"github.com/kikibeach/kiki-pos/internal/domain/enum"
	"github.com/kikibeach/kiki-pos/internal/domain/repository"
	"github.com/kikibeach/kiki-pos/pkg/apperror"
)

// MenuService handles menu and category operations
type MenuService struct {
	menuRepo     repository.MenuRepository
	categoryRepo repository.CategoryRepository
}

// NewMenuService creates a new menu service
func NewMenuService(menuRepo repository.MenuRepository, categoryRepo repository.CategoryRepository) *MenuService {
	return &MenuService{
		menuRepo:     menuRepo,
		categoryRepo: categoryRepo,
	}
}

// ListMenu returns menu items, optionally narrowed by category or group
func (s *MenuService) ListMenu(ctx context.Context, params *repository.MenuFilterParams) ([]entity.MenuItem, error) {
	return s.menuRepo.List(ctx, params)
}

// ListCategories returns categories, optionally of one group
func (s *MenuService) ListCategories(ctx context.Context, group *enum.CategoryGroup) ([]entity.Category, error) {
	return s.categoryRepo.List(ctx, group)
}

// GetMenuItem returns a single menu item
func (s *MenuService) GetMenuItem(ctx context.Context, id uint) (*entity.MenuItem, error) {
	item, err := s.menuRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NewNotFoundError("Menu item")
	}
	return item, nil
}

// MenuItemInput represents create/update input for a menu item
type MenuItemInput struct {
	Name         string
	CategoryID   uint
	CategorySlug string
	Price        int64
	Stock        int
	Image        *string
	Description  *string
}

func (s *MenuService) resolveCategory(ctx context.Context, input *MenuItemInput) (*entity.Category, error) {
	var (
		category *entity.Category
		err      error
	)
	switch {
	case input.CategoryID != 0:
		category, err = s.categoryRepo.GetByID(ctx, input.CategoryID)
	case input.CategorySlug != "":
		category, err = s.categoryRepo.GetBySlug(ctx, input.CategorySlug)
	default:
		return nil, apperror.NewBadRequestError("category_id or category_slug is required")
	}
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperror.NewNotFoundError("Category")
	}
	return category, nil
}

func (input *MenuItemInput) validate() error {
	var fields []apperror.FieldError
	if strings.TrimSpace(input.Name) == "" {
		fields = append(fields, apperror.FieldError{Field: "name", Message: "is required"})
	}
	if input.Price < 0 {
		fields = append(fields, apperror.FieldError{Field: "price", Message: "must not be negative"})
	}
	if input.Stock < 0 {
		fields = append(fields, apperror.FieldError{Field: "stock", Message: "must not be negative"})
	}
	if len(fields) > 0 {
		return apperror.NewValidationError(fields)
	}
	return nil
}

// CreateMenuItem adds an item to the menu
func (s *MenuService) CreateMenuItem(ctx context.Context, input *MenuItemInput) (*entity.MenuItem, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	category, err := s.resolveCategory(ctx, input)
	if err != nil {
		return nil, err
	}

	item := &entity.MenuItem{
		CategoryID:  category.ID,
		Name:        strings.TrimSpace(input.Name),
		Price:       input.Price,
		Stock:       input.Stock,
		Image:       input.Image,
		Description: input.Description,
	}
	if err := s.menuRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	item.Category = category
	return item, nil
}

// UpdateMenuItem replaces the editable fields of a menu item
func (s *MenuService) UpdateMenuItem(ctx context.Context, id uint, input *MenuItemInput) (*entity.MenuItem, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	item, err := s.GetMenuItem(ctx, id)
	if err != nil {
		return nil, err
	}
	category, err := s.resolveCategory(ctx, input)
	if err != nil {
		return nil, err
	}

	item.CategoryID = category.ID
	item.Category = category
	item.Name = strings.TrimSpace(input.Name)
	item.Price = input.Price
	item.Stock = input.Stock
	item.Image = input.Image
	item.Description = input.Description

	if err := s.menuRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteMenuItem removes an item from the menu. Past orders keep their lines.
func (s *MenuService) DeleteMenuItem(ctx context.Context, id uint) error {
	if _, err := s.GetMenuItem(ctx, id); err != nil {
		return err
	}
	return s.menuRepo.Delete(ctx, id)
}

// SetStock overwrites the available portions of an item
func (s *MenuService) SetStock(ctx context.Context, id uint, stock int) (*entity.MenuItem, error) {
	if stock < 0 {
		return nil, apperror.NewBadRequestError("stock must not be negative")
	}
	item, err := s.GetMenuItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.menuRepo.SetStock(ctx, id, stock); err != nil {
		return nil, err
	}
	item.Stock = stock
	return item, nil
}
