package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/kikibeach/kiki-pos/internal/application/service"
	"github.com/kikibeach/kiki-pos/internal/domain/enum"
	"github.com/kikibeach/kiki-pos/internal/domain/repository"
	"github.com/kikibeach/kiki-pos/internal/presentation/http/dto/request"
	"github.com/kikibeach/kiki-pos/internal/presentation/http/dto/response"
)

// MenuHandler serves the catalog
type MenuHandler struct {
	menuService *service.MenuService
}

// NewMenuHandler creates a new menu handler
func NewMenuHandler(menuService *service.MenuService) *MenuHandler {
	return &MenuHandler{menuService: menuService}
}

func parseGroup(c *gin.Context, raw string) (*enum.CategoryGroup, bool) {
	if raw == "" {
		return nil, true
	}
	group, err := enum.ParseCategoryGroup(raw)
	if err != nil {
		response.BadRequest(c, "group must be FOOD or BEVERAGES")
		return nil, false
	}
	return &group, true
}

// List handles the public menu listing
// @Summary List menu items
// @Tags menu
// @Param category query string false "Category slug"
// @Param group query string false "FOOD or BEVERAGES"
// @Param search query string false "Name search"
// @Param in_stock query bool false "Only items with stock"
// @Router /menu [get]
func (h *MenuHandler) List(c *gin.Context) {
	var q request.MenuQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}
	group, ok := parseGroup(c, q.Group)
	if !ok {
		return
	}

	items, err := h.menuService.ListMenu(c.Request.Context(), &repository.MenuFilterParams{
		CategorySlug: q.Category,
		Group:        group,
		Search:       q.Search,
		InStockOnly:  q.InStock,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Menu retrieved", items)
}

// Get returns one menu item
func (h *MenuHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	item, err := h.menuService.GetMenuItem(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Menu item retrieved", item)
}

// Categories lists categories, optionally narrowed to one group
func (h *MenuHandler) Categories(c *gin.Context) {
	group, ok := parseGroup(c, c.Query("group"))
	if !ok {
		return
	}

	categories, err := h.menuService.ListCategories(c.Request.Context(), group)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Categories retrieved", categories)
}

func toMenuItemInput(req *request.MenuItemRequest) *service.MenuItemInput {
	return &service.MenuItemInput{
		Name:         req.Name,
		CategoryID:   req.CategoryID,
		CategorySlug: req.CategorySlug,
		Price:        req.Price,
		Stock:        req.Stock,
		Image:        req.Image,
		Description:  req.Description,
	}
}

// Create adds a menu item
func (h *MenuHandler) Create(c *gin.Context) {
	var req request.MenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	item, err := h.menuService.CreateMenuItem(c.Request.Context(), toMenuItemInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Menu item created", item)
}

// Update replaces a menu item
func (h *MenuHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req request.MenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	item, err := h.menuService.UpdateMenuItem(c.Request.Context(), id, toMenuItemInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Menu item updated", item)
}

// Delete removes a menu item from the catalog; past orders keep showing it
func (h *MenuHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.menuService.DeleteMenuItem(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Menu item deleted", nil)
}

// UpdateStock overwrites the stock count of a menu item
func (h *MenuHandler) UpdateStock(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req request.UpdateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	item, err := h.menuService.SetStock(c.Request.Context(), id, *req.Stock)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Stock updated", item)
}
