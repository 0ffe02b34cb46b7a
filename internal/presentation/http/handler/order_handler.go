package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/kikibeach/kiki-pos/internal/application/service"
	"github.com/kikibeach/kiki-pos/internal/presentation/http/dto/request"
	"github.com/kikibeach/kiki-pos/internal/presentation/http/dto/response"
)

// OrderHandler handles order-related HTTP requests
type OrderHandler struct {
	orderService *service.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// Create places an order. Guests may call it without a token; staff orders
// carry the cashier name.
// @Summary Place order
// @Tags orders
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Replay protection key"
// @Param request body request.CreateOrderRequest true "Order"
// @Success 201 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	var req request.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	items := make([]service.CreateOrderItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, service.CreateOrderItemInput{
			MenuItemID: it.MenuItemID,
			Quantity:   it.Quantity,
			Note:       it.Note,
		})
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), &service.CreateOrderInput{
		CustomerName:  req.CustomerName,
		RoomNumber:    req.RoomNumber,
		OrderType:     req.OrderType,
		PaymentMethod: req.PaymentMethod,
		IsPreOrder:    req.IsPreOrder,
		ScheduledAt:   req.ScheduledAt,
		Items:         items,
		Cashier:       GetCashier(c),
		RequestID:     response.RequestID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Order created", order)
}

// Queue returns today's open orders with their urgency tag
// @Summary Cashier queue
// @Tags orders
// @Security BearerAuth
// @Router /orders/queue [get]
func (h *OrderHandler) Queue(c *gin.Context) {
	queue, err := h.orderService.Queue(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Queue retrieved", queue)
}

// Get returns one order with its items
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order retrieved", order)
}

// UpdateStatus marks an order paid or failed
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req request.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order status updated", order)
}

// Archive hides an order from the queue; it stays in history
func (h *OrderHandler) Archive(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.orderService.ArchiveOrder(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order archived", nil)
}
