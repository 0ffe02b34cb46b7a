package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/kikibeach/kiki-pos/internal/application/service"
	"github.com/kikibeach/kiki-pos/internal/presentation/http/dto/request"
	"github.com/kikibeach/kiki-pos/internal/presentation/http/dto/response"
	"github.com/kikibeach/kiki-pos/pkg/pagination"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// HistoryHandler serves finished orders by month
type HistoryHandler struct {
	orderService  *service.OrderService
	exportService *service.ExportService
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(orderService *service.OrderService, exportService *service.ExportService) *HistoryHandler {
	return &HistoryHandler{orderService: orderService, exportService: exportService}
}

// List returns one page of a month's finished orders
// @Summary Order history
// @Tags history
// @Security BearerAuth
// @Param month query string false "YYYY-MM, defaults to the current month"
// @Param page query int false "Page"
// @Param per_page query int false "Page size"
// @Router /history [get]
func (h *HistoryHandler) List(c *gin.Context) {
	var q request.HistoryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	orders, page, err := h.orderService.History(c.Request.Context(), &service.HistoryInput{
		Month:      q.Month,
		Pagination: &pagination.PaginationParams{Page: q.Page, PerPage: q.PerPage},
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, "History retrieved", orders, page)
}

// Export downloads a month's finished orders as an Excel workbook
func (h *HistoryHandler) Export(c *gin.Context) {
	buf, filename, err := h.exportService.ExportHistory(c.Request.Context(), c.Query("month"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Attachment(c, xlsxContentType, filename, buf.Bytes())
}
