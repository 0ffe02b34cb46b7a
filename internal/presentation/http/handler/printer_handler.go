package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/kikibeach/kiki-pos/internal/application/service"
	"github.com/kikibeach/kiki-pos/internal/presentation/http/dto/request"
	"github.com/kikibeach/kiki-pos/internal/presentation/http/dto/response"
	"github.com/kikibeach/kiki-pos/pkg/printer"
)

// PrinterHandler handles receipt preview and printing
type PrinterHandler struct {
	printerService *service.PrinterService
}

// NewPrinterHandler creates a new printer handler
func NewPrinterHandler(printerService *service.PrinterService) *PrinterHandler {
	return &PrinterHandler{printerService: printerService}
}

func toReceiptOptions(req request.ReceiptOptionsRequest) service.ReceiptOptions {
	return service.ReceiptOptions{
		Paper:   req.Paper,
		Font:    req.Font,
		Variant: req.Variant,
		Compact: req.Compact,
	}
}

// Status reports both printers
// @Summary Printer status
// @Tags printer
// @Security BearerAuth
// @Router /printer/status [get]
func (h *PrinterHandler) Status(c *gin.Context) {
	response.OK(c, "Printer status", h.printerService.Status(c.Request.Context()))
}

// Preview renders a receipt as plain text for the screen
// @Summary Preview receipt
// @Tags printer
// @Security BearerAuth
// @Param request body request.PreviewReceiptRequest true "Order and options"
// @Router /printer/preview [post]
func (h *PrinterHandler) Preview(c *gin.Context) {
	var req request.PreviewReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	text, err := h.printerService.Preview(c.Request.Context(), &service.PreviewInput{
		OrderID:   req.OrderID,
		Options:   toReceiptOptions(req.ReceiptOptionsRequest),
		Cashier:   GetCashier(c),
		RequestID: response.RequestID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt preview", gin.H{"order_id": req.OrderID, "text": text})
}

// PreviewBatch renders several receipts in one text block
func (h *PrinterHandler) PreviewBatch(c *gin.Context) {
	var req request.BatchPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	text, err := h.printerService.PreviewBatch(c.Request.Context(), &service.BatchPreviewInput{
		OrderIDs:  req.OrderIDs,
		Options:   toReceiptOptions(req.ReceiptOptionsRequest),
		Cashier:   GetCashier(c),
		RequestID: response.RequestID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt preview", gin.H{"order_ids": req.OrderIDs, "text": text})
}

// Print sends a receipt to the restaurant or kitchen printer
// @Summary Print receipt
// @Tags printer
// @Security BearerAuth
// @Param request body request.PrintReceiptRequest true "Order, target and options"
// @Failure 503 {object} response.APIResponse
// @Router /printer/print [post]
func (h *PrinterHandler) Print(c *gin.Context) {
	var req request.PrintReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	target := printer.ParseTarget(req.Target)

	result, err := h.printerService.Print(c.Request.Context(), &service.PrintInput{
		OrderID:   req.OrderID,
		Target:    target,
		Options:   toReceiptOptions(req.ReceiptOptionsRequest),
		Cashier:   GetCashier(c),
		RequestID: response.RequestID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt printed", result)
}

// PrintRaw forwards pre-formatted text to a printer
func (h *PrinterHandler) PrintRaw(c *gin.Context) {
	var req request.PrintRawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	target := printer.ParseTarget(req.Target)

	if err := h.printerService.PrintRaw(c.Request.Context(), req.Text, target, response.RequestID(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Text printed", gin.H{"target": target, "bytes": len(req.Text)})
}
