package request

// ReceiptOptionsRequest selects paper geometry and audience
type ReceiptOptionsRequest struct {
	Paper   string `json:"paper" binding:"omitempty,oneof=58mm 80mm"`
	Font    string `json:"font" binding:"omitempty,oneof=A B a b"`
	Variant string `json:"variant" binding:"omitempty,oneof=front-of-house kitchen"`
	Compact *bool  `json:"compact"`
}

// PreviewReceiptRequest is the request body for rendering one receipt as text
type PreviewReceiptRequest struct {
	OrderID uint `json:"order_id" binding:"required"`
	ReceiptOptionsRequest
}

// BatchPreviewRequest renders several receipts at once
type BatchPreviewRequest struct {
	OrderIDs []uint `json:"order_ids" binding:"required,min=1,max=50"`
	ReceiptOptionsRequest
}

// PrintReceiptRequest is the request body for printing a receipt
type PrintReceiptRequest struct {
	OrderID uint   `json:"order_id" binding:"required"`
	Target  string `json:"target" binding:"omitempty,oneof=restaurant kitchen"`
	ReceiptOptionsRequest
}

// PrintRawRequest forwards already formatted text to a printer
type PrintRawRequest struct {
	Text   string `json:"text" binding:"required"`
	Target string `json:"target" binding:"omitempty,oneof=restaurant kitchen"`
}
