package service

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/kikibeach/kiki-pos/internal/domain/entity"
	"github.com/kikibeach/kiki-pos/internal/domain/repository"
	"github.com/kikibeach/kiki-pos/pkg/apperror"
	"github.com/kikibeach/kiki-pos/pkg/logger"
	"github.com/kikibeach/kiki-pos/pkg/printer"
	"github.com/kikibeach/kiki-pos/pkg/receipt"
)

const maxBatchSize = 50

// PrinterService renders receipts and forwards them to the thermal printers.
type PrinterService struct {
	orderRepo repository.OrderRepository
	formatter *receipt.Formatter
	router    *printer.Router
	defaults  receipt.Options
	log       *logger.Logger
}

// NewPrinterService creates a new printer service. defaults supplies the paper
// and font used when a request leaves them empty.
func NewPrinterService(
	orderRepo repository.OrderRepository,
	formatter *receipt.Formatter,
	router *printer.Router,
	defaults receipt.Options,
	log *logger.Logger,
) *PrinterService {
	return &PrinterService{
		orderRepo: orderRepo,
		formatter: formatter,
		router:    router,
		defaults:  defaults,
		log:       log,
	}
}

// ReceiptOptions are the caller-facing rendering knobs, validated before use.
type ReceiptOptions struct {
	Paper   string
	Font    string
	Variant string
	Compact *bool
}

func (s *PrinterService) resolveOptions(in ReceiptOptions) (receipt.Options, error) {
	opts := s.defaults
	opts.Compact = in.Compact
	if in.Paper != "" {
		paper, err := receipt.ParsePaper(in.Paper)
		if err != nil {
			return opts, apperror.NewBadRequestError("paper must be 58mm or 80mm")
		}
		opts.Paper = paper
	}
	if in.Font != "" {
		font, err := receipt.ParseFont(in.Font)
		if err != nil {
			return opts, apperror.NewBadRequestError("font must be A or B")
		}
		opts.Font = font
	}
	if in.Variant != "" {
		variant, err := receipt.ParseVariant(in.Variant)
		if err != nil {
			return opts, apperror.NewBadRequestError("variant must be front-of-house or kitchen")
		}
		opts.Variant = variant
	}
	return opts, nil
}

// ToReceiptOrder maps a stored order onto the formatter's view of it.
func ToReceiptOrder(o *entity.Order) *receipt.Order {
	out := &receipt.Order{
		ID:            int64(o.ID),
		CreatedAt:     o.CreatedAt,
		CustomerName:  o.CustomerName,
		OrderType:     string(o.OrderType),
		PaymentMethod: string(o.PaymentMethod),
		Status:        string(o.Status),
		TotalPrice:    o.TotalPrice,
		IsPreOrder:    o.IsPreOrder,
		ScheduledAt:   o.ScheduledAt,
		Items:         make([]receipt.LineItem, 0, len(o.Items)),
	}
	if o.RoomNumber != nil {
		out.RoomNumber = *o.RoomNumber
	}
	for _, it := range o.Items {
		line := receipt.LineItem{
			Name:         it.MenuItem.Name,
			Quantity:     it.Quantity,
			Price:        it.Price,
			CatalogPrice: it.MenuItem.Price,
		}
		if it.Note != nil {
			line.Note = *it.Note
		}
		out.Items = append(out.Items, line)
	}
	return out
}

func (s *PrinterService) loadOrder(ctx context.Context, id uint, requestID string) (*receipt.Order, error) {
	order, err := s.orderRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}

	// The receipt prints the stored total; a mismatch means the catalog or the
	// order was edited after placement.
	if sum := order.ItemsTotal(); sum != order.TotalPrice {
		s.log.Warn("receipt_total_mismatch", requestID, "stored total differs from line items",
			slog.Uint64("order_id", uint64(order.ID)),
			slog.Int64("stored", order.TotalPrice),
			slog.Int64("computed", sum))
	}
	return ToReceiptOrder(order), nil
}

// PreviewInput selects an order to render for the screen
type PreviewInput struct {
	OrderID   uint
	Options   ReceiptOptions
	Cashier   string
	RequestID string
}

// Preview renders a receipt as plain text. The result never carries printer
// control bytes.
func (s *PrinterService) Preview(ctx context.Context, input *PreviewInput) (string, error) {
	opts, err := s.resolveOptions(input.Options)
	if err != nil {
		return "", err
	}
	order, err := s.loadOrder(ctx, input.OrderID, input.RequestID)
	if err != nil {
		return "", err
	}
	opts.ESCPOS = false
	return printer.StripControl(s.formatter.Format(order, input.Cashier, opts)), nil
}

// BatchPreviewInput selects several orders to render together
type BatchPreviewInput struct {
	OrderIDs  []uint
	Options   ReceiptOptions
	Cashier   string
	RequestID string
}

// PreviewBatch renders several receipts separated by a blank line.
func (s *PrinterService) PreviewBatch(ctx context.Context, input *BatchPreviewInput) (string, error) {
	if len(input.OrderIDs) == 0 {
		return "", apperror.NewBadRequestError("order_ids must not be empty")
	}
	if len(input.OrderIDs) > maxBatchSize {
		return "", apperror.NewBadRequestError("too many orders in one batch")
	}

	parts := make([]string, 0, len(input.OrderIDs))
	for _, id := range input.OrderIDs {
		text, err := s.Preview(ctx, &PreviewInput{
			OrderID:   id,
			Options:   input.Options,
			Cashier:   input.Cashier,
			RequestID: input.RequestID,
		})
		if err != nil {
			return "", err
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, "\n\n"), nil
}

// PrintInput selects an order and the station to print it at
type PrintInput struct {
	OrderID   uint
	Target    printer.Target
	Options   ReceiptOptions
	Cashier   string
	RequestID string
}

// PrintResult describes a completed print job
type PrintResult struct {
	OrderID uint           `json:"order_id"`
	Target  printer.Target `json:"target"`
	Printer string         `json:"printer"`
	Bytes   int            `json:"bytes"`
}

// Print renders a receipt in printer protocol and sends it to the target.
// The kitchen station always gets the kitchen ticket.
func (s *PrinterService) Print(ctx context.Context, input *PrintInput) (*PrintResult, error) {
	opts, err := s.resolveOptions(input.Options)
	if err != nil {
		return nil, err
	}
	order, err := s.loadOrder(ctx, input.OrderID, input.RequestID)
	if err != nil {
		return nil, err
	}

	target := input.Target
	if target == "" {
		target = printer.TargetRestaurant
	}
	if target == printer.TargetKitchen {
		opts.Variant = receipt.VariantKitchen
	}
	opts.ESCPOS = true

	data := []byte(s.formatter.Format(order, input.Cashier, opts))
	if err := s.send(ctx, target, data, input.RequestID); err != nil {
		return nil, err
	}

	s.log.Info("receipt_printed", input.RequestID, "receipt sent to printer",
		slog.Uint64("order_id", uint64(input.OrderID)),
		slog.String("target", string(target)),
		slog.String("variant", string(opts.Variant)),
		slog.Int("bytes", len(data)))

	return &PrintResult{
		OrderID: input.OrderID,
		Target:  target,
		Printer: s.router.Printer(target).Type(),
		Bytes:   len(data),
	}, nil
}

// PrintKitchenTicket prints the kitchen ticket of a freshly placed order.
func (s *PrinterService) PrintKitchenTicket(ctx context.Context, orderID uint, cashier, requestID string) error {
	_, err := s.Print(ctx, &PrintInput{
		OrderID:   orderID,
		Target:    printer.TargetKitchen,
		Cashier:   cashier,
		RequestID: requestID,
	})
	return err
}

// PrintRaw forwards already formatted receipt text to a printer unchanged.
func (s *PrinterService) PrintRaw(ctx context.Context, text string, target printer.Target, requestID string) error {
	if text == "" {
		return apperror.NewBadRequestError("text must not be empty")
	}
	return s.send(ctx, target, []byte(text), requestID)
}

func (s *PrinterService) send(ctx context.Context, target printer.Target, data []byte, requestID string) error {
	if err := s.router.Print(ctx, target, data); err != nil {
		s.log.Error("print_failed", requestID, "printer error", err,
			slog.String("target", string(target)))
		return apperror.NewPrinterError(err)
	}
	return nil
}

// PrinterStatus reports the state of one station
type PrinterStatus struct {
	Target     printer.Target `json:"target"`
	Type       string         `json:"type"`
	Configured bool           `json:"configured"`
	Connected  bool           `json:"connected"`
}

// Status probes both stations concurrently.
func (s *PrinterService) Status(ctx context.Context) []PrinterStatus {
	targets := []printer.Target{printer.TargetRestaurant, printer.TargetKitchen}
	statuses := make([]PrinterStatus, len(targets))

	var wg sync.WaitGroup
	for i, target := range targets {
		wg.Add(1)
		go func(i int, target printer.Target) {
			defer wg.Done()
			p := s.router.Printer(target)
			statuses[i] = PrinterStatus{
				Target:     target,
				Type:       p.Type(),
				Configured: p.Type() != "none",
				Connected:  p.IsConnected(ctx),
			}
		}(i, target)
	}
	wg.Wait()

	return statuses
}
