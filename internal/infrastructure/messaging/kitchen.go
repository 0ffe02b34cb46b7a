package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/kikibeach/kiki-pos/internal/domain/event"
	"github.com/kikibeach/kiki-pos/pkg/apperror"
)

// KitchenPrinter prints the kitchen ticket of an order
type KitchenPrinter interface {
	PrintKitchenTicket(ctx context.Context, orderID uint, cashier, requestID string) error
}

// KitchenTicketHandler prints a kitchen ticket for every order.created message.
// Malformed messages and unknown orders are discarded; printer failures are retried.
func KitchenTicketHandler(p KitchenPrinter) MessageHandler {
	return func(ctx context.Context, body []byte) error {
		var evt event.OrderCreated
		if err := json.Unmarshal(body, &evt); err != nil {
			return fmt.Errorf("%w: decode order event: %v", ErrDiscard, err)
		}
		if evt.OrderID == 0 {
			return fmt.Errorf("%w: order event without order id", ErrDiscard)
		}

		requestID := fmt.Sprintf("order-%d", evt.OrderID)
		if err := p.PrintKitchenTicket(ctx, evt.OrderID, evt.Cashier, requestID); err != nil {
			if appErr := apperror.GetAppError(err); appErr.Code == http.StatusNotFound {
				return fmt.Errorf("%w: %v", ErrDiscard, err)
			}
			return err
		}
		return nil
	}
}
