package messaging

import (
	"context"
	"errors"
	"testing"

	"github.com/kikibeach/kiki-pos/pkg/apperror"
)

type stubKitchenPrinter struct {
	orderID uint
	cashier string
	err     error
}

func (s *stubKitchenPrinter) PrintKitchenTicket(_ context.Context, orderID uint, cashier, _ string) error {
	s.orderID, s.cashier = orderID, cashier
	return s.err
}

func TestKitchenTicketHandler(t *testing.T) {
	p := &stubKitchenPrinter{}
	handler := KitchenTicketHandler(p)

	if err := handler(context.Background(), []byte(`{"order_id":42,"cashier":"kasir"}`)); err != nil {
		t.Fatal(err)
	}
	if p.orderID != 42 || p.cashier != "kasir" {
		t.Fatalf("printed %d for %q", p.orderID, p.cashier)
	}
}

func TestKitchenTicketHandlerDiscards(t *testing.T) {
	tests := map[string]struct {
		body string
		err  error
	}{
		"malformed":     {body: `{"order_id":`},
		"missing id":    {body: `{"cashier":"kasir"}`},
		"unknown order": {body: `{"order_id":7}`, err: apperror.NewNotFoundError("Order")},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			handler := KitchenTicketHandler(&stubKitchenPrinter{err: tt.err})
			if err := handler(context.Background(), []byte(tt.body)); !errors.Is(err, ErrDiscard) {
				t.Fatalf("err = %v, want ErrDiscard", err)
			}
		})
	}
}

func TestKitchenTicketHandlerRetriesPrinterErrors(t *testing.T) {
	handler := KitchenTicketHandler(&stubKitchenPrinter{err: apperror.NewPrinterError(errors.New("paper out"))})
	err := handler(context.Background(), []byte(`{"order_id":1}`))
	if err == nil || errors.Is(err, ErrDiscard) {
		t.Fatalf("err = %v, want retryable error", err)
	}
}
