package enum

import (
	"encoding/json"
	"fmt"
	"strings"
)

// OrderStatus represents the payment state of an order
type OrderStatus string

const (
	OrderStatusPending OrderStatus = "PENDING"
	OrderStatusSuccess OrderStatus = "SUCCESS"
	OrderStatusFailed  OrderStatus = "FAILED"
)

func (s OrderStatus) String() string {
	return string(s)
}

// IsValid reports whether s is a known status.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusSuccess, OrderStatusFailed:
		return true
	}
	return false
}

// IsFinal reports whether the order belongs in the history list.
func (s OrderStatus) IsFinal() bool {
	return s == OrderStatusSuccess || s == OrderStatusFailed
}

func (s *OrderStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseOrderStatus(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseOrderStatus parses a status case-insensitively.
func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", fmt.Errorf("invalid order status %q", s)
	}
	return status, nil
}
