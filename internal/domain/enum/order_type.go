package enum

import (
	"encoding/json"
	"fmt"
	"strings"
)

// OrderType represents where an order is served
type OrderType string

const (
	OrderTypeInRestaurant OrderType = "IN_RESTAURANT"
	OrderTypeDeliveryRoom OrderType = "DELIVERY_ROOM"
	OrderTypeTakeAway     OrderType = "TAKE_AWAY"
)

func (t OrderType) String() string {
	return string(t)
}

func (t OrderType) IsValid() bool {
	switch t {
	case OrderTypeInRestaurant, OrderTypeDeliveryRoom, OrderTypeTakeAway:
		return true
	}
	return false
}

// NeedsRoom reports whether a room number is required.
func (t OrderType) NeedsRoom() bool {
	return t == OrderTypeDeliveryRoom
}

func (t *OrderType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseOrderType(str)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseOrderType accepts "DELIVERY_ROOM" as well as "delivery room".
func ParseOrderType(s string) (OrderType, error) {
	t := OrderType(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", "_")))
	if !t.IsValid() {
		return "", fmt.Errorf("invalid order type %q", s)
	}
	return t, nil
}
