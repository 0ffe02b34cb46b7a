package enum

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PaymentMethod represents how a guest settles an order
type PaymentMethod string

const (
	PaymentMethodCash       PaymentMethod = "CASH"
	PaymentMethodTransfer   PaymentMethod = "TRANSFER"
	PaymentMethodRoomCharge PaymentMethod = "ROOM_CHARGE"
)

func (m PaymentMethod) String() string {
	return string(m)
}

func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodTransfer, PaymentMethodRoomCharge:
		return true
	}
	return false
}

func (m *PaymentMethod) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParsePaymentMethod(str)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	m := PaymentMethod(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", "_")))
	if !m.IsValid() {
		return "", fmt.Errorf("invalid payment method %q", s)
	}
	return m, nil
}
