package enum

import (
	"encoding/json"
	"testing"
)

func TestParseOrderType(t *testing.T) {
	tests := []struct {
		in      string
		want    OrderType
		wantErr bool
	}{
		{"IN_RESTAURANT", OrderTypeInRestaurant, false},
		{"delivery room", OrderTypeDeliveryRoom, false},
		{" take_away ", OrderTypeTakeAway, false},
		{"DRIVE_THRU", "", true},
	}
	for _, tt := range tests {
		got, err := ParseOrderType(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseOrderType(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestPaymentMethodJSON(t *testing.T) {
	var body struct {
		Method PaymentMethod `json:"method"`
	}
	if err := json.Unmarshal([]byte(`{"method":"room charge"}`), &body); err != nil {
		t.Fatal(err)
	}
	if body.Method != PaymentMethodRoomCharge {
		t.Fatalf("Method = %q", body.Method)
	}
	if err := json.Unmarshal([]byte(`{"method":"CRYPTO"}`), &body); err == nil {
		t.Fatal("expected error for unknown method")
	}
}

func TestOrderStatus(t *testing.T) {
	if s, err := ParseOrderStatus("failed"); err != nil || s != OrderStatusFailed {
		t.Fatalf("ParseOrderStatus = %q, %v", s, err)
	}
	if OrderStatusPending.IsFinal() || !OrderStatusSuccess.IsFinal() || !OrderStatusFailed.IsFinal() {
		t.Fatal("IsFinal wrong")
	}
}

func TestUrgency(t *testing.T) {
	elapsed := []struct {
		minutes int
		want    Urgency
	}{
		{0, UrgencyFresh}, {29, UrgencyFresh}, {30, UrgencyWarning}, {59, UrgencyWarning}, {60, UrgencyLate}, {240, UrgencyLate},
	}
	for _, tt := range elapsed {
		if got := ElapsedUrgency(tt.minutes); got != tt.want {
			t.Errorf("ElapsedUrgency(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}

	countdown := []struct {
		minutes int
		want    Urgency
	}{
		{-5, UrgencyDue}, {0, UrgencyDue}, {1, UrgencySoon}, {20, UrgencySoon}, {21, UrgencyUpcoming}, {40, UrgencyUpcoming}, {41, UrgencyScheduled},
	}
	for _, tt := range countdown {
		if got := CountdownUrgency(tt.minutes); got != tt.want {
			t.Errorf("CountdownUrgency(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}
