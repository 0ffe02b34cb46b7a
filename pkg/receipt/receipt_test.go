package receipt

import (
	"strings"
	"testing"
	"time"
)

func int64Ptr(v int64) *int64 { return &v }

func boolPtr(v bool) *bool { return &v }

var fixedInstant = time.Date(2025, 3, 14, 5, 30, 15, 0, time.UTC)

func minimalOrder() *Order {
	return &Order{
		ID:            1,
		CreatedAt:     fixedInstant,
		CustomerName:  "Test",
		OrderType:     "IN_RESTAURANT",
		PaymentMethod: "CASH",
		Status:        "SUCCESS",
		TotalPrice:    50000,
		Items: []LineItem{
			{Name: "Nasi Goreng", Quantity: 2, Price: int64Ptr(25000)},
		},
	}
}

func busyOrder() *Order {
	scheduled := fixedInstant.Add(2 * time.Hour)
	return &Order{
		ID:            4213,
		CreatedAt:     fixedInstant,
		CustomerName:  "Putri Ayu Lestari dari Kamar Paling Ujung Dekat Pantai",
		RoomNumber:    "B12",
		OrderType:     "DELIVERY_ROOM",
		PaymentMethod: "ROOM_CHARGE",
		Status:        "SUCCESS",
		TotalPrice:    1377000,
		IsPreOrder:    true,
		ScheduledAt:   &scheduled,
		Items: []LineItem{
			{Name: "Ikan Bakar Bumbu Rica Rica Khas Manado Dengan Nasi Putih", Quantity: 3, Price: int64Ptr(125000), Note: "tidak pedas, sambal dipisah ya kak"},
			{Name: "Es Kelapa Muda", Quantity: 12, CatalogPrice: 18000},
			{Name: "Lobster Saus Padang", Quantity: 1, Price: int64Ptr(750000)},
			{Name: "Air Mineral", Quantity: 2, Price: int64Ptr(0), Note: "\x07dingin"},
		},
	}
}

func allOptions() []Options {
	var out []Options
	for _, paper := range []Paper{Paper58mm, Paper80mm} {
		for _, font := range []Font{FontA, FontB} {
			for _, variant := range []Variant{VariantFrontOfHouse, VariantKitchen} {
				out = append(out, Options{Paper: paper, Font: font, Variant: variant})
			}
		}
	}
	return out
}

func TestFormatLinesFitPaper(t *testing.T) {
	for _, opts := range allOptions() {
		width := LineWidth(opts.Paper, opts.Font)
		for _, order := range []*Order{minimalOrder(), busyOrder(), {}} {
			out := Format(order, "kasir@kikibeach.id", opts)
			dividers := 0
			for _, line := range strings.Split(out, "\n") {
				if textWidth(line) > width {
					t.Errorf("%s/%s/%s: line %q is %d wide, max %d",
						opts.Paper, opts.Font, opts.Variant, line, textWidth(line), width)
				}
				if line != "" && (strings.Trim(line, "=") == "" || strings.Trim(line, "-") == "") {
					dividers++
					if textWidth(line) != width {
						t.Errorf("%s/%s: divider %q has width %d, want %d", opts.Paper, opts.Font, line, textWidth(line), width)
					}
				}
			}
			if dividers == 0 {
				t.Errorf("%s/%s/%s: no dividers found", opts.Paper, opts.Font, opts.Variant)
			}
		}
	}
}

func TestColumnsFillLine(t *testing.T) {
	order := busyOrder()
	for _, opts := range allOptions() {
		if opts.Variant != VariantFrontOfHouse {
			continue
		}
		opts = opts.withDefaults()
		width := LineWidth(opts.Paper, opts.Font)
		prices := []string{FormatMoney(order.TotalPrice)}
		for _, it := range order.Items {
			prices = append(prices, FormatMoney(it.UnitPrice()))
		}
		cols := layoutColumns(width, *opts.Compact, true, prices)
		if sum := cols.qty + columnGap + cols.name + columnGap + cols.price; sum != width {
			t.Errorf("%s/%s: columns sum to %d, want %d", opts.Paper, opts.Font, sum, width)
		}
		for _, p := range prices {
			if textWidth(p) > cols.price {
				t.Errorf("%s/%s: price %q wider than column %d", opts.Paper, opts.Font, p, cols.price)
			}
		}
	}
}

func TestFormatDeterministic(t *testing.T) {
	for _, opts := range allOptions() {
		for _, escpos := range []bool{false, true} {
			opts.ESCPOS = escpos
			first := Format(busyOrder(), "Dewi", opts)
			second := Format(busyOrder(), "Dewi", opts)
			if first != second {
				t.Fatalf("%+v: output differs between calls", opts)
			}
		}
	}
}

func TestFormatDoesNotMutateOrder(t *testing.T) {
	order := busyOrder()
	before := *order
	beforeItems := append([]LineItem(nil), order.Items...)
	Format(order, "Dewi", Options{})
	if order.CustomerName != before.CustomerName || order.TotalPrice != before.TotalPrice || len(order.Items) != len(beforeItems) {
		t.Fatal("order fields changed")
	}
	for i := range beforeItems {
		if order.Items[i].Name != beforeItems[i].Name || order.Items[i].Note != beforeItems[i].Note {
			t.Fatalf("item %d changed", i)
		}
	}
}

func TestVariantCompleteness(t *testing.T) {
	for _, opts := range allOptions() {
		out := Format(busyOrder(), "Dewi", opts)
		hasTotals := strings.Contains(out, "Total") || strings.Contains(out, "Bayar") || strings.Contains(out, "Status")
		switch opts.Variant {
		case VariantKitchen:
			if hasTotals {
				t.Errorf("%s/%s kitchen output contains totals:\n%s", opts.Paper, opts.Font, out)
			}
			if strings.Contains(out, "Rp ") {
				t.Errorf("%s/%s kitchen output contains prices", opts.Paper, opts.Font)
			}
		case VariantFrontOfHouse:
			for _, label := range []string{"Total Item", "Total Harga", "Metode Bayar", "Status"} {
				if !strings.Contains(out, label) {
					t.Errorf("%s/%s front-of-house output lacks %q", opts.Paper, opts.Font, label)
				}
			}
		}
	}
}

func TestFormatMinimalOrder(t *testing.T) {
	out := Format(minimalOrder(), "kasir@kikibeach.id", Options{Paper: Paper80mm, Font: FontA})

	var orderLine, itemRow, totalRow bool
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "#00001") {
			orderLine = true
		}
		if strings.HasPrefix(line, "2") && strings.Contains(line, "Nasi Goreng") {
			itemRow = true
		}
		if strings.HasPrefix(line, "Total Harga") && strings.Contains(line, "Rp 50.000") {
			totalRow = true
		}
	}
	if !orderLine || !itemRow || !totalRow {
		t.Fatalf("missing rows (order=%v item=%v total=%v):\n%s", orderLine, itemRow, totalRow, out)
	}
	if strings.ContainsAny(out, "\x1b\x1d") {
		t.Fatal("preview output contains control bytes")
	}
	if !strings.Contains(out, "Tanggal     : 14/03/2025 12:30:15") {
		t.Errorf("timestamp not rendered in WIB:\n%s", out)
	}
	if !strings.Contains(out, "Kasir       : kasir\n") {
		t.Errorf("cashier should be the e-mail local part:\n%s", out)
	}
	if strings.Contains(out, "Room No.") {
		t.Error("room row rendered without a room number")
	}
}

func TestFormatCentersHeaderInPreview(t *testing.T) {
	out := Format(minimalOrder(), "Dewi", Options{Paper: Paper80mm, Font: FontA})
	first := strings.SplitN(out, "\n", 2)[0]
	want := center("KIKI BEACH ISLAND RESORT", 48)
	if first != want {
		t.Fatalf("first line = %q, want %q", first, want)
	}
}

func TestFormatLongNameWraps(t *testing.T) {
	name := "Nasi Campur Spesial Kiki Beach bersama Ayam Bakar dan Sambal"
	if len(name) != 60 {
		t.Fatalf("fixture name is %d chars", len(name))
	}
	order := minimalOrder()
	order.Items = []LineItem{{Name: name, Quantity: 1, Price: int64Ptr(25000)}}

	opts := Options{Paper: Paper58mm, Font: FontA}.withDefaults()
	prices := []string{FormatMoney(25000), FormatMoney(order.TotalPrice)}
	cols := layoutColumns(32, *opts.Compact, true, prices)

	wrapped := wrapToWidth(name, cols.name)
	if len(wrapped) < 3 {
		t.Fatalf("expected at least 3 lines, got %q", wrapped)
	}
	for _, l := range wrapped {
		if textWidth(l) > cols.name {
			t.Errorf("wrapped line %q wider than %d", l, cols.name)
		}
	}

	out := Format(order, "Dewi", opts)
	for _, l := range wrapped[1:] {
		if !strings.Contains(out, "\n"+strings.Repeat(" ", cols.qty+columnGap)+l+"\n") {
			t.Errorf("continuation %q not indented under the name column:\n%s", l, out)
		}
	}
}

func TestFormatProtocolMode(t *testing.T) {
	tests := []struct {
		font   Font
		header string
	}{
		{FontA, "\x1b@\x1bM\x00\x1d!\x00"},
		{FontB, "\x1b@\x1bM\x01\x1d!\x00"},
	}
	for _, tt := range tests {
		out := Format(minimalOrder(), "Dewi", Options{Paper: Paper80mm, Font: tt.font, ESCPOS: true})
		if !strings.HasPrefix(out, tt.header) {
			t.Errorf("font %s: prefix %q, want %q", tt.font, out[:len(tt.header)], tt.header)
		}
		if tail := out[len(out)-6:]; tail != "\n\n\n\x1dV\x00" {
			t.Errorf("font %s: tail %q", tt.font, tail)
		}
		if !strings.Contains(out, "\x1ba\x01KIKI BEACH ISLAND RESORT\n") {
			t.Errorf("font %s: header not hardware-centered", tt.font)
		}
		if !strings.Contains(out, "\x1ba\x00") {
			t.Errorf("font %s: alignment never reset", tt.font)
		}
	}
}

func TestFormatProtocolStripsToPreviewText(t *testing.T) {
	opts := Options{Paper: Paper58mm, Font: FontB}
	preview := Format(busyOrder(), "Dewi", opts)
	opts.ESCPOS = true
	raw := Format(busyOrder(), "Dewi", opts)

	for _, line := range strings.Split(preview, "\n") {
		if !strings.Contains(raw, strings.TrimLeft(line, " ")) {
			t.Fatalf("protocol output lacks %q", line)
		}
	}
}

func TestFormatKitchenTicket(t *testing.T) {
	out := Format(busyOrder(), "dewi@kikibeach.id", Options{Paper: Paper80mm, Font: FontA, Variant: VariantKitchen})
	if !strings.HasPrefix(out, center("DAPUR", 48)+"\n") {
		t.Errorf("kitchen ticket should open with the kitchen label:\n%s", out)
	}
	if !strings.Contains(out, "Pre-Order : 14/03/2025 14:30") {
		t.Errorf("scheduled time missing:\n%s", out)
	}
	if !strings.HasSuffix(out, "Kasir     : dewi") {
		t.Errorf("kitchen ticket should end with the cashier:\n%s", out)
	}
	if !strings.Contains(out, "Note: tidak pedas") {
		t.Errorf("notes should print on 80mm:\n%s", out)
	}
	if !strings.Contains(out, "Note: dingin") {
		t.Errorf("note should be sanitized, not dropped:\n%s", out)
	}

	plain := minimalOrder()
	out = Format(plain, "", Options{Variant: VariantKitchen})
	if !strings.Contains(out, "Pre-Order : -") {
		t.Errorf("unscheduled kitchen ticket should show '-':\n%s", out)
	}
}

func TestFormatCompactDropsNotes(t *testing.T) {
	out := Format(busyOrder(), "Dewi", Options{Paper: Paper58mm})
	if strings.Contains(out, "Note:") {
		t.Errorf("compact layout should omit notes:\n%s", out)
	}
	out = Format(busyOrder(), "Dewi", Options{Paper: Paper58mm, Compact: boolPtr(false)})
	if !strings.Contains(out, "Note:") {
		t.Errorf("explicit non-compact 58mm should print notes:\n%s", out)
	}
}

func TestFormatEmptyOrder(t *testing.T) {
	out := Format(&Order{}, "", Options{})
	for _, want := range []string{"Nama        : -", "Kasir       : Kasir", "Qty  Menu", "Total Harga : Rp 0"} {
		if !strings.Contains(out, want) {
			t.Errorf("empty order lacks %q:\n%s", want, out)
		}
	}
	if strings.HasSuffix(out, "\n") || strings.HasSuffix(out, " ") {
		t.Error("output should be right-trimmed")
	}
	if Format(nil, "", Options{}) == "" {
		t.Error("nil order should still render")
	}
}

func TestFormatUsesCatalogPriceFallback(t *testing.T) {
	order := minimalOrder()
	order.Items = []LineItem{
		{Name: "Teh Manis", Quantity: 1, CatalogPrice: 8000},
		{Name: "Kopi Susu", Quantity: 1, Price: int64Ptr(15000), CatalogPrice: 99000},
	}
	out := Format(order, "Dewi", Options{})
	if !strings.Contains(out, "Rp 8.000") || !strings.Contains(out, "Rp 15.000") {
		t.Errorf("unit prices wrong:\n%s", out)
	}
	if strings.Contains(out, "Rp 99.000") {
		t.Error("catalog price used although a line price exists")
	}
}

func TestFormatterCustomBusiness(t *testing.T) {
	loc := time.FixedZone("UTC", 0)
	f := NewFormatter(Business{Name: "WARUNG PANTAI", ThankYou: "Sampai jumpa!"}, loc)
	out := f.Format(minimalOrder(), "Dewi", Options{})
	if !strings.Contains(out, "WARUNG PANTAI") || !strings.Contains(out, "Sampai jumpa!") {
		t.Errorf("custom business text missing:\n%s", out)
	}
	if strings.Contains(out, "Telp:") {
		t.Error("phone row printed without a phone")
	}
	if !strings.Contains(out, "14/03/2025 05:30:15") {
		t.Errorf("timestamp not rendered in formatter location:\n%s", out)
	}
}

func TestCashierName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "Kasir"},
		{"Dewi", "Dewi"},
		{"dewi.s@kikibeach.id", "dewi.s"},
		{"@broken", "@broken"},
		{strings.Repeat("x", 50), strings.Repeat("x", 40)},
	}
	for _, tt := range tests {
		if got := cashierName(tt.in); got != tt.want {
			t.Errorf("cashierName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseOptions(t *testing.T) {
	if _, err := ParsePaper("72mm"); err == nil {
		t.Error("ParsePaper accepted 72mm")
	}
	if f, err := ParseFont("b"); err != nil || f != FontB {
		t.Errorf("ParseFont(b) = %q, %v", f, err)
	}
	if _, err := ParseVariant("bar"); err == nil {
		t.Error("ParseVariant accepted bar")
	}
}
