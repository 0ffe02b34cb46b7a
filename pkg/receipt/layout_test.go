package receipt

import (
	"strings"
	"testing"
)

func TestLineWidth(t *testing.T) {
	tests := []struct {
		paper Paper
		font  Font
		want  int
	}{
		{Paper58mm, FontA, 32},
		{Paper58mm, FontB, 42},
		{Paper80mm, FontA, 48},
		{Paper80mm, FontB, 64},
	}
	for _, tt := range tests {
		if got := LineWidth(tt.paper, tt.font); got != tt.want {
			t.Errorf("LineWidth(%s, %s) = %d, want %d", tt.paper, tt.font, got, tt.want)
		}
	}
}

func TestLineWidthUnknownPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for unknown paper")
		}
	}()
	LineWidth("72mm", FontA)
}

func TestPadding(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"right pads", padRight("ab", 5), "ab   "},
		{"right keeps long", padRight("abcdef", 3), "abcdef"},
		{"left pads", padLeft("ab", 5), "   ab"},
		{"left keeps long", padLeft("abcdef", 3), "abcdef"},
		{"center floors", center("abc", 8), "  abc"},
		{"center keeps long", center("abcdef", 4), "abcdef"},
		{"runes counted once", padRight("café", 6), "café  "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestWrapToWidth(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  []string
	}{
		{"empty", "", 10, []string{""}},
		{"blank", "   \t ", 10, []string{""}},
		{"short", "Nasi Goreng", 20, []string{"Nasi Goreng"}},
		{"exact", "abcde fghij", 11, []string{"abcde fghij"}},
		{"greedy", "aa bb cc dd", 5, []string{"aa bb", "cc dd"}},
		{"long word alone", "supercalifragilistic yes", 6, []string{"supercalifragilistic", "yes"}},
		{"collapses whitespace", "a \n\t b", 10, []string{"a b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wrapToWidth(tt.text, tt.width)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("wrapToWidth(%q, %d) = %q, want %q", tt.text, tt.width, got, tt.want)
			}
		})
	}
}

func TestWrapToWidthKeepsWords(t *testing.T) {
	text := "Ayam bakar madu dengan sambal matah dan nasi putih hangat ekstra pedas sekali"
	for width := 1; width <= 40; width++ {
		lines := wrapToWidth(text, width)
		if got := strings.Fields(strings.Join(lines, " ")); strings.Join(got, " ") != strings.Join(strings.Fields(text), " ") {
			t.Fatalf("width %d: words changed: %q", width, lines)
		}
		for _, l := range lines {
			if textWidth(l) > width && strings.Contains(l, " ") {
				t.Fatalf("width %d: line %q overflows with more than one word", width, l)
			}
		}
	}
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		amount int64
		want   string
	}{
		{0, "Rp 0"},
		{500, "Rp 500"},
		{25000, "Rp 25.000"},
		{1250000, "Rp 1.250.000"},
	}
	for _, tt := range tests {
		if got := FormatMoney(tt.amount); got != tt.want {
			t.Errorf("FormatMoney(%d) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Es Teh", "Es Teh"},
		{"bell\x07 ring", "bell ring"},
		{"esc\x1b@x", "esc@x"},
		{"tab\tnew\nline", "tab\tnew\nline"},
		{"kopi ☕", "kopi ☕"},
		{"emoji 😀 gone", "emoji  gone"},
		{"del\x7f c1\u0085", "del c1"},
	}
	for _, tt := range tests {
		if got := sanitize(tt.in); got != tt.want {
			t.Errorf("sanitize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPriceColumnWidth(t *testing.T) {
	tests := []struct {
		name    string
		prices  []string
		compact bool
		want    int
	}{
		{"compact floor", []string{"Rp 5.000"}, true, 10},
		{"compact fits", []string{"Rp 25.000", "Rp 150.000"}, true, 11},
		{"compact ceiling", []string{"Rp 1.500.000"}, true, 12},
		{"regular floor", []string{"Rp 5.000"}, false, 12},
		{"regular ceiling", []string{"Rp 1.500.000.000"}, false, 16},
		{"never truncates", []string{"Rp 12.500.000.000"}, true, 17},
		{"empty", nil, true, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := priceColumnWidth(tt.prices, tt.compact); got != tt.want {
				t.Errorf("priceColumnWidth = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNameColumnWidth(t *testing.T) {
	if got := nameColumnWidth(48, 4, 12); got != 30 {
		t.Errorf("nameColumnWidth(48,4,12) = %d, want 30", got)
	}
	if got := nameColumnWidth(20, 4, 12); got != minNameWidth {
		t.Errorf("nameColumnWidth floor = %d, want %d", got, minNameWidth)
	}
}

func TestColumnsOverflowPastNameFloor(t *testing.T) {
	width := LineWidth(Paper58mm, FontA)
	rowWidth := func(c columns) int { return c.qty + columnGap + c.name + columnGap + c.price }

	fits := layoutColumns(width, true, true, []string{strings.Repeat("9", 17)})
	if fits.price != 17 || fits.name != minNameWidth || rowWidth(fits) != width {
		t.Fatalf("17-column price: %+v, row %d", fits, rowWidth(fits))
	}

	over := layoutColumns(width, true, true, []string{strings.Repeat("9", 18)})
	if over.name != minNameWidth {
		t.Fatalf("name = %d, want floor %d", over.name, minNameWidth)
	}
	if got := rowWidth(over); got != width+1 {
		t.Fatalf("18-column price row = %d, want %d", got, width+1)
	}
}
