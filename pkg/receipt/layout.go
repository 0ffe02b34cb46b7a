package receipt

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// Column gap between qty, name and price columns.
const columnGap = 1

// Price column bounds: compact and regular.
const (
	compactPriceMin = 10
	compactPriceMax = 12
	regularPriceMin = 12
	regularPriceMax = 15
	minNameWidth    = 10
)

// LineWidth returns the number of printable columns for a paper and font.
// An unknown combination is a programming error and panics.
func LineWidth(paper Paper, font Font) int {
	switch {
	case paper == Paper58mm && font == FontA:
		return 32
	case paper == Paper58mm && font == FontB:
		return 42
	case paper == Paper80mm && font == FontA:
		return 48
	case paper == Paper80mm && font == FontB:
		return 64
	}
	panic(fmt.Sprintf("receipt: unknown paper/font combination %q/%q", paper, font))
}

func textWidth(s string) int {
	return utf8.RuneCountInString(s)
}

// padRight pads s with trailing spaces up to width. Longer input is returned as is.
func padRight(s string, width int) string {
	if n := textWidth(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// padLeft pads s with leading spaces up to width. Longer input is returned as is.
func padLeft(s string, width int) string {
	if n := textWidth(s); n < width {
		return strings.Repeat(" ", width-n) + s
	}
	return s
}

// center prepends floor((width-len)/2) spaces. No right padding is added.
func center(s string, width int) string {
	n := textWidth(s)
	if n >= width {
		return s
	}
	return strings.Repeat(" ", (width-n)/2) + s
}

// wrapToWidth greedily packs whitespace-separated words into lines of at most
// width columns. A single word longer than width gets a line of its own.
func wrapToWidth(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}
	if width <= 0 {
		return []string{strings.Join(words, " ")}
	}

	lines := make([]string, 0, 2)
	current := words[0]
	for _, w := range words[1:] {
		if textWidth(current)+1+textWidth(w) <= width {
			current += " " + w
			continue
		}
		lines = append(lines, current)
		current = w
	}
	return append(lines, current)
}

var moneyPrinter = message.NewPrinter(language.Indonesian)

// FormatMoney renders an amount of whole rupiah as "Rp 50.000".
func FormatMoney(amount int64) string {
	return "Rp " + moneyPrinter.Sprintf("%d", amount)
}

// printable keeps tab, LF, CR, printable ASCII and U+00A0..U+FFFF.
var unprintable = runes.Predicate(func(r rune) bool {
	switch {
	case r == '\t' || r == '\n' || r == '\r':
		return false
	case r >= 0x20 && r <= 0x7E:
		return false
	case r >= 0xA0 && r <= 0xFFFF:
		return false
	}
	return true
})

// sanitize drops characters a thermal printer cannot render.
func sanitize(s string) string {
	out, _, err := transform.String(runes.Remove(unprintable), s)
	if err != nil {
		return ""
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// priceColumnWidth sizes the price column from the longest formatted price
// plus one column of breathing room, clamped to the paper class bounds. The
// result is never narrower than the longest price so values are not cut.
func priceColumnWidth(prices []string, compact bool) int {
	longest := 0
	for _, p := range prices {
		if n := textWidth(p); n > longest {
			longest = n
		}
	}
	lo, hi := regularPriceMin, regularPriceMax
	if compact {
		lo, hi = compactPriceMin, compactPriceMax
	}
	w := clamp(longest+1, lo, hi)
	if w < longest {
		w = longest
	}
	return w
}

// nameColumnWidth is whatever remains after qty, price and two gaps, floored at 10.
// The floor wins over the line width: once the price column grows past
// lineWidth-qty-2*gap-10 (17 on 58mm font A) item rows run wider than the paper.
func nameColumnWidth(lineWidth, qtyWidth, priceWidth int) int {
	w := lineWidth - qtyWidth - columnGap - priceWidth - columnGap
	if w < minNameWidth {
		return minNameWidth
	}
	return w
}

func qtyColumnWidth(compact bool) int {
	if compact {
		return 3
	}
	return 4
}

// columns holds the resolved widths of the item table.
type columns struct {
	line  int
	qty   int
	name  int
	price int
}

func layoutColumns(lineWidth int, compact, withPrice bool, prices []string) columns {
	c := columns{line: lineWidth, qty: qtyColumnWidth(compact)}
	if !withPrice {
		c.name = lineWidth - c.qty - columnGap
		if c.name < minNameWidth {
			c.name = minNameWidth
		}
		return c
	}
	c.price = priceColumnWidth(prices, compact)
	c.name = nameColumnWidth(lineWidth, c.qty, c.price)
	return c
}
