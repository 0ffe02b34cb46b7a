// Package receipt renders orders into fixed-width thermal printer text.
//
// Formatting is pure: the same order, cashier and options always yield the
// same bytes. Timestamps are rendered in the formatter's display location.
package receipt

import (
	"fmt"
	"strings"
	"time"
)

// Paper is the roll width.
type Paper string

// Font is the printer character font.
type Font string

// Variant selects the audience of the document.
type Variant string

const (
	Paper58mm Paper = "58mm"
	Paper80mm Paper = "80mm"

	FontA Font = "A"
	FontB Font = "B"

	VariantFrontOfHouse Variant = "front-of-house"
	VariantKitchen      Variant = "kitchen"
)

// ParsePaper validates a paper name coming from outside the process.
func ParsePaper(s string) (Paper, error) {
	switch Paper(s) {
	case Paper58mm, Paper80mm:
		return Paper(s), nil
	}
	return "", fmt.Errorf("receipt: unsupported paper %q", s)
}

// ParseFont validates a font name coming from outside the process.
func ParseFont(s string) (Font, error) {
	switch Font(strings.ToUpper(s)) {
	case FontA, FontB:
		return Font(strings.ToUpper(s)), nil
	}
	return "", fmt.Errorf("receipt: unsupported font %q", s)
}

// ParseVariant validates a variant name coming from outside the process.
func ParseVariant(s string) (Variant, error) {
	switch Variant(s) {
	case VariantFrontOfHouse, VariantKitchen:
		return Variant(s), nil
	}
	return "", fmt.Errorf("receipt: unsupported variant %q", s)
}

// Options control paper geometry and output mode. Zero values select the defaults.
type Options struct {
	Paper   Paper
	Font    Font
	ESCPOS  bool
	Compact *bool // nil means compact on 58mm paper only
	Variant Variant
}

func (o Options) withDefaults() Options {
	if o.Paper == "" {
		o.Paper = Paper80mm
	}
	if o.Font == "" {
		o.Font = FontA
	}
	if o.Variant == "" {
		o.Variant = VariantFrontOfHouse
	}
	if o.Compact == nil {
		compact := o.Paper == Paper58mm
		o.Compact = &compact
	}
	return o
}

// LineItem is one ordered dish.
type LineItem struct {
	Name         string
	Quantity     int
	Price        *int64 // price captured when ordered
	CatalogPrice int64  // live menu price, used when Price is nil
	Note         string
}

// UnitPrice returns the captured price, falling back to the catalog price.
func (li LineItem) UnitPrice() int64 {
	if li.Price != nil {
		return *li.Price
	}
	return li.CatalogPrice
}

// Order is the formatter's read-only view of a placed order.
type Order struct {
	ID            int64
	CreatedAt     time.Time
	CustomerName  string
	RoomNumber    string
	OrderType     string
	PaymentMethod string
	Status        string
	TotalPrice    int64
	IsPreOrder    bool
	ScheduledAt   *time.Time
	Items         []LineItem
}

// Business holds the header and footer text printed on front-of-house receipts.
type Business struct {
	Name         string
	Phone        string
	Address      []string
	ThankYou     string
	KitchenLabel string
}

// DefaultBusiness is the resort the POS was built for.
var DefaultBusiness = Business{
	Name:  "KIKI BEACH ISLAND RESORT",
	Phone: "+62 822-8923-0001",
	Address: []string{
		"Pasir Gelam, Karas, Pulau Galang",
		"Kota Batam, Kepulauan Riau 29486",
	},
	ThankYou:     "Terima kasih atas kunjungannya!",
	KitchenLabel: "DAPUR",
}

// WIB is Western Indonesian Time, UTC+7 without DST.
var WIB = time.FixedZone("WIB", 7*60*60)

// Formatter renders receipts for one business in one display location.
type Formatter struct {
	business Business
	location *time.Location
}

// NewFormatter creates a new Formatter. A nil location renders in WIB.
func NewFormatter(business Business, location *time.Location) *Formatter {
	if location == nil {
		location = WIB
	}
	if business.KitchenLabel == "" {
		business.KitchenLabel = DefaultBusiness.KitchenLabel
	}
	return &Formatter{business: business, location: location}
}

var defaultFormatter = NewFormatter(DefaultBusiness, WIB)

// Format renders order with the default business header in WIB.
func Format(order *Order, cashier string, opts Options) string {
	return defaultFormatter.Format(order, cashier, opts)
}

// Format renders order for the given cashier.
//
// With opts.ESCPOS unset the result is plain text meant for on-screen preview.
// With opts.ESCPOS set the result carries printer control bytes and must be sent
// to the device unchanged.
func (f *Formatter) Format(order *Order, cashier string, opts Options) string {
	opts = opts.withDefaults()
	width := LineWidth(opts.Paper, opts.Font)
	doc := f.assemble(order, cashier, opts, width)
	if opts.ESCPOS {
		return encodeProtocol(doc, opts.Font)
	}
	return encodePreview(doc, width)
}

// Location returns the display location timestamps are rendered in.
func (f *Formatter) Location() *time.Location {
	return f.location
}
