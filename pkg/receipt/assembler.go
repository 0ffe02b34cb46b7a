package receipt

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	dateLayout      = "02/01/2006 15:04:05"
	scheduledLayout = "02/01/2006 15:04"

	frontLabelWidth   = 12
	kitchenLabelWidth = 10

	maxCashierName = 40
)

// block is a run of lines sharing one alignment.
type block struct {
	lines    []string
	centered bool
}

// document is the assembled receipt before encoding.
type document struct {
	blocks []block
}

func (d *document) add(lines ...string) {
	if n := len(d.blocks); n > 0 && !d.blocks[n-1].centered {
		d.blocks[n-1].lines = append(d.blocks[n-1].lines, lines...)
		return
	}
	d.blocks = append(d.blocks, block{lines: lines})
}

func (d *document) addCentered(lines ...string) {
	d.blocks = append(d.blocks, block{lines: lines, centered: true})
}

// assembly carries per-render state through the sections.
type assembly struct {
	f          *Formatter
	order      *Order
	cashier    string
	opts       Options
	width      int
	labelWidth int
	doc        document
}

type section func(a *assembly)

// Sections per variant, in print order.
var sections = map[Variant][]section{
	VariantFrontOfHouse: {
		(*assembly).header,
		(*assembly).metadata,
		(*assembly).items,
		(*assembly).totals,
		(*assembly).footer,
	},
	VariantKitchen: {
		(*assembly).kitchenHeader,
		(*assembly).metadata,
		(*assembly).items,
		(*assembly).kitchenFooter,
	},
}

func (f *Formatter) assemble(order *Order, cashier string, opts Options, width int) *document {
	if order == nil {
		order = &Order{}
	}
	a := &assembly{
		f:          f,
		order:      order,
		cashier:    cashierName(cashier),
		opts:       opts,
		width:      width,
		labelWidth: frontLabelWidth,
	}
	if opts.Variant == VariantKitchen {
		a.labelWidth = kitchenLabelWidth
	}
	steps, ok := sections[opts.Variant]
	if !ok {
		panic(fmt.Sprintf("receipt: unknown variant %q", opts.Variant))
	}
	for _, step := range steps {
		step(a)
	}
	return &a.doc
}

func (a *assembly) kitchen() bool {
	return a.opts.Variant == VariantKitchen
}

func (a *assembly) compact() bool {
	return *a.opts.Compact
}

func (a *assembly) divider() string {
	return strings.Repeat("=", a.width)
}

func (a *assembly) subDivider() string {
	return strings.Repeat("-", a.width)
}

func (a *assembly) header() {
	b := a.f.business
	var lines []string
	lines = append(lines, wrapToWidth(sanitize(b.Name), a.width)...)
	if b.Phone != "" {
		lines = append(lines, wrapToWidth("Telp: "+sanitize(b.Phone), a.width)...)
	}
	for _, addr := range b.Address {
		lines = append(lines, wrapToWidth(sanitize(addr), a.width)...)
	}
	a.doc.addCentered(lines...)
	a.doc.add(a.divider())
}

func (a *assembly) kitchenHeader() {
	a.doc.addCentered(wrapToWidth(sanitize(a.f.business.KitchenLabel), a.width)...)
	a.doc.add(a.divider())
}

// labelRow renders "Label     : value" with continuation lines aligned under the value.
func (a *assembly) labelRow(label, value string) []string {
	prefix := padRight(label, a.labelWidth) + ": "
	indent := strings.Repeat(" ", a.labelWidth+2)
	wrapped := wrapToWidth(value, a.width-a.labelWidth-2)
	lines := make([]string, len(wrapped))
	for i, w := range wrapped {
		if i == 0 {
			lines[i] = strings.TrimRight(prefix+w, " ")
			continue
		}
		lines[i] = indent + w
	}
	return lines
}

func (a *assembly) metadata() {
	o := a.order
	var lines []string
	lines = append(lines, a.labelRow("Tanggal", o.CreatedAt.In(a.f.location).Format(dateLayout))...)
	lines = append(lines, a.labelRow("No. Order", fmt.Sprintf("#%05d", o.ID))...)
	lines = append(lines, a.labelRow("Tipe Pesan", humanize(o.OrderType))...)
	if room := strings.TrimSpace(sanitize(o.RoomNumber)); room != "" {
		lines = append(lines, a.labelRow("Room No.", room)...)
	}
	customer := strings.TrimSpace(sanitize(o.CustomerName))
	if customer == "" {
		customer = "-"
	}
	lines = append(lines, a.labelRow("Nama", customer)...)

	if a.kitchen() {
		lines = append(lines, a.labelRow("Pre-Order", a.scheduledValue())...)
	} else {
		lines = append(lines, a.labelRow("Kasir", a.cashier)...)
		if o.ScheduledAt != nil {
			lines = append(lines, a.labelRow("Pre-Order", a.scheduledValue())...)
		}
	}
	a.doc.add(lines...)
}

func (a *assembly) scheduledValue() string {
	if a.order.ScheduledAt == nil {
		return "-"
	}
	return a.order.ScheduledAt.In(a.f.location).Format(scheduledLayout)
}

func (a *assembly) items() {
	withPrice := !a.kitchen()
	var prices []string
	if withPrice {
		prices = make([]string, 0, len(a.order.Items)+1)
		for _, it := range a.order.Items {
			prices = append(prices, FormatMoney(it.UnitPrice()))
		}
		prices = append(prices, FormatMoney(a.order.TotalPrice))
	}
	cols := layoutColumns(a.width, a.compact(), withPrice, prices)
	indent := strings.Repeat(" ", cols.qty+columnGap)

	head := padRight("Qty", cols.qty) + " " + padRight("Menu", cols.name)
	if withPrice {
		head += " " + padLeft("Harga", cols.price)
	}
	lines := []string{a.subDivider(), strings.TrimRight(head, " "), a.subDivider()}

	for i, it := range a.order.Items {
		name := wrapToWidth(sanitize(it.Name), cols.name)
		row := padRight(strconv.Itoa(it.Quantity), cols.qty) + " " + padRight(name[0], cols.name)
		if withPrice {
			row += " " + padLeft(prices[i], cols.price)
		}
		lines = append(lines, strings.TrimRight(row, " "))
		for _, cont := range name[1:] {
			lines = append(lines, indent+cont)
		}
		if a.compact() {
			continue
		}
		note := strings.TrimSpace(sanitize(it.Note))
		if note == "" {
			continue
		}
		for _, n := range wrapToWidth("Note: "+note, cols.name) {
			lines = append(lines, indent+n)
		}
	}
	lines = append(lines, a.subDivider())
	a.doc.add(lines...)
}

func (a *assembly) totals() {
	quantity := 0
	for _, it := range a.order.Items {
		quantity += it.Quantity
	}
	var lines []string
	lines = append(lines, a.labelRow("Total Item", strconv.Itoa(quantity))...)
	lines = append(lines, a.labelRow("Total Harga", FormatMoney(a.order.TotalPrice))...)
	lines = append(lines, a.labelRow("Metode Bayar", humanize(a.order.PaymentMethod))...)
	lines = append(lines, a.labelRow("Status", humanize(a.order.Status))...)
	a.doc.add(lines...)
}

func (a *assembly) footer() {
	a.doc.add(a.divider())
	a.doc.addCentered(wrapToWidth(sanitize(a.f.business.ThankYou), a.width)...)
	a.doc.add(a.divider())
}

func (a *assembly) kitchenFooter() {
	a.doc.add(a.labelRow("Kasir", a.cashier)...)
}

// cashierName keeps the local part of an e-mail login, capped at 40 columns.
func cashierName(raw string) string {
	name := strings.TrimSpace(sanitize(raw))
	if at := strings.Index(name, "@"); at > 0 {
		name = name[:at]
	}
	if r := []rune(name); len(r) > maxCashierName {
		name = string(r[:maxCashierName])
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "Kasir"
	}
	return name
}

// humanize turns enum values like DELIVERY_ROOM into DELIVERY ROOM.
func humanize(v string) string {
	v = strings.TrimSpace(sanitize(v))
	if v == "" {
		return "-"
	}
	return strings.ReplaceAll(v, "_", " ")
}
