package printer

import (
	"context"
	"fmt"
)

// Target names a physical printing station.
type Target string

const (
	TargetRestaurant Target = "restaurant"
	TargetKitchen    Target = "kitchen"
)

// ParseTarget maps a request value to a Target. Anything other than "kitchen"
// prints at the restaurant counter.
func ParseTarget(s string) Target {
	if Target(s) == TargetKitchen {
		return TargetKitchen
	}
	return TargetRestaurant
}

// Router dispatches print jobs to the printer configured for each target.
type Router struct {
	printers map[Target]Printer
}

// NewRouter creates a new Router. Nil printers are replaced with null printers.
func NewRouter(restaurant, kitchen Printer) *Router {
	if restaurant == nil {
		restaurant = NewNullPrinter()
	}
	if kitchen == nil {
		kitchen = NewNullPrinter()
	}
	return &Router{printers: map[Target]Printer{
		TargetRestaurant: restaurant,
		TargetKitchen:    kitchen,
	}}
}

// Printer returns the printer for target.
func (r *Router) Printer(target Target) Printer {
	if p, ok := r.printers[target]; ok {
		return p
	}
	return r.printers[TargetRestaurant]
}

// Print sends data to the printer for target.
func (r *Router) Print(ctx context.Context, target Target, data []byte) error {
	if err := r.Printer(target).Print(ctx, data); err != nil {
		return fmt.Errorf("%s printer: %w", target, err)
	}
	return nil
}
