package shell

import (
	"context"
)

// AdjustsInventory is the part of sqlengine.Session the InventoryAdjuster needs.
type AdjustsInventory interface {
	UpsertAvailableCopies(ctx context.Context, bookID, delta int64) error
	AdjustTotalCopies(ctx context.Context, bookID, delta int64) error
}

// InventoryAdjuster applies a change in circulation to the copy counters of a book.
type InventoryAdjuster struct {
	adjustTotalCopies bool
}

// InventoryAdjusterOption configures an InventoryAdjuster.
type InventoryAdjusterOption func(*InventoryAdjuster)

// WithTotalCopiesAdjustment controls whether total_copies moves together with available_copies.
// It is on by default; switch it off to only track availability on borrow and return.
func WithTotalCopiesAdjustment(enabled bool) InventoryAdjusterOption {
	return func(a *InventoryAdjuster) {
		a.adjustTotalCopies = enabled
	}
}

// NewInventoryAdjuster creates an InventoryAdjuster.
func NewInventoryAdjuster(opts ...InventoryAdjusterOption) InventoryAdjuster {
	adjuster := InventoryAdjuster{adjustTotalCopies: true}

	for _, opt := range opts {
		opt(&adjuster)
	}

	return adjuster
}

// Adjust adds delta to the available copies of bookID, creating the inventory row if needed,
// and then to its total copies when that is enabled. There is no floor at zero.
func (a InventoryAdjuster) Adjust(ctx context.Context, session AdjustsInventory, bookID, delta int64) error {
	if err := session.UpsertAvailableCopies(ctx, bookID, delta); err != nil {
		return err
	}

	if !a.adjustTotalCopies {
		return nil
	}

	return session.AdjustTotalCopies(ctx, bookID, delta)
}

// AdjustsTotalCopies reports whether total_copies is adjusted.
func (a InventoryAdjuster) AdjustsTotalCopies() bool {
	return a.adjustTotalCopies
}
