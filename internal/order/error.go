package order

import "errors"

var (
	// -- Validation & Input --
	ErrEmptySelection = errors.New("no items selected for checkout")
	ErrEmptyReorder   = errors.New("order has no lines to reorder")

	// -- Resource State --
	ErrOrderNotFound  = errors.New("order not found")
	ErrNotCancelable  = errors.New("only pending orders can be canceled")
	ErrPartialReorder = errors.New("some items could not be added back to the cart")
)
