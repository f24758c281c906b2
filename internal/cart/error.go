package cart

import "errors"

var (
	// -- Validation & Input --
	ErrQuantityFloor = errors.New("quantity cannot go below 1")
	ErrItemNotFound  = errors.New("cart item not found")
	ErrNoSelection   = errors.New("no cart items selected")
	ErrInvalidUserID = errors.New("session user id is not numeric")

	// -- Concurrency --
	ErrBusy = errors.New("another cart update is in progress")

	// -- Remote --
	ErrPartialDelete = errors.New("some selected items could not be deleted")
)
