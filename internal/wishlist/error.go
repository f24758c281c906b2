package wishlist

import "errors"

var (
	ErrInFlight = errors.New("wishlist change already in progress for this product")
)
