package checkout

import "errors"

// Client-visible failure modes. Anything else surfacing from PlaceOrder is an
// internal failure; either way the transaction has been rolled back.
var (
	ErrInvalidOrder      = errors.New("invalid order data")
	ErrItemNotFound      = errors.New("menu item not found")
	ErrItemUnavailable   = errors.New("menu item unavailable")
	ErrInsufficientStock = errors.New("insufficient stock")
)
