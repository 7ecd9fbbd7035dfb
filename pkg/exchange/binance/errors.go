package binance

import "errors"

var (
	// ErrUnsupportedEndpoint indicates an order was routed to a base that
	// cannot accept trading instructions.
	ErrUnsupportedEndpoint = errors.New("binance: endpoint not usable for orders")
	// ErrInvalidQuantity indicates a close or entry quantity rounded to zero.
	ErrInvalidQuantity = errors.New("binance: quantity rounds to zero")
)
