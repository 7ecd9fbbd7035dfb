package executor

import "errors"

var (
	// ErrReversalBlocked indicates an order would flip an open position's
	// sign without an explicit close.
	ErrReversalBlocked = errors.New("executor: order would reverse open position")
	// ErrNoMargin indicates no available margin survived the fallback cascade.
	ErrNoMargin = errors.New("executor: no available margin")
	// ErrInvalidEntryPrice indicates a non-positive entry price.
	ErrInvalidEntryPrice = errors.New("executor: entry price must be positive")
	// ErrZeroQuantity indicates sizing or rounding produced no tradable quantity.
	ErrZeroQuantity = errors.New("executor: computed quantity is zero")
)
