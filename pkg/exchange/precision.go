package exchange

import "math"

// roundEps absorbs float division error so a value already aligned to its
// increment does not floor down one step.
const roundEps = 1e-9

// RoundToTick floors a price to a multiple of the tick size. Rounding is
// idempotent: an aligned price is returned unchanged.
func RoundToTick(price, tick float64) float64 {
	if tick <= 0 {
		return price
	}
	return math.Floor(price/tick+roundEps) * tick
}

// FloorToStep floors a quantity to a multiple of the lot step.
func FloorToStep(qty, step float64) float64 {
	if step <= 0 {
		return qty
	}
	return math.Floor(qty/step+roundEps) * step
}

// RoundPriceFallback rounds a price to a decimal-place count chosen by its
// magnitude: 8 decimals below 1e-4, 6 below 1e-2, 5 below 1, 4 below 10,
// 3 below 100, else 2. Used when an instrument's tick size is unknown.
func RoundPriceFallback(price float64) float64 {
	if price <= 0 {
		return price
	}
	decimals := 2
	switch {
	case price < 0.0001:
		decimals = 8
	case price < 0.01:
		decimals = 6
	case price < 1:
		decimals = 5
	case price < 10:
		decimals = 4
	case price < 100:
		decimals = 3
	}
	scale := math.Pow10(decimals)
	return math.Round(price*scale) / scale
}
