package executor

import (
	"futgate/pkg/exchange"
)

// MaxQuantity computes the largest order quantity the account can afford at
// the given price and leverage without breaching the configured margin
// discipline. The usable margin is the available balance discounted by the
// risk fraction and safety buffer; the affordable notional is usable margin
// times leverage; the quantity is that notional at the entry price, floored
// to the instrument's lot step.
//
// A non-positive price yields zero: sizing against a free or unknown price
// would produce an unbounded quantity.
func MaxQuantity(price float64, leverage int, availableMargin, riskFraction, safetyBuffer, lotStep float64) float64 {
	if price <= 0 {
		return 0
	}
	if availableMargin <= 0 || leverage <= 0 {
		return 0
	}
	if lotStep <= 0 {
		lotStep = defaultLotStep
	}
	usable := availableMargin * riskFraction * safetyBuffer
	notional := usable * float64(leverage)
	qty := exchange.FloorToStep(notional/price, lotStep)
	if qty < 0 {
		return 0
	}
	return qty
}
