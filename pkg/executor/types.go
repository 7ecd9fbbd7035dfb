package executor

import "futgate/pkg/exchange"

// EntryRequest describes an intended directional entry. Sizing is derived
// from live margin, never supplied by the caller.
type EntryRequest struct {
	Symbol   string
	Side     exchange.Side
	Price    float64
	Leverage int
}

// EntryResult reports what an entry attempt did (or, in dry-run mode, would
// have done).
type EntryResult struct {
	DryRun          bool
	Symbol          string
	Side            exchange.Side
	Quantity        float64
	AvailableMargin float64
	Leverage        int
	Ack             *exchange.OrderAck
}

// TpSlRequest carries the inputs for protective-order resolution. Zero
// values mean "not supplied". Exactly one of an explicit take-profit price,
// a take-profit percentage, or risk-reward derivation is effective.
type TpSlRequest struct {
	Symbol       string
	PositionSide exchange.PositionSide
	EntryPrice   float64

	// Quantity of the protective orders; 0 resolves from the live position.
	Quantity float64

	StopLossPrice   float64
	TakeProfitPrice float64

	// Percent offsets from entry. Values with magnitude above 1 are treated
	// as percent points and divided by 100 (150 -> 1.5).
	StopLossPct   float64
	TakeProfitPct float64

	// RiskReward multiplies the stop distance to derive take-profit when no
	// explicit price or usable percentage is given; 0 uses the configured
	// default.
	RiskReward float64
}
