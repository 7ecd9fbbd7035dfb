package exchange

// Core trading domain types shared across exchange implementations.
// These structures track the shapes of the Binance futures REST payloads
// while remaining exchange-agnostic so the execution layer never depends
// on a concrete venue.

// Side represents order direction.
type Side string

const (
	// SideBuy executes a buy.
	SideBuy Side = "BUY"
	// SideSell executes a sell.
	SideSell Side = "SELL"
)

// Opposite returns the inverse order side.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// PositionSide labels the direction of an open position.
type PositionSide string

const (
	// PositionLong marks a long position.
	PositionLong PositionSide = "LONG"
	// PositionShort marks a short position.
	PositionShort PositionSide = "SHORT"
)

// CloseSide returns the order side that flattens a position of this direction.
func (p PositionSide) CloseSide() Side {
	if p == PositionLong {
		return SideSell
	}
	return SideBuy
}

// MarginState is a point-in-time snapshot of account margin. It is never
// cached: every sizing or closing decision re-fetches it.
type MarginState struct {
	// TotalWallet is the summed wallet balance across eligible settlement assets.
	TotalWallet float64
	// Available is wallet balance minus initial margin in use, clamped to >= 0.
	// When the primary computation is non-positive it may instead carry a
	// fallback pool's free balance; TotalWallet is never substituted.
	Available float64
	// FallbackSource names the margin pool Available came from when a
	// fallback was used ("cross_margin" or "spot"); empty for the primary pool.
	FallbackSource string
}

// Position captures a live position read. Quantity is signed: positive is
// long, negative is short. A flat position is a zero-quantity value, not an
// error.
type Position struct {
	Symbol     string
	Quantity   float64
	EntryPrice float64
	Side       PositionSide
	Leverage   int
}

// Flat reports whether the position carries no exposure.
func (p Position) Flat() bool { return p.Quantity == 0 }

// Instrument holds exchange metadata for a symbol. Immutable once fetched.
type Instrument struct {
	Symbol      string
	TickSize    float64
	LotStep     float64
	MinNotional float64
}

// MarketOrderRequest describes a market order submission.
type MarketOrderRequest struct {
	Symbol        string
	Side          Side
	Quantity      float64
	ReduceOnly    bool
	ClientOrderID string
}

// StrategyType tags a protective conditional order.
type StrategyType string

const (
	// StrategyStop is a stop-loss conditional order.
	StrategyStop StrategyType = "STOP"
	// StrategyTakeProfit is a take-profit conditional order.
	StrategyTakeProfit StrategyType = "TAKE_PROFIT"
)

// ProtectiveOrder is an opposite-side, close-whole-position, mark-price
// triggered conditional order attached after an entry.
type ProtectiveOrder struct {
	Symbol        string
	Side          Side
	Strategy      StrategyType
	TriggerPrice  float64
	Quantity      float64
	ClosePosition bool
}

// OrderAck is the normalized acknowledgement returned after a submission.
type OrderAck struct {
	OrderID       int64
	ClientOrderID string
	Symbol        string
	Status        string
	Raw           []byte
}

// CloseStatus enumerates the terminal outcomes of a close operation.
type CloseStatus string

const (
	// CloseNoPosition means there was nothing to close; a success outcome.
	CloseNoPosition CloseStatus = "NO_POSITION"
	// CloseNoBalance means the spot close path found no balance to sell.
	CloseNoBalance CloseStatus = "NO_BALANCE"
	// CloseDone means the reduce-only close order was accepted.
	CloseDone CloseStatus = "CLOSED"
	// CloseFailed means the close aborted before or during submission.
	CloseFailed CloseStatus = "FAILED"
)

// CloseResult reports the outcome of a safe-close operation.
type CloseResult struct {
	Status  CloseStatus
	OrderID int64
	// Side and Quantity describe the close order actually sent, when one was.
	Side     Side
	Quantity float64
}
