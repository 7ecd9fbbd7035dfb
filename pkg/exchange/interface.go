package exchange

import "context"

// Provider exposes the account, position and order operations the execution
// safety layer needs, in an exchange-agnostic fashion.
type Provider interface {
	// Account information. FetchMarginState returns a fresh snapshot on
	// every call; implementations must not cache it.
	FetchMarginState(ctx context.Context) (*MarginState, error)

	// Position management.
	GetPosition(ctx context.Context, symbol string) (*Position, error)

	// Instrument metadata (lot step, tick size, minimum notional).
	GetInstrument(ctx context.Context, symbol string) (*Instrument, error)

	// Order management.
	PlaceMarketOrder(ctx context.Context, req MarketOrderRequest) (*OrderAck, error)
	PlaceConditionalOrder(ctx context.Context, ord ProtectiveOrder) (*OrderAck, error)
	CancelAllOrders(ctx context.Context, symbol string) error
	CancelAllConditionalOrders(ctx context.Context, symbol string) error
}
