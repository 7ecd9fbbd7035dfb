package executor

import (
	"context"
	"errors"

	"futgate/pkg/exchange"
)

// fakeProvider implements exchange.Provider with overridable behaviour and
// records the orders it receives.
type fakeProvider struct {
	margin     *exchange.MarginState
	marginErr  error
	position   *exchange.Position
	posErr     error
	instrument *exchange.Instrument
	instErr    error

	marketOrders      []exchange.MarketOrderRequest
	conditionalOrders []exchange.ProtectiveOrder
	marketErr         error
	conditionalErr    error

	getPosition func(ctx context.Context, symbol string) (*exchange.Position, error)
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		margin:     &exchange.MarginState{TotalWallet: 1000, Available: 1000},
		position:   &exchange.Position{Symbol: "BTCUSDT"},
		instrument: &exchange.Instrument{Symbol: "BTCUSDT", TickSize: 0.01, LotStep: 0.001},
	}
}

func (f *fakeProvider) FetchMarginState(ctx context.Context) (*exchange.MarginState, error) {
	if f.marginErr != nil {
		return nil, f.marginErr
	}
	return f.margin, nil
}

func (f *fakeProvider) GetPosition(ctx context.Context, symbol string) (*exchange.Position, error) {
	if f.getPosition != nil {
		return f.getPosition(ctx, symbol)
	}
	if f.posErr != nil {
		return nil, f.posErr
	}
	return f.position, nil
}

func (f *fakeProvider) GetInstrument(ctx context.Context, symbol string) (*exchange.Instrument, error) {
	if f.instErr != nil {
		return nil, f.instErr
	}
	return f.instrument, nil
}

func (f *fakeProvider) PlaceMarketOrder(ctx context.Context, req exchange.MarketOrderRequest) (*exchange.OrderAck, error) {
	if f.marketErr != nil {
		return nil, f.marketErr
	}
	f.marketOrders = append(f.marketOrders, req)
	return &exchange.OrderAck{OrderID: int64(len(f.marketOrders)), Symbol: req.Symbol, Status: "FILLED"}, nil
}

func (f *fakeProvider) PlaceConditionalOrder(ctx context.Context, ord exchange.ProtectiveOrder) (*exchange.OrderAck, error) {
	if f.conditionalErr != nil {
		return nil, f.conditionalErr
	}
	f.conditionalOrders = append(f.conditionalOrders, ord)
	return &exchange.OrderAck{OrderID: int64(100 + len(f.conditionalOrders)), Symbol: ord.Symbol, Status: "NEW"}, nil
}

func (f *fakeProvider) CancelAllOrders(ctx context.Context, symbol string) error { return nil }

func (f *fakeProvider) CancelAllConditionalOrders(ctx context.Context, symbol string) error {
	return nil
}

var errFakeDown = errors.New("venue unreachable")
