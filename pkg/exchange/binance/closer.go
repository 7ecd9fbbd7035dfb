package binance

import (
	"context"
	"fmt"
	"math"

	"futgate/pkg/exchange"
)

// SafeCloser flattens positions without ever being able to open one.
//
// The close flow is a fixed sequence: fetch position, determine the inverse
// side, best-effort cancel stale conditional and resting orders, re-validate
// the endpoint, round the quantity to the lot step, then submit a
// reduce-only market order. Reduce-only is the point of this type: a close
// order without it can execute as a fresh reverse entry if mistimed.
type SafeCloser struct {
	client *Client
}

// NewSafeCloser constructs a closer over the given client.
func NewSafeCloser(client *Client) *SafeCloser {
	return &SafeCloser{client: client}
}

// CloseFutures safely flattens the futures position on symbol.
// A flat position is a success outcome (NO_POSITION), not an error.
func (s *SafeCloser) CloseFutures(ctx context.Context, symbol string) (*exchange.CloseResult, error) {
	pos, err := s.client.GetPosition(ctx, symbol)
	if err != nil {
		return &exchange.CloseResult{Status: exchange.CloseFailed}, fmt.Errorf("binance: fetch position for close: %w", err)
	}
	if pos.Flat() {
		s.client.logf("binance: %s has no position, nothing to close", symbol)
		return &exchange.CloseResult{Status: exchange.CloseNoPosition}, nil
	}

	closeSide := pos.Side.CloseSide()
	closeQty := math.Abs(pos.Quantity)

	// Stale protective or resting orders left behind are less bad than
	// failing to close, so cancellation errors do not abort the flow.
	if err := s.client.CancelAllConditionalOrders(ctx, symbol); err != nil {
		s.client.logf("binance: cancel conditional orders for %s failed (continuing): %v", symbol, err)
	}
	if err := s.client.CancelAllOrders(ctx, symbol); err != nil {
		s.client.logf("binance: cancel resting orders for %s failed (continuing): %v", symbol, err)
	}

	endpoint := EndpointForOrder(symbol, false)
	if !endpoint.OrderCapable() {
		return &exchange.CloseResult{Status: exchange.CloseFailed},
			fmt.Errorf("%w: %s", ErrUnsupportedEndpoint, endpoint)
	}

	if inst, err := s.client.GetInstrument(ctx, symbol); err == nil && inst.LotStep > 0 {
		closeQty = FloorToStep(closeQty, inst.LotStep)
	} else if err != nil {
		s.client.logf("binance: instrument metadata for %s unavailable, submitting unrounded close quantity: %v", symbol, err)
	}
	if closeQty <= 0 {
		return &exchange.CloseResult{Status: exchange.CloseFailed},
			fmt.Errorf("%w: close quantity for %s", ErrInvalidQuantity, symbol)
	}

	ack, err := s.client.PlaceMarketOrder(ctx, exchange.MarketOrderRequest{
		Symbol:     symbol,
		Side:       closeSide,
		Quantity:   closeQty,
		ReduceOnly: true,
	})
	if err != nil {
		s.client.logf("%s", DiagnoseOrderFailure(err.Error(), symbol, endpoint.BaseURL()))
		return &exchange.CloseResult{Status: exchange.CloseFailed, Side: closeSide, Quantity: closeQty}, err
	}

	s.client.logf("binance: closed %s %s qty=%v orderId=%d", symbol, closeSide, closeQty, ack.OrderID)
	return &exchange.CloseResult{
		Status:   exchange.CloseDone,
		OrderID:  ack.OrderID,
		Side:     closeSide,
		Quantity: closeQty,
	}, nil
}

// CloseSpot sells the free spot balance backing symbol. An empty balance is
// a success outcome (NO_BALANCE).
func (s *SafeCloser) CloseSpot(ctx context.Context, symbol string) (*exchange.CloseResult, error) {
	free, err := s.client.SpotFreeBalance(ctx, BaseAsset(symbol))
	if err != nil {
		return &exchange.CloseResult{Status: exchange.CloseFailed}, fmt.Errorf("binance: fetch spot balance for close: %w", err)
	}
	if free <= 0 {
		s.client.logf("binance: %s has no spot balance, nothing to close", symbol)
		return &exchange.CloseResult{Status: exchange.CloseNoBalance}, nil
	}

	endpoint := EndpointForOrder(symbol, true)
	if !endpoint.OrderCapable() {
		return &exchange.CloseResult{Status: exchange.CloseFailed},
			fmt.Errorf("%w: %s", ErrUnsupportedEndpoint, endpoint)
	}

	ack, err := s.client.PlaceSpotMarketOrder(ctx, exchange.MarketOrderRequest{
		Symbol:   symbol,
		Side:     exchange.SideSell,
		Quantity: free,
	})
	if err != nil {
		return &exchange.CloseResult{Status: exchange.CloseFailed, Side: exchange.SideSell, Quantity: free}, err
	}

	return &exchange.CloseResult{
		Status:   exchange.CloseDone,
		OrderID:  ack.OrderID,
		Side:     exchange.SideSell,
		Quantity: free,
	}, nil
}
