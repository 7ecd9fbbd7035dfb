// Package executor sizes, guards and submits orders on top of an
// exchange.Provider. Every entry is sized from a fresh margin snapshot,
// checked against the open position, and optionally previewed instead of
// submitted.
package executor

import (
	"context"
	"fmt"

	"github.com/zeromicro/go-zero/core/logx"

	"futgate/pkg/exchange"
)

// OrderExecutor is the entry point of the execution safety layer.
type OrderExecutor struct {
	provider exchange.Provider
	cfg      *Config
	guard    *RiskGuard
	resolver *Resolver
}

// New builds an OrderExecutor. A nil cfg uses DefaultConfig, which keeps
// dry-run on.
func New(provider exchange.Provider, cfg *Config) *OrderExecutor {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &OrderExecutor{
		provider: provider,
		cfg:      cfg,
		guard:    NewRiskGuard(provider),
		resolver: NewResolver(provider, cfg),
	}
}

// Resolver exposes the protective-order resolver sharing this executor's
// configuration.
func (e *OrderExecutor) Resolver() *Resolver { return e.resolver }

// OpenMarket sizes and submits a market entry. The quantity is always
// derived from live available margin; callers supply direction, price and
// leverage only. In dry-run mode the fully sized order is returned without
// being sent.
func (e *OrderExecutor) OpenMarket(ctx context.Context, req EntryRequest) (*EntryResult, error) {
	if req.Price <= 0 {
		return nil, fmt.Errorf("executor: open %s: %w", req.Symbol, ErrInvalidEntryPrice)
	}
	leverage := req.Leverage
	if leverage <= 0 {
		leverage = e.cfg.DefaultLeverage
	}
	if leverage > e.cfg.MaxLeverage {
		logx.Infow("capping requested leverage",
			logx.Field("symbol", req.Symbol),
			logx.Field("requested", req.Leverage),
			logx.Field("cap", e.cfg.MaxLeverage))
		leverage = e.cfg.MaxLeverage
	}

	margin, err := e.provider.FetchMarginState(ctx)
	if err != nil {
		return nil, fmt.Errorf("executor: fetch margin for %s: %w", req.Symbol, err)
	}
	if margin.Available <= 0 {
		blockedOrdersTotal.WithLabelValues("no_margin").Inc()
		return nil, fmt.Errorf("executor: open %s: %w", req.Symbol, ErrNoMargin)
	}

	if err := e.guard.Check(ctx, req.Symbol, req.Side); err != nil {
		blockedOrdersTotal.WithLabelValues("reversal").Inc()
		return nil, err
	}

	lotStep := e.cfg.DefaultLotStep
	if inst, err := e.provider.GetInstrument(ctx, req.Symbol); err == nil && inst.LotStep > 0 {
		lotStep = inst.LotStep
	} else if err != nil {
		logx.Infow("lot step unavailable, using default",
			logx.Field("symbol", req.Symbol), logx.Field("error", err.Error()))
	}

	qty := MaxQuantity(req.Price, leverage, margin.Available, e.cfg.RiskFraction, e.cfg.SafetyBuffer, lotStep)
	if qty <= 0 {
		blockedOrdersTotal.WithLabelValues("zero_quantity").Inc()
		return nil, fmt.Errorf("executor: open %s at %v: %w", req.Symbol, req.Price, ErrZeroQuantity)
	}

	result := &EntryResult{
		Symbol:          req.Symbol,
		Side:            req.Side,
		Quantity:        qty,
		AvailableMargin: margin.Available,
		Leverage:        leverage,
	}

	if e.cfg.DryRun {
		result.DryRun = true
		ordersTotal.WithLabelValues("dry_run", string(req.Side)).Inc()
		logx.Infow("dry-run entry preview",
			logx.Field("symbol", req.Symbol),
			logx.Field("side", string(req.Side)),
			logx.Field("quantity", qty),
			logx.Field("leverage", leverage),
			logx.Field("available", margin.Available))
		return result, nil
	}

	ack, err := e.provider.PlaceMarketOrder(ctx, exchange.MarketOrderRequest{
		Symbol:   req.Symbol,
		Side:     req.Side,
		Quantity: qty,
	})
	if err != nil {
		return nil, fmt.Errorf("executor: submit %s %s: %w", req.Side, req.Symbol, err)
	}
	ordersTotal.WithLabelValues("live", string(req.Side)).Inc()
	result.Ack = ack
	return result, nil
}
