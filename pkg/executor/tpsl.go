package executor

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/zeromicro/go-zero/core/logx"

	"futgate/pkg/exchange"
)

// pctEpsilon is the threshold below which a normalized take-profit
// percentage counts as absent and risk-reward derivation takes over.
const pctEpsilon = 1e-6

// Resolver turns take-profit / stop-loss inputs into protective conditional
// orders. Price resolution is pure; Attach performs the exchange calls.
type Resolver struct {
	provider exchange.Provider
	cfg      *Config

	// sleep is swapped out in tests.
	sleep func(time.Duration)
}

// NewResolver builds a Resolver bound to a provider.
func NewResolver(provider exchange.Provider, cfg *Config) *Resolver {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Resolver{provider: provider, cfg: cfg, sleep: time.Sleep}
}

// ResolvePrices computes the stop-loss and take-profit trigger prices for a
// request without touching the exchange. Precedence for each leg: explicit
// price first, then a percentage offset from entry, then risk-reward
// derivation for the take-profit leg. Prices are returned unrounded; Attach
// applies tick rounding.
func (r *Resolver) ResolvePrices(req TpSlRequest) (sl, tp float64, err error) {
	if req.EntryPrice <= 0 {
		return 0, 0, fmt.Errorf("executor: resolve tp/sl for %s: %w", req.Symbol, ErrInvalidEntryPrice)
	}
	long := req.PositionSide == exchange.PositionLong

	sl = req.StopLossPrice
	if sl == 0 && req.StopLossPct != 0 {
		pct := normalizePct(req.StopLossPct)
		if long {
			sl = req.EntryPrice * (1 - pct)
		} else {
			sl = req.EntryPrice * (1 + pct)
		}
	}

	tp = req.TakeProfitPrice
	if tp == 0 {
		pct := normalizePct(req.TakeProfitPct)
		if pct > pctEpsilon {
			if long {
				tp = req.EntryPrice * (1 + pct)
			} else {
				tp = req.EntryPrice * (1 - pct)
			}
		} else if sl != 0 {
			rr := req.RiskReward
			if rr == 0 {
				rr = r.cfg.DefaultRiskReward
			}
			dist := math.Abs(req.EntryPrice-sl) * rr
			if long {
				tp = req.EntryPrice + dist
			} else {
				tp = req.EntryPrice - dist
			}
		}
	}
	return sl, tp, nil
}

// normalizePct maps user-facing percent inputs onto a fraction. Sign is
// ignored; the position side decides direction. Magnitudes above 1 are
// percent points.
func normalizePct(pct float64) float64 {
	pct = math.Abs(pct)
	if pct > 1 {
		pct /= 100
	}
	return pct
}

// Attach resolves the protective prices for req and submits the
// corresponding conditional orders. Each leg is an opposite-side,
// close-whole-position order triggered on mark price. A leg that resolves to
// zero is skipped. Returns the acks of the orders actually placed.
func (r *Resolver) Attach(ctx context.Context, req TpSlRequest) ([]*exchange.OrderAck, error) {
	sl, tp, err := r.ResolvePrices(req)
	if err != nil {
		return nil, err
	}
	if sl <= 0 && tp <= 0 {
		return nil, nil
	}

	closeSide := req.PositionSide.CloseSide()
	qty, err := r.resolveQuantity(ctx, req)
	if err != nil {
		logx.Errorw("protective orders dropped: quantity unresolved",
			logx.Field("symbol", req.Symbol), logx.Field("error", err.Error()))
		return nil, err
	}

	var acks []*exchange.OrderAck
	legs := []struct {
		strategy exchange.StrategyType
		price    float64
	}{
		{exchange.StrategyStop, sl},
		{exchange.StrategyTakeProfit, tp},
	}
	for _, leg := range legs {
		if leg.price <= 0 {
			continue
		}
		ack, err := r.provider.PlaceConditionalOrder(ctx, exchange.ProtectiveOrder{
			Symbol:        req.Symbol,
			Side:          closeSide,
			Strategy:      leg.strategy,
			TriggerPrice:  r.roundTrigger(ctx, req.Symbol, leg.price),
			Quantity:      qty,
			ClosePosition: true,
		})
		if err != nil {
			return acks, fmt.Errorf("executor: place %s for %s: %w", leg.strategy, req.Symbol, err)
		}
		protectiveOrdersTotal.WithLabelValues(string(leg.strategy)).Inc()
		acks = append(acks, ack)
	}
	return acks, nil
}

// resolveQuantity returns the explicit request quantity or reads it from the
// live position, retrying briefly because the position may not be visible
// immediately after the entry fill.
func (r *Resolver) resolveQuantity(ctx context.Context, req TpSlRequest) (float64, error) {
	if req.Quantity > 0 {
		return req.Quantity, nil
	}
	var lastErr error
	for attempt := 0; attempt < quantityRetryAttempts; attempt++ {
		if attempt > 0 {
			r.sleep(quantityRetryDelay)
		}
		pos, err := r.provider.GetPosition(ctx, req.Symbol)
		if err != nil {
			lastErr = err
			continue
		}
		if q := math.Abs(pos.Quantity); q > 0 {
			return q, nil
		}
		lastErr = fmt.Errorf("executor: no open position on %s", req.Symbol)
	}
	return 0, fmt.Errorf("executor: resolve protective quantity for %s: %w", req.Symbol, lastErr)
}

// roundTrigger floors the trigger price to the instrument tick, degrading to
// decimal-count rounding when metadata is unavailable.
func (r *Resolver) roundTrigger(ctx context.Context, symbol string, price float64) float64 {
	inst, err := r.provider.GetInstrument(ctx, symbol)
	if err == nil && inst.TickSize > 0 {
		return exchange.RoundToTick(price, inst.TickSize)
	}
	if err != nil {
		logx.Infow("tick size unavailable, using decimal fallback",
			logx.Field("symbol", symbol), logx.Field("error", err.Error()))
	}
	return exchange.RoundPriceFallback(price)
}
