package executor

import (
	"context"
	"fmt"

	"futgate/pkg/exchange"
)

// RiskGuard blocks orders that would flip an open position to the opposite
// side in a single step. Reversals must go through an explicit close first so
// that the account never carries an unintended oversized fill.
type RiskGuard struct {
	provider exchange.Provider
}

// NewRiskGuard wraps a provider with reversal protection.
func NewRiskGuard(provider exchange.Provider) *RiskGuard {
	return &RiskGuard{provider: provider}
}

// Check returns ErrReversalBlocked when the proposed side opposes the open
// position on symbol. A flat position always passes.
func (g *RiskGuard) Check(ctx context.Context, symbol string, side exchange.Side) error {
	pos, err := g.provider.GetPosition(ctx, symbol)
	if err != nil {
		return fmt.Errorf("executor: fetch position for risk check: %w", err)
	}
	if pos.Flat() {
		return nil
	}
	if (pos.Side == exchange.PositionLong && side == exchange.SideSell) ||
		(pos.Side == exchange.PositionShort && side == exchange.SideBuy) {
		return fmt.Errorf("executor: %s %s against open %s position of %v: %w",
			side, symbol, pos.Side, pos.Quantity, ErrReversalBlocked)
	}
	return nil
}
