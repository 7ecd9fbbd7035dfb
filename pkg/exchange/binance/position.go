package binance

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"futgate/pkg/exchange"
)

type positionRiskEntry struct {
	Symbol      string `json:"symbol"`
	PositionAmt string `json:"positionAmt"`
	EntryPrice  string `json:"entryPrice"`
	Leverage    string `json:"leverage"`
	PositionSide string `json:"positionSide"`
}

// GetPosition reads the live position for a symbol from the unified-account
// position-risk surface. A flat position comes back as a zero-quantity
// value, never as an error.
func (c *Client) GetPosition(ctx context.Context, symbol string) (*exchange.Position, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	var entries []positionRiskEntry
	if err := c.doRequest(ctx, "GET", EndpointPortfolioMargin, "/papi/v1/um/positionRisk", params, true, &entries); err != nil {
		return nil, err
	}

	pos := &exchange.Position{Symbol: symbol}
	for _, entry := range entries {
		if !strings.EqualFold(entry.Symbol, symbol) {
			continue
		}
		qty := parseFloat(entry.PositionAmt)
		if qty == 0 {
			continue
		}
		pos.Quantity = qty
		pos.EntryPrice = parseFloat(entry.EntryPrice)
		if lev, err := strconv.Atoi(strings.TrimSpace(entry.Leverage)); err == nil {
			pos.Leverage = lev
		}
		if qty > 0 {
			pos.Side = exchange.PositionLong
		} else {
			pos.Side = exchange.PositionShort
		}
		break
	}
	return pos, nil
}
