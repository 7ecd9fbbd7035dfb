package binance

import (
	"context"
	"strconv"
	"strings"

	"futgate/pkg/exchange"
)

// Settlement assets aggregated into the unified-margin snapshot.
var settlementAssets = map[string]bool{
	"USDT":  true,
	"FDUSD": true,
}

type umAccountResponse struct {
	Assets []struct {
		Asset              string `json:"asset"`
		CrossWalletBalance string `json:"crossWalletBalance"`
		InitialMargin      string `json:"initialMargin"`
	} `json:"assets"`
}

type crossMarginAccountResponse struct {
	UserAssets []struct {
		Asset  string `json:"asset"`
		Free   string `json:"free"`
		Locked string `json:"locked"`
	} `json:"userAssets"`
}

type spotAccountResponse struct {
	Balances []struct {
		Asset  string `json:"asset"`
		Free   string `json:"free"`
		Locked string `json:"locked"`
	} `json:"balances"`
}

// marginFallback is one step of the ordered fallback cascade tried when the
// primary unified-margin computation yields no usable balance.
type marginFallback struct {
	name  string
	fetch func(ctx context.Context) (float64, error)
}

// FetchMarginState reads available trading margin for the account.
//
// The primary source is the unified-margin account: wallet balance and
// (wallet - initial margin) are summed across eligible settlement assets.
// When the resulting available balance is non-positive, the cross-margin and
// spot pools are tried in order and the first positive free balance replaces
// Available. Fallback failures are logged and swallowed; only primary
// failure is a hard error. TotalWallet always reflects the primary
// computation.
func (c *Client) FetchMarginState(ctx context.Context) (*exchange.MarginState, error) {
	var resp umAccountResponse
	if err := c.doRequest(ctx, "GET", EndpointPortfolioMargin, "/papi/v1/um/account", nil, true, &resp); err != nil {
		return nil, err
	}

	state := &exchange.MarginState{}
	for _, asset := range resp.Assets {
		if !settlementAssets[strings.ToUpper(asset.Asset)] {
			continue
		}
		wallet := parseFloat(asset.CrossWalletBalance)
		initialMargin := parseFloat(asset.InitialMargin)
		state.TotalWallet += wallet
		state.Available += wallet - initialMargin
	}

	if state.Available <= 0 {
		for _, fb := range c.marginFallbacks() {
			free, err := fb.fetch(ctx)
			if err != nil {
				c.logf("binance: margin fallback %s failed: %v", fb.name, err)
				continue
			}
			if free > 0 {
				c.logf("binance: margin fallback %s supplied available=%.8f", fb.name, free)
				state.Available = free
				state.FallbackSource = fb.name
				break
			}
		}
	}

	if state.Available < 0 {
		state.Available = 0
	}
	return state, nil
}

func (c *Client) marginFallbacks() []marginFallback {
	return []marginFallback{
		{name: "cross_margin", fetch: c.crossMarginFreeUSDT},
		{name: "spot", fetch: c.spotFreeUSDT},
	}
}

func (c *Client) crossMarginFreeUSDT(ctx context.Context) (float64, error) {
	var resp crossMarginAccountResponse
	if err := c.doRequest(ctx, "GET", EndpointSpot, "/sapi/v1/margin/account", nil, true, &resp); err != nil {
		return 0, err
	}
	for _, asset := range resp.UserAssets {
		if asset.Asset == "USDT" {
			return parseFloat(asset.Free) + parseFloat(asset.Locked), nil
		}
	}
	return 0, nil
}

func (c *Client) spotFreeUSDT(ctx context.Context) (float64, error) {
	var resp spotAccountResponse
	if err := c.doRequest(ctx, "GET", EndpointSpot, "/api/v3/account", nil, true, &resp); err != nil {
		return 0, err
	}
	for _, balance := range resp.Balances {
		if balance.Asset == "USDT" {
			return parseFloat(balance.Free) + parseFloat(balance.Locked), nil
		}
	}
	return 0, nil
}

// SpotFreeBalance returns the free spot balance for a base asset, used by
// the spot close path.
func (c *Client) SpotFreeBalance(ctx context.Context, asset string) (float64, error) {
	var resp spotAccountResponse
	if err := c.doRequest(ctx, "GET", EndpointSpot, "/api/v3/account", nil, true, &resp); err != nil {
		return 0, err
	}
	for _, balance := range resp.Balances {
		if strings.EqualFold(balance.Asset, asset) {
			return parseFloat(balance.Free), nil
		}
	}
	return 0, nil
}

// parseFloat converts a Binance decimal string, returning 0 on malformed input.
func parseFloat(value string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return f
}
