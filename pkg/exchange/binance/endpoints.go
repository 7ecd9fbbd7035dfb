package binance

import (
	"fmt"
	"strings"
)

// Endpoint identifies one of the Binance API surfaces. The set is closed on
// purpose: adding a new base forces an explicit allow/deny decision in
// OrderCapable instead of silently defaulting to "allowed".
type Endpoint int

const (
	// EndpointSpot serves spot trading (api.binance.com).
	EndpointSpot Endpoint = iota
	// EndpointFuturesUSDT serves USDT-margined futures (fapi.binance.com).
	EndpointFuturesUSDT
	// EndpointFuturesCoin serves coin-margined futures (dapi.binance.com).
	EndpointFuturesCoin
	// EndpointPortfolioMargin serves unified-account data (papi.binance.com).
	// Account information only: order placement against it 404s at the
	// exchange after real risk has already been computed.
	EndpointPortfolioMargin
)

const (
	spotBaseURL            = "https://api.binance.com"
	futuresUSDTBaseURL     = "https://fapi.binance.com"
	futuresCoinBaseURL     = "https://dapi.binance.com"
	portfolioMarginBaseURL = "https://papi.binance.com"
)

// BaseURL returns the production base URL for the endpoint.
func (e Endpoint) BaseURL() string {
	switch e {
	case EndpointSpot:
		return spotBaseURL
	case EndpointFuturesUSDT:
		return futuresUSDTBaseURL
	case EndpointFuturesCoin:
		return futuresCoinBaseURL
	case EndpointPortfolioMargin:
		return portfolioMarginBaseURL
	}
	return ""
}

func (e Endpoint) String() string {
	switch e {
	case EndpointSpot:
		return "spot"
	case EndpointFuturesUSDT:
		return "futures_usdt"
	case EndpointFuturesCoin:
		return "futures_coin"
	case EndpointPortfolioMargin:
		return "portfolio_margin"
	}
	return fmt.Sprintf("endpoint(%d)", int(e))
}

// OrderCapable reports whether plain order placement is permitted against
// this endpoint. The portfolio-margin base must fail this check even though
// it is valid for read-only account queries.
func (e Endpoint) OrderCapable() bool {
	switch e {
	case EndpointSpot, EndpointFuturesUSDT, EndpointFuturesCoin:
		return true
	case EndpointPortfolioMargin:
		return false
	}
	return false
}

// OrderPath returns the order placement path for the endpoint, or
// ErrUnsupportedEndpoint when the endpoint cannot accept orders.
func (e Endpoint) OrderPath() (string, error) {
	switch e {
	case EndpointSpot:
		return "/api/v3/order", nil
	case EndpointFuturesUSDT:
		return "/fapi/v1/order", nil
	case EndpointFuturesCoin:
		return "/dapi/v1/order", nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedEndpoint, e)
}

// EndpointForOrder resolves the endpoint an order for the given symbol must
// target. Spot symbols route to the spot base, inverse perpetuals
// (e.g. BTCUSD_PERP) to the coin-margined base, everything else to the
// USDT-margined futures base.
func EndpointForOrder(symbol string, isSpot bool) Endpoint {
	if isSpot {
		return EndpointSpot
	}
	upper := strings.ToUpper(symbol)
	if strings.Contains(upper, "USD_PERP") || strings.Contains(upper, "PERP") {
		return EndpointFuturesCoin
	}
	return EndpointFuturesUSDT
}
