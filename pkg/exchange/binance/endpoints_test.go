package binance

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndpointBaseURL(t *testing.T) {
	assert.Equal(t, "https://api.binance.com", EndpointSpot.BaseURL())
	assert.Equal(t, "https://fapi.binance.com", EndpointFuturesUSDT.BaseURL())
	assert.Equal(t, "https://dapi.binance.com", EndpointFuturesCoin.BaseURL())
	assert.Equal(t, "https://papi.binance.com", EndpointPortfolioMargin.BaseURL())
}

func TestEndpointOrderCapable(t *testing.T) {
	tests := []struct {
		endpoint Endpoint
		want     bool
	}{
		{EndpointSpot, true},
		{EndpointFuturesUSDT, true},
		{EndpointFuturesCoin, true},
		{EndpointPortfolioMargin, false},
	}
	for _, tt := range tests {
		t.Run(tt.endpoint.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.endpoint.OrderCapable())
		})
	}
}

func TestEndpointOrderPath(t *testing.T) {
	t.Run("spot", func(t *testing.T) {
		path, err := EndpointSpot.OrderPath()
		require.NoError(t, err)
		assert.Equal(t, "/api/v3/order", path)
	})
	t.Run("futures_usdt", func(t *testing.T) {
		path, err := EndpointFuturesUSDT.OrderPath()
		require.NoError(t, err)
		assert.Equal(t, "/fapi/v1/order", path)
	})
	t.Run("futures_coin", func(t *testing.T) {
		path, err := EndpointFuturesCoin.OrderPath()
		require.NoError(t, err)
		assert.Equal(t, "/dapi/v1/order", path)
	})
	t.Run("portfolio_margin_refused", func(t *testing.T) {
		_, err := EndpointPortfolioMargin.OrderPath()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnsupportedEndpoint))
	})
}

func TestEndpointForOrder(t *testing.T) {
	tests := []struct {
		name   string
		symbol string
		isSpot bool
		want   Endpoint
	}{
		{"usdt_futures", "BTCUSDT", false, EndpointFuturesUSDT},
		{"coin_perp", "BTCUSD_PERP", false, EndpointFuturesCoin},
		{"coin_perp_lowercase", "ethusd_perp", false, EndpointFuturesCoin},
		{"spot_flag_wins", "BTCUSDT", true, EndpointSpot},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EndpointForOrder(tt.symbol, tt.isSpot))
		})
	}
}

func TestEndpointString(t *testing.T) {
	assert.Equal(t, "portfolio_margin", EndpointPortfolioMargin.String())
	assert.Equal(t, "endpoint(99)", Endpoint(99).String())
}
