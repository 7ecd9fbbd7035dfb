package binance

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"futgate/pkg/exchange"
)

func TestGetPosition(t *testing.T) {
	t.Run("long", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/papi/v1/um/positionRisk", r.URL.Path)
			w.Write([]byte(`[{"symbol": "BTCUSDT", "positionAmt": "0.5", "entryPrice": "67000.0", "leverage": "10"}]`))
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		pos, err := client.GetPosition(context.Background(), "BTCUSDT")
		require.NoError(t, err)
		assert.InDelta(t, 0.5, pos.Quantity, 1e-9)
		assert.InDelta(t, 67000.0, pos.EntryPrice, 1e-9)
		assert.Equal(t, exchange.PositionLong, pos.Side)
		assert.Equal(t, 10, pos.Leverage)
		assert.False(t, pos.Flat())
	})

	t.Run("short", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[{"symbol": "ETHUSDT", "positionAmt": "-2.0", "entryPrice": "3200.0", "leverage": "5"}]`))
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		pos, err := client.GetPosition(context.Background(), "ETHUSDT")
		require.NoError(t, err)
		assert.InDelta(t, -2.0, pos.Quantity, 1e-9)
		assert.Equal(t, exchange.PositionShort, pos.Side)
	})

	t.Run("flat_is_not_an_error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[{"symbol": "BTCUSDT", "positionAmt": "0", "entryPrice": "0", "leverage": "10"}]`))
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		pos, err := client.GetPosition(context.Background(), "BTCUSDT")
		require.NoError(t, err)
		assert.True(t, pos.Flat())
	})

	t.Run("empty_response_is_flat", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[]`))
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		pos, err := client.GetPosition(context.Background(), "BTCUSDT")
		require.NoError(t, err)
		assert.True(t, pos.Flat())
	})
}
