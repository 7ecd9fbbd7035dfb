package binance

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exchangeInfoBTCUSDT = `{
	"symbols": [
		{
			"symbol": "BTCUSDT",
			"filters": [
				{"filterType": "PRICE_FILTER", "tickSize": "0.10"},
				{"filterType": "LOT_SIZE", "stepSize": "0.001", "minQty": "0.001"},
				{"filterType": "MIN_NOTIONAL", "notional": "100"}
			]
		}
	]
}`

func TestGetInstrument(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		require.Equal(t, "/fapi/v1/exchangeInfo", r.URL.Path)
		require.Equal(t, "BTCUSDT", r.URL.Query().Get("symbol"))
		w.Write([]byte(exchangeInfoBTCUSDT))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	inst, err := client.GetInstrument(context.Background(), "BTCUSDT")
	require.NoError(t, err)
	assert.InDelta(t, 0.10, inst.TickSize, 1e-9)
	assert.InDelta(t, 0.001, inst.LotStep, 1e-9)
	assert.InDelta(t, 100.0, inst.MinNotional, 1e-9)

	// second lookup is served from the cache
	_, err = client.GetInstrument(context.Background(), "BTCUSDT")
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestGetInstrumentUnknownSymbol(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"symbols": []}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.GetInstrument(context.Background(), "NOPEUSDT")
	assert.Error(t, err)
}

func TestInstrumentCachePersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ticks.json")

	first := NewInstrumentCache(path)
	first.PutTick("BTCUSDT", 0.10)
	first.PutTick("DOGEUSDT", 0.00001)

	second := NewInstrumentCache(path)
	tick, ok := second.TickSize("BTCUSDT")
	require.True(t, ok)
	assert.InDelta(t, 0.10, tick, 1e-9)
	tick, ok = second.TickSize("DOGEUSDT")
	require.True(t, ok)
	assert.InDelta(t, 0.00001, tick, 1e-9)
}

func TestInstrumentCacheIgnoresCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ticks.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	cache := NewInstrumentCache(path)
	_, ok := cache.TickSize("BTCUSDT")
	assert.False(t, ok)
}

func TestRoundPrice(t *testing.T) {
	t.Run("uses_cached_tick", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request expected when the tick is cached")
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		client.Instruments().PutTick("BTCUSDT", 0.10)
		assert.InDelta(t, 67890.10, client.RoundPrice(context.Background(), "BTCUSDT", 67890.17), 1e-9)
	})

	t.Run("fetches_then_rounds", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(exchangeInfoBTCUSDT))
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		assert.InDelta(t, 67890.10, client.RoundPrice(context.Background(), "BTCUSDT", 67890.17), 1e-9)
	})

	t.Run("decimal_fallback_on_fetch_failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"code":-1001,"msg":"Internal error"}`))
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		// double-digit magnitude rounds to 3 decimals
		assert.InDelta(t, 67.891, client.RoundPrice(context.Background(), "ETHUSDT", 67.89123), 1e-9)
	})
}

func TestBaseAsset(t *testing.T) {
	assert.Equal(t, "BTC", BaseAsset("BTCUSDT"))
	assert.Equal(t, "ETH", BaseAsset("ethfdusd"))
	assert.Equal(t, "SOL", BaseAsset("SOLUSDC"))
	assert.Equal(t, "USDT", BaseAsset("USDT"))
}
