package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"futgate/pkg/exchange"
)

// DefaultTickCachePath is where discovered tick sizes are persisted when the
// caller does not configure a path.
const DefaultTickCachePath = "data/tick_size_cache.json"

// InstrumentCache holds instrument metadata keyed by symbol. Tick sizes are
// persisted to a JSON key-value file so restarts skip the metadata lookup;
// the file is an optimization only, since the decimal fallback always
// produces a usable rounding. Safe for concurrent use.
type InstrumentCache struct {
	mu          sync.RWMutex
	path        string
	ticks       map[string]float64
	instruments map[string]exchange.Instrument
}

// NewInstrumentCache constructs a cache backed by the given file path.
// A missing or corrupt file is not fatal; the cache starts empty.
func NewInstrumentCache(path string) *InstrumentCache {
	if path == "" {
		path = DefaultTickCachePath
	}
	cache := &InstrumentCache{
		path:        path,
		ticks:       make(map[string]float64),
		instruments: make(map[string]exchange.Instrument),
	}
	cache.load()
	return cache
}

func (ic *InstrumentCache) load() {
	data, err := os.ReadFile(ic.path)
	if err != nil {
		return
	}
	var stored map[string]float64
	if err := json.Unmarshal(data, &stored); err != nil {
		return
	}
	ic.mu.Lock()
	defer ic.mu.Unlock()
	for symbol, tick := range stored {
		if tick > 0 {
			ic.ticks[symbol] = tick
		}
	}
}

// save rewrites the persisted tick map. Last writer wins; failures are
// ignored because the cache is not a correctness dependency.
func (ic *InstrumentCache) save() {
	ic.mu.RLock()
	data, err := json.MarshalIndent(ic.ticks, "", "  ")
	ic.mu.RUnlock()
	if err != nil {
		return
	}
	if dir := filepath.Dir(ic.path); dir != "." {
		_ = os.MkdirAll(dir, 0o755)
	}
	_ = os.WriteFile(ic.path, data, 0o644)
}

// TickSize returns the cached tick size for a symbol.
func (ic *InstrumentCache) TickSize(symbol string) (float64, bool) {
	ic.mu.RLock()
	defer ic.mu.RUnlock()
	tick, ok := ic.ticks[symbol]
	return tick, ok
}

// Instrument returns the cached full instrument record for a symbol.
func (ic *InstrumentCache) Instrument(symbol string) (exchange.Instrument, bool) {
	ic.mu.RLock()
	defer ic.mu.RUnlock()
	inst, ok := ic.instruments[symbol]
	return inst, ok
}

// Put stores an instrument record and persists its tick size.
func (ic *InstrumentCache) Put(inst exchange.Instrument) {
	ic.mu.Lock()
	ic.instruments[inst.Symbol] = inst
	if inst.TickSize > 0 {
		ic.ticks[inst.Symbol] = inst.TickSize
	}
	ic.mu.Unlock()
	if inst.TickSize > 0 {
		ic.save()
	}
}

// PutTick stores a bare tick size (used when only price rounding is needed).
func (ic *InstrumentCache) PutTick(symbol string, tick float64) {
	if tick <= 0 {
		return
	}
	ic.mu.Lock()
	ic.ticks[symbol] = tick
	ic.mu.Unlock()
	ic.save()
}

type exchangeInfoResponse struct {
	Symbols []struct {
		Symbol  string `json:"symbol"`
		Filters []struct {
			FilterType string `json:"filterType"`
			TickSize   string `json:"tickSize"`
			StepSize   string `json:"stepSize"`
			Notional   string `json:"notional"`
			MinQty     string `json:"minQty"`
		} `json:"filters"`
	} `json:"symbols"`
}

// GetInstrument returns instrument metadata for a symbol, fetching and
// caching it on first use. Entries live for the process lifetime.
func (c *Client) GetInstrument(ctx context.Context, symbol string) (*exchange.Instrument, error) {
	if inst, ok := c.instruments.Instrument(symbol); ok {
		return &inst, nil
	}

	params := url.Values{}
	params.Set("symbol", symbol)
	var resp exchangeInfoResponse
	if err := c.doRequest(ctx, "GET", EndpointFuturesUSDT, "/fapi/v1/exchangeInfo", params, false, &resp); err != nil {
		return nil, err
	}
	if len(resp.Symbols) == 0 {
		return nil, fmt.Errorf("binance: no exchange info for %s", symbol)
	}

	inst := exchange.Instrument{Symbol: symbol}
	for _, filter := range resp.Symbols[0].Filters {
		switch filter.FilterType {
		case "PRICE_FILTER":
			inst.TickSize = parseFloat(filter.TickSize)
		case "LOT_SIZE":
			inst.LotStep = parseFloat(filter.StepSize)
		case "MIN_NOTIONAL":
			inst.MinNotional = parseFloat(filter.Notional)
		}
	}
	c.instruments.Put(inst)
	return &inst, nil
}

// RoundPrice rounds a price down toward the symbol's tick size. When the
// tick size cannot be resolved it degrades to a fixed decimal-place table
// keyed by price magnitude.
func (c *Client) RoundPrice(ctx context.Context, symbol string, price float64) float64 {
	if tick, ok := c.instruments.TickSize(symbol); ok {
		return exchange.RoundToTick(price, tick)
	}
	if inst, err := c.GetInstrument(ctx, symbol); err == nil && inst.TickSize > 0 {
		return exchange.RoundToTick(price, inst.TickSize)
	}
	c.logf("binance: tick size unknown for %s, using decimal fallback", symbol)
	return exchange.RoundPriceFallback(price)
}

// FloorToStep floors a quantity to a multiple of the lot step.
func FloorToStep(qty, step float64) float64 {
	return exchange.FloorToStep(qty, step)
}

// BaseAsset strips the quote suffix from a symbol for spot balance lookups.
func BaseAsset(symbol string) string {
	upper := strings.ToUpper(symbol)
	for _, quote := range []string{"USDT", "FDUSD", "BUSD", "USDC"} {
		if strings.HasSuffix(upper, quote) && len(upper) > len(quote) {
			return strings.TrimSuffix(upper, quote)
		}
	}
	return upper
}
