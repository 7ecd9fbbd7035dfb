package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"futgate/pkg/exchange"
)

const (
	testnetFuturesBaseURL = "https://testnet.binancefuture.com"
	testnetSpotBaseURL    = "https://testnet.binance.vision"

	defaultHTTPTimeout = 30 * time.Second
	defaultRecvWindow  = 5000
)

// Client coordinates signed requests against the Binance REST surfaces.
// One client spans all four bases; the endpoint router decides which base a
// given call is allowed to hit.
type Client struct {
	apiKey     string
	apiSecret  string
	httpClient *http.Client
	logger     *log.Logger
	clock      func() time.Time
	recvWindow int64
	isTestnet  bool

	bases map[Endpoint]string

	instruments *InstrumentCache
}

// ClientOption customises the Binance client.
type ClientOption func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithLogger attaches a custom logger (defaults to log.Default()).
func WithLogger(logger *log.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock overrides the time source (primarily for testing).
func WithClock(clock func() time.Time) ClientOption {
	return func(c *Client) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithRecvWindow sets the signed-request receive window in milliseconds.
func WithRecvWindow(ms int64) ClientOption {
	return func(c *Client) {
		if ms > 0 {
			c.recvWindow = ms
		}
	}
}

// WithBaseURL overrides the base URL for one endpoint (primarily for testing
// against httptest servers).
func WithBaseURL(endpoint Endpoint, base string) ClientOption {
	return func(c *Client) {
		if base != "" {
			c.bases[endpoint] = base
		}
	}
}

// WithInstrumentCache injects a pre-built instrument cache, letting tests
// start from a populated or empty cache deterministically.
func WithInstrumentCache(cache *InstrumentCache) ClientOption {
	return func(c *Client) {
		if cache != nil {
			c.instruments = cache
		}
	}
}

// NewClient constructs a Binance trading client.
func NewClient(apiKey, apiSecret string, isTestnet bool, opts ...ClientOption) (*Client, error) {
	if apiKey == "" || apiSecret == "" {
		return nil, fmt.Errorf("binance: api key and secret are required")
	}

	client := &Client{
		apiKey:     apiKey,
		apiSecret:  apiSecret,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		logger:     log.Default(),
		clock:      time.Now,
		recvWindow: defaultRecvWindow,
		isTestnet:  isTestnet,
		bases: map[Endpoint]string{
			EndpointSpot:            EndpointSpot.BaseURL(),
			EndpointFuturesUSDT:     EndpointFuturesUSDT.BaseURL(),
			EndpointFuturesCoin:     EndpointFuturesCoin.BaseURL(),
			EndpointPortfolioMargin: EndpointPortfolioMargin.BaseURL(),
		},
	}
	if isTestnet {
		// The portfolio-margin surface has no public testnet; reads against
		// it stay on production.
		client.bases[EndpointSpot] = testnetSpotBaseURL
		client.bases[EndpointFuturesUSDT] = testnetFuturesBaseURL
		client.bases[EndpointFuturesCoin] = testnetFuturesBaseURL
	}
	for _, opt := range opts {
		opt(client)
	}
	if c := client.httpClient; c == nil {
		client.httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	if client.logger == nil {
		client.logger = log.Default()
	}
	if client.clock == nil {
		client.clock = time.Now
	}
	if client.instruments == nil {
		client.instruments = NewInstrumentCache(DefaultTickCachePath)
	}
	return client, nil
}

func init() {
	exchange.RegisterProvider("binance", func(name string, cfg *exchange.ProviderConfig) (exchange.Provider, error) {
		opts := []ClientOption{}
		if cfg.Timeout > 0 {
			opts = append(opts, WithHTTPClient(&http.Client{Timeout: cfg.Timeout}))
		}
		if cfg.TickCachePath != "" {
			opts = append(opts, WithInstrumentCache(NewInstrumentCache(cfg.TickCachePath)))
		}
		return NewClient(cfg.APIKey, cfg.APISecret, cfg.Testnet, opts...)
	})
}

// Instruments exposes the instrument metadata cache.
func (c *Client) Instruments() *InstrumentCache { return c.instruments }

// APIError is a non-2xx response from the exchange. The raw body is kept so
// diagnostics can classify the failure signature.
type APIError struct {
	HTTPStatus int
	Code       int
	Message    string
	Body       string
	Endpoint   Endpoint
	Path       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("binance: %s %s http status %d: %s", e.Endpoint, e.Path, e.HTTPStatus, e.Body)
}

// doRequest issues a request against the given endpoint and decodes the
// response into result when non-nil. Signed requests get timestamp,
// recvWindow and an HMAC signature appended.
func (c *Client) doRequest(ctx context.Context, method string, endpoint Endpoint, path string, params url.Values, signed bool, result interface{}) error {
	if params == nil {
		params = url.Values{}
	}
	reqURL := c.bases[endpoint] + path
	if signed {
		params.Set("timestamp", fmt.Sprintf("%d", c.clock().UnixMilli()))
		params.Set("recvWindow", fmt.Sprintf("%d", c.recvWindow))
		// The signature covers the encoded payload exactly as transmitted
		// and must terminate the query string.
		encoded := params.Encode()
		reqURL += "?" + encoded + "&signature=" + signPayload(c.apiSecret, encoded)
	} else if encoded := params.Encode(); encoded != "" {
		reqURL += "?" + encoded
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, reqURL, nil)
	if err != nil {
		return fmt.Errorf("binance: build request: %w", err)
	}
	if signed {
		httpReq.Header.Set("X-MBX-APIKEY", c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return fmt.Errorf("binance: read response: %w", readErr)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= 300 {
		apiErr := &APIError{
			HTTPStatus: resp.StatusCode,
			Body:       string(body),
			Endpoint:   endpoint,
			Path:       path,
		}
		var wire struct {
			Code int    `json:"code"`
			Msg  string `json:"msg"`
		}
		if json.Unmarshal(body, &wire) == nil {
			apiErr.Code = wire.Code
			apiErr.Message = wire.Msg
		}
		return apiErr
	}
	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("binance: decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) logf(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Printf(format, args...)
	}
}
