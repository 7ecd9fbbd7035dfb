package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"futgate/pkg/exchange"
)

type orderAckResponse struct {
	OrderID       int64  `json:"orderId"`
	StrategyID    int64  `json:"strategyId"`
	ClientOrderID string `json:"clientOrderId"`
	Symbol        string `json:"symbol"`
	Status        string `json:"status"`
	StrategyStat  string `json:"strategyStatus"`
}

// PlaceMarketOrder submits a market order. The target endpoint is resolved
// by the router and re-validated here: an order-incapable base aborts before
// anything is sent.
func (c *Client) PlaceMarketOrder(ctx context.Context, req exchange.MarketOrderRequest) (*exchange.OrderAck, error) {
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("%w: %s qty %v", ErrInvalidQuantity, req.Symbol, req.Quantity)
	}

	endpoint := EndpointForOrder(req.Symbol, false)
	if !endpoint.OrderCapable() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedEndpoint, endpoint)
	}
	path, err := endpoint.OrderPath()
	if err != nil {
		return nil, err
	}

	clientID := req.ClientOrderID
	if clientID == "" {
		clientID = newClientOrderID()
	}

	params := url.Values{}
	params.Set("symbol", req.Symbol)
	params.Set("side", string(req.Side))
	params.Set("type", "MARKET")
	params.Set("quantity", formatFloat(req.Quantity))
	params.Set("newClientOrderId", clientID)
	if req.ReduceOnly {
		params.Set("reduceOnly", "true")
	}

	var resp orderAckResponse
	if err := c.doRequest(ctx, "POST", endpoint, path, params, true, &resp); err != nil {
		return nil, err
	}
	return ackFromResponse(resp), nil
}

// PlaceSpotMarketOrder submits a spot market sell/buy (used by the spot
// close path).
func (c *Client) PlaceSpotMarketOrder(ctx context.Context, req exchange.MarketOrderRequest) (*exchange.OrderAck, error) {
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("%w: %s qty %v", ErrInvalidQuantity, req.Symbol, req.Quantity)
	}
	endpoint := EndpointForOrder(req.Symbol, true)
	path, err := endpoint.OrderPath()
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("symbol", req.Symbol)
	params.Set("side", string(req.Side))
	params.Set("type", "MARKET")
	params.Set("quantity", formatFloat(req.Quantity))

	var resp orderAckResponse
	if err := c.doRequest(ctx, "POST", endpoint, path, params, true, &resp); err != nil {
		return nil, err
	}
	return ackFromResponse(resp), nil
}

// PlaceConditionalOrder submits a protective STOP or TAKE_PROFIT conditional
// order. Conditional orders ride the unified-account conditional surface,
// which is distinct from the plain order surface the capability guard covers.
func (c *Client) PlaceConditionalOrder(ctx context.Context, ord exchange.ProtectiveOrder) (*exchange.OrderAck, error) {
	if ord.Quantity <= 0 {
		return nil, fmt.Errorf("%w: %s qty %v", ErrInvalidQuantity, ord.Symbol, ord.Quantity)
	}
	if ord.TriggerPrice <= 0 {
		return nil, fmt.Errorf("binance: conditional order for %s has non-positive trigger price", ord.Symbol)
	}

	trigger := formatFloat(ord.TriggerPrice)
	params := url.Values{}
	params.Set("symbol", ord.Symbol)
	params.Set("side", string(ord.Side))
	params.Set("strategyType", string(ord.Strategy))
	params.Set("stopPrice", trigger)
	params.Set("price", trigger)
	params.Set("quantity", formatFloat(ord.Quantity))
	params.Set("workingType", "MARK_PRICE")
	params.Set("timeInForce", "GTC")
	if ord.ClosePosition {
		params.Set("closePosition", "true")
	}
	params.Set("newClientStrategyId", newClientOrderID())

	var resp orderAckResponse
	if err := c.doRequest(ctx, "POST", EndpointPortfolioMargin, "/papi/v1/um/conditional/order", params, true, &resp); err != nil {
		return nil, err
	}
	ack := ackFromResponse(resp)
	if ack.OrderID == 0 {
		ack.OrderID = resp.StrategyID
	}
	if ack.Status == "" {
		ack.Status = resp.StrategyStat
	}
	return ack, nil
}

// CancelAllOrders cancels all resting orders for a symbol.
func (c *Client) CancelAllOrders(ctx context.Context, symbol string) error {
	params := url.Values{}
	params.Set("symbol", symbol)
	return c.doRequest(ctx, "DELETE", EndpointFuturesUSDT, "/fapi/v1/allOpenOrders", params, true, nil)
}

// CancelAllConditionalOrders cancels all open conditional orders for a
// symbol. These are tracked separately from resting orders and are not
// removed by CancelAllOrders.
func (c *Client) CancelAllConditionalOrders(ctx context.Context, symbol string) error {
	params := url.Values{}
	params.Set("symbol", symbol)
	return c.doRequest(ctx, "DELETE", EndpointPortfolioMargin, "/papi/v1/um/conditional/allOpenOrders", params, true, nil)
}

// ChangeLeverage adjusts the leverage multiplier for a symbol.
func (c *Client) ChangeLeverage(ctx context.Context, symbol string, leverage int) error {
	if leverage <= 0 {
		return fmt.Errorf("binance: leverage must be positive")
	}
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("leverage", strconv.Itoa(leverage))
	return c.doRequest(ctx, "POST", EndpointPortfolioMargin, "/papi/v1/um/leverage", params, true, nil)
}

func ackFromResponse(resp orderAckResponse) *exchange.OrderAck {
	raw, _ := json.Marshal(resp)
	return &exchange.OrderAck{
		OrderID:       resp.OrderID,
		ClientOrderID: resp.ClientOrderID,
		Symbol:        resp.Symbol,
		Status:        resp.Status,
		Raw:           raw,
	}
}

func newClientOrderID() string {
	return "fg-" + uuid.NewString()
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
