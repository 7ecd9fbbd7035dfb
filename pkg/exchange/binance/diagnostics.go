package binance

import (
	"fmt"
	"strings"
)

// FailureClass buckets a known order-failure signature.
type FailureClass string

const (
	// FailureWrongEndpoint means the order hit a base that cannot accept it.
	FailureWrongEndpoint FailureClass = "wrong_endpoint"
	// FailureReduceOnly means the reduce-only flag was misused.
	FailureReduceOnly FailureClass = "reduce_only"
	// FailureSignature means the request failed authentication.
	FailureSignature FailureClass = "signature"
	// FailureUnknown means no known signature matched.
	FailureUnknown FailureClass = "unknown"
)

// Diagnosis is an advisory classification of an order failure. It never
// participates in control flow.
type Diagnosis struct {
	Class       FailureClass
	Symbol      string
	Endpoint    string
	Remediation string
}

// DiagnoseOrderFailure classifies a failure message by substring matching
// and suggests a remediation. Purely observability.
func DiagnoseOrderFailure(errMessage, symbol, endpointUsed string) Diagnosis {
	d := Diagnosis{Class: FailureUnknown, Symbol: symbol, Endpoint: endpointUsed}
	lower := strings.ToLower(errMessage)

	switch {
	case strings.Contains(errMessage, "404"):
		d.Class = FailureWrongEndpoint
		if strings.Contains(endpointUsed, "papi") {
			d.Remediation = "papi.binance.com serves account information only and cannot place or close orders; route orders to fapi.binance.com (futures) or api.binance.com (spot)"
		} else {
			d.Remediation = "order path not found; futures orders use /fapi/v1/order, spot orders use /api/v3/order"
		}
	case strings.Contains(errMessage, "reduceOnly") || strings.Contains(lower, "reduce-only"):
		d.Class = FailureReduceOnly
		d.Remediation = "reduceOnly was rejected: verify a position exists for the symbol and that the flag is serialized as the string \"true\""
	case strings.Contains(lower, "signature") || strings.Contains(lower, "api-key"):
		d.Class = FailureSignature
		d.Remediation = "request failed authentication: check the API key/secret pair and that the local clock is synchronized within the recvWindow"
	}
	return d
}

// String renders the diagnosis as an operator-readable report.
func (d Diagnosis) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "order failure diagnosis: symbol=%s endpoint=%s class=%s", d.Symbol, d.Endpoint, d.Class)
	if d.Remediation != "" {
		fmt.Fprintf(&b, "\n  remediation: %s", d.Remediation)
	}
	return b.String()
}

// EndpointCheatSheet summarizes which base serves what. Advisory text for
// operator logs.
func EndpointCheatSheet() string {
	return strings.TrimSpace(`
spot            api.binance.com    order POST /api/v3/order
futures (USDT)  fapi.binance.com   order POST /fapi/v1/order   close adds reduceOnly=true
futures (coin)  dapi.binance.com   order POST /dapi/v1/order   close adds reduceOnly=true
unified (papi)  papi.binance.com   account/position reads only; POST /papi/v1/order 404s
`)
}
