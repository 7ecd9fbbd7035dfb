package executor

import (
	"github.com/prometheus/client_golang/prometheus"

	"futgate/pkg/exchange"
)

var (
	ordersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "futgate_orders_total",
			Help: "Entry orders placed or previewed",
		},
		[]string{"mode", "side"}, // mode: live|dry_run
	)

	blockedOrdersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "futgate_blocked_orders_total",
			Help: "Entries rejected before submission",
		},
		[]string{"reason"}, // no_margin|reversal|zero_quantity
	)

	protectiveOrdersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "futgate_protective_orders_total",
			Help: "Protective conditional orders attached",
		},
		[]string{"strategy"}, // STOP|TAKE_PROFIT
	)

	closesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "futgate_closes_total",
			Help: "Safe-close outcomes",
		},
		[]string{"status"},
	)
)

func init() {
	prometheus.MustRegister(ordersTotal, blockedOrdersTotal, protectiveOrdersTotal, closesTotal)
}

// ObserveClose records a close outcome. Exposed so callers driving the
// closer directly keep the close metrics consistent.
func ObserveClose(res *exchange.CloseResult) {
	if res == nil {
		return
	}
	closesTotal.WithLabelValues(string(res.Status)).Inc()
}
