package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts what flows through the engine. Register against any
// prometheus.Registerer; nil uses a throwaway registry so tests and embedded
// uses don't collide on the default one.
type Metrics struct {
	OrdersAccepted  prometheus.Counter
	OrdersRejected  prometheus.Counter
	OrdersCancelled prometheus.Counter
	Trades          prometheus.Counter
	TradedQty       prometheus.Counter
	QueueDepth      prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)
	return &Metrics{
		OrdersAccepted: factory.NewCounter(prometheus.CounterOpts{
			Name: "limitbook_orders_accepted_total",
			Help: "Orders validated and processed by the matching engine.",
		}),
		OrdersRejected: factory.NewCounter(prometheus.CounterOpts{
			Name: "limitbook_orders_rejected_total",
			Help: "Orders refused by validation (bad price/qty, duplicate id).",
		}),
		OrdersCancelled: factory.NewCounter(prometheus.CounterOpts{
			Name: "limitbook_orders_cancelled_total",
			Help: "Resting orders removed by cancellation.",
		}),
		Trades: factory.NewCounter(prometheus.CounterOpts{
			Name: "limitbook_trades_total",
			Help: "Trade events emitted by matching.",
		}),
		TradedQty: factory.NewCounter(prometheus.CounterOpts{
			Name: "limitbook_traded_qty_total",
			Help: "Total quantity exchanged across all trades.",
		}),
		QueueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Name: "limitbook_request_queue_depth",
			Help: "Requests buffered in the ingestion queue.",
		}),
	}
}
