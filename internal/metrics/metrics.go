// Package metrics exposes the store's Prometheus collector.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

const metricsNamespace = "retail"

// Collector is a prometheus.Collector for stock and sales activity.
type Collector struct {
	stockMovements  *prometheus.CounterVec
	stockUnits      *prometheus.CounterVec
	stockRejections *prometheus.CounterVec
	saleItems       prometheus.Counter
	salesCreated    prometheus.Counter
	revenue         prometheus.Counter
}

// NewCollector returns a new Collector.
func NewCollector() *Collector {
	return &Collector{
		stockMovements: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "stock_movements_total",
				Help:      "The number of stock movements recorded.",
			}, []string{"direction"},
		),
		stockUnits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "stock_units_total",
				Help:      "The number of units moved in or out of stock.",
			}, []string{"direction"},
		),
		stockRejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "stock_rejections_total",
				Help:      "The number of outbound operations rejected for insufficient stock.",
			}, []string{"operation"},
		),
		saleItems: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "sale_items_total",
				Help:      "The number of sale items added.",
			},
		),
		salesCreated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "sales_total",
				Help:      "The number of sales opened.",
			},
		),
		revenue: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "revenue_total",
				Help:      "The sum of sale item line totals.",
			},
		),
	}
}

// Describe is part of the prometheus.Collector interface.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.stockMovements.Describe(ch)
	c.stockUnits.Describe(ch)
	c.stockRejections.Describe(ch)
	c.saleItems.Describe(ch)
	c.salesCreated.Describe(ch)
	c.revenue.Describe(ch)
}

// Collect is part of the prometheus.Collector interface.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.stockMovements.Collect(ch)
	c.stockUnits.Collect(ch)
	c.stockRejections.Collect(ch)
	c.saleItems.Collect(ch)
	c.salesCreated.Collect(ch)
	c.revenue.Collect(ch)
}

// StockMoved records a committed movement.
func (c *Collector) StockMoved(direction string, quantity int) {
	c.stockMovements.WithLabelValues(direction).Inc()
	c.stockUnits.WithLabelValues(direction).Add(float64(quantity))
}

// StockRejected records an outbound operation refused for lack of stock.
func (c *Collector) StockRejected(operation string) {
	c.stockRejections.WithLabelValues(operation).Inc()
}

// SaleCreated records a new sale.
func (c *Collector) SaleCreated() {
	c.salesCreated.Inc()
}

// ItemSold records a committed sale item and its line total.
func (c *Collector) ItemSold(lineTotal decimal.Decimal) {
	c.saleItems.Inc()
	c.revenue.Add(lineTotal.InexactFloat64())
}
