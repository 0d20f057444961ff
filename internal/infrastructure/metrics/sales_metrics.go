// Package metrics expone contadores Prometheus del motor de ventas.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ventas-api/internal/application/sales"
)

var _ sales.Metrics = (*SalesMetrics)(nil)

// SalesMetrics implementa sales.Metrics sobre un registro Prometheus propio.
type SalesMetrics struct {
	created      prometheus.Counter
	cancelled    prometheus.Counter
	rejected     *prometheus.CounterVec
	revenue      prometheus.Counter
	itemsPerSale prometheus.Histogram
}

// NewSalesMetrics registra los contadores en reg (usar prometheus.NewRegistry() en tests).
func NewSalesMetrics(reg prometheus.Registerer) *SalesMetrics {
	m := &SalesMetrics{
		created: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ventas",
			Name:      "sales_created_total",
			Help:      "Ventas registradas.",
		}),
		cancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ventas",
			Name:      "sales_cancelled_total",
			Help:      "Ventas canceladas.",
		}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ventas",
			Name:      "sales_rejected_total",
			Help:      "Intentos de venta rechazados por motivo.",
		}, []string{"reason"}),
		revenue: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ventas",
			Name:      "sales_revenue_total",
			Help:      "Suma de totales de ventas registradas.",
		}),
		itemsPerSale: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ventas",
			Name:      "sale_items",
			Help:      "Ítems por venta.",
			Buckets:   []float64{1, 2, 3, 5, 10, 20, 50},
		}),
	}
	reg.MustRegister(m.created, m.cancelled, m.rejected, m.revenue, m.itemsPerSale)
	return m
}

func (m *SalesMetrics) SaleCreated(total decimal.Decimal, items int) {
	m.created.Inc()
	m.revenue.Add(total.InexactFloat64())
	m.itemsPerSale.Observe(float64(items))
}

func (m *SalesMetrics) SaleCancelled() {
	m.cancelled.Inc()
}

func (m *SalesMetrics) SaleRejected(reason string) {
	m.rejected.WithLabelValues(reason).Inc()
}
