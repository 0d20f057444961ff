package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSalesMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewSalesMetrics(reg)

	m.SaleCreated(decimal.RequireFromString("200.00"), 1)
	m.SaleCreated(decimal.RequireFromString("50.50"), 3)
	m.SaleCancelled()
	m.SaleRejected("insufficient_stock")
	m.SaleRejected("insufficient_stock")
	m.SaleRejected("not_found")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.created))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cancelled))
	assert.InDelta(t, 250.5, testutil.ToFloat64(m.revenue), 0.0001)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.rejected.WithLabelValues("insufficient_stock")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rejected.WithLabelValues("not_found")))

	n, err := testutil.GatherAndCount(reg, "ventas_sale_items")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestNewSalesMetrics_DoubleRegisterPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewSalesMetrics(reg)
	assert.Panics(t, func() { NewSalesMetrics(reg) })
}
