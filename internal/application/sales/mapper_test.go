package sales_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ventas-api/internal/application/sales"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
)

func TestToSaleResponse_RelacionesAusentesSonNull(t *testing.T) {
	sale := &entity.Sale{
		ID:       3,
		Date:     time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		ClientID: 1,
		Total:    decimal.RequireFromString("300"),
		Items: []entity.SaleItem{
			{ProductID: 10, Amount: 3, Price: decimal.RequireFromString("100")},
		},
	}

	out := sales.ToSaleResponse(sale)
	assert.Equal(t, "2024-01-15", out.Date)
	assert.Equal(t, "300.00", out.Total)
	assert.Nil(t, out.ClientName)
	require.Len(t, out.Items, 1)
	assert.Nil(t, out.Items[0].ProductName)
	assert.Equal(t, "300.00", out.Items[0].Subtotal)

	raw, err := json.Marshal(out)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"client_name":null`)
	assert.Contains(t, string(raw), `"product_name":null`)
	assert.NotContains(t, string(raw), "cancelled_at")
}

func TestToSaleResponse_ConRelaciones(t *testing.T) {
	cancelled := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)
	sale := &entity.Sale{
		ID:        4,
		Date:      time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		ClientID:  1,
		Client:    &entity.Client{ID: 1, Name: "Ana"},
		Total:     decimal.RequireFromString("25"),
		DeletedAt: &cancelled,
		Items: []entity.SaleItem{
			{ProductID: 10, Product: &entity.Product{ID: 10, Name: "Mouse"}, Amount: 2, Price: decimal.RequireFromString("12.5")},
		},
	}

	out := sales.ToSaleResponse(sale)
	require.NotNil(t, out.ClientName)
	assert.Equal(t, "Ana", *out.ClientName)
	require.NotNil(t, out.Items[0].ProductName)
	assert.Equal(t, "Mouse", *out.Items[0].ProductName)
	assert.Equal(t, "12.50", out.Items[0].UnitPrice)
	require.NotNil(t, out.CancelledAt)
	assert.True(t, cancelled.Equal(*out.CancelledAt))
}
