package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/domain"
)

func TestPageQuery_Normalize_Defaults(t *testing.T) {
	q, err := dto.PageQuery{}.Normalize(10)
	require.NoError(t, err)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 10, q.Limit)
	assert.Equal(t, 0, q.Offset())
}

func TestPageQuery_Normalize_FueraDeRango(t *testing.T) {
	_, err := dto.PageQuery{Page: 1, Limit: 11}.Normalize(10)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = dto.PageQuery{Page: -1, Limit: 5}.Normalize(10)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNewPageMeta_UltimaPagina(t *testing.T) {
	q := dto.PageQuery{Page: 2, Limit: 10}
	assert.Equal(t, 10, q.Offset())
	assert.Equal(t, 3, dto.NewPageMeta(q, 21).LastPage)
	assert.Equal(t, 1, dto.NewPageMeta(q, 0).LastPage)
}

func TestValidate_CreateSaleRequest(t *testing.T) {
	ok := dto.CreateSaleRequest{ClientID: 1, Items: []dto.SaleItemRequest{{ProductID: 10, Amount: 1}}}
	assert.NoError(t, dto.Validate(ok))

	sinItems := dto.CreateSaleRequest{ClientID: 1}
	assert.ErrorIs(t, dto.Validate(sinItems), domain.ErrInvalidInput)

	cantidadCero := dto.CreateSaleRequest{ClientID: 1, Items: []dto.SaleItemRequest{{ProductID: 10, Amount: 0}}}
	err := dto.Validate(cantidadCero)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "amount")
}

func TestValidate_UpdateSaleRequest_Fecha(t *testing.T) {
	bad := "15/01/2024"
	assert.ErrorIs(t, dto.Validate(dto.UpdateSaleRequest{Date: &bad}), domain.ErrInvalidInput)

	good := "2024-01-15"
	assert.NoError(t, dto.Validate(dto.UpdateSaleRequest{Date: &good}))
	assert.NoError(t, dto.Validate(dto.UpdateSaleRequest{}))
}
