package sales_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/application/sales"
	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
	"github.com/jhoicas/ventas-api/internal/infrastructure/memory"
)

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

type fixture struct {
	store *memory.Store
	uc    *sales.SaleUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	uc := sales.NewSaleUseCase(store, store.Sales(), nil, nil, zerolog.Nop())
	return &fixture{store: store, uc: uc}
}

func (f *fixture) client(t *testing.T, name string) int64 {
	t.Helper()
	c := &entity.Client{Name: name, Email: name + "@mail.com", TaxID: name}
	require.NoError(t, f.store.Clients().Create(context.Background(), c))
	return c.ID
}

func (f *fixture) product(t *testing.T, name, price string, stock int) int64 {
	t.Helper()
	p := &entity.Product{Name: name, Price: decimal.RequireFromString(price), Stock: stock}
	require.NoError(t, f.store.Products().Create(context.Background(), p))
	return p.ID
}

func (f *fixture) stock(t *testing.T, id int64) int {
	t.Helper()
	locked, err := f.store.Products().LockForUpdate(context.Background(), []int64{id}, true)
	require.NoError(t, err)
	require.Contains(t, locked, id)
	return locked[id].Stock
}

func saleReq(clientID int64, items ...dto.SaleItemRequest) dto.CreateSaleRequest {
	return dto.CreateSaleRequest{ClientID: clientID, Items: items}
}

func item(productID int64, amount int) dto.SaleItemRequest {
	return dto.SaleItemRequest{ProductID: productID, Amount: amount}
}

type metricsMock struct{ mock.Mock }

func (m *metricsMock) SaleCreated(total decimal.Decimal, items int) {
	m.Called(total.StringFixed(2), items)
}
func (m *metricsMock) SaleCancelled()             { m.Called() }
func (m *metricsMock) SaleRejected(reason string) { m.Called(reason) }

// failingRunner simula una transacción que no puede iniciarse.
type failingRunner struct{}

func (failingRunner) RunSales(context.Context, func(
	repository.ProductRepository,
	repository.ClientRepository,
	repository.SaleRepository,
) error) error {
	return fmt.Errorf("%w: begin transaction: %w", domain.ErrTransactionFailure, errors.New("conexión rechazada"))
}

// hidingRunner ejecuta sobre el store real pero LockForUpdate no devuelve el producto hidden,
// como si la fila hubiera desaparecido.
type hidingRunner struct {
	store  *memory.Store
	hidden int64
}

type hidingProducts struct {
	repository.ProductRepository
	hidden int64
}

func (h hidingProducts) LockForUpdate(ctx context.Context, ids []int64, includeDeleted bool) (map[int64]*entity.Product, error) {
	locked, err := h.ProductRepository.LockForUpdate(ctx, ids, includeDeleted)
	if err != nil {
		return nil, err
	}
	delete(locked, h.hidden)
	return locked, nil
}

func (r hidingRunner) RunSales(ctx context.Context, fn func(
	repository.ProductRepository,
	repository.ClientRepository,
	repository.SaleRepository,
) error) error {
	return r.store.RunSales(ctx, func(p repository.ProductRepository, c repository.ClientRepository, s repository.SaleRepository) error {
		return fn(hidingProducts{ProductRepository: p, hidden: r.hidden}, c, s)
	})
}

// ─────────────────────────────────────────────────────────────────────────────
// CreateSale
// ─────────────────────────────────────────────────────────────────────────────

func TestCreateSale_EjemploCompleto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	clientID := f.client(t, "ana")
	productID := f.product(t, "Teclado", "100.00", 5)

	out, err := f.uc.CreateSale(ctx, saleReq(clientID, item(productID, 3)))
	require.NoError(t, err)
	assert.Equal(t, "300.00", out.Total)
	require.NotNil(t, out.ClientName)
	assert.Equal(t, "ana", *out.ClientName)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "100.00", out.Items[0].UnitPrice)
	assert.Equal(t, "300.00", out.Items[0].Subtotal)
	require.NotNil(t, out.Items[0].ProductName)
	assert.Equal(t, "Teclado", *out.Items[0].ProductName)
	assert.Equal(t, 2, f.stock(t, productID))

	_, err = f.uc.CreateSale(ctx, saleReq(clientID, item(productID, 3)))
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Teclado", stockErr.ProductName)
	assert.Equal(t, 2, stockErr.Available)
	assert.Equal(t, 3, stockErr.Requested)
	assert.Equal(t, 2, f.stock(t, productID))

	msg, err := f.uc.CancelSale(ctx, out.ID)
	require.NoError(t, err)
	assert.Contains(t, msg.Message, "cancelada")
	assert.Equal(t, 5, f.stock(t, productID))
}

func TestCreateSale_FechaEsElDiaUTC(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	clientID := f.client(t, "ana")
	productID := f.product(t, "A", "1.00", 5)

	// 23:30 del 1 de marzo en UTC-5 ya es 2 de marzo en UTC.
	f.uc.SetClock(func() time.Time {
		return time.Date(2024, 3, 1, 23, 30, 0, 0, time.FixedZone("UTC-5", -5*60*60))
	})
	out, err := f.uc.CreateSale(ctx, saleReq(clientID, item(productID, 1)))
	require.NoError(t, err)
	assert.Equal(t, "2024-03-02", out.Date)
}

func TestCreateSale_ProductoRepetidoVeStockReducido(t *testing.T) {
	f := newFixture(t)
	clientID := f.client(t, "ana")
	productID := f.product(t, "Teclado", "10.00", 5)

	_, err := f.uc.CreateSale(context.Background(), saleReq(clientID, item(productID, 3), item(productID, 3)))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 5, f.stock(t, productID))

	out, err := f.uc.CreateSale(context.Background(), saleReq(clientID, item(productID, 3), item(productID, 2)))
	require.NoError(t, err)
	assert.Len(t, out.Items, 2)
	assert.Equal(t, "50.00", out.Total)
	assert.Equal(t, 0, f.stock(t, productID))
}

func TestCreateSale_SinSobreventaNoTocaNingunProducto(t *testing.T) {
	f := newFixture(t)
	clientID := f.client(t, "ana")
	a := f.product(t, "A", "1.00", 10)
	b := f.product(t, "B", "1.00", 1)

	_, err := f.uc.CreateSale(context.Background(), saleReq(clientID, item(a, 4), item(b, 2)))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 10, f.stock(t, a))
	assert.Equal(t, 1, f.stock(t, b))

	list, err := f.uc.ListSales(context.Background(), dto.SaleListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 0, list.Meta.Total)
}

func TestCreateSale_ClienteInexistente(t *testing.T) {
	f := newFixture(t)
	productID := f.product(t, "A", "1.00", 10)

	_, err := f.uc.CreateSale(context.Background(), saleReq(99, item(productID, 1)))
	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, domain.EntityClient, nf.Entity)
	assert.Equal(t, 10, f.stock(t, productID))
}

func TestCreateSale_ProductoInexistenteOBorrado(t *testing.T) {
	f := newFixture(t)
	clientID := f.client(t, "ana")
	a := f.product(t, "A", "1.00", 10)
	b := f.product(t, "B", "1.00", 10)
	_, err := f.store.Products().SoftDelete(context.Background(), b, time.Now())
	require.NoError(t, err)

	_, err = f.uc.CreateSale(context.Background(), saleReq(clientID, item(a, 1), item(99, 1)))
	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, domain.EntityProduct, nf.Entity)
	assert.Equal(t, int64(99), nf.ID)

	_, err = f.uc.CreateSale(context.Background(), saleReq(clientID, item(b, 1)))
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 10, f.stock(t, a))
}

func TestCreateSale_EntradaInvalida(t *testing.T) {
	f := newFixture(t)
	clientID := f.client(t, "ana")
	productID := f.product(t, "A", "1.00", 10)

	cases := map[string]dto.CreateSaleRequest{
		"sin items":         saleReq(clientID),
		"cantidad cero":     saleReq(clientID, item(productID, 0)),
		"cliente cero":      saleReq(0, item(productID, 1)),
		"producto cero":     saleReq(clientID, item(0, 1)),
		"cantidad negativa": saleReq(clientID, item(productID, -1)),
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.uc.CreateSale(context.Background(), req)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Equal(t, 10, f.stock(t, productID))
}

func TestCreateSale_TotalUsaPrecioCongelado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	clientID := f.client(t, "ana")
	productID := f.product(t, "A", "12.50", 10)

	out, err := f.uc.CreateSale(ctx, saleReq(clientID, item(productID, 2)))
	require.NoError(t, err)

	p, err := f.store.Products().GetByID(ctx, productID)
	require.NoError(t, err)
	p.Price = decimal.RequireFromString("99.99")
	require.NoError(t, f.store.Products().Update(ctx, p))

	got, err := f.uc.GetSale(ctx, out.ID, false)
	require.NoError(t, err)
	assert.Equal(t, "25.00", got.Total)
	assert.Equal(t, "12.50", got.Items[0].UnitPrice)
	assert.Equal(t, "25.00", got.Items[0].Subtotal)
}

func TestCreateSale_ConcurrenciaSoloUnaGana(t *testing.T) {
	f := newFixture(t)
	clientID := f.client(t, "ana")
	productID := f.product(t, "A", "1.00", 5)

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.uc.CreateSale(context.Background(), saleReq(clientID, item(productID, 3)))
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 2, f.stock(t, productID))
}

func TestCreateSale_ConservacionDeStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	clientID := f.client(t, "ana")
	a := f.product(t, "A", "3.00", 20)
	b := f.product(t, "B", "7.00", 20)

	var ids []int64
	for _, req := range []dto.CreateSaleRequest{
		saleReq(clientID, item(a, 2), item(b, 1)),
		saleReq(clientID, item(b, 5)),
		saleReq(clientID, item(a, 1), item(a, 1)),
	} {
		out, err := f.uc.CreateSale(ctx, req)
		require.NoError(t, err)
		ids = append(ids, out.ID)
	}
	assert.Equal(t, 16, f.stock(t, a))
	assert.Equal(t, 14, f.stock(t, b))

	for _, id := range ids {
		_, err := f.uc.CancelSale(ctx, id)
		require.NoError(t, err)
	}
	assert.Equal(t, 20, f.stock(t, a))
	assert.Equal(t, 20, f.stock(t, b))
}

// ─────────────────────────────────────────────────────────────────────────────
// CancelSale
// ─────────────────────────────────────────────────────────────────────────────

func TestCancelSale_EsTerminal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	clientID := f.client(t, "ana")
	productID := f.product(t, "A", "1.00", 5)

	out, err := f.uc.CreateSale(ctx, saleReq(clientID, item(productID, 2)))
	require.NoError(t, err)

	_, err = f.uc.CancelSale(ctx, out.ID)
	require.NoError(t, err)
	_, err = f.uc.CancelSale(ctx, out.ID)
	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, domain.EntitySale, nf.Entity)
	assert.Equal(t, 5, f.stock(t, productID))

	_, err = f.uc.GetSale(ctx, out.ID, false)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := f.uc.GetSale(ctx, out.ID, true)
	require.NoError(t, err)
	assert.NotNil(t, got.CancelledAt)
}

func TestCancelSale_ReponeProductoDadoDeBaja(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	clientID := f.client(t, "ana")
	productID := f.product(t, "A", "1.00", 5)

	out, err := f.uc.CreateSale(ctx, saleReq(clientID, item(productID, 4)))
	require.NoError(t, err)
	_, err = f.store.Products().SoftDelete(ctx, productID, time.Now())
	require.NoError(t, err)

	_, err = f.uc.CancelSale(ctx, out.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, f.stock(t, productID))
}

func TestCancelSale_OmiteProductoInexistente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	clientID := f.client(t, "ana")
	productA := f.product(t, "A", "1.00", 5)
	productB := f.product(t, "B", "2.00", 5)

	out, err := f.uc.CreateSale(ctx, saleReq(clientID, item(productA, 2), item(productB, 3)))
	require.NoError(t, err)

	uc := sales.NewSaleUseCase(hidingRunner{store: f.store, hidden: productA}, f.store.Sales(), nil, nil, zerolog.Nop())
	_, err = uc.CancelSale(ctx, out.ID)
	require.NoError(t, err)

	assert.Equal(t, 3, f.stock(t, productA), "el producto ausente no se repone")
	assert.Equal(t, 5, f.stock(t, productB))

	_, err = f.uc.GetSale(ctx, out.ID, false)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCancelSale_Inexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.CancelSale(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ─────────────────────────────────────────────────────────────────────────────
// UpdateSale
// ─────────────────────────────────────────────────────────────────────────────

func TestUpdateSale_CambiaCabeceraSinTocarItems(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.client(t, "ana")
	beto := f.client(t, "beto")
	productID := f.product(t, "A", "5.00", 5)

	out, err := f.uc.CreateSale(ctx, saleReq(ana, item(productID, 2)))
	require.NoError(t, err)

	date := "2024-01-15"
	msg, err := f.uc.UpdateSale(ctx, out.ID, dto.UpdateSaleRequest{Date: &date, ClientID: &beto})
	require.NoError(t, err)
	assert.Contains(t, msg.Message, "actualizada")

	got, err := f.uc.GetSale(ctx, out.ID, false)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15", got.Date)
	assert.Equal(t, beto, got.ClientID)
	require.NotNil(t, got.ClientName)
	assert.Equal(t, "beto", *got.ClientName)
	assert.Equal(t, "10.00", got.Total)
	assert.Equal(t, 3, f.stock(t, productID))
}

func TestUpdateSale_Errores(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.client(t, "ana")
	productID := f.product(t, "A", "5.00", 5)
	out, err := f.uc.CreateSale(ctx, saleReq(ana, item(productID, 1)))
	require.NoError(t, err)

	missing := int64(99)
	_, err = f.uc.UpdateSale(ctx, out.ID, dto.UpdateSaleRequest{ClientID: &missing})
	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, domain.EntityClient, nf.Entity)

	bad := "15-01-2024"
	_, err = f.uc.UpdateSale(ctx, out.ID, dto.UpdateSaleRequest{Date: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.UpdateSale(ctx, out.ID, dto.UpdateSaleRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	date := "2024-01-15"
	_, err = f.uc.UpdateSale(ctx, 77, dto.UpdateSaleRequest{Date: &date})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.CancelSale(ctx, out.ID)
	require.NoError(t, err)
	_, err = f.uc.UpdateSale(ctx, out.ID, dto.UpdateSaleRequest{Date: &date})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ─────────────────────────────────────────────────────────────────────────────
// ListSales
// ─────────────────────────────────────────────────────────────────────────────

func TestListSales_PaginaYFiltraCanceladas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	clientID := f.client(t, "ana")
	productID := f.product(t, "A", "1.00", 100)

	var ids []int64
	for i := 0; i < 3; i++ {
		out, err := f.uc.CreateSale(ctx, saleReq(clientID, item(productID, 1)))
		require.NoError(t, err)
		ids = append(ids, out.ID)
	}
	_, err := f.uc.CancelSale(ctx, ids[1])
	require.NoError(t, err)

	list, err := f.uc.ListSales(ctx, dto.SaleListQuery{PageQuery: dto.PageQuery{Page: 1, Limit: 1}})
	require.NoError(t, err)
	assert.Equal(t, 2, list.Meta.Total)
	assert.Equal(t, 2, list.Meta.LastPage)
	require.Len(t, list.Data, 1)
	assert.Equal(t, ids[0], list.Data[0].ID)

	list, err = f.uc.ListSales(ctx, dto.SaleListQuery{IncludeCancelled: true})
	require.NoError(t, err)
	assert.Equal(t, 3, list.Meta.Total)
	assert.Len(t, list.Data, 3)

	_, err = f.uc.ListSales(ctx, dto.SaleListQuery{PageQuery: dto.PageQuery{Limit: sales.MaxListLimit + 1}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ─────────────────────────────────────────────────────────────────────────────
// Observabilidad
// ─────────────────────────────────────────────────────────────────────────────

func TestCreateSale_RegistraMetricasYSpans(t *testing.T) {
	store := memory.NewStore()
	m := &metricsMock{}
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	uc := sales.NewSaleUseCase(store, store.Sales(), tp.Tracer("test"), m, zerolog.Nop())
	f := &fixture{store: store, uc: uc}
	clientID := f.client(t, "ana")
	productID := f.product(t, "A", "2.00", 1)

	m.On("SaleCreated", "2.00", 1).Once()
	m.On("SaleRejected", "insufficient_stock").Once()
	m.On("SaleCancelled").Once()

	out, err := uc.CreateSale(context.Background(), saleReq(clientID, item(productID, 1)))
	require.NoError(t, err)
	_, err = uc.CreateSale(context.Background(), saleReq(clientID, item(productID, 1)))
	require.Error(t, err)
	_, err = uc.CancelSale(context.Background(), out.ID)
	require.NoError(t, err)

	m.AssertExpectations(t)

	spans := recorder.Ended()
	require.Len(t, spans, 3)
	assert.Equal(t, "sales.CreateSale", spans[0].Name())
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Equal(t, "sales.CancelSale", spans[2].Name())
}

func TestCreateSale_ErrorDeTransaccionSePropaga(t *testing.T) {
	store := memory.NewStore()
	uc := sales.NewSaleUseCase(failingRunner{}, store.Sales(), nil, nil, zerolog.Nop())

	_, err := uc.CreateSale(context.Background(), saleReq(1, item(1, 1)))
	assert.ErrorIs(t, err, domain.ErrTransactionFailure)
}
