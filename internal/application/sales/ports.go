package sales

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Si fn retorna error se hace rollback de todo; si no, commit.
type TxRunner interface {
	RunSales(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		clientRepo repository.ClientRepository,
		saleRepo repository.SaleRepository,
	) error) error
}

// Metrics contadores del motor de ventas.
type Metrics interface {
	SaleCreated(total decimal.Decimal, items int)
	SaleCancelled()
	SaleRejected(reason string)
}

type nopMetrics struct{}

func (nopMetrics) SaleCreated(decimal.Decimal, int) {}
func (nopMetrics) SaleCancelled()                   {}
func (nopMetrics) SaleRejected(string)              {}
