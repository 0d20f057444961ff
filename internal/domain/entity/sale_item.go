package entity

import "github.com/shopspring/decimal"

// SaleItem línea de una venta. Price es una copia congelada del precio del producto al vender.
type SaleItem struct {
	ID        int64
	SaleID    int64
	ProductID int64
	Product   *Product // cargado en lecturas; puede ser nil si el producto ya no existe
	Amount    int
	Price     decimal.Decimal
}

// Subtotal precio congelado × cantidad.
func (i SaleItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Amount)))
}
