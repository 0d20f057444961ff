package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo.
// Stock >= 0 lo garantiza el motor de ventas, no el almacenamiento.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal // precio de venta actual
	Stock       int
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

// IsDeleted indica si el producto fue dado de baja (soft delete).
func (p *Product) IsDeleted() bool {
	return p.DeletedAt != nil
}
