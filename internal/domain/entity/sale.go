package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale es la cabecera de una venta y raíz del agregado: sus ítems se crean y se anulan con ella.
type Sale struct {
	ID        int64
	Date      time.Time
	ClientID  int64
	Client    *Client // cargado en lecturas; puede ser nil
	Total     decimal.Decimal
	Items     []SaleItem // en orden de inserción
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time // marca de cancelación
}

// IsCancelled indica si la venta fue cancelada (soft delete).
func (s *Sale) IsCancelled() bool {
	return s.DeletedAt != nil
}

// ComputeTotal suma precio congelado × cantidad de cada ítem.
func (s *Sale) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for i := range s.Items {
		total = total.Add(s.Items[i].Subtotal())
	}
	return total
}

// SaleHeaderPatch campos editables de la cabecera. Los ítems nunca se modifican tras crear la venta.
type SaleHeaderPatch struct {
	Date     *time.Time
	ClientID *int64
}

// IsEmpty indica si el patch no trae ningún campo.
func (p SaleHeaderPatch) IsEmpty() bool {
	return p.Date == nil && p.ClientID == nil
}
