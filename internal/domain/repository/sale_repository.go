package repository

import (
	"context"
	"time"

	"github.com/jhoicas/ventas-api/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia para Sale y sus ítems.
type SaleRepository interface {
	// Create inserta cabecera e ítems y asigna los IDs generados.
	Create(ctx context.Context, sale *entity.Sale) error
	// GetByID carga cliente, ítems y producto de cada ítem. Devuelve nil si no existe.
	GetByID(ctx context.Context, id int64, includeDeleted bool) (*entity.Sale, error)
	// GetForUpdate bloquea la cabecera activa y carga sus ítems.
	GetForUpdate(ctx context.Context, id int64) (*entity.Sale, error)
	List(ctx context.Context, limit, offset int, includeDeleted bool) ([]*entity.Sale, error)
	Count(ctx context.Context, includeDeleted bool) (int, error)
	UpdateHeader(ctx context.Context, id int64, patch entity.SaleHeaderPatch, now time.Time) (bool, error)
	SoftDelete(ctx context.Context, id int64, now time.Time) (bool, error)
}
