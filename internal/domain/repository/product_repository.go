package repository

import (
	"context"
	"time"

	"github.com/jhoicas/ventas-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// Las lecturas normales excluyen productos dados de baja.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Product, error)
	Count(ctx context.Context) (int, error)
	// Update modifica nombre, descripción y precio. El stock solo cambia vía UpdateStock.
	Update(ctx context.Context, product *entity.Product) error
	// LockForUpdate bloquea las filas (orden ascendente de ID) hasta el fin de la transacción.
	// Los IDs inexistentes simplemente no aparecen en el mapa.
	LockForUpdate(ctx context.Context, ids []int64, includeDeleted bool) (map[int64]*entity.Product, error)
	UpdateStock(ctx context.Context, id int64, stock int, now time.Time) error
	SoftDelete(ctx context.Context, id int64, now time.Time) (bool, error)
}
