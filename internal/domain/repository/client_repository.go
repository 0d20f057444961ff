package repository

import (
	"context"
	"time"

	"github.com/jhoicas/ventas-api/internal/domain/entity"
)

// ClientRepository define el puerto de persistencia para Client.
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	GetByID(ctx context.Context, id int64) (*entity.Client, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Client, error)
	Count(ctx context.Context) (int, error)
	Update(ctx context.Context, client *entity.Client) error
	SoftDelete(ctx context.Context, id int64, now time.Time) (bool, error)
}
