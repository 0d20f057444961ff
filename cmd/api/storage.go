package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/ventas-api/internal/application/sales"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
	"github.com/jhoicas/ventas-api/internal/infrastructure/memory"
	"github.com/jhoicas/ventas-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/ventas-api/internal/infrastructure/redis"
	"github.com/jhoicas/ventas-api/pkg/config"
)

// storage adaptadores de persistencia según APP_STORAGE.
type storage struct {
	txRunner sales.TxRunner
	products repository.ProductRepository
	clients  repository.ClientRepository
	sales    repository.SaleRepository
	users    repository.UserRepository
	sessions repository.SessionRepository
	close    func()
}

func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*storage, error) {
	if cfg.App.Storage == config.StorageMemory {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		store := memory.NewStore()
		return &storage{
			txRunner: store,
			products: store.Products(),
			clients:  store.Clients(),
			sales:    store.Sales(),
			users:    store.Users(),
			sessions: memory.NewSessionStore(),
			close:    func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	if cfg.DB.Migrate {
		if err := postgres.Migrate(ctx, pool, log); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migraciones: %w", err)
		}
	}

	st := &storage{
		txRunner: postgres.NewTxRunner(pool),
		products: postgres.NewProductRepository(pool),
		clients:  postgres.NewClientRepository(pool),
		sales:    postgres.NewSaleRepository(pool),
		users:    postgres.NewUserRepository(pool),
	}

	// Sin REDIS_URL las sesiones quedan en memoria del proceso (una sola instancia).
	if cfg.Redis.URL == "" {
		log.Warn().Msg("REDIS_URL vacío: sesiones en memoria")
		st.sessions = memory.NewSessionStore()
		st.close = pool.Close
		return st, nil
	}
	rdb, err := infraredis.NewClient(ctx, cfg.Redis.URL)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("conexión a Redis: %w", err)
	}
	st.sessions = infraredis.NewSessionStore(rdb)
	st.close = func() {
		_ = rdb.Close()
		pool.Close()
	}
	return st, nil
}
