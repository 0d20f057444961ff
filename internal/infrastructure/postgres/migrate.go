package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/tern/v2/migrate"
	"github.com/rs/zerolog"
)

// versionTable tabla donde tern registra la última migración aplicada.
const versionTable = "schema_version"

//go:embed migrations/*.sql
var migrationsFS embed.FS

func migrations() (fs.FS, error) {
	return fs.Sub(migrationsFS, "migrations")
}

// MigrationFiles nombres de los scripts embebidos en orden de aplicación.
// Falla si la numeración tiene huecos o duplicados.
func MigrationFiles() ([]string, error) {
	fsys, err := migrations()
	if err != nil {
		return nil, err
	}
	return migrate.FindMigrations(fsys)
}

// Migrate lleva el esquema a la última versión embebida.
// Cada script corre en su propia transacción; los ya aplicados se omiten.
func Migrate(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger) error {
	fsys, err := migrations()
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	m, err := migrate.NewMigrator(ctx, conn.Conn(), versionTable)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	if err := m.LoadMigrations(fsys); err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	m.OnStart = func(sequence int32, name, direction, _ string) {
		log.Info().Int32("version", sequence).Str("migration", name).Str("direction", direction).Msg("aplicando migración")
	}
	if err := m.Migrate(ctx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	version, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	log.Info().Int32("version", version).Msg("esquema al día")
	return nil
}
