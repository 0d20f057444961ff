package postgres

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ventas-api/internal/domain"
)

func TestIsUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "clients_email_key"}
	assert.True(t, isUniqueViolation(fmt.Errorf("insert client: %w", pgErr)))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("23505 en el texto no basta")))
}

func TestDuplicateClient_PorConstraint(t *testing.T) {
	err := duplicateClient(&pgconn.PgError{Code: "23505", ConstraintName: "clients_tax_id_key"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Contains(t, err.Error(), "documento")

	err = duplicateClient(&pgconn.PgError{Code: "23505", ConstraintName: "clients_email_key"})
	assert.Contains(t, err.Error(), "email")
}

func TestMigrationFiles_Embebidas(t *testing.T) {
	names, err := MigrationFiles()
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Equal(t, "001_init.sql", path.Base(names[0]))

	fsys, err := migrations()
	require.NoError(t, err)
	script, err := fs.ReadFile(fsys, path.Base(names[0]))
	require.NoError(t, err)
	assert.NotContains(t, string(script), "{{")
	assert.Contains(t, string(script), "ON DELETE RESTRICT")
	assert.Contains(t, string(script), "NUMERIC(10,2)")
}
