package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ventas-api/pkg/jwt"
)

func TestGenerateParse_RoundTrip(t *testing.T) {
	token, err := jwt.Generate("secret", 7, "ana@mail.com", "ventas-api", 60)
	require.NoError(t, err)

	claims, err := jwt.Parse("secret", token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "ana@mail.com", claims.Email)
	assert.Equal(t, "7", claims.Subject)
	assert.NotEmpty(t, claims.ID)
}

func TestGenerate_TokensDistintos(t *testing.T) {
	a, err := jwt.Generate("secret", 7, "ana@mail.com", "ventas-api", 60)
	require.NoError(t, err)
	b, err := jwt.Generate("secret", 7, "ana@mail.com", "ventas-api", 60)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestParse_Rechazos(t *testing.T) {
	token, err := jwt.Generate("secret", 7, "ana@mail.com", "ventas-api", 60)
	require.NoError(t, err)

	_, err = jwt.Parse("otro", token)
	assert.Error(t, err)

	expired, err := jwt.Generate("secret", 7, "ana@mail.com", "ventas-api", -1)
	require.NoError(t, err)
	_, err = jwt.Parse("secret", expired)
	assert.Error(t, err)

	_, err = jwt.Generate("", 7, "ana@mail.com", "ventas-api", 60)
	assert.Error(t, err)
}
