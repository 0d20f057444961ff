package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ventas-api/internal/infrastructure/redis"
)

func newStore(t *testing.T) (*redis.SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return redis.NewSessionStore(client), mr
}

func TestSessionStore_GuardaConClaveYTTL(t *testing.T) {
	store, mr := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, 7, "tok", time.Hour))

	got, err := mr.Get("session:7")
	require.NoError(t, err)
	assert.Equal(t, "tok", got)
	assert.Equal(t, time.Hour, mr.TTL("session:7"))

	tok, err := store.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "tok", tok)
}

func TestSessionStore_Expira(t *testing.T) {
	store, mr := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, 7, "tok", time.Minute))
	mr.FastForward(2 * time.Minute)

	tok, err := store.Get(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, tok)
}

func TestSessionStore_Delete(t *testing.T) {
	store, mr := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, 7, "tok", time.Hour))
	require.NoError(t, store.Delete(ctx, 7))
	assert.False(t, mr.Exists("session:7"))

	require.NoError(t, store.Delete(ctx, 99))
}

func TestNewClient_URLInvalida(t *testing.T) {
	_, err := redis.NewClient(context.Background(), "no-es-url")
	assert.Error(t, err)
}
