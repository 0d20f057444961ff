// Package redis implementa el almacén de sesiones sobre Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

var _ repository.SessionRepository = (*SessionStore)(nil)

const sessionKeyPrefix = "session:"

// SessionStore guarda el JWT vigente de cada usuario bajo session:<userID> con expiración.
type SessionStore struct {
	client *goredis.Client
}

// NewClient crea el cliente a partir de REDIS_URL y verifica la conexión.
func NewClient(ctx context.Context, redisURL string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// NewSessionStore construye el adaptador.
func NewSessionStore(client *goredis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func sessionKey(userID int64) string {
	return sessionKeyPrefix + strconv.FormatInt(userID, 10)
}

// Save reemplaza la sesión del usuario.
func (s *SessionStore) Save(ctx context.Context, userID int64, token string, ttl time.Duration) error {
	if err := s.client.Set(ctx, sessionKey(userID), token, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Get devuelve "" si la clave no existe o expiró.
func (s *SessionStore) Get(ctx context.Context, userID int64) (string, error) {
	token, err := s.client.Get(ctx, sessionKey(userID)).Result()
	if errors.Is(err, goredis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("redis get: %w", err)
	}
	return token, nil
}

// Delete elimina la sesión; no falla si no existía.
func (s *SessionStore) Delete(ctx context.Context, userID int64) error {
	if err := s.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
