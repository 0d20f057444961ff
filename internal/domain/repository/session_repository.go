package repository

import (
	"context"
	"time"
)

// SessionRepository guarda el token vigente por usuario (una sesión activa por usuario).
type SessionRepository interface {
	Save(ctx context.Context, userID int64, token string, ttl time.Duration) error
	// Get devuelve "" si no hay sesión.
	Get(ctx context.Context, userID int64) (string, error)
	Delete(ctx context.Context, userID int64) error
}
