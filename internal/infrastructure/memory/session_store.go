package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

var _ repository.SessionRepository = (*SessionStore)(nil)

type session struct {
	token     string
	expiresAt time.Time
}

// SessionStore sesiones con expiración en memoria (equivalente local de Redis).
type SessionStore struct {
	mu       sync.Mutex
	sessions map[int64]session
	now      func() time.Time
}

// NewSessionStore construye el almacén de sesiones.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: map[int64]session{}, now: time.Now}
}

func (s *SessionStore) Save(_ context.Context, userID int64, token string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = session{token: token, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *SessionStore) Get(_ context.Context, userID int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	if !ok {
		return "", nil
	}
	if !s.now().Before(sess.expiresAt) {
		delete(s.sessions, userID)
		return "", nil
	}
	return sess.token, nil
}

func (s *SessionStore) Delete(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
	return nil
}
