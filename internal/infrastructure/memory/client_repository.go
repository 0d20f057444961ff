package memory

import (
	"context"
	"time"

	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo implementación en memoria de ClientRepository.
// Email y TaxID son únicos entre todos los registros, incluidos los dados de baja.
type ClientRepo struct {
	b binding
}

func clientConflict(st *state, c *entity.Client) bool {
	for id, other := range st.clients {
		if id != c.ID && (other.Email == c.Email || other.TaxID == c.TaxID) {
			return true
		}
	}
	return false
}

func (r *ClientRepo) Create(_ context.Context, client *entity.Client) error {
	return r.b.do(func(st *state) error {
		client.ID = 0
		if clientConflict(st, client) {
			return domain.ErrDuplicate
		}
		st.clientSeq++
		client.ID = st.clientSeq
		st.clients[client.ID] = *client
		return nil
	})
}

func (r *ClientRepo) GetByID(_ context.Context, id int64) (*entity.Client, error) {
	var out *entity.Client
	err := r.b.do(func(st *state) error {
		if c, ok := st.clients[id]; ok && c.DeletedAt == nil {
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *ClientRepo) List(_ context.Context, limit, offset int) ([]*entity.Client, error) {
	var out []*entity.Client
	err := r.b.do(func(st *state) error {
		all := make([]*entity.Client, 0, len(st.clients))
		for _, c := range st.clients {
			if c.DeletedAt == nil {
				all = append(all, &c)
			}
		}
		out = page(all, func(c *entity.Client) int64 { return c.ID }, limit, offset)
		return nil
	})
	return out, err
}

func (r *ClientRepo) Count(_ context.Context) (int, error) {
	n := 0
	err := r.b.do(func(st *state) error {
		for _, c := range st.clients {
			if c.DeletedAt == nil {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *ClientRepo) Update(_ context.Context, client *entity.Client) error {
	return r.b.do(func(st *state) error {
		cur, ok := st.clients[client.ID]
		if !ok || cur.DeletedAt != nil {
			return nil
		}
		if clientConflict(st, client) {
			return domain.ErrDuplicate
		}
		client.CreatedAt = cur.CreatedAt
		st.clients[client.ID] = *client
		return nil
	})
}

func (r *ClientRepo) SoftDelete(_ context.Context, id int64, now time.Time) (bool, error) {
	deleted := false
	err := r.b.do(func(st *state) error {
		c, ok := st.clients[id]
		if !ok || c.DeletedAt != nil {
			return nil
		}
		t := now
		c.DeletedAt = &t
		st.clients[id] = c
		deleted = true
		return nil
	})
	return deleted, err
}
