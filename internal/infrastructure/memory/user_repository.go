package memory

import (
	"context"
	"time"

	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación en memoria de UserRepository.
type UserRepo struct {
	b binding
}

func emailTaken(st *state, u *entity.User) bool {
	for id, other := range st.users {
		if id != u.ID && other.Email == u.Email {
			return true
		}
	}
	return false
}

func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	return r.b.do(func(st *state) error {
		user.ID = 0
		if emailTaken(st, user) {
			return domain.ErrDuplicate
		}
		st.userSeq++
		user.ID = st.userSeq
		st.users[user.ID] = *user
		return nil
	})
}

func (r *UserRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	var out *entity.User
	err := r.b.do(func(st *state) error {
		if u, ok := st.users[id]; ok && u.DeletedAt == nil {
			out = &u
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	var out *entity.User
	err := r.b.do(func(st *state) error {
		for _, u := range st.users {
			if u.Email == email && u.DeletedAt == nil {
				out = &u
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) List(_ context.Context, limit, offset int) ([]*entity.User, error) {
	var out []*entity.User
	err := r.b.do(func(st *state) error {
		all := make([]*entity.User, 0, len(st.users))
		for _, u := range st.users {
			if u.DeletedAt == nil {
				all = append(all, &u)
			}
		}
		out = page(all, func(u *entity.User) int64 { return u.ID }, limit, offset)
		return nil
	})
	return out, err
}

func (r *UserRepo) Count(_ context.Context) (int, error) {
	n := 0
	err := r.b.do(func(st *state) error {
		for _, u := range st.users {
			if u.DeletedAt == nil {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *UserRepo) Update(_ context.Context, user *entity.User) error {
	return r.b.do(func(st *state) error {
		cur, ok := st.users[user.ID]
		if !ok || cur.DeletedAt != nil {
			return nil
		}
		if emailTaken(st, user) {
			return domain.ErrDuplicate
		}
		user.CreatedAt = cur.CreatedAt
		st.users[user.ID] = *user
		return nil
	})
}

func (r *UserRepo) SoftDelete(_ context.Context, id int64, now time.Time) (bool, error) {
	deleted := false
	err := r.b.do(func(st *state) error {
		u, ok := st.users[id]
		if !ok || u.DeletedAt != nil {
			return nil
		}
		t := now
		u.DeletedAt = &t
		st.users[id] = u
		deleted = true
		return nil
	})
	return deleted, err
}
