package memory

import (
	"context"
	"time"

	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación en memoria de ProductRepository.
type ProductRepo struct {
	b binding
}

func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	return r.b.do(func(st *state) error {
		st.productSeq++
		product.ID = st.productSeq
		st.products[product.ID] = *product
		return nil
	})
}

func (r *ProductRepo) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	var out *entity.Product
	err := r.b.do(func(st *state) error {
		if p, ok := st.products[id]; ok && p.DeletedAt == nil {
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.b.do(func(st *state) error {
		all := make([]*entity.Product, 0, len(st.products))
		for _, p := range st.products {
			if p.DeletedAt == nil {
				all = append(all, &p)
			}
		}
		out = page(all, func(p *entity.Product) int64 { return p.ID }, limit, offset)
		return nil
	})
	return out, err
}

func (r *ProductRepo) Count(_ context.Context) (int, error) {
	n := 0
	err := r.b.do(func(st *state) error {
		for _, p := range st.products {
			if p.DeletedAt == nil {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *ProductRepo) Update(_ context.Context, product *entity.Product) error {
	return r.b.do(func(st *state) error {
		cur, ok := st.products[product.ID]
		if !ok || cur.DeletedAt != nil {
			return nil
		}
		cur.Name = product.Name
		cur.Description = product.Description
		cur.Price = product.Price
		cur.UpdatedAt = product.UpdatedAt
		st.products[product.ID] = cur
		return nil
	})
}

// LockForUpdate en memoria el aislamiento lo da la transacción del Store; devuelve copias.
func (r *ProductRepo) LockForUpdate(_ context.Context, ids []int64, includeDeleted bool) (map[int64]*entity.Product, error) {
	out := make(map[int64]*entity.Product, len(ids))
	err := r.b.do(func(st *state) error {
		for _, id := range ids {
			p, ok := st.products[id]
			if !ok || (!includeDeleted && p.DeletedAt != nil) {
				continue
			}
			out[id] = &p
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) UpdateStock(_ context.Context, id int64, stock int, now time.Time) error {
	return r.b.do(func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return nil
		}
		p.Stock = stock
		p.UpdatedAt = now
		st.products[id] = p
		return nil
	})
}

func (r *ProductRepo) SoftDelete(_ context.Context, id int64, now time.Time) (bool, error) {
	deleted := false
	err := r.b.do(func(st *state) error {
		p, ok := st.products[id]
		if !ok || p.DeletedAt != nil {
			return nil
		}
		t := now
		p.DeletedAt = &t
		st.products[id] = p
		deleted = true
		return nil
	})
	return deleted, err
}
