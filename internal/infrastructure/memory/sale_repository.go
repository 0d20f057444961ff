package memory

import (
	"context"
	"time"

	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación en memoria de SaleRepository.
type SaleRepo struct {
	b binding
}

func (r *SaleRepo) Create(_ context.Context, sale *entity.Sale) error {
	return r.b.do(func(st *state) error {
		st.saleSeq++
		sale.ID = st.saleSeq
		rec := saleRecord{header: *sale, items: make([]entity.SaleItem, len(sale.Items))}
		rec.header.Items, rec.header.Client = nil, nil
		for i := range sale.Items {
			st.itemSeq++
			sale.Items[i].ID = st.itemSeq
			sale.Items[i].SaleID = sale.ID
			rec.items[i] = sale.Items[i]
			rec.items[i].Product = nil
		}
		st.sales[sale.ID] = rec
		return nil
	})
}

// hydrate arma el agregado con cliente y productos (aunque estén dados de baja).
func hydrate(st *state, rec saleRecord) *entity.Sale {
	s := rec.header
	if c, ok := st.clients[s.ClientID]; ok {
		s.Client = &c
	}
	s.Items = make([]entity.SaleItem, len(rec.items))
	for i, it := range rec.items {
		if p, ok := st.products[it.ProductID]; ok {
			it.Product = &p
		}
		s.Items[i] = it
	}
	return &s
}

func (r *SaleRepo) GetByID(_ context.Context, id int64, includeDeleted bool) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.b.do(func(st *state) error {
		rec, ok := st.sales[id]
		if !ok || (!includeDeleted && rec.header.DeletedAt != nil) {
			return nil
		}
		out = hydrate(st, rec)
		return nil
	})
	return out, err
}

func (r *SaleRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Sale, error) {
	return r.GetByID(ctx, id, false)
}

func (r *SaleRepo) List(_ context.Context, limit, offset int, includeDeleted bool) ([]*entity.Sale, error) {
	var out []*entity.Sale
	err := r.b.do(func(st *state) error {
		all := make([]*entity.Sale, 0, len(st.sales))
		for _, rec := range st.sales {
			if includeDeleted || rec.header.DeletedAt == nil {
				all = append(all, hydrate(st, rec))
			}
		}
		out = page(all, func(s *entity.Sale) int64 { return s.ID }, limit, offset)
		return nil
	})
	return out, err
}

func (r *SaleRepo) Count(_ context.Context, includeDeleted bool) (int, error) {
	n := 0
	err := r.b.do(func(st *state) error {
		for _, rec := range st.sales {
			if includeDeleted || rec.header.DeletedAt == nil {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *SaleRepo) UpdateHeader(_ context.Context, id int64, patch entity.SaleHeaderPatch, now time.Time) (bool, error) {
	updated := false
	err := r.b.do(func(st *state) error {
		rec, ok := st.sales[id]
		if !ok || rec.header.DeletedAt != nil {
			return nil
		}
		if patch.Date != nil {
			rec.header.Date = *patch.Date
		}
		if patch.ClientID != nil {
			rec.header.ClientID = *patch.ClientID
		}
		rec.header.UpdatedAt = now
		st.sales[id] = rec
		updated = true
		return nil
	})
	return updated, err
}

func (r *SaleRepo) SoftDelete(_ context.Context, id int64, now time.Time) (bool, error) {
	deleted := false
	err := r.b.do(func(st *state) error {
		rec, ok := st.sales[id]
		if !ok || rec.header.DeletedAt != nil {
			return nil
		}
		t := now
		rec.header.DeletedAt = &t
		rec.header.UpdatedAt = now
		st.sales[id] = rec
		deleted = true
		return nil
	})
	return deleted, err
}
