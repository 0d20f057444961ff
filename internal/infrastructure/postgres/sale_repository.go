package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// Cabecera con el cliente por LEFT JOIN: un cliente dado de baja sigue apareciendo en sus ventas.
const saleSelect = `
	SELECT s.id, s.date, s.client_id, s.total, s.created_at, s.updated_at, s.deleted_at,
	       c.id, c.name, c.email, c.phone, c.tax_id
	FROM sales s
	LEFT JOIN clients c ON c.id = s.client_id`

const itemSelect = `
	SELECT i.id, i.sale_id, i.product_id, i.amount, i.price,
	       p.id, p.name, p.description, p.price, p.stock
	FROM sale_items i
	LEFT JOIN products p ON p.id = i.product_id`

// SaleRepo implementación del puerto SaleRepository sobre PostgreSQL.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador (pool o tx).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create inserta la cabecera y luego cada ítem en orden; ambos dentro de la tx del caller.
func (r *SaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	query := `
		INSERT INTO sales (date, client_id, total, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	if err := r.q.QueryRow(ctx, query, sale.Date, sale.ClientID, sale.Total, sale.CreatedAt, sale.UpdatedAt).Scan(&sale.ID); err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	itemQuery := `
		INSERT INTO sale_items (sale_id, product_id, amount, price)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	for i := range sale.Items {
		it := &sale.Items[i]
		it.SaleID = sale.ID
		if err := r.q.QueryRow(ctx, itemQuery, sale.ID, it.ProductID, it.Amount, it.Price).Scan(&it.ID); err != nil {
			return fmt.Errorf("insert sale item: %w", err)
		}
	}
	return nil
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	var (
		clientID                  *int64
		name, email, phone, taxID *string
	)
	err := row.Scan(&s.ID, &s.Date, &s.ClientID, &s.Total, &s.CreatedAt, &s.UpdatedAt, &s.DeletedAt,
		&clientID, &name, &email, &phone, &taxID)
	if err != nil {
		return nil, err
	}
	if clientID != nil {
		s.Client = &entity.Client{ID: *clientID, Name: deref(name), Email: deref(email), Phone: deref(phone), TaxID: deref(taxID)}
	}
	return &s, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// loadItems carga los ítems (con su producto) de las ventas dadas, ordenados por ID de ítem.
func (r *SaleRepo) loadItems(ctx context.Context, sales ...*entity.Sale) error {
	if len(sales) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(sales))
	byID := make(map[int64]*entity.Sale, len(sales))
	for _, s := range sales {
		ids = append(ids, s.ID)
		byID[s.ID] = s
		s.Items = make([]entity.SaleItem, 0)
	}
	rows, err := r.q.Query(ctx, itemSelect+` WHERE i.sale_id = ANY($1) ORDER BY i.id`, ids)
	if err != nil {
		return fmt.Errorf("load sale items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.SaleItem
		var (
			productID  *int64
			name, desc *string
			price      decimal.NullDecimal
			stock      *int
		)
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.Amount, &it.Price,
			&productID, &name, &desc, &price, &stock); err != nil {
			return fmt.Errorf("scan sale item: %w", err)
		}
		if productID != nil {
			p := &entity.Product{ID: *productID, Name: deref(name), Description: deref(desc), Price: price.Decimal}
			if stock != nil {
				p.Stock = *stock
			}
			it.Product = p
		}
		if s, ok := byID[it.SaleID]; ok {
			s.Items = append(s.Items, it)
		}
	}
	return rows.Err()
}

// GetByID carga la venta completa. Devuelve nil si no existe (o está cancelada y !includeDeleted).
func (r *SaleRepo) GetByID(ctx context.Context, id int64, includeDeleted bool) (*entity.Sale, error) {
	query := saleSelect + ` WHERE s.id = $1`
	if !includeDeleted {
		query += ` AND s.deleted_at IS NULL`
	}
	s, err := scanSale(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	if err := r.loadItems(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// GetForUpdate bloquea la cabecera activa (FOR UPDATE) y carga sus ítems.
// Dos cancelaciones concurrentes se serializan aquí; la segunda ve deleted_at y recibe nil.
func (r *SaleRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Sale, error) {
	query := `
		SELECT id, date, client_id, total, created_at, updated_at, deleted_at
		FROM sales WHERE id = $1 AND deleted_at IS NULL
		FOR UPDATE`
	var s entity.Sale
	err := r.q.QueryRow(ctx, query, id).Scan(&s.ID, &s.Date, &s.ClientID, &s.Total, &s.CreatedAt, &s.UpdatedAt, &s.DeletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("lock sale: %w", err)
	}
	if err := r.loadItems(ctx, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// List lista ventas por ID ascendente con sus relaciones.
func (r *SaleRepo) List(ctx context.Context, limit, offset int, includeDeleted bool) ([]*entity.Sale, error) {
	query := saleSelect
	if !includeDeleted {
		query += ` WHERE s.deleted_at IS NULL`
	}
	query += ` ORDER BY s.id LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	list := make([]*entity.Sale, 0)
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	if err := r.loadItems(ctx, list...); err != nil {
		return nil, err
	}
	return list, nil
}

// Count cuenta ventas (activas o todas).
func (r *SaleRepo) Count(ctx context.Context, includeDeleted bool) (int, error) {
	query := `SELECT COUNT(*) FROM sales`
	if !includeDeleted {
		query += ` WHERE deleted_at IS NULL`
	}
	var n int
	if err := r.q.QueryRow(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("count sales: %w", err)
	}
	return n, nil
}

// UpdateHeader aplica solo date y client_id; COALESCE conserva los campos ausentes del patch.
func (r *SaleRepo) UpdateHeader(ctx context.Context, id int64, patch entity.SaleHeaderPatch, now time.Time) (bool, error) {
	query := `
		UPDATE sales
		SET date = COALESCE($2, date), client_id = COALESCE($3, client_id), updated_at = $4
		WHERE id = $1 AND deleted_at IS NULL`
	tag, err := r.q.Exec(ctx, query, id, patch.Date, patch.ClientID, now)
	if err != nil {
		return false, fmt.Errorf("update sale: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// SoftDelete marca la venta como cancelada; los ítems quedan para auditoría.
func (r *SaleRepo) SoftDelete(ctx context.Context, id int64, now time.Time) (bool, error) {
	tag, err := r.q.Exec(ctx, `UPDATE sales SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`, id, now)
	if err != nil {
		return false, fmt.Errorf("cancel sale: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
