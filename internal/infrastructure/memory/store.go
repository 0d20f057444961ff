// Package memory implementa los puertos de persistencia en memoria (APP_STORAGE=memory y tests).
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/jhoicas/ventas-api/internal/application/sales"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

var _ sales.TxRunner = (*Store)(nil)

type saleRecord struct {
	header entity.Sale // sin Items ni relaciones cargadas
	items  []entity.SaleItem
}

// state contenido completo del almacén. Se clona por transacción.
type state struct {
	clients  map[int64]entity.Client
	products map[int64]entity.Product
	sales    map[int64]saleRecord
	users    map[int64]entity.User

	clientSeq, productSeq, saleSeq, itemSeq, userSeq int64
}

func newState() *state {
	return &state{
		clients:  map[int64]entity.Client{},
		products: map[int64]entity.Product{},
		sales:    map[int64]saleRecord{},
		users:    map[int64]entity.User{},
	}
}

func (s *state) clone() *state {
	c := *s
	c.clients = maps.Clone(s.clients)
	c.products = maps.Clone(s.products)
	c.users = maps.Clone(s.users)
	c.sales = make(map[int64]saleRecord, len(s.sales))
	for id, rec := range s.sales {
		rec.items = append([]entity.SaleItem(nil), rec.items...)
		c.sales[id] = rec
	}
	return &c
}

// Store almacén en memoria seguro para uso concurrente.
// Una transacción retiene el mutex de principio a fin y trabaja sobre una copia
// que solo reemplaza al estado vigente si fn termina sin error.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore construye un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// binding ata los repositorios a un estado: el vigente del Store (con mutex por llamada)
// o la copia de una transacción en curso (el mutex ya está tomado).
type binding struct {
	store *Store
	tx    *state
}

func (b binding) do(fn func(st *state) error) error {
	if b.tx != nil {
		return fn(b.tx)
	}
	b.store.mu.Lock()
	defer b.store.mu.Unlock()
	return fn(b.store.st)
}

// Products repositorio de productos fuera de transacción.
func (s *Store) Products() *ProductRepo { return &ProductRepo{b: binding{store: s}} }

// Clients repositorio de clientes fuera de transacción.
func (s *Store) Clients() *ClientRepo { return &ClientRepo{b: binding{store: s}} }

// Sales repositorio de ventas fuera de transacción.
func (s *Store) Sales() *SaleRepo { return &SaleRepo{b: binding{store: s}} }

// Users repositorio de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{b: binding{store: s}} }

// RunSales ejecuta fn con repositorios atados a una copia del estado y la publica al terminar sin error.
func (s *Store) RunSales(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	clientRepo repository.ClientRepository,
	saleRepo repository.SaleRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := s.st.clone()
	b := binding{tx: tx}
	if err := fn(&ProductRepo{b: b}, &ClientRepo{b: b}, &SaleRepo{b: b}); err != nil {
		return err
	}
	s.st = tx
	return nil
}
