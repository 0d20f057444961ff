package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/application/sales"
	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

// MaxProductPageLimit tope de productos por página.
const MaxProductPageLimit = 10

// ProductUseCase casos de uso CRUD para productos. El stock de las ventas lo mueve el motor de ventas.
type ProductUseCase struct {
	repo     repository.ProductRepository
	txRunner sales.TxRunner
}

// NewProductUseCase construye el caso de uso. txRunner es el mismo que usa el motor de ventas.
func NewProductUseCase(repo repository.ProductRepository, txRunner sales.TxRunner) *ProductUseCase {
	return &ProductUseCase{repo: repo, txRunner: txRunner}
}

// Create crea un nuevo producto.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if in.Price.IsNegative() {
		return nil, fmt.Errorf("%w: el precio no puede ser negativo", domain.ErrInvalidInput)
	}
	now := time.Now()
	product := &entity.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price.Round(2),
		Stock:       in.Stock,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto activo por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NewNotFound(domain.EntityProduct, id)
	}
	return toProductResponse(product), nil
}

// Update aplica solo name, description, price y stock en una transacción, con la fila bloqueada.
// El stock recibido es un valor absoluto: reemplaza al vigente, incluidos los descuentos de ventas ya confirmadas.
func (uc *ProductUseCase) Update(ctx context.Context, id int64, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if in.Price != nil && in.Price.IsNegative() {
		return nil, fmt.Errorf("%w: el precio no puede ser negativo", domain.ErrInvalidInput)
	}
	var product *entity.Product
	err := uc.txRunner.RunSales(ctx, func(
		productRepo repository.ProductRepository,
		_ repository.ClientRepository,
		_ repository.SaleRepository,
	) error {
		locked, err := productRepo.LockForUpdate(ctx, []int64{id}, false)
		if err != nil {
			return err
		}
		p, ok := locked[id]
		if !ok {
			return domain.NewNotFound(domain.EntityProduct, id)
		}
		if in.Name != nil {
			p.Name = *in.Name
		}
		if in.Description != nil {
			p.Description = *in.Description
		}
		if in.Price != nil {
			p.Price = in.Price.Round(2)
		}
		p.UpdatedAt = time.Now()
		if err := productRepo.Update(ctx, p); err != nil {
			return err
		}
		// Update no escribe stock; va aparte para que ningún otro camino lo pise por accidente.
		if in.Stock != nil {
			if err := productRepo.UpdateStock(ctx, id, *in.Stock, p.UpdatedAt); err != nil {
				return err
			}
			p.Stock = *in.Stock
		}
		product = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos activos (página 1 y límite 10 por defecto, máximo 10).
func (uc *ProductUseCase) List(ctx context.Context, q dto.PageQuery) (*dto.ProductListResponse, error) {
	page, err := q.Normalize(MaxProductPageLimit)
	if err != nil {
		return nil, err
	}
	list, err := uc.repo.List(ctx, page.Limit, page.Offset())
	if err != nil {
		return nil, err
	}
	total, err := uc.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	out := &dto.ProductListResponse{Data: make([]dto.ProductResponse, 0, len(list)), Meta: dto.NewPageMeta(page, total)}
	for _, p := range list {
		out.Data = append(out.Data, *toProductResponse(p))
	}
	return out, nil
}

// Delete da de baja el producto. Las ventas que lo referencian lo conservan.
func (uc *ProductUseCase) Delete(ctx context.Context, id int64) (*dto.MessageResponse, error) {
	ok, err := uc.repo.SoftDelete(ctx, id, time.Now())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.NewNotFound(domain.EntityProduct, id)
	}
	return &dto.MessageResponse{Message: fmt.Sprintf("Producto con ID %d eliminado con éxito", id)}, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		Stock:       p.Stock,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
