package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

// MaxClientPageLimit tope de clientes por página.
const MaxClientPageLimit = 100

// ClientUseCase casos de uso CRUD para clientes.
type ClientUseCase struct {
	repo repository.ClientRepository
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(repo repository.ClientRepository) *ClientUseCase {
	return &ClientUseCase{repo: repo}
}

// Create crea un cliente. Email o documento repetidos devuelven domain.ErrDuplicate.
func (uc *ClientUseCase) Create(ctx context.Context, in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	now := time.Now()
	client := &entity.Client{
		Name:      strings.TrimSpace(in.Name),
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:     strings.TrimSpace(in.Phone),
		TaxID:     strings.TrimSpace(in.TaxID),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, client); err != nil {
		return nil, err
	}
	return toClientResponse(client), nil
}

// GetByID obtiene un cliente activo.
func (uc *ClientUseCase) GetByID(ctx context.Context, id int64) (*dto.ClientResponse, error) {
	client, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.NewNotFound(domain.EntityClient, id)
	}
	return toClientResponse(client), nil
}

// Update aplica solo name, email, phone y tax_id.
func (uc *ClientUseCase) Update(ctx context.Context, id int64, in dto.UpdateClientRequest) (*dto.ClientResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	client, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.NewNotFound(domain.EntityClient, id)
	}
	if in.Name != nil {
		client.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		client.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.Phone != nil {
		client.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.TaxID != nil {
		client.TaxID = strings.TrimSpace(*in.TaxID)
	}
	client.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, client); err != nil {
		return nil, err
	}
	return toClientResponse(client), nil
}

// List lista clientes activos paginados.
func (uc *ClientUseCase) List(ctx context.Context, q dto.PageQuery) (*dto.ClientListResponse, error) {
	page, err := q.Normalize(MaxClientPageLimit)
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
	out := &dto.ClientListResponse{Data: make([]dto.ClientResponse, 0, len(list)), Meta: dto.NewPageMeta(page, total)}
	for _, c := range list {
		out.Data = append(out.Data, *toClientResponse(c))
	}
	return out, nil
}

// Delete da de baja el cliente; sus ventas lo siguen referenciando.
func (uc *ClientUseCase) Delete(ctx context.Context, id int64) (*dto.MessageResponse, error) {
	ok, err := uc.repo.SoftDelete(ctx, id, time.Now())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.NewNotFound(domain.EntityClient, id)
	}
	return &dto.MessageResponse{Message: fmt.Sprintf("Cliente con ID %d eliminado con éxito", id)}, nil
}

func toClientResponse(c *entity.Client) *dto.ClientResponse {
	return &dto.ClientResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		TaxID:     c.TaxID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
