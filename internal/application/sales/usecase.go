package sales

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

// MaxListLimit tope de ventas por página.
const MaxListLimit = 100

// SaleUseCase motor transaccional de ventas: crea, consulta, actualiza y cancela ventas
// manteniendo el stock consistente.
type SaleUseCase struct {
	txRunner TxRunner
	saleRepo repository.SaleRepository
	tracer   trace.Tracer
	metrics  Metrics
	log      zerolog.Logger
	now      func() time.Time
}

// NewSaleUseCase construye el caso de uso. tracer y metrics pueden ser nil.
func NewSaleUseCase(
	txRunner TxRunner,
	saleRepo repository.SaleRepository,
	tracer trace.Tracer,
	metrics Metrics,
	log zerolog.Logger,
) *SaleUseCase {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("sales")
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &SaleUseCase{
		txRunner: txRunner,
		saleRepo: saleRepo,
		tracer:   tracer,
		metrics:  metrics,
		log:      log.With().Str("component", "sales").Logger(),
		now:      time.Now,
	}
}

// CreateSale valida cliente y productos, descuenta stock y guarda cabecera e ítems en una sola transacción.
// Los productos se bloquean en orden ascendente de ID; los ítems se evalúan en el orden recibido.
func (uc *SaleUseCase) CreateSale(ctx context.Context, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	ctx, span := uc.tracer.Start(ctx, "sales.CreateSale", trace.WithAttributes(
		attribute.Int64("sale.client_id", in.ClientID),
		attribute.Int("sale.items", len(in.Items)),
	))
	defer span.End()

	if err := dto.Validate(in); err != nil {
		uc.reject(span, "create", err)
		return nil, err
	}

	now := uc.now()
	var sale *entity.Sale

	err := uc.txRunner.RunSales(ctx, func(
		productRepo repository.ProductRepository,
		clientRepo repository.ClientRepository,
		saleRepo repository.SaleRepository,
	) error {
		client, err := clientRepo.GetByID(ctx, in.ClientID)
		if err != nil {
			return fmt.Errorf("obtener cliente: %w", err)
		}
		if client == nil {
			return domain.NewNotFound(domain.EntityClient, in.ClientID)
		}

		locked, err := productRepo.LockForUpdate(ctx, requestedProductIDs(in.Items), false)
		if err != nil {
			return fmt.Errorf("bloquear productos: %w", err)
		}

		s := &entity.Sale{
			Date:      truncateDay(now),
			ClientID:  client.ID,
			Client:    client,
			Items:     make([]entity.SaleItem, 0, len(in.Items)),
			CreatedAt: now,
			UpdatedAt: now,
		}
		touched := make([]int64, 0, len(locked))
		for _, item := range in.Items {
			product, ok := locked[item.ProductID]
			if !ok {
				return domain.NewNotFound(domain.EntityProduct, item.ProductID)
			}
			// Stock ya reducido si el producto aparece repetido en la venta.
			if product.Stock < item.Amount {
				return &domain.InsufficientStockError{
					ProductID:   product.ID,
					ProductName: product.Name,
					Available:   product.Stock,
					Requested:   item.Amount,
				}
			}
			if !slices.Contains(touched, product.ID) {
				touched = append(touched, product.ID)
			}
			product.Stock -= item.Amount
			s.Items = append(s.Items, entity.SaleItem{
				ProductID: product.ID,
				Product:   product,
				Amount:    item.Amount,
				Price:     product.Price,
			})
		}
		s.Total = s.ComputeTotal()

		for _, id := range touched {
			if err := productRepo.UpdateStock(ctx, id, locked[id].Stock, now); err != nil {
				return fmt.Errorf("actualizar stock del producto %d: %w", id, err)
			}
		}
		if err := saleRepo.Create(ctx, s); err != nil {
			return fmt.Errorf("guardar venta: %w", err)
		}
		sale = s
		return nil
	})
	if err != nil {
		uc.reject(span, "create", err)
		return nil, err
	}

	span.SetAttributes(attribute.Int64("sale.id", sale.ID), attribute.String("sale.total", sale.Total.StringFixed(2)))
	uc.metrics.SaleCreated(sale.Total, len(sale.Items))
	uc.log.Info().
		Int64("sale_id", sale.ID).
		Int64("client_id", sale.ClientID).
		Str("total", sale.Total.StringFixed(2)).
		Int("items", len(sale.Items)).
		Msg("venta registrada")

	out := ToSaleResponse(sale)
	return &out, nil
}

// GetSale devuelve la venta con cliente, ítems y productos. Las canceladas solo si includeCancelled.
func (uc *SaleUseCase) GetSale(ctx context.Context, id int64, includeCancelled bool) (*dto.SaleResponse, error) {
	ctx, span := uc.tracer.Start(ctx, "sales.GetSale", trace.WithAttributes(attribute.Int64("sale.id", id)))
	defer span.End()

	sale, err := uc.saleRepo.GetByID(ctx, id, includeCancelled)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("obtener venta: %w", err)
	}
	if sale == nil {
		return nil, domain.NewNotFound(domain.EntitySale, id)
	}
	out := ToSaleResponse(sale)
	return &out, nil
}

// ListSales lista ventas por ID ascendente (página 1 y límite 10 por defecto, máximo 100).
func (uc *SaleUseCase) ListSales(ctx context.Context, q dto.SaleListQuery) (*dto.SaleListResponse, error) {
	ctx, span := uc.tracer.Start(ctx, "sales.ListSales")
	defer span.End()

	page, err := q.PageQuery.Normalize(MaxListLimit)
	if err != nil {
		return nil, err
	}
	list, err := uc.saleRepo.List(ctx, page.Limit, page.Offset(), q.IncludeCancelled)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("listar ventas: %w", err)
	}
	total, err := uc.saleRepo.Count(ctx, q.IncludeCancelled)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("contar ventas: %w", err)
	}
	out := ToSaleListResponse(list, dto.NewPageMeta(page, total))
	return &out, nil
}

// CancelSale devuelve al stock las cantidades vendidas y marca la venta como cancelada.
// Una venta ya cancelada se trata como inexistente, de modo que el stock se repone una sola vez.
func (uc *SaleUseCase) CancelSale(ctx context.Context, id int64) (*dto.MessageResponse, error) {
	ctx, span := uc.tracer.Start(ctx, "sales.CancelSale", trace.WithAttributes(attribute.Int64("sale.id", id)))
	defer span.End()

	now := uc.now()
	err := uc.txRunner.RunSales(ctx, func(
		productRepo repository.ProductRepository,
		_ repository.ClientRepository,
		saleRepo repository.SaleRepository,
	) error {
		sale, err := saleRepo.GetForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("bloquear venta: %w", err)
		}
		if sale == nil {
			return domain.NewNotFound(domain.EntitySale, id)
		}

		ids := make([]int64, 0, len(sale.Items))
		for _, it := range sale.Items {
			if !slices.Contains(ids, it.ProductID) {
				ids = append(ids, it.ProductID)
			}
		}
		slices.Sort(ids)
		// Incluye productos dados de baja: su stock también se repone.
		locked, err := productRepo.LockForUpdate(ctx, ids, true)
		if err != nil {
			return fmt.Errorf("bloquear productos: %w", err)
		}

		touched := make([]int64, 0, len(ids))
		for _, it := range sale.Items {
			product, ok := locked[it.ProductID]
			if !ok {
				uc.log.Warn().
					Int64("sale_id", id).
					Int64("product_id", it.ProductID).
					Int("amount", it.Amount).
					Msg("producto inexistente, se omite la reposición de stock")
				continue
			}
			product.Stock += it.Amount
			if !slices.Contains(touched, product.ID) {
				touched = append(touched, product.ID)
			}
		}
		for _, pid := range touched {
			if err := productRepo.UpdateStock(ctx, pid, locked[pid].Stock, now); err != nil {
				return fmt.Errorf("reponer stock del producto %d: %w", pid, err)
			}
		}

		ok, err := saleRepo.SoftDelete(ctx, id, now)
		if err != nil {
			return fmt.Errorf("cancelar venta: %w", err)
		}
		if !ok {
			return domain.NewNotFound(domain.EntitySale, id)
		}
		return nil
	})
	if err != nil {
		uc.reject(span, "cancel", err)
		return nil, err
	}

	uc.metrics.SaleCancelled()
	uc.log.Info().Int64("sale_id", id).Msg("venta cancelada")
	return &dto.MessageResponse{Message: fmt.Sprintf("Venta con ID %d cancelada con éxito", id)}, nil
}

// UpdateSale modifica solo la cabecera (fecha y cliente). Ítems, precios, total y stock no cambian.
func (uc *SaleUseCase) UpdateSale(ctx context.Context, id int64, in dto.UpdateSaleRequest) (*dto.MessageResponse, error) {
	ctx, span := uc.tracer.Start(ctx, "sales.UpdateSale", trace.WithAttributes(attribute.Int64("sale.id", id)))
	defer span.End()

	if err := dto.Validate(in); err != nil {
		uc.reject(span, "update", err)
		return nil, err
	}
	var patch entity.SaleHeaderPatch
	if in.Date != nil {
		d, err := time.Parse(DateLayout, *in.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: date debe tener formato YYYY-MM-DD", domain.ErrInvalidInput)
		}
		patch.Date = &d
	}
	patch.ClientID = in.ClientID
	if patch.IsEmpty() {
		return nil, fmt.Errorf("%w: no hay campos para actualizar", domain.ErrInvalidInput)
	}

	now := uc.now()
	err := uc.txRunner.RunSales(ctx, func(
		_ repository.ProductRepository,
		clientRepo repository.ClientRepository,
		saleRepo repository.SaleRepository,
	) error {
		sale, err := saleRepo.GetForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("bloquear venta: %w", err)
		}
		if sale == nil {
			return domain.NewNotFound(domain.EntitySale, id)
		}
		if patch.ClientID != nil {
			client, err := clientRepo.GetByID(ctx, *patch.ClientID)
			if err != nil {
				return fmt.Errorf("obtener cliente: %w", err)
			}
			if client == nil {
				return domain.NewNotFound(domain.EntityClient, *patch.ClientID)
			}
		}
		ok, err := saleRepo.UpdateHeader(ctx, id, patch, now)
		if err != nil {
			return fmt.Errorf("actualizar venta: %w", err)
		}
		if !ok {
			return domain.NewNotFound(domain.EntitySale, id)
		}
		return nil
	})
	if err != nil {
		uc.reject(span, "update", err)
		return nil, err
	}

	uc.log.Info().Int64("sale_id", id).Msg("venta actualizada")
	return &dto.MessageResponse{Message: fmt.Sprintf("Venta con ID %d actualizada con éxito", id)}, nil
}

// reject registra el rechazo en span, métricas y log. Los errores de negocio van en warn.
func (uc *SaleUseCase) reject(span trace.Span, op string, err error) {
	reason := rejectReason(err)
	span.RecordError(err)
	span.SetStatus(codes.Error, reason)
	if op == "create" {
		uc.metrics.SaleRejected(reason)
	}
	ev := uc.log.Warn()
	if reason == "internal" {
		ev = uc.log.Error()
	}
	ev.Err(err).Str("op", op).Str("reason", reason).Msg("operación de venta rechazada")
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return "validation"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	default:
		return "internal"
	}
}

// requestedProductIDs IDs únicos en orden ascendente (orden de bloqueo estable entre transacciones).
func requestedProductIDs(items []dto.SaleItemRequest) []int64 {
	ids := make([]int64, 0, len(items))
	for _, it := range items {
		if !slices.Contains(ids, it.ProductID) {
			ids = append(ids, it.ProductID)
		}
	}
	slices.Sort(ids)
	return ids
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
