package sales

import (
	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
)

// DateLayout formato de la fecha de venta (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// ToSaleResponse aplana el agregado. Cliente o producto ausentes se devuelven con nombre null.
func ToSaleResponse(s *entity.Sale) dto.SaleResponse {
	out := dto.SaleResponse{
		ID:          s.ID,
		Date:        s.Date.Format(DateLayout),
		Total:       s.Total.StringFixed(2),
		ClientID:    s.ClientID,
		CancelledAt: s.DeletedAt,
		Items:       make([]dto.SaleItemResponse, 0, len(s.Items)),
	}
	if s.Client != nil {
		name := s.Client.Name
		out.ClientName = &name
	}
	for _, it := range s.Items {
		item := dto.SaleItemResponse{
			ProductID: it.ProductID,
			Amount:    it.Amount,
			UnitPrice: it.Price.StringFixed(2),
			Subtotal:  it.Subtotal().StringFixed(2),
		}
		if it.Product != nil {
			name := it.Product.Name
			item.ProductName = &name
		}
		out.Items = append(out.Items, item)
	}
	return out
}

// ToSaleListResponse mapea una página de ventas.
func ToSaleListResponse(list []*entity.Sale, meta dto.PageMeta) dto.SaleListResponse {
	out := dto.SaleListResponse{Data: make([]dto.SaleResponse, 0, len(list)), Meta: meta}
	for _, s := range list {
		out.Data = append(out.Data, ToSaleResponse(s))
	}
	return out
}
