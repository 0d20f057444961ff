package dto

import "time"

// SaleItemRequest línea solicitada: producto y cantidad.
type SaleItemRequest struct {
	ProductID int64 `json:"product_id" validate:"gt=0"`
	Amount    int   `json:"amount" validate:"gte=1"`
}

// CreateSaleRequest entrada para registrar una venta.
type CreateSaleRequest struct {
	ClientID int64             `json:"client_id" validate:"gt=0"`
	Items    []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdateSaleRequest patch de cabecera. Solo date y client_id son editables.
type UpdateSaleRequest struct {
	Date     *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	ClientID *int64  `json:"client_id" validate:"omitempty,gt=0"`
}

// SaleListQuery filtros del listado de ventas.
type SaleListQuery struct {
	PageQuery
	IncludeCancelled bool `query:"include_cancelled"`
}

// SaleItemResponse línea de venta aplanada.
type SaleItemResponse struct {
	ProductID   int64   `json:"product_id"`
	ProductName *string `json:"product_name"`
	Amount      int     `json:"amount"`
	UnitPrice   string  `json:"unit_price"`
	Subtotal    string  `json:"subtotal"`
}

// SaleResponse salida de una venta.
type SaleResponse struct {
	ID          int64              `json:"id"`
	Date        string             `json:"date"`
	Total       string             `json:"total"`
	ClientID    int64              `json:"client_id"`
	ClientName  *string            `json:"client_name"`
	CancelledAt *time.Time         `json:"cancelled_at,omitempty"`
	Items       []SaleItemResponse `json:"items"`
}

// SaleListResponse lista paginada de ventas.
type SaleListResponse struct {
	Data []SaleResponse `json:"data"`
	Meta PageMeta       `json:"meta"`
}
