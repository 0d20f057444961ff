package dto

import (
	"fmt"

	"github.com/jhoicas/ventas-api/internal/domain"
)

// PageQuery paginación por página para listados (?page=&limit=).
type PageQuery struct {
	Page  int `query:"page"`
	Limit int `query:"limit"`
}

// Normalize aplica valores por defecto (página 1, límite 10) y rechaza valores fuera de rango.
func (q PageQuery) Normalize(maxLimit int) (PageQuery, error) {
	if q.Page == 0 {
		q.Page = 1
	}
	if q.Limit == 0 {
		q.Limit = 10
	}
	if q.Page < 1 {
		return q, fmt.Errorf("%w: page debe ser mayor o igual a 1", domain.ErrInvalidInput)
	}
	if q.Limit < 1 || q.Limit > maxLimit {
		return q, fmt.Errorf("%w: limit debe estar entre 1 y %d", domain.ErrInvalidInput, maxLimit)
	}
	return q, nil
}

// Offset desplazamiento SQL para la página.
func (q PageQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// PageMeta metadatos de página en respuestas.
type PageMeta struct {
	Page     int `json:"page"`
	Limit    int `json:"limit"`
	Total    int `json:"total"`
	LastPage int `json:"last_page"`
}

// NewPageMeta calcula la última página (mínimo 1).
func NewPageMeta(q PageQuery, total int) PageMeta {
	last := 1
	if total > 0 {
		last = (total + q.Limit - 1) / q.Limit
	}
	return PageMeta{Page: q.Page, Limit: q.Limit, Total: total, LastPage: last}
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MessageResponse respuesta simple de confirmación.
type MessageResponse struct {
	Message string `json:"message"`
}
