package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrTransactionFailure = errors.New("fallo en la transacción")
)

// Entidades referenciadas por NotFoundError.
const (
	EntityClient  = "cliente"
	EntityProduct = "producto"
	EntitySale    = "venta"
	EntityUser    = "usuario"
)

// NotFoundError indica qué entidad falta. errors.Is(err, ErrNotFound) es verdadero.
type NotFoundError struct {
	Entity string
	ID     int64
}

// NewNotFound construye el error para la entidad e ID dados.
func NewNotFound(entity string, id int64) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s con ID %d no encontrado", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// InsufficientStockError regla de negocio violada al vender más de lo disponible.
// errors.Is(err, ErrInsufficientStock) es verdadero.
type InsufficientStockError struct {
	ProductID   int64
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para el producto %q (ID %d): disponible %d, solicitado %d",
		e.ProductName, e.ProductID, e.Available, e.Requested)
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }
