package entity

import "time"

// Client representa un cliente que compra (referenciado por Sale, nunca copiado).
type Client struct {
	ID        int64
	Name      string
	Email     string // único
	Phone     string // opcional
	TaxID     string // CPF / documento, único
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}
