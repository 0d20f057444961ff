package entity

import "time"

// User representa un operador del back-office.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}
