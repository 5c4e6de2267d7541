package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin    = "admin"
	RoleCajero   = "cajero"
	RoleVendedor = "vendedor"
)

// User representa un usuario del sistema (colaborador de identidad; el núcleo
// solo usa su nombre para el sello de auditoría).
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
