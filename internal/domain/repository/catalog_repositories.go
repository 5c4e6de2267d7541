package repository

import (
	"github.com/shopspring/decimal"
	"github.com/orangetec/calzapos/internal/domain/entity"
)

// ProductRepository lee el catálogo de productos. El núcleo solo escribe el
// campo de última tasa usada.
type ProductRepository interface {
	GetByID(id string) (*entity.Product, error)
	GetByCode(code string) (*entity.Product, error)
	UpdateLastRate(id string, rate decimal.Decimal) error
}

// WarehouseRepository lee bodegas y su sucursal.
type WarehouseRepository interface {
	GetByID(id string) (*entity.Warehouse, error)
	GetBranch(branchID string) (*entity.Branch, error)
}

// CustomerRepository lee clientes (catálogo externo).
type CustomerRepository interface {
	GetByID(id string) (*entity.Customer, error)
}

// PaymentMethodRepository lee formas de pago, bancos y cuentas.
type PaymentMethodRepository interface {
	GetByID(id string) (*entity.PaymentMethod, error)
}

// UserRepository lee y crea usuarios (colaborador de identidad).
type UserRepository interface {
	Create(u *entity.User) error
	FindByEmail(email string) (*entity.User, error)
	GetByID(id string) (*entity.User, error)
}
