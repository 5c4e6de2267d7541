package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo. El catálogo es un colaborador
// externo: el núcleo lo lee y solo escribe el campo LastRate (última tasa usada
// al fijar precios).
type Product struct {
	ID          string
	Code        string // único
	Description string
	Brand       string
	Price1CS    decimal.Decimal
	Price2CS    decimal.Decimal
	Price3CS    decimal.Decimal
	Price1USD   decimal.Decimal
	Price2USD   decimal.Decimal
	Price3USD   decimal.Decimal
	CostCS      decimal.Decimal
	LastRate    decimal.Decimal // última tasa de cambio aplicada a los precios
	IsService   bool            // los servicios no mueven existencias
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
