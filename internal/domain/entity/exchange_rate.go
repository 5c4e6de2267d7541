package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate es la tasa de cambio CS/USD vigente a partir de una fecha.
// La tabla es de solo lectura para el núcleo transaccional.
type ExchangeRate struct {
	ID            string
	EffectiveDate time.Time
	Period        string // etiqueta del período configurado (ej. "2024-01")
	Rate          decimal.Decimal
	CreatedAt     time.Time
}
