package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del libro de existencias.
const (
	MovementTypeRECEIPT  = "RECEIPT"  // ingreso de inventario (compra, traslado entrante)
	MovementTypeISSUE    = "ISSUE"    // egreso de inventario (merma, traslado saliente)
	MovementTypeSALE     = "SALE"     // salida por venta (cantidad negativa)
	MovementTypeREVERSAL = "REVERSAL" // compensación por reversión de venta (cantidad positiva)
)

// Movement es un registro inmutable del libro de existencias: un cambio de
// cantidad con signo para un producto en una bodega. Nunca se actualiza ni se
// borra; una reversión escribe un movimiento compensatorio nuevo.
type Movement struct {
	ID            string
	TransactionID string // documento padre: factura, ingreso o egreso
	ProductID     string
	WarehouseID   string
	Type          string
	Quantity      decimal.Decimal // positivo ingresos/reversión, negativo egresos/venta
	UnitCostCS    decimal.Decimal
	UnitCostUSD   decimal.Decimal
	Date          time.Time
	CreatedAt     time.Time
	CreatedBy     string
}
