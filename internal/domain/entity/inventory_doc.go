package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de documento de inventario.
const (
	InventoryDocRECEIPT = "INGRESO"
	InventoryDocISSUE   = "EGRESO"
)

// InventoryDoc es la cabecera de un ingreso o egreso de inventario. Cada línea
// genera un movimiento en el libro de existencias dentro de la misma transacción.
type InventoryDoc struct {
	ID           string
	Type         string // INGRESO o EGRESO
	WarehouseID  string
	SupplierID   string // solo ingresos que lo requieran
	Date         time.Time
	Currency     string
	ExchangeRate decimal.Decimal
	TotalUSD     decimal.Decimal
	TotalCS      decimal.Decimal
	Note         string
	CreatedBy    string
	CreatedAt    time.Time
}

// InventoryDocItem es una línea de ingreso o egreso con costos en ambas monedas.
type InventoryDocItem struct {
	ID          string
	DocID       string
	ProductID   string
	Quantity    decimal.Decimal
	UnitCostUSD decimal.Decimal
	UnitCostCS  decimal.Decimal
	SubtotalUSD decimal.Decimal
	SubtotalCS  decimal.Decimal
}
