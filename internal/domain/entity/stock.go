package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock es el saldo materializado de un producto en una bodega.
// Es una caché derivada del libro de movimientos: se actualiza en la misma
// transacción que escribe cada movimiento y su fila (SELECT FOR UPDATE) es el
// punto de serialización para ventas concurrentes. El contrato de lectura del
// saldo sigue siendo la suma del libro.
type Stock struct {
	ProductID   string
	WarehouseID string
	Quantity    decimal.Decimal
	UpdatedAt   time.Time
}
