package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Abono es un pago parcial registrado contra una factura de crédito.
// Los abonos son editables y eliminables; cada mutación recalcula el estado de
// cobranza de la factura desde la suma completa de abonos.
type Abono struct {
	ID           string
	InvoiceID    string
	BranchID     string
	WarehouseID  string
	Sequence     int64
	Number       string
	Date         time.Time
	Currency     string
	ExchangeRate decimal.Decimal
	AmountUSD    decimal.Decimal
	AmountCS     decimal.Decimal
	Note         string
	CreatedBy    string
	CreatedAt    time.Time
}
