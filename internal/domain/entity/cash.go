package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de recibo de caja.
const (
	CashReceiptIngreso = "INGRESO"
	CashReceiptEgreso  = "EGRESO"
)

// CashReceipt es un recibo de caja: un ingreso o egreso de dinero en la caja de
// una bodega, fuera del flujo de ventas (gastos, entradas varias).
type CashReceipt struct {
	ID           string
	Sequence     int64
	Number       string
	BranchID     string
	WarehouseID  string
	Type         string // INGRESO o EGRESO
	Description  string
	Date         time.Time
	Currency     string
	ExchangeRate decimal.Decimal
	AmountUSD    decimal.Decimal
	AmountCS     decimal.Decimal
	AffectsCash  bool // los que no afectan caja se excluyen del cierre diario
	CreatedBy    string
	CreatedAt    time.Time
}

// Deposit es un depósito bancario de efectivo de la caja de una bodega.
type Deposit struct {
	ID            string
	BranchID      string
	WarehouseID   string
	SalespersonID string
	BankID        string
	BankAccountID string
	Date          time.Time
	Currency      string
	ExchangeRate  decimal.Decimal
	AmountUSD     decimal.Decimal
	AmountCS      decimal.Decimal
	Note          string
	CreatedBy     string
	CreatedAt     time.Time
}
