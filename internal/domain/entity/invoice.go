package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una factura de venta.
const (
	InvoiceStatusActive = "ACTIVA"
	InvoiceStatusVoid   = "ANULADA"
)

// Estados de cobranza de una factura.
const (
	CollectionStatusPending = "PENDIENTE"
	CollectionStatusPaid    = "PAGADA"
)

// Roles de línea para combos promocionales. Afectan solo presentación del
// ticket, nunca el cálculo de existencias ni de totales.
const (
	ComboRoleParent = "PARENT"
	ComboRoleGift   = "GIFT"
)

// Invoice representa la cabecera de una factura de venta. Los campos numéricos
// son inmutables después del commit; solo cambian Status, CollectionStatus y
// los metadatos de reversión, siempre a través de los flujos documentados.
type Invoice struct {
	ID               string
	Sequence         int64  // consecutivo por bodega
	Number           string // número visible: prefijo de sucursal + consecutivo
	BranchID         string
	WarehouseID      string
	CustomerID       string
	SalespersonID    string
	Date             time.Time
	Currency         string          // CS o USD (moneda nativa de la factura)
	ExchangeRate     decimal.Decimal // tasa vigente al momento del commit
	TotalUSD         decimal.Decimal
	TotalCS          decimal.Decimal
	TotalItems       decimal.Decimal
	Status           string
	CollectionStatus string
	ReversalReason   string
	ReversedBy       string
	ReversedAt       *time.Time
	CreatedBy        string
	CreatedAt        time.Time
}

// InvoiceItem es una línea de la factura con precios y subtotales en ambas monedas.
type InvoiceItem struct {
	ID           string
	InvoiceID    string
	ProductID    string
	Quantity     decimal.Decimal
	UnitPriceUSD decimal.Decimal
	UnitPriceCS  decimal.Decimal
	SubtotalUSD  decimal.Decimal
	SubtotalCS   decimal.Decimal
	ComboRole    string // "", PARENT o GIFT
	ComboGroup   string // agrupa las líneas de un mismo combo
}

// Payment es un pago aplicado a la factura en el momento de la venta.
type Payment struct {
	ID              string
	InvoiceID       string
	PaymentMethodID string
	BankID          string
	BankAccountID   string
	AmountUSD       decimal.Decimal
	AmountCS        decimal.Decimal
}
