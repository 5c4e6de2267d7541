package repository

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/orangetec/calzapos/internal/domain/entity"
)

// PendingCredit es el crédito pendiente de una factura PENDIENTE para el cierre de caja.
type PendingCredit struct {
	InvoiceID string
	Currency  string
	TotalUSD  decimal.Decimal
	TotalCS   decimal.Decimal
	AbonosUSD decimal.Decimal
	AbonosCS  decimal.Decimal
}

// InvoiceRepository persiste facturas, sus líneas y sus pagos.
type InvoiceRepository interface {
	Create(inv *entity.Invoice) error
	CreateItem(item *entity.InvoiceItem) error
	CreatePayment(p *entity.Payment) error

	GetByID(id string) (*entity.Invoice, error)
	GetItems(invoiceID string) ([]*entity.InvoiceItem, error)
	GetPayments(invoiceID string) ([]*entity.Payment, error)

	// GetForUpdate bloquea la fila de la factura; lo usan reversión y cobranza
	// para que el estado no cambie bajo sus pies.
	GetForUpdate(id string) (*entity.Invoice, error)

	// MarkVoided cambia estado a ANULADA y sella los metadatos de reversión.
	MarkVoided(id, reason, actor string, at time.Time) error

	// SetCollectionStatus actualiza solo el estado de cobranza.
	SetCollectionStatus(id, status string) error

	// SalesUSDForDay suma los totales USD de las facturas ACTIVAS de la
	// sucursal/bodega en la fecha. Cada factura aporta su total USD registrado
	// con su propia tasa.
	SalesUSDForDay(branchID, warehouseID string, date time.Time) (decimal.Decimal, error)

	// PendingCreditForDay devuelve las facturas PENDIENTES de la fecha con sus
	// totales y la suma de abonos aplicados hasta el momento.
	PendingCreditForDay(branchID, warehouseID string, date time.Time) ([]*PendingCredit, error)
}
