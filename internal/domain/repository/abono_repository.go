package repository

import (
	"github.com/shopspring/decimal"
	"github.com/orangetec/calzapos/internal/domain/entity"
)

// AbonoRepository persiste los abonos (pagos parciales) de cobranza.
type AbonoRepository interface {
	Create(a *entity.Abono) error
	Update(a *entity.Abono) error
	Delete(id string) error
	GetByID(id string) (*entity.Abono, error)
	ListByInvoice(invoiceID string) ([]*entity.Abono, error)

	// SumByInvoice devuelve la suma de abonos de la factura en ambas monedas.
	SumByInvoice(invoiceID string) (usd, cs decimal.Decimal, err error)

	// CountByInvoice cuenta los abonos de la factura (precondición de reversión).
	CountByInvoice(invoiceID string) (int, error)
}
