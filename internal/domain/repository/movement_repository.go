package repository

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/orangetec/calzapos/internal/domain/entity"
)

// MovementRepository persiste y consulta el libro de movimientos (append-only).
type MovementRepository interface {
	Create(m *entity.Movement) error

	// Balance suma las cantidades con signo del par (producto, bodega)
	// excluyendo los movimientos cuya factura padre está ANULADA.
	// Par desconocido devuelve cero, no error.
	Balance(productID, warehouseID string) (decimal.Decimal, error)

	// ListByTransaction devuelve los movimientos de un documento padre.
	ListByTransaction(transactionID string) ([]*entity.Movement, error)

	// ListByWarehouse devuelve movimientos de una bodega en un rango de fechas.
	ListByWarehouse(warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error)
}
