package repository

import (
	"time"

	"github.com/orangetec/calzapos/internal/domain/entity"
)

// ReversalTokenRepository persiste los tokens de anulación de facturas.
type ReversalTokenRepository interface {
	Create(t *entity.ReversalToken) error

	// LatestUnused devuelve el token sin usar más reciente de la factura, o nil.
	LatestUnused(invoiceID string) (*entity.ReversalToken, error)

	// MarkUsed sella el token como usado solo si sigue sin usar; devuelve false
	// si otro confirmó primero (idempotencia del confirm).
	MarkUsed(id string, at time.Time) (bool, error)
}
