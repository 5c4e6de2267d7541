package entity

import "time"

// ReversalToken es el token numérico de un solo uso que autoriza la anulación
// de una factura (control dual: un actor solicita, otro confirma con el token).
type ReversalToken struct {
	ID          string
	InvoiceID   string
	Token       string // código numérico corto
	Reason      string
	RequestedBy string
	CreatedAt   time.Time
	ExpiresAt   time.Time
	UsedAt      *time.Time
}

// Usable informa si el token aún puede confirmarse en el instante dado.
func (t *ReversalToken) Usable(now time.Time) bool {
	return t.UsedAt == nil && now.Before(t.ExpiresAt)
}
