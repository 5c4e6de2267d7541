package entity

import "time"

// PaymentMethod es una forma de pago del catálogo (efectivo, tarjeta,
// transferencia...). Bancos y cuentas son catálogo externo: pagos y depósitos
// solo guardan sus IDs.
type PaymentMethod struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
