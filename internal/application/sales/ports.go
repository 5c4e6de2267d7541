package sales

import (
	"context"
	"time"

	"github.com/orangetec/calzapos/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa transacción. Garantiza que cada operación de venta
// o reversión sea todo-o-nada: cualquier error revierte todas las escrituras,
// incluido el consecutivo asignado (los huecos son cosméticos, los duplicados no).
type TxRunner interface {
	RunSale(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockRepository,
		invoiceRepo repository.InvoiceRepository,
		seqRepo repository.SequenceRepository,
		productRepo repository.ProductRepository,
	) error) error

	RunReversal(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockRepository,
		invoiceRepo repository.InvoiceRepository,
		abonoRepo repository.AbonoRepository,
		tokenRepo repository.ReversalTokenRepository,
	) error) error
}

// ReversalNotice es la notificación que se despacha al solicitar una reversión:
// token, motivo y un resumen de la factura para que el autorizador decida.
type ReversalNotice struct {
	InvoiceID     string
	InvoiceNumber string
	Token         string
	Reason        string
	RequestedBy   string
	TotalCS       string
	TotalUSD      string
	ExpiresAt     time.Time
}

// Notifier despacha la notificación de reversión (correo en producción).
// Su fallo hace fallar la solicitud completa; no retiene ningún lock.
type Notifier interface {
	SendReversalRequest(ctx context.Context, notice ReversalNotice) error
}
