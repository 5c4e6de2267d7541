package mail

import (
	"context"
	"fmt"
	"strings"

	gomail "gopkg.in/gomail.v2"

	"github.com/orangetec/calzapos/internal/application/sales"
	"github.com/orangetec/calzapos/pkg/config"
)

var _ sales.Notifier = (*ReversalNotifier)(nil)

// ReversalNotifier despacha por SMTP el token de anulación a los autorizadores.
// El envío es síncrono: si falla, falla la solicitud de reversión completa.
type ReversalNotifier struct {
	cfg config.MailConfig
}

// NewReversalNotifier construye el notificador SMTP.
func NewReversalNotifier(cfg config.MailConfig) *ReversalNotifier {
	return &ReversalNotifier{cfg: cfg}
}

// SendReversalRequest arma y envía el correo con el token y el resumen de la factura.
func (n *ReversalNotifier) SendReversalRequest(_ context.Context, notice sales.ReversalNotice) error {
	if len(n.cfg.Recipients) == 0 {
		return fmt.Errorf("mail: sin destinatarios configurados para reversiones")
	}

	var body strings.Builder
	fmt.Fprintf(&body, "Solicitud de anulación de factura %s\n\n", notice.InvoiceNumber)
	fmt.Fprintf(&body, "Solicitado por: %s\n", notice.RequestedBy)
	fmt.Fprintf(&body, "Motivo: %s\n", notice.Reason)
	fmt.Fprintf(&body, "Total: C$ %s / US$ %s\n\n", notice.TotalCS, notice.TotalUSD)
	fmt.Fprintf(&body, "Token de autorización: %s\n", notice.Token)
	fmt.Fprintf(&body, "Válido hasta: %s\n", notice.ExpiresAt.Format("2006-01-02 15:04:05"))

	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.From)
	m.SetHeader("To", n.cfg.Recipients...)
	m.SetHeader("Subject", fmt.Sprintf("Anulación de factura %s", notice.InvoiceNumber))
	m.SetBody("text/plain", body.String())

	d := gomail.NewDialer(n.cfg.Host, n.cfg.Port, n.cfg.User, n.cfg.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("mail: enviar notificación de reversión: %w", err)
	}
	return nil
}
