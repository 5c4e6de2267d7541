package domain

import (
	"errors"
	"fmt"
	"time"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrInsufficientStock  = errors.New("existencia insuficiente")
	ErrRateUnavailable    = errors.New("tasa de cambio no disponible")
	ErrPaymentIncomplete  = errors.New("los pagos no cubren el total de la factura")
	ErrHasCollections     = errors.New("la factura tiene abonos aplicados y no puede revertirse")
	ErrInvalidToken       = errors.New("token de reversión inválido")
	ErrTokenExpired       = errors.New("token de reversión expirado")
	ErrDuplicateClosing   = errors.New("ya existe un cierre de caja para esa sucursal, bodega y fecha")
	ErrInvoiceVoided      = errors.New("la factura está anulada")
	ErrInvoiceAlreadyPaid = errors.New("la factura ya está pagada")
)

// InsufficientStockError señala qué producto no tiene existencia suficiente.
// errors.Is(err, ErrInsufficientStock) sigue funcionando para los callers.
type InsufficientStockError struct {
	ProductID string
	Available string
	Requested string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("existencia insuficiente para producto %s (disponible %s, solicitado %s)",
		e.ProductID, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// RateUnavailableError señala para qué fecha no hay tasa de cambio configurada.
type RateUnavailableError struct {
	Date time.Time
}

func (e *RateUnavailableError) Error() string {
	return fmt.Sprintf("tasa de cambio no disponible para %s", e.Date.Format("2006-01-02"))
}

func (e *RateUnavailableError) Unwrap() error { return ErrRateUnavailable }
