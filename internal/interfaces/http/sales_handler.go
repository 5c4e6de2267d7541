package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/orangetec/calzapos/internal/application/dto"
	"github.com/orangetec/calzapos/internal/application/sales"
	"github.com/orangetec/calzapos/internal/domain"
)

// SalesHandler maneja las peticiones HTTP de ventas y reversiones (protegido).
type SalesHandler struct {
	commitUC   *sales.CommitSaleUseCase
	reversalUC *sales.ReversalUseCase
	ticketUC   *sales.TicketUseCase
}

// NewSalesHandler construye el handler.
func NewSalesHandler(commitUC *sales.CommitSaleUseCase, reversalUC *sales.ReversalUseCase, ticketUC *sales.TicketUseCase) *SalesHandler {
	return &SalesHandler{commitUC: commitUC, reversalUC: reversalUC, ticketUC: ticketUC}
}

// Commit compromete una venta de forma atómica.
// POST /api/sales
func (h *SalesHandler) Commit(c *fiber.Ctx) error {
	actor := GetActor(c)
	if actor == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CommitSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	sale, err := h.commitUC.CommitSale(c.Context(), actor, in)
	if err != nil {
		var stockErr *domain.InsufficientStockError
		if errors.As(err, &stockErr) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: stockErr.Error()})
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "bodega, cliente o producto no encontrado"})
		}
		if errors.Is(err, domain.ErrPaymentIncomplete) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "PAYMENT_INCOMPLETE", Message: "los pagos no cubren el total de la factura"})
		}
		if errors.Is(err, domain.ErrRateUnavailable) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "RATE_UNAVAILABLE", Message: "sin tasa de cambio configurada para la fecha"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(sale)
}

// GetByID obtiene una factura con sus líneas.
// GET /api/sales/:id
func (h *SalesHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	sale, err := h.commitUC.GetSale(c.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "factura no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(sale)
}

// Ticket genera el PDF del ticket de la factura.
// GET /api/sales/:id/ticket
func (h *SalesHandler) Ticket(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	pdfBytes, err := h.ticketUC.Ticket(c.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "factura no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set("Content-Type", "application/pdf")
	return c.Send(pdfBytes)
}

// RequestReversal solicita la anulación: genera el token y lo despacha por correo.
// POST /api/sales/:id/reversal/request
func (h *SalesHandler) RequestReversal(c *fiber.Ctx) error {
	actor := GetActor(c)
	id := c.Params("id")
	var in dto.RequestReversalRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.reversalUC.RequestReversal(c.Context(), actor, id, in.Reason)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "motivo requerido"})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "factura no encontrada"})
		}
		if errors.Is(err, domain.ErrInvoiceVoided) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_VOIDED", Message: "la factura ya está anulada"})
		}
		if errors.Is(err, domain.ErrHasCollections) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "HAS_COLLECTIONS", Message: "la factura tiene abonos registrados"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusAccepted).JSON(out)
}

// ConfirmReversal confirma la anulación con el token recibido por correo.
// POST /api/sales/:id/reversal/confirm
func (h *SalesHandler) ConfirmReversal(c *fiber.Ctx) error {
	actor := GetActor(c)
	id := c.Params("id")
	var in dto.ConfirmReversalRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.reversalUC.ConfirmReversal(c.Context(), actor, id, in.Token)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "token requerido"})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "factura no encontrada"})
		}
		if errors.Is(err, domain.ErrHasCollections) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "HAS_COLLECTIONS", Message: "la factura tiene abonos registrados"})
		}
		if errors.Is(err, domain.ErrTokenExpired) {
			return c.Status(fiber.StatusGone).JSON(dto.ErrorResponse{Code: "TOKEN_EXPIRED", Message: "el token de anulación expiró"})
		}
		if errors.Is(err, domain.ErrInvalidToken) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token de anulación inválido"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
