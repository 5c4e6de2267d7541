package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/orangetec/calzapos/internal/application/cashclose"
	"github.com/orangetec/calzapos/internal/application/dto"
	"github.com/orangetec/calzapos/internal/domain"
)

// CashHandler maneja recibos de caja, depósitos y arqueos (protegido).
type CashHandler struct {
	closeUC    *cashclose.UseCase
	cashbookUC *cashclose.CashbookUseCase
}

// NewCashHandler construye el handler.
func NewCashHandler(closeUC *cashclose.UseCase, cashbookUC *cashclose.CashbookUseCase) *CashHandler {
	return &CashHandler{closeUC: closeUC, cashbookUC: cashbookUC}
}

// Close calcula y persiste el arqueo de caja del día.
// POST /api/cash/closings
func (h *CashHandler) Close(c *fiber.Ctx) error {
	actor := GetActor(c)
	var in dto.CloseCashRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.closeUC.Close(c.Context(), actor, in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
		}
		if errors.Is(err, domain.ErrDuplicateClosing) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE_CLOSING", Message: "ya existe un cierre para esa sucursal, bodega y fecha"})
		}
		if errors.Is(err, domain.ErrRateUnavailable) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "RATE_UNAVAILABLE", Message: "sin tasa de cambio configurada para la fecha"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetClosing devuelve el desglose de un arqueo.
// GET /api/cash/closings/:id
func (h *CashHandler) GetClosing(c *fiber.Ctx) error {
	id := c.Params("id")
	out, err := h.closeUC.GetClosing(c.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "cierre no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// RecordReceipt registra un recibo de caja (INGRESO o EGRESO).
// POST /api/cash/receipts
func (h *CashHandler) RecordReceipt(c *fiber.Ctx) error {
	actor := GetActor(c)
	var in dto.RecordCashReceiptRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.cashbookUC.RecordCashReceipt(c.Context(), actor, in)
	if err != nil {
		return cashbookError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// RecordDeposit registra un depósito bancario de efectivo.
// POST /api/cash/deposits
func (h *CashHandler) RecordDeposit(c *fiber.Ctx) error {
	actor := GetActor(c)
	var in dto.RecordDepositRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.cashbookUC.RecordDeposit(c.Context(), actor, in)
	if err != nil {
		return cashbookError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func cashbookError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrInvalidInput) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	}
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "sucursal o bodega no encontrada"})
	}
	if errors.Is(err, domain.ErrRateUnavailable) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "RATE_UNAVAILABLE", Message: "sin tasa de cambio configurada para la fecha"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
