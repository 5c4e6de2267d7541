package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/orangetec/calzapos/internal/application/collections"
	"github.com/orangetec/calzapos/internal/application/dto"
	"github.com/orangetec/calzapos/internal/domain"
)

// CollectionsHandler maneja las peticiones HTTP de cobranza (protegido).
type CollectionsHandler struct {
	uc *collections.UseCase
}

// NewCollectionsHandler construye el handler.
func NewCollectionsHandler(uc *collections.UseCase) *CollectionsHandler {
	return &CollectionsHandler{uc: uc}
}

// Record registra un abono contra una factura de crédito.
// POST /api/abonos
func (h *CollectionsHandler) Record(c *fiber.Ctx) error {
	actor := GetActor(c)
	var in dto.RecordAbonoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.RecordAbono(c.Context(), actor, in)
	if err != nil {
		return collectionsError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update edita un abono existente.
// PUT /api/abonos/:id
func (h *CollectionsHandler) Update(c *fiber.Ctx) error {
	actor := GetActor(c)
	id := c.Params("id")
	var in dto.UpdateAbonoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.UpdateAbono(c.Context(), actor, id, in)
	if err != nil {
		return collectionsError(c, err)
	}
	return c.JSON(out)
}

// Delete elimina un abono y recalcula el estado de cobranza.
// DELETE /api/abonos/:id
func (h *CollectionsHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.uc.DeleteAbono(c.Context(), id); err != nil {
		return collectionsError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func collectionsError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrInvalidInput) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	}
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "factura o abono no encontrado"})
	}
	if errors.Is(err, domain.ErrInvoiceVoided) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVOICE_VOIDED", Message: "la factura está anulada"})
	}
	if errors.Is(err, domain.ErrInvoiceAlreadyPaid) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_PAID", Message: "la factura ya está pagada"})
	}
	if errors.Is(err, domain.ErrRateUnavailable) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "RATE_UNAVAILABLE", Message: "sin tasa de cambio configurada para la fecha"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
