package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/orangetec/calzapos/internal/application/dto"
	"github.com/orangetec/calzapos/internal/application/inventory"
	"github.com/orangetec/calzapos/internal/domain"
)

// InventoryHandler maneja saldos e ingresos/egresos de inventario (protegido).
type InventoryHandler struct {
	uc *inventory.UseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.UseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// Balance devuelve el saldo derivado del libro para un producto en una bodega.
// GET /api/inventory/balance?product_id=&warehouse_id=
func (h *InventoryHandler) Balance(c *fiber.Ctx) error {
	productID := c.Query("product_id")
	warehouseID := c.Query("warehouse_id")
	out, err := h.uc.Balance(c.Context(), productID, warehouseID)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id y warehouse_id son requeridos"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// ListMovements lista el libro de movimientos de una bodega.
// GET /api/inventory/movements?warehouse_id=&from=&to=&limit=&offset=
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	out, err := h.uc.ListMovements(c.Context(), c.Query("warehouse_id"), c.Query("from"), c.Query("to"), page)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "warehouse_id requerido; fechas YYYY-MM-DD"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// RecordReceipt registra un ingreso de inventario.
// POST /api/inventory/receipts
func (h *InventoryHandler) RecordReceipt(c *fiber.Ctx) error {
	actor := GetActor(c)
	var in dto.RecordInventoryDocRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.RecordReceipt(c.Context(), actor, in)
	if err != nil {
		return inventoryError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// RecordIssue registra un egreso de inventario.
// POST /api/inventory/issues
func (h *InventoryHandler) RecordIssue(c *fiber.Ctx) error {
	actor := GetActor(c)
	var in dto.RecordInventoryDocRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.RecordIssue(c.Context(), actor, in)
	if err != nil {
		return inventoryError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func inventoryError(c *fiber.Ctx, err error) error {
	var stockErr *domain.InsufficientStockError
	if errors.As(err, &stockErr) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: stockErr.Error()})
	}
	if errors.Is(err, domain.ErrInvalidInput) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	}
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "bodega o producto no encontrado"})
	}
	if errors.Is(err, domain.ErrRateUnavailable) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "RATE_UNAVAILABLE", Message: "sin tasa de cambio configurada para la fecha"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
