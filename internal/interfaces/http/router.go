package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/orangetec/calzapos/internal/application/auth"
	"github.com/orangetec/calzapos/internal/application/cashclose"
	"github.com/orangetec/calzapos/internal/application/collections"
	"github.com/orangetec/calzapos/internal/application/inventory"
	"github.com/orangetec/calzapos/internal/application/sales"
	"github.com/orangetec/calzapos/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CommitSale    *sales.CommitSaleUseCase
	Reversal      *sales.ReversalUseCase
	Ticket        *sales.TicketUseCase
	CollectionsUC *collections.UseCase
	InventoryUC   *inventory.UseCase
	CashCloseUC   *cashclose.UseCase
	CashbookUC    *cashclose.CashbookUseCase
	AuthUC        *auth.UseCase
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Alta de usuarios: solo admin.
	protected.Post("/auth/register", RequireRole(entity.RoleAdmin), authHandler.Register)

	// Ventas y reversiones (protegido)
	salesGroup := protected.Group("/sales")
	salesHandler := NewSalesHandler(deps.CommitSale, deps.Reversal, deps.Ticket)
	salesGroup.Post("/", salesHandler.Commit)
	salesGroup.Get("/:id", salesHandler.GetByID)
	salesGroup.Get("/:id/ticket", salesHandler.Ticket)
	salesGroup.Post("/:id/reversal/request", salesHandler.RequestReversal)
	// Confirmar exige además un rol autorizador; el token es el control dual.
	salesGroup.Post("/:id/reversal/confirm", RequireRole(entity.RoleAdmin, entity.RoleCajero), salesHandler.ConfirmReversal)

	// Cobranza (protegido)
	abonos := protected.Group("/abonos")
	collectionsHandler := NewCollectionsHandler(deps.CollectionsUC)
	abonos.Post("/", collectionsHandler.Record)
	abonos.Put("/:id", collectionsHandler.Update)
	abonos.Delete("/:id", collectionsHandler.Delete)

	// Inventario (protegido)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.InventoryUC)
	invGroup.Get("/balance", inventoryHandler.Balance)
	invGroup.Get("/movements", inventoryHandler.ListMovements)
	invGroup.Post("/receipts", inventoryHandler.RecordReceipt)
	invGroup.Post("/issues", inventoryHandler.RecordIssue)

	// Caja: recibos, depósitos y arqueo (protegido)
	cashGroup := protected.Group("/cash")
	cashHandler := NewCashHandler(deps.CashCloseUC, deps.CashbookUC)
	cashGroup.Post("/receipts", cashHandler.RecordReceipt)
	cashGroup.Post("/deposits", cashHandler.RecordDeposit)
	cashGroup.Post("/closings", cashHandler.Close)
	cashGroup.Get("/closings/:id", cashHandler.GetClosing)
}
