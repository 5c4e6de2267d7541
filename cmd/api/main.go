package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/orangetec/calzapos/internal/application/auth"
	"github.com/orangetec/calzapos/internal/application/cashclose"
	"github.com/orangetec/calzapos/internal/application/collections"
	"github.com/orangetec/calzapos/internal/application/inventory"
	"github.com/orangetec/calzapos/internal/application/rates"
	"github.com/orangetec/calzapos/internal/application/sales"
	inframail "github.com/orangetec/calzapos/internal/infrastructure/mail"
	infrapdf "github.com/orangetec/calzapos/internal/infrastructure/pdf"
	"github.com/orangetec/calzapos/internal/infrastructure/postgres"
	httpRouter "github.com/orangetec/calzapos/internal/interfaces/http"
	"github.com/orangetec/calzapos/pkg/config"
	"github.com/orangetec/calzapos/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Repositorios atados al pool (lecturas fuera de transacción).
	userRepo := postgres.NewUserRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	abonoRepo := postgres.NewAbonoRepository(pool)
	tokenRepo := postgres.NewReversalTokenRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	rateRepo := postgres.NewExchangeRateRepository(pool)
	closingRepo := postgres.NewCashClosingRepository(pool)
	methodRepo := postgres.NewPaymentMethodRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	rateSvc := rates.NewService(rateRepo)
	notifier := inframail.NewReversalNotifier(cfg.Mail)
	ticketGen := infrapdf.NewMarotoTicketGenerator()

	commitSaleUC := sales.NewCommitSaleUseCase(txRunner, rateSvc, warehouseRepo, productRepo, customerRepo, invoiceRepo, methodRepo)
	reversalUC := sales.NewReversalUseCase(txRunner, invoiceRepo, abonoRepo, tokenRepo, notifier, sales.ReversalConfig{
		TokenTTL: cfg.POS.ReversalTokenTTL,
	})
	ticketUC := sales.NewTicketUseCase(invoiceRepo, productRepo, customerRepo, warehouseRepo, ticketGen)
	collectionsUC := collections.NewUseCase(txRunner, rateSvc, warehouseRepo, invoiceRepo, abonoRepo)
	inventoryUC := inventory.NewUseCase(txRunner, rateSvc, movementRepo, warehouseRepo, productRepo)
	cashCloseUC := cashclose.NewUseCase(txRunner, rateSvc, closingRepo)
	cashbookUC := cashclose.NewCashbookUseCase(txRunner, rateSvc, warehouseRepo)
	authUC := auth.NewUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "CalzaPOS API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CommitSale:    commitSaleUC,
		Reversal:      reversalUC,
		Ticket:        ticketUC,
		CollectionsUC: collectionsUC,
		InventoryUC:   inventoryUC,
		CashCloseUC:   cashCloseUC,
		CashbookUC:    cashbookUC,
		AuthUC:        authUC,
		JWTSecret:     cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
