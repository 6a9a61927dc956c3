package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tu-usuario/stockmaster-api/internal/application/auth"
	"github.com/tu-usuario/stockmaster-api/internal/application/identity"
	"github.com/tu-usuario/stockmaster-api/internal/application/movements"
	"github.com/tu-usuario/stockmaster-api/internal/application/stock"
	"github.com/tu-usuario/stockmaster-api/internal/application/usecase"
	"github.com/tu-usuario/stockmaster-api/internal/infrastructure/email"
	"github.com/tu-usuario/stockmaster-api/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/stockmaster-api/internal/interfaces/http"
	"github.com/tu-usuario/stockmaster-api/pkg/config"
	"github.com/tu-usuario/stockmaster-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   "info",
		Service: cfg.App.Name,
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

	userRepo := postgres.NewUserRepository(pool)
	orgRepo := postgres.NewOrganizationRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	ledgerRepo := postgres.NewLedgerRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// SMTP opcional: sin host configurado el registro funciona sin correo.
	var mailer auth.EmailSender
	if cfg.SMTP.Enabled() {
		mailer = email.NewSMTPSender(cfg.SMTP)
	}

	authUC := auth.NewUseCase(userRepo, mailer, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log.Zerolog())
	organizationUC := usecase.NewOrganizationUseCase(orgRepo, userRepo)
	productUC := usecase.NewProductUseCase(productRepo, txRunner)
	warehouseUC := usecase.NewWarehouseUseCase(warehouseRepo, locationRepo)
	dashboardUC := usecase.NewDashboardUseCase(productRepo, movementRepo)
	movementUC := movements.NewUseCase(movementRepo, productRepo, locationRepo)
	executeUC := movements.NewExecuteMovementUseCase(txRunner)
	adjustUC := movements.NewAdjustInventoryUseCase(txRunner)
	stockUC := stock.NewUseCase(ledgerRepo, productRepo, locationRepo, warehouseRepo)
	tenantResolver := identity.NewResolver(userRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat("./docs/swagger.json"); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "StockMaster API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		OrganizationUC: organizationUC,
		ProductUC:      productUC,
		WarehouseUC:    warehouseUC,
		DashboardUC:    dashboardUC,
		MovementUC:     movementUC,
		ExecuteUC:      executeUC,
		AdjustUC:       adjustUC,
		StockUC:        stockUC,
		TenantResolver: tenantResolver,
		JWTSecret:      cfg.JWT.Secret,
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
