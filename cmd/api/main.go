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
	appanalytics "github.com/jhoicas/Costeo-api/internal/application/analytics"
	"github.com/jhoicas/Costeo-api/internal/application/inventory"
	"github.com/jhoicas/Costeo-api/internal/application/usecase"
	infracache "github.com/jhoicas/Costeo-api/internal/infrastructure/cache"
	infrapdf "github.com/jhoicas/Costeo-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Costeo-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Costeo-api/internal/interfaces/http"
	"github.com/jhoicas/Costeo-api/pkg/config"
	"github.com/jhoicas/Costeo-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
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

	if err := postgres.Migrate(ctx, pool, log); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	reportCache, err := infracache.NewReportCache(cfg.Cache)
	if err != nil {
		// Sin Redis la API sigue funcionando: los reportes se calculan en cada petición.
		log.Warn().Err(err).Msg("cache de reportes deshabilitado")
		reportCache = infracache.NewNoopReportCache()
	}
	defer func() { _ = reportCache.Close() }()

	materialRepo := postgres.NewMaterialRepository(pool)
	lotRepo := postgres.NewLotRepository(pool)
	ledgerRepo := postgres.NewLedgerRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	productionRepo := postgres.NewProductionRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Protección: foto del tenant + motor + cache; también invalida tras cada escritura.
	loader := appanalytics.NewSnapshotLoader(materialRepo, lotRepo, ledgerRepo, productRepo, productionRepo)
	pdfGenerator := infrapdf.NewMarotoPDFGenerator(cfg.App.Name)
	protectionUC := appanalytics.NewProtectionUseCase(loader, reportCache, pdfGenerator, log)

	materialUC := usecase.NewMaterialUseCase(materialRepo, ledgerRepo, protectionUC, log)
	productUC := usecase.NewProductUseCase(productRepo, materialRepo, lotRepo, ledgerRepo, protectionUC, log)
	purchaseUC := inventory.NewPurchaseUseCase(txRunner, materialRepo, lotRepo, protectionUC, log)
	productionUC := inventory.NewProductionUseCase(txRunner, productRepo, materialRepo, protectionUC, log)
	replenishmentUC := inventory.NewReplenishmentUseCase(loader)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Costeo API",
		}))
	} else {
		log.Warn().Str("file", swaggerFile).Msg("swagger.json no encontrado, /docs deshabilitado")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		MaterialUC:    materialUC,
		ProductUC:     productUC,
		PurchaseUC:    purchaseUC,
		ProductionUC:  productionUC,
		Replenishment: replenishmentUC,
		ProtectionUC:  protectionUC,
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
