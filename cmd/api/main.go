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
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/bouwadmin/voorraad-api/internal/application/booking"
	"github.com/bouwadmin/voorraad-api/internal/application/export"
	"github.com/bouwadmin/voorraad-api/internal/application/importer"
	"github.com/bouwadmin/voorraad-api/internal/application/journal"
	"github.com/bouwadmin/voorraad-api/internal/application/ledger"
	"github.com/bouwadmin/voorraad-api/internal/application/usecase"
	"github.com/bouwadmin/voorraad-api/internal/infrastructure/metrics"
	"github.com/bouwadmin/voorraad-api/internal/infrastructure/postgres"
	httpRouter "github.com/bouwadmin/voorraad-api/internal/interfaces/http"
	"github.com/bouwadmin/voorraad-api/pkg/config"
	"github.com/bouwadmin/voorraad-api/pkg/logger"
)

// swaggerSpecPath is served by the swagger UI middleware; the middleware
// refuses to start when the file is missing, so the spec ships with the tree.
const swaggerSpecPath = "./docs/swagger.json"

func runMigrations(dsn string) error {
	sqlDB, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()
	return goose.Up(sqlDB, "migrations")
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("starting application")

	if err := runMigrations(cfg.DB.ConnectionString()); err != nil {
		log.Fatal().Err(err).Msg("run migrations")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to PostgreSQL")
	}
	defer pool.Close()

	productRepo := postgres.NewProductRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	projectRepo := postgres.NewProjectRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	txRepo := postgres.NewTransactionRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	bookingUC := booking.NewUseCase(txRunner, productRepo, locationRepo, projectRepo, userRepo)
	ledgerUC := ledger.NewUseCase(stockRepo, locationRepo)
	journalUC := journal.NewUseCase(txRunner, txRepo)
	importUC := importer.NewUseCase(bookingUC, productRepo, locationRepo, projectRepo, importer.Options{
		Separator:    cfg.CSV.SeparatorRune(),
		DecimalComma: cfg.CSV.DecimalComma,
	})
	exportUC := export.NewUseCase(txRepo, export.Options{
		Separator:    cfg.CSV.SeparatorRune(),
		DecimalComma: cfg.CSV.DecimalComma,
	})
	productUC := usecase.NewProductUseCase(productRepo)
	locationUC := usecase.NewLocationUseCase(locationRepo)
	projectUC := usecase.NewProjectUseCase(projectRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30, // exports stream the full range
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: swaggerSpecPath,
		Path:     "docs",
		Title:    "Voorraad API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	if cfg.Metrics.Enabled {
		app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:  productUC,
		LocationUC: locationUC,
		ProjectUC:  projectUC,
		Booking:    bookingUC,
		Ledger:     ledgerUC,
		Journal:    journalUC,
		Importer:   importUC,
		Export:     exportUC,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Fatal().Err(err).Msg("HTTP server")
		}
	}()
	log.Info().Str("addr", cfg.HTTP.Addr()).Msg("HTTP server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}
