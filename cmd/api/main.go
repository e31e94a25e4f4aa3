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
	"github.com/rs/zerolog"

	"github.com/jhoicas/pos-api/internal/application/inventory"
	"github.com/jhoicas/pos-api/internal/application/reports"
	"github.com/jhoicas/pos-api/internal/application/sales"
	"github.com/jhoicas/pos-api/internal/domain/repository"
	"github.com/jhoicas/pos-api/internal/infrastructure/memory"
	"github.com/jhoicas/pos-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/pos-api/internal/interfaces/http"
	"github.com/jhoicas/pos-api/pkg/config"
	"github.com/jhoicas/pos-api/pkg/logger"
)

// backend repositorios de lectura más el runner de transacciones de un driver.
type backend struct {
	txRunner interface {
		inventory.TxRunner
		sales.TxRunner
	}
	products   repository.ProductRepository
	categories repository.CategoryRepository
	movements  repository.StockMovementRepository
	sales      repository.SaleRepository
	reports    repository.ReportRepository
	settings   repository.SettingsRepository
	close      func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.Log.Level,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")
	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx := context.Background()
	store, err := openBackend(ctx, cfg, log.Zerolog())
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer store.close()

	ledgerUC := inventory.NewLedgerUseCase(
		store.txRunner, store.products, store.categories, store.movements,
		log.Zerolog(), cfg.POS.DefaultMinimumStock,
	)
	importUC := inventory.NewImportUseCase(ledgerUC, log.Zerolog())
	salesUC := sales.NewSalesUseCase(
		store.txRunner, ledgerUC, store.sales, store.reports, store.settings,
		sales.NewReceiptNumberer(cfg.POS.ReceiptPrefix), log.Zerolog(),
	)
	reportsUC := reports.NewReportsUseCase(store.reports, store.sales, store.products, log.Zerolog())

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httpRouter.ErrorHandler,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerFile,
			Path:     "docs",
			Title:    "POS API",
		}))
	} else {
		log.Warn().Str("file", cfg.HTTP.SwaggerFile).Msg("swagger deshabilitado: archivo no encontrado")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "db_driver": cfg.DB.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Ledger:    ledgerUC,
		Importer:  importUC,
		Sales:     salesUC,
		Reports:   reportsUC,
		JWTSecret: cfg.JWT.Secret,
		Logger:    log.Component("http"),
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

	// las ventas en curso terminan en commit o rollback antes de cerrar el pool
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func openBackend(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*backend, error) {
	if cfg.DB.Driver == config.DriverMemory {
		log.Warn().Msg("DB_DRIVER=memory: los datos se pierden al reiniciar")
		s := memory.NewSeededStore()
		return &backend{
			txRunner:   memory.NewTxRunner(s),
			products:   memory.NewProductRepository(s),
			categories: memory.NewCategoryRepository(s),
			movements:  memory.NewStockMovementRepository(s),
			sales:      memory.NewSaleRepository(s),
			reports:    memory.NewReportRepository(s),
			settings:   memory.NewSettingsRepository(s),
			close:      func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool, log); err != nil {
			pool.Close()
			return nil, err
		}
	}
	// las lecturas van directo al pool; las escrituras pasan por el Store (un escritor a la vez)
	store := postgres.NewStore(pool, log)
	return &backend{
		txRunner:   postgres.NewTxRunner(store),
		products:   postgres.NewProductRepository(pool),
		categories: postgres.NewCategoryRepository(pool),
		movements:  postgres.NewStockMovementRepository(pool),
		sales:      postgres.NewSaleRepository(pool),
		reports:    postgres.NewReportRepository(pool),
		settings:   postgres.NewSettingsRepository(pool),
		close:      store.Close,
	}, nil
}
