package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/pos-api/docs"
	"github.com/jhoicas/pos-api/internal/application/inventory"
	"github.com/jhoicas/pos-api/internal/application/orders"
	"github.com/jhoicas/pos-api/internal/application/usecase"
	"github.com/jhoicas/pos-api/internal/domain/repository"
	infraexport "github.com/jhoicas/pos-api/internal/infrastructure/export"
	"github.com/jhoicas/pos-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/pos-api/internal/infrastructure/pdf"
	"github.com/jhoicas/pos-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/pos-api/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/pos-api/internal/interfaces/http"
	"github.com/jhoicas/pos-api/pkg/config"
	"github.com/jhoicas/pos-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("storage", cfg.Storage.Driver).
		Str("order_numbers", cfg.Orders.NumberBackend).
		Msg("iniciando aplicación")

	ctx := context.Background()

	// ── Almacenamiento ───────────────────────────────────────────────────────
	var (
		txRunner repository.TxRunner
		store    repository.Store
		pinger   httpRouter.Pinger
	)
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		db := memory.New()
		txRunner, store = db, db.Store()
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.AutoMigrate {
			if err := postgres.Migrate(ctx, pool, log.Zerolog()); err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
		}
		pgRunner := postgres.NewTxRunner(pool, cfg.DB.LockTimeout)
		txRunner, store, pinger = pgRunner, postgres.NewStore(pool), pgRunner
	}

	// ── Redis (opcional) ─────────────────────────────────────────────────────
	format := orders.NumberFormat{
		SalePrefix:     cfg.Orders.SalePrefix,
		PurchasePrefix: cfg.Orders.PurchasePrefix,
		Width:          cfg.Orders.NumberWidth,
	}
	engineOpts := orders.Options{
		Numbers:     orders.NewSequenceNumberGenerator(format),
		LockTTL:     cfg.Orders.IdempotencyLockTTL,
		PhoneRegion: cfg.Orders.PhoneRegion,
		Logger:      log.Component("orders"),
	}
	if cfg.Redis.Enabled() {
		rdb, err := infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		engineOpts.Locker = infraredis.NewKeyLocker(rdb, *log.Component("redislock"))
		if cfg.Orders.NumberBackend == config.NumberBackendRedis {
			engineOpts.Numbers = infraredis.NewNumberGenerator(rdb, format)
		}
	}

	// ── Casos de uso ─────────────────────────────────────────────────────────
	ledgerWriter := inventory.NewLedgerWriter()
	adjustUC := inventory.NewAdjustmentUseCase(txRunner, ledgerWriter, store.Adjustments)
	ledgerUC := inventory.NewLedgerUseCase(txRunner, inventory.NewRegistry(store.Items), store.Ledger, infraexport.NewLedgerExcelExporter())
	replenishmentUC := inventory.NewReplenishmentUseCase(store.Items, store.Ledger)
	itemUC := usecase.NewItemUseCase(txRunner, store.Items, adjustUC)
	counterpartyUC := usecase.NewCounterpartyUseCase(store.Counterparties, cfg.Orders.PhoneRegion)
	engine := orders.NewEngine(txRunner, ledgerWriter, engineOpts)
	orderQuery := orders.NewQueryUseCase(store.Orders, store.Payments)
	orderPDF := orders.NewPDFUseCase(store.Orders, store.Payments, store.Items, store.Counterparties,
		infrapdf.NewReceiptGenerator(cfg.App.Name))

	// ── HTTP ─────────────────────────────────────────────────────────────────
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(*log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	if specPath, err := swaggerFile(); err != nil {
		log.Warn().Err(err).Msg("swagger deshabilitado")
	} else {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: specPath,
			Path:     "docs",
			Title:    cfg.App.Name + " API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		ItemUC:         itemUC,
		CounterpartyUC: counterpartyUC,
		Adjustments:    adjustUC,
		Ledger:         ledgerUC,
		Replenishment:  replenishmentUC,
		Orders:         engine,
		OrderQuery:     orderQuery,
		OrderPDF:       orderPDF,
		Storage:        pinger,
		ServiceName:    cfg.App.Name,
		JWTSecret:      cfg.JWT.Secret,
		JWTIssuer:      cfg.JWT.Issuer,
		Logger:         *log.Component("http"),
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// swaggerFile devuelve ./docs/swagger.json o, si no existe (binario fuera del repo),
// escribe la especificación embebida en un archivo temporal.
func swaggerFile() (string, error) {
	const local = "./docs/swagger.json"
	if _, err := os.Stat(local); err == nil {
		return local, nil
	}
	path := filepath.Join(os.TempDir(), "pos-api-swagger.json")
	if err := os.WriteFile(path, []byte(docs.SwaggerInfo.ReadDoc()), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
