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
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jhoicas/control-equipos-api/internal/application/inventory"
	"github.com/jhoicas/control-equipos-api/internal/application/licensing"
	"github.com/jhoicas/control-equipos-api/internal/domain/repository"
	"github.com/jhoicas/control-equipos-api/internal/infrastructure/memory"
	"github.com/jhoicas/control-equipos-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/control-equipos-api/internal/interfaces/http"
	"github.com/jhoicas/control-equipos-api/pkg/config"
	"github.com/jhoicas/control-equipos-api/pkg/logger"
)

// txRunner transacciones de inventario y de licencias sobre el mismo almacenamiento.
type txRunner interface {
	inventory.TxRunner
	licensing.TxRunner
}

// storage repositorios fuera de transacción más el runner transaccional.
type storage struct {
	tx        txRunner
	items     repository.ItemTypeRepository
	stock     repository.StockRepository
	movements repository.MovementRepository
	software  repository.SoftwareRepository
	pools     repository.LicensePoolRepository
	asgs      repository.AssignmentRepository
	refs      repository.ReferenceRepository
	close     func()
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
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	st, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("storage", cfg.Storage.Driver).Msg("inicializar almacenamiento")
	}
	defer st.close()

	invLog := log.Component("inventario")
	licLog := log.Component("licencias")
	registerMovementUC := inventory.NewRegisterMovementUseCase(st.tx, st.items, st.movements, st.refs, invLog)
	stockUC := inventory.NewStockUseCase(st.tx, st.stock, st.items, st.movements, invLog)
	itemTypeUC := inventory.NewItemTypeUseCase(st.tx, st.items, st.refs, invLog)
	replenishmentUC := inventory.NewReplenishmentUseCase(st.items)
	softwareUC := licensing.NewSoftwareUseCase(st.software)
	poolUC := licensing.NewPoolUseCase(st.tx, st.pools, st.asgs, st.software, st.refs, licLog)
	assignmentUC := licensing.NewAssignmentUseCase(st.tx, st.pools, st.asgs, st.refs, licLog)

	httpLog := log.Component("http")
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(httpLog),
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(httpLog))
	app.Use(httpRouter.RequestTimeout(cfg.HTTP.RequestTimeout))

	// Swagger UI: http://localhost:<port>/docs
	if cfg.HTTP.SwaggerFile != "" {
		if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: cfg.HTTP.SwaggerFile,
				Path:     "docs",
				Title:    "Control de Equipos API",
			}))
		} else {
			log.Warn().Err(err).Str("file", cfg.HTTP.SwaggerFile).Msg("swagger deshabilitado")
		}
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "storage": cfg.Storage.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		RegisterMovement:    registerMovementUC,
		StockUC:             stockUC,
		ItemTypeUC:          itemTypeUC,
		ReplenishmentUC:     replenishmentUC,
		SoftwareUC:          softwareUC,
		PoolUC:              poolUC,
		AssignmentUC:        assignmentUC,
		JWTSecret:           cfg.JWT.Secret,
		ExpiringDefaultDays: cfg.License.ExpiringDefaultDays,
		Log:                 httpLog,
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

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.Storage.Driver == config.StorageMemory {
		seed := cfg.Storage.Seed
		log.Warn().
			Int("equipos", len(seed.Equipos)).Int("usuarios", len(seed.Usuarios)).
			Int("mantenimientos", len(seed.Mantenimientos)).Int("proveedores", len(seed.Proveedores)).
			Msg("almacenamiento en memoria: los datos se pierden al reiniciar; solo existen las referencias de MEMORY_SEED_*")
		mem := memory.NewStore()
		mem.Seed(memory.References{
			Equipos:        seed.Equipos,
			Usuarios:       seed.Usuarios,
			Mantenimientos: seed.Mantenimientos,
			Proveedores:    seed.Proveedores,
		})
		return &storage{
			tx:        memory.NewTxRunner(mem),
			items:     memory.NewItemTypeRepository(mem),
			stock:     memory.NewStockRepository(mem),
			movements: memory.NewMovementRepository(mem),
			software:  memory.NewSoftwareRepository(mem),
			pools:     memory.NewLicensePoolRepository(mem),
			asgs:      memory.NewAssignmentRepository(mem),
			refs:      memory.NewReferenceRepository(mem),
			close:     func() {},
		}, nil
	}

	dbLog := log.Component("postgres")
	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(cfg.DB.ConnectionString(), dbLog); err != nil {
			return nil, err
		}
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	return &storage{
		tx:        postgres.NewTxRunner(pool, cfg.DB.TxRetries, dbLog),
		items:     postgres.NewItemTypeRepository(pool),
		stock:     postgres.NewStockRepository(pool),
		movements: postgres.NewMovementRepository(pool),
		software:  postgres.NewSoftwareRepository(pool),
		pools:     postgres.NewLicensePoolRepository(pool),
		asgs:      postgres.NewAssignmentRepository(pool),
		refs:      postgres.NewReferenceRepository(pool),
		close:     pool.Close,
	}, nil
}
