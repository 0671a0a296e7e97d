package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	appanalytics "github.com/jhoicas/almacen-api/internal/application/analytics"
	"github.com/jhoicas/almacen-api/internal/application/auth"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/internal/infrastructure/memory"
	"github.com/jhoicas/almacen-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/almacen-api/internal/interfaces/http"
	"github.com/jhoicas/almacen-api/pkg/config"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

// stores puertos de persistencia según DB_DRIVER.
type stores struct {
	tx       inventory.TxRunner
	items    repository.ItemRepository
	inbound  repository.InboundRepository
	outbound repository.OutboundRepository
	loans    repository.LoanRepository
	units    repository.UnitRepository
	users    repository.UserRepository
	close    func()
}

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
		Str("store", cfg.DB.Driver).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		// solo fuera de producción (config lo exige allí): los tokens no sobreviven a un reinicio
		cfg.JWT.Secret = uuid.NewString()
		log.Warn().Msg("JWT_SECRET vacío, usando secreto aleatorio de proceso")
	}

	ctx := context.Background()
	st := openStores(ctx, cfg, log)
	defer st.close()

	authUC := auth.NewAuthUseCase(st.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log)
	if err := authUC.EnsureBootstrapAdmin(ctx, cfg.Bootstrap.AdminUsername, cfg.Bootstrap.AdminPassword); err != nil {
		log.Fatal().Err(err).Msg("crear administrador inicial")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	if cfg.HTTP.DocsFile != "" {
		if _, err := os.Stat(cfg.HTTP.DocsFile); err == nil {
			app.Use(httpRouter.Docs(cfg.HTTP.DocsFile, "Almacén API"))
		} else {
			log.Warn().Str("file", cfg.HTTP.DocsFile).Msg("especificación Swagger no encontrada, /docs desactivado")
		}
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		UserUC:      usecase.NewUserUseCase(st.users, log),
		UnitUC:      usecase.NewUnitUseCase(st.units, st.items, log),
		CatalogUC:   inventory.NewCatalogUseCase(st.tx, st.items, log),
		InboundUC:   inventory.NewInboundUseCase(st.tx, st.inbound, log),
		OutboundUC:  inventory.NewOutboundUseCase(st.tx, st.outbound, log),
		LoanUC:      inventory.NewLoanUseCase(st.tx, st.loans, log),
		ReconcileUC: inventory.NewReconcileUseCase(st.tx, log),
		DashboardUC: appanalytics.NewDashboardUseCase(st.items, st.loans),
		JWTSecret:   cfg.JWT.Secret,
		Logger:      log,
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

func openStores(ctx context.Context, cfg *config.Config, log *logger.Logger) stores {
	if cfg.DB.Driver == config.StoreDriverMemory {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		m := memory.NewStore()
		return stores{
			tx:       m,
			items:    m.Items(),
			inbound:  m.Inbound(),
			outbound: m.Outbound(),
			loans:    m.Loans(),
			units:    m.Units(),
			users:    m.Users(),
			close:    func() {},
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	if cfg.DB.AutoMigrate {
		applied, err := postgres.Migrate(ctx, pool)
		if err != nil {
			pool.Close()
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Strs("applied", applied).Msg("migraciones aplicadas")
	}
	return stores{
		tx:       postgres.NewTxRunner(pool),
		items:    postgres.NewItemRepository(pool),
		inbound:  postgres.NewInboundRepository(pool),
		outbound: postgres.NewOutboundRepository(pool),
		loans:    postgres.NewLoanRepository(pool),
		units:    postgres.NewUnitRepository(pool),
		users:    postgres.NewUserRepository(pool),
		close:    pool.Close,
	}
}
