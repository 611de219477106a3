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
	appanalytics "github.com/jhoicas/stock-operations-api/internal/application/analytics"
	"github.com/jhoicas/stock-operations-api/internal/application/inventory"
	"github.com/jhoicas/stock-operations-api/internal/infrastructure/events"
	"github.com/jhoicas/stock-operations-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/stock-operations-api/internal/interfaces/http"
	"github.com/jhoicas/stock-operations-api/pkg/config"
	"github.com/jhoicas/stock-operations-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
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

	if cfg.DB.Migrate {
		if err := postgres.Migrate(ctx, pool, log.Named("migrate")); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	// Eventos post-commit: Kafka si hay brokers, si no se descartan.
	var publisher inventory.EventPublisher = events.NoopPublisher{}
	if cfg.Kafka.Enabled() {
		kp := events.NewKafkaPublisher(cfg.Kafka, log.Named("events"))
		defer func() {
			if err := kp.Close(); err != nil {
				log.Error().Err(err).Msg("cerrar publicador Kafka")
			}
		}()
		publisher = kp
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("publicador Kafka habilitado")
	}

	txRunner := postgres.NewTxRunner(pool)
	operationRepo := postgres.NewOperationRepository(pool)
	quantRepo := postgres.NewQuantRepository(pool)
	ledgerRepo := postgres.NewLedgerRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	dashboardRepo := postgres.NewDashboardRepository(pool)

	timeout := cfg.Operations.ValidationTimeout
	opsLog := log.Named("operations")
	operationUC := inventory.NewOperationUseCase(txRunner, operationRepo, locationRepo, productRepo, timeout, opsLog)
	validateUC := inventory.NewValidateOperationUseCase(txRunner, locationRepo, productRepo, publisher, timeout, opsLog)
	cancelUC := inventory.NewCancelOperationUseCase(txRunner, locationRepo, productRepo, publisher, timeout, opsLog)
	stockUC := inventory.NewStockQueryUseCase(quantRepo, ledgerRepo)
	dashboardUC := appanalytics.NewDashboardUseCase(dashboardRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: timeout + 5*time.Second,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Stock Operations API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		OperationUC: operationUC,
		ValidateUC:  validateUC,
		CancelUC:    cancelUC,
		StockUC:     stockUC,
		DashboardUC: dashboardUC,
		JWTSecret:   cfg.JWT.Secret,
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
