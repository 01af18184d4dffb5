// @title                      CRM API
// @version                    1.0
// @description                Contactos, cotizaciones, archivo legal y seguimiento comercial.
// @BasePath                   /
// @securityDefinitions.apikey Bearer
// @in                         header
// @name                       Authorization
// @description                "Bearer <token>"
package main

//go:generate go run github.com/swaggo/swag/cmd/swag@v1.16.6 init -g cmd/api/main.go -d ../../ -o ../../docs --outputTypes json

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/CRM-api/internal/application/crm"
	"github.com/jhoicas/CRM-api/internal/domain/quote"
	"github.com/jhoicas/CRM-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/CRM-api/internal/infrastructure/pdf"
	"github.com/jhoicas/CRM-api/internal/infrastructure/postgres"
	"github.com/jhoicas/CRM-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/CRM-api/internal/interfaces/http"
	"github.com/jhoicas/CRM-api/pkg/config"
	"github.com/jhoicas/CRM-api/pkg/logger"
	"github.com/jhoicas/CRM-api/pkg/validator"
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
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET requerido")
	}

	ctx := context.Background()

	// Persistencia: PostgreSQL en producción, memoria en desarrollo.
	var (
		txRunner crm.TxRunner
		repos    crm.Repos
	)
	switch cfg.Storage.Driver {
	case "memory":
		store := memory.NewStore()
		txRunner, repos = store, store.Repos()
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	default:
		if cfg.DB.MigrateOnStart {
			if err := postgres.Migrate(cfg.DB.ConnectionString()); err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
			log.Info().Msg("migraciones aplicadas")
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		txRunner, repos = postgres.NewTxRunner(pool), postgres.NewRepos(pool)
	}

	// Documentos: PDF con Maroto, guardado en MinIO si está configurado.
	renderer := infrapdf.NewQuoteRenderer(cfg.App.Name)
	var docStore crm.DocumentStore
	if cfg.Documents.Enabled() {
		minioStore, err := storage.NewMinIOStore(cfg.Documents)
		if err != nil {
			log.Fatal().Err(err).Msg("almacenamiento de documentos")
		}
		if err := minioStore.EnsureBucket(ctx); err != nil {
			log.Error().Err(err).Msg("bucket de documentos no disponible")
		}
		docStore = minioStore
	}

	settings := crm.Settings{
		Tax:          quote.TaxPolicy{DefaultRate: cfg.Quotes.DefaultTaxRate},
		ValidityDays: cfg.Quotes.ValidityDays,
		NumberPrefix: cfg.Quotes.NumberPrefix,
	}
	metricsUC := crm.NewContactMetricsUseCase(txRunner, nil, log)
	contactUC := crm.NewContactUseCase(txRunner, repos, nil, log)
	quoteUC := crm.NewQuoteUseCase(txRunner, settings, nil, log)
	lifecycleUC := crm.NewQuoteLifecycleUseCase(txRunner, settings, metricsUC, renderer, docStore, nil, log)
	archivalUC := crm.NewArchivalUseCase(txRunner, metricsUC, nil, log)
	followUpUC := crm.NewFollowUpUseCase(txRunner, nil, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "CRM API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ContactUC:   contactUC,
		MetricsUC:   metricsUC,
		QuoteUC:     quoteUC,
		LifecycleUC: lifecycleUC,
		ArchivalUC:  archivalUC,
		FollowUpUC:  followUpUC,
		Validator:   validator.New(),
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
