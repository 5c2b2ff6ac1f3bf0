package main

import (
	"context"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/lux-ventas/internal/application/analytics"
	"github.com/jhoicas/lux-ventas/internal/application/expenses"
	"github.com/jhoicas/lux-ventas/internal/application/notification"
	apppipeline "github.com/jhoicas/lux-ventas/internal/application/pipeline"
	"github.com/jhoicas/lux-ventas/internal/domain/pipeline"
	"github.com/jhoicas/lux-ventas/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/lux-ventas/internal/infrastructure/pdf"
	"github.com/jhoicas/lux-ventas/internal/infrastructure/postgres"
	"github.com/jhoicas/lux-ventas/internal/infrastructure/spreadsheet"
	"github.com/jhoicas/lux-ventas/internal/infrastructure/storage"
	"github.com/jhoicas/lux-ventas/internal/infrastructure/whatsapp"
	httpRouter "github.com/jhoicas/lux-ventas/internal/interfaces/http"
	"github.com/jhoicas/lux-ventas/internal/worker"
	"github.com/jhoicas/lux-ventas/pkg/config"
	"github.com/jhoicas/lux-ventas/pkg/logger"
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

	if cfg.DB.Migrate {
		if err := postgres.Migrate(cfg.DB.ConnectionString(), log.Component("migrate")); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	reps, err := pipeline.ParseReps(cfg.Sales.Reps)
	if err != nil {
		log.Fatal().Err(err).Msg("SALES_REPS inválido")
	}
	assigner, err := pipeline.NewAssigner(reps, rand.Float64)
	if err != nil {
		log.Fatal().Err(err).Msg("asignador de vendedores")
	}

	registry := metrics.New()

	// Cola de avisos: Redis si hay REDIS_URL, si no workers en proceso.
	var queue worker.Queue
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("REDIS_URL inválido")
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		queue = worker.NewRedisQueue(rdb, cfg.Redis.Queue, log)
		log.Info().Str("queue", cfg.Redis.Queue).Msg("cola de avisos en Redis")
	} else {
		queue = worker.NewMemoryQueue(cfg.Notify.QueueSize, log)
	}

	creds := make(map[string]notification.Credentials, len(cfg.WhatsApp.Credentials))
	for name, c := range cfg.WhatsApp.Credentials {
		creds[name] = notification.Credentials{Phone: c.Phone, APIKey: c.APIKey}
	}
	notifier := notification.NewService(notification.Config{
		Enabled:     cfg.WhatsApp.Enabled,
		Credentials: creds,
		Timeout:     cfg.Notify.Timeout,
	}, queue, whatsapp.NewClient(cfg.WhatsApp.BaseURL, cfg.Notify.Timeout), registry, log)

	workerCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()
	queue.Start(workerCtx, cfg.Notify.Workers, notifier.Deliver)

	txRunner := postgres.NewTxRunner(pool)
	visitRepo := postgres.NewVisitRepository(pool)
	oppRepo := postgres.NewOpportunityRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	kpiRepo := postgres.NewKPIRepository(pool)

	visitUC := apppipeline.NewVisitUseCase(txRunner, visitRepo, registry, log)
	oppUC := apppipeline.NewOpportunityUseCase(txRunner, oppRepo, assigner, notifier, registry, log)
	saleUC := apppipeline.NewSaleUseCase(txRunner, saleRepo, cfg.Sales.SaleIDPrefix, registry, log)
	pdfUC := apppipeline.NewPDFUseCase(saleRepo, infrapdf.NewSaleSummaryGenerator(""))

	repNames := make([]string, 0, len(reps))
	for _, r := range assigner.Reps() {
		repNames = append(repNames, r.Name)
	}
	kpiUC := analytics.NewKPIUseCase(kpiRepo, repNames)

	source := expenseSource(ctx, cfg.Expenses, log)
	reader := expenses.NewReader(source, spreadsheet.NewParser(cfg.Expenses.Sheet), log)
	expenseUC := expenses.NewUseCase(reader, saleRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    10 * 1024 * 1024, // libros de gastos subidos
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestMetrics(registry))
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Lux Ventas API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		Visits:        visitUC,
		Opportunities: oppUC,
		Sales:         saleUC,
		SalePDF:       pdfUC,
		Expenses:      expenseUC,
		KPIs:          kpiUC,
		Metrics:       registry.Handler(),
		ServiceName:   cfg.App.Name,
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
	stopWorkers()
	queue.Wait()

	log.Info().Msg("aplicación detenida")
}

// expenseSource elige de dónde leer la planilla: archivo local, bucket S3 o ninguna.
func expenseSource(ctx context.Context, cfg config.ExpensesConfig, log *logger.Logger) expenses.Source {
	switch {
	case cfg.Path != "":
		return storage.NewFileSource(cfg.Path)
	case cfg.S3Bucket != "" && cfg.S3Key != "":
		src, err := storage.NewS3Source(ctx, storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Key:             cfg.S3Key,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			PathStyle:       cfg.S3PathStyle,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		})
		if err != nil {
			log.Warn().Err(err).Msg("no se pudo configurar S3; gastos sin planilla")
			return expenses.NoSource{}
		}
		return src
	default:
		log.Warn().Msg("sin EXPENSES_PATH ni EXPENSES_S3_BUCKET; gastos sin planilla")
		return expenses.NoSource{}
	}
}
