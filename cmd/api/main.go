package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/hibiken/asynq"

	"github.com/jhoicas/gestion-comercial-api/internal/application/auth"
	"github.com/jhoicas/gestion-comercial-api/internal/application/billing"
	"github.com/jhoicas/gestion-comercial-api/internal/application/finance"
	"github.com/jhoicas/gestion-comercial-api/internal/application/rates"
	"github.com/jhoicas/gestion-comercial-api/internal/application/reports"
	"github.com/jhoicas/gestion-comercial-api/internal/application/usecase"
	"github.com/jhoicas/gestion-comercial-api/internal/infrastructure/afipws"
	"github.com/jhoicas/gestion-comercial-api/internal/infrastructure/cache"
	"github.com/jhoicas/gestion-comercial-api/internal/infrastructure/dolarapi"
	"github.com/jhoicas/gestion-comercial-api/internal/infrastructure/excel"
	"github.com/jhoicas/gestion-comercial-api/internal/infrastructure/migration"
	infrapdf "github.com/jhoicas/gestion-comercial-api/internal/infrastructure/pdf"
	"github.com/jhoicas/gestion-comercial-api/internal/infrastructure/postgres"
	"github.com/jhoicas/gestion-comercial-api/internal/infrastructure/queue"
	"github.com/jhoicas/gestion-comercial-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/gestion-comercial-api/internal/interfaces/http"
	"github.com/jhoicas/gestion-comercial-api/migrations"
	"github.com/jhoicas/gestion-comercial-api/pkg/config"
	"github.com/jhoicas/gestion-comercial-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: "api",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("afip_mode", cfg.AFIP.Mode).
		Msg("iniciando aplicación")

	ctx := context.Background()

	if cfg.DB.AutoMigrate {
		runMigrations(cfg.DB, log)
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	rateRepo := postgres.NewExchangeRateRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	quoteRepo := postgres.NewQuoteRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)
	chequeRepo := postgres.NewChequeRepository(pool)
	accountRepo := postgres.NewCurrentAccountRepository(pool)
	reportRepo := postgres.NewReportRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Redis: caché de cotizaciones y cola de facturación. Opcional.
	var rateCache rates.Cache
	var enqueuer billing.InvoiceTaskEnqueuer
	if cfg.Redis.Enabled() {
		redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer redisClient.Close()
		rateCache = cache.NewRateCache(redisClient, cfg.Rates.CacheTTL)

		asynqClient := asynq.NewClient(queue.RedisOpt(cfg.Redis))
		defer asynqClient.Close()
		enqueuer = queue.NewEnqueuer(asynqClient)
	} else {
		log.Warn().Msg("REDIS_ADDR vacío: sin caché de cotizaciones ni facturación asíncrona")
	}

	afipService, err := afipws.NewFromConfig(cfg.AFIP)
	if err != nil {
		log.Fatal().Err(err).Msg("servicio AFIP")
	}
	issuer := afipws.Issuer(cfg.AFIP)

	// Archivo S3 de comprobantes. Opcional.
	var archive billing.DocumentArchive
	if cfg.Storage.Enabled() {
		s3Archive, err := storage.NewS3Archive(ctx, cfg.Storage, log)
		if err != nil {
			log.Fatal().Err(err).Msg("archivo S3")
		}
		if err := s3Archive.EnsureBucket(ctx); err != nil {
			log.Fatal().Err(err).Str("bucket", cfg.Storage.Bucket).Msg("bucket S3")
		}
		archive = s3Archive
	}

	ratesUC := rates.NewRatesUseCase(rateRepo, rateCache, dolarapi.New(cfg.Rates.ProviderURL), log)

	// PDF: representación impresa del comprobante autorizado
	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	invoicePDFUC := billing.NewPDFUseCase(saleRepo, customerRepo, pdfGenerator, issuer)
	orchestrator := billing.NewAFIPOrchestrator(txRunner, saleRepo, customerRepo, afipService, issuer, invoicePDFUC, archive, log)
	saleUC := billing.NewSaleUseCase(txRunner, saleRepo, customerRepo, ratesUC, issuer, orchestrator, enqueuer, log)
	quoteUC := billing.NewQuoteUseCase(txRunner, quoteRepo, ratesUC, issuer, saleUC)

	exporter := excel.NewExporter(customerRepo)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	if created, err := authUC.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		log.Fatal().Err(err).Msg("alta de administrador inicial")
	} else if created {
		log.Info().Str("email", cfg.Admin.Email).Msg("administrador inicial creado")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 40, // la autorización AFIP puede demorar
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(log),
	})
	app.Use(requestid.New())
	app.Use(httpRouter.AccessLog(log))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.App.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Gestión Comercial API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:           authUC,
		UserUC:           usecase.NewUserUseCase(userRepo),
		CustomerUC:       billing.NewCustomerUseCase(customerRepo),
		CategoryUC:       usecase.NewCategoryUseCase(categoryRepo),
		ProductUC:        usecase.NewProductUseCase(txRunner, productRepo, categoryRepo),
		RatesUC:          ratesUC,
		SaleUC:           saleUC,
		InvoicePDF:       invoicePDFUC,
		QuoteUC:          quoteUC,
		PaymentUC:        finance.NewPaymentUseCase(txRunner, paymentRepo, ratesUC, log),
		ChequeUC:         finance.NewChequeUseCase(txRunner, chequeRepo, log),
		CurrentAccountUC: finance.NewCurrentAccountUseCase(txRunner, customerRepo, accountRepo, exporter),
		ReportUC:         reports.NewReportUseCase(reportRepo, saleRepo, exporter),
		AsyncInvoice:     cfg.AFIP.Async && enqueuer != nil,
		JWTSecret:        cfg.JWT.Secret,
		Log:              log,
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

// runMigrations aplica las migraciones pendientes antes de abrir el pool.
func runMigrations(db config.DBConfig, log *logger.Logger) {
	m, err := migration.New(db.ConnectionString(), migrations.FS, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar migraciones")
	}
	defer m.Close()
	if err := m.Up(); err != nil {
		log.Fatal().Err(err).Msg("aplicar migraciones")
	}
}
