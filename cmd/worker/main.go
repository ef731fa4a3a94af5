package main

import (
	"context"

	"github.com/hibiken/asynq"

	"github.com/jhoicas/gestion-comercial-api/internal/application/billing"
	"github.com/jhoicas/gestion-comercial-api/internal/infrastructure/afipws"
	infrapdf "github.com/jhoicas/gestion-comercial-api/internal/infrastructure/pdf"
	"github.com/jhoicas/gestion-comercial-api/internal/infrastructure/postgres"
	"github.com/jhoicas/gestion-comercial-api/internal/infrastructure/queue"
	"github.com/jhoicas/gestion-comercial-api/internal/infrastructure/storage"
	"github.com/jhoicas/gestion-comercial-api/pkg/config"
	"github.com/jhoicas/gestion-comercial-api/pkg/logger"
)

// Autorizaciones AFIP simultáneas; WSFEv1 serializa por punto de venta.
const workerConcurrency = 4

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: "worker",
	})
	if !cfg.Redis.Enabled() {
		log.Fatal().Msg("REDIS_ADDR es obligatorio para el worker")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	saleRepo := postgres.NewSaleRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	afipService, err := afipws.NewFromConfig(cfg.AFIP)
	if err != nil {
		log.Fatal().Err(err).Msg("servicio AFIP")
	}
	issuer := afipws.Issuer(cfg.AFIP)

	var archive billing.DocumentArchive
	if cfg.Storage.Enabled() {
		s3Archive, err := storage.NewS3Archive(ctx, cfg.Storage, log)
		if err != nil {
			log.Fatal().Err(err).Msg("archivo S3")
		}
		archive = s3Archive
	}

	pdfUC := billing.NewPDFUseCase(saleRepo, customerRepo, infrapdf.NewMarotoPDFGenerator(), issuer)
	orchestrator := billing.NewAFIPOrchestrator(txRunner, saleRepo, customerRepo, afipService, issuer, pdfUC, archive, log)

	srv := asynq.NewServer(queue.RedisOpt(cfg.Redis), asynq.Config{
		Concurrency: workerConcurrency,
		Queues:      map[string]int{queue.QueueAFIP: 1},
		Logger:      queue.NewAsynqLogger(log),
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			log.Warn().Err(err).Str("task", task.Type()).Msg("tarea fallida")
		}),
	})

	log.Info().
		Int("concurrency", workerConcurrency).
		Str("afip_mode", cfg.AFIP.Mode).
		Msg("worker iniciado")

	// Run bloquea hasta SIGINT/SIGTERM y espera las tareas en curso.
	if err := srv.Run(queue.NewServeMux(queue.NewAuthorizeHandler(orchestrator, log))); err != nil {
		log.Fatal().Err(err).Msg("worker finalizado")
	}
	log.Info().Msg("worker detenido")
}
