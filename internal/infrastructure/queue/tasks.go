// Package queue encola y procesa con asynq la autorización AFIP de ventas.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/jhoicas/gestion-comercial-api/internal/application/billing"
	"github.com/jhoicas/gestion-comercial-api/internal/domain"
	"github.com/jhoicas/gestion-comercial-api/internal/domain/entity"
	"github.com/jhoicas/gestion-comercial-api/pkg/config"
	"github.com/jhoicas/gestion-comercial-api/pkg/logger"
)

// TypeAuthorizeInvoice tipo de tarea: pedir el CAE de una venta.
const TypeAuthorizeInvoice = "invoice:authorize"

// QueueAFIP cola dedicada para no competir con otras tareas.
const QueueAFIP = "afip"

type authorizePayload struct {
	SaleID string `json:"sale_id"`
}

// RedisOpt opciones de conexión asynq a partir de la configuración.
func RedisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}
}

// NewAuthorizeTask arma la tarea con reintentos para fallas de comunicación.
func NewAuthorizeTask(saleID string) (*asynq.Task, error) {
	payload, err := json.Marshal(authorizePayload{SaleID: saleID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeAuthorizeInvoice, payload,
		asynq.Queue(QueueAFIP),
		asynq.MaxRetry(5),
		asynq.Timeout(2*time.Minute),
	), nil
}

var _ billing.InvoiceTaskEnqueuer = (*Enqueuer)(nil)

// Enqueuer implementa billing.InvoiceTaskEnqueuer sobre un asynq.Client.
type Enqueuer struct {
	client *asynq.Client
}

// NewEnqueuer construye el enqueuer. El caller cierra el client.
func NewEnqueuer(client *asynq.Client) *Enqueuer {
	return &Enqueuer{client: client}
}

// EnqueueAuthorize encola la autorización y devuelve el id de tarea.
func (e *Enqueuer) EnqueueAuthorize(ctx context.Context, saleID string) (string, error) {
	task, err := NewAuthorizeTask(saleID)
	if err != nil {
		return "", fmt.Errorf("armar tarea: %w", err)
	}
	info, err := e.client.EnqueueContext(ctx, task)
	if err != nil {
		return "", fmt.Errorf("encolar %s: %w", TypeAuthorizeInvoice, err)
	}
	return info.ID, nil
}

// Authorizer parte del orquestador AFIP que usa el worker.
type Authorizer interface {
	Authorize(ctx context.Context, saleID string) (*entity.Sale, error)
}

// AuthorizeHandler procesa TypeAuthorizeInvoice.
type AuthorizeHandler struct {
	afip Authorizer
	log  *logger.Logger
}

// NewAuthorizeHandler construye el handler.
func NewAuthorizeHandler(afip Authorizer, log *logger.Logger) *AuthorizeHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthorizeHandler{afip: afip, log: log}
}

// ProcessTask reintenta solo ante AFIP no disponible; rechazos y estados inválidos son definitivos.
func (h *AuthorizeHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var p authorizePayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil || p.SaleID == "" {
		return fmt.Errorf("payload inválido: %v: %w", err, asynq.SkipRetry)
	}
	log := h.log.With().Str("sale_id", p.SaleID).Str("task", t.Type()).Logger()

	sale, err := h.afip.Authorize(ctx, p.SaleID)
	switch {
	case err == nil:
		log.Info().Str("cae", sale.CAE).Int64("voucher_number", sale.VoucherNumber).Msg("tarea de autorización completada")
		return nil
	case errors.Is(err, domain.ErrAFIPUnavailable):
		log.Warn().Err(err).Msg("AFIP no disponible, se reintentará")
		return err
	default:
		log.Error().Err(err).Msg("autorización descartada")
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
}

// NewServeMux registra los handlers del worker.
func NewServeMux(h *AuthorizeHandler) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.Handle(TypeAuthorizeInvoice, h)
	return mux
}
