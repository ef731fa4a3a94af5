package repository

import (
	"context"

	"github.com/jhoicas/gestion-comercial-api/internal/domain/entity"
)

// QuoteFilter filtros del listado de presupuestos.
type QuoteFilter struct {
	Status     string
	CustomerID string
	Limit      int
	Offset     int
}

// QuoteRepository define el puerto de persistencia para Quote y sus líneas.
type QuoteRepository interface {
	NextNumber(ctx context.Context) (int64, error)
	Create(ctx context.Context, quote *entity.Quote) error
	GetByID(ctx context.Context, id string) (*entity.Quote, error)
	// GetForUpdate igual que GetByID pero bloquea la cabecera.
	GetForUpdate(ctx context.Context, id string) (*entity.Quote, error)
	List(ctx context.Context, f QuoteFilter) ([]*entity.Quote, int, error)
	// Update actualiza estado, venta asociada y notas.
	Update(ctx context.Context, quote *entity.Quote) error
}
