package repository

import (
	"context"
	"time"

	"github.com/jhoicas/gestion-comercial-api/internal/domain/entity"
)

// ChequeFilter filtros del listado de cheques.
type ChequeFilter struct {
	Status     string
	CustomerID string
	DueBefore  *time.Time
	Limit      int
	Offset     int
}

// ChequeRepository define el puerto de persistencia para Cheque.
type ChequeRepository interface {
	Create(ctx context.Context, cheque *entity.Cheque) error
	GetByID(ctx context.Context, id string) (*entity.Cheque, error)
	// GetForUpdate bloquea el cheque hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Cheque, error)
	List(ctx context.Context, f ChequeFilter) ([]*entity.Cheque, int, error)
	Update(ctx context.Context, cheque *entity.Cheque) error
}
