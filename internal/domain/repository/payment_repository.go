package repository

import (
	"context"

	"github.com/jhoicas/gestion-comercial-api/internal/domain/entity"
)

// PaymentFilter filtros del listado de pagos.
type PaymentFilter struct {
	CustomerID string
	Limit      int
	Offset     int
}

// PaymentRepository define el puerto de persistencia para Payment.
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	GetByID(ctx context.Context, id string) (*entity.Payment, error)
	List(ctx context.Context, f PaymentFilter) ([]*entity.Payment, int, error)
	// Update actualiza estado y cheque vinculado.
	Update(ctx context.Context, payment *entity.Payment) error
}
