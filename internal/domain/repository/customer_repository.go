package repository

import (
	"context"

	"github.com/jhoicas/gestion-comercial-api/internal/domain/entity"
)

// CustomerFilter filtros del listado de clientes.
type CustomerFilter struct {
	Search          string // nombre o número de documento
	IncludeInactive bool
	Limit           int
	Offset          int
}

// CustomerRepository define el puerto de persistencia para Customer.
// GetByID devuelve (nil, nil) si no existe.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	// GetForUpdate bloquea la fila del cliente hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Customer, error)
	GetByDocument(ctx context.Context, docType int, docNumber string) (*entity.Customer, error)
	List(ctx context.Context, f CustomerFilter) ([]*entity.Customer, int, error)
	Update(ctx context.Context, customer *entity.Customer) error
	Deactivate(ctx context.Context, id string) error
}
