package repository

import (
	"context"
	"time"

	"github.com/jhoicas/gestion-comercial-api/internal/domain/entity"
)

// SaleFilter filtros del listado de ventas.
type SaleFilter struct {
	Status     string
	CustomerID string
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// SaleRepository define el puerto de persistencia para Sale y sus líneas.
type SaleRepository interface {
	// NextNumber devuelve el próximo número interno de venta.
	NextNumber(ctx context.Context) (int64, error)
	// Create persiste cabecera y líneas.
	Create(ctx context.Context, sale *entity.Sale) error
	// GetByID devuelve la venta con sus líneas o (nil, nil).
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	// GetForUpdate igual que GetByID pero bloquea la cabecera.
	GetForUpdate(ctx context.Context, id string) (*entity.Sale, error)
	List(ctx context.Context, f SaleFilter) ([]*entity.Sale, int, error)
	// Update actualiza estado, datos AFIP, nota de crédito y anulación.
	Update(ctx context.Context, sale *entity.Sale) error
}
