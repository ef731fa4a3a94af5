package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-comercial-api/internal/domain/entity"
)

// ProductFilter filtros del listado de productos.
type ProductFilter struct {
	Search          string // código o nombre
	CategoryID      string
	IncludeInactive bool
	Limit           int
	Offset          int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	// GetForUpdate obtiene el producto bloqueando la fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	List(ctx context.Context, f ProductFilter) ([]*entity.Product, int, error)
	// ListLowStock productos activos con stock <= stock mínimo.
	ListLowStock(ctx context.Context) ([]*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	// UpdateCost actualiza solo el costo.
	UpdateCost(ctx context.Context, id string, cost decimal.Decimal) error
	Deactivate(ctx context.Context, id string) error
	// AdjustStock suma delta (puede ser negativo) de forma atómica y devuelve el stock resultante.
	// Devuelve domain.ErrInsufficientStock si el stock quedaría negativo.
	AdjustStock(ctx context.Context, id string, delta decimal.Decimal) (decimal.Decimal, error)
}
