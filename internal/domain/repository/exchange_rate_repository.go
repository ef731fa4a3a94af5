package repository

import (
	"context"

	"github.com/jhoicas/gestion-comercial-api/internal/domain/entity"
)

// ExchangeRateRepository persistencia del histórico de cotizaciones.
type ExchangeRateRepository interface {
	Create(ctx context.Context, rate *entity.ExchangeRate) error
	// Latest devuelve la cotización más reciente de la moneda o (nil, nil).
	Latest(ctx context.Context, currency string) (*entity.ExchangeRate, error)
	List(ctx context.Context, currency string, limit int) ([]*entity.ExchangeRate, error)
}
