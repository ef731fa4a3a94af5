package rates

import (
	"context"

	"github.com/jhoicas/gestion-comercial-api/internal/domain/entity"
)

// Cache caché de la última cotización por moneda. Get devuelve (nil, nil) si no hay entrada.
type Cache interface {
	Get(ctx context.Context, currency string) (*entity.ExchangeRate, error)
	Set(ctx context.Context, rate *entity.ExchangeRate) error
}

// Provider fuente externa de cotizaciones.
type Provider interface {
	Fetch(ctx context.Context, currency string) (*entity.ExchangeRate, error)
}

// NoopCache caché deshabilitada (sin Redis configurado).
type NoopCache struct{}

func (NoopCache) Get(context.Context, string) (*entity.ExchangeRate, error) { return nil, nil }
func (NoopCache) Set(context.Context, *entity.ExchangeRate) error          { return nil }
