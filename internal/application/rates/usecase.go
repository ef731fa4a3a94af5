// Package rates administra las cotizaciones de moneda extranjera (dólar oficial, euro)
// usadas para convertir precios y cobros a pesos.
package rates

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-comercial-api/internal/application/dto"
	"github.com/jhoicas/gestion-comercial-api/internal/domain"
	"github.com/jhoicas/gestion-comercial-api/internal/domain/entity"
	"github.com/jhoicas/gestion-comercial-api/internal/domain/repository"
	"github.com/jhoicas/gestion-comercial-api/pkg/logger"
)

// ErrProviderUnavailable el proveedor externo no respondió o no está configurado.
var ErrProviderUnavailable = errors.New("proveedor de cotizaciones no disponible")

// RatesUseCase consulta y registra cotizaciones: caché → base de datos → proveedor.
type RatesUseCase struct {
	repo     repository.ExchangeRateRepository
	cache    Cache
	provider Provider // nil si no hay proveedor configurado
	log      *logger.Logger
}

// NewRatesUseCase construye el caso de uso. cache nil equivale a NoopCache.
func NewRatesUseCase(repo repository.ExchangeRateRepository, cache Cache, provider Provider, log *logger.Logger) *RatesUseCase {
	if cache == nil {
		cache = NoopCache{}
	}
	return &RatesUseCase{repo: repo, cache: cache, provider: provider, log: log}
}

// Latest devuelve la última cotización de la moneda. Si no hay ninguna persistida la pide al proveedor.
func (uc *RatesUseCase) Latest(ctx context.Context, currency string) (*dto.ExchangeRateResponse, error) {
	rate, err := uc.latest(ctx, currency)
	if err != nil {
		return nil, err
	}
	return toRateResponse(rate), nil
}

// LatestSellRate cotización vendedor vigente, usada para convertir precios y cobros a pesos.
func (uc *RatesUseCase) LatestSellRate(ctx context.Context, currency string) (decimal.Decimal, error) {
	if currency == "" || currency == entity.CurrencyARS {
		return decimal.NewFromInt(1), nil
	}
	rate, err := uc.latest(ctx, currency)
	if err != nil {
		return decimal.Zero, fmt.Errorf("cotización %s: %w", currency, err)
	}
	return rate.Sell, nil
}

func (uc *RatesUseCase) latest(ctx context.Context, currency string) (*entity.ExchangeRate, error) {
	currency = normalizeCurrency(currency)
	if err := validateCurrency(currency); err != nil {
		return nil, err
	}

	cached, err := uc.cache.Get(ctx, currency)
	if err != nil {
		uc.warn(err, currency, "lectura de caché")
	}
	if cached != nil {
		return cached, nil
	}

	rate, err := uc.repo.Latest(ctx, currency)
	if err != nil {
		return nil, err
	}
	if rate == nil {
		if uc.provider == nil {
			return nil, fmt.Errorf("%w: no hay cotización %s", domain.ErrNotFound, currency)
		}
		rate, err = uc.fetchAndStore(ctx, currency)
		if err != nil {
			if errors.Is(err, ErrProviderUnavailable) {
				return nil, fmt.Errorf("%w: no hay cotización %s", domain.ErrNotFound, currency)
			}
			return nil, err
		}
		return rate, nil
	}
	if err := uc.cache.Set(ctx, rate); err != nil {
		uc.warn(err, currency, "escritura de caché")
	}
	return rate, nil
}

// Create registra una cotización manual (vendedor ≥ comprador > 0).
func (uc *RatesUseCase) Create(ctx context.Context, in dto.CreateExchangeRateRequest) (*dto.ExchangeRateResponse, error) {
	currency := normalizeCurrency(in.Currency)
	if err := validateCurrency(currency); err != nil {
		return nil, err
	}
	if !in.Buy.IsPositive() || in.Sell.LessThan(in.Buy) {
		return nil, fmt.Errorf("%w: se requiere vendedor >= comprador > 0", domain.ErrInvalidInput)
	}
	now := time.Now()
	date := now
	if in.Date != "" {
		d, err := time.Parse(dto.DateLayout, in.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: fecha %q", domain.ErrInvalidInput, in.Date)
		}
		date = d
	}
	rate := &entity.ExchangeRate{
		ID:        uuid.New().String(),
		Currency:  currency,
		Buy:       in.Buy,
		Sell:      in.Sell,
		Source:    entity.RateSourceManual,
		Date:      date,
		CreatedAt: now,
	}
	if err := uc.repo.Create(ctx, rate); err != nil {
		return nil, err
	}
	uc.cacheLatest(ctx, currency)
	return toRateResponse(rate), nil
}

// Refresh consulta al proveedor, persiste y actualiza la caché.
func (uc *RatesUseCase) Refresh(ctx context.Context, currency string) (*dto.ExchangeRateResponse, error) {
	currency = normalizeCurrency(currency)
	if err := validateCurrency(currency); err != nil {
		return nil, err
	}
	if uc.provider == nil {
		return nil, ErrProviderUnavailable
	}
	rate, err := uc.fetchAndStore(ctx, currency)
	if err != nil {
		return nil, err
	}
	return toRateResponse(rate), nil
}

// History últimas cotizaciones registradas, de la más reciente a la más antigua.
func (uc *RatesUseCase) History(ctx context.Context, currency string, limit int) ([]dto.ExchangeRateResponse, error) {
	currency = normalizeCurrency(currency)
	if err := validateCurrency(currency); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 365 {
		limit = 30
	}
	list, err := uc.repo.List(ctx, currency, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ExchangeRateResponse, 0, len(list))
	for _, r := range list {
		out = append(out, *toRateResponse(r))
	}
	return out, nil
}

func (uc *RatesUseCase) fetchAndStore(ctx context.Context, currency string) (*entity.ExchangeRate, error) {
	rate, err := uc.provider.Fetch(ctx, currency)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	rate.ID = uuid.New().String()
	rate.Currency = currency
	rate.Source = entity.RateSourceProvider
	rate.CreatedAt = time.Now()
	if rate.Date.IsZero() {
		rate.Date = rate.CreatedAt
	}
	if err := uc.repo.Create(ctx, rate); err != nil {
		return nil, err
	}
	uc.cacheLatest(ctx, currency)
	if uc.log != nil {
		uc.log.Info().Str("currency", currency).Str("sell", rate.Sell.String()).Msg("cotización actualizada desde el proveedor")
	}
	return rate, nil
}

// cacheLatest guarda en caché la cotización vigente según la base, no la recién
// registrada: una carga con fecha pasada no reemplaza a una más nueva.
func (uc *RatesUseCase) cacheLatest(ctx context.Context, currency string) {
	latest, err := uc.repo.Latest(ctx, currency)
	if err != nil {
		uc.warn(err, currency, "lectura de la cotización vigente")
		return
	}
	if latest == nil {
		return
	}
	if err := uc.cache.Set(ctx, latest); err != nil {
		uc.warn(err, currency, "escritura de caché")
	}
}

func (uc *RatesUseCase) warn(err error, currency, op string) {
	if uc.log != nil {
		uc.log.Warn().Err(err).Str("currency", currency).Msg(op)
	}
}

func normalizeCurrency(c string) string {
	c = strings.ToUpper(strings.TrimSpace(c))
	if c == "" {
		return entity.CurrencyUSD
	}
	return c
}

func validateCurrency(c string) error {
	if c != entity.CurrencyUSD && c != entity.CurrencyEUR {
		return fmt.Errorf("%w: moneda %q", domain.ErrInvalidInput, c)
	}
	return nil
}

func toRateResponse(r *entity.ExchangeRate) *dto.ExchangeRateResponse {
	return &dto.ExchangeRateResponse{
		ID:        r.ID,
		Currency:  r.Currency,
		Buy:       r.Buy,
		Sell:      r.Sell,
		Source:    r.Source,
		Date:      r.Date,
		CreatedAt: r.CreatedAt,
	}
}
