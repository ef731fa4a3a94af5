package rates_test

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-comercial-api/internal/application/dto"
	"github.com/jhoicas/gestion-comercial-api/internal/application/rates"
	"github.com/jhoicas/gestion-comercial-api/internal/domain"
	"github.com/jhoicas/gestion-comercial-api/internal/domain/entity"
)

type fakeRateRepo struct {
	rates []*entity.ExchangeRate
}

func (f *fakeRateRepo) Create(_ context.Context, r *entity.ExchangeRate) error {
	cp := *r
	f.rates = append(f.rates, &cp)
	return nil
}

func (f *fakeRateRepo) Latest(_ context.Context, currency string) (*entity.ExchangeRate, error) {
	list, _ := f.List(context.Background(), currency, 1)
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (f *fakeRateRepo) List(_ context.Context, currency string, limit int) ([]*entity.ExchangeRate, error) {
	var out []*entity.ExchangeRate
	for _, r := range f.rates {
		if r.Currency == currency {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeCache struct {
	entries map[string]*entity.ExchangeRate
	gets    int
}

func (c *fakeCache) Get(_ context.Context, currency string) (*entity.ExchangeRate, error) {
	c.gets++
	return c.entries[currency], nil
}

func (c *fakeCache) Set(_ context.Context, r *entity.ExchangeRate) error {
	c.entries[r.Currency] = r
	return nil
}

type fakeProvider struct {
	calls int
	err   error
}

func (p *fakeProvider) Fetch(_ context.Context, currency string) (*entity.ExchangeRate, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return &entity.ExchangeRate{Currency: currency, Buy: decimal.NewFromInt(1000), Sell: decimal.NewFromInt(1050), Date: time.Now()}, nil
}

func TestLatest_CacheDBProveedor(t *testing.T) {
	repo := &fakeRateRepo{}
	cache := &fakeCache{entries: map[string]*entity.ExchangeRate{}}
	prov := &fakeProvider{}
	uc := rates.NewRatesUseCase(repo, cache, prov, nil)
	ctx := context.Background()

	// Sin nada persistido: se consulta al proveedor y se guarda.
	r, err := uc.Latest(ctx, "USD")
	require.NoError(t, err)
	assert.Equal(t, entity.RateSourceProvider, r.Source)
	assert.Equal(t, 1, prov.calls)
	assert.Len(t, repo.rates, 1)

	// Segunda consulta: sale de la caché.
	r, err = uc.Latest(ctx, "usd")
	require.NoError(t, err)
	assert.True(t, r.Sell.Equal(decimal.NewFromInt(1050)))
	assert.Equal(t, 1, prov.calls)
}

func TestLatest_SinProveedorNiDatos(t *testing.T) {
	uc := rates.NewRatesUseCase(&fakeRateRepo{}, nil, nil, nil)
	_, err := uc.Latest(context.Background(), "USD")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	prov := &fakeProvider{err: errors.New("timeout")}
	uc = rates.NewRatesUseCase(&fakeRateRepo{}, nil, prov, nil)
	_, err = uc.Latest(context.Background(), "USD")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestCreate_Manual(t *testing.T) {
	repo := &fakeRateRepo{}
	cache := &fakeCache{entries: map[string]*entity.ExchangeRate{}}
	uc := rates.NewRatesUseCase(repo, cache, nil, nil)
	ctx := context.Background()

	_, err := uc.Create(ctx, dto.CreateExchangeRateRequest{Currency: "USD", Buy: decimal.NewFromInt(1100), Sell: decimal.NewFromInt(1000)})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = uc.Create(ctx, dto.CreateExchangeRateRequest{Currency: "ARS", Buy: decimal.NewFromInt(1), Sell: decimal.NewFromInt(1)})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	r, err := uc.Create(ctx, dto.CreateExchangeRateRequest{Currency: "USD", Buy: decimal.NewFromInt(1000), Sell: decimal.NewFromInt(1040), Date: "2026-03-01"})
	require.NoError(t, err)
	assert.Equal(t, entity.RateSourceManual, r.Source)
	assert.Equal(t, 2026, r.Date.Year())
	assert.NotNil(t, cache.entries["USD"])

	sell, err := uc.LatestSellRate(ctx, "USD")
	require.NoError(t, err)
	assert.True(t, sell.Equal(decimal.NewFromInt(1040)))

	one, err := uc.LatestSellRate(ctx, "ARS")
	require.NoError(t, err)
	assert.True(t, one.Equal(decimal.NewFromInt(1)))
}

func TestCreate_FechaPasadaNoReemplazaLaVigente(t *testing.T) {
	repo := &fakeRateRepo{}
	cache := &fakeCache{entries: map[string]*entity.ExchangeRate{}}
	uc := rates.NewRatesUseCase(repo, cache, nil, nil)
	ctx := context.Background()

	_, err := uc.Create(ctx, dto.CreateExchangeRateRequest{Currency: "USD", Buy: decimal.NewFromInt(1000), Sell: decimal.NewFromInt(1050)})
	require.NoError(t, err)
	old := time.Now().AddDate(0, 0, -30).Format(dto.DateLayout)
	r, err := uc.Create(ctx, dto.CreateExchangeRateRequest{Currency: "USD", Buy: decimal.NewFromInt(800), Sell: decimal.NewFromInt(850), Date: old})
	require.NoError(t, err)
	assert.True(t, r.Sell.Equal(decimal.NewFromInt(850)))

	sell, err := uc.LatestSellRate(ctx, "USD")
	require.NoError(t, err)
	assert.True(t, sell.Equal(decimal.NewFromInt(1050)), "vendedor: %s", sell)
	assert.True(t, cache.entries["USD"].Sell.Equal(decimal.NewFromInt(1050)))
}

func TestRefresh(t *testing.T) {
	uc := rates.NewRatesUseCase(&fakeRateRepo{}, nil, nil, nil)
	_, err := uc.Refresh(context.Background(), "USD")
	assert.True(t, errors.Is(err, rates.ErrProviderUnavailable))

	prov := &fakeProvider{}
	repo := &fakeRateRepo{}
	uc = rates.NewRatesUseCase(repo, nil, prov, nil)
	r, err := uc.Refresh(context.Background(), "EUR")
	require.NoError(t, err)
	assert.Equal(t, "EUR", r.Currency)

	hist, err := uc.History(context.Background(), "EUR", 0)
	require.NoError(t, err)
	assert.Len(t, hist, 1)
}
