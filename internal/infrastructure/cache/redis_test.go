package cache

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-comercial-api/internal/domain/entity"
)

func TestEncodeDecode_ConservaDecimales(t *testing.T) {
	in := &entity.ExchangeRate{
		ID:        "r-1",
		Currency:  entity.CurrencyUSD,
		Buy:       decimal.RequireFromString("1012.5"),
		Sell:      decimal.RequireFromString("1052.75"),
		Source:    entity.RateSourceProvider,
		Date:      time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC),
		CreatedAt: time.Date(2026, 10, 16, 14, 3, 0, 0, time.UTC),
	}
	raw, err := encode(in)
	require.NoError(t, err)

	out, err := decode(raw)
	require.NoError(t, err)
	assert.True(t, out.Sell.Equal(in.Sell))
	assert.True(t, out.Buy.Equal(in.Buy))
	assert.True(t, out.Date.Equal(in.Date))
	assert.Equal(t, in.Source, out.Source)
}

func TestDecode_Invalido(t *testing.T) {
	_, err := decode([]byte("{"))
	assert.Error(t, err)
}

func TestNewRateCache_TTLPorDefecto(t *testing.T) {
	assert.Equal(t, 15*time.Minute, NewRateCache(nil, 0).ttl)
}
