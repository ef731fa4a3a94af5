package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-comercial-api/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("AFIP_MODE", "dev")
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, 30*time.Minute, cfg.Rates.CacheTTL)
}

func TestLoad_DesdeEntorno(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("AFIP_MODE", "gateway")
	t.Setenv("AFIP_GATEWAY_URL", "http://afip-gw:8000")
	t.Setenv("AFIP_PUNTO_VENTA", "4")
	t.Setenv("AFIP_ASYNC", "true")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("S3_BUCKET", "comprobantes")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 4, cfg.AFIP.PointOfSale)
	assert.True(t, cfg.AFIP.Async)
	assert.True(t, cfg.Redis.Enabled())
	assert.True(t, cfg.Storage.Enabled())
}

func TestLoad_Invalida(t *testing.T) {
	t.Setenv("AFIP_MODE", "gateway")
	t.Setenv("AFIP_GATEWAY_URL", "")
	_, err := config.Load()
	assert.Error(t, err)

	t.Setenv("AFIP_MODE", "dev")
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")
	_, err = config.Load()
	assert.Error(t, err)
}

func TestDSN_EscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "gc", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/gc?sslmode=disable", c.DSN())
	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
