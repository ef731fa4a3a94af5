// Package cache guarda en Redis la última cotización de cada moneda.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-comercial-api/internal/application/rates"
	"github.com/jhoicas/gestion-comercial-api/internal/domain/entity"
	"github.com/jhoicas/gestion-comercial-api/pkg/config"
)

var _ rates.Cache = (*RateCache)(nil)

const keyPrefix = "rates:latest:"

// NewRedisClient conecta y verifica con PING.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// RateCache implementa rates.Cache con expiración por TTL.
type RateCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRateCache ttl <= 0 usa 15 minutos.
func NewRateCache(client redis.Cmdable, ttl time.Duration) *RateCache {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &RateCache{client: client, ttl: ttl}
}

type cachedRate struct {
	ID        string          `json:"id"`
	Currency  string          `json:"currency"`
	Buy       decimal.Decimal `json:"buy"`
	Sell      decimal.Decimal `json:"sell"`
	Source    string          `json:"source"`
	Date      time.Time       `json:"date"`
	CreatedAt time.Time       `json:"created_at"`
}

// Get devuelve (nil, nil) si no hay valor en caché.
func (c *RateCache) Get(ctx context.Context, currency string) (*entity.ExchangeRate, error) {
	raw, err := c.client.Get(ctx, keyPrefix+currency).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return decode(raw)
}

func (c *RateCache) Set(ctx context.Context, rate *entity.ExchangeRate) error {
	raw, err := encode(rate)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, keyPrefix+rate.Currency, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func encode(r *entity.ExchangeRate) ([]byte, error) {
	raw, err := json.Marshal(cachedRate(*r))
	if err != nil {
		return nil, fmt.Errorf("serializar cotización: %w", err)
	}
	return raw, nil
}

func decode(raw []byte) (*entity.ExchangeRate, error) {
	var cr cachedRate
	if err := json.Unmarshal(raw, &cr); err != nil {
		return nil, fmt.Errorf("cotización en caché inválida: %w", err)
	}
	r := entity.ExchangeRate(cr)
	return &r, nil
}
