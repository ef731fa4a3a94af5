package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/gestion-comercial-api/internal/domain/entity"
	"github.com/jhoicas/gestion-comercial-api/internal/domain/repository"
)

var _ repository.ExchangeRateRepository = (*ExchangeRateRepo)(nil)

const rateColumns = `id, currency, buy, sell, source, date, created_at`

// ExchangeRateRepo histórico de cotizaciones.
type ExchangeRateRepo struct {
	q Querier
}

// NewExchangeRateRepository construye el adaptador.
func NewExchangeRateRepository(q Querier) *ExchangeRateRepo {
	return &ExchangeRateRepo{q: q}
}

func (r *ExchangeRateRepo) Create(ctx context.Context, rate *entity.ExchangeRate) error {
	_, err := r.q.Exec(ctx, `INSERT INTO exchange_rates (`+rateColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rate.ID, rate.Currency, rate.Buy, rate.Sell, rate.Source, nullDate(&rate.Date), rate.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert exchange rate: %w", err)
	}
	return nil
}

// Latest la más reciente por fecha; a igual fecha, la última cargada.
func (r *ExchangeRateRepo) Latest(ctx context.Context, currency string) (*entity.ExchangeRate, error) {
	var e entity.ExchangeRate
	err := r.q.QueryRow(ctx, `SELECT `+rateColumns+` FROM exchange_rates
		WHERE currency = $1 ORDER BY date DESC, created_at DESC LIMIT 1`, currency,
	).Scan(&e.ID, &e.Currency, &e.Buy, &e.Sell, &e.Source, &e.Date, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("latest exchange rate: %w", err)
	}
	return &e, nil
}

func (r *ExchangeRateRepo) List(ctx context.Context, currency string, limit int) ([]*entity.ExchangeRate, error) {
	limit, _ = paging(limit, 0)
	rows, err := r.q.Query(ctx, `SELECT `+rateColumns+` FROM exchange_rates
		WHERE currency = $1 ORDER BY date DESC, created_at DESC LIMIT $2`, currency, limit)
	if err != nil {
		return nil, fmt.Errorf("list exchange rates: %w", err)
	}
	defer rows.Close()
	var list []*entity.ExchangeRate
	for rows.Next() {
		var e entity.ExchangeRate
		if err := rows.Scan(&e.ID, &e.Currency, &e.Buy, &e.Sell, &e.Source, &e.Date, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan exchange rate: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
