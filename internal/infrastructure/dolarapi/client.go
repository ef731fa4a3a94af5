// Package dolarapi obtiene cotizaciones oficiales desde DolarApi (https://dolarapi.com).
package dolarapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-comercial-api/internal/application/rates"
	"github.com/jhoicas/gestion-comercial-api/internal/domain/entity"
)

var _ rates.Provider = (*Client)(nil)

var paths = map[string]string{
	entity.CurrencyUSD: "/v1/dolares/oficial",
	entity.CurrencyEUR: "/v1/cotizaciones/eur",
}

// Client proveedor HTTP de cotizaciones.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New construye el cliente con timeout de 10 s.
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type quote struct {
	Compra             decimal.Decimal `json:"compra"`
	Venta              decimal.Decimal `json:"venta"`
	FechaActualizacion time.Time       `json:"fechaActualizacion"`
}

// Fetch consulta la cotización oficial de la moneda.
func (c *Client) Fetch(ctx context.Context, currency string) (*entity.ExchangeRate, error) {
	path, ok := paths[currency]
	if !ok {
		return nil, fmt.Errorf("dolarapi: moneda %q no soportada", currency)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("dolarapi: crear request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dolarapi: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("dolarapi: HTTP %d", resp.StatusCode)
	}
	var q quote
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&q); err != nil {
		return nil, fmt.Errorf("dolarapi: respuesta inválida: %w", err)
	}
	if !q.Compra.IsPositive() || !q.Venta.IsPositive() {
		return nil, fmt.Errorf("dolarapi: cotización vacía para %s", currency)
	}
	date := q.FechaActualizacion
	if date.IsZero() {
		date = time.Now()
	}
	return &entity.ExchangeRate{
		Currency: currency,
		Buy:      q.Compra,
		Sell:     q.Venta,
		Source:   entity.RateSourceProvider,
		Date:     date.In(time.Local),
	}, nil
}
