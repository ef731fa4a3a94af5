package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Monedas de precio soportadas.
const (
	CurrencyARS = "ARS"
	CurrencyUSD = "USD"
	CurrencyEUR = "EUR"
)

// Product representa un artículo de venta. Los precios se expresan sin IVA.
type Product struct {
	ID          string
	Code        string // código único
	Name        string
	Description string
	CategoryID  string // vacío si no tiene categoría
	Price       decimal.Decimal
	Currency    string // ARS o USD (mercadería importada)
	Cost        decimal.Decimal
	Stock       decimal.Decimal
	MinStock    decimal.Decimal
	TaxCategory string // iva_21, iva_10_5, exento, ...
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsLowStock indica si el stock está en o por debajo del mínimo.
func (p *Product) IsLowStock() bool {
	return p.Stock.LessThanOrEqual(p.MinStock)
}
