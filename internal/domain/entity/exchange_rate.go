package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Origen de la cotización.
const (
	RateSourceManual   = "manual"
	RateSourceProvider = "provider"
)

// ExchangeRate cotización de una moneda extranjera en pesos.
type ExchangeRate struct {
	ID        string
	Currency  string // USD, EUR
	Buy       decimal.Decimal
	Sell      decimal.Decimal
	Source    string
	Date      time.Time
	CreatedAt time.Time
}
