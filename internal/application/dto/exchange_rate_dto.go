package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateExchangeRateRequest carga manual de cotización.
type CreateExchangeRateRequest struct {
	Currency string          `json:"currency" validate:"required,oneof=USD EUR"`
	Buy      decimal.Decimal `json:"buy" validate:"gt=0"`
	Sell     decimal.Decimal `json:"sell" validate:"gt=0"`
	Date     string          `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

// ExchangeRateResponse cotización en respuestas.
type ExchangeRateResponse struct {
	ID        string          `json:"id"`
	Currency  string          `json:"currency"`
	Buy       decimal.Decimal `json:"buy"`
	Sell      decimal.Decimal `json:"sell"`
	Source    string          `json:"source"`
	Date      time.Time       `json:"date"`
	CreatedAt time.Time       `json:"created_at"`
}
