package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateQuoteRequest body para POST /api/quotes.
type CreateQuoteRequest struct {
	CustomerID string        `json:"customer_id" validate:"required,uuid"`
	ValidUntil string        `json:"valid_until" validate:"omitempty,datetime=2006-01-02"`
	Notes      string        `json:"notes" validate:"omitempty,max=1000"`
	Items      []ItemRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdateQuoteStatusRequest body de PATCH /api/quotes/:id/status.
type UpdateQuoteStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=sent accepted rejected"`
}

// ConvertQuoteRequest body de POST /api/quotes/:id/convert.
type ConvertQuoteRequest struct {
	PaymentCondition string `json:"payment_condition" validate:"required,oneof=contado cuenta_corriente"`
}

// QuoteListRequest query de GET /api/quotes.
type QuoteListRequest struct {
	PageRequest
	Status     string `query:"status" validate:"omitempty,oneof=draft sent accepted rejected converted"`
	CustomerID string `query:"customer_id" validate:"omitempty,uuid"`
}

// QuoteResponse presupuesto en respuestas.
type QuoteResponse struct {
	ID           string          `json:"id"`
	Number       int64           `json:"number"`
	CustomerID   string          `json:"customer_id"`
	UserID       string          `json:"user_id"`
	Status       string          `json:"status"`
	ValidUntil   time.Time       `json:"valid_until"`
	InvoiceType  int             `json:"invoice_type"`
	NetTaxed     decimal.Decimal `json:"net_taxed"`
	NetExempt    decimal.Decimal `json:"net_exempt"`
	NetNonTaxed  decimal.Decimal `json:"net_non_taxed"`
	IVATotal     decimal.Decimal `json:"iva_total"`
	Total        decimal.Decimal `json:"total"`
	// ExchangeRate cotización USD aplicada; 0 si no hubo conversión.
	ExchangeRate decimal.Decimal `json:"exchange_rate"`
	SaleID       string          `json:"sale_id,omitempty"`
	Notes        string          `json:"notes,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	Items        []ItemResponse  `json:"items,omitempty"`
}

// QuoteListResponse lista paginada de presupuestos.
type QuoteListResponse struct {
	Items []QuoteResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
