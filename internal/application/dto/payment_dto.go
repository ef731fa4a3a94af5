package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ChequeRequest datos del cheque recibido en un pago con method=cheque.
type ChequeRequest struct {
	Number     string `json:"number" validate:"required,max=30"`
	Bank       string `json:"bank" validate:"required,max=100"`
	IssuerName string `json:"issuer_name" validate:"omitempty,max=200"`
	IssuerCUIT string `json:"issuer_cuit" validate:"omitempty,max=13"`
	IssueDate  string `json:"issue_date" validate:"required,datetime=2006-01-02"`
	DueDate    string `json:"due_date" validate:"required,datetime=2006-01-02"`
	Notes      string `json:"notes" validate:"omitempty,max=500"`
}

// CreatePaymentRequest body para POST /api/payments.
// ExchangeRate opcional para pagos en USD: si falta se usa la última cotización de venta.
type CreatePaymentRequest struct {
	CustomerID   string           `json:"customer_id" validate:"required,uuid"`
	Method       string           `json:"method" validate:"required,oneof=efectivo transferencia cheque tarjeta"`
	Currency     string           `json:"currency" validate:"omitempty,oneof=ARS USD"`
	Amount       decimal.Decimal  `json:"amount" validate:"gt=0"`
	ExchangeRate *decimal.Decimal `json:"exchange_rate,omitempty" validate:"omitempty,gt=0"`
	Date         string           `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Reference    string           `json:"reference" validate:"omitempty,max=100"`
	Notes        string           `json:"notes" validate:"omitempty,max=500"`
	Cheque       *ChequeRequest   `json:"cheque,omitempty"`
}

// PaymentListRequest query de GET /api/payments.
type PaymentListRequest struct {
	PageRequest
	CustomerID string `query:"customer_id" validate:"omitempty,uuid"`
}

// PaymentResponse pago en respuestas.
type PaymentResponse struct {
	ID           string          `json:"id"`
	CustomerID   string          `json:"customer_id"`
	UserID       string          `json:"user_id"`
	Date         time.Time       `json:"date"`
	Method       string          `json:"method"`
	Currency     string          `json:"currency"`
	Amount       decimal.Decimal `json:"amount"`
	ExchangeRate decimal.Decimal `json:"exchange_rate"`
	AmountARS    decimal.Decimal `json:"amount_ars"`
	ChequeID     string          `json:"cheque_id,omitempty"`
	Reference    string          `json:"reference,omitempty"`
	Notes        string          `json:"notes,omitempty"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
}

// PaymentListResponse lista paginada de pagos.
type PaymentListResponse struct {
	Items []PaymentResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// UpdateChequeStatusRequest body de PATCH /api/cheques/:id/status.
type UpdateChequeStatusRequest struct {
	Status     string `json:"status" validate:"required,oneof=deposited endorsed rejected"`
	EndorsedTo string `json:"endorsed_to" validate:"omitempty,max=200"`
	Reason     string `json:"reason" validate:"omitempty,max=500"`
}

// ChequeListRequest query de GET /api/cheques.
type ChequeListRequest struct {
	PageRequest
	Status     string `query:"status" validate:"omitempty,oneof=pending deposited endorsed rejected"`
	CustomerID string `query:"customer_id" validate:"omitempty,uuid"`
	DueBefore  string `query:"due_before" validate:"omitempty,datetime=2006-01-02"`
}

// ChequeResponse cheque en respuestas.
type ChequeResponse struct {
	ID              string          `json:"id"`
	Number          string          `json:"number"`
	Bank            string          `json:"bank"`
	IssuerName      string          `json:"issuer_name,omitempty"`
	IssuerCUIT      string          `json:"issuer_cuit,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	IssueDate       time.Time       `json:"issue_date"`
	DueDate         time.Time       `json:"due_date"`
	Status          string          `json:"status"`
	CustomerID      string          `json:"customer_id"`
	PaymentID       string          `json:"payment_id,omitempty"`
	EndorsedTo      string          `json:"endorsed_to,omitempty"`
	DepositedAt     *time.Time      `json:"deposited_at,omitempty"`
	RejectedAt      *time.Time      `json:"rejected_at,omitempty"`
	RejectionReason string          `json:"rejection_reason,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ChequeListResponse lista paginada de cheques.
type ChequeListResponse struct {
	Items []ChequeResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}
