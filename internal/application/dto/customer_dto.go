package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomerRequest body para POST y PUT /api/customers.
type CustomerRequest struct {
	Name            string          `json:"name" validate:"required,min=1,max=200"`
	DocType         int             `json:"doc_type" validate:"required,oneof=80 86 96 99"`
	DocNumber       string          `json:"doc_number" validate:"omitempty,max=20"`
	IVACondition    string          `json:"iva_condition" validate:"required,oneof=responsable_inscripto monotributo exento consumidor_final"`
	Email           string          `json:"email,omitempty" validate:"omitempty,email"`
	Phone           string          `json:"phone,omitempty" validate:"omitempty,max=50"`
	Address         string          `json:"address,omitempty" validate:"omitempty,max=300"`
	CreditLimit     decimal.Decimal `json:"credit_limit" validate:"gte=0"`
	PaymentTermDays int             `json:"payment_term_days" validate:"min=0,max=365"`
}

// CustomerListRequest query de GET /api/customers.
type CustomerListRequest struct {
	PageRequest
	Search          string `query:"search"`
	IncludeInactive bool   `query:"include_inactive"`
}

// CustomerResponse cliente en respuestas.
type CustomerResponse struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	DocType         int             `json:"doc_type"`
	DocNumber       string          `json:"doc_number"`
	IVACondition    string          `json:"iva_condition"`
	Email           string          `json:"email,omitempty"`
	Phone           string          `json:"phone,omitempty"`
	Address         string          `json:"address,omitempty"`
	CreditLimit     decimal.Decimal `json:"credit_limit"`
	PaymentTermDays int             `json:"payment_term_days"`
	IsActive        bool            `json:"is_active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// CustomerListResponse lista paginada de clientes.
type CustomerListResponse struct {
	Items []CustomerResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
