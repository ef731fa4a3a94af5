package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemRequest línea de venta o presupuesto.
// UnitPrice opcional: si falta se usa el precio del producto convertido a pesos.
type ItemRequest struct {
	ProductID   string           `json:"product_id" validate:"required,uuid"`
	Description string           `json:"description" validate:"omitempty,max=300"`
	Quantity    decimal.Decimal  `json:"quantity" validate:"gt=0"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty" validate:"omitempty,gte=0"`
	Discount    decimal.Decimal  `json:"discount" validate:"gte=0,lte=100"`
}

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	CustomerID       string        `json:"customer_id" validate:"required,uuid"`
	PaymentCondition string        `json:"payment_condition" validate:"required,oneof=contado cuenta_corriente"`
	Notes            string        `json:"notes" validate:"omitempty,max=1000"`
	Items            []ItemRequest `json:"items" validate:"required,min=1,dive"`
}

// SaleListRequest query de GET /api/sales.
type SaleListRequest struct {
	PageRequest
	Status     string `query:"status" validate:"omitempty,oneof=pending invoiced cancelled"`
	CustomerID string `query:"customer_id" validate:"omitempty,uuid"`
	From       string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To         string `query:"to" validate:"omitempty,datetime=2006-01-02"`
}

// ItemResponse línea en respuestas.
type ItemResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Discount    decimal.Decimal `json:"discount"`
	TaxCategory string          `json:"tax_category"`
	Net         decimal.Decimal `json:"net"`
	IVA         decimal.Decimal `json:"iva"`
	Total       decimal.Decimal `json:"total"`
}

// SaleResponse venta con líneas para GET /api/sales/:id.
type SaleResponse struct {
	ID               string          `json:"id"`
	Number           int64           `json:"number"`
	CustomerID       string          `json:"customer_id"`
	CustomerName     string          `json:"customer_name,omitempty"`
	UserID           string          `json:"user_id"`
	Date             time.Time       `json:"date"`
	PaymentCondition string          `json:"payment_condition"`
	Status           string          `json:"status"`
	InvoiceType      int             `json:"invoice_type"`
	InvoiceLetter    string          `json:"invoice_letter"`
	PointOfSale      int             `json:"point_of_sale"`
	VoucherNumber    int64           `json:"voucher_number,omitempty"`
	FormattedNumber  string          `json:"formatted_number,omitempty"` // 00001-00000123
	CAE              string          `json:"cae,omitempty"`
	CAEDueDate       *time.Time      `json:"cae_due_date,omitempty"`
	AFIPStatus       string          `json:"afip_status"`
	AFIPErrors       string          `json:"afip_errors,omitempty"`
	NetTaxed         decimal.Decimal `json:"net_taxed"`
	NetExempt        decimal.Decimal `json:"net_exempt"`
	NetNonTaxed      decimal.Decimal `json:"net_non_taxed"`
	IVATotal         decimal.Decimal `json:"iva_total"`
	Total            decimal.Decimal `json:"total"`
	ExchangeRate     decimal.Decimal `json:"exchange_rate"`
	QuoteID          string          `json:"quote_id,omitempty"`
	Notes            string          `json:"notes,omitempty"`
	CreditNoteType   int             `json:"credit_note_type,omitempty"`
	CreditNoteNumber int64           `json:"credit_note_number,omitempty"`
	CreditNoteCAE    string          `json:"credit_note_cae,omitempty"`
	CancelledAt      *time.Time      `json:"cancelled_at,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	Items            []ItemResponse  `json:"items,omitempty"`
}

// SaleListResponse lista paginada de ventas (sin líneas).
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// AFIPStatusResponse respuesta de POST /api/sales/:id/invoice?async=true (202).
type AFIPStatusResponse struct {
	SaleID     string `json:"sale_id"`
	AFIPStatus string `json:"afip_status"`
	TaskID     string `json:"task_id,omitempty"`
}
