package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un presupuesto.
const (
	QuoteStatusDraft     = "draft"
	QuoteStatusSent      = "sent"
	QuoteStatusAccepted  = "accepted"
	QuoteStatusRejected  = "rejected"
	QuoteStatusConverted = "converted" // convertido en venta
)

var quoteTransitions = map[string][]string{
	QuoteStatusDraft:    {QuoteStatusSent, QuoteStatusAccepted, QuoteStatusRejected},
	QuoteStatusSent:     {QuoteStatusAccepted, QuoteStatusRejected},
	QuoteStatusAccepted: {QuoteStatusConverted},
}

// Quote representa un presupuesto a un cliente.
type Quote struct {
	ID           string
	Number       int64
	CustomerID   string
	UserID       string
	Status       string
	ValidUntil   time.Time
	InvoiceType  int // tipo de comprobante que correspondería al facturar
	NetTaxed     decimal.Decimal
	NetExempt    decimal.Decimal
	NetNonTaxed  decimal.Decimal
	IVATotal     decimal.Decimal
	Total        decimal.Decimal
	// ExchangeRate cotización USD usada al valorizar; 0 si no hubo conversión.
	ExchangeRate decimal.Decimal
	SaleID       string
	Notes        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Items        []*QuoteItem
}

// QuoteItem línea de presupuesto.
type QuoteItem struct {
	ID          string
	QuoteID     string
	ProductID   string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Discount    decimal.Decimal
	TaxCategory string
	Net         decimal.Decimal
	IVA         decimal.Decimal
	Total       decimal.Decimal
}

// CanTransitionTo indica si el presupuesto puede pasar al estado next.
func (q *Quote) CanTransitionTo(next string) bool {
	for _, s := range quoteTransitions[q.Status] {
		if s == next {
			return true
		}
	}
	return false
}

// IsExpired indica si la validez del presupuesto venció respecto de now.
func (q *Quote) IsExpired(now time.Time) bool {
	return !q.ValidUntil.IsZero() && now.After(q.ValidUntil)
}
