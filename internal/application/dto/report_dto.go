package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SummaryBucket totales de un grupo del resumen de ventas.
type SummaryBucket struct {
	Key   string          `json:"key"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// SalesSummaryResponse respuesta de GET /api/reports/sales/summary.
type SalesSummaryResponse struct {
	From               time.Time       `json:"from"`
	To                 time.Time       `json:"to"`
	Count              int             `json:"count"`
	NetTaxed           decimal.Decimal `json:"net_taxed"`
	IVATotal           decimal.Decimal `json:"iva_total"`
	Total              decimal.Decimal `json:"total"` // excluye ventas anuladas
	ByStatus           []SummaryBucket `json:"by_status"`
	ByInvoiceType      []SummaryBucket `json:"by_invoice_type"`
	ByPaymentCondition []SummaryBucket `json:"by_payment_condition"`
}

// DateRangeRequest query con rango de fechas [from, to].
type DateRangeRequest struct {
	From string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To   string `query:"to" validate:"omitempty,datetime=2006-01-02"`
}
