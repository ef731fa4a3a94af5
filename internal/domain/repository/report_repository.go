package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SalesSummaryRow resultado crudo agrupado de ventas.
// Lo produce la DB; el use case lo convierte en DTO.
type SalesSummaryRow struct {
	Status           string
	InvoiceType      int // 0 si la venta no se facturó
	PaymentCondition string
	Count            int
	NetTaxed         decimal.Decimal
	IVATotal         decimal.Decimal
	Total            decimal.Decimal
}

// ReportRepository consultas de lectura para reportes. No modifica datos.
type ReportRepository interface {
	// SalesSummary agrupa las ventas con fecha en [from, to) por estado, tipo de comprobante y condición de pago.
	SalesSummary(ctx context.Context, from, to time.Time) ([]SalesSummaryRow, error)
}
