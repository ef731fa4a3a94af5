package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Condiciones de pago de una venta.
const (
	PaymentConditionContado         = "contado"
	PaymentConditionCuentaCorriente = "cuenta_corriente"
)

// Estados de una venta.
const (
	SaleStatusPending   = "pending"   // Registrada, sin comprobante fiscal
	SaleStatusInvoiced  = "invoiced"  // Con CAE otorgado por AFIP
	SaleStatusCancelled = "cancelled" // Anulada (con nota de crédito si estaba facturada)
)

// Estados de autorización AFIP.
const (
	AFIPStatusNotRequested = "not_requested"
	AFIPStatusQueued       = "queued"     // Encolada para autorización asíncrona
	AFIPStatusAuthorizing  = "authorizing" // Solicitud a AFIP en curso (factura o nota de crédito)
	AFIPStatusAuthorized   = "authorized" // CAE otorgado
	AFIPStatusRejected     = "rejected"   // AFIP rechazó el comprobante
	AFIPStatusError        = "error"      // Falla de comunicación o validación previa
)

// Sale representa la cabecera de una venta y, una vez autorizada, su factura electrónica.
type Sale struct {
	ID               string
	Number           int64 // numeración interna
	CustomerID       string
	UserID           string
	Date             time.Time
	PaymentCondition string
	Status           string
	InvoiceType      int // tipo de comprobante AFIP (1 A, 6 B, 11 C)
	PointOfSale      int
	VoucherNumber    int64 // número de comprobante otorgado por AFIP
	CAE              string
	CAEDueDate       *time.Time
	AFIPStatus       string
	AFIPErrors       string
	NetTaxed         decimal.Decimal // ImpNeto
	NetExempt        decimal.Decimal // ImpOpEx
	NetNonTaxed      decimal.Decimal // ImpTotConc
	IVATotal         decimal.Decimal // ImpIVA
	Total            decimal.Decimal // ImpTotal
	ExchangeRate     decimal.Decimal // cotización USD usada para convertir precios (0 si no aplica)
	QuoteID          string
	Notes            string
	// Nota de crédito emitida al anular una venta facturada.
	CreditNoteType   int
	CreditNoteNumber int64
	CreditNoteCAE    string
	CancelledAt      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
	Items            []*SaleItem
}

// SaleItem representa una línea de venta.
type SaleItem struct {
	ID          string
	SaleID      string
	ProductID   string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal // sin IVA, en pesos
	Discount    decimal.Decimal // porcentaje 0-100
	TaxCategory string
	Net         decimal.Decimal
	IVA         decimal.Decimal
	Total       decimal.Decimal
}
