package billing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-comercial-api/internal/domain/entity"
	"github.com/jhoicas/gestion-comercial-api/internal/domain/fiscal"
)

// IssuerConfig datos fiscales del emisor (la propia empresa).
type IssuerConfig struct {
	CUIT          string
	PointOfSale   int
	IVACondition  string // responsable_inscripto, monotributo, exento
	BusinessName  string
	Address       string
	GrossIncome   string // Ingresos Brutos
	ActivityStart string // inicio de actividades, dd/mm/aaaa
}

// AFIPService puerto hacia el servicio externo de factura electrónica (WSAA/WSFEv1).
// Los rechazos deben envolver domain.ErrAFIPRejected; las fallas de comunicación domain.ErrAFIPUnavailable.
type AFIPService interface {
	// LastAuthorized último número autorizado para punto de venta y tipo (FECompUltimoAutorizado).
	LastAuthorized(ctx context.Context, pointOfSale, voucherType int) (int64, error)
	// Authorize solicita el CAE del comprobante (FECAESolicitar).
	Authorize(ctx context.Context, req VoucherRequest) (*VoucherResult, error)
}

// VoucherRequest comprobante a autorizar. Importes en pesos.
type VoucherRequest struct {
	PointOfSale          int                   `json:"point_of_sale"`
	VoucherType          int                   `json:"voucher_type"`
	Number               int64                 `json:"number"`
	Concept              int                   `json:"concept"`
	DocType              int                   `json:"doc_type"`
	DocNumber            int64                 `json:"doc_number"`
	ReceiverIVACondition int                   `json:"receiver_iva_condition"`
	Date                 time.Time             `json:"date"`
	NetTaxed             decimal.Decimal       `json:"net_taxed"`
	NetExempt            decimal.Decimal       `json:"net_exempt"`
	NetNonTaxed          decimal.Decimal       `json:"net_non_taxed"`
	IVATotal             decimal.Decimal       `json:"iva_total"`
	Total                decimal.Decimal       `json:"total"`
	Currency             string                `json:"currency"`
	CurrencyRate         decimal.Decimal       `json:"currency_rate"`
	IVA                  []fiscal.IVABreakdown `json:"iva,omitempty"`
	Associated           *AssociatedVoucher    `json:"associated,omitempty"`
}

// AssociatedVoucher comprobante asociado (factura que anula una nota de crédito).
type AssociatedVoucher struct {
	VoucherType int       `json:"voucher_type"`
	PointOfSale int       `json:"point_of_sale"`
	Number      int64     `json:"number"`
	Date        time.Time `json:"date"`
}

// VoucherResult respuesta de una autorización aprobada.
type VoucherResult struct {
	Number       int64     `json:"number"`
	CAE          string    `json:"cae"`
	CAEDueDate   time.Time `json:"cae_due_date"`
	Observations []string  `json:"observations,omitempty"`
}

// RateSource cotización vendedor vigente para convertir precios a pesos.
type RateSource interface {
	LatestSellRate(ctx context.Context, currency string) (decimal.Decimal, error)
}

// InvoicePDFData datos para la representación impresa de una venta facturada.
type InvoicePDFData struct {
	Sale     *entity.Sale
	Customer *entity.Customer
	Issuer   IssuerConfig
	QRURL    string
}

// InvoicePDFGenerator genera el PDF de una factura autorizada.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, data InvoicePDFData) ([]byte, error)
}

// DocumentArchive almacenamiento de comprobantes emitidos. Put devuelve la ubicación del objeto.
type DocumentArchive interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
}

// InvoiceTaskEnqueuer encola la autorización AFIP de una venta para el worker.
type InvoiceTaskEnqueuer interface {
	EnqueueAuthorize(ctx context.Context, saleID string) (string, error)
}
