package billing

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-comercial-api/internal/domain"
	"github.com/jhoicas/gestion-comercial-api/internal/domain/entity"
	"github.com/jhoicas/gestion-comercial-api/internal/domain/fiscal"
	"github.com/jhoicas/gestion-comercial-api/internal/domain/repository"
	"github.com/jhoicas/gestion-comercial-api/pkg/afip"
	"github.com/jhoicas/gestion-comercial-api/pkg/logger"
)

// AFIPOrchestrator orquesta la autorización electrónica de una venta:
//
//	Validación → Último autorizado → FECAESolicitar → Update DB → Archivo PDF
//
// Se usa tanto desde el handler HTTP (modo síncrono) como desde el worker asynq.
// Antes de llamar a AFIP la venta se reclama en la base (afip_status authorizing)
// con la fila bloqueada; el reclamo excluye a la API y al worker entre sí.
// La secuencia último autorizado + solicitud además se serializa dentro del proceso.
type AFIPOrchestrator struct {
	tx        repository.TxRunner
	sales     repository.SaleRepository
	customers repository.CustomerRepository
	service   AFIPService
	issuer    IssuerConfig
	pdf       *PDFUseCase     // nil: no se archiva el PDF
	archive   DocumentArchive // nil: no se archiva el PDF
	log       *logger.Logger

	mu sync.Mutex
}

// NewAFIPOrchestrator construye el orquestador. pdf y archive pueden ser nil.
func NewAFIPOrchestrator(
	tx repository.TxRunner,
	sales repository.SaleRepository,
	customers repository.CustomerRepository,
	service AFIPService,
	issuer IssuerConfig,
	pdf *PDFUseCase,
	archive DocumentArchive,
	log *logger.Logger,
) *AFIPOrchestrator {
	if log == nil {
		log = logger.Nop()
	}
	return &AFIPOrchestrator{
		tx:        tx,
		sales:     sales,
		customers: customers,
		service:   service,
		issuer:    issuer,
		pdf:       pdf,
		archive:   archive,
		log:       log.Component("afip"),
	}
}

// claimTTL antigüedad a partir de la cual un reclamo authorizing se considera abandonado.
const claimTTL = 2 * time.Minute

// CreditNote nota de crédito autorizada al anular una venta facturada.
type CreditNote struct {
	VoucherType int
	Number      int64
	CAE         string
	CAEDueDate  time.Time
}

// Authorize solicita el CAE de una venta pendiente, encolada o no (worker).
// Rechazo de AFIP → afip_status rejected y domain.ErrAFIPRejected.
// Falla de comunicación → afip_status error y domain.ErrAFIPUnavailable.
func (o *AFIPOrchestrator) Authorize(ctx context.Context, saleID string) (*entity.Sale, error) {
	return o.authorize(ctx, saleID, func(s *entity.Sale) error {
		if s.Status != entity.SaleStatusPending {
			return fmt.Errorf("%w: la venta está en estado %s", domain.ErrInvalidTransition, s.Status)
		}
		return checkNotClaimed(s, time.Now())
	})
}

// AuthorizeNow modo síncrono: además rechaza las ventas ya encoladas para el worker.
func (o *AFIPOrchestrator) AuthorizeNow(ctx context.Context, saleID string) (*entity.Sale, error) {
	return o.authorize(ctx, saleID, checkInvoiceable)
}

func (o *AFIPOrchestrator) authorize(ctx context.Context, saleID string, check func(*entity.Sale) error) (*entity.Sale, error) {
	sale, err := o.Claim(ctx, saleID, check)
	if err != nil {
		return nil, err
	}
	log := o.log.With().Str("sale_id", saleID).Logger()

	// markFailure persiste el estado AFIP y registra el paso que falló.
	markFailure := func(status, step string, cause error) {
		sale.AFIPStatus = status
		sale.AFIPErrors = cause.Error()
		sale.UpdatedAt = time.Now()
		if err := o.sales.Update(ctx, sale); err != nil {
			log.Error().Err(err).Str("step", step).Msg("no se pudo persistir el estado AFIP")
		}
		log.Warn().Err(cause).Str("step", step).Str("afip_status", status).Msg("autorización AFIP fallida")
	}

	customer, err := o.customers.GetByID(ctx, sale.CustomerID)
	if err != nil {
		markFailure(entity.AFIPStatusError, "customer", err)
		return nil, fmt.Errorf("afip: obtener cliente: %w", err)
	}
	if err := fiscal.ValidateForAuthorization(sale, customer); err != nil {
		markFailure(entity.AFIPStatusError, "validate", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	req := o.voucherRequest(sale, customer, sale.InvoiceType)
	res, err := o.request(ctx, &req, func() error {
		current, err := o.sales.GetByID(ctx, saleID)
		if err != nil {
			return err
		}
		if current == nil || current.Status != entity.SaleStatusPending {
			return fmt.Errorf("%w: la venta ya no está pendiente", domain.ErrInvalidTransition)
		}
		if current.AFIPStatus != entity.AFIPStatusAuthorizing {
			return fmt.Errorf("%w: la venta perdió el reclamo de autorización", domain.ErrConflict)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) || errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		if errors.Is(err, domain.ErrAFIPRejected) {
			markFailure(entity.AFIPStatusRejected, "authorize", err)
			return nil, err
		}
		markFailure(entity.AFIPStatusError, "authorize", err)
		return nil, unavailable(err)
	}

	due := res.CAEDueDate
	sale.VoucherNumber = res.Number
	sale.CAE = res.CAE
	sale.CAEDueDate = &due
	sale.Status = entity.SaleStatusInvoiced
	sale.AFIPStatus = entity.AFIPStatusAuthorized
	sale.AFIPErrors = strings.Join(res.Observations, "; ")
	sale.UpdatedAt = time.Now()
	if err := o.sales.Update(ctx, sale); err != nil {
		// El CAE ya fue otorgado: se registra para conciliación manual.
		log.Error().Err(err).Int64("voucher_number", res.Number).Str("cae", res.CAE).Msg("CAE otorgado pero no persistido")
		return nil, fmt.Errorf("afip: persistir CAE: %w", err)
	}
	log.Info().
		Str("voucher", fiscal.FormatVoucherNumber(sale.PointOfSale, sale.VoucherNumber)).
		Str("cae", sale.CAE).
		Msg("comprobante autorizado")

	o.archivePDF(ctx, sale, customer)
	return sale, nil
}

// AuthorizeCreditNote autoriza la nota de crédito total de una venta facturada.
// La venta debe estar reclamada (Claim). No persiste: el caller registra el
// resultado junto con la anulación y libera el reclamo.
func (o *AFIPOrchestrator) AuthorizeCreditNote(ctx context.Context, sale *entity.Sale) (*CreditNote, error) {
	if sale.Status != entity.SaleStatusInvoiced {
		return nil, fmt.Errorf("%w: la venta no está facturada", domain.ErrInvalidTransition)
	}
	if sale.AFIPStatus != entity.AFIPStatusAuthorizing {
		return nil, fmt.Errorf("%w: la venta no está reclamada para la nota de crédito", domain.ErrConflict)
	}
	ncType, err := fiscal.CreditNoteFor(sale.InvoiceType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	customer, err := o.customers.GetByID(ctx, sale.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("afip: obtener cliente: %w", err)
	}
	if customer == nil {
		return nil, fmt.Errorf("%w: cliente %s", domain.ErrNotFound, sale.CustomerID)
	}

	req := o.voucherRequest(sale, customer, ncType)
	req.Date = time.Now()
	req.Associated = &AssociatedVoucher{
		VoucherType: sale.InvoiceType,
		PointOfSale: sale.PointOfSale,
		Number:      sale.VoucherNumber,
		Date:        sale.Date,
	}
	res, err := o.request(ctx, &req, func() error {
		current, err := o.sales.GetByID(ctx, sale.ID)
		if err != nil {
			return err
		}
		if current == nil || current.Status != entity.SaleStatusInvoiced || current.AFIPStatus != entity.AFIPStatusAuthorizing {
			return fmt.Errorf("%w: la venta cambió de estado", domain.ErrConflict)
		}
		return nil
	})
	if err != nil {
		o.log.Warn().Err(err).Str("sale_id", sale.ID).Msg("nota de crédito no autorizada")
		if errors.Is(err, domain.ErrAFIPRejected) || errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		return nil, unavailable(err)
	}
	o.log.Info().Str("sale_id", sale.ID).
		Str("voucher", fiscal.FormatVoucherNumber(sale.PointOfSale, res.Number)).
		Str("cae", res.CAE).
		Msg("nota de crédito autorizada")
	return &CreditNote{VoucherType: ncType, Number: res.Number, CAE: res.CAE, CAEDueDate: res.CAEDueDate}, nil
}

// Claim bloquea la venta, aplica check y la marca authorizing en una transacción.
// Devuelve la venta ya reclamada.
func (o *AFIPOrchestrator) Claim(ctx context.Context, saleID string, check func(*entity.Sale) error) (*entity.Sale, error) {
	var sale *entity.Sale
	err := o.tx.Run(ctx, func(r repository.Repos) error {
		var err error
		sale, err = r.Sales.GetForUpdate(ctx, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if err := check(sale); err != nil {
			return err
		}
		sale.AFIPStatus = entity.AFIPStatusAuthorizing
		sale.UpdatedAt = time.Now()
		return r.Sales.Update(ctx, sale)
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// ReleaseClaim devuelve la venta reclamada al estado AFIP indicado.
func (o *AFIPOrchestrator) ReleaseClaim(ctx context.Context, saleID, status string) {
	err := o.tx.Run(ctx, func(r repository.Repos) error {
		sale, err := r.Sales.GetForUpdate(ctx, saleID)
		if err != nil || sale == nil || sale.AFIPStatus != entity.AFIPStatusAuthorizing {
			return err
		}
		sale.AFIPStatus = status
		sale.UpdatedAt = time.Now()
		return r.Sales.Update(ctx, sale)
	})
	if err != nil {
		o.log.Error().Err(err).Str("sale_id", saleID).Msg("no se pudo liberar el reclamo AFIP")
	}
}

// checkNotClaimed falla si otra solicitud a AFIP sobre la venta sigue vigente.
func checkNotClaimed(sale *entity.Sale, now time.Time) error {
	if sale.AFIPStatus == entity.AFIPStatusAuthorizing && now.Sub(sale.UpdatedAt) < claimTTL {
		return fmt.Errorf("%w: hay una solicitud a AFIP en curso", domain.ErrConflict)
	}
	return nil
}

// request obtiene el próximo número y solicita el CAE, serializado por proceso.
// precheck (opcional) se evalúa ya tomado el lock.
func (o *AFIPOrchestrator) request(ctx context.Context, req *VoucherRequest, precheck func() error) (*VoucherResult, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if precheck != nil {
		if err := precheck(); err != nil {
			return nil, err
		}
	}

	last, err := o.service.LastAuthorized(ctx, req.PointOfSale, req.VoucherType)
	if err != nil {
		return nil, fmt.Errorf("último autorizado: %w", err)
	}
	req.Number = last + 1
	res, err := o.service.Authorize(ctx, *req)
	if err != nil {
		return nil, err
	}
	if res.Number == 0 {
		res.Number = req.Number
	}
	return res, nil
}

// voucherRequest arma la solicitud con los importes de la venta.
func (o *AFIPOrchestrator) voucherRequest(sale *entity.Sale, customer *entity.Customer, voucherType int) VoucherRequest {
	req := VoucherRequest{
		PointOfSale:  sale.PointOfSale,
		VoucherType:  voucherType,
		Concept:      afip.ConceptoProductos,
		DocType:      afip.DocTypeSinIdentificar,
		Date:         sale.Date,
		NetTaxed:     sale.NetTaxed,
		NetExempt:    sale.NetExempt,
		NetNonTaxed:  sale.NetNonTaxed,
		IVATotal:     sale.IVATotal,
		Total:        sale.Total,
		Currency:     afip.CurrencyPesos,
		CurrencyRate: decimal.NewFromInt(1),
	}
	if req.PointOfSale == 0 {
		req.PointOfSale = o.issuer.PointOfSale
	}
	if customer != nil {
		req.ReceiverIVACondition = afip.IVAConditionIDs[customer.IVACondition]
		if customer.DocType != afip.DocTypeSinIdentificar && customer.DocNumber != "" {
			if n, err := strconv.ParseInt(customer.DocNumber, 10, 64); err == nil {
				req.DocType = customer.DocType
				req.DocNumber = n
			}
		}
	}
	if fiscal.DiscriminatesIVA(voucherType) {
		if amounts, err := fiscal.ComputeAmounts(fiscal.ItemsFromSale(sale.Items), voucherType); err == nil {
			req.IVA = amounts.IVA
		}
	}
	return req
}

// archivePDF genera y guarda el PDF de la factura. Errores solo se registran.
func (o *AFIPOrchestrator) archivePDF(ctx context.Context, sale *entity.Sale, customer *entity.Customer) {
	if o.pdf == nil || o.archive == nil {
		return
	}
	body, filename, err := o.pdf.Render(ctx, sale, customer)
	if err != nil {
		o.log.Warn().Err(err).Str("sale_id", sale.ID).Msg("no se pudo generar el PDF para archivo")
		return
	}
	key := fmt.Sprintf("comprobantes/%s/%s", sale.Date.Format("2006/01"), filename)
	location, err := o.archive.Put(ctx, key, body, "application/pdf")
	if err != nil {
		o.log.Warn().Err(err).Str("sale_id", sale.ID).Str("key", key).Msg("no se pudo archivar el PDF")
		return
	}
	o.log.Info().Str("sale_id", sale.ID).Str("location", location).Msg("PDF archivado")
}

func unavailable(err error) error {
	if errors.Is(err, domain.ErrAFIPUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrAFIPUnavailable, err)
}
