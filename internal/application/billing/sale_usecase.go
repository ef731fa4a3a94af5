package billing

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-comercial-api/internal/application/dto"
	"github.com/jhoicas/gestion-comercial-api/internal/application/finance"
	"github.com/jhoicas/gestion-comercial-api/internal/domain"
	"github.com/jhoicas/gestion-comercial-api/internal/domain/entity"
	"github.com/jhoicas/gestion-comercial-api/internal/domain/fiscal"
	"github.com/jhoicas/gestion-comercial-api/internal/domain/repository"
	"github.com/jhoicas/gestion-comercial-api/pkg/logger"
)

// SaleUseCase registra, factura y anula ventas.
type SaleUseCase struct {
	tx           repository.TxRunner
	sales        repository.SaleRepository
	customers    repository.CustomerRepository
	rates        RateSource
	issuer       IssuerConfig
	orchestrator *AFIPOrchestrator
	enqueuer     InvoiceTaskEnqueuer // nil: sin cola, solo autorización síncrona
	log          *logger.Logger
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(
	tx repository.TxRunner,
	sales repository.SaleRepository,
	customers repository.CustomerRepository,
	rates RateSource,
	issuer IssuerConfig,
	orchestrator *AFIPOrchestrator,
	enqueuer InvoiceTaskEnqueuer,
	log *logger.Logger,
) *SaleUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &SaleUseCase{
		tx:           tx,
		sales:        sales,
		customers:    customers,
		rates:        rates,
		issuer:       issuer,
		orchestrator: orchestrator,
		enqueuer:     enqueuer,
		log:          log,
	}
}

// Create registra la venta en una única transacción: valida cliente y productos,
// convierte precios en dólares, calcula importes, descuenta stock y, en cuenta corriente,
// controla el límite de crédito y debita el total.
func (uc *SaleUseCase) Create(ctx context.Context, userID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if in.PaymentCondition != entity.PaymentConditionContado && in.PaymentCondition != entity.PaymentConditionCuentaCorriente {
		return nil, fmt.Errorf("%w: condición de pago %q", domain.ErrInvalidInput, in.PaymentCondition)
	}
	items := make([]draftItem, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, draftItem{
			ProductID:   it.ProductID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Discount:    it.Discount,
		})
	}

	var sale *entity.Sale
	var customer *entity.Customer
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		var err error
		sale, customer, err = uc.createInTx(ctx, r, saleDraft{
			CustomerID:       in.CustomerID,
			UserID:           userID,
			PaymentCondition: in.PaymentCondition,
			Notes:            in.Notes,
			Items:            items,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("sale_id", sale.ID).Int64("number", sale.Number).Str("total", sale.Total.StringFixed(2)).Msg("venta registrada")
	return toSaleResponse(sale, customer), nil
}

// saleDraft datos para crear una venta (directa o desde un presupuesto).
type saleDraft struct {
	CustomerID       string
	UserID           string
	PaymentCondition string
	Notes            string
	QuoteID          string
	// ExchangeRate cotización ya aplicada a precios explícitos (presupuesto convertido).
	ExchangeRate     decimal.Decimal
	Items            []draftItem
}

// createInTx crea la venta usando los repos de la transacción del caller.
func (uc *SaleUseCase) createInTx(ctx context.Context, r repository.Repos, d saleDraft) (*entity.Sale, *entity.Customer, error) {
	priced, err := priceDraft(ctx, r, uc.rates, uc.issuer, d.CustomerID, d.Items)
	if err != nil {
		return nil, nil, err
	}
	customer := priced.Customer

	if d.PaymentCondition == entity.PaymentConditionCuentaCorriente {
		locked, err := r.Customers.GetForUpdate(ctx, customer.ID)
		if err != nil {
			return nil, nil, err
		}
		if err := finance.CheckCreditLimit(ctx, r, locked, priced.Amounts.Total); err != nil {
			return nil, nil, err
		}
	}

	rate := priced.ExchangeRate
	if rate.IsZero() {
		rate = d.ExchangeRate
	}

	number, err := r.Sales.NextNumber(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("numerar venta: %w", err)
	}
	now := time.Now()
	sale := &entity.Sale{
		ID:               uuid.New().String(),
		Number:           number,
		CustomerID:       customer.ID,
		UserID:           d.UserID,
		Date:             now,
		PaymentCondition: d.PaymentCondition,
		Status:           entity.SaleStatusPending,
		InvoiceType:      priced.InvoiceType,
		PointOfSale:      uc.issuer.PointOfSale,
		AFIPStatus:       entity.AFIPStatusNotRequested,
		NetTaxed:         priced.Amounts.NetTaxed,
		NetExempt:        priced.Amounts.NetExempt,
		NetNonTaxed:      priced.Amounts.NetNonTaxed,
		IVATotal:         priced.Amounts.IVATotal,
		Total:            priced.Amounts.Total,
		ExchangeRate:     rate,
		QuoteID:          d.QuoteID,
		Notes:            d.Notes,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	for _, l := range priced.Lines {
		sale.Items = append(sale.Items, &entity.SaleItem{
			ID:          uuid.New().String(),
			SaleID:      sale.ID,
			ProductID:   l.Product.ID,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Discount:    l.Discount,
			TaxCategory: l.TaxCategory,
			Net:         l.Amounts.Net,
			IVA:         l.Amounts.IVA,
			Total:       l.Amounts.Total,
		})
	}
	if err := r.Sales.Create(ctx, sale); err != nil {
		return nil, nil, err
	}

	if err := adjustStock(ctx, r, priced.requiredStock(), true); err != nil {
		return nil, nil, err
	}

	if d.PaymentCondition == entity.PaymentConditionCuentaCorriente {
		_, err := finance.PostEntry(ctx, r, finance.Entry{
			CustomerID:  customer.ID,
			Date:        now,
			Concept:     entity.LedgerConceptVenta,
			Description: fmt.Sprintf("Venta N° %d", sale.Number),
			Debit:       sale.Total,
			SaleID:      sale.ID,
		})
		if err != nil {
			return nil, nil, err
		}
	}
	return sale, customer, nil
}

// adjustStock descuenta (decrement=true) o repone las cantidades, en orden de ID de producto.
func adjustStock(ctx context.Context, r repository.Repos, qty map[string]decimal.Decimal, decrement bool) error {
	ids := make([]string, 0, len(qty))
	for id := range qty {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		delta := qty[id]
		if decrement {
			delta = delta.Neg()
		}
		if _, err := r.Products.AdjustStock(ctx, id, delta); err != nil {
			if errors.Is(err, domain.ErrInsufficientStock) {
				return fmt.Errorf("%w: producto %s", domain.ErrInsufficientStock, id)
			}
			return err
		}
	}
	return nil
}

// GetByID obtiene la venta con sus líneas.
func (uc *SaleUseCase) GetByID(ctx context.Context, id string) (*dto.SaleResponse, error) {
	sale, err := uc.sales.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	customer, err := uc.customers.GetByID(ctx, sale.CustomerID)
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale, customer), nil
}

// List lista ventas filtradas (sin líneas).
func (uc *SaleUseCase) List(ctx context.Context, in dto.SaleListRequest) (*dto.SaleListResponse, error) {
	in.DefaultPage()
	f := repository.SaleFilter{
		Status:     in.Status,
		CustomerID: in.CustomerID,
		Limit:      in.Limit,
		Offset:     in.Offset,
	}
	var err error
	if f.From, f.To, err = ParseDateRange(in.From, in.To); err != nil {
		return nil, err
	}
	list, total, err := uc.sales.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSaleResponse(s, nil))
	}
	return &dto.SaleListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}, nil
}

// Invoice solicita el CAE de forma síncrona. Una venta encolada queda para el worker (ErrConflict).
func (uc *SaleUseCase) Invoice(ctx context.Context, id string) (*dto.SaleResponse, error) {
	sale, err := uc.orchestrator.AuthorizeNow(ctx, id)
	if err != nil {
		return nil, err
	}
	customer, _ := uc.customers.GetByID(ctx, sale.CustomerID)
	return toSaleResponse(sale, customer), nil
}

// InvoiceAsync marca la venta como encolada y delega la autorización al worker.
func (uc *SaleUseCase) InvoiceAsync(ctx context.Context, id string) (*dto.AFIPStatusResponse, error) {
	if uc.enqueuer == nil {
		return nil, fmt.Errorf("%w: cola de tareas no configurada", domain.ErrAFIPUnavailable)
	}
	var sale *entity.Sale
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		var err error
		sale, err = r.Sales.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if err := checkInvoiceable(sale); err != nil {
			return err
		}
		sale.AFIPStatus = entity.AFIPStatusQueued
		sale.AFIPErrors = ""
		sale.UpdatedAt = time.Now()
		return r.Sales.Update(ctx, sale)
	})
	if err != nil {
		return nil, err
	}

	taskID, err := uc.enqueuer.EnqueueAuthorize(ctx, id)
	if err != nil {
		sale.AFIPStatus = entity.AFIPStatusError
		sale.AFIPErrors = "no se pudo encolar: " + err.Error()
		sale.UpdatedAt = time.Now()
		if uErr := uc.sales.Update(ctx, sale); uErr != nil {
			uc.log.Error().Err(uErr).Str("sale_id", id).Msg("no se pudo revertir el estado queued")
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrAFIPUnavailable, err)
	}
	uc.log.Info().Str("sale_id", id).Str("task_id", taskID).Msg("autorización AFIP encolada")
	return &dto.AFIPStatusResponse{SaleID: id, AFIPStatus: entity.AFIPStatusQueued, TaskID: taskID}, nil
}

// Cancel anula la venta. Si estaba facturada primero se reclama la venta y se
// autoriza la nota de crédito. Repone stock y, en cuenta corriente, acredita el total.
func (uc *SaleUseCase) Cancel(ctx context.Context, id string) (*dto.SaleResponse, error) {
	sale, err := uc.sales.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	if err := checkCancelable(sale); err != nil {
		return nil, err
	}

	var creditNote *CreditNote
	if sale.Status == entity.SaleStatusInvoiced {
		sale, err = uc.orchestrator.Claim(ctx, id, func(s *entity.Sale) error {
			if s.Status != entity.SaleStatusInvoiced {
				return fmt.Errorf("%w: la venta cambió de estado", domain.ErrConflict)
			}
			return checkCancelable(s)
		})
		if err != nil {
			return nil, err
		}
		creditNote, err = uc.orchestrator.AuthorizeCreditNote(ctx, sale)
		if err != nil {
			uc.orchestrator.ReleaseClaim(ctx, id, entity.AFIPStatusAuthorized)
			return nil, err
		}
	}

	var customer *entity.Customer
	err = uc.tx.Run(ctx, func(r repository.Repos) error {
		locked, err := r.Sales.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if locked == nil {
			return domain.ErrNotFound
		}
		if locked.Status != sale.Status {
			return fmt.Errorf("%w: la venta cambió de estado", domain.ErrConflict)
		}
		if creditNote == nil {
			if err := checkCancelable(locked); err != nil {
				return err
			}
		} else if locked.AFIPStatus != entity.AFIPStatusAuthorizing {
			return fmt.Errorf("%w: la venta perdió el reclamo de la nota de crédito", domain.ErrConflict)
		}

		qty := make(map[string]decimal.Decimal)
		for _, it := range locked.Items {
			qty[it.ProductID] = qty[it.ProductID].Add(it.Quantity)
		}
		if err := adjustStock(ctx, r, qty, false); err != nil {
			return err
		}

		now := time.Now()
		if locked.PaymentCondition == entity.PaymentConditionCuentaCorriente {
			_, err := finance.PostEntry(ctx, r, finance.Entry{
				CustomerID:  locked.CustomerID,
				Date:        now,
				Concept:     entity.LedgerConceptAnulacionVenta,
				Description: fmt.Sprintf("Anulación venta N° %d", locked.Number),
				Credit:      locked.Total,
				SaleID:      locked.ID,
			})
			if err != nil {
				return err
			}
		}

		if creditNote != nil {
			locked.CreditNoteType = creditNote.VoucherType
			locked.CreditNoteNumber = creditNote.Number
			locked.CreditNoteCAE = creditNote.CAE
			locked.AFIPStatus = entity.AFIPStatusAuthorized
		}
		locked.Status = entity.SaleStatusCancelled
		locked.CancelledAt = &now
		locked.UpdatedAt = now
		if err := r.Sales.Update(ctx, locked); err != nil {
			return err
		}
		sale = locked
		customer, err = r.Customers.GetByID(ctx, locked.CustomerID)
		return err
	})
	if err != nil {
		if creditNote != nil {
			uc.log.Error().Err(err).Str("sale_id", id).Int64("nc_number", creditNote.Number).
				Msg("nota de crédito autorizada pero la anulación no se pudo registrar")
		}
		return nil, err
	}
	uc.log.Info().Str("sale_id", id).Msg("venta anulada")
	return toSaleResponse(sale, customer), nil
}

// checkInvoiceable verifica que la venta pueda enviarse a AFIP.
func checkInvoiceable(sale *entity.Sale) error {
	if sale.Status != entity.SaleStatusPending {
		return fmt.Errorf("%w: la venta está en estado %s", domain.ErrInvalidTransition, sale.Status)
	}
	if sale.AFIPStatus == entity.AFIPStatusQueued {
		return fmt.Errorf("%w: la autorización AFIP ya está encolada", domain.ErrConflict)
	}
	return checkNotClaimed(sale, time.Now())
}

// checkCancelable verifica que la venta pueda anularse y que ninguna solicitud AFIP esté en curso.
func checkCancelable(sale *entity.Sale) error {
	if sale.Status == entity.SaleStatusCancelled {
		return fmt.Errorf("%w: la venta ya está anulada", domain.ErrInvalidTransition)
	}
	if sale.Status == entity.SaleStatusPending && sale.AFIPStatus == entity.AFIPStatusQueued {
		return fmt.Errorf("%w: la autorización AFIP está en curso", domain.ErrConflict)
	}
	return checkNotClaimed(sale, time.Now())
}

// ParseDateRange interpreta from/to (aaaa-mm-dd). to es inclusivo: se devuelve el día siguiente como cota abierta.
func ParseDateRange(from, to string) (*time.Time, *time.Time, error) {
	var f, t *time.Time
	if from != "" {
		d, err := time.ParseInLocation(dto.DateLayout, from, time.Local)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: fecha desde %q", domain.ErrInvalidInput, from)
		}
		f = &d
	}
	if to != "" {
		d, err := time.ParseInLocation(dto.DateLayout, to, time.Local)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: fecha hasta %q", domain.ErrInvalidInput, to)
		}
		d = d.AddDate(0, 0, 1)
		t = &d
	}
	if f != nil && t != nil && !f.Before(*t) {
		return nil, nil, fmt.Errorf("%w: el rango de fechas es inválido", domain.ErrInvalidInput)
	}
	return f, t, nil
}

func toSaleResponse(s *entity.Sale, customer *entity.Customer) *dto.SaleResponse {
	out := &dto.SaleResponse{
		ID:               s.ID,
		Number:           s.Number,
		CustomerID:       s.CustomerID,
		UserID:           s.UserID,
		Date:             s.Date,
		PaymentCondition: s.PaymentCondition,
		Status:           s.Status,
		InvoiceType:      s.InvoiceType,
		InvoiceLetter:    fiscal.VoucherLetter(s.InvoiceType),
		PointOfSale:      s.PointOfSale,
		VoucherNumber:    s.VoucherNumber,
		CAE:              s.CAE,
		CAEDueDate:       s.CAEDueDate,
		AFIPStatus:       s.AFIPStatus,
		AFIPErrors:       s.AFIPErrors,
		NetTaxed:         s.NetTaxed,
		NetExempt:        s.NetExempt,
		NetNonTaxed:      s.NetNonTaxed,
		IVATotal:         s.IVATotal,
		Total:            s.Total,
		ExchangeRate:     s.ExchangeRate,
		QuoteID:          s.QuoteID,
		Notes:            s.Notes,
		CreditNoteType:   s.CreditNoteType,
		CreditNoteNumber: s.CreditNoteNumber,
		CreditNoteCAE:    s.CreditNoteCAE,
		CancelledAt:      s.CancelledAt,
		CreatedAt:        s.CreatedAt,
	}
	if s.VoucherNumber > 0 {
		out.FormattedNumber = fiscal.FormatVoucherNumber(s.PointOfSale, s.VoucherNumber)
	}
	if customer != nil {
		out.CustomerName = customer.Name
	}
	for _, it := range s.Items {
		out.Items = append(out.Items, dto.ItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Discount:    it.Discount,
			TaxCategory: it.TaxCategory,
			Net:         it.Net,
			IVA:         it.IVA,
			Total:       it.Total,
		})
	}
	return out
}
