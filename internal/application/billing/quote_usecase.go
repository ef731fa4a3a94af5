package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/gestion-comercial-api/internal/application/dto"
	"github.com/jhoicas/gestion-comercial-api/internal/domain"
	"github.com/jhoicas/gestion-comercial-api/internal/domain/entity"
	"github.com/jhoicas/gestion-comercial-api/internal/domain/repository"
)

// DefaultQuoteValidityDays validez de un presupuesto sin fecha explícita.
const DefaultQuoteValidityDays = 15

// QuoteUseCase presupuestos y su conversión en venta.
type QuoteUseCase struct {
	tx     repository.TxRunner
	quotes repository.QuoteRepository
	rates  RateSource
	issuer IssuerConfig
	sales  *SaleUseCase
}

// NewQuoteUseCase construye el caso de uso. sales se usa para convertir presupuestos.
func NewQuoteUseCase(tx repository.TxRunner, quotes repository.QuoteRepository, rates RateSource, issuer IssuerConfig, sales *SaleUseCase) *QuoteUseCase {
	return &QuoteUseCase{tx: tx, quotes: quotes, rates: rates, issuer: issuer, sales: sales}
}

// Create crea un presupuesto en borrador con importes calculados. No reserva stock.
func (uc *QuoteUseCase) Create(ctx context.Context, userID string, in dto.CreateQuoteRequest) (*dto.QuoteResponse, error) {
	now := time.Now()
	validUntil := now.AddDate(0, 0, DefaultQuoteValidityDays)
	if in.ValidUntil != "" {
		d, err := time.ParseInLocation(dto.DateLayout, in.ValidUntil, time.Local)
		if err != nil {
			return nil, fmt.Errorf("%w: validez %q", domain.ErrInvalidInput, in.ValidUntil)
		}
		// válido hasta el final del día indicado
		validUntil = d.AddDate(0, 0, 1).Add(-time.Second)
		if validUntil.Before(now) {
			return nil, fmt.Errorf("%w: la validez no puede ser anterior a hoy", domain.ErrInvalidInput)
		}
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

	var quote *entity.Quote
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		priced, err := priceDraft(ctx, r, uc.rates, uc.issuer, in.CustomerID, items)
		if err != nil {
			return err
		}
		number, err := r.Quotes.NextNumber(ctx)
		if err != nil {
			return fmt.Errorf("numerar presupuesto: %w", err)
		}
		quote = &entity.Quote{
			ID:           uuid.New().String(),
			Number:       number,
			CustomerID:   priced.Customer.ID,
			UserID:       userID,
			Status:       entity.QuoteStatusDraft,
			ValidUntil:   validUntil,
			InvoiceType:  priced.InvoiceType,
			NetTaxed:     priced.Amounts.NetTaxed,
			NetExempt:    priced.Amounts.NetExempt,
			NetNonTaxed:  priced.Amounts.NetNonTaxed,
			IVATotal:     priced.Amounts.IVATotal,
			Total:        priced.Amounts.Total,
			ExchangeRate: priced.ExchangeRate,
			Notes:        in.Notes,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		for _, l := range priced.Lines {
			quote.Items = append(quote.Items, &entity.QuoteItem{
				ID:          uuid.New().String(),
				QuoteID:     quote.ID,
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
		return r.Quotes.Create(ctx, quote)
	})
	if err != nil {
		return nil, err
	}
	return toQuoteResponse(quote), nil
}

// GetByID obtiene un presupuesto con sus líneas.
func (uc *QuoteUseCase) GetByID(ctx context.Context, id string) (*dto.QuoteResponse, error) {
	q, err := uc.quotes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, domain.ErrNotFound
	}
	return toQuoteResponse(q), nil
}

// List lista presupuestos (sin líneas).
func (uc *QuoteUseCase) List(ctx context.Context, in dto.QuoteListRequest) (*dto.QuoteListResponse, error) {
	in.DefaultPage()
	list, total, err := uc.quotes.List(ctx, repository.QuoteFilter{
		Status:     in.Status,
		CustomerID: in.CustomerID,
		Limit:      in.Limit,
		Offset:     in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.QuoteResponse, 0, len(list))
	for _, q := range list {
		items = append(items, *toQuoteResponse(q))
	}
	return &dto.QuoteListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}, nil
}

// UpdateStatus cambia el estado según las transiciones permitidas.
// converted solo se alcanza mediante Convert.
func (uc *QuoteUseCase) UpdateStatus(ctx context.Context, id, status string) (*dto.QuoteResponse, error) {
	if status == entity.QuoteStatusConverted {
		return nil, fmt.Errorf("%w: use la conversión a venta", domain.ErrInvalidTransition)
	}
	var quote *entity.Quote
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		q, err := r.Quotes.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if q == nil {
			return domain.ErrNotFound
		}
		if !q.CanTransitionTo(status) {
			return fmt.Errorf("%w: %s → %s", domain.ErrInvalidTransition, q.Status, status)
		}
		if status == entity.QuoteStatusAccepted && q.IsExpired(time.Now()) {
			return fmt.Errorf("%w: el presupuesto venció el %s", domain.ErrConflict, q.ValidUntil.Format(dto.DateLayout))
		}
		q.Status = status
		q.UpdatedAt = time.Now()
		if err := r.Quotes.Update(ctx, q); err != nil {
			return err
		}
		quote = q
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toQuoteResponse(quote), nil
}

// Convert crea una venta con las líneas y precios del presupuesto.
// El presupuesto debe estar enviado o aceptado y vigente; queda en converted.
func (uc *QuoteUseCase) Convert(ctx context.Context, id, userID string, in dto.ConvertQuoteRequest) (*dto.SaleResponse, error) {
	if in.PaymentCondition != entity.PaymentConditionContado && in.PaymentCondition != entity.PaymentConditionCuentaCorriente {
		return nil, fmt.Errorf("%w: condición de pago %q", domain.ErrInvalidInput, in.PaymentCondition)
	}
	var sale *entity.Sale
	var customer *entity.Customer
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		q, err := r.Quotes.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if q == nil {
			return domain.ErrNotFound
		}
		if q.Status != entity.QuoteStatusAccepted && q.Status != entity.QuoteStatusSent {
			return fmt.Errorf("%w: el presupuesto está en estado %s", domain.ErrInvalidTransition, q.Status)
		}
		if q.IsExpired(time.Now()) {
			return fmt.Errorf("%w: el presupuesto venció el %s", domain.ErrConflict, q.ValidUntil.Format(dto.DateLayout))
		}

		items := make([]draftItem, 0, len(q.Items))
		for _, it := range q.Items {
			price := it.UnitPrice
			items = append(items, draftItem{
				ProductID:   it.ProductID,
				Description: it.Description,
				Quantity:    it.Quantity,
				UnitPrice:   &price,
				Discount:    it.Discount,
			})
		}
		sale, customer, err = uc.sales.createInTx(ctx, r, saleDraft{
			CustomerID:       q.CustomerID,
			UserID:           userID,
			PaymentCondition: in.PaymentCondition,
			Notes:            strings.TrimSpace(fmt.Sprintf("Presupuesto N° %d. %s", q.Number, q.Notes)),
			QuoteID:          q.ID,
			ExchangeRate:     q.ExchangeRate,
			Items:            items,
		})
		if err != nil {
			return err
		}
		q.Status = entity.QuoteStatusConverted
		q.SaleID = sale.ID
		q.UpdatedAt = time.Now()
		return r.Quotes.Update(ctx, q)
	})
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale, customer), nil
}

func toQuoteResponse(q *entity.Quote) *dto.QuoteResponse {
	out := &dto.QuoteResponse{
		ID:           q.ID,
		Number:       q.Number,
		CustomerID:   q.CustomerID,
		UserID:       q.UserID,
		Status:       q.Status,
		ValidUntil:   q.ValidUntil,
		InvoiceType:  q.InvoiceType,
		NetTaxed:     q.NetTaxed,
		NetExempt:    q.NetExempt,
		NetNonTaxed:  q.NetNonTaxed,
		IVATotal:     q.IVATotal,
		Total:        q.Total,
		ExchangeRate: q.ExchangeRate,
		SaleID:       q.SaleID,
		Notes:        q.Notes,
		CreatedAt:    q.CreatedAt,
	}
	for _, it := range q.Items {
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
