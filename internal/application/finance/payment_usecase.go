package finance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-comercial-api/internal/application/dto"
	"github.com/jhoicas/gestion-comercial-api/internal/domain"
	"github.com/jhoicas/gestion-comercial-api/internal/domain/entity"
	"github.com/jhoicas/gestion-comercial-api/internal/domain/repository"
	"github.com/jhoicas/gestion-comercial-api/pkg/afip"
	"github.com/jhoicas/gestion-comercial-api/pkg/logger"
)

// PaymentUseCase registra cobros y los imputa a la cuenta corriente.
type PaymentUseCase struct {
	tx       repository.TxRunner
	payments repository.PaymentRepository
	rates    RateSource
	log      *logger.Logger
}

// NewPaymentUseCase construye el caso de uso.
func NewPaymentUseCase(tx repository.TxRunner, payments repository.PaymentRepository, rates RateSource, log *logger.Logger) *PaymentUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &PaymentUseCase{tx: tx, payments: payments, rates: rates, log: log}
}

// Create registra el cobro, el cheque recibido si corresponde y el haber en cuenta corriente,
// todo en una transacción.
func (uc *PaymentUseCase) Create(ctx context.Context, userID string, in dto.CreatePaymentRequest) (*dto.PaymentResponse, error) {
	if !entity.IsValidPaymentMethod(in.Method) {
		return nil, fmt.Errorf("%w: medio de pago %q", domain.ErrInvalidInput, in.Method)
	}
	amount := in.Amount.Round(2)
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: el importe debe ser mayor a 0", domain.ErrInvalidInput)
	}
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = entity.CurrencyARS
	}
	if currency != entity.CurrencyARS && currency != entity.CurrencyUSD {
		return nil, fmt.Errorf("%w: moneda %q", domain.ErrInvalidInput, in.Currency)
	}

	now := time.Now()
	date := now
	if in.Date != "" {
		d, err := time.ParseInLocation(dto.DateLayout, in.Date, time.Local)
		if err != nil {
			return nil, fmt.Errorf("%w: fecha %q", domain.ErrInvalidInput, in.Date)
		}
		date = d
	}

	var cheque *entity.Cheque
	if in.Method == entity.PaymentMethodCheque {
		if in.Cheque == nil {
			return nil, fmt.Errorf("%w: el pago con cheque requiere los datos del cheque", domain.ErrInvalidInput)
		}
		if currency != entity.CurrencyARS {
			return nil, fmt.Errorf("%w: los cheques se reciben solo en pesos", domain.ErrInvalidInput)
		}
		var err error
		if cheque, err = newCheque(in.Cheque, amount, now); err != nil {
			return nil, err
		}
	} else if in.Cheque != nil {
		return nil, fmt.Errorf("%w: datos de cheque en un pago con medio %s", domain.ErrInvalidInput, in.Method)
	}

	rate := decimal.NewFromInt(1)
	if currency != entity.CurrencyARS {
		if in.ExchangeRate != nil {
			if !in.ExchangeRate.IsPositive() {
				return nil, fmt.Errorf("%w: la cotización debe ser mayor a 0", domain.ErrInvalidInput)
			}
			rate = *in.ExchangeRate
		} else {
			r, err := uc.rates.LatestSellRate(ctx, currency)
			if err != nil {
				return nil, err
			}
			rate = r
		}
	}

	payment := &entity.Payment{
		ID:           uuid.New().String(),
		CustomerID:   in.CustomerID,
		UserID:       userID,
		Date:         date,
		Method:       in.Method,
		Currency:     currency,
		Amount:       amount,
		ExchangeRate: rate,
		AmountARS:    amount.Mul(rate).Round(2),
		Reference:    strings.TrimSpace(in.Reference),
		Notes:        strings.TrimSpace(in.Notes),
		Status:       entity.PaymentStatusApplied,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		customer, err := r.Customers.GetForUpdate(ctx, in.CustomerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return fmt.Errorf("%w: cliente %s", domain.ErrNotFound, in.CustomerID)
		}
		if !customer.IsActive {
			return fmt.Errorf("%w: el cliente está dado de baja", domain.ErrInvalidInput)
		}

		if cheque != nil {
			cheque.CustomerID = customer.ID
			cheque.PaymentID = payment.ID
			payment.ChequeID = cheque.ID
		}
		// el pago va primero: cheques.payment_id lo referencia y la FK inversa es diferida
		if err := r.Payments.Create(ctx, payment); err != nil {
			return err
		}
		if cheque != nil {
			if err := r.Cheques.Create(ctx, cheque); err != nil {
				if errors.Is(err, domain.ErrDuplicate) {
					return fmt.Errorf("%w: el cheque %s del banco %s ya fue registrado", domain.ErrConflict, cheque.Number, cheque.Bank)
				}
				return err
			}
		}

		desc := fmt.Sprintf("Pago %s", payment.Method)
		if currency != entity.CurrencyARS {
			desc = fmt.Sprintf("Pago %s %s %s (cotización %s)", payment.Method, currency, amount.StringFixed(2), rate.String())
		}
		if cheque != nil {
			desc = fmt.Sprintf("Pago con cheque N° %s %s", cheque.Number, cheque.Bank)
		}
		_, err = PostEntry(ctx, r, Entry{
			CustomerID:  customer.ID,
			Date:        date,
			Concept:     entity.LedgerConceptPago,
			Description: desc,
			Credit:      payment.AmountARS,
			PaymentID:   payment.ID,
			ChequeID:    payment.ChequeID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("payment_id", payment.ID).Str("customer_id", payment.CustomerID).
		Str("amount_ars", payment.AmountARS.StringFixed(2)).Msg("pago registrado")
	return toPaymentResponse(payment), nil
}

// GetByID obtiene un pago.
func (uc *PaymentUseCase) GetByID(ctx context.Context, id string) (*dto.PaymentResponse, error) {
	p, err := uc.payments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return toPaymentResponse(p), nil
}

// List lista pagos, opcionalmente de un cliente.
func (uc *PaymentUseCase) List(ctx context.Context, in dto.PaymentListRequest) (*dto.PaymentListResponse, error) {
	in.DefaultPage()
	list, total, err := uc.payments.List(ctx, repository.PaymentFilter{
		CustomerID: in.CustomerID,
		Limit:      in.Limit,
		Offset:     in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.PaymentResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toPaymentResponse(p))
	}
	return &dto.PaymentListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}, nil
}

// newCheque valida los datos del cheque recibido.
func newCheque(in *dto.ChequeRequest, amount decimal.Decimal, now time.Time) (*entity.Cheque, error) {
	issue, err := time.ParseInLocation(dto.DateLayout, in.IssueDate, time.Local)
	if err != nil {
		return nil, fmt.Errorf("%w: fecha de emisión %q", domain.ErrInvalidInput, in.IssueDate)
	}
	due, err := time.ParseInLocation(dto.DateLayout, in.DueDate, time.Local)
	if err != nil {
		return nil, fmt.Errorf("%w: fecha de cobro %q", domain.ErrInvalidInput, in.DueDate)
	}
	if due.Before(issue) {
		return nil, fmt.Errorf("%w: la fecha de cobro es anterior a la de emisión", domain.ErrInvalidInput)
	}
	number := strings.TrimSpace(in.Number)
	bank := strings.TrimSpace(in.Bank)
	if number == "" || bank == "" {
		return nil, fmt.Errorf("%w: número y banco del cheque son obligatorios", domain.ErrInvalidInput)
	}
	cuit := ""
	if strings.TrimSpace(in.IssuerCUIT) != "" {
		if err := afip.ValidateCUIT(in.IssuerCUIT); err != nil {
			return nil, fmt.Errorf("%w: librador: %v", domain.ErrInvalidCUIT, err)
		}
		cuit = afip.NormalizeCUIT(in.IssuerCUIT)
	}
	return &entity.Cheque{
		ID:         uuid.New().String(),
		Number:     number,
		Bank:       bank,
		IssuerName: strings.TrimSpace(in.IssuerName),
		IssuerCUIT: cuit,
		Amount:     amount,
		IssueDate:  issue,
		DueDate:    due,
		Status:     entity.ChequeStatusPending,
		Notes:      strings.TrimSpace(in.Notes),
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

func toPaymentResponse(p *entity.Payment) *dto.PaymentResponse {
	return &dto.PaymentResponse{
		ID:           p.ID,
		CustomerID:   p.CustomerID,
		UserID:       p.UserID,
		Date:         p.Date,
		Method:       p.Method,
		Currency:     p.Currency,
		Amount:       p.Amount,
		ExchangeRate: p.ExchangeRate,
		AmountARS:    p.AmountARS,
		ChequeID:     p.ChequeID,
		Reference:    p.Reference,
		Notes:        p.Notes,
		Status:       p.Status,
		CreatedAt:    p.CreatedAt,
	}
}
