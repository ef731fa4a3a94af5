package finance

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/gestion-comercial-api/internal/application/dto"
	"github.com/jhoicas/gestion-comercial-api/internal/domain"
	"github.com/jhoicas/gestion-comercial-api/internal/domain/entity"
	"github.com/jhoicas/gestion-comercial-api/internal/domain/repository"
	"github.com/jhoicas/gestion-comercial-api/pkg/logger"
)

// ChequeUseCase cartera de cheques recibidos.
type ChequeUseCase struct {
	tx      repository.TxRunner
	cheques repository.ChequeRepository
	log     *logger.Logger
}

// NewChequeUseCase construye el caso de uso.
func NewChequeUseCase(tx repository.TxRunner, cheques repository.ChequeRepository, log *logger.Logger) *ChequeUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ChequeUseCase{tx: tx, cheques: cheques, log: log}
}

// GetByID obtiene un cheque.
func (uc *ChequeUseCase) GetByID(ctx context.Context, id string) (*dto.ChequeResponse, error) {
	c, err := uc.cheques.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return toChequeResponse(c), nil
}

// List lista cheques por estado, cliente y vencimiento (due_before inclusivo).
func (uc *ChequeUseCase) List(ctx context.Context, in dto.ChequeListRequest) (*dto.ChequeListResponse, error) {
	in.DefaultPage()
	f := repository.ChequeFilter{
		Status:     in.Status,
		CustomerID: in.CustomerID,
		Limit:      in.Limit,
		Offset:     in.Offset,
	}
	if in.DueBefore != "" {
		d, err := time.ParseInLocation(dto.DateLayout, in.DueBefore, time.Local)
		if err != nil {
			return nil, fmt.Errorf("%w: due_before %q", domain.ErrInvalidInput, in.DueBefore)
		}
		d = d.AddDate(0, 0, 1)
		f.DueBefore = &d
	}
	list, total, err := uc.cheques.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ChequeResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toChequeResponse(c))
	}
	return &dto.ChequeListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}, nil
}

// UpdateStatus aplica una transición de estado.
// Rechazar un cheque vinculado a un pago revierte el pago y debita la cuenta corriente.
func (uc *ChequeUseCase) UpdateStatus(ctx context.Context, id string, in dto.UpdateChequeStatusRequest) (*dto.ChequeResponse, error) {
	if !entity.IsValidChequeStatus(in.Status) {
		return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, in.Status)
	}
	endorsedTo := strings.TrimSpace(in.EndorsedTo)
	if in.Status == entity.ChequeStatusEndorsed && endorsedTo == "" {
		return nil, fmt.Errorf("%w: el endoso requiere el destinatario", domain.ErrInvalidInput)
	}

	var cheque *entity.Cheque
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		c, err := r.Cheques.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.ErrNotFound
		}
		if !c.CanTransitionTo(in.Status) {
			return fmt.Errorf("%w: %s → %s", domain.ErrInvalidTransition, c.Status, in.Status)
		}

		now := time.Now()
		switch in.Status {
		case entity.ChequeStatusDeposited:
			c.DepositedAt = &now
		case entity.ChequeStatusEndorsed:
			c.EndorsedTo = endorsedTo
		case entity.ChequeStatusRejected:
			c.RejectedAt = &now
			c.RejectionReason = strings.TrimSpace(in.Reason)
			if err := reversePayment(ctx, r, c, now); err != nil {
				return err
			}
		}
		c.Status = in.Status
		c.UpdatedAt = now
		if err := r.Cheques.Update(ctx, c); err != nil {
			return err
		}
		cheque = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("cheque_id", id).Str("status", cheque.Status).Msg("estado de cheque actualizado")
	return toChequeResponse(cheque), nil
}

// reversePayment marca el pago del cheque como revertido y debita su importe en pesos.
func reversePayment(ctx context.Context, r repository.Repos, c *entity.Cheque, now time.Time) error {
	if c.PaymentID == "" {
		return nil
	}
	p, err := r.Payments.GetByID(ctx, c.PaymentID)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("%w: pago %s del cheque", domain.ErrNotFound, c.PaymentID)
	}
	if p.Status == entity.PaymentStatusReversed {
		return nil
	}
	p.Status = entity.PaymentStatusReversed
	p.UpdatedAt = now
	if err := r.Payments.Update(ctx, p); err != nil {
		return err
	}
	desc := fmt.Sprintf("Cheque rechazado N° %s %s", c.Number, c.Bank)
	if c.RejectionReason != "" {
		desc += ": " + c.RejectionReason
	}
	_, err = PostEntry(ctx, r, Entry{
		CustomerID:  p.CustomerID,
		Date:        now,
		Concept:     entity.LedgerConceptChequeRechazado,
		Description: desc,
		Debit:       p.AmountARS,
		PaymentID:   p.ID,
		ChequeID:    c.ID,
	})
	return err
}

func toChequeResponse(c *entity.Cheque) *dto.ChequeResponse {
	return &dto.ChequeResponse{
		ID:              c.ID,
		Number:          c.Number,
		Bank:            c.Bank,
		IssuerName:      c.IssuerName,
		IssuerCUIT:      c.IssuerCUIT,
		Amount:          c.Amount,
		IssueDate:       c.IssueDate,
		DueDate:         c.DueDate,
		Status:          c.Status,
		CustomerID:      c.CustomerID,
		PaymentID:       c.PaymentID,
		EndorsedTo:      c.EndorsedTo,
		DepositedAt:     c.DepositedAt,
		RejectedAt:      c.RejectedAt,
		RejectionReason: c.RejectionReason,
		Notes:           c.Notes,
		CreatedAt:       c.CreatedAt,
	}
}
