package finance

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-comercial-api/internal/application/dto"
	"github.com/jhoicas/gestion-comercial-api/internal/domain"
	"github.com/jhoicas/gestion-comercial-api/internal/domain/entity"
	"github.com/jhoicas/gestion-comercial-api/internal/domain/repository"
)

// CurrentAccountUseCase consulta y ajustes del mayor de cuenta corriente.
type CurrentAccountUseCase struct {
	tx        repository.TxRunner
	customers repository.CustomerRepository
	ledger    repository.CurrentAccountRepository
	exporter  StatementExporter
}

// NewCurrentAccountUseCase construye el caso de uso. exporter puede ser nil.
func NewCurrentAccountUseCase(
	tx repository.TxRunner,
	customers repository.CustomerRepository,
	ledger repository.CurrentAccountRepository,
	exporter StatementExporter,
) *CurrentAccountUseCase {
	return &CurrentAccountUseCase{tx: tx, customers: customers, ledger: ledger, exporter: exporter}
}

// Statement devuelve los movimientos del cliente y su saldo actual.
func (uc *CurrentAccountUseCase) Statement(ctx context.Context, customerID string) (*dto.CurrentAccountResponse, error) {
	customer, err := uc.customers.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.ledger.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	out := &dto.CurrentAccountResponse{
		CustomerID:   customer.ID,
		CustomerName: customer.Name,
		CreditLimit:  customer.CreditLimit,
		Balance:      decimal.Zero,
		Items:        make([]dto.CurrentAccountItemResponse, 0, len(items)),
	}
	for _, it := range items {
		out.Items = append(out.Items, toItemResponse(it))
		out.Balance = it.Balance
	}
	return out, nil
}

// Balances saldos distintos de cero de todos los clientes.
func (uc *CurrentAccountUseCase) Balances(ctx context.Context) ([]dto.CustomerBalanceResponse, error) {
	list, err := uc.ledger.Balances(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CustomerBalanceResponse, 0, len(list))
	for _, b := range list {
		out = append(out, dto.CustomerBalanceResponse{
			CustomerID:   b.CustomerID,
			CustomerName: b.CustomerName,
			Balance:      b.Balance,
			LastMovement: b.LastMovement,
		})
	}
	return out, nil
}

// Adjust registra un ajuste manual (debe o haber).
func (uc *CurrentAccountUseCase) Adjust(ctx context.Context, customerID string, in dto.AdjustmentRequest) (*dto.CurrentAccountItemResponse, error) {
	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		return nil, fmt.Errorf("%w: el ajuste requiere descripción", domain.ErrInvalidInput)
	}
	e := Entry{
		CustomerID:  customerID,
		Date:        time.Now(),
		Concept:     entity.LedgerConceptAjuste,
		Description: desc,
	}
	switch in.Type {
	case entity.LedgerDebit:
		e.Debit = in.Amount
	case entity.LedgerCredit:
		e.Credit = in.Amount
	default:
		return nil, fmt.Errorf("%w: tipo de ajuste %q", domain.ErrInvalidInput, in.Type)
	}

	var item *entity.CurrentAccountItem
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		var err error
		item, err = PostEntry(ctx, r, e)
		return err
	})
	if err != nil {
		return nil, err
	}
	res := toItemResponse(item)
	return &res, nil
}

// Export genera el estado de cuenta como archivo. Devuelve bytes y nombre sugerido.
func (uc *CurrentAccountUseCase) Export(ctx context.Context, customerID string) ([]byte, string, error) {
	if uc.exporter == nil {
		return nil, "", fmt.Errorf("%w: exportación no configurada", domain.ErrConflict)
	}
	st, err := uc.Statement(ctx, customerID)
	if err != nil {
		return nil, "", err
	}
	body, err := uc.exporter.ExportStatement(ctx, st)
	if err != nil {
		return nil, "", fmt.Errorf("exportar estado de cuenta: %w", err)
	}
	return body, fmt.Sprintf("cuenta_corriente_%s_%s.xlsx", customerID, time.Now().Format("20060102")), nil
}

func toItemResponse(it *entity.CurrentAccountItem) dto.CurrentAccountItemResponse {
	return dto.CurrentAccountItemResponse{
		ID:          it.ID,
		Date:        it.Date,
		Type:        it.Type,
		Concept:     it.Concept,
		Description: it.Description,
		Debit:       it.Debit,
		Credit:      it.Credit,
		Balance:     it.Balance,
		SaleID:      it.SaleID,
		PaymentID:   it.PaymentID,
		ChequeID:    it.ChequeID,
	}
}
