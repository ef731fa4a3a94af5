// Package finance contiene cobros, cheques y el mayor de cuenta corriente de clientes.
package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-comercial-api/internal/domain"
	"github.com/jhoicas/gestion-comercial-api/internal/domain/entity"
	"github.com/jhoicas/gestion-comercial-api/internal/domain/repository"
)

// Entry movimiento a registrar en la cuenta corriente. Exactamente uno de Debit/Credit es positivo.
type Entry struct {
	CustomerID  string
	Date        time.Time
	Concept     string
	Description string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	SaleID      string
	PaymentID   string
	ChequeID    string
}

// PostEntry registra un movimiento dentro de la transacción de r.
// Bloquea la fila del cliente y calcula saldo = saldo anterior + debe - haber.
func PostEntry(ctx context.Context, r repository.Repos, e Entry) (*entity.CurrentAccountItem, error) {
	debit, credit := e.Debit.Round(2), e.Credit.Round(2)
	if debit.IsNegative() || credit.IsNegative() || debit.IsPositive() == credit.IsPositive() {
		return nil, fmt.Errorf("%w: el movimiento debe tener debe o haber positivo", domain.ErrInvalidInput)
	}

	customer, err := r.Customers.GetForUpdate(ctx, e.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, fmt.Errorf("%w: cliente %s", domain.ErrNotFound, e.CustomerID)
	}

	prev, err := r.CurrentAccount.LastBalance(ctx, e.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("saldo anterior: %w", err)
	}

	now := time.Now()
	date := e.Date
	if date.IsZero() {
		date = now
	}
	typ := entity.LedgerDebit
	if credit.IsPositive() {
		typ = entity.LedgerCredit
	}
	item := &entity.CurrentAccountItem{
		ID:          uuid.New().String(),
		CustomerID:  e.CustomerID,
		Date:        date,
		Type:        typ,
		Concept:     e.Concept,
		Description: e.Description,
		Debit:       debit,
		Credit:      credit,
		Balance:     prev.Add(debit).Sub(credit),
		SaleID:      e.SaleID,
		PaymentID:   e.PaymentID,
		ChequeID:    e.ChequeID,
		CreatedAt:   now,
	}
	if err := r.CurrentAccount.Append(ctx, item); err != nil {
		return nil, fmt.Errorf("registrar movimiento: %w", err)
	}
	return item, nil
}

// CheckCreditLimit verifica que saldo + importe no supere el límite del cliente.
// Un límite 0 significa que el cliente no opera en cuenta corriente.
// Debe llamarse dentro de la transacción, con el cliente bloqueado.
func CheckCreditLimit(ctx context.Context, r repository.Repos, customer *entity.Customer, amount decimal.Decimal) error {
	if !customer.CreditLimit.IsPositive() {
		return fmt.Errorf("%w: el cliente no tiene crédito en cuenta corriente", domain.ErrCreditLimitExceeded)
	}
	balance, err := r.CurrentAccount.LastBalance(ctx, customer.ID)
	if err != nil {
		return fmt.Errorf("saldo actual: %w", err)
	}
	if balance.Add(amount).GreaterThan(customer.CreditLimit) {
		return fmt.Errorf("%w: saldo %s + importe %s supera el límite %s", domain.ErrCreditLimitExceeded,
			balance.StringFixed(2), amount.StringFixed(2), customer.CreditLimit.StringFixed(2))
	}
	return nil
}
