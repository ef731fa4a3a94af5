package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-comercial-api/internal/domain/entity"
)

// CurrentAccountRepository persistencia del mayor de cuenta corriente (solo inserciones).
type CurrentAccountRepository interface {
	// LastBalance saldo del último movimiento del cliente (0 si no tiene).
	LastBalance(ctx context.Context, customerID string) (decimal.Decimal, error)
	Append(ctx context.Context, item *entity.CurrentAccountItem) error
	ListByCustomer(ctx context.Context, customerID string) ([]*entity.CurrentAccountItem, error)
	// Balances saldos distintos de cero, por cliente.
	Balances(ctx context.Context) ([]*entity.CustomerBalance, error)
}
