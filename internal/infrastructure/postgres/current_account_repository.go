package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-comercial-api/internal/domain/entity"
	"github.com/jhoicas/gestion-comercial-api/internal/domain/repository"
)

var _ repository.CurrentAccountRepository = (*CurrentAccountRepo)(nil)

// CurrentAccountRepo mayor de cuenta corriente. Solo inserciones; el orden lo da seq.
type CurrentAccountRepo struct {
	q Querier
}

// NewCurrentAccountRepository construye el adaptador.
func NewCurrentAccountRepository(q Querier) *CurrentAccountRepo {
	return &CurrentAccountRepo{q: q}
}

// LastBalance saldo del último movimiento del cliente. Se llama con la fila del cliente bloqueada.
func (r *CurrentAccountRepo) LastBalance(ctx context.Context, customerID string) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE((SELECT balance FROM current_account_items
			WHERE customer_id = $1 ORDER BY seq DESC LIMIT 1), 0)`, customerID,
	).Scan(&balance)
	if err != nil {
		return decimal.Zero, fmt.Errorf("last balance: %w", err)
	}
	return balance, nil
}

func (r *CurrentAccountRepo) Append(ctx context.Context, it *entity.CurrentAccountItem) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO current_account_items (id, customer_id, date, type, concept, description, debit, credit, balance,
			sale_id, payment_id, cheque_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		it.ID, it.CustomerID, it.Date, it.Type, it.Concept, it.Description, it.Debit, it.Credit, it.Balance,
		nullUUID(it.SaleID), nullUUID(it.PaymentID), nullUUID(it.ChequeID), it.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert current account item: %w", err)
	}
	return nil
}

func (r *CurrentAccountRepo) ListByCustomer(ctx context.Context, customerID string) ([]*entity.CurrentAccountItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, customer_id, date, type, concept, description, debit, credit, balance,
			sale_id, payment_id, cheque_id, created_at
		FROM current_account_items WHERE customer_id = $1 ORDER BY seq`, customerID)
	if err != nil {
		return nil, fmt.Errorf("list current account: %w", err)
	}
	defer rows.Close()
	var list []*entity.CurrentAccountItem
	for rows.Next() {
		var it entity.CurrentAccountItem
		var saleID, paymentID, chequeID *string
		if err := rows.Scan(&it.ID, &it.CustomerID, &it.Date, &it.Type, &it.Concept, &it.Description,
			&it.Debit, &it.Credit, &it.Balance, &saleID, &paymentID, &chequeID, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan current account item: %w", err)
		}
		it.SaleID = derefString(saleID)
		it.PaymentID = derefString(paymentID)
		it.ChequeID = derefString(chequeID)
		list = append(list, &it)
	}
	return list, rows.Err()
}

// Balances último saldo de cada cliente, omitiendo los saldados.
func (r *CurrentAccountRepo) Balances(ctx context.Context) ([]*entity.CustomerBalance, error) {
	rows, err := r.q.Query(ctx, `
		SELECT l.customer_id, c.name, l.balance, l.date
		FROM (
			SELECT DISTINCT ON (customer_id) customer_id, balance, date
			FROM current_account_items
			ORDER BY customer_id, seq DESC
		) l
		JOIN customers c ON c.id = l.customer_id
		WHERE l.balance <> 0
		ORDER BY l.balance DESC, c.name`)
	if err != nil {
		return nil, fmt.Errorf("balances: %w", err)
	}
	defer rows.Close()
	var list []*entity.CustomerBalance
	for rows.Next() {
		var b entity.CustomerBalance
		if err := rows.Scan(&b.CustomerID, &b.CustomerName, &b.Balance, &b.LastMovement); err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}
