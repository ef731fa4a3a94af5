package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/gestion-comercial-api/internal/domain"
	"github.com/jhoicas/gestion-comercial-api/internal/domain/entity"
	"github.com/jhoicas/gestion-comercial-api/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

const paymentColumns = `id, customer_id, user_id, date, method, currency, amount, exchange_rate, amount_ars,
	cheque_id, reference, notes, status, created_at, updated_at`

// PaymentRepo cobros a clientes.
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador.
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

// Create inserta el pago. cheque_id puede referenciar un cheque insertado después en la misma tx.
func (r *PaymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO payments (`+paymentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		p.ID, p.CustomerID, p.UserID, p.Date, p.Method, p.Currency, p.Amount, p.ExchangeRate, p.AmountARS,
		nullUUID(p.ChequeID), p.Reference, p.Notes, p.Status, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

func (r *PaymentRepo) GetByID(ctx context.Context, id string) (*entity.Payment, error) {
	p, err := scanPayment(r.q.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return p, nil
}

func (r *PaymentRepo) List(ctx context.Context, f repository.PaymentFilter) ([]*entity.Payment, int, error) {
	var w whereBuilder
	if f.CustomerID != "" {
		w.add("customer_id = $%d", f.CustomerID)
	}
	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM payments`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count payments: %w", err)
	}
	limit, offset := paging(f.Limit, f.Offset)
	n := w.next()
	rows, err := r.q.Query(ctx, fmt.Sprintf(`SELECT %s FROM payments%s ORDER BY date DESC, created_at DESC
		LIMIT $%d OFFSET $%d`, paymentColumns, w.sql(), n, n+1), append(w.args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()
	var list []*entity.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan payment: %w", err)
		}
		list = append(list, p)
	}
	return list, total, rows.Err()
}

func (r *PaymentRepo) Update(ctx context.Context, p *entity.Payment) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE payments SET status = $2, cheque_id = $3, notes = $4, updated_at = $5 WHERE id = $1`,
		p.ID, p.Status, nullUUID(p.ChequeID), p.Notes, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update payment: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanPayment(row pgx.Row) (*entity.Payment, error) {
	var p entity.Payment
	var chequeID *string
	err := row.Scan(&p.ID, &p.CustomerID, &p.UserID, &p.Date, &p.Method, &p.Currency, &p.Amount, &p.ExchangeRate,
		&p.AmountARS, &chequeID, &p.Reference, &p.Notes, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.ChequeID = derefString(chequeID)
	return &p, nil
}
