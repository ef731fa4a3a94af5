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

var _ repository.ChequeRepository = (*ChequeRepo)(nil)

const chequeColumns = `id, number, bank, issuer_name, issuer_cuit, amount, issue_date, due_date, status, customer_id,
	payment_id, endorsed_to, deposited_at, rejected_at, rejection_reason, notes, created_at, updated_at`

// ChequeRepo cartera de cheques de terceros.
type ChequeRepo struct {
	q Querier
}

// NewChequeRepository construye el adaptador.
func NewChequeRepository(q Querier) *ChequeRepo {
	return &ChequeRepo{q: q}
}

// Create inserta el cheque. (bank, number) es único: ErrDuplicate.
func (r *ChequeRepo) Create(ctx context.Context, c *entity.Cheque) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO cheques (`+chequeColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		c.ID, c.Number, c.Bank, c.IssuerName, c.IssuerCUIT, c.Amount, nullDate(&c.IssueDate), nullDate(&c.DueDate),
		c.Status, c.CustomerID, nullUUID(c.PaymentID), c.EndorsedTo, c.DepositedAt, c.RejectedAt, c.RejectionReason,
		c.Notes, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert cheque: %w", err)
	}
	return nil
}

func (r *ChequeRepo) GetByID(ctx context.Context, id string) (*entity.Cheque, error) {
	return r.findOne(ctx, `SELECT `+chequeColumns+` FROM cheques WHERE id = $1`, id)
}

func (r *ChequeRepo) GetForUpdate(ctx context.Context, id string) (*entity.Cheque, error) {
	return r.findOne(ctx, `SELECT `+chequeColumns+` FROM cheques WHERE id = $1 FOR UPDATE`, id)
}

func (r *ChequeRepo) findOne(ctx context.Context, query, id string) (*entity.Cheque, error) {
	c, err := scanCheque(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cheque: %w", err)
	}
	return c, nil
}

// List ordena por vencimiento. DueBefore es una cota exclusiva (el caso de uso pasa el día siguiente).
func (r *ChequeRepo) List(ctx context.Context, f repository.ChequeFilter) ([]*entity.Cheque, int, error) {
	var w whereBuilder
	if f.Status != "" {
		w.add("status = $%d", f.Status)
	}
	if f.CustomerID != "" {
		w.add("customer_id = $%d", f.CustomerID)
	}
	if f.DueBefore != nil {
		w.add("due_date < $%d", nullDate(f.DueBefore))
	}
	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM cheques`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count cheques: %w", err)
	}
	limit, offset := paging(f.Limit, f.Offset)
	n := w.next()
	rows, err := r.q.Query(ctx, fmt.Sprintf(`SELECT %s FROM cheques%s ORDER BY due_date, bank, number
		LIMIT $%d OFFSET $%d`, chequeColumns, w.sql(), n, n+1), append(w.args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list cheques: %w", err)
	}
	defer rows.Close()
	var list []*entity.Cheque
	for rows.Next() {
		c, err := scanCheque(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan cheque: %w", err)
		}
		list = append(list, c)
	}
	return list, total, rows.Err()
}

// Update persiste estado, endoso, depósito y rechazo.
func (r *ChequeRepo) Update(ctx context.Context, c *entity.Cheque) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE cheques SET status = $2, payment_id = $3, endorsed_to = $4, deposited_at = $5, rejected_at = $6,
			rejection_reason = $7, notes = $8, updated_at = $9
		WHERE id = $1`,
		c.ID, c.Status, nullUUID(c.PaymentID), c.EndorsedTo, c.DepositedAt, c.RejectedAt,
		c.RejectionReason, c.Notes, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update cheque: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanCheque(row pgx.Row) (*entity.Cheque, error) {
	var c entity.Cheque
	var paymentID *string
	err := row.Scan(&c.ID, &c.Number, &c.Bank, &c.IssuerName, &c.IssuerCUIT, &c.Amount, &c.IssueDate, &c.DueDate,
		&c.Status, &c.CustomerID, &paymentID, &c.EndorsedTo, &c.DepositedAt, &c.RejectedAt, &c.RejectionReason,
		&c.Notes, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.PaymentID = derefString(paymentID)
	return &c, nil
}
