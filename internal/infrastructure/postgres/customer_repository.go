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

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

const customerColumns = `id, name, doc_type, doc_number, iva_condition, email, phone, address,
	credit_limit, payment_term_days, is_active, created_at, updated_at`

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

// Create persiste un nuevo cliente.
func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO customers (`+customerColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		c.ID, c.Name, c.DocType, c.DocNumber, c.IVACondition, c.Email, c.Phone, c.Address,
		c.CreditLimit, c.PaymentTermDays, c.IsActive, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID.
func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	return r.findOne(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id)
}

// GetForUpdate obtiene el cliente bloqueando la fila.
func (r *CustomerRepo) GetForUpdate(ctx context.Context, id string) (*entity.Customer, error) {
	return r.findOne(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1 FOR UPDATE`, id)
}

// GetByDocument busca por tipo y número de documento.
func (r *CustomerRepo) GetByDocument(ctx context.Context, docType int, docNumber string) (*entity.Customer, error) {
	return r.findOne(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE doc_type = $1 AND doc_number = $2`, docType, docNumber)
}

func (r *CustomerRepo) findOne(ctx context.Context, query string, args ...any) (*entity.Customer, error) {
	c, err := scanCustomer(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

// List lista clientes por nombre; Search busca en nombre y documento.
func (r *CustomerRepo) List(ctx context.Context, f repository.CustomerFilter) ([]*entity.Customer, int, error) {
	var w whereBuilder
	if !f.IncludeInactive {
		w.addRaw("is_active")
	}
	if f.Search != "" {
		w.add("(name ILIKE '%%' || $%[1]d || '%%' OR doc_number LIKE $%[1]d || '%%')", f.Search)
	}
	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM customers`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count customers: %w", err)
	}
	limit, offset := paging(f.Limit, f.Offset)
	n := w.next()
	query := fmt.Sprintf(`SELECT %s FROM customers%s ORDER BY lower(name) LIMIT $%d OFFSET $%d`,
		customerColumns, w.sql(), n, n+1)
	rows, err := r.q.Query(ctx, query, append(w.args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan customer: %w", err)
		}
		list = append(list, c)
	}
	return list, total, rows.Err()
}

// Update actualiza los datos editables del cliente.
func (r *CustomerRepo) Update(ctx context.Context, c *entity.Customer) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE customers SET name = $2, doc_type = $3, doc_number = $4, iva_condition = $5, email = $6,
			phone = $7, address = $8, credit_limit = $9, payment_term_days = $10, is_active = $11, updated_at = $12
		WHERE id = $1`,
		c.ID, c.Name, c.DocType, c.DocNumber, c.IVACondition, c.Email, c.Phone, c.Address,
		c.CreditLimit, c.PaymentTermDays, c.IsActive, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update customer: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Deactivate baja lógica: el cliente conserva su historial.
func (r *CustomerRepo) Deactivate(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE customers SET is_active = FALSE, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate customer: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanCustomer(row pgx.Row) (*entity.Customer, error) {
	var c entity.Customer
	err := row.Scan(&c.ID, &c.Name, &c.DocType, &c.DocNumber, &c.IVACondition, &c.Email, &c.Phone, &c.Address,
		&c.CreditLimit, &c.PaymentTermDays, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
