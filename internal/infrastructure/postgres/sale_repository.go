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

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, number, customer_id, user_id, date, payment_condition, status, invoice_type, point_of_sale,
	voucher_number, cae, cae_due_date, afip_status, afip_errors, net_taxed, net_exempt, net_non_taxed,
	iva_total, total, exchange_rate, quote_id, notes, credit_note_type, credit_note_number, credit_note_cae,
	cancelled_at, created_at, updated_at`

const saleItemColumns = `id, sale_id, product_id, description, quantity, unit_price, discount, tax_category, net, iva, total`

// SaleRepo ventas y sus líneas.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// NextNumber toma el próximo valor de sale_number_seq.
func (r *SaleRepo) NextNumber(ctx context.Context) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT nextval('sale_number_seq')`).Scan(&n); err != nil {
		return 0, fmt.Errorf("next sale number: %w", err)
	}
	return n, nil
}

// Create inserta cabecera y líneas. Debe ejecutarse dentro de una transacción.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sales (`+saleColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25, $26, $27, $28)`,
		s.ID, s.Number, s.CustomerID, s.UserID, s.Date, s.PaymentCondition, s.Status, s.InvoiceType, s.PointOfSale,
		s.VoucherNumber, s.CAE, nullDate(s.CAEDueDate), s.AFIPStatus, s.AFIPErrors, s.NetTaxed, s.NetExempt, s.NetNonTaxed,
		s.IVATotal, s.Total, s.ExchangeRate, nullUUID(s.QuoteID), s.Notes, s.CreditNoteType, s.CreditNoteNumber, s.CreditNoteCAE,
		s.CancelledAt, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	for i, it := range s.Items {
		it.SaleID = s.ID
		_, err := r.q.Exec(ctx, `
			INSERT INTO sale_items (id, sale_id, position, product_id, description, quantity, unit_price, discount,
				tax_category, net, iva, total)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			it.ID, s.ID, i+1, it.ProductID, it.Description, it.Quantity, it.UnitPrice, it.Discount,
			it.TaxCategory, it.Net, it.IVA, it.Total,
		)
		if err != nil {
			return fmt.Errorf("insert sale item %d: %w", i+1, err)
		}
	}
	return nil
}

// GetByID devuelve la venta con sus líneas.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	return r.get(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id)
}

// GetForUpdate bloquea la cabecera (SELECT FOR UPDATE).
func (r *SaleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.get(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1 FOR UPDATE`, id)
}

func (r *SaleRepo) get(ctx context.Context, query, id string) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	rows, err := r.q.Query(ctx, `SELECT `+saleItemColumns+` FROM sale_items WHERE sale_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("get sale items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.Description, &it.Quantity, &it.UnitPrice,
			&it.Discount, &it.TaxCategory, &it.Net, &it.IVA, &it.Total); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		s.Items = append(s.Items, &it)
	}
	return s, rows.Err()
}

// List cabeceras (sin líneas) del más reciente al más antiguo. To es exclusivo.
func (r *SaleRepo) List(ctx context.Context, f repository.SaleFilter) ([]*entity.Sale, int, error) {
	var w whereBuilder
	if f.Status != "" {
		w.add("status = $%d", f.Status)
	}
	if f.CustomerID != "" {
		w.add("customer_id = $%d", f.CustomerID)
	}
	if f.From != nil {
		w.add("date >= $%d", *f.From)
	}
	if f.To != nil {
		w.add("date < $%d", *f.To)
	}
	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM sales`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sales: %w", err)
	}
	limit, offset := paging(f.Limit, f.Offset)
	n := w.next()
	rows, err := r.q.Query(ctx, fmt.Sprintf(`SELECT %s FROM sales%s ORDER BY number DESC LIMIT $%d OFFSET $%d`,
		saleColumns, w.sql(), n, n+1), append(w.args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	return list, total, rows.Err()
}

// Update persiste estado, datos AFIP, nota de crédito y anulación. Las líneas no cambian.
func (r *SaleRepo) Update(ctx context.Context, s *entity.Sale) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE sales SET status = $2, invoice_type = $3, point_of_sale = $4, voucher_number = $5, cae = $6,
			cae_due_date = $7, afip_status = $8, afip_errors = $9, notes = $10, credit_note_type = $11,
			credit_note_number = $12, credit_note_cae = $13, cancelled_at = $14, updated_at = $15
		WHERE id = $1`,
		s.ID, s.Status, s.InvoiceType, s.PointOfSale, s.VoucherNumber, s.CAE,
		nullDate(s.CAEDueDate), s.AFIPStatus, s.AFIPErrors, s.Notes, s.CreditNoteType,
		s.CreditNoteNumber, s.CreditNoteCAE, s.CancelledAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: comprobante %d ya registrado", domain.ErrConflict, s.VoucherNumber)
		}
		return fmt.Errorf("update sale: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	var quoteID *string
	err := row.Scan(&s.ID, &s.Number, &s.CustomerID, &s.UserID, &s.Date, &s.PaymentCondition, &s.Status,
		&s.InvoiceType, &s.PointOfSale, &s.VoucherNumber, &s.CAE, &s.CAEDueDate, &s.AFIPStatus, &s.AFIPErrors,
		&s.NetTaxed, &s.NetExempt, &s.NetNonTaxed, &s.IVATotal, &s.Total, &s.ExchangeRate, &quoteID, &s.Notes,
		&s.CreditNoteType, &s.CreditNoteNumber, &s.CreditNoteCAE, &s.CancelledAt, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.QuoteID = derefString(quoteID)
	return &s, nil
}
