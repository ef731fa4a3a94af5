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

var _ repository.QuoteRepository = (*QuoteRepo)(nil)

const quoteColumns = `id, number, customer_id, user_id, status, valid_until, invoice_type, net_taxed, net_exempt,
	net_non_taxed, iva_total, total, sale_id, notes, created_at, updated_at, exchange_rate`

// QuoteRepo presupuestos y sus líneas.
type QuoteRepo struct {
	q Querier
}

// NewQuoteRepository construye el adaptador.
func NewQuoteRepository(q Querier) *QuoteRepo {
	return &QuoteRepo{q: q}
}

func (r *QuoteRepo) NextNumber(ctx context.Context) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT nextval('quote_number_seq')`).Scan(&n); err != nil {
		return 0, fmt.Errorf("next quote number: %w", err)
	}
	return n, nil
}

func (r *QuoteRepo) Create(ctx context.Context, qt *entity.Quote) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO quotes (`+quoteColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		qt.ID, qt.Number, qt.CustomerID, qt.UserID, qt.Status, qt.ValidUntil, qt.InvoiceType, qt.NetTaxed, qt.NetExempt,
		qt.NetNonTaxed, qt.IVATotal, qt.Total, nullUUID(qt.SaleID), qt.Notes, qt.CreatedAt, qt.UpdatedAt, qt.ExchangeRate,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert quote: %w", err)
	}
	for i, it := range qt.Items {
		it.QuoteID = qt.ID
		_, err := r.q.Exec(ctx, `
			INSERT INTO quote_items (id, quote_id, position, product_id, description, quantity, unit_price, discount,
				tax_category, net, iva, total)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			it.ID, qt.ID, i+1, it.ProductID, it.Description, it.Quantity, it.UnitPrice, it.Discount,
			it.TaxCategory, it.Net, it.IVA, it.Total,
		)
		if err != nil {
			return fmt.Errorf("insert quote item %d: %w", i+1, err)
		}
	}
	return nil
}

func (r *QuoteRepo) GetByID(ctx context.Context, id string) (*entity.Quote, error) {
	return r.get(ctx, `SELECT `+quoteColumns+` FROM quotes WHERE id = $1`, id)
}

func (r *QuoteRepo) GetForUpdate(ctx context.Context, id string) (*entity.Quote, error) {
	return r.get(ctx, `SELECT `+quoteColumns+` FROM quotes WHERE id = $1 FOR UPDATE`, id)
}

func (r *QuoteRepo) get(ctx context.Context, query, id string) (*entity.Quote, error) {
	qt, err := scanQuote(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get quote: %w", err)
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, quote_id, product_id, description, quantity, unit_price, discount, tax_category, net, iva, total
		FROM quote_items WHERE quote_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("get quote items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.QuoteItem
		if err := rows.Scan(&it.ID, &it.QuoteID, &it.ProductID, &it.Description, &it.Quantity, &it.UnitPrice,
			&it.Discount, &it.TaxCategory, &it.Net, &it.IVA, &it.Total); err != nil {
			return nil, fmt.Errorf("scan quote item: %w", err)
		}
		qt.Items = append(qt.Items, &it)
	}
	return qt, rows.Err()
}

func (r *QuoteRepo) List(ctx context.Context, f repository.QuoteFilter) ([]*entity.Quote, int, error) {
	var w whereBuilder
	if f.Status != "" {
		w.add("status = $%d", f.Status)
	}
	if f.CustomerID != "" {
		w.add("customer_id = $%d", f.CustomerID)
	}
	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM quotes`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count quotes: %w", err)
	}
	limit, offset := paging(f.Limit, f.Offset)
	n := w.next()
	rows, err := r.q.Query(ctx, fmt.Sprintf(`SELECT %s FROM quotes%s ORDER BY number DESC LIMIT $%d OFFSET $%d`,
		quoteColumns, w.sql(), n, n+1), append(w.args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list quotes: %w", err)
	}
	defer rows.Close()
	var list []*entity.Quote
	for rows.Next() {
		qt, err := scanQuote(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan quote: %w", err)
		}
		list = append(list, qt)
	}
	return list, total, rows.Err()
}

func (r *QuoteRepo) Update(ctx context.Context, qt *entity.Quote) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE quotes SET status = $2, sale_id = $3, notes = $4, updated_at = $5 WHERE id = $1`,
		qt.ID, qt.Status, nullUUID(qt.SaleID), qt.Notes, qt.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update quote: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanQuote(row pgx.Row) (*entity.Quote, error) {
	var qt entity.Quote
	var saleID *string
	err := row.Scan(&qt.ID, &qt.Number, &qt.CustomerID, &qt.UserID, &qt.Status, &qt.ValidUntil, &qt.InvoiceType,
		&qt.NetTaxed, &qt.NetExempt, &qt.NetNonTaxed, &qt.IVATotal, &qt.Total, &saleID, &qt.Notes,
		&qt.CreatedAt, &qt.UpdatedAt, &qt.ExchangeRate)
	if err != nil {
		return nil, err
	}
	qt.SaleID = derefString(saleID)
	return &qt, nil
}
