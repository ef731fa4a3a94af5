package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/gestion-comercial-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas agregadas de solo lectura.
type ReportRepo struct {
	pool *pgxpool.Pool
}

// NewReportRepository construye el adaptador.
func NewReportRepository(pool *pgxpool.Pool) *ReportRepo {
	return &ReportRepo{pool: pool}
}

// SalesSummary agrupa ventas en [from, to). invoice_type se informa como 0 si no hay comprobante.
func (r *ReportRepo) SalesSummary(ctx context.Context, from, to time.Time) ([]repository.SalesSummaryRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT status,
			CASE WHEN voucher_number > 0 THEN invoice_type ELSE 0 END AS voucher_type,
			payment_condition,
			count(*),
			COALESCE(sum(net_taxed), 0),
			COALESCE(sum(iva_total), 0),
			COALESCE(sum(total), 0)
		FROM sales
		WHERE date >= $1 AND date < $2
		GROUP BY 1, 2, 3
		ORDER BY 1, 2, 3`, from, to)
	if err != nil {
		return nil, fmt.Errorf("sales summary: %w", err)
	}
	defer rows.Close()
	var out []repository.SalesSummaryRow
	for rows.Next() {
		var row repository.SalesSummaryRow
		if err := rows.Scan(&row.Status, &row.InvoiceType, &row.PaymentCondition, &row.Count,
			&row.NetTaxed, &row.IVATotal, &row.Total); err != nil {
			return nil, fmt.Errorf("scan sales summary: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
