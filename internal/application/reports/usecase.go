// Package reports contiene los reportes de ventas (resumen y exportación).
package reports

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/gestion-comercial-api/internal/application/dto"
	"github.com/jhoicas/gestion-comercial-api/internal/domain"
	"github.com/jhoicas/gestion-comercial-api/internal/domain/entity"
	"github.com/jhoicas/gestion-comercial-api/internal/domain/fiscal"
	"github.com/jhoicas/gestion-comercial-api/internal/domain/repository"
)

// exportPageSize tamaño de página al leer ventas para exportar.
const exportPageSize = 500

// SalesExporter genera el archivo del listado de ventas con su resumen.
type SalesExporter interface {
	ExportSales(ctx context.Context, summary *dto.SalesSummaryResponse, sales []*entity.Sale) ([]byte, error)
}

// ReportUseCase reportes de ventas sobre un rango de fechas.
//
// Fuente de datos: ReportRepository (agregados) y SaleRepository (listado).
type ReportUseCase struct {
	reports  repository.ReportRepository
	sales    repository.SaleRepository
	exporter SalesExporter
}

// NewReportUseCase construye el caso de uso. exporter puede ser nil.
func NewReportUseCase(reports repository.ReportRepository, sales repository.SaleRepository, exporter SalesExporter) *ReportUseCase {
	return &ReportUseCase{reports: reports, sales: sales, exporter: exporter}
}

// SalesSummary totales por estado, tipo de comprobante y condición de pago.
// Sin fechas: mes en curso. Los totales generales excluyen ventas anuladas.
func (uc *ReportUseCase) SalesSummary(ctx context.Context, in dto.DateRangeRequest) (*dto.SalesSummaryResponse, error) {
	from, to, err := resolveRange(in, time.Now())
	if err != nil {
		return nil, err
	}
	rows, err := uc.reports.SalesSummary(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("reportes: resumen de ventas: %w", err)
	}
	return buildSummary(from, to, rows), nil
}

// ExportSales genera el XLSX de ventas del rango. Devuelve bytes y nombre sugerido.
//
// Resumen y listado se consultan en paralelo.
func (uc *ReportUseCase) ExportSales(ctx context.Context, in dto.DateRangeRequest) ([]byte, string, error) {
	if uc.exporter == nil {
		return nil, "", fmt.Errorf("%w: exportación no configurada", domain.ErrConflict)
	}
	from, to, err := resolveRange(in, time.Now())
	if err != nil {
		return nil, "", err
	}

	var (
		rows  []repository.SalesSummaryRow
		sales []*entity.Sale
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = uc.reports.SalesSummary(gctx, from, to)
		if err != nil {
			return fmt.Errorf("reportes: resumen de ventas: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		sales, err = uc.listAll(gctx, from, to)
		if err != nil {
			return fmt.Errorf("reportes: listado de ventas: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, "", err
	}

	body, err := uc.exporter.ExportSales(ctx, buildSummary(from, to, rows), sales)
	if err != nil {
		return nil, "", fmt.Errorf("reportes: exportar ventas: %w", err)
	}
	name := fmt.Sprintf("ventas_%s_%s.xlsx", from.Format("20060102"), to.AddDate(0, 0, -1).Format("20060102"))
	return body, name, nil
}

func (uc *ReportUseCase) listAll(ctx context.Context, from, to time.Time) ([]*entity.Sale, error) {
	var out []*entity.Sale
	for offset := 0; ; offset += exportPageSize {
		page, total, err := uc.sales.List(ctx, repository.SaleFilter{
			From:   &from,
			To:     &to,
			Limit:  exportPageSize,
			Offset: offset,
		})
		if err != nil {
			return nil, err
		}
		out = append(out, page...)
		if len(page) < exportPageSize || len(out) >= total {
			return out, nil
		}
	}
}

// resolveRange devuelve [from, to) con to exclusivo. Por defecto el mes en curso.
func resolveRange(in dto.DateRangeRequest, now time.Time) (time.Time, time.Time, error) {
	f, t, err := parseRange(in.From, in.To)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local)
	to := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local).AddDate(0, 0, 1)
	if f != nil {
		from = *f
	}
	if t != nil {
		to = *t
	}
	if !from.Before(to) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: el rango de fechas es inválido", domain.ErrInvalidInput)
	}
	return from, to, nil
}

func parseRange(from, to string) (*time.Time, *time.Time, error) {
	var f, t *time.Time
	if from != "" {
		d, err := time.ParseInLocation(dto.DateLayout, from, time.Local)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: fecha desde %q", domain.ErrInvalidInput, from)
		}
		f = &d
	}
	if to != "" {
		d, err := time.ParseInLocation(dto.DateLayout, to, time.Local)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: fecha hasta %q", domain.ErrInvalidInput, to)
		}
		d = d.AddDate(0, 0, 1)
		t = &d
	}
	return f, t, nil
}

// buildSummary agrupa las filas crudas. Las anuladas solo cuentan en ByStatus.
func buildSummary(from, to time.Time, rows []repository.SalesSummaryRow) *dto.SalesSummaryResponse {
	out := &dto.SalesSummaryResponse{
		From:     from,
		To:       to.AddDate(0, 0, -1),
		NetTaxed: decimal.Zero,
		IVATotal: decimal.Zero,
		Total:    decimal.Zero,
	}
	byStatus := newBuckets()
	byType := newBuckets()
	byCondition := newBuckets()

	for _, r := range rows {
		byStatus.add(r.Status, r.Count, r.Total)
		if r.Status == entity.SaleStatusCancelled {
			continue
		}
		out.Count += r.Count
		out.NetTaxed = out.NetTaxed.Add(r.NetTaxed)
		out.IVATotal = out.IVATotal.Add(r.IVATotal)
		out.Total = out.Total.Add(r.Total)

		typeKey := "sin_facturar"
		if r.Status == entity.SaleStatusInvoiced && r.InvoiceType != 0 {
			typeKey = fiscal.VoucherName(r.InvoiceType)
			if typeKey == "" {
				typeKey = strconv.Itoa(r.InvoiceType)
			}
		}
		byType.add(typeKey, r.Count, r.Total)
		byCondition.add(r.PaymentCondition, r.Count, r.Total)
	}
	out.ByStatus = byStatus.list()
	out.ByInvoiceType = byType.list()
	out.ByPaymentCondition = byCondition.list()
	return out
}

type buckets map[string]*dto.SummaryBucket

func newBuckets() buckets { return buckets{} }

func (b buckets) add(key string, count int, total decimal.Decimal) {
	x, ok := b[key]
	if !ok {
		x = &dto.SummaryBucket{Key: key, Total: decimal.Zero}
		b[key] = x
	}
	x.Count += count
	x.Total = x.Total.Add(total)
}

func (b buckets) list() []dto.SummaryBucket {
	out := make([]dto.SummaryBucket, 0, len(b))
	for _, x := range b {
		out = append(out, *x)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
