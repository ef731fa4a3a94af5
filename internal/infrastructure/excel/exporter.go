// Package excel genera planillas XLSX: estado de cuenta corriente y listado de ventas.
package excel

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/gestion-comercial-api/internal/application/dto"
	"github.com/jhoicas/gestion-comercial-api/internal/application/finance"
	"github.com/jhoicas/gestion-comercial-api/internal/application/reports"
	"github.com/jhoicas/gestion-comercial-api/internal/domain/entity"
	"github.com/jhoicas/gestion-comercial-api/internal/domain/fiscal"
	"github.com/jhoicas/gestion-comercial-api/internal/domain/repository"
)

var (
	_ finance.StatementExporter = (*Exporter)(nil)
	_ reports.SalesExporter     = (*Exporter)(nil)
)

const (
	dateFormat  = "dd/mm/yyyy"
	moneyFormat = "#,##0.00"
)

var conceptNames = map[string]string{
	entity.LedgerConceptVenta:           "Venta",
	entity.LedgerConceptPago:            "Pago",
	entity.LedgerConceptChequeRechazado: "Cheque rechazado",
	entity.LedgerConceptAnulacionVenta:  "Anulación de venta",
	entity.LedgerConceptAjuste:          "Ajuste",
}

var statusNames = map[string]string{
	entity.SaleStatusPending:   "Pendiente",
	entity.SaleStatusInvoiced:  "Facturada",
	entity.SaleStatusCancelled: "Anulada",
}

// Exporter arma los XLSX. customers resuelve nombres en el listado de ventas (puede ser nil).
type Exporter struct {
	customers repository.CustomerRepository
}

// NewExporter construye el exportador.
func NewExporter(customers repository.CustomerRepository) *Exporter {
	return &Exporter{customers: customers}
}

// styles estilos compartidos por las hojas.
type styles struct {
	header, date, money, bold, boldMoney int
}

func newStyles(f *excelize.File) (styles, error) {
	var s styles
	var err error
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}
	if s.header, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: border,
	}); err != nil {
		return s, err
	}
	df := dateFormat
	if s.date, err = f.NewStyle(&excelize.Style{CustomNumFmt: &df}); err != nil {
		return s, err
	}
	mf := moneyFormat
	if s.money, err = f.NewStyle(&excelize.Style{CustomNumFmt: &mf}); err != nil {
		return s, err
	}
	if s.bold, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err != nil {
		return s, err
	}
	s.boldMoney, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, CustomNumFmt: &mf})
	return s, err
}

// ExportStatement hoja única con los movimientos y el saldo final.
func (e *Exporter) ExportStatement(_ context.Context, st *dto.CurrentAccountResponse) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	const sheet = "Cuenta corriente"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")
	s, err := newStyles(f)
	if err != nil {
		return nil, fmt.Errorf("excel: estilos: %w", err)
	}
	w := sheetWriter{f: f, sheet: sheet}

	w.set("A1", "Estado de cuenta: "+st.CustomerName, s.bold)
	w.set("A2", "Límite de crédito", 0)
	w.setMoney("B2", st.CreditLimit, s.money)

	headers := []string{"Fecha", "Concepto", "Descripción", "Debe", "Haber", "Saldo"}
	w.headers(4, headers, s.header)
	row := 5
	for _, it := range st.Items {
		w.setRow(row, s,
			cellDate(it.Date),
			cellText(conceptName(it.Concept)),
			cellText(it.Description),
			cellMoney(it.Debit),
			cellMoney(it.Credit),
			cellMoney(it.Balance),
		)
		row++
	}
	w.set(fmt.Sprintf("E%d", row+1), "Saldo", s.bold)
	w.setMoney(fmt.Sprintf("F%d", row+1), st.Balance, s.boldMoney)

	w.widths(map[string]float64{"A": 12, "B": 20, "C": 45, "D": 14, "E": 14, "F": 14})
	if w.err != nil {
		return nil, fmt.Errorf("excel: estado de cuenta: %w", w.err)
	}
	return write(f)
}

// ExportSales hoja "Resumen" con totales y hoja "Ventas" con el detalle.
func (e *Exporter) ExportSales(ctx context.Context, summary *dto.SalesSummaryResponse, sales []*entity.Sale) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	index, err := f.NewSheet("Resumen")
	if err != nil {
		return nil, err
	}
	if _, err := f.NewSheet("Ventas"); err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")
	s, err := newStyles(f)
	if err != nil {
		return nil, fmt.Errorf("excel: estilos: %w", err)
	}

	rs := sheetWriter{f: f, sheet: "Resumen"}
	rs.set("A1", fmt.Sprintf("Ventas del %s al %s",
		summary.From.Format("02/01/2006"), summary.To.Format("02/01/2006")), s.bold)
	rs.headers(3, []string{"Concepto", "Cantidad", "Total"}, s.header)
	rs.setRow(4, s, cellText("Ventas (sin anuladas)"), cellInt(summary.Count), cellMoney(summary.Total))
	rs.setRow(5, s, cellText("Neto gravado"), cellText(""), cellMoney(summary.NetTaxed))
	rs.setRow(6, s, cellText("IVA"), cellText(""), cellMoney(summary.IVATotal))
	row := 8
	for _, group := range []struct {
		title   string
		buckets []dto.SummaryBucket
	}{
		{"Por estado", summary.ByStatus},
		{"Por comprobante", summary.ByInvoiceType},
		{"Por condición de pago", summary.ByPaymentCondition},
	} {
		rs.set(fmt.Sprintf("A%d", row), group.title, s.bold)
		row++
		for _, b := range group.buckets {
			rs.setRow(row, s, cellText(b.Key), cellInt(b.Count), cellMoney(b.Total))
			row++
		}
		row++
	}
	rs.widths(map[string]float64{"A": 28, "B": 12, "C": 16})

	vs := sheetWriter{f: f, sheet: "Ventas"}
	vs.headers(1, []string{"N°", "Fecha", "Cliente", "Condición", "Estado", "Comprobante", "CAE",
		"Neto gravado", "Exento", "No gravado", "IVA", "Total"}, s.header)
	names := e.customerNames(ctx, sales)
	for i, sale := range sales {
		voucher := ""
		if sale.VoucherNumber > 0 {
			voucher = fiscal.VoucherLetter(sale.InvoiceType) + " " +
				fiscal.FormatVoucherNumber(sale.PointOfSale, sale.VoucherNumber)
		}
		vs.setRow(i+2, s,
			cellInt(int(sale.Number)),
			cellDate(sale.Date),
			cellText(names[sale.CustomerID]),
			cellText(sale.PaymentCondition),
			cellText(statusNames[sale.Status]),
			cellText(voucher),
			cellText(sale.CAE),
			cellMoney(sale.NetTaxed),
			cellMoney(sale.NetExempt),
			cellMoney(sale.NetNonTaxed),
			cellMoney(sale.IVATotal),
			cellMoney(sale.Total),
		)
	}
	vs.widths(map[string]float64{"A": 8, "B": 12, "C": 32, "D": 16, "E": 12, "F": 18, "G": 16,
		"H": 14, "I": 12, "J": 12, "K": 12, "L": 14})

	if rs.err != nil || vs.err != nil {
		return nil, fmt.Errorf("excel: ventas: %v %v", rs.err, vs.err)
	}
	return write(f)
}

// customerNames resuelve cada cliente una sola vez; si falla usa el id.
func (e *Exporter) customerNames(ctx context.Context, sales []*entity.Sale) map[string]string {
	names := make(map[string]string)
	for _, s := range sales {
		if _, ok := names[s.CustomerID]; ok {
			continue
		}
		names[s.CustomerID] = s.CustomerID
		if e.customers == nil {
			continue
		}
		if c, err := e.customers.GetByID(ctx, s.CustomerID); err == nil && c != nil {
			names[s.CustomerID] = c.Name
		}
	}
	return names
}

func conceptName(c string) string {
	if n, ok := conceptNames[c]; ok {
		return n
	}
	return c
}

func write(f *excelize.File) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("excel: escribir: %w", err)
	}
	return buf.Bytes(), nil
}
