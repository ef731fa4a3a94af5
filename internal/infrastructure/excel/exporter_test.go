package excel_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/gestion-comercial-api/internal/application/dto"
	"github.com/jhoicas/gestion-comercial-api/internal/domain/entity"
	"github.com/jhoicas/gestion-comercial-api/internal/infrastructure/excel"
)

func open(t *testing.T, body []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestExportStatement(t *testing.T) {
	day := time.Date(2026, 10, 1, 10, 0, 0, 0, time.UTC)
	st := &dto.CurrentAccountResponse{
		CustomerID:   "c-1",
		CustomerName: "Ferretería Sur SRL",
		CreditLimit:  decimal.NewFromInt(10000),
		Balance:      decimal.NewFromInt(1000),
		Items: []dto.CurrentAccountItemResponse{
			{Date: day, Type: entity.LedgerDebit, Concept: entity.LedgerConceptVenta, Description: "Venta N° 1",
				Debit: decimal.NewFromInt(1500), Credit: decimal.Zero, Balance: decimal.NewFromInt(1500)},
			{Date: day, Type: entity.LedgerCredit, Concept: entity.LedgerConceptPago, Description: "Pago efectivo",
				Debit: decimal.Zero, Credit: decimal.NewFromInt(500), Balance: decimal.NewFromInt(1000)},
		},
	}
	body, err := excel.NewExporter(nil).ExportStatement(context.Background(), st)
	require.NoError(t, err)

	f := open(t, body)
	assert.Equal(t, []string{"Cuenta corriente"}, f.GetSheetList())
	title, _ := f.GetCellValue("Cuenta corriente", "A1")
	assert.Contains(t, title, "Ferretería Sur SRL")
	concept, _ := f.GetCellValue("Cuenta corriente", "B5")
	assert.Equal(t, "Venta", concept)
	concept, _ = f.GetCellValue("Cuenta corriente", "B6")
	assert.Equal(t, "Pago", concept)
	label, _ := f.GetCellValue("Cuenta corriente", "E8")
	assert.Equal(t, "Saldo", label)
}

func TestExportSales(t *testing.T) {
	day := time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC)
	summary := &dto.SalesSummaryResponse{
		From: day, To: day, Count: 1, Total: decimal.NewFromInt(2420),
		NetTaxed: decimal.NewFromInt(2000), IVATotal: decimal.NewFromInt(420),
		ByStatus: []dto.SummaryBucket{{Key: "invoiced", Count: 1, Total: decimal.NewFromInt(2420)}},
	}
	sales := []*entity.Sale{{
		ID: "s-1", Number: 7, CustomerID: "c-1", Date: day, Status: entity.SaleStatusInvoiced,
		PaymentCondition: entity.PaymentConditionContado, InvoiceType: 1, PointOfSale: 3, VoucherNumber: 42,
		CAE: "74123456780042", NetTaxed: decimal.NewFromInt(2000), IVATotal: decimal.NewFromInt(420),
		Total: decimal.NewFromInt(2420),
	}}
	customers := fakeCustomerRepo{names: map[string]string{"c-1": "Ferretería Sur SRL"}}
	body, err := excel.NewExporter(customers).ExportSales(context.Background(), summary, sales)
	require.NoError(t, err)

	f := open(t, body)
	assert.Equal(t, []string{"Resumen", "Ventas"}, f.GetSheetList())
	name, _ := f.GetCellValue("Ventas", "C2")
	assert.Equal(t, "Ferretería Sur SRL", name)
	voucher, _ := f.GetCellValue("Ventas", "F2")
	assert.Equal(t, "A 00003-00000042", voucher)
	status, _ := f.GetCellValue("Ventas", "E2")
	assert.Equal(t, "Facturada", status)
}
