package fiscal_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-comercial-api/internal/domain/fiscal"
	"github.com/jhoicas/gestion-comercial-api/pkg/afip"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCalculateIVA(t *testing.T) {
	iva, err := fiscal.CalculateIVA(decimal.NewFromInt(1000), "iva_21")
	require.NoError(t, err)
	assert.True(t, iva.Equal(decimal.NewFromInt(210)), "got %s", iva)

	iva, err = fiscal.CalculateIVA(dec("45"), afip.TaxIVA10_5)
	require.NoError(t, err)
	assert.Equal(t, "4.73", iva.StringFixed(2))

	for _, cat := range []string{afip.TaxExento, afip.TaxNoGravado, afip.TaxIVA0} {
		iva, err = fiscal.CalculateIVA(dec("999.99"), cat)
		require.NoError(t, err)
		assert.True(t, iva.IsZero(), cat)
	}

	_, err = fiscal.CalculateIVA(dec("100"), "iva_19")
	assert.True(t, errors.Is(err, fiscal.ErrUnknownTaxCategory))
}

func TestLineNet(t *testing.T) {
	net := fiscal.LineNet(fiscal.Item{Quantity: dec("3"), UnitPrice: dec("33.333"), TaxCategory: afip.TaxIVA21})
	assert.Equal(t, "100.00", net.StringFixed(2))

	net = fiscal.LineNet(fiscal.Item{Quantity: dec("1"), UnitPrice: dec("50"), Discount: dec("10"), TaxCategory: afip.TaxIVA21})
	assert.True(t, net.Equal(dec("45")))
}

func TestComputeAmounts_Buckets(t *testing.T) {
	items := []fiscal.Item{
		{Quantity: dec("2"), UnitPrice: dec("100"), TaxCategory: afip.TaxIVA21},
		{Quantity: dec("1"), UnitPrice: dec("50"), Discount: dec("10"), TaxCategory: afip.TaxIVA10_5},
		{Quantity: dec("3"), UnitPrice: dec("10"), TaxCategory: afip.TaxExento},
		{Quantity: dec("1"), UnitPrice: dec("20"), TaxCategory: afip.TaxNoGravado},
		{Quantity: dec("1"), UnitPrice: dec("100"), TaxCategory: afip.TaxIVA21},
	}
	a, err := fiscal.ComputeAmounts(items, afip.VoucherFacturaB)
	require.NoError(t, err)

	assert.Equal(t, "345.00", a.NetTaxed.StringFixed(2))
	assert.Equal(t, "30.00", a.NetExempt.StringFixed(2))
	assert.Equal(t, "20.00", a.NetNonTaxed.StringFixed(2))
	assert.Equal(t, "67.73", a.IVATotal.StringFixed(2))
	assert.Equal(t, "462.73", a.Total.StringFixed(2))

	require.Len(t, a.IVA, 2)
	assert.Equal(t, 4, a.IVA[0].AFIPID)
	assert.Equal(t, "45.00", a.IVA[0].Base.StringFixed(2))
	assert.Equal(t, "4.73", a.IVA[0].Amount.StringFixed(2))
	assert.Equal(t, 5, a.IVA[1].AFIPID)
	assert.Equal(t, "300.00", a.IVA[1].Base.StringFixed(2))
	assert.Equal(t, "63.00", a.IVA[1].Amount.StringFixed(2))

	require.Len(t, a.Lines, 5)
	var sumLines decimal.Decimal
	for _, l := range a.Lines {
		sumLines = sumLines.Add(l.Total)
	}
	assert.True(t, sumLines.Equal(a.Total), "la suma de líneas debe igualar el total")
}

func TestComputeAmounts_ClaseC(t *testing.T) {
	items := []fiscal.Item{
		{Quantity: dec("1"), UnitPrice: dec("1000"), TaxCategory: afip.TaxIVA21},
		{Quantity: dec("1"), UnitPrice: dec("50"), TaxCategory: afip.TaxExento},
	}
	a, err := fiscal.ComputeAmounts(items, afip.VoucherFacturaC)
	require.NoError(t, err)
	assert.Equal(t, "1260.00", a.NetTaxed.StringFixed(2))
	assert.True(t, a.NetExempt.IsZero())
	assert.True(t, a.NetNonTaxed.IsZero())
	assert.True(t, a.IVATotal.IsZero())
	assert.Empty(t, a.IVA)
	assert.True(t, a.Total.Equal(a.NetTaxed))
}

func TestComputeAmounts_Invalidos(t *testing.T) {
	_, err := fiscal.ComputeAmounts(nil, afip.VoucherFacturaB)
	assert.True(t, errors.Is(err, fiscal.ErrInvalidItem))

	_, err = fiscal.ComputeAmounts([]fiscal.Item{{Quantity: dec("0"), UnitPrice: dec("1"), TaxCategory: afip.TaxIVA21}}, afip.VoucherFacturaB)
	assert.True(t, errors.Is(err, fiscal.ErrInvalidItem))

	_, err = fiscal.ComputeAmounts([]fiscal.Item{{Quantity: dec("1"), UnitPrice: dec("1"), Discount: dec("101"), TaxCategory: afip.TaxIVA21}}, afip.VoucherFacturaB)
	assert.True(t, errors.Is(err, fiscal.ErrInvalidItem))

	_, err = fiscal.ComputeAmounts([]fiscal.Item{{Quantity: dec("1"), UnitPrice: dec("1"), TaxCategory: "iva_19"}}, afip.VoucherFacturaB)
	assert.True(t, errors.Is(err, fiscal.ErrUnknownTaxCategory))
}

func TestSelectInvoiceType(t *testing.T) {
	cases := []struct {
		issuer, customer string
		want             int
	}{
		{afip.IVAResponsableInscripto, afip.IVAResponsableInscripto, afip.VoucherFacturaA},
		{afip.IVAResponsableInscripto, afip.IVAMonotributo, afip.VoucherFacturaA},
		{afip.IVAResponsableInscripto, afip.IVAConsumidorFinal, afip.VoucherFacturaB},
		{afip.IVAResponsableInscripto, afip.IVAExento, afip.VoucherFacturaB},
		{afip.IVAMonotributo, afip.IVAResponsableInscripto, afip.VoucherFacturaC},
		{afip.IVAExento, afip.IVAConsumidorFinal, afip.VoucherFacturaC},
	}
	for _, tc := range cases {
		got, err := fiscal.SelectInvoiceType(tc.issuer, tc.customer)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "%s → %s", tc.issuer, tc.customer)
	}

	_, err := fiscal.SelectInvoiceType(afip.IVAResponsableInscripto, "otro")
	assert.True(t, errors.Is(err, fiscal.ErrUnknownCondition))
	_, err = fiscal.SelectInvoiceType("", afip.IVAConsumidorFinal)
	assert.True(t, errors.Is(err, fiscal.ErrUnknownCondition))
}

func TestCreditNoteFor(t *testing.T) {
	nc, err := fiscal.CreditNoteFor(afip.VoucherFacturaA)
	require.NoError(t, err)
	assert.Equal(t, afip.VoucherNotaCreditoA, nc)
	nc, _ = fiscal.CreditNoteFor(afip.VoucherFacturaB)
	assert.Equal(t, afip.VoucherNotaCreditoB, nc)
	nc, _ = fiscal.CreditNoteFor(afip.VoucherFacturaC)
	assert.Equal(t, afip.VoucherNotaCreditoC, nc)

	_, err = fiscal.CreditNoteFor(afip.VoucherNotaCreditoA)
	assert.True(t, errors.Is(err, fiscal.ErrUnknownVoucherType))
}

func TestFormatVoucherNumber(t *testing.T) {
	assert.Equal(t, "00001-00000123", fiscal.FormatVoucherNumber(1, 123))
	assert.Equal(t, "00012-12345678", fiscal.FormatVoucherNumber(12, 12345678))
}

func TestVoucherLetterAndName(t *testing.T) {
	assert.Equal(t, "A", fiscal.VoucherLetter(afip.VoucherNotaCreditoA))
	assert.Equal(t, "B", fiscal.VoucherLetter(afip.VoucherFacturaB))
	assert.Equal(t, "C", fiscal.VoucherLetter(afip.VoucherFacturaC))
	assert.Equal(t, "", fiscal.VoucherLetter(99))
	assert.Equal(t, "FACTURA B", fiscal.VoucherName(afip.VoucherFacturaB))
	assert.Equal(t, "NOTA DE CRÉDITO C", fiscal.VoucherName(afip.VoucherNotaCreditoC))
}
