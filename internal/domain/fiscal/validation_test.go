package fiscal_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-comercial-api/internal/domain/entity"
	"github.com/jhoicas/gestion-comercial-api/internal/domain/fiscal"
	"github.com/jhoicas/gestion-comercial-api/pkg/afip"
)

func saleFixture(t *testing.T, voucherType int) *entity.Sale {
	t.Helper()
	items := []*entity.SaleItem{
		{Quantity: dec("2"), UnitPrice: dec("500"), TaxCategory: afip.TaxIVA21},
		{Quantity: dec("1"), UnitPrice: dec("100"), TaxCategory: afip.TaxExento},
	}
	a, err := fiscal.ComputeAmounts(fiscal.ItemsFromSale(items), voucherType)
	require.NoError(t, err)
	return &entity.Sale{
		ID:          "s1",
		Date:        time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		InvoiceType: voucherType,
		PointOfSale: 1,
		NetTaxed:    a.NetTaxed,
		NetExempt:   a.NetExempt,
		NetNonTaxed: a.NetNonTaxed,
		IVATotal:    a.IVATotal,
		Total:       a.Total,
		Items:       items,
	}
}

func TestValidateForAuthorization_OK(t *testing.T) {
	sale := saleFixture(t, afip.VoucherFacturaA)
	customer := &entity.Customer{DocType: afip.DocTypeCUIT, DocNumber: "30712345671", IVACondition: afip.IVAResponsableInscripto}
	assert.NoError(t, fiscal.ValidateForAuthorization(sale, customer))

	saleB := saleFixture(t, afip.VoucherFacturaB)
	cf := &entity.Customer{DocType: afip.DocTypeSinIdentificar, IVACondition: afip.IVAConsumidorFinal}
	assert.NoError(t, fiscal.ValidateForAuthorization(saleB, cf))
}

func TestValidateForAuthorization_FacturaASinCUIT(t *testing.T) {
	sale := saleFixture(t, afip.VoucherFacturaA)

	dni := &entity.Customer{DocType: afip.DocTypeDNI, DocNumber: "30123456"}
	err := fiscal.ValidateForAuthorization(sale, dni)
	require.Error(t, err)
	assert.True(t, errors.Is(err, fiscal.ErrInvalidVoucher))

	malCUIT := &entity.Customer{DocType: afip.DocTypeCUIT, DocNumber: "30712345670"}
	err = fiscal.ValidateForAuthorization(sale, malCUIT)
	require.Error(t, err)
	assert.True(t, errors.Is(err, afip.ErrInvalidCheckDigit))
}

func TestValidateForAuthorization_TotalesNoCoinciden(t *testing.T) {
	sale := saleFixture(t, afip.VoucherFacturaB)
	sale.Total = sale.Total.Add(dec("0.01"))
	err := fiscal.ValidateForAuthorization(sale, &entity.Customer{DocType: afip.DocTypeSinIdentificar})
	require.Error(t, err)
	assert.True(t, errors.Is(err, fiscal.ErrInvalidVoucher))
	assert.Contains(t, err.Error(), "total")
}

func TestValidateForAuthorization_SinLineas(t *testing.T) {
	sale := saleFixture(t, afip.VoucherFacturaB)
	sale.Items = nil
	err := fiscal.ValidateForAuthorization(sale, &entity.Customer{DocType: afip.DocTypeSinIdentificar})
	assert.True(t, errors.Is(err, fiscal.ErrInvalidVoucher))

	assert.Error(t, fiscal.ValidateForAuthorization(nil, nil))
}
