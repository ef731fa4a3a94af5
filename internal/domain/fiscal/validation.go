package fiscal

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-comercial-api/internal/domain/entity"
	"github.com/jhoicas/gestion-comercial-api/pkg/afip"
)

// ErrInvalidVoucher agrupa errores de validación previos a solicitar el CAE.
var ErrInvalidVoucher = errors.New("comprobante inválido para AFIP")

// ItemsFromSale convierte las líneas de la venta en líneas de cálculo.
func ItemsFromSale(items []*entity.SaleItem) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		out = append(out, Item{
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Discount:    it.Discount,
			TaxCategory: it.TaxCategory,
		})
	}
	return out
}

// ValidateForAuthorization valida la venta antes de enviarla a AFIP.
// Factura A exige cliente con CUIT válido. Los importes de cabecera deben coincidir
// con los recalculados a partir de las líneas.
func ValidateForAuthorization(sale *entity.Sale, customer *entity.Customer) error {
	if sale == nil {
		return fmt.Errorf("%w: venta nula", ErrInvalidVoucher)
	}
	var errs []error

	if VoucherLetter(sale.InvoiceType) == "" {
		errs = append(errs, fmt.Errorf("tipo de comprobante desconocido: %d", sale.InvoiceType))
	}

	if customer == nil {
		errs = append(errs, errors.New("la venta no tiene cliente"))
	} else if sale.InvoiceType == afip.VoucherFacturaA {
		if customer.DocType != afip.DocTypeCUIT {
			errs = append(errs, errors.New("factura A: el cliente debe identificarse con CUIT"))
		} else if err := afip.ValidateCUIT(customer.DocNumber); err != nil {
			errs = append(errs, fmt.Errorf("factura A: CUIT del cliente: %w", err))
		}
	}

	if len(sale.Items) == 0 {
		errs = append(errs, errors.New("la venta debe tener al menos una línea"))
	} else {
		amounts, err := ComputeAmounts(ItemsFromSale(sale.Items), sale.InvoiceType)
		if err != nil {
			errs = append(errs, err)
		} else {
			errs = append(errs, compareAmounts(sale, amounts)...)
		}
	}

	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidVoucher}, errs...)...)
	}
	return nil
}

func compareAmounts(sale *entity.Sale, a Amounts) []error {
	var errs []error
	check := func(name string, got, want decimal.Decimal) {
		if !got.Equal(want) {
			errs = append(errs, fmt.Errorf("%s (%s) no coincide con la suma de las líneas (%s)", name, got.String(), want.String()))
		}
	}
	check("neto gravado", sale.NetTaxed, a.NetTaxed)
	check("neto exento", sale.NetExempt, a.NetExempt)
	check("neto no gravado", sale.NetNonTaxed, a.NetNonTaxed)
	check("IVA", sale.IVATotal, a.IVATotal)
	check("total", sale.Total, a.Total)
	return errs
}
