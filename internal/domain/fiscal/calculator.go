// Package fiscal contiene los cálculos fiscales de la facturación electrónica AFIP:
// alícuotas de IVA, selección del tipo de comprobante, agrupación de importes en
// neto gravado / exento / no gravado y numeración de comprobantes.
//
// Todas las funciones son puras. Los importes se redondean a 2 decimales
// (mitad alejándose de cero) por línea y luego se suman.
package fiscal

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-comercial-api/pkg/afip"
)

var (
	ErrUnknownTaxCategory = errors.New("fiscal: categoría de IVA desconocida")
	ErrUnknownCondition   = errors.New("fiscal: condición frente al IVA desconocida")
	ErrUnknownVoucherType = errors.New("fiscal: tipo de comprobante desconocido")
	ErrInvalidItem        = errors.New("fiscal: línea inválida")
)

var hundred = decimal.NewFromInt(100)

// Item línea de venta o presupuesto para el cálculo fiscal. UnitPrice es sin IVA.
type Item struct {
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Discount    decimal.Decimal // porcentaje 0-100
	TaxCategory string
}

// LineAmounts importes calculados de una línea.
type LineAmounts struct {
	Net   decimal.Decimal
	IVA   decimal.Decimal
	Total decimal.Decimal
}

// IVABreakdown importes agrupados por alícuota (AlicIva en WSFEv1).
type IVABreakdown struct {
	AFIPID int
	Base   decimal.Decimal
	Amount decimal.Decimal
}

// Amounts totales del comprobante.
type Amounts struct {
	Lines       []LineAmounts
	NetTaxed    decimal.Decimal // ImpNeto
	NetExempt   decimal.Decimal // ImpOpEx
	NetNonTaxed decimal.Decimal // ImpTotConc
	IVATotal    decimal.Decimal // ImpIVA
	Total       decimal.Decimal // ImpTotal
	IVA         []IVABreakdown  // ordenado por AFIPID
}

// CalculateIVA devuelve el IVA de amount según la categoría, redondeado a 2 decimales.
// Exento y no gravado devuelven 0.
func CalculateIVA(amount decimal.Decimal, category string) (decimal.Decimal, error) {
	if category == afip.TaxExento || category == afip.TaxNoGravado {
		return decimal.Zero, nil
	}
	rate, ok := afip.TaxRates[category]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnknownTaxCategory, category)
	}
	return amount.Mul(rate.Rate).Round(2), nil
}

// LineNet neto de la línea: cantidad × precio × (1 − descuento/100), redondeado a 2 decimales.
func LineNet(it Item) decimal.Decimal {
	gross := it.Quantity.Mul(it.UnitPrice)
	if it.Discount.IsPositive() {
		gross = gross.Mul(hundred.Sub(it.Discount)).Div(hundred)
	}
	return gross.Round(2)
}

// DiscriminatesIVA indica si el comprobante informa IVA (clases A y B).
// En clase C (emisor monotributista o exento) el IVA no se discrimina.
func DiscriminatesIVA(voucherType int) bool {
	switch voucherType {
	case afip.VoucherFacturaA, afip.VoucherNotaDebitoA, afip.VoucherNotaCreditoA,
		afip.VoucherFacturaB, afip.VoucherNotaDebitoB, afip.VoucherNotaCreditoB:
		return true
	}
	return false
}

// ComputeAmounts calcula líneas y totales del comprobante.
// Gravadas → NetTaxed + desglose por alícuota; exento → NetExempt; no_gravado → NetNonTaxed.
// Total = round2(NetTaxed + NetExempt + NetNonTaxed + IVATotal).
// Clase C: NetTaxed = Σ totales de línea, el resto en cero.
func ComputeAmounts(items []Item, voucherType int) (Amounts, error) {
	var out Amounts
	if len(items) == 0 {
		return out, fmt.Errorf("%w: el comprobante no tiene líneas", ErrInvalidItem)
	}
	discriminates := DiscriminatesIVA(voucherType)
	breakdown := make(map[int]*IVABreakdown)

	for i, it := range items {
		if err := validateItem(it); err != nil {
			return Amounts{}, fmt.Errorf("línea %d: %w", i+1, err)
		}
		net := LineNet(it)
		iva, err := CalculateIVA(net, it.TaxCategory)
		if err != nil {
			return Amounts{}, err
		}
		line := LineAmounts{Net: net, IVA: iva, Total: net.Add(iva)}
		out.Lines = append(out.Lines, line)
		if !discriminates {
			out.NetTaxed = out.NetTaxed.Add(line.Total)
			continue
		}

		switch it.TaxCategory {
		case afip.TaxExento:
			out.NetExempt = out.NetExempt.Add(net)
		case afip.TaxNoGravado:
			out.NetNonTaxed = out.NetNonTaxed.Add(net)
		default:
			out.NetTaxed = out.NetTaxed.Add(net)
			id := afip.TaxRates[it.TaxCategory].AFIPID
			b, ok := breakdown[id]
			if !ok {
				b = &IVABreakdown{AFIPID: id}
				breakdown[id] = b
			}
			b.Base = b.Base.Add(net)
			b.Amount = b.Amount.Add(iva)
		}
	}

	ids := make([]int, 0, len(breakdown))
	for id := range breakdown {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		b := breakdown[id]
		out.IVA = append(out.IVA, *b)
		out.IVATotal = out.IVATotal.Add(b.Amount)
	}

	out.Total = out.NetTaxed.Add(out.NetExempt).Add(out.NetNonTaxed).Add(out.IVATotal).Round(2)
	return out, nil
}

func validateItem(it Item) error {
	if !it.Quantity.IsPositive() {
		return fmt.Errorf("%w: la cantidad debe ser mayor a 0", ErrInvalidItem)
	}
	if it.UnitPrice.IsNegative() {
		return fmt.Errorf("%w: el precio no puede ser negativo", ErrInvalidItem)
	}
	if it.Discount.IsNegative() || it.Discount.GreaterThan(hundred) {
		return fmt.Errorf("%w: el descuento debe estar entre 0 y 100", ErrInvalidItem)
	}
	if !afip.IsValidTaxCategory(it.TaxCategory) {
		return fmt.Errorf("%w: %q", ErrUnknownTaxCategory, it.TaxCategory)
	}
	return nil
}

// SelectInvoiceType elige el tipo de factura según la condición del emisor y del cliente.
//   - Emisor responsable inscripto: cliente RI o monotributista → A; consumidor final o exento → B.
//   - Emisor monotributista o exento → C.
func SelectInvoiceType(issuerCondition, customerCondition string) (int, error) {
	switch issuerCondition {
	case afip.IVAResponsableInscripto:
		switch customerCondition {
		case afip.IVAResponsableInscripto, afip.IVAMonotributo:
			return afip.VoucherFacturaA, nil
		case afip.IVAConsumidorFinal, afip.IVAExento:
			return afip.VoucherFacturaB, nil
		}
		return 0, fmt.Errorf("%w: cliente %q", ErrUnknownCondition, customerCondition)
	case afip.IVAMonotributo, afip.IVAExento:
		return afip.VoucherFacturaC, nil
	}
	return 0, fmt.Errorf("%w: emisor %q", ErrUnknownCondition, issuerCondition)
}

// CreditNoteFor devuelve la nota de crédito de la misma clase que la factura.
func CreditNoteFor(invoiceType int) (int, error) {
	switch invoiceType {
	case afip.VoucherFacturaA:
		return afip.VoucherNotaCreditoA, nil
	case afip.VoucherFacturaB:
		return afip.VoucherNotaCreditoB, nil
	case afip.VoucherFacturaC:
		return afip.VoucherNotaCreditoC, nil
	}
	return 0, fmt.Errorf("%w: %d", ErrUnknownVoucherType, invoiceType)
}

// VoucherLetter letra del comprobante (A, B o C); vacío si el tipo es desconocido.
func VoucherLetter(voucherType int) string {
	switch voucherType {
	case afip.VoucherFacturaA, afip.VoucherNotaDebitoA, afip.VoucherNotaCreditoA:
		return "A"
	case afip.VoucherFacturaB, afip.VoucherNotaDebitoB, afip.VoucherNotaCreditoB:
		return "B"
	case afip.VoucherFacturaC, afip.VoucherNotaDebitoC, afip.VoucherNotaCreditoC:
		return "C"
	}
	return ""
}

// VoucherName nombre legible del tipo de comprobante.
func VoucherName(voucherType int) string {
	letter := VoucherLetter(voucherType)
	switch voucherType {
	case afip.VoucherFacturaA, afip.VoucherFacturaB, afip.VoucherFacturaC:
		return "FACTURA " + letter
	case afip.VoucherNotaCreditoA, afip.VoucherNotaCreditoB, afip.VoucherNotaCreditoC:
		return "NOTA DE CRÉDITO " + letter
	case afip.VoucherNotaDebitoA, afip.VoucherNotaDebitoB, afip.VoucherNotaDebitoC:
		return "NOTA DE DÉBITO " + letter
	}
	return ""
}

// FormatVoucherNumber formatea punto de venta y número: 00001-00000123.
func FormatVoucherNumber(pointOfSale int, number int64) string {
	return fmt.Sprintf("%05d-%08d", pointOfSale, number)
}
