// Package afip contiene catálogos y validaciones alineados a las tablas de referencia
// del Web Service de Factura Electrónica (WSFEv1) de AFIP (Argentina).
package afip

import "github.com/shopspring/decimal"

// =============================================================================
// Categorías impositivas de producto / línea de venta.
// Las alícuotas de IVA llevan el código de AFIP (FEParamGetTiposIva).
// =============================================================================

const (
	TaxIVA21     = "iva_21"
	TaxIVA10_5   = "iva_10_5"
	TaxIVA27     = "iva_27"
	TaxIVA5      = "iva_5"
	TaxIVA2_5    = "iva_2_5"
	TaxIVA0      = "iva_0"
	TaxExento    = "exento"     // Operación exenta (ImpOpEx)
	TaxNoGravado = "no_gravado" // Concepto no gravado (ImpTotConc)
)

// TaxRate describe una alícuota de IVA.
type TaxRate struct {
	Category string
	Rate     decimal.Decimal // fracción: 0.21, 0.105, ...
	AFIPID   int             // Id de alícuota AFIP
}

// TaxRates tabla de alícuotas gravadas.
var TaxRates = map[string]TaxRate{
	TaxIVA21:   {Category: TaxIVA21, Rate: decimal.RequireFromString("0.21"), AFIPID: 5},
	TaxIVA10_5: {Category: TaxIVA10_5, Rate: decimal.RequireFromString("0.105"), AFIPID: 4},
	TaxIVA27:   {Category: TaxIVA27, Rate: decimal.RequireFromString("0.27"), AFIPID: 6},
	TaxIVA5:    {Category: TaxIVA5, Rate: decimal.RequireFromString("0.05"), AFIPID: 8},
	TaxIVA2_5:  {Category: TaxIVA2_5, Rate: decimal.RequireFromString("0.025"), AFIPID: 9},
	TaxIVA0:    {Category: TaxIVA0, Rate: decimal.Zero, AFIPID: 3},
}

// IsValidTaxCategory indica si la categoría existe (gravada, exenta o no gravada).
func IsValidTaxCategory(category string) bool {
	if _, ok := TaxRates[category]; ok {
		return true
	}
	return category == TaxExento || category == TaxNoGravado
}

// =============================================================================
// Condiciones frente al IVA (RG 5616 / FEParamGetCondicionIvaReceptor)
// =============================================================================

const (
	IVAResponsableInscripto = "responsable_inscripto"
	IVAExento               = "exento"
	IVAConsumidorFinal      = "consumidor_final"
	IVAMonotributo          = "monotributo"
)

// IVAConditionIDs códigos AFIP de condición frente al IVA.
var IVAConditionIDs = map[string]int{
	IVAResponsableInscripto: 1,
	IVAExento:               4,
	IVAConsumidorFinal:      5,
	IVAMonotributo:          6,
}

// IsValidIVACondition indica si la condición frente al IVA es conocida.
func IsValidIVACondition(cond string) bool {
	_, ok := IVAConditionIDs[cond]
	return ok
}

// =============================================================================
// Tipos de comprobante (FEParamGetTiposCbte)
// =============================================================================

const (
	VoucherFacturaA     = 1
	VoucherNotaDebitoA  = 2
	VoucherNotaCreditoA = 3
	VoucherFacturaB     = 6
	VoucherNotaDebitoB  = 7
	VoucherNotaCreditoB = 8
	VoucherFacturaC     = 11
	VoucherNotaDebitoC  = 12
	VoucherNotaCreditoC = 13
)

// =============================================================================
// Tipos de documento (FEParamGetTiposDoc)
// =============================================================================

const (
	DocTypeCUIT           = 80
	DocTypeCUIL           = 86
	DocTypeDNI            = 96
	DocTypeSinIdentificar = 99
)

// IsValidDocType indica si el tipo de documento está soportado.
func IsValidDocType(t int) bool {
	switch t {
	case DocTypeCUIT, DocTypeCUIL, DocTypeDNI, DocTypeSinIdentificar:
		return true
	}
	return false
}

// =============================================================================
// Conceptos y monedas
// =============================================================================

const (
	ConceptoProductos = 1
	ConceptoServicios = 2
	ConceptoAmbos     = 3
)

const (
	CurrencyPesos   = "PES"
	CurrencyDolares = "DOL"
)
