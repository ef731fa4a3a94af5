// Package pdf genera la representación impresa de comprobantes electrónicos AFIP
// (RG 4291 / RG 5616) a partir de una venta autorizada.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  Razón social + domicilio │ LETRA │ Comprobante + N° + fecha │
//	│  ─────────────────────────────────────────────────────────  │
//	│  EMISOR: CUIT / IIBB / Inicio de actividades / Cond. IVA     │
//	│  RECEPTOR: Nombre + documento + condición frente al IVA      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Descripción | P.Unit | Bonif | IVA | Subtotal │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Neto gravado / IVA (solo A) / TOTAL                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PIE AFIP: QR + CAE + vencimiento CAE                        │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-comercial-api/internal/application/billing"
	"github.com/jhoicas/gestion-comercial-api/internal/domain/entity"
	"github.com/jhoicas/gestion-comercial-api/internal/domain/fiscal"
	"github.com/jhoicas/gestion-comercial-api/pkg/afip"
	"github.com/jhoicas/gestion-comercial-api/pkg/money"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

var ivaConditionNames = map[string]string{
	afip.IVAResponsableInscripto: "IVA Responsable Inscripto",
	afip.IVAExento:               "IVA Sujeto Exento",
	afip.IVAConsumidorFinal:      "Consumidor Final",
	afip.IVAMonotributo:          "Responsable Monotributo",
}

var docTypeNames = map[int]string{
	afip.DocTypeCUIT:           "CUIT",
	afip.DocTypeCUIL:           "CUIL",
	afip.DocTypeDNI:            "DNI",
	afip.DocTypeSinIdentificar: "Sin identificar",
}

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa billing.InvoicePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

var _ billing.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)

// GenerateInvoicePDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(_ context.Context, data billing.InvoicePDFData) ([]byte, error) {
	if data.Sale == nil || data.Customer == nil {
		return nil, fmt.Errorf("pdf: venta y cliente son obligatorios")
	}
	sale := data.Sale

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(fiscal.VoucherName(sale.InvoiceType), true).
		WithAuthor(data.Issuer.BusinessName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(sale, data.Issuer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(emisorRow(data.Issuer))
	m.AddRows(receptorRow(sale, data.Customer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	discriminates := fiscal.DiscriminatesIVA(sale.InvoiceType)
	m.AddRows(tableHeaderRow(discriminates))
	for _, r := range tableDetailRows(sale.Items, discriminates) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(sale, discriminates))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	for _, r := range afipFooterRows(sale, data.QRURL) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: emisor (izq), letra del comprobante (centro), número y fecha (der).
func headerRow(sale *entity.Sale, issuer billing.IssuerConfig) core.Row {
	return row.New(22).Add(
		col.New(5).Add(
			text.New(issuer.BusinessName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(issuer.Address, "—"), props.Text{
				Size: 8, Top: 10, Color: colorGray,
			}),
		),
		col.New(2).Add(
			text.New(fiscal.VoucherLetter(sale.InvoiceType), props.Text{
				Style: fontstyle.Bold, Size: 24, Align: align.Center, Top: 1,
			}),
			text.New(fmt.Sprintf("COD. %02d", sale.InvoiceType), props.Text{
				Size: 7, Align: align.Center, Top: 14, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(fiscal.VoucherName(sale.InvoiceType), props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("N° "+fiscal.FormatVoucherNumber(sale.PointOfSale, sale.VoucherNumber), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha de emisión: "+sale.Date.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 15, Color: colorGray,
			}),
		),
	)
}

// emisorRow: datos fiscales del emisor.
func emisorRow(issuer billing.IssuerConfig) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("DATOS DEL EMISOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("CUIT: %s   |   IIBB: %s   |   Inicio de actividades: %s   |   %s",
				afip.FormatCUIT(issuer.CUIT),
				nonEmpty(issuer.GrossIncome, "—"),
				nonEmpty(issuer.ActivityStart, "—"),
				nonEmpty(ivaConditionNames[issuer.IVACondition], issuer.IVACondition),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// receptorRow: datos del comprador y condición de venta.
func receptorRow(sale *entity.Sale, customer *entity.Customer) core.Row {
	doc := nonEmpty(docTypeNames[customer.DocType], "Doc.")
	number := customer.DocNumber
	if customer.DocType == afip.DocTypeCUIT || customer.DocType == afip.DocTypeCUIL {
		number = afip.FormatCUIT(number)
	}
	condition := "Contado"
	if sale.PaymentCondition == entity.PaymentConditionCuentaCorriente {
		condition = "Cuenta corriente"
	}
	return row.New(18).Add(
		col.New(12).Add(
			text.New("RECEPTOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(customer.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("%s: %s   |   %s   |   Domicilio: %s",
				doc,
				nonEmpty(number, "—"),
				nonEmpty(ivaConditionNames[customer.IVACondition], customer.IVACondition),
				nonEmpty(customer.Address, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
			text.New("Condición de venta: "+condition, props.Text{Size: 8, Top: 15, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de detalles.
// En comprobantes B y C la columna de IVA no se informa.
func tableHeaderRow(discriminates bool) core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	r := row.New(8).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
	if discriminates {
		return r.Add(
			h("Cant.", 1, align.Center),
			h("Descripción", 4, align.Left),
			h("Precio Unit.", 2, align.Right),
			h("Bonif.%", 1, align.Center),
			h("IVA%", 1, align.Center),
			h("Subtotal", 3, align.Right),
		)
	}
	return r.Add(
		h("Cant.", 1, align.Center),
		h("Descripción", 5, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("Bonif.%", 1, align.Center),
		h("Subtotal", 3, align.Right),
	)
}

// tableDetailRows: una fila por línea. En A los importes van sin IVA; en B y C con IVA incluido.
func tableDetailRows(items []*entity.SaleItem, discriminates bool) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		unit := it.UnitPrice
		subtotal := it.Net
		if !discriminates && it.Quantity.IsPositive() {
			subtotal = it.Total
			unit = it.Total.Div(it.Quantity).Div(discountFactor(it.Discount)).Round(2)
		}
		cols := []core.Col{
			col.New(1).Add(text.New(money.Quantity(it.Quantity),
				props.Text{Size: 8, Align: align.Center, Top: 1})),
		}
		if discriminates {
			cols = append(cols,
				col.New(4).Add(text.New(it.Description, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
				col.New(2).Add(text.New(money.Format(unit), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
				col.New(1).Add(text.New(money.Quantity(it.Discount), props.Text{Size: 8, Align: align.Center, Top: 1})),
				col.New(1).Add(text.New(taxLabel(it.TaxCategory), props.Text{Size: 8, Align: align.Center, Top: 1})),
			)
		} else {
			cols = append(cols,
				col.New(5).Add(text.New(it.Description, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
				col.New(2).Add(text.New(money.Format(unit), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
				col.New(1).Add(text.New(money.Quantity(it.Discount), props.Text{Size: 8, Align: align.Center, Top: 1})),
			)
		}
		cols = append(cols, col.New(3).Add(text.New(money.Format(subtotal),
			props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})))
		result = append(result, row.New(7).Add(cols...))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(sale *entity.Sale, discriminates bool) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	grand := func(s string, top float64, a align.Type) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: a,
			Color: colorPrimary, Right: 1, Top: top,
		})
	}

	if !discriminates {
		return row.New(10).Add(
			col.New(6),
			col.New(3).Add(grand("TOTAL:", 2, align.Right)),
			col.New(3).Add(grand(money.ARS(sale.Total), 2, align.Right)),
		)
	}

	labels := col.New(3).Add(
		label("Neto gravado:"),
		text.New("Exento / No gravado:", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: 5}),
		text.New("IVA:", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: 10}),
		grand("TOTAL:", 16, align.Right),
	)
	values := col.New(3).Add(
		value(money.ARS(sale.NetTaxed), 0),
		value(money.ARS(sale.NetExempt.Add(sale.NetNonTaxed)), 5),
		value(money.ARS(sale.IVATotal), 10),
		grand(money.ARS(sale.Total), 16, align.Right),
	)
	return row.New(24).Add(col.New(6), labels, values)
}

// afipFooterRows: QR de AFIP + CAE y su vencimiento.
func afipFooterRows(sale *entity.Sale, qrURL string) []core.Row {
	caeDue := "—"
	if sale.CAEDueDate != nil {
		caeDue = sale.CAEDueDate.Format("02/01/2006")
	}
	info := []core.Component{
		text.New("Comprobante Autorizado", props.Text{
			Style: fontstyle.Bold, Size: 10, Top: 4, Left: 3, Color: colorPrimary,
		}),
		text.New("CAE N°: "+nonEmpty(sale.CAE, "—"), props.Text{
			Style: fontstyle.Bold, Size: 9, Top: 12, Left: 3,
		}),
		text.New("Fecha de Vto. de CAE: "+caeDue, props.Text{
			Size: 9, Top: 18, Left: 3,
		}),
		text.New("Esta Administración Federal no se responsabiliza por los datos\ningresados en el detalle de la operación.", props.Text{
			Size: 6.5, Top: 28, Left: 3, Color: colorGray,
		}),
	}

	if qrURL == "" {
		return []core.Row{row.New(36).Add(col.New(12).Add(info...))}
	}
	return []core.Row{
		row.New(40).Add(
			col.New(3).Add(code.NewQr(qrURL, props.Rect{
				Percent: 95,
				Center:  true,
			})),
			col.New(9).Add(info...),
		),
	}
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func taxLabel(category string) string {
	switch category {
	case afip.TaxExento:
		return "Ex."
	case afip.TaxNoGravado:
		return "N/G"
	}
	if r, ok := afip.TaxRates[category]; ok {
		return strings.Replace(r.Rate.Mul(decimal.NewFromInt(100)).String(), ".", ",", 1)
	}
	return category
}

// discountFactor 1 - bonificación/100; nunca cero.
func discountFactor(discount decimal.Decimal) decimal.Decimal {
	f := decimal.NewFromInt(1).Sub(discount.Div(decimal.NewFromInt(100)))
	if !f.IsPositive() {
		return decimal.NewFromInt(1)
	}
	return f
}
