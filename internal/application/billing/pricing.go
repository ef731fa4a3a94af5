package billing

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-comercial-api/internal/domain"
	"github.com/jhoicas/gestion-comercial-api/internal/domain/entity"
	"github.com/jhoicas/gestion-comercial-api/internal/domain/fiscal"
	"github.com/jhoicas/gestion-comercial-api/internal/domain/repository"
)

// Escalas de las columnas de líneas (sale_items, quote_items).
const (
	priceScale    = 2
	quantityScale = 3
	discountScale = 2
)

// draftItem línea pedida por el usuario. UnitPrice nil: precio del producto convertido a pesos.
type draftItem struct {
	ProductID   string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   *decimal.Decimal
	Discount    decimal.Decimal
}

// pricedLine línea con precio en pesos y su producto.
type pricedLine struct {
	Product     *entity.Product
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Discount    decimal.Decimal
	TaxCategory string
	Amounts     fiscal.LineAmounts
}

// pricedDraft resultado de valorizar un borrador de venta o presupuesto.
type pricedDraft struct {
	Customer     *entity.Customer
	InvoiceType  int
	Lines        []pricedLine
	Amounts      fiscal.Amounts
	ExchangeRate decimal.Decimal // cotización USD usada; 0 si no hubo conversión
}

// priceDraft valida cliente y productos, convierte precios en moneda extranjera
// y calcula los importes fiscales para el tipo de comprobante que corresponde.
// Cantidad, precio y descuento se redondean a la escala con que se persisten,
// así los totales coinciden con los que se recalculan desde las líneas guardadas.
func priceDraft(
	ctx context.Context,
	r repository.Repos,
	rates RateSource,
	issuer IssuerConfig,
	customerID string,
	items []draftItem,
) (*pricedDraft, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: se requiere al menos una línea", domain.ErrInvalidInput)
	}
	customer, err := r.Customers.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, fmt.Errorf("%w: cliente %s", domain.ErrNotFound, customerID)
	}
	if !customer.IsActive {
		return nil, fmt.Errorf("%w: el cliente está dado de baja", domain.ErrInvalidInput)
	}
	invoiceType, err := fiscal.SelectInvoiceType(issuer.IVACondition, customer.IVACondition)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	out := &pricedDraft{Customer: customer, InvoiceType: invoiceType}
	rateCache := map[string]decimal.Decimal{}
	calc := make([]fiscal.Item, 0, len(items))

	for i, it := range items {
		it.Quantity = it.Quantity.Round(quantityScale)
		it.Discount = it.Discount.Round(discountScale)
		if !it.Quantity.IsPositive() {
			return nil, fmt.Errorf("%w: línea %d: la cantidad debe ser mayor a 0", domain.ErrInvalidInput, i+1)
		}
		p, err := r.Products.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, it.ProductID)
		}
		if !p.IsActive {
			return nil, fmt.Errorf("%w: el producto %s está dado de baja", domain.ErrInvalidInput, p.Code)
		}

		price := p.Price
		if it.UnitPrice != nil {
			price = *it.UnitPrice
		} else if p.Currency != "" && p.Currency != entity.CurrencyARS {
			rate, ok := rateCache[p.Currency]
			if !ok {
				rate, err = rates.LatestSellRate(ctx, p.Currency)
				if err != nil {
					return nil, err
				}
				rateCache[p.Currency] = rate
			}
			price = price.Mul(rate)
			if p.Currency == entity.CurrencyUSD {
				out.ExchangeRate = rate
			}
		}

		price = price.Round(priceScale)

		desc := strings.TrimSpace(it.Description)
		if desc == "" {
			desc = p.Name
		}
		out.Lines = append(out.Lines, pricedLine{
			Product:     p,
			Description: desc,
			Quantity:    it.Quantity,
			UnitPrice:   price,
			Discount:    it.Discount,
			TaxCategory: p.TaxCategory,
		})
		calc = append(calc, fiscal.Item{
			Quantity:    it.Quantity,
			UnitPrice:   price,
			Discount:    it.Discount,
			TaxCategory: p.TaxCategory,
		})
	}

	amounts, err := fiscal.ComputeAmounts(calc, invoiceType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	for i := range out.Lines {
		out.Lines[i].Amounts = amounts.Lines[i]
	}
	out.Amounts = amounts
	return out, nil
}

// requiredStock cantidades totales por producto (un producto puede repetirse en varias líneas).
func (d *pricedDraft) requiredStock() map[string]decimal.Decimal {
	need := make(map[string]decimal.Decimal)
	for _, l := range d.Lines {
		need[l.Product.ID] = need[l.Product.ID].Add(l.Quantity)
	}
	return need
}
