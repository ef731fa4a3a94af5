// Package money formatea importes y cantidades con las convenciones de Argentina (es-AR).
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.MustParse("es-AR"))

// Format importe con separador de miles y dos decimales: 1.234,56.
func Format(d decimal.Decimal) string {
	return printer.Sprintf("%.2f", d.Round(2).InexactFloat64())
}

// ARS importe en pesos: $ 1.234,56.
func ARS(d decimal.Decimal) string {
	return "$ " + Format(d)
}

// Currency antepone el símbolo de la moneda (ARS, USD, EUR).
func Currency(code string, d decimal.Decimal) string {
	switch code {
	case "USD":
		return "US$ " + Format(d)
	case "EUR":
		return "€ " + Format(d)
	default:
		return ARS(d)
	}
}

// Quantity cantidad sin decimales si es entera; hasta tres si no.
func Quantity(d decimal.Decimal) string {
	if d.Equal(d.Truncate(0)) {
		return printer.Sprintf("%d", d.IntPart())
	}
	return printer.Sprintf("%.3f", d.Round(3).InexactFloat64())
}
