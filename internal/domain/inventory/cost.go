// Package inventory servicios de dominio sobre el stock de productos.
package inventory

import "github.com/shopspring/decimal"

// WeightedAverageCost costo promedio ponderado tras una entrada de mercadería:
//
//	(stock·costo + entrada·costoEntrada) / (stock + entrada)
//
// Con stock resultante <= 0 devuelve el costo de la entrada. Se redondea a centavos (products.cost).
func WeightedAverageCost(stock, cost, incoming, incomingCost decimal.Decimal) decimal.Decimal {
	if stock.IsNegative() {
		stock = decimal.Zero
	}
	total := stock.Add(incoming)
	if total.LessThanOrEqual(decimal.Zero) {
		return incomingCost
	}
	return stock.Mul(cost).Add(incoming.Mul(incomingCost)).Div(total).Round(2)
}
