package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/gestion-comercial-api/pkg/money"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "1.234,56", money.Format(decimal.RequireFromString("1234.555")))
	assert.Equal(t, "0,00", money.Format(decimal.Zero))
	assert.Equal(t, "$ 2.420,00", money.ARS(decimal.NewFromInt(2420)))
	assert.Equal(t, "US$ 10,00", money.Currency("USD", decimal.NewFromInt(10)))
}

func TestQuantity(t *testing.T) {
	assert.Equal(t, "12", money.Quantity(decimal.NewFromInt(12)))
	assert.Equal(t, "1,500", money.Quantity(decimal.RequireFromString("1.5")))
}
