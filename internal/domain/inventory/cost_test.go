package inventory

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestWeightedAverageCost(t *testing.T) {
	// 10 u. a $100 + 10 u. a $200 → $150
	assert.True(t, d("150").Equal(WeightedAverageCost(d("10"), d("100"), d("10"), d("200"))))
	// 3 u. a $10 + 1 u. a $20 → 12,5
	assert.True(t, d("12.5").Equal(WeightedAverageCost(d("3"), d("10"), d("1"), d("20"))))
}

func TestWeightedAverageCost_SinStockPrevio(t *testing.T) {
	assert.True(t, d("80").Equal(WeightedAverageCost(decimal.Zero, d("50"), d("5"), d("80"))))
	assert.True(t, d("80").Equal(WeightedAverageCost(d("-2"), d("50"), d("5"), d("80"))))
	assert.True(t, d("80").Equal(WeightedAverageCost(decimal.Zero, decimal.Zero, decimal.Zero, d("80"))))
}

func TestWeightedAverageCost_Redondeo(t *testing.T) {
	// (1·1 + 2·2) / 3 = 1,6666… → 1,67
	assert.True(t, d("1.67").Equal(WeightedAverageCost(d("1"), d("1"), d("2"), d("2"))))
	// (7·10,10 + 3·10,15) / 10 = 10,115 → 10,12
	assert.True(t, d("10.12").Equal(WeightedAverageCost(d("7"), d("10.10"), d("3"), d("10.15"))))
}
