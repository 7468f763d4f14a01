package pricing

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSellPrice(t *testing.T) {
	// 9000 TRY at 25% markup over 35.5 TRY/EUR.
	got := SellPrice(dec("9000"), dec("25"), dec("35.5"))
	assert.True(t, dec("316.90").Equal(got), "got %s", got)
}

func TestSellPriceZeroMarkup(t *testing.T) {
	got := SellPrice(dec("3550"), dec("0"), dec("35.5"))
	assert.True(t, dec("100").Equal(got), "got %s", got)
}

func TestSellPriceRoundsHalfUp(t *testing.T) {
	// 100.005 rounds up to 100.01.
	got := SellPrice(dec("100.005"), dec("0"), dec("1"))
	assert.True(t, dec("100.01").Equal(got), "got %s", got)
}

func TestCostFromPriceRoundTripsWithinOneCent(t *testing.T) {
	cases := []struct {
		cost   string
		markup string
		rate   string
	}{
		{"9000", "25", "35.5"},
		{"2500", "10", "35.5"},
		{"1234.56", "17.5", "32.41"},
		{"100000", "40", "36.01"},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%s@%s", tc.cost, tc.markup), func(t *testing.T) {
			sell := SellPrice(dec(tc.cost), dec(tc.markup), dec(tc.rate))
			back := CostFromPrice(sell, dec(tc.markup), dec(tc.rate))
			diff := back.Sub(dec(tc.cost)).Abs()
			// One cent of sell-price rounding is worth up to one rate's
			// worth of cost currency.
			limit := dec(tc.rate).Mul(decimal.NewFromFloat(0.01))
			assert.True(t, diff.LessThanOrEqual(limit), "cost %s came back as %s", tc.cost, back)
		})
	}
}

func TestMarginPct(t *testing.T) {
	// sell 316.90, cost 9000 at 35.5: cost in EUR 253.52..., margin = 20%.
	got := MarginPct(dec("316.90"), dec("9000"), dec("35.5"))
	assert.True(t, dec("20").Equal(got), "got %s", got)
}

func TestMarginPctZeroSellPrice(t *testing.T) {
	got := MarginPct(decimal.Zero, dec("9000"), dec("35.5"))
	assert.True(t, got.IsZero())
}
