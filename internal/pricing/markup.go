package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/meridian-tours/meridian/internal/money"
)

var hundred = decimal.NewFromInt(100)

// SellPrice converts a cost in the source currency into the sell currency
// after applying the markup percentage:
//
//	sell = round2(cost * (1 + markup/100) / rate)
func SellPrice(cost, markupPct, rate decimal.Decimal) decimal.Decimal {
	return money.Round2(cost.Mul(hundred.Add(markupPct)).Div(hundred).Div(rate))
}

// CostFromPrice is the inverse of SellPrice, used to reconstruct the
// source-currency cost from a sell price. Round-trips within one cent of
// rounding error.
func CostFromPrice(price, markupPct, rate decimal.Decimal) decimal.Decimal {
	return money.Round2(price.Mul(rate).Mul(hundred).Div(hundred.Add(markupPct)))
}

// MarginPct computes the share of the sell price that is profit after
// converting the cost into the sell currency. Zero when the sell price is
// zero.
func MarginPct(sellPrice, cost, rate decimal.Decimal) decimal.Decimal {
	if sellPrice.IsZero() {
		return decimal.Zero
	}
	costInSell := cost.Div(rate)
	return money.Round2(sellPrice.Sub(costInSell).Div(sellPrice).Mul(hundred))
}
