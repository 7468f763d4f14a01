package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/meridian-tours/meridian/internal/money"
)

// ActivityCost prices an activity. PER_PERSON charges adults at the base
// cost and children at the discounted base cost. PER_GROUP checks the
// min/max pax bounds from the activity detail before consulting the tier
// table, then bills everyone at the matched bracket's per-person cost.
func ActivityCost(rate ActivityRate, minPax, maxPax int, p TripParams) (decimal.Decimal, []BreakdownLine, error) {
	if p.Pax <= 0 {
		return decimal.Zero, nil, fmt.Errorf("%w: pax must be positive", ErrInvalidParams)
	}
	children := len(p.Children)
	if children > p.Pax {
		return decimal.Zero, nil, fmt.Errorf("%w: more children than pax", ErrInvalidParams)
	}

	switch rate.PricingModel {
	case PricePerPerson:
		adults := p.Pax - children
		total := rate.BaseCost.Mul(decimal.NewFromInt(int64(adults)))
		breakdown := []BreakdownLine{{
			Label:  fmt.Sprintf("adults: %d x %s", adults, rate.BaseCost),
			Amount: total,
		}}
		if children > 0 {
			childPrice := rate.BaseCost.Mul(decimal.NewFromInt(100).Sub(rate.ChildDiscountPct)).Div(decimal.NewFromInt(100))
			amount := childPrice.Mul(decimal.NewFromInt(int64(children)))
			total = total.Add(amount)
			breakdown = append(breakdown, BreakdownLine{
				Label:  fmt.Sprintf("children: %d x %s (%s%% off)", children, rate.BaseCost, rate.ChildDiscountPct),
				Amount: amount,
			})
		}
		return money.Round2(total), breakdown, nil

	case PricePerGroup:
		if minPax > 0 && p.Pax < minPax {
			return decimal.Zero, nil, fmt.Errorf("%w: pax=%d minPax=%d", ErrBelowMinPax, p.Pax, minPax)
		}
		if maxPax > 0 && p.Pax > maxPax {
			return decimal.Zero, nil, fmt.Errorf("%w: pax=%d maxPax=%d", ErrAbovePaxCapacity, p.Pax, maxPax)
		}
		tier, ok := matchTier(rate.Tiers, p.Pax)
		if !ok {
			return decimal.Zero, nil, fmt.Errorf("%w: pax=%d", ErrPaxOutOfTierRange, p.Pax)
		}
		total := tier.Cost.Mul(decimal.NewFromInt(int64(p.Pax)))
		breakdown := []BreakdownLine{{
			Label:  fmt.Sprintf("group tier %d-%d: %d x %s", tier.MinPax, tier.MaxPax, p.Pax, tier.Cost),
			Amount: total,
		}}
		return money.Round2(total), breakdown, nil

	default:
		return decimal.Zero, nil, fmt.Errorf("%w: unknown pricing model %q", ErrInvalidParams, rate.PricingModel)
	}
}

// matchTier finds the inclusive bracket covering pax.
func matchTier(tiers []ActivityTier, pax int) (ActivityTier, bool) {
	for _, t := range tiers {
		if pax >= t.MinPax && pax <= t.MaxPax {
			return t, true
		}
	}
	return ActivityTier{}, false
}
