package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/meridian-tours/meridian/internal/money"
)

// TransferCost prices a transfer: base cost plus distance and hour overage
// beyond the included allowances, then night and holiday surcharges applied
// multiplicatively in that fixed order so results stay reproducible.
func TransferCost(rate TransferRate, p TripParams) (decimal.Decimal, []BreakdownLine, error) {
	if p.Distance < 0 || p.Hours < 0 {
		return decimal.Zero, nil, fmt.Errorf("%w: distance and hours must not be negative", ErrInvalidParams)
	}

	total := rate.BaseCost
	breakdown := []BreakdownLine{{Label: "base cost", Amount: rate.BaseCost}}

	if extraKm := p.Distance - rate.IncludedKm; extraKm > 0 {
		amount := rate.ExtraKm.Mul(decimal.NewFromInt(int64(extraKm)))
		total = total.Add(amount)
		breakdown = append(breakdown, BreakdownLine{
			Label:  fmt.Sprintf("extra distance: %d km x %s", extraKm, rate.ExtraKm),
			Amount: amount,
		})
	}
	if extraHours := p.Hours - rate.IncludedHours; extraHours > 0 {
		amount := rate.ExtraHour.Mul(decimal.NewFromInt(int64(extraHours)))
		total = total.Add(amount)
		breakdown = append(breakdown, BreakdownLine{
			Label:  fmt.Sprintf("extra time: %d h x %s", extraHours, rate.ExtraHour),
			Amount: amount,
		})
	}

	// Night first, holiday second.
	if p.IsNight && rate.NightSurchargePct.IsPositive() {
		surcharged := money.ApplyPercent(total, rate.NightSurchargePct)
		breakdown = append(breakdown, BreakdownLine{
			Label:  fmt.Sprintf("night surcharge %s%%", rate.NightSurchargePct),
			Amount: surcharged.Sub(total),
		})
		total = surcharged
	}
	if p.IsHoliday && rate.HolidaySurchargePct.IsPositive() {
		surcharged := money.ApplyPercent(total, rate.HolidaySurchargePct)
		breakdown = append(breakdown, BreakdownLine{
			Label:  fmt.Sprintf("holiday surcharge %s%%", rate.HolidaySurchargePct),
			Amount: surcharged.Sub(total),
		})
		total = surcharged
	}

	return money.Round2(total), breakdown, nil
}
