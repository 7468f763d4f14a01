package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/meridian-tours/meridian/internal/money"
)

// VehicleCost prices vehicle hire in exactly one billing mode: daily (days
// plus km overage beyond days x included km) or hourly (billable hours at
// the hourly rate, floored by the minimum). The two modes never combine in
// one quote. The deposit is refundable and appears only as a flagged
// breakdown line, never in the chargeable total.
func VehicleCost(rate VehicleRate, p TripParams) (decimal.Decimal, []BreakdownLine, error) {
	if p.Days > 0 && p.Hours > 0 {
		return decimal.Zero, nil, fmt.Errorf("%w: daily and hourly billing cannot be combined", ErrInvalidParams)
	}
	if p.Days <= 0 && p.Hours <= 0 {
		return decimal.Zero, nil, fmt.Errorf("%w: days or hours required", ErrInvalidParams)
	}
	if p.Distance < 0 {
		return decimal.Zero, nil, fmt.Errorf("%w: distance must not be negative", ErrInvalidParams)
	}

	var total decimal.Decimal
	var breakdown []BreakdownLine

	if p.Days > 0 {
		days := decimal.NewFromInt(int64(p.Days))
		total = rate.DailyRate.Mul(days)
		breakdown = append(breakdown, BreakdownLine{
			Label:  fmt.Sprintf("rental: %d day(s) x %s", p.Days, rate.DailyRate),
			Amount: total,
		})
		if extraKm := p.Distance - p.Days*rate.DailyKmIncluded; extraKm > 0 {
			amount := rate.ExtraKm.Mul(decimal.NewFromInt(int64(extraKm)))
			total = total.Add(amount)
			breakdown = append(breakdown, BreakdownLine{
				Label:  fmt.Sprintf("extra distance: %d km x %s", extraKm, rate.ExtraKm),
				Amount: amount,
			})
		}
		if p.WithDriver {
			amount := rate.DriverDaily.Mul(days)
			total = total.Add(amount)
			breakdown = append(breakdown, BreakdownLine{
				Label:  fmt.Sprintf("driver: %d day(s) x %s", p.Days, rate.DriverDaily),
				Amount: amount,
			})
		}
	} else {
		billable := p.Hours
		if billable < rate.MinHours {
			billable = rate.MinHours
		}
		total = rate.HourlyRate.Mul(decimal.NewFromInt(int64(billable)))
		breakdown = append(breakdown, BreakdownLine{
			Label:  fmt.Sprintf("rental: %d h x %s", billable, rate.HourlyRate),
			Amount: total,
		})
	}

	if p.OneWay && rate.OneWayFee.IsPositive() {
		total = total.Add(rate.OneWayFee)
		breakdown = append(breakdown, BreakdownLine{Label: "one-way fee", Amount: rate.OneWayFee})
	}

	if rate.Deposit.IsPositive() {
		breakdown = append(breakdown, BreakdownLine{
			Label:      "refundable deposit",
			Amount:     rate.Deposit,
			Refundable: true,
		})
	}

	return money.Round2(total), breakdown, nil
}
