package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/meridian-tours/meridian/internal/money"
)

// GuideCost prices guide services by day or by hour, never both. Hourly
// engagements are floored by the minimum and billed at the overtime rate
// beyond a full day's equivalent. The holiday surcharge is multiplicative.
func GuideCost(rate GuideRate, p TripParams) (decimal.Decimal, []BreakdownLine, error) {
	if p.Days > 0 && p.Hours > 0 {
		return decimal.Zero, nil, fmt.Errorf("%w: day and hourly billing cannot be combined", ErrInvalidParams)
	}
	if p.Days <= 0 && p.Hours <= 0 {
		return decimal.Zero, nil, fmt.Errorf("%w: days or hours required", ErrInvalidParams)
	}

	var total decimal.Decimal
	var breakdown []BreakdownLine

	if p.Days > 0 {
		unit := rate.DayCost
		label := "full day"
		if p.HalfDay {
			unit = rate.HalfDayCost
			label = "half day"
		}
		total = unit.Mul(decimal.NewFromInt(int64(p.Days)))
		breakdown = append(breakdown, BreakdownLine{
			Label:  fmt.Sprintf("guide: %d x %s (%s)", p.Days, unit, label),
			Amount: total,
		})
	} else {
		billable := p.Hours
		if billable < rate.MinHours {
			billable = rate.MinHours
		}
		regular := billable
		overtime := 0
		if rate.DayEquivalentHours > 0 && billable > rate.DayEquivalentHours {
			regular = rate.DayEquivalentHours
			overtime = billable - rate.DayEquivalentHours
		}
		total = rate.HourCost.Mul(decimal.NewFromInt(int64(regular)))
		breakdown = append(breakdown, BreakdownLine{
			Label:  fmt.Sprintf("guide: %d h x %s", regular, rate.HourCost),
			Amount: total,
		})
		if overtime > 0 {
			amount := rate.OvertimeHour.Mul(decimal.NewFromInt(int64(overtime)))
			total = total.Add(amount)
			breakdown = append(breakdown, BreakdownLine{
				Label:  fmt.Sprintf("overtime: %d h x %s", overtime, rate.OvertimeHour),
				Amount: amount,
			})
		}
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
