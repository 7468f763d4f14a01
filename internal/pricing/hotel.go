package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/meridian-tours/meridian/internal/money"
)

// Child age bands for hotel pricing. Ages of 12 and above count as adults.
const (
	childBandInfantMax = 2
	childBandYoungMax  = 5
	childBandOlderMax  = 11
)

// HotelCost prices a hotel stay. Occupancy uses the per-person double rate
// for one or two adults and the per-person triple rate from three adults
// up. Single occupancy adds the supplement per night (the rate defines the
// field per night). Children are priced per night by age band. minStay
// comes from the room's detail record.
func HotelCost(rate HotelRate, minStay int, p TripParams) (decimal.Decimal, []BreakdownLine, error) {
	if p.Nights <= 0 {
		return decimal.Zero, nil, fmt.Errorf("%w: nights must be positive", ErrInvalidParams)
	}
	if p.Pax <= 0 {
		return decimal.Zero, nil, fmt.Errorf("%w: pax must be positive", ErrInvalidParams)
	}
	if len(p.Children) > p.Pax {
		return decimal.Zero, nil, fmt.Errorf("%w: more children than pax", ErrInvalidParams)
	}
	if minStay > 0 && p.Nights < minStay {
		return decimal.Zero, nil, fmt.Errorf("%w: nights=%d minStay=%d", ErrBelowMinStay, p.Nights, minStay)
	}

	adults := p.Pax - len(p.Children)
	var childAges []int
	for _, age := range p.Children {
		if age < 0 {
			return decimal.Zero, nil, fmt.Errorf("%w: negative child age", ErrInvalidParams)
		}
		if age > childBandOlderMax {
			adults++
			continue
		}
		childAges = append(childAges, age)
	}
	if adults <= 0 {
		return decimal.Zero, nil, fmt.Errorf("%w: at least one adult required", ErrInvalidParams)
	}

	nights := decimal.NewFromInt(int64(p.Nights))
	perPerson := rate.PerPersonDouble
	if adults >= 3 {
		perPerson = rate.PerPersonTriple
	}

	roomPerNight := perPerson.Mul(decimal.NewFromInt(int64(adults)))
	total := roomPerNight.Mul(nights)
	breakdown := []BreakdownLine{{
		Label:  fmt.Sprintf("room: %d adult(s) x %s x %d night(s)", adults, perPerson, p.Nights),
		Amount: total,
	}}

	if adults == 1 {
		supplement := rate.SingleSupplement.Mul(nights)
		total = total.Add(supplement)
		breakdown = append(breakdown, BreakdownLine{
			Label:  fmt.Sprintf("single supplement: %s x %d night(s)", rate.SingleSupplement, p.Nights),
			Amount: supplement,
		})
	}

	for _, age := range childAges {
		price := childNightPrice(rate, age)
		amount := price.Mul(nights)
		total = total.Add(amount)
		breakdown = append(breakdown, BreakdownLine{
			Label:  fmt.Sprintf("child age %d: %s x %d night(s)", age, price, p.Nights),
			Amount: amount,
		})
	}

	return money.Round2(total), breakdown, nil
}

func childNightPrice(rate HotelRate, age int) decimal.Decimal {
	switch {
	case age <= childBandInfantMax:
		return rate.Child0to2
	case age <= childBandYoungMax:
		return rate.Child3to5
	default:
		return rate.Child6to11
	}
}
