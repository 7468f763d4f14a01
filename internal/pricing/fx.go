package pricing

import (
	"fmt"
	"time"
)

// ResolveExchangeRate picks the rate effective on or before date from a
// tenant's rate history. Pure function: no side effects, deterministic for
// identical inputs. Selection is max rate_date, then highest id, so two
// rows recorded the same day resolve to the later insert.
func ResolveExchangeRate(rates []ExchangeRate, date time.Time) (ExchangeRate, error) {
	if len(rates) == 0 {
		return ExchangeRate{}, ErrNoRatesAvailable
	}

	ref := DateOnly(date)
	var best *ExchangeRate
	for i := range rates {
		candidate := &rates[i]
		if DateOnly(candidate.RateDate).After(ref) {
			continue
		}
		if best == nil || laterRate(*candidate, *best) {
			best = candidate
		}
	}
	if best == nil {
		return ExchangeRate{}, fmt.Errorf("%w: %s", ErrNoRateOnOrBefore, ref.Format("2006-01-02"))
	}
	if !best.Rate.IsPositive() {
		return ExchangeRate{}, fmt.Errorf("%w: exchange rate id=%d value=%s", ErrInvalidRate, best.ID, best.Rate)
	}
	return *best, nil
}

func laterRate(a, b ExchangeRate) bool {
	ad, bd := DateOnly(a.RateDate), DateOnly(b.RateDate)
	if !ad.Equal(bd) {
		return ad.After(bd)
	}
	return a.ID > b.ID
}
