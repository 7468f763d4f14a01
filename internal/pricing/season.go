package pricing

import (
	"fmt"
	"time"
)

// PickSeasonalRate selects the single applicable rate among active rates
// for one offering. A rate is a candidate when its inclusive season window
// contains date. Overlapping windows are legal in historical data, so the
// selection applies a deterministic tie-break rather than erroring:
// narrowest window first, then highest id, favouring specific and recent
// pricing over broad defaults.
func PickSeasonalRate(rates []SeasonalRate, date time.Time) (SeasonalRate, error) {
	var best *SeasonalRate
	for i := range rates {
		candidate := &rates[i]
		if !candidate.IsActive || !candidate.Covers(date) {
			continue
		}
		if best == nil || narrowerRate(*candidate, *best) {
			best = candidate
		}
	}
	if best == nil {
		return SeasonalRate{}, fmt.Errorf("%w: date=%s", ErrNoApplicableRate, DateOnly(date).Format("2006-01-02"))
	}
	return *best, nil
}

func narrowerRate(a, b SeasonalRate) bool {
	aw, bw := a.WindowDays(), b.WindowDays()
	if aw != bw {
		return aw < bw
	}
	return a.ID > b.ID
}
