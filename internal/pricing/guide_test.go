package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func standardGuideRate() GuideRate {
	return GuideRate{
		DayCost:             dec("4500"),
		HalfDayCost:         dec("2800"),
		HourCost:            dec("700"),
		MinHours:            2,
		OvertimeHour:        dec("900"),
		DayEquivalentHours:  8,
		HolidaySurchargePct: dec("50"),
	}
}

func TestGuideCostFullDays(t *testing.T) {
	total, _, err := GuideCost(standardGuideRate(), TripParams{Days: 2})
	require.NoError(t, err)
	assert.True(t, dec("9000").Equal(total), "got %s", total)
}

func TestGuideCostHalfDay(t *testing.T) {
	total, _, err := GuideCost(standardGuideRate(), TripParams{Days: 1, HalfDay: true})
	require.NoError(t, err)
	assert.True(t, dec("2800").Equal(total), "got %s", total)
}

func TestGuideCostHourlyFlooredByMinHours(t *testing.T) {
	total, _, err := GuideCost(standardGuideRate(), TripParams{Hours: 1})
	require.NoError(t, err)
	assert.True(t, dec("1400").Equal(total), "got %s", total)
}

func TestGuideCostOvertimeBeyondDayEquivalent(t *testing.T) {
	total, breakdown, err := GuideCost(standardGuideRate(), TripParams{Hours: 10})
	require.NoError(t, err)
	// 8*700 + 2*900
	assert.True(t, dec("7400").Equal(total), "got %s", total)
	require.Len(t, breakdown, 2)
}

func TestGuideCostHolidaySurcharge(t *testing.T) {
	total, _, err := GuideCost(standardGuideRate(), TripParams{Days: 1, IsHoliday: true})
	require.NoError(t, err)
	assert.True(t, dec("6750").Equal(total), "got %s", total)
}

func TestGuideCostModesAreExclusive(t *testing.T) {
	_, _, err := GuideCost(standardGuideRate(), TripParams{Days: 1, Hours: 3})
	assert.ErrorIs(t, err, ErrInvalidParams)

	_, _, err = GuideCost(standardGuideRate(), TripParams{})
	assert.ErrorIs(t, err, ErrInvalidParams)
}
