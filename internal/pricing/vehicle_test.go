package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func standardVehicleRate() VehicleRate {
	return VehicleRate{
		DailyRate:       dec("3200"),
		HourlyRate:      dec("450"),
		MinHours:        4,
		DailyKmIncluded: 250,
		ExtraKm:         dec("8"),
		DriverDaily:     dec("1500"),
		OneWayFee:       dec("2000"),
		Deposit:         dec("10000"),
	}
}

func TestVehicleCostDailyWithKmOverage(t *testing.T) {
	total, _, err := VehicleCost(standardVehicleRate(), TripParams{Days: 3, Distance: 800})
	require.NoError(t, err)
	// 3*3200 + (800-750)*8
	assert.True(t, dec("10000").Equal(total), "got %s", total)
}

func TestVehicleCostDailyWithDriverAndOneWay(t *testing.T) {
	total, _, err := VehicleCost(standardVehicleRate(), TripParams{Days: 2, WithDriver: true, OneWay: true})
	require.NoError(t, err)
	// 2*3200 + 2*1500 + 2000
	assert.True(t, dec("11400").Equal(total), "got %s", total)
}

func TestVehicleCostHourlyFlooredByMinHours(t *testing.T) {
	total, _, err := VehicleCost(standardVehicleRate(), TripParams{Hours: 2})
	require.NoError(t, err)
	// billed at MinHours=4
	assert.True(t, dec("1800").Equal(total), "got %s", total)

	total, _, err = VehicleCost(standardVehicleRate(), TripParams{Hours: 6})
	require.NoError(t, err)
	assert.True(t, dec("2700").Equal(total), "got %s", total)
}

func TestVehicleCostDepositIsRefundableLineOnly(t *testing.T) {
	total, breakdown, err := VehicleCost(standardVehicleRate(), TripParams{Days: 1})
	require.NoError(t, err)
	assert.True(t, dec("3200").Equal(total), "got %s", total)

	var deposit *BreakdownLine
	for i := range breakdown {
		if breakdown[i].Refundable {
			deposit = &breakdown[i]
		}
	}
	require.NotNil(t, deposit)
	assert.True(t, dec("10000").Equal(deposit.Amount))
}

func TestVehicleCostModesAreExclusive(t *testing.T) {
	_, _, err := VehicleCost(standardVehicleRate(), TripParams{Days: 1, Hours: 4})
	assert.ErrorIs(t, err, ErrInvalidParams)

	_, _, err = VehicleCost(standardVehicleRate(), TripParams{})
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestVehicleCostHourlyModeIgnoresDriverFee(t *testing.T) {
	total, _, err := VehicleCost(standardVehicleRate(), TripParams{Hours: 4, WithDriver: true})
	require.NoError(t, err)
	assert.True(t, dec("1800").Equal(total), "got %s", total)
}
