package wxcalc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaturationVaporPressure(t *testing.T) {
	t.Parallel()

	// Tetens at 0C is the reference constant itself.
	got, err := SaturationVaporPressure(0, "C")
	require.NoError(t, err)
	assert.InDelta(t, 6.1078, got, 0.001)

	// Warm branch.
	got, err = SaturationVaporPressure(25, "C")
	require.NoError(t, err)
	assert.InDelta(t, 31.67, got, 0.1)

	// Sub-freezing branch uses the ice coefficients.
	got, err = SaturationVaporPressure(-10, "C")
	require.NoError(t, err)
	assert.InDelta(t, 2.60, got, 0.05)

	// Fahrenheit input converts before evaluation.
	fromF, err := SaturationVaporPressure(77, "F")
	require.NoError(t, err)
	fromC, err := SaturationVaporPressure(25, "C")
	require.NoError(t, err)
	assert.InDelta(t, fromC, fromF, 0.001)

	_, err = SaturationVaporPressure(25, "K")
	var calcErr *CalcError
	assert.ErrorAs(t, err, &calcErr)
}

func TestRelativeHumidity(t *testing.T) {
	t.Parallel()

	// Dew point equal to temperature is saturation.
	got, err := RelativeHumidity(20, 20, "C")
	require.NoError(t, err)
	assert.InDelta(t, 100.0, got, 0.01)

	got, err = RelativeHumidity(25, 15, "C")
	require.NoError(t, err)
	assert.InDelta(t, 53.8, got, 1.0)

	// Result is rounded to two decimal places.
	got, err = RelativeHumidity(22, 2, "C")
	require.NoError(t, err)
	assert.InDelta(t, got, float64(int(got*100))/100, 0.011)

	_, err = RelativeHumidity(20, 10, "X")
	assert.Error(t, err)
}

func TestHeatIndex(t *testing.T) {
	t.Parallel()

	// Below the 80F threshold the simple averaged formula holds.
	got, err := HeatIndex(70, 50, "F")
	require.NoError(t, err)
	assert.InDelta(t, simpleHeatIndex(70, 50), got, 0.001)

	// NWS published reference point: 90F at 70% RH is roughly 105F.
	got, err = HeatIndex(90, 70, "F")
	require.NoError(t, err)
	assert.InDelta(t, 105.4, got, 1.0)

	// Hot and very dry triggers the low humidity adjustment.
	dry, err := HeatIndex(100, 5, "F")
	require.NoError(t, err)
	unadjusted := rothfuszHeatIndex(100, 5)
	assert.Less(t, dry, unadjusted)

	// Warm and saturated triggers the high humidity adjustment.
	humid, err := HeatIndex(82, 95, "F")
	require.NoError(t, err)
	assert.Greater(t, humid, rothfuszHeatIndex(82, 95))

	// Celsius round trip.
	gotC, err := HeatIndex(32.22, 70, "C")
	require.NoError(t, err)
	assert.InDelta(t, 40.8, gotC, 1.0)

	_, err = HeatIndex(90, 70, "R")
	assert.Error(t, err)
}

func TestHeatIndex_escalationBoundary(t *testing.T) {
	t.Parallel()

	// Just below the point where the simple result reaches 80F the simple
	// formula is returned unchanged.
	for temp := 60.0; temp <= 95.0; temp += 5.0 {
		got, err := HeatIndex(temp, 40, "F")
		require.NoError(t, err)
		if simpleHeatIndex(temp, 40) < 80 {
			assert.InDelta(t, simpleHeatIndex(temp, 40), got, 1e-9)
		}
	}
}

func TestWindChill(t *testing.T) {
	t.Parallel()

	// NWS chart value: 0F at 15 mph is about -19F.
	got, err := WindChill(0, 15, "F", "MPH")
	require.NoError(t, err)
	assert.InDelta(t, -19.0, got, 1.0)

	// Knots convert to mph before evaluation.
	fromKts, err := WindChill(0, 13.03, "F", "KTS")
	require.NoError(t, err)
	assert.InDelta(t, got, fromKts, 0.1)

	_, err = WindChill(0, 15, "F", "MS")
	assert.Error(t, err)
}

func TestWetBulb(t *testing.T) {
	t.Parallel()

	// Stull's published check value: 20C at 50% RH is 13.7C.
	got, err := WetBulb(20, 50, "C")
	require.NoError(t, err)
	assert.InDelta(t, 13.7, got, 0.1)

	// Saturated air has wet bulb near air temperature.
	got, err = WetBulb(25, 100, "C")
	require.NoError(t, err)
	assert.InDelta(t, 25.0, got, 0.5)
}

func TestApparentTemperature(t *testing.T) {
	t.Parallel()

	got, err := ApparentTemperature(70, 50, 10, "F", "MPH")
	require.NoError(t, err)
	assert.InDelta(t, 70+0.33*50-0.7*10-4, got, 1e-9)
}

func TestFeelsLike(t *testing.T) {
	t.Parallel()

	// Cold dispatches to wind chill.
	cold, err := FeelsLike(30, 50, 10, "F", "MPH")
	require.NoError(t, err)
	chill, err := WindChill(30, 10, "F", "MPH")
	require.NoError(t, err)
	assert.InDelta(t, chill, cold, 1e-9)

	// Mild dispatches to apparent temperature.
	mild, err := FeelsLike(65, 50, 10, "F", "MPH")
	require.NoError(t, err)
	apparent, err := ApparentTemperature(65, 50, 10, "F", "MPH")
	require.NoError(t, err)
	assert.InDelta(t, apparent, mild, 1e-9)

	// Hot dispatches to heat index.
	hot, err := FeelsLike(90, 70, 10, "F", "MPH")
	require.NoError(t, err)
	hi, err := HeatIndex(90, 70, "F")
	require.NoError(t, err)
	assert.InDelta(t, hi, hot, 1e-9)
}

func TestUnitTagNormalization(t *testing.T) {
	t.Parallel()

	// Tags are case insensitive and tolerate surrounding whitespace.
	a, err := HeatIndex(90, 70, " f ")
	require.NoError(t, err)
	b, err := HeatIndex(90, 70, "F")
	require.NoError(t, err)
	assert.InDelta(t, b, a, 1e-9)
}
