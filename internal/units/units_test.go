package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByLabel(t *testing.T) {
	t.Parallel()

	u, err := ByLabel("Fahrenheit")
	require.NoError(t, err)
	assert.Equal(t, Temperature, u.Kind)
	assert.Equal(t, "°F", u.Symbol)
	assert.Equal(t, "[degF]", u.UCUM)

	_, err = ByLabel("cubit")
	var unknown *UnknownUnitError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "cubit", unknown.Code)
}

func TestByUCUM(t *testing.T) {
	t.Parallel()

	u, err := ByUCUM("Cel")
	require.NoError(t, err)
	assert.Equal(t, "celsius", u.Label)

	// UCUM codes are case sensitive.
	_, err = ByUCUM("cel")
	assert.Error(t, err)
}

func TestByWMO(t *testing.T) {
	t.Parallel()

	u, err := ByWMO("kt")
	require.NoError(t, err)
	assert.Equal(t, "knot", u.Label)
	assert.Equal(t, Velocity, u.Kind)
}

func TestByNamespace(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code  string
		label string
	}{
		{"wmoUnit:degC", "celsius"},
		{"wmo:degC", "celsius"},
		{"uc:Cel", "celsius"},
		{"[degF]", "fahrenheit"},
		{"uc:[kn_i]", "knot"},
	}
	for _, tc := range tests {
		u, err := ByNamespace(tc.code)
		require.NoError(t, err, tc.code)
		assert.Equal(t, tc.label, u.Label, tc.code)
	}

	_, err := ByNamespace("qudt:degC")
	assert.Error(t, err)
}

func TestConvert_temperature(t *testing.T) {
	t.Parallel()

	celsius := MustByLabel("celsius")
	fahrenheit := MustByLabel("fahrenheit")
	kelvin := MustByLabel("kelvin")
	rankine := MustByLabel("rankine")

	tests := []struct {
		name  string
		value float64
		from  Unit
		to    Unit
		want  float64
	}{
		{"freezing C to F", 0, celsius, fahrenheit, 32},
		{"boiling C to F", 100, celsius, fahrenheit, 212},
		{"body temp F to C", 98.6, fahrenheit, celsius, 37},
		{"freezing F to K", 32, fahrenheit, kelvin, 273.15},
		{"absolute zero K to C", 0, kelvin, celsius, -273.15},
		{"freezing C to R", 0, celsius, rankine, 491.67},
		{"zero R to K", 0, rankine, kelvin, 0},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := Convert(tc.value, tc.from, tc.to)
			require.NoError(t, err)
			assert.InDelta(t, tc.want, got, 0.01)
		})
	}
}

func TestConvert_temperatureRoundTrip(t *testing.T) {
	t.Parallel()

	labels := []string{"celsius", "fahrenheit", "kelvin", "rankine"}
	for _, from := range labels {
		for _, to := range labels {
			fromUnit := MustByLabel(from)
			toUnit := MustByLabel(to)
			there, err := Convert(25.0, fromUnit, toUnit)
			require.NoError(t, err)
			back, err := Convert(there, toUnit, fromUnit)
			require.NoError(t, err)
			assert.InDelta(t, 25.0, back, 1e-6, "%s -> %s -> %s", from, to, from)
		}
	}
}

func TestConvert_linearKinds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value float64
		from  string
		to    string
		want  float64
	}{
		{"knots to mph", 10, "knot", "mile per hour", 11.5078},
		{"statute miles to meters", 1, "international mile", "meter", 1609.344},
		{"feet to meters", 100, "foot", "meter", 30.48},
		{"inHg to hPa", 29.92, "inch of mercury", "hectopascal", 1013.21},
		{"hPa to mbar", 1013.25, "hectopascal", "millibar", 1013.25},
		{"degrees to radians", 180, "degree", "radian", 3.14159},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := Convert(tc.value, MustByLabel(tc.from), MustByLabel(tc.to))
			require.NoError(t, err)
			assert.InDelta(t, tc.want, got, 0.01)
		})
	}
}

func TestConvert_identity(t *testing.T) {
	t.Parallel()

	for _, label := range []string{"celsius", "fahrenheit", "knot", "meter", "hectopascal"} {
		u := MustByLabel(label)
		got, err := Convert(42.0, u, u)
		require.NoError(t, err)
		assert.InDelta(t, 42.0, got, 1e-9, label)
	}
}

func TestConvert_kindMismatch(t *testing.T) {
	t.Parallel()

	_, err := Convert(1.0, MustByLabel("celsius"), MustByLabel("meter"))
	var convErr *ConversionError
	require.ErrorAs(t, err, &convErr)
	assert.Equal(t, Temperature, convErr.From)
	assert.Equal(t, Length, convErr.To)
}

func TestMeasurement_AsUnit(t *testing.T) {
	t.Parallel()

	m := NewMeasurement(0, MustByLabel("celsius"))
	minV, maxV := -5.0, 10.0
	m.Min = &minV
	m.Max = &maxV

	got, err := m.AsUnit(MustByLabel("fahrenheit"))
	require.NoError(t, err)
	require.NotNil(t, got.Value)
	assert.InDelta(t, 32.0, *got.Value, 0.01)
	assert.InDelta(t, 23.0, *got.Min, 0.01)
	assert.InDelta(t, 50.0, *got.Max, 0.01)

	// The receiver is untouched.
	assert.Equal(t, "celsius", m.Unit.Label)
	assert.InDelta(t, 0.0, *m.Value, 1e-9)
}

func TestMeasurement_ConvertTo(t *testing.T) {
	t.Parallel()

	m := NewMeasurement(10, MustByLabel("knot"))
	require.NoError(t, m.ConvertTo(MustByLabel("meter per second")))
	assert.Equal(t, "meter per second", m.Unit.Label)
	assert.InDelta(t, 5.1444, *m.Value, 0.001)
}

func TestMeasurement_missing(t *testing.T) {
	t.Parallel()

	m := MissingMeasurement(MustByLabel("hectopascal"))
	assert.Equal(t, "missing", m.String())

	got, err := m.AsUnit(MustByLabel("inch of mercury"))
	require.NoError(t, err)
	assert.Nil(t, got.Value)
	assert.Equal(t, "inch of mercury", got.Unit.Label)
}

func TestParseQualityControl(t *testing.T) {
	t.Parallel()

	qc, err := ParseQualityControl("V")
	require.NoError(t, err)
	assert.Equal(t, "Verified, passed levels 1, 2, and 3", qc.Description)

	_, err = ParseQualityControl("?")
	assert.Error(t, err)
}
