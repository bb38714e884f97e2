// Package wxcalc provides common calculations for derived weather parameters.
package wxcalc

import (
	"fmt"
	"math"
	"strings"

	"wxtools/internal/units"
)

// CalcError reports an invalid unit tag or unusable input.
type CalcError struct {
	Msg string
}

func (e *CalcError) Error() string { return e.Msg }

var (
	celsius    = units.MustByLabel("celsius")
	fahrenheit = units.MustByLabel("fahrenheit")
	knot       = units.MustByLabel("knot")
	milePerHr  = units.MustByLabel("mile per hour")
)

// convertTemp converts between the "C" and "F" unit tags. With checked=false
// the tags are trusted, for internal round trips of already validated input.
func convertTemp(temp float64, from, to string, checked bool) (float64, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))
	if checked {
		if from != "C" && from != "F" {
			return 0, &CalcError{Msg: fmt.Sprintf("invalid current unit specified: %q", from)}
		}
		if to != "C" && to != "F" {
			return 0, &CalcError{Msg: fmt.Sprintf("invalid convert to unit specified: %q", to)}
		}
	}
	if from == to {
		return temp, nil
	}
	if from == "F" && to == "C" {
		return units.Convert(temp, fahrenheit, celsius)
	}
	return units.Convert(temp, celsius, fahrenheit)
}

// convertWind converts between the "KTS" and "MPH" unit tags.
func convertWind(speed float64, from, to string, checked bool) (float64, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))
	if checked {
		if from != "KTS" && from != "MPH" {
			return 0, &CalcError{Msg: fmt.Sprintf("invalid current unit specified: %q", from)}
		}
		if to != "KTS" && to != "MPH" {
			return 0, &CalcError{Msg: fmt.Sprintf("invalid convert to unit specified: %q", to)}
		}
	}
	if from == to {
		return speed, nil
	}
	if from == "MPH" && to == "KTS" {
		return units.Convert(speed, milePerHr, knot)
	}
	return units.Convert(speed, knot, milePerHr)
}

func simpleHeatIndex(tempF, rh float64) float64 {
	simple := 0.5 * (tempF + 61.0 + ((tempF - 68.0) * 1.2) + (rh * 0.094))
	return (simple + tempF) / 2
}

func rothfuszHeatIndex(tempF, rh float64) float64 {
	return -42.379 +
		2.04901523*tempF +
		10.14333127*rh -
		0.22475541*tempF*rh -
		0.00683783*tempF*tempF -
		0.05481717*rh*rh +
		0.00122874*tempF*tempF*rh +
		0.00085282*tempF*rh*rh -
		0.00000199*tempF*tempF*rh*rh
}

func adjustHeatIndex(hi, tempF, rh float64) float64 {
	if rh < 13 && tempF >= 80 && tempF <= 112 {
		return hi - ((13-rh)/4)*math.Sqrt((17-math.Abs(tempF-95))/17)
	}
	if rh > 85 && tempF >= 80 && tempF <= 87 {
		return hi + ((rh-85)/10)*((87-tempF)/5)
	}
	return hi
}

// SaturationVaporPressure calculates the saturation vapor pressure of water in
// hPa at the given temperature using the Tetens equation, with the Murray
// coefficients below freezing.
//
// https://en.wikipedia.org/wiki/Tetens_equation
func SaturationVaporPressure(temperature float64, unit string) (float64, error) {
	tempC, err := convertTemp(temperature, unit, "C", true)
	if err != nil {
		return 0, err
	}
	if tempC >= 0 {
		return 6.1078 * math.Exp((17.27*tempC)/(tempC+237.3)), nil
	}
	return 6.1078 * math.Exp((21.875*tempC)/(tempC+265.5)), nil
}

// RelativeHumidity calculates relative humidity from air temperature and dew
// point, both in the same unit ("C" or "F"). Returns a percentage rounded to
// two decimal places.
func RelativeHumidity(temperature, dewPoint float64, unit string) (float64, error) {
	tempC, err := convertTemp(temperature, unit, "C", true)
	if err != nil {
		return 0, err
	}
	dpC, err := convertTemp(dewPoint, unit, "C", true)
	if err != nil {
		return 0, err
	}
	actual, err := SaturationVaporPressure(dpC, "C")
	if err != nil {
		return 0, err
	}
	saturation, err := SaturationVaporPressure(tempC, "C")
	if err != nil {
		return 0, err
	}
	return math.Round(actual/saturation*100*100) / 100, nil
}

// HeatIndex calculates the heat index from air temperature and relative
// humidity. Loses accuracy below 80F and should not be used below 50F.
//
// Uses the simple averaged formula first, escalating to the Rothfusz
// regression with the NWS low and high humidity adjustments when the simple
// result reaches 80F.
// https://www.wpc.ncep.noaa.gov/html/heatindex_equation.shtml
func HeatIndex(temperature, relHumidity float64, unit string) (float64, error) {
	tempF, err := convertTemp(temperature, unit, "F", true)
	if err != nil {
		return 0, err
	}
	hi := simpleHeatIndex(tempF, relHumidity)
	if hi >= 80 {
		hi = rothfuszHeatIndex(tempF, relHumidity)
		hi = adjustHeatIndex(hi, tempF, relHumidity)
	}
	return convertTemp(hi, "F", unit, false)
}

// WindChill calculates wind chill from air temperature and wind speed using
// the NWS/JAG-TI formula. Should not be used above air temperatures of 50F.
//
// https://www.weather.gov/media/lsx/wcm/Winter2008/Wind_Chill.pdf
func WindChill(temperature, windSpeed float64, tempUnit, windUnit string) (float64, error) {
	tempF, err := convertTemp(temperature, tempUnit, "F", true)
	if err != nil {
		return 0, err
	}
	windMPH, err := convertWind(windSpeed, windUnit, "MPH", true)
	if err != nil {
		return 0, err
	}
	chillF := 35.74 +
		0.6215*tempF -
		35.75*math.Pow(windMPH, 0.16) +
		0.4275*tempF*math.Pow(windMPH, 0.16)
	return convertTemp(chillF, "F", tempUnit, false)
}

// WetBulb estimates wet bulb temperature from air temperature and relative
// humidity using the Stull approximation.
//
// https://journals.ametsoc.org/view/journals/apme/50/11/jamc-d-11-0143.1.xml
func WetBulb(temperature, relHumidity float64, unit string) (float64, error) {
	tempC, err := convertTemp(temperature, unit, "C", true)
	if err != nil {
		return 0, err
	}
	wbC := tempC*math.Atan(0.151977*math.Sqrt(relHumidity+8.313659)) +
		math.Atan(tempC+relHumidity) -
		math.Atan(relHumidity-1.676331) +
		0.00391838*math.Pow(relHumidity, 1.5)*math.Atan(0.023101*relHumidity) -
		4.686035
	return convertTemp(wbC, "C", unit, false)
}

// ApparentTemperature estimates apparent temperature from air temperature,
// relative humidity, and wind speed. Ideal for the 50F to 80F range where
// wind chill and heat index lose accuracy.
//
// A simplified formula based on Steadman's original apparent temperature.
func ApparentTemperature(temperature, relHumidity, windSpeed float64, tempUnit, windUnit string) (float64, error) {
	tempF, err := convertTemp(temperature, tempUnit, "F", true)
	if err != nil {
		return 0, err
	}
	windMPH, err := convertWind(windSpeed, windUnit, "MPH", true)
	if err != nil {
		return 0, err
	}
	apparent := tempF + 0.33*relHumidity - 0.7*windMPH - 4
	return convertTemp(apparent, "F", tempUnit, false)
}

// FeelsLike estimates the "feels like" temperature. Below 50F the result is
// wind chill, between 50F and 80F estimated apparent temperature, and at or
// above 80F heat index.
func FeelsLike(temperature, relHumidity, windSpeed float64, tempUnit, windUnit string) (float64, error) {
	tempF, err := convertTemp(temperature, tempUnit, "F", true)
	if err != nil {
		return 0, err
	}
	windMPH, err := convertWind(windSpeed, windUnit, "MPH", true)
	if err != nil {
		return 0, err
	}
	var feelingF float64
	switch {
	case tempF <= 50:
		feelingF, err = WindChill(tempF, windMPH, "F", "MPH")
	case tempF < 80:
		feelingF, err = ApparentTemperature(tempF, relHumidity, windMPH, "F", "MPH")
	default:
		feelingF, err = HeatIndex(tempF, relHumidity, "F")
	}
	if err != nil {
		return 0, err
	}
	return convertTemp(feelingF, "F", tempUnit, false)
}
