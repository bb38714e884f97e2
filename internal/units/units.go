// Package units provides a vocabulary of measurement units and conversions
// between units of the same kind. The vocabulary is loosely based on the QUDT
// unit collection, carrying UCUM and WMO codes where they exist.
package units

import (
	"fmt"
	"strings"
)

// Kind classifies what a unit measures.
type Kind string

const (
	Temperature Kind = "temperature"
	Length      Kind = "length"
	Velocity    Kind = "velocity"
	Pressure    Kind = "pressure"
	Angle       Kind = "angle"
	Number      Kind = "number"
)

// Unit describes a single unit of measure. Factor and Offset relate the unit
// to the base unit of its kind (kelvin, meter, meter per second, pascal,
// radian). Base units carry a factor of 1.
type Unit struct {
	Kind   Kind
	Label  string
	Symbol string
	// UCUM is the standard UCUM code, empty if none exists.
	// See https://ucum.org/ucum.html.
	UCUM string
	// WMO is the standard WMO code, empty if none exists.
	// See http://codes.wmo.int/common/unit.
	WMO    string
	Factor float64
	Offset float64
}

// String returns the capitalized unit label.
func (u Unit) String() string {
	if u.Label == "" {
		return ""
	}
	return strings.ToUpper(u.Label[:1]) + u.Label[1:]
}

// UnknownUnitError is returned by the lookup functions when no unit matches.
type UnknownUnitError struct {
	Code string
}

func (e *UnknownUnitError) Error() string {
	return fmt.Sprintf("unknown unit %q", e.Code)
}

// ConversionError is returned when two units cannot be converted between.
type ConversionError struct {
	From Kind
	To   Kind
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("invalid unit kinds for conversion: from %q to %q", e.From, e.To)
}

var allUnits = []Unit{
	{Kind: Number, Label: "percent", Symbol: "%", WMO: "percent", Factor: 1.0},

	{Kind: Temperature, Label: "fahrenheit", Symbol: "°F", UCUM: "[degF]", Factor: 0.5555555555555556, Offset: 459.669607},
	{Kind: Temperature, Label: "rankine", Symbol: "°R", UCUM: "[degR]", Factor: 0.5555555555555556},
	{Kind: Temperature, Label: "celsius", Symbol: "°C", UCUM: "Cel", WMO: "degC", Factor: 1.0, Offset: 273.15},
	{Kind: Temperature, Label: "kelvin", Symbol: "K", UCUM: "K", WMO: "K", Factor: 1.0},

	{Kind: Length, Label: "millimeter", Symbol: "mm", UCUM: "mm", WMO: "mm", Factor: 0.001},
	{Kind: Length, Label: "centimeter", Symbol: "cm", UCUM: "cm", WMO: "cm", Factor: 0.01},
	{Kind: Length, Label: "inch", Symbol: "in", UCUM: "[in_i]", Factor: 0.0254},
	{Kind: Length, Label: "foot", Symbol: "ft", UCUM: "[ft_i]", WMO: "ft", Factor: 0.3048},
	{Kind: Length, Label: "yard", Symbol: "yd", UCUM: "[yd_i]", Factor: 0.9144},
	{Kind: Length, Label: "meter", Symbol: "m", UCUM: "m", WMO: "m", Factor: 1.0},
	{Kind: Length, Label: "kilometer", Symbol: "km", UCUM: "km", WMO: "km", Factor: 1000.0},
	{Kind: Length, Label: "international mile", Symbol: "mi", UCUM: "[mi_i]", Factor: 1609.344},
	{Kind: Length, Label: "mile us statute", Symbol: "mi", UCUM: "[mi_us]", Factor: 1609.347},
	{Kind: Length, Label: "nautical mile", Symbol: "n mile", UCUM: "[nmi_i]", WMO: "nautical_mile", Factor: 1852.0},

	{Kind: Velocity, Label: "centimeter per second", Symbol: "cm/s", UCUM: "cm.s-1", Factor: 0.01},
	{Kind: Velocity, Label: "foot per minute", Symbol: "ft/min", UCUM: "[ft_i].min-1", Factor: 0.00508},
	{Kind: Velocity, Label: "foot per second", Symbol: "ft/s", UCUM: "[ft_i].s-1", Factor: 0.3048},
	{Kind: Velocity, Label: "kilometer per hour", Symbol: "km/hr", UCUM: "km.h-1", WMO: "km_h-1", Factor: 0.2777777777777778},
	{Kind: Velocity, Label: "knot", Symbol: "kt", UCUM: "[kn_i]", WMO: "kt", Factor: 0.5144444444444445},
	{Kind: Velocity, Label: "meter per second", Symbol: "m/s", UCUM: "m.s-1", Factor: 1.0},
	{Kind: Velocity, Label: "mile per hour", Symbol: "mi/hr", UCUM: "[mi_i].h-1", Factor: 0.44704},
	{Kind: Velocity, Label: "millimeters per hour", Symbol: "mm/h", UCUM: "mm.h-1", WMO: "mm_h-1", Factor: 0.0000002777778},
	{Kind: Velocity, Label: "kilometer per second", Symbol: "km/s", UCUM: "km.s-1", Factor: 1000.0},

	{Kind: Pressure, Label: "pascal", Symbol: "Pa", UCUM: "Pa", WMO: "Pa", Factor: 1.0},
	{Kind: Pressure, Label: "decapascal", Symbol: "daPa", UCUM: "daPa", WMO: "daPa", Factor: 10.0},
	{Kind: Pressure, Label: "hectopascal", Symbol: "hPa", UCUM: "hPa", WMO: "hPa", Factor: 100.0},
	{Kind: Pressure, Label: "millibar", Symbol: "mbar", UCUM: "mbar", Factor: 100.0},
	{Kind: Pressure, Label: "kilopascal", Symbol: "kPa", UCUM: "kPa", WMO: "kPa", Factor: 1000.0},
	{Kind: Pressure, Label: "inch of mercury", Symbol: "inHg", UCUM: "[in_i'Hg]", Factor: 3386.389},
	{Kind: Pressure, Label: "millimeter of mercury", Symbol: "mm Hg", UCUM: "mm[Hg]", Factor: 133.322387415},
	{Kind: Pressure, Label: "psi", Symbol: "psi", UCUM: "[psi]", Factor: 6894.75789},
	{Kind: Pressure, Label: "bar", Symbol: "bar", UCUM: "bar", Factor: 100000.0},
	{Kind: Pressure, Label: "standard atmosphere", Symbol: "atm", UCUM: "atm", Factor: 101325.0},

	{Kind: Angle, Label: "radian", Symbol: "rad", UCUM: "rad", WMO: "rad", Factor: 1.0},
	{Kind: Angle, Label: "degree", Symbol: "°", UCUM: "deg", WMO: "degree_(angle)", Factor: 0.0174532925},
	{Kind: Angle, Label: "gon", Symbol: "gon", UCUM: "gon", Factor: 0.015707963267949},
	{Kind: Angle, Label: "revolution", Symbol: "rev", UCUM: "{#}", Factor: 6.28318531},
}

var (
	byLabel = make(map[string]Unit, len(allUnits))
	byUCUM  = make(map[string]Unit, len(allUnits))
	byWMO   = make(map[string]Unit, len(allUnits))
)

func init() {
	for _, u := range allUnits {
		byLabel[u.Label] = u
		if u.UCUM != "" {
			byUCUM[u.UCUM] = u
		}
		if u.WMO != "" {
			byWMO[u.WMO] = u
		}
	}
}

// ByLabel retrieves a unit by its full name, case insensitive.
func ByLabel(label string) (Unit, error) {
	u, ok := byLabel[strings.ToLower(label)]
	if !ok {
		return Unit{}, &UnknownUnitError{Code: label}
	}
	return u, nil
}

// ByUCUM retrieves a unit by its UCUM code. Case sensitive.
func ByUCUM(code string) (Unit, error) {
	u, ok := byUCUM[code]
	if !ok {
		return Unit{}, &UnknownUnitError{Code: code}
	}
	return u, nil
}

// ByWMO retrieves a unit by its WMO code. Case sensitive.
func ByWMO(code string) (Unit, error) {
	u, ok := byWMO[code]
	if !ok {
		return Unit{}, &UnknownUnitError{Code: code}
	}
	return u, nil
}

// ByNamespace retrieves a unit from a namespaced code such as "wmoUnit:degC"
// or "uc:Cel". A bare code with no namespace is treated as UCUM.
func ByNamespace(code string) (Unit, error) {
	ns, rest, found := strings.Cut(code, ":")
	if !found {
		return ByUCUM(code)
	}
	switch ns {
	case "uc":
		return ByUCUM(rest)
	case "wmo", "wmoUnit":
		return ByWMO(rest)
	}
	return Unit{}, &UnknownUnitError{Code: code}
}

// MustByLabel is ByLabel that panics on unknown labels. Intended for
// package-level unit variables with compile-time-known labels.
func MustByLabel(label string) Unit {
	u, err := ByLabel(label)
	if err != nil {
		panic(err)
	}
	return u
}

// Convert converts a value between two units of the same kind.
//
// Temperature scales do not share a zero, so conversion goes through the
// base unit (kelvin) with an offset. Fahrenheit applies its offset before
// scaling; every other temperature unit scales first.
func Convert(value float64, from, to Unit) (float64, error) {
	if from.Kind != to.Kind {
		return 0, &ConversionError{From: from.Kind, To: to.Kind}
	}
	if from.Kind == Temperature {
		var base float64
		if from.Label == "fahrenheit" {
			base = from.Factor * (value + from.Offset)
		} else {
			base = from.Factor*value + from.Offset
		}
		return base/to.Factor - to.Offset, nil
	}
	return from.Factor * value / to.Factor, nil
}
