package metar

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"wxtools/internal/units"
)

var (
	windRegex    = regexp.MustCompile(`^(VRB|\d{3})(\d{2,3})(G(\d{2,3}))?KT$`)
	windVarRegex = regexp.MustCompile(`^(\d{3})V(\d{3})$`)
)

// CardinalStyle selects the rendering of a cardinal direction.
type CardinalStyle string

const (
	StyleShort    CardinalStyle = "short"
	StyleLong     CardinalStyle = "long"
	StyleArrow    CardinalStyle = "arrow"
	StyleArrowDir CardinalStyle = "arrowdir"
	StyleDegrees  CardinalStyle = "degrees"
)

var cardinalShort = [16]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

var cardinalLong = [16]string{
	"North", "North-Northeast", "Northeast", "East-Northeast",
	"East", "East-Southeast", "Southeast", "South-Southeast",
	"South", "South-Southwest", "Southwest", "West-Southwest",
	"West", "West-Northwest", "Northwest", "North-Northwest",
}

// Arrows point where the wind blows toward, not where it comes from.
var cardinalArrow = [16]string{
	"⬇", "⬇", "⬋", "⬅", "⬅", "⬅", "⬉", "⬆",
	"⬆", "⬆", "⬈", "➡", "➡", "➡", "⬊", "⬇",
}

// CardinalDirection renders a wind direction in degrees as one of 16 compass
// sectors of 22.5 degrees each, in the requested style. Sector 0 is North.
func CardinalDirection(degrees float64, style CardinalStyle) string {
	idx := int(math.Round(degrees/22.5)) % 16
	switch style {
	case StyleLong:
		return cardinalLong[idx]
	case StyleArrow:
		return cardinalArrow[idx]
	case StyleArrowDir:
		return fmt.Sprintf("%s  (%.0f°)", cardinalArrow[idx], degrees)
	case StyleDegrees:
		return fmt.Sprintf("%.0f°", degrees)
	}
	return cardinalShort[idx]
}

// Wind is the decoded wind group of an observation. Direction is nil for calm
// or variable light wind. Speed and gust share a current unit that conversion
// methods act on.
type Wind struct {
	Speed              float64
	Gust               *float64
	Direction          *float64
	VariableDirections *[2]float64
	Unit               units.Unit

	// Low variable wind, VRB at under 7 knots.
	IsLowVariable bool
}

// DecodeWind decodes a wind group such as "27015G25KT" or
// "24015KT 210V270". An empty group decodes as calm.
func DecodeWind(group string) (*Wind, error) {
	w := &Wind{Unit: units.MustByLabel("knot")}
	group = strings.ToUpper(strings.TrimSpace(group))
	if group == "" {
		return w, nil
	}

	main, variable, hasVariable := strings.Cut(group, " ")
	matches := windRegex.FindStringSubmatch(main)
	if matches == nil {
		return nil, &DecodeError{Group: "wind", Raw: group, Msg: "does not match the wind group format"}
	}

	speed, err := strconv.ParseFloat(matches[2], 64)
	if err != nil {
		return nil, &DecodeError{Group: "wind", Raw: group, Msg: "unparsable speed"}
	}
	w.Speed = speed

	if matches[1] == "VRB" {
		w.IsLowVariable = true
	} else {
		dir, err := strconv.ParseFloat(matches[1], 64)
		if err != nil {
			return nil, &DecodeError{Group: "wind", Raw: group, Msg: "unparsable direction"}
		}
		if w.Speed != 0 || matches[4] != "" {
			w.Direction = &dir
		}
	}

	if matches[4] != "" {
		gust, err := strconv.ParseFloat(matches[4], 64)
		if err != nil {
			return nil, &DecodeError{Group: "wind", Raw: group, Msg: "unparsable gust"}
		}
		w.Gust = &gust
	}

	if hasVariable {
		varMatches := windVarRegex.FindStringSubmatch(variable)
		if varMatches == nil {
			return nil, &DecodeError{Group: "wind", Raw: group, Msg: "invalid variable direction group"}
		}
		from, _ := strconv.ParseFloat(varMatches[1], 64)
		to, _ := strconv.ParseFloat(varMatches[2], 64)
		w.VariableDirections = &[2]float64{from, to}
	}
	return w, nil
}

// AsUnit returns a copy of the wind with speed and gust converted to the
// given velocity unit. The receiver is unchanged.
func (w *Wind) AsUnit(to units.Unit) (*Wind, error) {
	out := *w
	speed, err := units.Convert(w.Speed, w.Unit, to)
	if err != nil {
		return nil, err
	}
	out.Speed = speed
	if w.Gust != nil {
		gust, err := units.Convert(*w.Gust, w.Unit, to)
		if err != nil {
			return nil, err
		}
		out.Gust = &gust
	}
	out.Unit = to
	return &out, nil
}

// ConvertTo converts the wind in place to the given velocity unit.
func (w *Wind) ConvertTo(to units.Unit) error {
	out, err := w.AsUnit(to)
	if err != nil {
		return err
	}
	*w = *out
	return nil
}

// Description renders the wind in plain language using the current unit.
func (w *Wind) Description() string {
	if w.Speed == 0 && w.Gust == nil {
		return "Calm"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%.0f %s", w.Speed, w.Unit.Symbol)
	if w.Direction != nil {
		fmt.Fprintf(&sb, " from the %s", CardinalDirection(*w.Direction, StyleLong))
	} else {
		sb.WriteString(" from varying directions")
	}
	if w.Gust != nil {
		fmt.Fprintf(&sb, ", gusting %.0f %s", *w.Gust, w.Unit.Symbol)
	}
	if w.VariableDirections != nil {
		fmt.Fprintf(&sb, ", varying from %s and %s",
			CardinalDirection(w.VariableDirections[0], StyleShort),
			CardinalDirection(w.VariableDirections[1], StyleShort))
	}
	return sb.String()
}
