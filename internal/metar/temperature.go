package metar

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"wxtools/internal/units"
	"wxtools/internal/wxcalc"
)

var tempRegex = regexp.MustCompile(`^(M?)(\d{2})/(M?)(\d{2})?$`)

// Temperature is the decoded temperature and dew point, with derived
// humidity values. The derived values are computed once at construction in
// Celsius and converted along with the object. DewPoint and the derived
// fields are nil when the group carried no dew point.
type Temperature struct {
	Value     float64
	DewPoint  *float64
	Unit      units.Unit
	HeatIndex *float64
	WetBulb   *float64
	// RelativeHumidity is a percentage and does not convert with the unit.
	RelativeHumidity *float64
}

// DecodeTemperature decodes a temperature group. A 9 character remarks token
// such as "T02240183" is preferred over the primary group such as "22/18"
// since it carries tenths of a degree. Pass an empty remarksToken when the
// remark is absent.
func DecodeTemperature(group, remarksToken string) (*Temperature, error) {
	t := &Temperature{Unit: units.MustByLabel("celsius")}

	remarksToken = strings.ToUpper(strings.TrimSpace(remarksToken))
	if len(remarksToken) == 9 {
		temp, err := strconv.ParseFloat(remarksToken[2:5], 64)
		if err != nil {
			return nil, &DecodeError{Group: "temperature", Raw: remarksToken, Msg: "unparsable remarks temperature"}
		}
		temp /= 10
		if remarksToken[1] == '1' {
			temp = -temp
		}
		dew, err := strconv.ParseFloat(remarksToken[6:9], 64)
		if err != nil {
			return nil, &DecodeError{Group: "temperature", Raw: remarksToken, Msg: "unparsable remarks dew point"}
		}
		dew /= 10
		if remarksToken[5] == '1' {
			dew = -dew
		}
		t.Value = temp
		t.DewPoint = &dew
	} else {
		matches := tempRegex.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(group)))
		if matches == nil {
			return nil, &DecodeError{Group: "temperature", Raw: group, Msg: "does not match the [M]TT/[M]DD format"}
		}
		temp, err := strconv.ParseFloat(matches[2], 64)
		if err != nil {
			return nil, &DecodeError{Group: "temperature", Raw: group, Msg: "unparsable temperature"}
		}
		if matches[1] == "M" {
			temp = -temp
		}
		t.Value = temp
		if matches[4] != "" {
			dew, err := strconv.ParseFloat(matches[4], 64)
			if err != nil {
				return nil, &DecodeError{Group: "temperature", Raw: group, Msg: "unparsable dew point"}
			}
			if matches[3] == "M" {
				dew = -dew
			}
			t.DewPoint = &dew
		}
	}

	if t.DewPoint != nil {
		rh, err := wxcalc.RelativeHumidity(t.Value, *t.DewPoint, "C")
		if err != nil {
			return nil, err
		}
		t.RelativeHumidity = &rh
		hi, err := wxcalc.HeatIndex(t.Value, rh, "C")
		if err != nil {
			return nil, err
		}
		t.HeatIndex = &hi
		wb, err := wxcalc.WetBulb(t.Value, rh, "C")
		if err != nil {
			return nil, err
		}
		t.WetBulb = &wb
	}
	return t, nil
}

// AsUnit returns a copy of the temperature with every degree-valued field
// converted to the given temperature unit. Relative humidity is unchanged.
func (t *Temperature) AsUnit(to units.Unit) (*Temperature, error) {
	out := *t
	value, err := units.Convert(t.Value, t.Unit, to)
	if err != nil {
		return nil, err
	}
	out.Value = value
	convertOptional := func(src *float64) (*float64, error) {
		if src == nil {
			return nil, nil
		}
		v, err := units.Convert(*src, t.Unit, to)
		if err != nil {
			return nil, err
		}
		return &v, nil
	}
	if out.DewPoint, err = convertOptional(t.DewPoint); err != nil {
		return nil, err
	}
	if out.HeatIndex, err = convertOptional(t.HeatIndex); err != nil {
		return nil, err
	}
	if out.WetBulb, err = convertOptional(t.WetBulb); err != nil {
		return nil, err
	}
	out.Unit = to
	return &out, nil
}

// ConvertTo converts the temperature in place to the given temperature unit.
func (t *Temperature) ConvertTo(to units.Unit) error {
	out, err := t.AsUnit(to)
	if err != nil {
		return err
	}
	*t = *out
	return nil
}

// Description renders temperature, dew point and the derived values in the
// current unit.
func (t *Temperature) Description() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%.1f %s", t.Value, t.Unit.Symbol)
	if t.DewPoint != nil {
		fmt.Fprintf(&sb, ", dew point %.1f %s", *t.DewPoint, t.Unit.Symbol)
	}
	if t.RelativeHumidity != nil {
		fmt.Fprintf(&sb, ", humidity %.0f%%", *t.RelativeHumidity)
	}
	return sb.String()
}
