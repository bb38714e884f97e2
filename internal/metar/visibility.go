package metar

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"wxtools/internal/units"
)

// Visibility is the decoded prevailing visibility group. IsLessThan is set
// when the group carried the leading M marker.
type Visibility struct {
	Distance   float64
	Unit       units.Unit
	IsLessThan bool
}

// parseFraction parses a mixed number such as "1 1/2", a bare fraction such
// as "3/4", or a whole number, rounded to two decimals.
func parseFraction(s string) (float64, error) {
	whole := 0.0
	frac := s
	if before, after, found := strings.Cut(s, " "); found {
		w, err := strconv.ParseFloat(before, 64)
		if err != nil {
			return 0, err
		}
		whole = w
		frac = after
	}
	var value float64
	if num, den, found := strings.Cut(frac, "/"); found {
		n, err := strconv.ParseFloat(num, 64)
		if err != nil {
			return 0, err
		}
		d, err := strconv.ParseFloat(den, 64)
		if err != nil {
			return 0, err
		}
		if d == 0 {
			return 0, fmt.Errorf("zero denominator in %q", s)
		}
		value = n / d
	} else {
		v, err := strconv.ParseFloat(frac, 64)
		if err != nil {
			return 0, err
		}
		value = v
	}
	return math.Round((whole+value)*100) / 100, nil
}

// DecodeVisibility decodes a visibility group such as "10SM" or "M1/4SM".
func DecodeVisibility(group string) (*Visibility, error) {
	v := &Visibility{Unit: units.MustByLabel("mile us statute")}
	raw := strings.ToUpper(strings.TrimSpace(group))
	if !strings.HasSuffix(raw, "SM") {
		return nil, &DecodeError{Group: "visibility", Raw: group, Msg: "does not end in SM"}
	}
	raw = strings.TrimSuffix(raw, "SM")
	if strings.HasPrefix(raw, "M") {
		v.IsLessThan = true
		raw = raw[1:]
	}
	distance, err := parseFraction(raw)
	if err != nil {
		return nil, &DecodeError{Group: "visibility", Raw: group, Msg: "unparsable distance"}
	}
	v.Distance = distance
	return v, nil
}

// AsUnit returns a copy of the visibility converted to the given length unit.
func (v *Visibility) AsUnit(to units.Unit) (*Visibility, error) {
	distance, err := units.Convert(v.Distance, v.Unit, to)
	if err != nil {
		return nil, err
	}
	out := *v
	out.Distance = distance
	out.Unit = to
	return &out, nil
}

// ConvertTo converts the visibility in place to the given length unit.
func (v *Visibility) ConvertTo(to units.Unit) error {
	out, err := v.AsUnit(to)
	if err != nil {
		return err
	}
	*v = *out
	return nil
}

// Description renders the visibility in plain language. Foot and meter
// distances render with no decimals, everything else with two.
func (v *Visibility) Description() string {
	var sb strings.Builder
	if v.IsLessThan {
		sb.WriteString("Less than ")
	}
	switch v.Unit.Label {
	case "foot", "meter":
		fmt.Fprintf(&sb, "%.0f %s", v.Distance, v.Unit.Symbol)
	default:
		fmt.Fprintf(&sb, "%.2f %s", v.Distance, v.Unit.Symbol)
	}
	return sb.String()
}
