package metar

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"wxtools/internal/units"
)

var pressureRegex = regexp.MustCompile(`^A(\d{4})$`)

// Pressure is the decoded station pressure. Altimeter comes from the A group,
// always present in a valid report. SeaLevel comes from the remarks SLP token
// and is nil when the remark is absent or reported unavailable.
type Pressure struct {
	Altimeter float64
	SeaLevel  *float64
	Unit      units.Unit
	// SeaLevelUnit tracks the sea level value separately since the SLP
	// remark always arrives in hectopascals.
	SeaLevelUnit units.Unit
}

// DecodePressure decodes the altimeter group such as "A3002" plus an optional
// sea level pressure remark such as "SLP134". A malformed or unavailable SLP
// remark degrades to an absent sea level value rather than failing.
func DecodePressure(altimeterGroup, slpRemark string) (*Pressure, error) {
	p := &Pressure{
		Unit:         units.MustByLabel("inch of mercury"),
		SeaLevelUnit: units.MustByLabel("hectopascal"),
	}

	matches := pressureRegex.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(altimeterGroup)))
	if matches == nil {
		return nil, &DecodeError{Group: "altimeter", Raw: altimeterGroup, Msg: "does not match the A#### format"}
	}
	inHg, err := strconv.ParseFloat(matches[1][:2]+"."+matches[1][2:], 64)
	if err != nil {
		return nil, &DecodeError{Group: "altimeter", Raw: altimeterGroup, Msg: "unparsable value"}
	}
	p.Altimeter = inHg

	if slp := decodeSeaLevelPressure(slpRemark); slp != nil {
		p.SeaLevel = slp
	}
	return p, nil
}

// decodeSeaLevelPressure decodes an SLP### remark into hectopascals. The
// remark carries only tenths of hPa, so the missing decade is chosen by the
// standard heuristic: a first digit of 0-5 implies a "10" prefix, 6-9 implies
// "9". The value is not validated against the altimeter reading. "SLPNO" or
// a slash means the value is unavailable.
func decodeSeaLevelPressure(remark string) *float64 {
	remark = strings.ToUpper(strings.TrimSpace(remark))
	if !strings.HasPrefix(remark, "SLP") || len(remark) != 6 {
		return nil
	}
	digits := remark[3:]
	if strings.Contains(digits, "NO") || strings.Contains(digits, "/") {
		return nil
	}
	prefix := "9"
	if digits[0] >= '0' && digits[0] <= '5' {
		prefix = "10"
	}
	value, err := strconv.ParseFloat(prefix+digits[:2]+"."+digits[2:], 64)
	if err != nil {
		return nil
	}
	return &value
}

// AsUnit returns a copy of the pressure with both values converted to the
// given pressure unit.
func (p *Pressure) AsUnit(to units.Unit) (*Pressure, error) {
	altimeter, err := units.Convert(p.Altimeter, p.Unit, to)
	if err != nil {
		return nil, err
	}
	out := *p
	out.Altimeter = altimeter
	out.Unit = to
	if p.SeaLevel != nil {
		slp, err := units.Convert(*p.SeaLevel, p.SeaLevelUnit, to)
		if err != nil {
			return nil, err
		}
		out.SeaLevel = &slp
		out.SeaLevelUnit = to
	}
	return &out, nil
}

// ConvertTo converts the pressure in place to the given pressure unit.
func (p *Pressure) ConvertTo(to units.Unit) error {
	out, err := p.AsUnit(to)
	if err != nil {
		return err
	}
	*p = *out
	return nil
}

// Description renders the altimeter and, when known, sea level pressure.
func (p *Pressure) Description() string {
	sb := fmt.Sprintf("%.2f %s", p.Altimeter, p.Unit.Symbol)
	if p.SeaLevel != nil {
		sb += fmt.Sprintf(", sea level %.1f %s", *p.SeaLevel, p.SeaLevelUnit.Symbol)
	}
	return sb
}
