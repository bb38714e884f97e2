package metar

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Observation is a fully decoded METAR/SPECI report: the raw coded groups
// plus a typed sub-object per group. Sub-objects are nil when the
// corresponding group was absent.
type Observation struct {
	Coded        *CodedObservation
	Wind         *Wind
	Visibility   *Visibility
	Pressure     *Pressure
	Temperature  *Temperature
	SkyCondition *SkyCondition
}

// Decode tokenizes a raw report and decodes every group.
func Decode(raw string) (*Observation, error) {
	coded, err := ParseCoded(raw)
	if err != nil {
		return nil, err
	}
	obs := &Observation{Coded: coded}

	if coded.Wind != "" {
		if obs.Wind, err = DecodeWind(coded.Wind); err != nil {
			return nil, err
		}
	}
	if obs.Visibility, err = DecodeVisibility(coded.Visibility); err != nil {
		return nil, err
	}
	if obs.Pressure, err = DecodePressure(coded.Altimeter, coded.RemarksSeaLevelPressure()); err != nil {
		return nil, err
	}
	if coded.TempDew != "" || coded.RemarksTempDew() != "" {
		if obs.Temperature, err = DecodeTemperature(coded.TempDew, coded.RemarksTempDew()); err != nil {
			return nil, err
		}
	}
	if obs.SkyCondition, err = DecodeSkyCondition(coded.SkyCondition); err != nil {
		return nil, err
	}
	return obs, nil
}

// Time interprets the DDHHMMZ group against a reference time, assuming the
// report belongs to the reference month with a rollover to the previous
// month when the day is ahead of the reference day.
func (o *Observation) Time(ref time.Time) (time.Time, error) {
	dt := o.Coded.DateTime
	if len(dt) != 7 {
		return time.Time{}, &DecodeError{Group: "date/time", Raw: dt, Msg: "not 7 characters"}
	}
	var day, hour, minute int
	if _, err := fmt.Sscanf(dt[:6], "%2d%2d%2d", &day, &hour, &minute); err != nil {
		return time.Time{}, &DecodeError{Group: "date/time", Raw: dt, Msg: "unparsable digits"}
	}
	ref = ref.UTC()
	t := time.Date(ref.Year(), ref.Month(), day, hour, minute, 0, 0, time.UTC)
	if day > ref.Day() {
		t = t.AddDate(0, -1, 0)
	}
	return t, nil
}

// Summary renders the whole observation as a multi-line plain language
// report, one group per line.
func (o *Observation) Summary() string {
	var sb strings.Builder
	sb.WriteString(o.Coded.String())
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "Report Type -- %s\n", o.Coded.ReportType.Description())
	fmt.Fprintf(&sb, "Station Identifier -- %s\n", o.Coded.StationID)
	fmt.Fprintf(&sb, "Timestamp -- %s\n", o.Coded.DateTime)
	fmt.Fprintf(&sb, "Report Modifier -- %s\n", o.Coded.ReportModifier.Description())
	wind := "Unspecified"
	if o.Wind != nil {
		wind = o.Wind.Description()
	}
	temperature := "Unspecified"
	if o.Temperature != nil {
		temperature = o.Temperature.Description()
	}
	fmt.Fprintf(&sb, "Wind -- %s\n", wind)
	fmt.Fprintf(&sb, "Visibility -- %s\n", o.Visibility.Description())
	fmt.Fprintf(&sb, "Runway Visual Range -- %s\n", orUnspecified(DescribeRunwayVisualRange(o.Coded.RunwayVisualRange)))
	fmt.Fprintf(&sb, "Present Weather -- %s\n", orUnspecified(o.Coded.PresentWeather))
	fmt.Fprintf(&sb, "Sky Conditions -- %s\n", o.SkyCondition.Description())
	fmt.Fprintf(&sb, "Temperature -- %s\n", temperature)
	fmt.Fprintf(&sb, "Altimeter -- %s\n", o.Pressure.Description())
	fmt.Fprintf(&sb, "Remarks -- %s", orUnspecified(o.Coded.Remarks))
	return sb.String()
}

func orUnspecified(s string) string {
	if s == "" {
		return "Unspecified"
	}
	return s
}

// DescribeRunwayVisualRange renders an RVR group such as "R04R/2000V3000FT"
// in plain language. Returns an empty string for an absent group.
func DescribeRunwayVisualRange(group string) string {
	if group == "" {
		return ""
	}
	trimmed := strings.TrimSuffix(strings.TrimPrefix(group, "R"), "FT")
	runway, value, found := strings.Cut(trimmed, "/")
	if !found {
		return group
	}
	if low, high, variable := strings.Cut(value, "V"); variable {
		return fmt.Sprintf("Runway %s varying between %s and %s", runway, rvrValue(low), rvrValue(high))
	}
	return fmt.Sprintf("Runway %s %s", runway, rvrValue(value))
}

// rvrValue renders one RVR reportable value, honoring the M (less than) and
// P (greater than) prefixes.
func rvrValue(v string) string {
	prefix := ""
	switch {
	case strings.HasPrefix(v, "M"):
		prefix = "< "
		v = v[1:]
	case strings.HasPrefix(v, "P"):
		prefix = "> "
		v = v[1:]
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return prefix + v + " ft"
	}
	return fmt.Sprintf("%s%d ft", prefix, n)
}
