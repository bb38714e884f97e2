// Package metar decodes METAR and SPECI coded surface weather observations
// into structured, unit-aware values.
package metar

import (
	"fmt"
	"strings"
)

// ReportType classifies a report as routine or special.
type ReportType string

const (
	ReportTypeNone  ReportType = ""
	ReportTypeMETAR ReportType = "METAR"
	ReportTypeSPECI ReportType = "SPECI"
)

// Description returns the plain language meaning of the report type.
func (rt ReportType) Description() string {
	switch rt {
	case ReportTypeMETAR:
		return "Hourly, scheduled report"
	case ReportTypeSPECI:
		return "Special, unscheduled report"
	}
	return "Unspecified"
}

// ReportModifier indicates how the report was produced.
type ReportModifier string

const (
	ReportModifierNone ReportModifier = ""
	ReportModifierAUTO ReportModifier = "AUTO"
	ReportModifierCOR  ReportModifier = "COR"
)

// Description returns the plain language meaning of the report modifier.
func (rm ReportModifier) Description() string {
	switch rm {
	case ReportModifierAUTO:
		return "Fully automated report"
	case ReportModifierCOR:
		return "Correction of previous report"
	}
	return "Unspecified"
}

// FormatError reports a structural violation found while splitting a raw
// report into its groups.
type FormatError struct {
	Group string
	Msg   string
}

func (e *FormatError) Error() string {
	if e.Group == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s group: %s", e.Group, e.Msg)
}

// DecodeError reports a group whose content does not match its sub-grammar.
type DecodeError struct {
	Group string
	Raw   string
	Msg   string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s group %q: %s", e.Group, e.Raw, e.Msg)
}

// CodedObservation holds the raw groups of one METAR/SPECI report, split out
// but not decoded. Optional groups are empty strings when absent. The zero
// value is not meaningful; build one with ParseCoded.
type CodedObservation struct {
	ReportType        ReportType
	StationID         string
	DateTime          string
	ReportModifier    ReportModifier
	Wind              string
	Visibility        string
	RunwayVisualRange string
	PresentWeather    string
	SkyCondition      string
	TempDew           string
	Altimeter         string
	Remarks           string
}

// tokenCursor consumes a token slice monotonically from both ends.
type tokenCursor struct {
	tokens []string
	front  int
	back   int // one past the last live token
}

func newTokenCursor(tokens []string) *tokenCursor {
	return &tokenCursor{tokens: tokens, back: len(tokens)}
}

func (c *tokenCursor) len() int { return c.back - c.front }

func (c *tokenCursor) peekFront() string {
	if c.len() == 0 {
		return ""
	}
	return c.tokens[c.front]
}

func (c *tokenCursor) peekBack() string {
	if c.len() == 0 {
		return ""
	}
	return c.tokens[c.back-1]
}

func (c *tokenCursor) popFront() string {
	t := c.peekFront()
	if c.len() > 0 {
		c.front++
	}
	return t
}

func (c *tokenCursor) popBack() string {
	t := c.peekBack()
	if c.len() > 0 {
		c.back--
	}
	return t
}

func (c *tokenCursor) remaining() []string {
	return c.tokens[c.front:c.back]
}

// ParseCoded splits a raw METAR/SPECI string into its groups. The input is
// upper-cased first. Group consumption is strictly ordered: the conditional
// checks at the front and back of the token queue assume all prior groups
// have already been removed.
func ParseCoded(raw string) (*CodedObservation, error) {
	obs := &CodedObservation{}

	body, remarks, hasRemarks := strings.Cut(strings.ToUpper(raw), " RMK ")
	if hasRemarks {
		obs.Remarks = strings.TrimSpace(remarks)
	}

	cursor := newTokenCursor(strings.Fields(body))
	if cursor.len() < 7 {
		return nil, &FormatError{
			Msg: fmt.Sprintf("not enough groups (%d < 7) to be a valid report", cursor.len()),
		}
	}

	switch ReportType(cursor.peekFront()) {
	case ReportTypeMETAR, ReportTypeSPECI:
		obs.ReportType = ReportType(cursor.popFront())
	}

	obs.StationID = cursor.popFront()
	if len(obs.StationID) != 4 {
		return nil, &FormatError{
			Group: "station",
			Msg:   fmt.Sprintf("%q should be the 4 character ICAO location id", obs.StationID),
		}
	}

	obs.DateTime = cursor.popFront()
	if len(obs.DateTime) != 7 {
		return nil, &FormatError{
			Group: "date/time",
			Msg:   fmt.Sprintf("%q is not 7 characters", obs.DateTime),
		}
	}
	if !strings.HasSuffix(obs.DateTime, "Z") {
		return nil, &FormatError{
			Group: "date/time",
			Msg:   fmt.Sprintf("%q does not end in Z", obs.DateTime),
		}
	}

	switch ReportModifier(cursor.peekFront()) {
	case ReportModifierAUTO, ReportModifierCOR:
		obs.ReportModifier = ReportModifier(cursor.popFront())
	}

	// Wind, with the variable direction group joined on when it directly
	// follows.
	if front := cursor.peekFront(); len(front) >= 7 && strings.HasSuffix(front, "KT") {
		obs.Wind = cursor.popFront()
		if next := cursor.peekFront(); len(next) == 7 && next[3] == 'V' {
			obs.Wind += " " + cursor.popFront()
		}
	}

	// Visibility may be split across two tokens for mixed number fractions.
	obs.Visibility = cursor.popFront()
	if !strings.HasSuffix(obs.Visibility, "SM") {
		if strings.HasSuffix(cursor.peekFront(), "SM") {
			obs.Visibility += " " + cursor.popFront()
		} else {
			return nil, &FormatError{
				Group: "visibility",
				Msg:   fmt.Sprintf("%q does not end in SM", obs.Visibility),
			}
		}
	}

	if front := cursor.peekFront(); strings.HasPrefix(front, "R") && strings.HasSuffix(front, "FT") {
		obs.RunwayVisualRange = cursor.popFront()
	}

	// The remaining groups are consumed from the back of the queue.
	obs.Altimeter = cursor.popBack()
	if len(obs.Altimeter) < 3 {
		return nil, &FormatError{
			Group: "altimeter",
			Msg:   fmt.Sprintf("%q has invalid length", obs.Altimeter),
		}
	}
	if obs.Altimeter[0] != 'A' {
		return nil, &FormatError{
			Group: "altimeter",
			Msg:   fmt.Sprintf("%q does not start with A", obs.Altimeter),
		}
	}

	if back := cursor.peekBack(); len(back) >= 4 && (back[2] == '/' || back[3] == '/') {
		obs.TempDew = cursor.popBack()
	}

	var sky []string
	for cursor.len() > 0 {
		back := cursor.peekBack()
		if len(back) < 3 {
			break
		}
		if _, ok := skyCoverages[back[:3]]; !ok {
			break
		}
		sky = append([]string{cursor.popBack()}, sky...)
	}
	obs.SkyCondition = strings.Join(sky, " ")

	obs.PresentWeather = strings.Join(cursor.remaining(), " ")
	return obs, nil
}

// String re-serializes the groups into a coded observation string. For any
// parseable input the result matches the original up to whitespace
// normalization and case.
func (o *CodedObservation) String() string {
	parts := make([]string, 0, 12)
	appendPart := func(s string) {
		if s != "" {
			parts = append(parts, s)
		}
	}
	appendPart(string(o.ReportType))
	appendPart(o.StationID)
	appendPart(o.DateTime)
	appendPart(string(o.ReportModifier))
	appendPart(o.Wind)
	appendPart(o.Visibility)
	appendPart(o.RunwayVisualRange)
	appendPart(o.PresentWeather)
	appendPart(o.SkyCondition)
	appendPart(o.TempDew)
	appendPart(o.Altimeter)
	if o.Remarks != "" {
		appendPart("RMK " + o.Remarks)
	}
	return strings.Join(parts, " ")
}

// RemarksTempDew returns the 9 character precise temperature token from the
// remarks section, or an empty string if none exists.
func (o *CodedObservation) RemarksTempDew() string {
	for _, remark := range strings.Fields(o.Remarks) {
		if len(remark) != 9 {
			continue
		}
		if !strings.HasPrefix(remark, "T0") && !strings.HasPrefix(remark, "T1") {
			continue
		}
		if remark[5] == '0' || remark[5] == '1' {
			return remark
		}
	}
	return ""
}

// RemarksSeaLevelPressure returns the SLP token from the remarks section, or
// an empty string if none exists.
func (o *CodedObservation) RemarksSeaLevelPressure() string {
	for _, remark := range strings.Fields(o.Remarks) {
		if strings.HasPrefix(remark, "SLP") && len(remark) == 6 {
			return remark
		}
	}
	return ""
}
