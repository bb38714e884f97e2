// Package recon decodes tropical cyclone aircraft reconnaissance text
// products, currently the high density observation (HDOB) message.
package recon

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"wxtools/internal/units"
)

// DecodeError reports a structural problem in a raw HDOB message.
type DecodeError struct {
	Msg string
}

func (e *DecodeError) Error() string { return e.Msg }

var (
	hpaUnit     = units.MustByLabel("hectopascal")
	meterUnit   = units.MustByLabel("meter")
	celsiusUnit = units.MustByLabel("celsius")
	degreeUnit  = units.MustByLabel("degree")
	knotUnit    = units.MustByLabel("knot")
	mmPerHrUnit = units.MustByLabel("millimeters per hour")
)

var dataTypes = map[string]string{
	"UR": "Horizontal Observations",
	"UZ": "Vertical Observations",
}

var basins = map[string]string{
	"NT": "Atlantic",
	"PN": "Eastern/Central Pacific",
	"PA": "Western Pacific",
}

var originICAOs = map[string]string{
	"KNHC": "National Hurricane Center",
	"KBIX": "Keesler Air Force Base",
	"KWBC": "National Weather Service HQ",
}

var aircraft = map[string]string{
	"AF300": "Air Force C130J Hercules",
	"AF301": "Air Force C130J Hercules",
	"AF302": "Air Force C130J Hercules",
	"AF303": "Air Force C130J Hercules",
	"AF304": "Air Force C130J Hercules",
	"AF305": "Air Force C130J Hercules",
	"AF306": "Air Force C130J Hercules",
	"AF307": "Air Force C130J Hercules",
	"AF308": "Air Force C130J Hercules",
	"NOAA2": "NOAA WP-3D Orion 'Kermit'",
	"NOAA3": "NOAA WP-3D Orion 'Miss Piggy'",
	"NOAA9": "NOAA Gulfstream 'Gonzo'",
}

var stormLocations = map[string]string{
	"A": "Atlantic, Caribbean, or Gulf of Mexico",
	"E": "Eastern Pacific",
	"C": "Central Pacific",
	"W": "Western Pacific",
}

// positionQC describes the position quality control flag values.
var positionQC = map[string]string{
	"0": "All parameters of nominal accuracy",
	"1": "Lat/lon questionable",
	"2": "Geopotential height or static pressure questionable",
	"3": "Both lat/lon and altitude/pressure questionable",
}

// metQC describes the meteorological quality control flag values.
var metQC = map[string]string{
	"0": "All parameters of nominal accuracy",
	"1": "Temp/dewpoint questionable",
	"2": "FL winds questionable",
	"3": "SFMR parameters questionable",
	"4": "Temp/dewpoint and FL winds questionable",
	"5": "Temp/dewpoint SFMR questionable",
	"6": "FL winds and SFMR questionable",
	"9": "Temp/dewpoint, FL winds, and SFMR questionable",
}

// GeoPoint is a latitude/longitude pair in decimal degrees, north and east
// positive.
type GeoPoint struct {
	Latitude  float64
	Longitude float64
}

func (p GeoPoint) String() string {
	latHemi, lat := "N", p.Latitude
	if lat < 0 {
		latHemi, lat = "S", -lat
	}
	lonHemi, lon := "E", p.Longitude
	if lon < 0 {
		lonHemi, lon = "W", -lon
	}
	return fmt.Sprintf("%.2f%s %.2f%s", lat, latHemi, lon, lonHemi)
}

// HighDensityMessage is one decoded HDOB product: the communications and
// mission headers plus the sequence of 30 second observation records.
type HighDensityMessage struct {
	DataType           string
	Basin              string
	ProductIndexNumber int
	ICAO               string
	TimeString         string

	AircraftID         string
	MissionSequence    string
	StormShortID       string
	StormShortLocation string
	StormName          string
	ObservationNumber  int
	DateString         string

	Timestamp    time.Time
	Observations []HighDensityObservation
}

// DecodeMessage decodes a full raw HDOB text product. A leading 3 character
// sequence number line is skipped when present. Records stop at the "$$" or
// ";" terminator.
func DecodeMessage(raw string) (*HighDensityMessage, error) {
	var lines []string
	for _, line := range strings.Split(strings.ToUpper(strings.TrimSpace(raw)), "\n") {
		lines = append(lines, strings.TrimSpace(line))
	}
	if len(lines) < 5 {
		return nil, &DecodeError{Msg: "not enough lines for a valid HDOB"}
	}
	if len(lines[0]) == 3 {
		lines = lines[1:]
	}

	msg := &HighDensityMessage{}
	if err := msg.parseCommHeader(lines[0]); err != nil {
		return nil, err
	}
	if err := msg.parseMissionHeader(lines[1]); err != nil {
		return nil, err
	}

	ts, err := time.Parse("200601021504", msg.DateString+msg.TimeString[2:])
	if err != nil {
		return nil, &DecodeError{Msg: fmt.Sprintf("invalid message timestamp: %v", err)}
	}
	msg.Timestamp = ts

	for _, line := range lines[2:] {
		if line == "$$" || line == ";" {
			break
		}
		obs, err := DecodeObservation(line, msg.Timestamp)
		if err != nil {
			return nil, err
		}
		msg.Observations = append(msg.Observations, *obs)
	}
	return msg, nil
}

func (m *HighDensityMessage) parseCommHeader(header string) error {
	// Example: "URNT15 KNHC 281857"
	fields := strings.Fields(header)
	if len(fields) != 3 {
		return &DecodeError{Msg: "invalid communications header, expecting 3 data elements"}
	}
	if len(fields[0]) != 6 {
		return &DecodeError{Msg: "invalid communications header, expecting 6 characters in first data element"}
	}
	if len(fields[2]) != 6 {
		return &DecodeError{Msg: "invalid communications header, expecting 6 characters in third data element"}
	}
	index, err := strconv.Atoi(fields[0][4:6])
	if err != nil {
		return &DecodeError{Msg: "invalid communications header, unparsable product index number"}
	}
	m.DataType = fields[0][0:2]
	m.Basin = fields[0][2:4]
	m.ProductIndexNumber = index
	m.ICAO = fields[1]
	m.TimeString = fields[2]
	return nil
}

func (m *HighDensityMessage) parseMissionHeader(header string) error {
	// Example: "AF307 2909A IAN                HDOB 24 20220928"
	fields := strings.Fields(header)
	if len(fields) != 6 {
		return &DecodeError{Msg: "invalid mission header, expecting 6 data elements"}
	}
	if len(fields[0]) != 5 {
		return &DecodeError{Msg: "invalid mission header, expecting 5 characters in first data element"}
	}
	if len(fields[1]) != 5 {
		return &DecodeError{Msg: "invalid mission header, expecting 5 characters in second data element"}
	}
	if fields[3] != "HDOB" {
		return &DecodeError{Msg: "invalid mission header, HDOB not specified"}
	}
	obsNum, err := strconv.Atoi(fields[4])
	if err != nil {
		return &DecodeError{Msg: "invalid mission header, unparsable observation number"}
	}
	m.AircraftID = fields[0]
	m.MissionSequence = fields[1][0:2]
	m.StormShortID = fields[1][2:4]
	m.StormShortLocation = fields[1][4:5]
	m.StormName = fields[2]
	m.ObservationNumber = obsNum
	m.DateString = fields[5]
	return nil
}

// DataTypeDescription returns the plain language meaning of the product
// data type code.
func (m *HighDensityMessage) DataTypeDescription() string {
	return lookupOrUnknown(dataTypes, m.DataType)
}

// BasinDescription returns the plain language name of the basin code.
func (m *HighDensityMessage) BasinDescription() string {
	return lookupOrUnknown(basins, m.Basin)
}

// ICAODescription returns the plain language name of the originating center.
func (m *HighDensityMessage) ICAODescription() string {
	return lookupOrUnknown(originICAOs, m.ICAO)
}

// AircraftDescription returns the airframe behind the aircraft id.
func (m *HighDensityMessage) AircraftDescription() string {
	if desc, ok := aircraft[m.AircraftID]; ok {
		return desc
	}
	if strings.HasPrefix(m.AircraftID, "NOAA") {
		return "NOAA"
	}
	if strings.HasPrefix(m.AircraftID, "AF") {
		return "Air Force"
	}
	return "Unknown"
}

// MissionSequenceDescription decodes the 2 character mission sequence code.
func (m *HighDensityMessage) MissionSequenceDescription() string {
	if m.MissionSequence == "WX" {
		return "Non-tasked mission"
	}
	if n, err := strconv.Atoi(m.MissionSequence); err == nil {
		return fmt.Sprintf("Tasked mission #%d", n)
	}
	if m.MissionSequence[0] == 'W' {
		return fmt.Sprintf("Non-tasked mission #%d", m.MissionSequence[1]-'A'+1)
	}
	return "Unknown"
}

// StormIDDescription decodes the 2 character storm id code.
func (m *HighDensityMessage) StormIDDescription() string {
	if m.StormShortID == "WX" {
		return "Unclassified"
	}
	if n, err := strconv.Atoi(m.StormShortID); err == nil {
		return fmt.Sprintf("Storm #%d", n)
	}
	if m.StormShortID[0] == m.StormShortID[1] {
		return fmt.Sprintf("Unclassified Storm #%d", m.StormShortID[0]-'A'+1)
	}
	return "Unknown"
}

// StormLocationDescription decodes the storm location character.
func (m *HighDensityMessage) StormLocationDescription() string {
	return lookupOrUnknown(stormLocations, m.StormShortLocation)
}

func lookupOrUnknown(table map[string]string, key string) string {
	if desc, ok := table[key]; ok {
		return desc
	}
	return "Unknown"
}

// HighDensityObservation is one 30 second observation record. Any field
// reported as slashes decodes to a measurement with no value, never an
// error. ExtrapolatedPressure is set when flight level pressure is at or
// above 550 hPa, DValue otherwise; the two never coexist.
type HighDensityObservation struct {
	Timestamp            time.Time
	Coordinates          GeoPoint
	FlightLevelPressure  units.Measurement
	GeopotentialHeight   units.Measurement
	ExtrapolatedPressure *units.Measurement
	DValue               *units.Measurement
	Temperature          units.Measurement
	DewPoint             units.Measurement
	WindDirection        units.Measurement
	WindSpeed            units.Measurement
	WindPeak             units.Measurement
	SFMRWindPeak         units.Measurement
	SFMRRainRate         units.Measurement
	PositionQCFlag       string
	MetQCFlag            string
}

// DecodeObservation decodes one fixed 13 field record line. The parent
// message timestamp supplies the date the record's time of day applies to.
func DecodeObservation(line string, parent time.Time) (*HighDensityObservation, error) {
	// 134130 1252N 07257W 9246 00737 0061 +209 +203 061041 042 016 000 00
	fields := strings.Fields(strings.ToUpper(strings.TrimSpace(line)))
	if len(fields) != 13 {
		return nil, &DecodeError{Msg: "invalid high density observation, expecting 13 data elements"}
	}

	obs := &HighDensityObservation{}
	var err error
	if obs.Timestamp, err = recordTimestamp(fields[0], parent); err != nil {
		return nil, err
	}
	if obs.Coordinates, err = recordCoordinates(fields[1], fields[2]); err != nil {
		return nil, err
	}
	if obs.FlightLevelPressure, err = recordPressure(fields[3], "flight level pressure"); err != nil {
		return nil, err
	}
	if obs.GeopotentialHeight, err = recordNumeric(fields[4], 5, meterUnit, "geopotential height"); err != nil {
		return nil, err
	}

	// Field 6 is extrapolated surface pressure when the aircraft flies at or
	// below the 550 hPa level, and a D-value above it.
	if obs.FlightLevelPressure.Value != nil && *obs.FlightLevelPressure.Value >= 550.0 {
		surface, err := recordPressure(fields[5], "extrapolated surface pressure")
		if err != nil {
			return nil, err
		}
		obs.ExtrapolatedPressure = &surface
	} else {
		dValue, err := recordNumeric(fields[5], 4, meterUnit, "D-value")
		if err != nil {
			return nil, err
		}
		obs.DValue = &dValue
	}

	if obs.Temperature, err = recordTemperature(fields[6], "air temperature"); err != nil {
		return nil, err
	}
	if obs.DewPoint, err = recordTemperature(fields[7], "dew point"); err != nil {
		return nil, err
	}
	if len(fields[8]) != 6 {
		return nil, &DecodeError{Msg: fmt.Sprintf("invalid wind data %q, expecting 6 characters", fields[8])}
	}
	if obs.WindDirection, err = recordNumeric(fields[8][0:3], 3, degreeUnit, "wind direction"); err != nil {
		return nil, err
	}
	if obs.WindSpeed, err = recordNumeric(fields[8][3:6], 3, knotUnit, "wind speed"); err != nil {
		return nil, err
	}
	if obs.WindPeak, err = recordNumeric(fields[9], 3, knotUnit, "peak wind"); err != nil {
		return nil, err
	}
	if obs.SFMRWindPeak, err = recordNumeric(fields[10], 3, knotUnit, "peak SFMR wind"); err != nil {
		return nil, err
	}
	if obs.SFMRRainRate, err = recordNumeric(fields[11], 3, mmPerHrUnit, "SFMR rain rate"); err != nil {
		return nil, err
	}
	if len(fields[12]) != 2 {
		return nil, &DecodeError{Msg: fmt.Sprintf("invalid quality control flags %q, expecting 2 characters", fields[12])}
	}
	obs.PositionQCFlag = fields[12][0:1]
	obs.MetQCFlag = fields[12][1:2]
	return obs, nil
}

// PositionQCDescription returns the plain language meaning of the position
// quality control flag.
func (o *HighDensityObservation) PositionQCDescription() string {
	return lookupOrUnknown(positionQC, o.PositionQCFlag)
}

// MetQCDescription returns the plain language meaning of the meteorological
// quality control flag.
func (o *HighDensityObservation) MetQCDescription() string {
	return lookupOrUnknown(metQC, o.MetQCFlag)
}

func recordTimestamp(field string, parent time.Time) (time.Time, error) {
	if len(field) != 6 {
		return time.Time{}, &DecodeError{Msg: "invalid timestamp, expecting 6 characters"}
	}
	var hour, minute, second int
	if _, err := fmt.Sscanf(field, "%2d%2d%2d", &hour, &minute, &second); err != nil {
		return time.Time{}, &DecodeError{Msg: "invalid timestamp, unparsable digits"}
	}
	return time.Date(parent.Year(), parent.Month(), parent.Day(),
		hour, minute, second, 0, time.UTC), nil
}

func recordCoordinates(latitude, longitude string) (GeoPoint, error) {
	if len(latitude) != 5 || len(longitude) != 6 {
		return GeoPoint{}, &DecodeError{Msg: "invalid lat/lon, expecting 5 and 6 characters"}
	}
	latDeg, err1 := strconv.ParseFloat(latitude[0:2], 64)
	latMin, err2 := strconv.ParseFloat(latitude[2:4], 64)
	lonDeg, err3 := strconv.ParseFloat(longitude[0:3], 64)
	lonMin, err4 := strconv.ParseFloat(longitude[3:5], 64)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return GeoPoint{}, &DecodeError{Msg: "invalid lat/lon, unparsable digits"}
	}
	lat := latDeg + latMin/60
	if latitude[4] == 'S' {
		lat = -lat
	}
	lon := lonDeg + lonMin/60
	if longitude[5] == 'W' {
		lon = -lon
	}
	return GeoPoint{Latitude: lat, Longitude: lon}, nil
}

// recordPressure decodes a 4 digit pressure in tenths of hPa with the
// leading thousands digit dropped when the value is 1000 hPa or more.
func recordPressure(field, what string) (units.Measurement, error) {
	if len(field) != 4 {
		return units.Measurement{}, &DecodeError{Msg: fmt.Sprintf("invalid %s, expecting 4 characters", what)}
	}
	if strings.Contains(field, "/") {
		return units.MissingMeasurement(hpaUnit), nil
	}
	if field[0] == '0' {
		field = "1" + field
	}
	hpa, err := strconv.ParseFloat(field[:len(field)-1]+"."+field[len(field)-1:], 64)
	if err != nil {
		return units.Measurement{}, &DecodeError{Msg: fmt.Sprintf("invalid %s, unparsable value", what)}
	}
	return units.NewMeasurement(hpa, hpaUnit), nil
}

// recordTemperature decodes a signed temperature in tenths of a degree
// Celsius with the decimal omitted.
func recordTemperature(field, what string) (units.Measurement, error) {
	if len(field) != 4 {
		return units.Measurement{}, &DecodeError{Msg: fmt.Sprintf("invalid %s, expecting 4 characters", what)}
	}
	if strings.Contains(field, "/") {
		return units.MissingMeasurement(celsiusUnit), nil
	}
	celsius, err := strconv.ParseFloat(field[0:3]+"."+field[3:], 64)
	if err != nil {
		return units.Measurement{}, &DecodeError{Msg: fmt.Sprintf("invalid %s, unparsable value", what)}
	}
	return units.NewMeasurement(celsius, celsiusUnit), nil
}

// recordNumeric decodes a fixed width whole number field.
func recordNumeric(field string, width int, unit units.Unit, what string) (units.Measurement, error) {
	if len(field) != width {
		return units.Measurement{}, &DecodeError{Msg: fmt.Sprintf("invalid %s, expecting %d characters", what, width)}
	}
	if strings.Contains(field, "/") {
		return units.MissingMeasurement(unit), nil
	}
	value, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return units.Measurement{}, &DecodeError{Msg: fmt.Sprintf("invalid %s, unparsable value", what)}
	}
	return units.NewMeasurement(value, unit), nil
}
