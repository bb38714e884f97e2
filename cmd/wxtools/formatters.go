package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"wxtools/internal/metar"
	"wxtools/internal/recon"
	"wxtools/internal/units"
	"wxtools/internal/wxcalc"
)

// Color definitions using fatih/color
var (
	labelColor    = color.New(color.FgCyan)
	dateColor     = color.New(color.FgGreen)
	sectionColor  = color.New(color.FgBlue)
	remarkColor   = color.New(color.FgGreen)
	functionColor = color.New(color.FgMagenta)

	// Age-based colors
	freshColor   = color.New(color.FgGreen)
	warningColor = color.New(color.FgYellow)
	expiredColor = color.New(color.FgRed)
)

var fahrenheit = units.MustByLabel("fahrenheit")

// relativeTimeString renders a timestamp as a human-readable age
func relativeTimeString(t time.Time) string {
	now := time.Now().UTC()
	diff := now.Sub(t)

	minutes := int(diff.Minutes())

	if minutes < 0 {
		// For future times (rare, but possible with timezone issues)
		return "(in the future)"
	} else if minutes < 1 {
		return "(just now)"
	} else if minutes < 60 {
		return fmt.Sprintf("(%d minutes ago)", minutes)
	} else if minutes < 1440 { // less than 24 hours
		hours := minutes / 60
		mins := minutes % 60
		if mins == 0 {
			return fmt.Sprintf("(%d hours ago)", hours)
		}
		return fmt.Sprintf("(%d hours, %d minutes ago)", hours, mins)
	} else {
		days := minutes / 1440
		hours := (minutes % 1440) / 60
		if hours == 0 {
			return fmt.Sprintf("(%d days ago)", days)
		}
		return fmt.Sprintf("(%d days, %d hours ago)", days, hours)
	}
}

// getReportAgeColor returns the appropriate color based on report age
func getReportAgeColor(t time.Time) *color.Color {
	minutes := int(time.Since(t).Minutes())
	if minutes > 60 {
		return expiredColor
	} else if minutes > 30 {
		return warningColor
	}
	return freshColor
}

// formatObservation formats a decoded observation for display with colors
func formatObservation(obs *metar.Observation) string {
	var sb strings.Builder

	labelColor.Fprint(&sb, "Station: ")
	sb.WriteString(obs.Coded.StationID + "\n")

	if obs.Coded.ReportType != metar.ReportTypeNone {
		labelColor.Fprint(&sb, "Report Type: ")
		sb.WriteString(obs.Coded.ReportType.Description() + "\n")
	}

	if reportTime, err := obs.Time(time.Now().UTC()); err == nil {
		labelColor.Fprint(&sb, "Time: ")
		dateColor.Fprint(&sb, reportTime.Format("2006-01-02 15:04 UTC"))
		sb.WriteString(" ")
		getReportAgeColor(reportTime).Fprint(&sb, relativeTimeString(reportTime))
		sb.WriteString("\n")
	}

	if obs.Coded.ReportModifier != "" {
		labelColor.Fprint(&sb, "Modifier: ")
		sb.WriteString(obs.Coded.ReportModifier.Description() + "\n")
	}

	if obs.Wind != nil {
		labelColor.Fprint(&sb, "Wind: ")
		sb.WriteString(obs.Wind.Description() + "\n")
	}

	labelColor.Fprint(&sb, "Visibility: ")
	sb.WriteString(obs.Visibility.Description() + "\n")

	if rvr := metar.DescribeRunwayVisualRange(obs.Coded.RunwayVisualRange); rvr != "" {
		labelColor.Fprint(&sb, "Runway Visual Range: ")
		sb.WriteString(rvr + "\n")
	}

	if obs.Coded.PresentWeather != "" {
		labelColor.Fprint(&sb, "Weather: ")
		sb.WriteString(obs.Coded.PresentWeather + "\n")
	}

	labelColor.Fprint(&sb, "Clouds: ")
	sb.WriteString(obs.SkyCondition.Description() + "\n")

	if obs.Temperature != nil {
		writeTemperature(&sb, obs)
	}

	labelColor.Fprint(&sb, "Pressure: ")
	sb.WriteString(obs.Pressure.Description() + "\n")

	if obs.Coded.Remarks != "" {
		sb.WriteString("\n")
		sectionColor.Fprintln(&sb, "Remarks:")
		sb.WriteString("  ")
		remarkColor.Fprint(&sb, obs.Coded.Remarks)
		sb.WriteString("\n")
	}

	return sb.String()
}

// writeTemperature renders the temperature block with a Fahrenheit
// conversion and the derived feels-like value.
func writeTemperature(sb *strings.Builder, obs *metar.Observation) {
	t := obs.Temperature

	labelColor.Fprint(sb, "Temperature: ")
	if tempF, err := units.Convert(t.Value, t.Unit, fahrenheit); err == nil {
		fmt.Fprintf(sb, "%.1f %s | %.1f °F\n", t.Value, t.Unit.Symbol, tempF)
	} else {
		fmt.Fprintf(sb, "%.1f %s\n", t.Value, t.Unit.Symbol)
	}

	if t.DewPoint != nil {
		labelColor.Fprint(sb, "Dew Point: ")
		if dewF, err := units.Convert(*t.DewPoint, t.Unit, fahrenheit); err == nil {
			fmt.Fprintf(sb, "%.1f %s | %.1f °F\n", *t.DewPoint, t.Unit.Symbol, dewF)
		} else {
			fmt.Fprintf(sb, "%.1f %s\n", *t.DewPoint, t.Unit.Symbol)
		}
	}

	if t.RelativeHumidity != nil {
		labelColor.Fprint(sb, "Humidity: ")
		fmt.Fprintf(sb, "%.0f%%\n", *t.RelativeHumidity)
	}

	if t.RelativeHumidity != nil && obs.Wind != nil {
		windKts, err := obs.Wind.AsUnit(units.MustByLabel("knot"))
		if err != nil {
			return
		}
		tag := "C"
		if t.Unit.Label == "fahrenheit" {
			tag = "F"
		}
		feels, err := wxcalc.FeelsLike(t.Value, *t.RelativeHumidity, windKts.Speed, tag, "KTS")
		if err != nil {
			return
		}
		labelColor.Fprint(sb, "Feels Like: ")
		fmt.Fprintf(sb, "%.1f %s\n", feels, t.Unit.Symbol)
	}
}

// formatRecon formats a decoded HDOB message for display with colors
func formatRecon(msg *recon.HighDensityMessage) string {
	var sb strings.Builder

	labelColor.Fprint(&sb, "Storm: ")
	fmt.Fprintf(&sb, "%s (%s, %s)\n", msg.StormName, msg.StormIDDescription(), msg.BasinDescription())

	labelColor.Fprint(&sb, "Aircraft: ")
	fmt.Fprintf(&sb, "%s %s\n", msg.AircraftID, msg.AircraftDescription())

	labelColor.Fprint(&sb, "Mission: ")
	fmt.Fprintf(&sb, "%s, observation set %d\n", msg.MissionSequenceDescription(), msg.ObservationNumber)

	labelColor.Fprint(&sb, "Issued: ")
	dateColor.Fprint(&sb, msg.Timestamp.Format("2006-01-02 15:04 UTC"))
	sb.WriteString("\n\n")

	sectionColor.Fprintln(&sb, "Observations:")
	for _, obs := range msg.Observations {
		sb.WriteString("  ")
		dateColor.Fprint(&sb, obs.Timestamp.Format("15:04:05"))
		fmt.Fprintf(&sb, "  %s", obs.Coordinates.String())
		fmt.Fprintf(&sb, "  pressure %s", obs.FlightLevelPressure.String())
		if obs.ExtrapolatedPressure != nil {
			fmt.Fprintf(&sb, "  surface %s", obs.ExtrapolatedPressure.String())
		}
		fmt.Fprintf(&sb, "  temp %s", obs.Temperature.String())
		fmt.Fprintf(&sb, "  wind %s", obs.WindSpeed.String())
		if obs.PositionQCFlag != "0" || obs.MetQCFlag != "0" {
			warningColor.Fprintf(&sb, "  [QC: %s / %s]", obs.PositionQCDescription(), obs.MetQCDescription())
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// processMETAR decodes and displays a raw METAR
func processMETAR(raw string, noRaw, noDecode bool) {
	if !noRaw {
		functionColor.Println("----- Raw METAR -----")
		fmt.Println(raw)
		if !noDecode {
			fmt.Println()
		}
	}

	if noDecode {
		return
	}

	obs, err := metar.Decode(raw)
	if err != nil {
		fmt.Printf("Error decoding METAR: %v\n", err)
		return
	}

	functionColor.Println("--- Decoded METAR ---")
	fmt.Print(formatObservation(obs))
}

// processRecon decodes and displays a raw HDOB product
func processRecon(raw string, noRaw, noDecode bool) {
	if !noRaw {
		functionColor.Println("----- Raw HDOB -----")
		fmt.Println(raw)
		if !noDecode {
			fmt.Println()
		}
	}

	if noDecode {
		return
	}

	msg, err := recon.DecodeMessage(raw)
	if err != nil {
		fmt.Printf("Error decoding HDOB: %v\n", err)
		return
	}

	functionColor.Println("--- Decoded HDOB ---")
	fmt.Print(formatRecon(msg))
}
