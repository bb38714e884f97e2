package units

import (
	"fmt"
	"strings"
)

// qcDescriptions maps MADIS quality control flags to their definitions. See
// https://madis.ncep.noaa.gov/madis_sfc_qc_notes.shtml.
var qcDescriptions = map[string]string{
	"Z": "Preliminary, no QC",
	"C": "Coarse pass, passed level 1",
	"S": "Screened, passed levels 1 and 2",
	"V": "Verified, passed levels 1, 2, and 3",
	"X": "Rejected/erroneous, failed level 1",
	"Q": "Questioned, passed level 1, failed 2 or 3",
	"G": "Subjective good",
	"B": "Subjective bad",
	"T": "Virtual temperature could not be calculated, air temperature passing all QC checks has been returned",
}

// QualityControl is a MADIS quality control flag attached to an observed value.
type QualityControl struct {
	Flag        string
	Description string
}

// ParseQualityControl resolves a single character MADIS flag.
func ParseQualityControl(flag string) (QualityControl, error) {
	desc, ok := qcDescriptions[flag]
	if !ok {
		return QualityControl{}, fmt.Errorf("unknown quality control flag %q", flag)
	}
	return QualityControl{Flag: flag, Description: desc}, nil
}

func (qc QualityControl) String() string {
	return fmt.Sprintf("%s (flag=%q)", qc.Description, qc.Flag)
}

// Measurement is a floating point value with a unit of measure, loosely based
// on the schema.org QuantitativeValue. Value, Min and Max are nil when absent.
type Measurement struct {
	Value          *float64
	Unit           Unit
	Min            *float64
	Max            *float64
	QualityControl *QualityControl
}

// NewMeasurement builds a measurement with a known value.
func NewMeasurement(value float64, unit Unit) Measurement {
	return Measurement{Value: &value, Unit: unit}
}

// MissingMeasurement builds a measurement whose value is absent but whose
// unit is still known.
func MissingMeasurement(unit Unit) Measurement {
	return Measurement{Unit: unit}
}

// AsUnit returns a copy of the measurement converted to the given unit. The
// receiver is unchanged. Min and max values convert along with the value.
func (m Measurement) AsUnit(to Unit) (Measurement, error) {
	if to == m.Unit {
		return m, nil
	}
	out := Measurement{Unit: to, QualityControl: m.QualityControl}
	if m.Value != nil {
		v, err := Convert(*m.Value, m.Unit, to)
		if err != nil {
			return Measurement{}, err
		}
		out.Value = &v
	}
	if m.Min != nil {
		v, err := Convert(*m.Min, m.Unit, to)
		if err != nil {
			return Measurement{}, err
		}
		out.Min = &v
	}
	if m.Max != nil {
		v, err := Convert(*m.Max, m.Unit, to)
		if err != nil {
			return Measurement{}, err
		}
		out.Max = &v
	}
	return out, nil
}

// ConvertTo converts the measurement in place to the given unit.
func (m *Measurement) ConvertTo(to Unit) error {
	out, err := m.AsUnit(to)
	if err != nil {
		return err
	}
	*m = out
	return nil
}

// String renders the value to one decimal with the unit symbol, including any
// min/max bounds. An absent value renders as "missing".
func (m Measurement) String() string {
	if m.Value == nil {
		return "missing"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%.1f %s", *m.Value, m.Unit.Symbol)
	switch {
	case m.Min != nil && m.Max != nil:
		fmt.Fprintf(&sb, " (min=%.1f, max=%.1f)", *m.Min, *m.Max)
	case m.Min != nil:
		fmt.Fprintf(&sb, " (min=%.1f)", *m.Min)
	case m.Max != nil:
		fmt.Fprintf(&sb, " (max=%.1f)", *m.Max)
	}
	return sb.String()
}
