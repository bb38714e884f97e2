package metar

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"wxtools/internal/units"
)

var cloudRegex = regexp.MustCompile(`^(SKC|CLR|FEW|SCT|BKN|OVC|VV)(\d{3}|///)?(CB|TCU)?$`)

// Coverage is a sky coverage code.
type Coverage string

const (
	CoverageClear              Coverage = "CLR"
	CoverageSkyClear           Coverage = "SKC"
	CoverageFew                Coverage = "FEW"
	CoverageScattered          Coverage = "SCT"
	CoverageBroken             Coverage = "BKN"
	CoverageOvercast           Coverage = "OVC"
	CoverageVerticalVisibility Coverage = "VV"
)

// skyCoverages maps the 3 character coverage codes recognized while
// tokenizing to their plain language labels.
var skyCoverages = map[string]string{
	"CLR": "Clear",
	"SKC": "Clear",
	"FEW": "Few",
	"SCT": "Scattered",
	"BKN": "Broken",
	"OVC": "Overcast",
}

// Label returns the plain language name of the coverage code.
func (c Coverage) Label() string {
	if c == CoverageVerticalVisibility {
		return "Vertical Visibility"
	}
	if label, ok := skyCoverages[string(c)]; ok {
		return label
	}
	return string(c)
}

// SkyLayer is one cloud layer. Height is nil when the layer is reported
// below the station with a slash. Convective is set by a trailing CB marker.
type SkyLayer struct {
	Coverage   Coverage
	Height     *float64
	Convective bool
}

// SkyCondition is the decoded sky condition group, a stack of layers from
// lowest to highest. No layers means clear skies.
type SkyCondition struct {
	Layers []SkyLayer
	Unit   units.Unit
}

// DecodeSkyCondition decodes a sky condition group such as
// "FEW120 SCT200 BKN250". An empty, CLR or SKC group yields no layers.
func DecodeSkyCondition(group string) (*SkyCondition, error) {
	sc := &SkyCondition{Unit: units.MustByLabel("foot")}
	group = strings.ToUpper(strings.TrimSpace(group))
	if group == "" || group == "CLR" || group == "SKC" {
		return sc, nil
	}
	for _, token := range strings.Fields(group) {
		matches := cloudRegex.FindStringSubmatch(token)
		if matches == nil {
			return nil, &DecodeError{Group: "sky condition", Raw: token, Msg: "unknown coverage code"}
		}
		layer := SkyLayer{
			Coverage:   Coverage(matches[1]),
			Convective: matches[3] == "CB",
		}
		if matches[2] != "" && !strings.Contains(matches[2], "/") {
			hundreds, err := strconv.ParseFloat(matches[2], 64)
			if err != nil {
				return nil, &DecodeError{Group: "sky condition", Raw: token, Msg: "unparsable layer height"}
			}
			height := hundreds * 100
			layer.Height = &height
		}
		sc.Layers = append(sc.Layers, layer)
	}
	return sc, nil
}

// AsUnit returns a copy of the sky condition with layer heights converted to
// the given length unit.
func (sc *SkyCondition) AsUnit(to units.Unit) (*SkyCondition, error) {
	out := &SkyCondition{Unit: to, Layers: make([]SkyLayer, len(sc.Layers))}
	for i, layer := range sc.Layers {
		out.Layers[i] = layer
		if layer.Height != nil {
			h, err := units.Convert(*layer.Height, sc.Unit, to)
			if err != nil {
				return nil, err
			}
			out.Layers[i].Height = &h
		}
	}
	return out, nil
}

// ConvertTo converts the sky condition in place to the given length unit.
func (sc *SkyCondition) ConvertTo(to units.Unit) error {
	out, err := sc.AsUnit(to)
	if err != nil {
		return err
	}
	*sc = *out
	return nil
}

// Description renders the layer stack in plain language.
func (sc *SkyCondition) Description() string {
	if len(sc.Layers) == 0 {
		return "Clear skies"
	}
	parts := make([]string, 0, len(sc.Layers))
	for _, layer := range sc.Layers {
		var sb strings.Builder
		sb.WriteString(layer.Coverage.Label())
		if layer.Height != nil {
			fmt.Fprintf(&sb, " at %.0f %s", *layer.Height, sc.Unit.Symbol)
		} else {
			sb.WriteString(" below station")
		}
		if layer.Convective {
			sb.WriteString(" (Cumulonimbus)")
		}
		parts = append(parts, sb.String())
	}
	return strings.Join(parts, ", ")
}
