package scoring

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Measurement keys recognized by the rule tables.
const (
	PadThicknessMM   = "pad_thickness_mm"
	RotorThicknessMM = "rotor_thickness_mm"
	TreadDepth32nds  = "tread_depth_32nds"
	PressurePSI      = "pressure_psi"
	Voltage          = "voltage"
	LevelPercent     = "level_percent"
)

// Measurements maps a measurement name to whatever the client sent for it.
// Values are decoded JSON, so anything may appear; use Float to read them.
type Measurements map[string]any

// Float returns the named measurement as a usable number. Missing, null,
// non-numeric, negative and non-finite values all report ok=false.
func (m Measurements) Float(key string) (float64, bool) {
	if m == nil {
		return 0, false
	}
	raw, ok := m[key]
	if !ok {
		return 0, false
	}
	return ToFloat(raw)
}

// ToFloat coerces a decoded JSON value into a non-negative finite float.
func ToFloat(raw any) (float64, bool) {
	var v float64
	switch t := raw.(type) {
	case nil:
		return 0, false
	case float64:
		v = t
	case float32:
		v = float64(t)
	case int:
		v = float64(t)
	case int32:
		v = float64(t)
	case int64:
		v = float64(t)
	case uint:
		v = float64(t)
	case uint32:
		v = float64(t)
	case uint64:
		v = float64(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, false
		}
		v = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		v = f
	default:
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, false
	}
	return v, true
}
