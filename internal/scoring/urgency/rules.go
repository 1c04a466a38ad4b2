package urgency

import "inspection-backend/internal/scoring"

// Level cutoffs, inclusive lower bounds.
const (
	CriticalThreshold = 85
	HighThreshold     = 60
	NormalThreshold   = 30

	immediateFloor   = 90
	priorityCap      = 5
	priorityPoints   = 2
	goodCeiling      = NormalThreshold - 1
	defaultItemScale = 1.0
)

var conditionBase = map[scoring.Condition]int{
	scoring.ConditionGood:           10,
	scoring.ConditionFair:           35,
	scoring.ConditionPoor:           55,
	scoring.ConditionNeedsImmediate: 95,
}

// Safety-critical systems weigh more than comfort and cosmetic ones.
var itemTypeMultiplier = map[string]float64{
	"brakes":     1.20,
	"steering":   1.20,
	"tires":      1.15,
	"suspension": 1.10,
	"engine":     1.10,
	"lights":     1.05,
	"battery":    1.00,
	"fluids":     1.00,
	"belts":      1.00,
	"hoses":      1.00,
	"exhaust":    0.95,
	"filters":    0.90,
	"wipers":     0.80,
	"audio":      0.60,
	"cosmetic":   0.60,
}

// threshold boosts the score when matches reports true. Bands for one key are
// evaluated in order and only the first matching band applies.
type threshold struct {
	label   string
	points  int
	matches func(v float64) bool
}

type measurementRule struct {
	key   string
	unit  string
	bands []threshold
}

var measurementRules = map[string][]measurementRule{
	"brakes": {
		{
			key:  scoring.PadThicknessMM,
			unit: "mm",
			bands: []threshold{
				{label: "brake pads below 2mm", points: 15, matches: func(v float64) bool { return v < 2 }},
				{label: "brake pads below 4mm", points: 8, matches: func(v float64) bool { return v < 4 }},
			},
		},
		{
			key:  scoring.RotorThicknessMM,
			unit: "mm",
			bands: []threshold{
				{label: "rotor below 20mm", points: 5, matches: func(v float64) bool { return v < 20 }},
			},
		},
	},
	"tires": {
		{
			key:  scoring.TreadDepth32nds,
			unit: "/32\"",
			bands: []threshold{
				{label: "tread at or below 2/32\"", points: 15, matches: func(v float64) bool { return v <= 2 }},
				{label: "tread at or below 4/32\"", points: 8, matches: func(v float64) bool { return v <= 4 }},
			},
		},
		{
			key:  scoring.PressurePSI,
			unit: "psi",
			bands: []threshold{
				{label: "pressure out of range", points: 5, matches: func(v float64) bool { return v < 25 || v > 45 }},
			},
		},
	},
	"battery": {
		{
			key:  scoring.Voltage,
			unit: "V",
			bands: []threshold{
				{label: "voltage below 11.8V", points: 12, matches: func(v float64) bool { return v < 11.8 }},
				{label: "voltage below 12.4V", points: 6, matches: func(v float64) bool { return v < 12.4 }},
			},
		},
	},
	"fluids": {
		{
			key:  scoring.LevelPercent,
			unit: "%",
			bands: []threshold{
				{label: "level below 25%", points: 10, matches: func(v float64) bool { return v < 25 }},
				{label: "level below 50%", points: 5, matches: func(v float64) bool { return v < 50 }},
			},
		},
	},
}

var levelRecommendations = map[Level][]string{
	LevelCritical: {"STOP DRIVING - Immediate safety risk", "Schedule immediate repair"},
	LevelHigh:     {"Schedule repair within 1-2 weeks", "Monitor closely until repaired"},
	LevelNormal:   {"Plan service at next scheduled visit", "Monitor condition"},
	LevelLow:      {"Continue regular maintenance"},
}

// Fixed aggregate scores used by CalculateInspection.
const (
	criticalAggregateScore = 95
	poorAggregateScore     = 75
)

// cascadeScore is used when the aggregate follows the highest item level
// rather than a critical or poor-majority rule.
var cascadeScore = map[Level]int{
	LevelHigh:   65,
	LevelNormal: 45,
	LevelLow:    15,
}

func multiplierFor(itemType string) (float64, bool) {
	if m, ok := itemTypeMultiplier[itemType]; ok {
		return m, true
	}
	return defaultItemScale, false
}

// LevelFor buckets a clamped score.
func LevelFor(score int) Level {
	switch {
	case score >= CriticalThreshold:
		return LevelCritical
	case score >= HighThreshold:
		return LevelHigh
	case score >= NormalThreshold:
		return LevelNormal
	default:
		return LevelLow
	}
}

func recommendationsFor(level Level) []string {
	return append([]string{}, levelRecommendations[level]...)
}
