package urgency

import "inspection-backend/internal/scoring"

// Level is the bucketed severity of a score.
type Level string

const (
	LevelLow      Level = "low"
	LevelNormal   Level = "normal"
	LevelHigh     Level = "high"
	LevelCritical Level = "critical"
)

// Input describes one inspected item.
type Input struct {
	Condition    scoring.Condition    `json:"condition"`
	ItemType     string               `json:"itemType"`
	Measurements scoring.Measurements `json:"measurements,omitempty"`
	Priority     int                  `json:"priority"`
}

// Result is the scored urgency of an item or a whole inspection.
type Result struct {
	Level           Level    `json:"level"`
	Score           int      `json:"score"`
	Factors         []string `json:"factors"`
	Recommendations []string `json:"recommendations"`
}

// Rank orders levels from low (0) to critical (3).
func (l Level) Rank() int {
	switch l {
	case LevelCritical:
		return 3
	case LevelHigh:
		return 2
	case LevelNormal:
		return 1
	default:
		return 0
	}
}
