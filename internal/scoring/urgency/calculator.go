package urgency

import (
	"fmt"
	"math"

	"inspection-backend/internal/scoring"
)

// Calculate scores a single inspection item. It never fails: unknown
// conditions fall back to good, unknown item types use the default weight,
// and unusable measurement values are skipped.
func Calculate(in Input) Result {
	factors := make([]string, 0, 6)

	condition, known := scoring.ParseCondition(string(in.Condition))
	base := conditionBase[condition]
	if known {
		factors = append(factors, fmt.Sprintf("Condition: %s (%s)", condition, signed(base)))
	} else {
		factors = append(factors, fmt.Sprintf("Condition: unknown (%s)", signed(base)))
	}
	score := base

	itemType := scoring.NormalizeItemType(in.ItemType)
	multiplier, _ := multiplierFor(itemType)
	if delta := int(math.Round(float64(base) * (multiplier - 1))); delta != 0 {
		score += delta
		factors = append(factors, fmt.Sprintf("Item type: %s x%.2f (%s)", scoring.DisplayItemType(itemType), multiplier, signed(delta)))
	}

	for _, rule := range measurementRules[itemType] {
		value, ok := in.Measurements.Float(rule.key)
		if !ok {
			continue
		}
		for _, band := range rule.bands {
			if !band.matches(value) {
				continue
			}
			score += band.points
			factors = append(factors, fmt.Sprintf("Measurement: %s %s%s, %s (%s)", rule.key, formatValue(value), rule.unit, band.label, signed(band.points)))
			break
		}
	}

	if in.Priority > 0 {
		p := in.Priority
		if p > priorityCap {
			p = priorityCap
		}
		boost := p * priorityPoints
		score += boost
		factors = append(factors, fmt.Sprintf("Priority: %d (%s)", in.Priority, signed(boost)))
	}

	if condition == scoring.ConditionNeedsImmediate && score < immediateFloor {
		factors = append(factors, fmt.Sprintf("Immediate attention floor (%s)", signed(immediateFloor-score)))
		score = immediateFloor
	}
	if condition == scoring.ConditionGood && score > goodCeiling {
		factors = append(factors, fmt.Sprintf("Good condition cap (%s)", signed(goodCeiling-score)))
		score = goodCeiling
	}

	score = clamp(score)
	level := LevelFor(score)
	return Result{
		Level:           level,
		Score:           score,
		Factors:         factors,
		Recommendations: recommendationsFor(level),
	}
}

// CalculateInspection folds per-item urgency into one inspection-level result.
func CalculateInspection(items []Input) Result {
	if len(items) == 0 {
		return Result{
			Level:           LevelLow,
			Score:           0,
			Factors:         []string{"No inspection items"},
			Recommendations: []string{},
		}
	}

	critical := 0
	poor := 0
	highest := LevelLow
	for _, item := range items {
		res := Calculate(item)
		if res.Level == LevelCritical {
			critical++
		}
		if res.Level.Rank() > highest.Rank() {
			highest = res.Level
		}
		if c, _ := scoring.ParseCondition(string(item.Condition)); c == scoring.ConditionPoor {
			poor++
		}
	}

	if critical > 0 {
		return Result{
			Level:   LevelCritical,
			Score:   criticalAggregateScore,
			Factors: []string{fmt.Sprintf("%d critical item(s) found", critical)},
			Recommendations: []string{
				"IMMEDIATE ATTENTION REQUIRED - Do not drive vehicle",
				"Contact customer before release",
			},
		}
	}

	if poor >= 2 || poor*2 > len(items) {
		return Result{
			Level:           LevelHigh,
			Score:           poorAggregateScore,
			Factors:         []string{fmt.Sprintf("%d item(s) in poor condition", poor)},
			Recommendations: []string{"Schedule repair within 1-2 weeks"},
		}
	}

	return Result{
		Level:           highest,
		Score:           cascadeScore[highest],
		Factors:         []string{fmt.Sprintf("Highest item urgency: %s", highest)},
		Recommendations: recommendationsFor(highest),
	}
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func signed(points int) string {
	if points < 0 {
		return fmt.Sprintf("-%d", -points)
	}
	return fmt.Sprintf("+%d", points)
}

func formatValue(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%g", v)
}
