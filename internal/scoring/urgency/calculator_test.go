package urgency

import (
	"math"
	"strings"
	"testing"

	"inspection-backend/internal/scoring"
)

func TestCalculateConditionOnly(t *testing.T) {
	cases := []struct {
		condition scoring.Condition
		itemType  string
		want      Level
	}{
		{scoring.ConditionGood, "brakes", LevelLow},
		{scoring.ConditionGood, "audio", LevelLow},
		{scoring.ConditionFair, "brakes", LevelNormal},
		{scoring.ConditionPoor, "brakes", LevelHigh},
		{scoring.ConditionNeedsImmediate, "brakes", LevelCritical},
		{scoring.ConditionNeedsImmediate, "wipers", LevelCritical},
		{scoring.ConditionNeedsImmediate, "audio", LevelCritical},
		{scoring.ConditionNeedsImmediate, "unknown-widget", LevelCritical},
	}
	for _, tc := range cases {
		t.Run(string(tc.condition)+"_"+tc.itemType, func(t *testing.T) {
			for priority := 0; priority <= 6; priority++ {
				res := Calculate(Input{Condition: tc.condition, ItemType: tc.itemType, Priority: priority})
				if res.Score < 0 || res.Score > 100 {
					t.Fatalf("score out of range: %d", res.Score)
				}
				if tc.condition == scoring.ConditionGood || tc.condition == scoring.ConditionNeedsImmediate {
					if res.Level != tc.want {
						t.Fatalf("priority %d: expected %s, got %s (score %d)", priority, tc.want, res.Level, res.Score)
					}
				}
			}
			res := Calculate(Input{Condition: tc.condition, ItemType: tc.itemType})
			if res.Level != tc.want {
				t.Fatalf("expected %s, got %s (score %d)", tc.want, res.Level, res.Score)
			}
			if res.Level != LevelFor(res.Score) {
				t.Fatalf("level %s inconsistent with score %d", res.Level, res.Score)
			}
		})
	}
}

func TestCalculateNeedsImmediateBrakesScenario(t *testing.T) {
	res := Calculate(Input{
		Condition:    scoring.ConditionNeedsImmediate,
		ItemType:     "brakes",
		Measurements: scoring.Measurements{scoring.PadThicknessMM: 1.5},
		Priority:     1,
	})
	if res.Level != LevelCritical {
		t.Fatalf("expected critical, got %s", res.Level)
	}
	if res.Score <= 85 {
		t.Fatalf("expected score > 85, got %d", res.Score)
	}
	if len(res.Factors) == 0 || res.Factors[0] != "Condition: needs_immediate (+95)" {
		t.Fatalf("expected condition factor first, got %v", res.Factors)
	}
	if !contains(res.Recommendations, "STOP DRIVING - Immediate safety risk") {
		t.Fatalf("expected STOP DRIVING recommendation, got %v", res.Recommendations)
	}
}

func TestCalculatePoorTiresScenario(t *testing.T) {
	res := Calculate(Input{
		Condition:    scoring.ConditionPoor,
		ItemType:     "tires",
		Measurements: scoring.Measurements{scoring.TreadDepth32nds: 3},
		Priority:     2,
	})
	if res.Level != LevelHigh {
		t.Fatalf("expected high, got %s (score %d, factors %v)", res.Level, res.Score, res.Factors)
	}
	if res.Score <= 60 {
		t.Fatalf("expected score > 60, got %d", res.Score)
	}
}

func TestCalculateFairBorderlineIsNormal(t *testing.T) {
	res := Calculate(Input{
		Condition:    scoring.ConditionFair,
		ItemType:     "brakes",
		Measurements: scoring.Measurements{scoring.PadThicknessMM: 3.5},
	})
	if res.Level != LevelNormal {
		t.Fatalf("expected normal, got %s (score %d)", res.Level, res.Score)
	}
	if res.Score < 30 || res.Score > 65 {
		t.Fatalf("expected score in 30-65, got %d", res.Score)
	}
}

func TestCalculateSafetyItemsOutscoreCosmetic(t *testing.T) {
	conditions := []scoring.Condition{
		scoring.ConditionGood,
		scoring.ConditionFair,
		scoring.ConditionPoor,
		scoring.ConditionNeedsImmediate,
	}
	for _, c := range conditions {
		for priority := 0; priority <= 5; priority++ {
			brakes := Calculate(Input{Condition: c, ItemType: "brakes", Priority: priority})
			wipers := Calculate(Input{Condition: c, ItemType: "wipers", Priority: priority})
			if brakes.Score <= wipers.Score {
				t.Fatalf("%s/p%d: expected brakes (%d) > wipers (%d)", c, priority, brakes.Score, wipers.Score)
			}
		}
	}
}

func TestCalculateIgnoresInvalidMeasurements(t *testing.T) {
	invalid := []any{nil, "thin", -3.0, math.NaN(), math.Inf(-1), []any{1, 2}, map[string]any{}}
	for _, v := range invalid {
		for _, itemType := range []string{"brakes", "tires", "battery", "fluids"} {
			res := Calculate(Input{
				Condition: scoring.ConditionPoor,
				ItemType:  itemType,
				Measurements: scoring.Measurements{
					scoring.PadThicknessMM:  v,
					scoring.TreadDepth32nds: v,
					scoring.Voltage:         v,
					scoring.LevelPercent:    v,
					scoring.PressurePSI:     v,
				},
			})
			baseline := Calculate(Input{Condition: scoring.ConditionPoor, ItemType: itemType})
			if res.Score != baseline.Score {
				t.Fatalf("%s with %v: expected measurement ignored (score %d), got %d", itemType, v, baseline.Score, res.Score)
			}
		}
	}
}

func TestCalculateUnknownConditionFallsBack(t *testing.T) {
	res := Calculate(Input{Condition: "", ItemType: "brakes"})
	if res.Level != LevelLow {
		t.Fatalf("expected low for missing condition, got %s", res.Level)
	}
	if !strings.HasPrefix(res.Factors[0], "Condition: unknown") {
		t.Fatalf("expected unknown condition factor, got %q", res.Factors[0])
	}
}

func TestCalculateMeasurementOnlyForRelevantItemType(t *testing.T) {
	withPads := Calculate(Input{
		Condition:    scoring.ConditionFair,
		ItemType:     "wipers",
		Measurements: scoring.Measurements{scoring.PadThicknessMM: 1},
	})
	without := Calculate(Input{Condition: scoring.ConditionFair, ItemType: "wipers"})
	if withPads.Score != without.Score {
		t.Fatalf("expected brake measurement ignored for wipers")
	}
}

func TestCalculateFactorsInEvaluationOrder(t *testing.T) {
	res := Calculate(Input{
		Condition:    scoring.ConditionFair,
		ItemType:     "battery",
		Measurements: scoring.Measurements{scoring.Voltage: "12.1"},
		Priority:     3,
	})
	want := []string{
		"Condition: fair (+35)",
		"Measurement: voltage 12.1V, voltage below 12.4V (+6)",
		"Priority: 3 (+6)",
	}
	if len(res.Factors) != len(want) {
		t.Fatalf("expected %d factors, got %v", len(want), res.Factors)
	}
	for i := range want {
		if res.Factors[i] != want[i] {
			t.Fatalf("factor %d: expected %q, got %q", i, want[i], res.Factors[i])
		}
	}
	if res.Score != 47 {
		t.Fatalf("expected score 47, got %d", res.Score)
	}
}

func TestCalculateGoodConditionStaysLow(t *testing.T) {
	itemTypes := []string{
		"brakes", "steering", "tires", "suspension", "engine", "lights", "battery",
		"fluids", "belts", "hoses", "exhaust", "filters", "wipers", "audio", "mystery",
	}
	measurementSets := []scoring.Measurements{
		nil,
		{scoring.PadThicknessMM: 1.5, scoring.RotorThicknessMM: 18},
		{scoring.PadThicknessMM: 3},
		{scoring.TreadDepth32nds: 2, scoring.PressurePSI: 10},
		{scoring.TreadDepth32nds: 4, scoring.PressurePSI: 50},
		{scoring.Voltage: 11.5},
		{scoring.Voltage: 12.2},
		{scoring.LevelPercent: 10},
		{scoring.LevelPercent: 40},
	}
	for _, itemType := range itemTypes {
		for _, m := range measurementSets {
			for priority := 0; priority <= 10; priority++ {
				res := Calculate(Input{Condition: scoring.ConditionGood, ItemType: itemType, Measurements: m, Priority: priority})
				if res.Level != LevelLow || res.Score >= NormalThreshold {
					t.Fatalf("%s %v p%d: expected low below %d, got %s/%d", itemType, m, priority, NormalThreshold, res.Level, res.Score)
				}
			}
		}
	}
}

func TestCalculateGoodConditionCapFactor(t *testing.T) {
	res := Calculate(Input{
		Condition:    scoring.ConditionGood,
		ItemType:     "tires",
		Measurements: scoring.Measurements{scoring.TreadDepth32nds: 2, scoring.PressurePSI: 10},
		Priority:     10,
	})
	if res.Score != NormalThreshold-1 {
		t.Fatalf("expected score %d, got %d", NormalThreshold-1, res.Score)
	}
	last := res.Factors[len(res.Factors)-1]
	if last != "Good condition cap (-12)" {
		t.Fatalf("expected cap factor, got %q", last)
	}

	uncapped := Calculate(Input{Condition: scoring.ConditionGood, ItemType: "brakes", Priority: 2})
	for _, f := range uncapped.Factors {
		if strings.HasPrefix(f, "Good condition cap") {
			t.Fatalf("expected no cap below the ceiling, got %v", uncapped.Factors)
		}
	}
}

func TestCalculateInspectionEmpty(t *testing.T) {
	res := CalculateInspection(nil)
	if res.Level != LevelLow || res.Score != 0 {
		t.Fatalf("expected low/0, got %s/%d", res.Level, res.Score)
	}
	if len(res.Factors) != 1 || res.Factors[0] != "No inspection items" {
		t.Fatalf("unexpected factors: %v", res.Factors)
	}
}

func TestCalculateInspectionAnyCritical(t *testing.T) {
	items := []Input{
		{Condition: scoring.ConditionGood, ItemType: "lights"},
		{Condition: scoring.ConditionGood, ItemType: "tires"},
		{Condition: scoring.ConditionNeedsImmediate, ItemType: "audio"},
		{Condition: scoring.ConditionFair, ItemType: "battery"},
	}
	res := CalculateInspection(items)
	if res.Level != LevelCritical || res.Score != 95 {
		t.Fatalf("expected critical/95, got %s/%d", res.Level, res.Score)
	}
	if res.Factors[0] != "1 critical item(s) found" {
		t.Fatalf("unexpected factor: %q", res.Factors[0])
	}
	if !contains(res.Recommendations, "IMMEDIATE ATTENTION REQUIRED - Do not drive vehicle") {
		t.Fatalf("missing immediate attention recommendation: %v", res.Recommendations)
	}
}

func TestCalculateInspectionPoorMajority(t *testing.T) {
	items := []Input{
		{Condition: scoring.ConditionPoor, ItemType: "wipers"},
		{Condition: scoring.ConditionPoor, ItemType: "filters"},
		{Condition: scoring.ConditionGood, ItemType: "lights"},
	}
	res := CalculateInspection(items)
	if res.Level != LevelHigh || res.Score != 75 {
		t.Fatalf("expected high/75, got %s/%d", res.Level, res.Score)
	}
	if !contains(res.Recommendations, "Schedule repair within 1-2 weeks") {
		t.Fatalf("missing repair recommendation: %v", res.Recommendations)
	}
}

func TestCalculateInspectionCascadesFromHighestLevel(t *testing.T) {
	cases := []struct {
		name  string
		items []Input
		level Level
		score int
	}{
		{
			name: "normal",
			items: []Input{
				{Condition: scoring.ConditionFair, ItemType: "brakes"},
				{Condition: scoring.ConditionGood, ItemType: "tires"},
				{Condition: scoring.ConditionGood, ItemType: "lights"},
			},
			level: LevelNormal,
			score: 45,
		},
		{
			name: "low",
			items: []Input{
				{Condition: scoring.ConditionGood, ItemType: "brakes"},
			},
			level: LevelLow,
			score: 15,
		},
		{
			name: "single_poor_among_many",
			items: []Input{
				{Condition: scoring.ConditionPoor, ItemType: "brakes"},
				{Condition: scoring.ConditionGood, ItemType: "tires"},
				{Condition: scoring.ConditionGood, ItemType: "lights"},
			},
			level: LevelHigh,
			score: 65,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := CalculateInspection(tc.items)
			if res.Level != tc.level || res.Score != tc.score {
				t.Fatalf("expected %s/%d, got %s/%d", tc.level, tc.score, res.Level, res.Score)
			}
		})
	}
}

func contains(items []string, want string) bool {
	for _, item := range items {
		if item == want {
			return true
		}
	}
	return false
}
