package scoring

import "strings"

// Condition is the qualitative state a technician records for an inspected component.
type Condition string

const (
	ConditionGood           Condition = "good"
	ConditionFair           Condition = "fair"
	ConditionPoor           Condition = "poor"
	ConditionNeedsImmediate Condition = "needs_immediate"
)

// ParseCondition normalizes raw input. The second return is false when the value
// is not a known condition; ConditionGood is returned in that case.
func ParseCondition(raw string) (Condition, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	switch Condition(key) {
	case ConditionGood, ConditionFair, ConditionPoor, ConditionNeedsImmediate:
		return Condition(key), true
	case "immediate":
		return ConditionNeedsImmediate, true
	default:
		return ConditionGood, false
	}
}

// Valid reports whether c is exactly one of the known conditions.
func (c Condition) Valid() bool {
	switch c {
	case ConditionGood, ConditionFair, ConditionPoor, ConditionNeedsImmediate:
		return true
	default:
		return false
	}
}
