package scoring

import "strings"

var itemTypeAliases = map[string]string{
	"brake":        "brakes",
	"brake_pads":   "brakes",
	"tire":         "tires",
	"tyres":        "tires",
	"fluid":        "fluids",
	"wiper":        "wipers",
	"wiper_blades": "wipers",
	"light":        "lights",
	"belt":         "belts",
	"hose":         "hoses",
	"filter":       "filters",
}

// NormalizeItemType returns the lookup key for a free-text item type:
// trimmed, lower-cased, separators folded to underscores, common aliases resolved.
func NormalizeItemType(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	for strings.Contains(key, "__") {
		key = strings.ReplaceAll(key, "__", "_")
	}
	key = strings.Trim(key, "_")
	if alias, ok := itemTypeAliases[key]; ok {
		return alias
	}
	return key
}

// DisplayItemType renders an item type for user-facing text.
func DisplayItemType(raw string) string {
	key := NormalizeItemType(raw)
	if key == "" {
		return "component"
	}
	return strings.ReplaceAll(key, "_", " ")
}
