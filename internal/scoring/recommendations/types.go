package recommendations

import (
	"time"

	"inspection-backend/internal/scoring"
)

// Primary action types.
const (
	TypeImmediateAction = "immediate_action"
	TypeReplacement     = "replacement"
	TypeMonitoring      = "monitoring"
	TypeRepair          = "repair"
)

// Urgency values for the primary action.
const (
	UrgencyImmediate = "immediate"
	UrgencySoon      = "soon"
	UrgencyScheduled = "scheduled"
)

// VehicleInfo carries the vehicle attributes used for preventive suggestions.
type VehicleInfo struct {
	Year    int    `json:"year,omitempty"`
	Make    string `json:"make,omitempty"`
	Model   string `json:"model,omitempty"`
	Mileage *int   `json:"mileage,omitempty"`
}

// ShopConfig is the tenant-level presentation policy for recommendations.
type ShopConfig struct {
	IncludeCostEstimates bool    `json:"includeCostEstimates"`
	LaborRate            float64 `json:"laborRate"`
	MarkupPercent        float64 `json:"markupPercent"`
	IncludePartNumbers   bool    `json:"includePartNumbers"`
	IncludeTimeframes    bool    `json:"includeTimeframes"`
}

// DefaultShopConfig is applied when the caller supplies no shop configuration.
func DefaultShopConfig() ShopConfig {
	return ShopConfig{
		IncludeCostEstimates: false,
		LaborRate:            DefaultLaborRate,
		MarkupPercent:        0,
		IncludePartNumbers:   false,
		IncludeTimeframes:    true,
	}
}

// Input is everything the engine needs for one inspection item.
type Input struct {
	ItemType     string               `json:"itemType"`
	Condition    scoring.Condition    `json:"condition"`
	Measurements scoring.Measurements `json:"measurements,omitempty"`
	Vehicle      *VehicleInfo         `json:"vehicleInfo,omitempty"`
	Shop         *ShopConfig          `json:"shopConfig,omitempty"`
	// AsOf anchors date calculations; zero means now.
	AsOf time.Time `json:"-"`
}

// Cost is a marked-up estimate in the shop's currency.
type Cost struct {
	Parts float64 `json:"parts"`
	Labor float64 `json:"labor"`
	Total float64 `json:"total"`
}

// Primary is the main recommended action for an item.
type Primary struct {
	Type          string   `json:"type"`
	Urgency       string   `json:"urgency"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Benefits      []string `json:"benefits"`
	Timeframe     string   `json:"timeframe,omitempty"`
	PartNumbers   []string `json:"partNumbers,omitempty"`
	EstimatedCost *Cost    `json:"estimatedCost,omitempty"`
}

// PreventiveItem is a mileage-based maintenance suggestion.
type PreventiveItem struct {
	Service       string `json:"service"`
	IntervalMiles int    `json:"intervalMiles"`
	DueAtMileage  int    `json:"dueAtMileage"`
}

// Result is the full recommendation for an item.
type Result struct {
	Primary         Primary          `json:"primary"`
	Secondary       []string         `json:"secondary"`
	Preventive      []PreventiveItem `json:"preventive"`
	NextServiceDate *time.Time       `json:"nextServiceDate,omitempty"`
}
