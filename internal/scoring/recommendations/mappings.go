package recommendations

import (
	"fmt"

	"inspection-backend/internal/scoring"
)

const (
	// DefaultLaborRate is the hourly rate used when a shop has none configured.
	DefaultLaborRate = 120.0

	defaultPartsCost  = 100.0
	defaultLaborHours = 1.0

	serviceBoundaryMiles = 5000
	milesPerMonth        = 1000
	maxServiceMonths     = 6
	oldVehicleMonths     = 3
	oldVehicleYears      = 10
)

type itemProfile struct {
	partsCost   float64
	laborHours  float64
	repairable  bool
	benefits    []string
	partNumbers []string
}

var itemProfiles = map[string]itemProfile{
	"brakes": {
		partsCost:   150,
		laborHours:  2.0,
		benefits:    []string{"Prevent accidents", "Maintain stopping power", "Avoid rotor damage"},
		partNumbers: []string{"BRK-PAD-STD", "BRK-HW-KIT"},
	},
	"tires": {
		partsCost:   600,
		laborHours:  1.0,
		benefits:    []string{"Improve traction and handling", "Reduce blowout risk", "Better fuel economy"},
		partNumbers: []string{"TIRE-ALL-SEASON", "TIRE-VALVE-STEM"},
	},
	"battery": {
		partsCost:   180,
		laborHours:  0.5,
		benefits:    []string{"Reliable starts", "Avoid unexpected breakdowns"},
		partNumbers: []string{"BAT-GRP-24F"},
	},
	"fluids": {
		partsCost:   40,
		laborHours:  0.5,
		repairable:  true,
		benefits:    []string{"Protect engine components", "Prevent overheating"},
		partNumbers: []string{"FLD-SYN-5W30"},
	},
	"wipers": {
		partsCost:   30,
		laborHours:  0.25,
		benefits:    []string{"Clear visibility in bad weather"},
		partNumbers: []string{"WPR-BLADE-22"},
	},
	"lights": {
		partsCost:   25,
		laborHours:  0.5,
		benefits:    []string{"See and be seen at night", "Avoid traffic citations"},
		partNumbers: []string{"LMP-H11"},
	},
	"suspension": {
		partsCost:  400,
		laborHours: 3.0,
		repairable: true,
		benefits:   []string{"Stable handling", "Even tire wear"},
	},
	"steering": {
		partsCost:  350,
		laborHours: 2.5,
		repairable: true,
		benefits:   []string{"Precise steering control", "Prevent loss of control"},
	},
	"engine": {
		partsCost:  250,
		laborHours: 3.0,
		repairable: true,
		benefits:   []string{"Maintain engine performance", "Prevent costly engine damage"},
	},
	"exhaust": {
		partsCost:  220,
		laborHours: 1.5,
		repairable: true,
		benefits:   []string{"Keep exhaust fumes out of the cabin", "Pass emissions testing"},
	},
	"filters": {
		partsCost:   35,
		laborHours:  0.5,
		benefits:    []string{"Cleaner air intake", "Better fuel economy"},
		partNumbers: []string{"FLT-AIR-STD", "FLT-CABIN-STD"},
	},
	"belts": {
		partsCost:  60,
		laborHours: 1.0,
		repairable: true,
		benefits:   []string{"Keep accessories powered", "Avoid roadside breakdowns"},
	},
	"hoses": {
		partsCost:  45,
		laborHours: 1.0,
		repairable: true,
		benefits:   []string{"Prevent coolant leaks", "Prevent overheating"},
	},
}

var defaultBenefits = []string{"Maintain vehicle safety", "Prevent costly repairs"}

type interval struct {
	service string
	miles   int
}

var maintenanceIntervals = map[string][]interval{
	"brakes":     {{service: "Brake fluid flush", miles: 30000}},
	"tires":      {{service: "Tire rotation", miles: 7500}, {service: "Wheel alignment check", miles: 15000}},
	"battery":    {{service: "Battery load test", miles: 50000}},
	"fluids":     {{service: "Oil and filter change", miles: 5000}, {service: "Coolant flush", miles: 60000}},
	"filters":    {{service: "Engine air filter replacement", miles: 15000}},
	"belts":      {{service: "Serpentine belt replacement", miles: 60000}},
	"engine":     {{service: "Spark plug replacement", miles: 100000}},
	"suspension": {{service: "Shock and strut inspection", miles: 50000}},
}

type measurementNote struct {
	key    string
	format func(v float64) string
}

var measurementNotes = []measurementNote{
	{key: scoring.PadThicknessMM, format: func(v float64) string {
		return fmt.Sprintf("Brake pad thickness measured at %smm; replace below 3mm", trim(v))
	}},
	{key: scoring.RotorThicknessMM, format: func(v float64) string {
		return fmt.Sprintf("Rotor thickness measured at %smm; verify against minimum spec", trim(v))
	}},
	{key: scoring.TreadDepth32nds, format: func(v float64) string {
		return fmt.Sprintf("Tire tread depth at %s/32\"; replace at 4/32\" or below", trim(v))
	}},
	{key: scoring.PressurePSI, format: func(v float64) string {
		return fmt.Sprintf("Tire pressure at %s psi; adjust to door placard specification", trim(v))
	}},
	{key: scoring.Voltage, format: func(v float64) string {
		return fmt.Sprintf("Battery voltage at %sV; a healthy battery rests at 12.4V or higher", trim(v))
	}},
	{key: scoring.LevelPercent, format: func(v float64) string {
		return fmt.Sprintf("Fluid level at %s%%; top off and check for leaks", trim(v))
	}},
}

type template struct {
	kind      string
	urgency   string
	title     string
	desc      string
	timeframe string
}

func templateFor(condition scoring.Condition, repairable bool) template {
	switch condition {
	case scoring.ConditionNeedsImmediate:
		return template{
			kind:      TypeImmediateAction,
			urgency:   UrgencyImmediate,
			title:     "Immediate %s attention required",
			desc:      "Immediate attention is needed for the %s. The vehicle should not be driven until repairs are complete.",
			timeframe: "Immediately",
		}
	case scoring.ConditionPoor:
		if repairable {
			return template{
				kind:      TypeRepair,
				urgency:   UrgencySoon,
				title:     "Repair %s",
				desc:      "Repair of the %s is recommended soon; the component is in poor condition.",
				timeframe: "Within 1-2 weeks",
			}
		}
		return template{
			kind:      TypeReplacement,
			urgency:   UrgencySoon,
			title:     "Replace %s",
			desc:      "Replacement of the %s is recommended soon; the component is in poor condition.",
			timeframe: "Within 1-2 weeks",
		}
	case scoring.ConditionFair:
		return template{
			kind:      TypeMonitoring,
			urgency:   UrgencyScheduled,
			title:     "Monitor %s",
			desc:      "Wear was found on the %s. Monitor it and plan service at an upcoming visit.",
			timeframe: "Within 3 months",
		}
	default:
		return template{
			kind:    TypeMonitoring,
			urgency: UrgencyScheduled,
			title:   "Maintain %s",
			desc:    "The condition of the %s is good. Continue regular maintenance.",
		}
	}
}
